package audit

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

type Event struct {
	TenantID uuid.UUID
	UserID   *uuid.UUID
	Action   string
	Entity   string
	EntityID *uuid.UUID
	Metadata any
}

// Recorder is what use cases depend on; Dispatch never blocks the request.
type Recorder interface {
	Dispatch(ev Event)
}

type Dispatcher struct {
	logger *Logger
	log    *slog.Logger
	queue  chan Event
	wg     sync.WaitGroup
}

func NewDispatcher(logger *Logger, log *slog.Logger) *Dispatcher {
	d := &Dispatcher{
		logger: logger,
		log:    log,
		queue:  make(chan Event, 100),
	}

	d.wg.Add(1)
	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()
	for ev := range d.queue {
		if err := d.logger.Log(context.Background(), ev); err != nil {
			d.log.Error("audit write failed", "action", ev.Action, "error", err)
		}
	}
}

func (d *Dispatcher) Dispatch(ev Event) {
	select {
	case d.queue <- ev:
	default:
		// queue full; auditing must never fail a request
		d.log.Warn("audit queue full, dropping event", "action", ev.Action)
	}
}

// Close drains pending events. Dispatch must not be called afterwards.
func (d *Dispatcher) Close() {
	close(d.queue)
	d.wg.Wait()
}

// Nop discards events.
type Nop struct{}

func (Nop) Dispatch(Event) {}

var (
	_ Recorder = (*Dispatcher)(nil)
	_ Recorder = Nop{}
)
