// Package events publishes appointment domain events to RabbitMQ.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	QueueAppointments = "binda.appointments"

	dialTimeout    = 5 * time.Second
	publishTimeout = 10 * time.Second

	TypeBooked        = "appointment.booked"
	TypeStatusChanged = "appointment.status_changed"
)

type Event struct {
	Type          string    `json:"type"`
	TenantID      uuid.UUID `json:"tenant_id"`
	AppointmentID uuid.UUID `json:"appointment_id"`
	StaffID       uuid.UUID `json:"staff_id"`
	Status        string    `json:"status"`
	PreviousState string    `json:"previous_status,omitempty"`
	StartTime     time.Time `json:"start_time"`
	OccurredAt    time.Time `json:"occurred_at"`
}

type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

// AMQPPublisher keeps one connection and reopens it after a failure.
type AMQPPublisher struct {
	url   string
	queue string

	mu   sync.Mutex
	conn *amqp.Connection
	ch   *amqp.Channel
}

func NewAMQPPublisher(url string) *AMQPPublisher {
	return &AMQPPublisher{url: url, queue: QueueAppointments}
}

func (p *AMQPPublisher) channel() (*amqp.Channel, error) {
	if p.ch != nil && !p.ch.IsClosed() {
		return p.ch, nil
	}
	p.closeLocked()

	conn, err := amqp.DialConfig(p.url, amqp.Config{Dial: amqp.DefaultDial(dialTimeout)})
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	// durable so events survive broker restarts
	if _, err := ch.QueueDeclare(p.queue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}

	p.conn, p.ch = conn, ch
	return ch, nil
}

func (p *AMQPPublisher) Publish(ctx context.Context, ev Event) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	ch, err := p.channel()
	if err != nil {
		return err
	}

	err = ch.PublishWithContext(ctx, "", p.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    ev.OccurredAt,
		Type:         ev.Type,
		MessageId:    uuid.NewString(),
		Body:         body,
	})
	if err != nil {
		p.closeLocked()
	}
	return err
}

func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closeLocked()
	return nil
}

func (p *AMQPPublisher) closeLocked() {
	if p.ch != nil {
		_ = p.ch.Close()
		p.ch = nil
	}
	if p.conn != nil {
		_ = p.conn.Close()
		p.conn = nil
	}
}

// ErrQueueFull is returned by Async.Publish when the worker is behind.
var ErrQueueFull = errors.New("event queue full")

// Async hands events to one worker that publishes them in order, so a slow
// or unreachable broker never holds up the caller.
type Async struct {
	next  Publisher
	log   *slog.Logger
	queue chan Event
	wg    sync.WaitGroup
}

func NewAsync(next Publisher, size int, log *slog.Logger) *Async {
	a := &Async{
		next:  next,
		log:   log,
		queue: make(chan Event, size),
	}

	a.wg.Add(1)
	go a.worker()
	return a
}

func (a *Async) worker() {
	defer a.wg.Done()
	for ev := range a.queue {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		if err := a.next.Publish(ctx, ev); err != nil {
			a.log.Warn("event publish failed", "type", ev.Type, "appointment_id", ev.AppointmentID, "error", err)
		}
		cancel()
	}
}

func (a *Async) Publish(_ context.Context, ev Event) error {
	select {
	case a.queue <- ev:
		return nil
	default:
		return ErrQueueFull
	}
}

// Close drains queued events. Publish must not be called afterwards.
func (a *Async) Close() {
	close(a.queue)
	a.wg.Wait()
}

// Nop drops every event; used when AMQP_URL is unset.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }

// Memory records events for tests.
type Memory struct {
	mu     sync.Mutex
	events []Event
}

func (m *Memory) Publish(_ context.Context, ev Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, ev)
	return nil
}

func (m *Memory) Events() []Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Event(nil), m.events...)
}

var (
	_ Publisher = (*AMQPPublisher)(nil)
	_ Publisher = (*Async)(nil)
	_ Publisher = Nop{}
	_ Publisher = (*Memory)(nil)
)
