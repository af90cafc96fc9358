package slot

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	appointment "github.com/BruksfildServices01/binda/internal/domain/appointment"
	"github.com/BruksfildServices01/binda/internal/metrics"
	ucAppointment "github.com/BruksfildServices01/binda/internal/usecase/appointment"
)

const sweepBatch = 100

type SweepResult struct {
	ExpiredLocks      int64
	CancelledPayments int
}

// Sweeper deletes expired slot locks and cancels pending_payment
// appointments whose payment window has passed.
type Sweeper struct {
	locks          appointment.LockRepository
	repo           appointment.Repository
	effects        ucAppointment.Effects
	paymentTimeout time.Duration
	interval       time.Duration
	log            *slog.Logger

	Now func() time.Time

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

func NewSweeper(
	locks appointment.LockRepository,
	repo appointment.Repository,
	effects ucAppointment.Effects,
	paymentTimeout, interval time.Duration,
	log *slog.Logger,
) *Sweeper {
	return &Sweeper{
		locks:          locks,
		repo:           repo,
		effects:        effects,
		paymentTimeout: paymentTimeout,
		interval:       interval,
		log:            log,
		Now:            time.Now,
		stop:           make(chan struct{}),
		done:           make(chan struct{}),
	}
}

// Start runs the sweeper every interval until Stop is called.
func (s *Sweeper) Start() {
	go func() {
		defer close(s.done)

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-s.stop:
				return
			case <-ticker.C:
				ctx, cancel := context.WithTimeout(context.Background(), s.interval)
				if _, err := s.RunNow(ctx); err != nil {
					s.log.Error("sweep failed", "error", err)
				}
				cancel()
			}
		}
	}()
}

// Stop halts a started sweeper and waits for the running cycle to finish.
func (s *Sweeper) Stop() {
	s.stopOnce.Do(func() {
		close(s.stop)
		<-s.done
	})
}

// RunNow performs one sweep cycle.
func (s *Sweeper) RunNow(ctx context.Context) (SweepResult, error) {
	var res SweepResult
	now := s.Now().UTC()

	n, err := s.locks.DeleteExpired(ctx, now)
	if err != nil {
		return res, err
	}
	res.ExpiredLocks = n
	metrics.SweptLocks.Add(float64(n))

	stale, err := s.repo.ListStalePending(ctx, now.Add(-s.paymentTimeout), sweepBatch)
	if err != nil {
		return res, err
	}

	for i := range stale {
		ap := &stale[i]
		from := ap.Status

		if err := appointment.Cancel(ap, now); err != nil {
			s.log.Warn("sweep could not cancel appointment", "appointment_id", ap.ID, "error", err)
			continue
		}
		err := s.repo.UpdateAppointment(ctx, ap, appointment.Status(from))
		if errors.Is(err, appointment.ErrConcurrentUpdate) {
			// paid or cancelled since the batch was read
			continue
		}
		if err != nil {
			return res, err
		}

		res.CancelledPayments++
		metrics.SweptPayments.Inc()
		s.effects.Transitioned(ctx, ap, from, nil, now)
	}

	if res.ExpiredLocks > 0 || res.CancelledPayments > 0 {
		s.log.Info("sweep done", "expired_locks", res.ExpiredLocks, "cancelled_payments", res.CancelledPayments)
	}
	return res, nil
}
