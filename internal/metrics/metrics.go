// Package metrics registers the service's Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequests counts requests by route template, method and status.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "binda_http_requests_total",
		Help: "HTTP requests by route, method and status code",
	}, []string{"route", "method", "status"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "binda_http_request_duration_seconds",
		Help:    "HTTP request latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"route", "method"})

	// SlotLocks counts acquire attempts by result: acquired, conflict, busy, error.
	SlotLocks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "binda_slot_lock_acquire_total",
		Help: "Slot lock acquisitions by result",
	}, []string{"result"})

	StatusTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "binda_appointment_transitions_total",
		Help: "Appointment status transitions by source and target status",
	}, []string{"from", "to"})

	Bookings = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "binda_bookings_total",
		Help: "Bookings created by initial status",
	}, []string{"status"})

	// SweptLocks and SweptPayments count rows removed by the background sweeper.
	SweptLocks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "binda_sweeper_expired_locks_total",
		Help: "Expired slot locks deleted by the sweeper",
	})

	SweptPayments = promauto.NewCounter(prometheus.CounterOpts{
		Name: "binda_sweeper_cancelled_payments_total",
		Help: "Pending-payment appointments cancelled after the payment timeout",
	})
)
