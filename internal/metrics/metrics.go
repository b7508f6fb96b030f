package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hotelsub_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "hotelsub_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	BookingsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hotelsub_bookings_total",
			Help: "Total number of bookings created",
		},
		[]string{"status"},
	)

	BookingCancellationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hotelsub_booking_cancellations_total",
			Help: "Total number of booking cancellations",
		},
		[]string{"reason"},
	)

	ExpiredBookingsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hotelsub_expired_bookings_total",
			Help: "Bookings cancelled by the payment-hold expiry sweeper",
		},
	)

	SweepFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hotelsub_sweep_failures_total",
			Help: "Individual booking failures during expiry sweeps",
		},
	)

	RefundsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hotelsub_refunds_total",
			Help: "Total number of wallet refunds issued",
		},
	)

	RefundAmountCents = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hotelsub_refund_amount_cents_total",
			Help: "Total refunded amount in cents",
		},
	)

	WalletTopUpsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hotelsub_wallet_topups_total",
			Help: "Total number of wallet top-ups",
		},
	)

	EventsQueuedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hotelsub_events_queued_total",
			Help: "Domain events pushed to the notification queue",
		},
		[]string{"type"},
	)

	SyncConflictsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hotelsub_partner_sync_conflicts_total",
			Help: "Offline actions discarded after an authoritative server rejection",
		},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

func RecordBooking(status string) {
	BookingsTotal.WithLabelValues(status).Inc()
}

func RecordCancellation(reason string) {
	BookingCancellationsTotal.WithLabelValues(reason).Inc()
}

func RecordRefund(amountCents int64) {
	RefundsTotal.Inc()
	RefundAmountCents.Add(float64(amountCents))
}

func RecordEvent(eventType string) {
	EventsQueuedTotal.WithLabelValues(eventType).Inc()
}
