package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// BookingMetrics exposes counters, histograms and gauges for the booking flow.
type BookingMetrics struct {
	bookingsTotal       *prometheus.CounterVec
	availabilityTotal   *prometheus.CounterVec
	availabilityLatency *prometheus.HistogramVec
	wizardTransitions   *prometheus.CounterVec
	staleResponses      prometheus.Counter
	activeSessions      prometheus.Gauge
}

func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	m := &BookingMetrics{
		bookingsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinic",
			Subsystem: "bookings",
			Name:      "submitted_total",
			Help:      "Booking submissions by result",
		}, []string{"result"}),
		availabilityTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinic",
			Subsystem: "availability",
			Name:      "checks_total",
			Help:      "Availability checks by result",
		}, []string{"result"}),
		availabilityLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "clinic",
			Subsystem: "availability",
			Name:      "check_latency_seconds",
			Help:      "Latency of availability checks",
			Buckets:   prometheus.DefBuckets,
		}, []string{"result"}),
		wizardTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinic",
			Subsystem: "wizard",
			Name:      "transitions_total",
			Help:      "Booking wizard state transitions",
		}, []string{"from", "to"}),
		staleResponses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "clinic",
			Subsystem: "wizard",
			Name:      "stale_availability_total",
			Help:      "Availability answers discarded because a newer query superseded them",
		}),
		activeSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "clinic",
			Subsystem: "wizard",
			Name:      "active_sessions",
			Help:      "Open booking wizard sessions",
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(
		m.bookingsTotal,
		m.availabilityTotal,
		m.availabilityLatency,
		m.wizardTransitions,
		m.staleResponses,
		m.activeSessions,
	)
	return m
}

func (m *BookingMetrics) ObserveBooking(result string) {
	if m == nil {
		return
	}
	m.bookingsTotal.WithLabelValues(result).Inc()
}

func (m *BookingMetrics) ObserveAvailabilityCheck(result string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.availabilityTotal.WithLabelValues(result).Inc()
	m.availabilityLatency.WithLabelValues(result).Observe(elapsed.Seconds())
}

// Transition counts a wizard state change.
func (m *BookingMetrics) Transition(from, to string) {
	if m == nil {
		return
	}
	m.wizardTransitions.WithLabelValues(from, to).Inc()
}

func (m *BookingMetrics) StaleResponse() {
	if m == nil {
		return
	}
	m.staleResponses.Inc()
}

func (m *BookingMetrics) SetActiveSessions(n int) {
	if m == nil {
		return
	}
	m.activeSessions.Set(float64(n))
}
