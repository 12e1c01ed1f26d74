package metrics

import "github.com/prometheus/client_golang/prometheus"

// BookingMetrics exposes counters for the booking intake flow.
type BookingMetrics struct {
	createdTotal     prometheus.Counter
	transitionsTotal *prometheus.CounterVec
	forwardTotal     *prometheus.CounterVec
}

func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	m := &BookingMetrics{
		createdTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sentracare",
			Subsystem: "booking",
			Name:      "created_total",
			Help:      "Total bookings created",
		}),
		transitionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sentracare",
			Subsystem: "booking",
			Name:      "transitions_total",
			Help:      "Total booking status transitions",
		}, []string{"status"}),
		forwardTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sentracare",
			Subsystem: "booking",
			Name:      "forward_total",
			Help:      "Total patient-registration forward attempts",
		}, []string{"outcome"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.createdTotal, m.transitionsTotal, m.forwardTotal)
	return m
}

func (m *BookingMetrics) ObserveCreated() {
	if m == nil {
		return
	}
	m.createdTotal.Inc()
}

func (m *BookingMetrics) ObserveTransition(status string) {
	if m == nil {
		return
	}
	m.transitionsTotal.WithLabelValues(status).Inc()
}

func (m *BookingMetrics) ObserveForward(outcome string) {
	if m == nil {
		return
	}
	m.forwardTotal.WithLabelValues(outcome).Inc()
}
