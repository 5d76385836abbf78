package metrics

import "github.com/prometheus/client_golang/prometheus"

// BookingMetrics exposes counters/histograms for the search and booking flows.
type BookingMetrics struct {
	bookingsTotal   *prometheus.CounterVec
	searchesTotal   *prometheus.CounterVec
	lockWaitSeconds prometheus.Histogram
}

func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	m := &BookingMetrics{
		bookingsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "scheduling",
			Subsystem: "booking",
			Name:      "bookings_total",
			Help:      "Total booking attempts by outcome",
		}, []string{"status"}),
		searchesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "scheduling",
			Subsystem: "booking",
			Name:      "searches_total",
			Help:      "Total slot searches by outcome",
		}, []string{"outcome"}),
		lockWaitSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "scheduling",
			Subsystem: "booking",
			Name:      "lock_wait_seconds",
			Help:      "Time spent waiting for the schedule container lock",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.bookingsTotal, m.searchesTotal, m.lockWaitSeconds)
	return m
}

func (m *BookingMetrics) ObserveBooking(status string) {
	if m == nil {
		return
	}
	m.bookingsTotal.WithLabelValues(status).Inc()
}

func (m *BookingMetrics) ObserveSearch(outcome string) {
	if m == nil {
		return
	}
	m.searchesTotal.WithLabelValues(outcome).Inc()
}

func (m *BookingMetrics) ObserveLockWait(seconds float64) {
	if m == nil {
		return
	}
	m.lockWaitSeconds.Observe(seconds)
}

// ReminderMetrics exposes counters for the reminder scheduling and dispatch flow.
type ReminderMetrics struct {
	scheduledTotal *prometheus.CounterVec
	firedTotal     *prometheus.CounterVec
}

func NewReminderMetrics(reg prometheus.Registerer) *ReminderMetrics {
	m := &ReminderMetrics{
		scheduledTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "scheduling",
			Subsystem: "remind",
			Name:      "scheduled_total",
			Help:      "Reminder jobs scheduled or skipped, by kind",
		}, []string{"kind", "status"}),
		firedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "scheduling",
			Subsystem: "remind",
			Name:      "fired_total",
			Help:      "Reminder jobs fired, by kind and dispatch outcome",
		}, []string{"kind", "status"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.scheduledTotal, m.firedTotal)
	return m
}

func (m *ReminderMetrics) ObserveScheduled(kind, status string) {
	if m == nil {
		return
	}
	m.scheduledTotal.WithLabelValues(kind, status).Inc()
}

func (m *ReminderMetrics) ObserveFired(kind, status string) {
	if m == nil {
		return
	}
	m.firedTotal.WithLabelValues(kind, status).Inc()
}
