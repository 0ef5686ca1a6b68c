package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Причины отказа для intake_orders_rejected_total.
const (
	RejectReasonValidation = "validation"
	RejectReasonDuplicate  = "duplicate"
)

// IntakeMetrics содержит метрики write-path приёма заказов.
type IntakeMetrics struct {
	ordersCreated  prometheus.Counter
	ordersRejected *prometheus.CounterVec

	intakeDuration prometheus.Histogram

	notificationsInFlight prometheus.Gauge
	notificationFailures  prometheus.Counter
}

// NewIntakeMetrics создаёт метрики в default-регистраторе Prometheus.
func NewIntakeMetrics() *IntakeMetrics {
	return newIntakeMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

func newIntakeMetricsWithRegisterer(registerer prometheus.Registerer) *IntakeMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &IntakeMetrics{
		ordersCreated: registerCounter(registerer, prometheus.CounterOpts{
			Name: "intake_orders_created_total",
			Help: "Total number of orders accepted and persisted",
		}),
		ordersRejected: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "intake_orders_rejected_total",
			Help: "Total number of rejected order requests grouped by reason",
		}, []string{"reason"}),
		intakeDuration: registerHistogram(registerer, prometheus.HistogramOpts{
			Name:    "intake_request_duration_seconds",
			Help:    "Duration of the intake write path in seconds",
			Buckets: prometheus.DefBuckets,
		}),
		notificationsInFlight: registerGauge(registerer, prometheus.GaugeOpts{
			Name: "intake_notifications_in_flight",
			Help: "Number of logistics notifications currently in flight",
		}),
		notificationFailures: registerCounter(registerer, prometheus.CounterOpts{
			Name: "intake_notification_failures_total",
			Help: "Total number of failed logistics notifications",
		}),
	}
}

func registerCounter(registerer prometheus.Registerer, opts prometheus.CounterOpts) prometheus.Counter {
	collector := prometheus.NewCounter(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Counter)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter %q: %v", opts.Name, err))
	}
	return collector
}

func registerCounterVec(registerer prometheus.Registerer, opts prometheus.CounterOpts, labels []string) *prometheus.CounterVec {
	collector := prometheus.NewCounterVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.CounterVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter vec %q: %v", opts.Name, err))
	}
	return collector
}

func registerGauge(registerer prometheus.Registerer, opts prometheus.GaugeOpts) prometheus.Gauge {
	collector := prometheus.NewGauge(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Gauge)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register gauge %q: %v", opts.Name, err))
	}
	return collector
}

func registerHistogram(registerer prometheus.Registerer, opts prometheus.HistogramOpts) prometheus.Histogram {
	collector := prometheus.NewHistogram(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Histogram)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register histogram %q: %v", opts.Name, err))
	}
	return collector
}

// RecordOrderCreated увеличивает счётчик принятых заказов.
func (m *IntakeMetrics) RecordOrderCreated() {
	m.ordersCreated.Inc()
}

// RecordOrderRejected увеличивает счётчик отказов по причине.
func (m *IntakeMetrics) RecordOrderRejected(reason string) {
	m.ordersRejected.WithLabelValues(reason).Inc()
}

// RecordIntakeDuration записывает длительность обработки запроса.
func (m *IntakeMetrics) RecordIntakeDuration(d time.Duration) {
	m.intakeDuration.Observe(d.Seconds())
}

// RecordNotificationStarted отмечает запуск фонового уведомления.
func (m *IntakeMetrics) RecordNotificationStarted() {
	m.notificationsInFlight.Inc()
}

// RecordNotificationFinished отмечает завершение фонового уведомления.
func (m *IntakeMetrics) RecordNotificationFinished() {
	m.notificationsInFlight.Dec()
}

// RecordNotificationFailure увеличивает счётчик сбоев уведомлений.
func (m *IntakeMetrics) RecordNotificationFailure() {
	m.notificationFailures.Inc()
}
