package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestIntakeMetrics_Counters(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := newIntakeMetricsWithRegisterer(registry)

	m.RecordOrderCreated()
	m.RecordOrderCreated()
	m.RecordOrderRejected(RejectReasonValidation)
	m.RecordOrderRejected(RejectReasonDuplicate)
	m.RecordOrderRejected(RejectReasonDuplicate)
	m.RecordNotificationFailure()
	m.RecordIntakeDuration(5 * time.Millisecond)

	if got := testutil.ToFloat64(m.ordersCreated); got != 2 {
		t.Fatalf("expected 2 created, got %v", got)
	}
	if got := testutil.ToFloat64(m.ordersRejected.WithLabelValues(RejectReasonValidation)); got != 1 {
		t.Fatalf("expected 1 validation reject, got %v", got)
	}
	if got := testutil.ToFloat64(m.ordersRejected.WithLabelValues(RejectReasonDuplicate)); got != 2 {
		t.Fatalf("expected 2 duplicate rejects, got %v", got)
	}
	if got := testutil.ToFloat64(m.notificationFailures); got != 1 {
		t.Fatalf("expected 1 notification failure, got %v", got)
	}
}

func TestIntakeMetrics_InFlightGauge(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := newIntakeMetricsWithRegisterer(registry)

	m.RecordNotificationStarted()
	m.RecordNotificationStarted()
	m.RecordNotificationFinished()

	if got := testutil.ToFloat64(m.notificationsInFlight); got != 1 {
		t.Fatalf("expected 1 in flight, got %v", got)
	}
}

func TestIntakeMetrics_DoubleRegistrationReusesCollectors(t *testing.T) {
	registry := prometheus.NewRegistry()
	first := newIntakeMetricsWithRegisterer(registry)
	second := newIntakeMetricsWithRegisterer(registry)

	first.RecordOrderCreated()
	second.RecordOrderCreated()

	if got := testutil.ToFloat64(first.ordersCreated); got != 2 {
		t.Fatalf("expected shared collector with value 2, got %v", got)
	}
}
