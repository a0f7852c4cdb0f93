package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestNewInventoryMetrics(t *testing.T) {
	metrics := newInventoryMetricsWithRegisterer(prometheus.NewRegistry())

	if metrics == nil {
		t.Fatal("newInventoryMetricsWithRegisterer should not return nil")
	}

	if metrics.reservations == nil {
		t.Error("reservations counter vec should not be nil")
	}

	if metrics.credits == nil {
		t.Error("credits counter should not be nil")
	}

	if metrics.syncedEntries == nil {
		t.Error("syncedEntries counter should not be nil")
	}

	if metrics.syncSkipped == nil {
		t.Error("syncSkipped counter should not be nil")
	}

	if metrics.checkFallbacks == nil {
		t.Error("checkFallbacks counter should not be nil")
	}

	if metrics.ordersCreated == nil {
		t.Error("ordersCreated counter should not be nil")
	}

	if metrics.reserveDuration == nil {
		t.Error("reserveDuration histogram should not be nil")
	}

	if metrics.orderCreateDuration == nil {
		t.Error("orderCreateDuration histogram should not be nil")
	}

	if metrics.inFlightOrders == nil {
		t.Error("inFlightOrders gauge should not be nil")
	}
}

func TestNewInventoryMetrics_ReuseOnDoubleRegister(t *testing.T) {
	reg := prometheus.NewRegistry()

	first := newInventoryMetricsWithRegisterer(reg)
	second := newInventoryMetricsWithRegisterer(reg)

	first.RecordCredit()
	second.RecordCredit()

	m := &dto.Metric{}
	if err := second.credits.Write(m); err != nil {
		t.Fatalf("write credits metric: %v", err)
	}
	if got := m.GetCounter().GetValue(); got != 2 {
		t.Fatalf("expected shared counter value 2, got %v", got)
	}
}

func TestRecordReservation_ByResult(t *testing.T) {
	metrics := newInventoryMetricsWithRegisterer(prometheus.NewRegistry())

	metrics.RecordReservation(ReserveResultOK)
	metrics.RecordReservation(ReserveResultOK)
	metrics.RecordReservation(ReserveResultOutOfStock)

	m := &dto.Metric{}
	if err := metrics.reservations.WithLabelValues(ReserveResultOK).Write(m); err != nil {
		t.Fatalf("write ok counter: %v", err)
	}
	if got := m.GetCounter().GetValue(); got != 2 {
		t.Fatalf("expected 2 ok reservations, got %v", got)
	}

	m = &dto.Metric{}
	if err := metrics.reservations.WithLabelValues(ReserveResultOutOfStock).Write(m); err != nil {
		t.Fatalf("write out_of_stock counter: %v", err)
	}
	if got := m.GetCounter().GetValue(); got != 1 {
		t.Fatalf("expected 1 out_of_stock reservation, got %v", got)
	}
}

func TestRecordSyncCounters(t *testing.T) {
	metrics := newInventoryMetricsWithRegisterer(prometheus.NewRegistry())

	metrics.RecordSyncedEntries(3)
	metrics.RecordSyncSkipped(1)

	m := &dto.Metric{}
	if err := metrics.syncedEntries.Write(m); err != nil {
		t.Fatalf("write syncedEntries metric: %v", err)
	}
	if got := m.GetCounter().GetValue(); got != 3 {
		t.Fatalf("expected 3 synced entries, got %v", got)
	}

	m = &dto.Metric{}
	if err := metrics.syncSkipped.Write(m); err != nil {
		t.Fatalf("write syncSkipped metric: %v", err)
	}
	if got := m.GetCounter().GetValue(); got != 1 {
		t.Fatalf("expected 1 skipped code, got %v", got)
	}
}

func TestRecordDurationsAndInFlight(t *testing.T) {
	metrics := newInventoryMetricsWithRegisterer(prometheus.NewRegistry())

	metrics.RecordOrderInFlightStarted()
	metrics.RecordReserveDuration(5 * time.Millisecond)
	metrics.RecordOrderCreateDuration(20 * time.Millisecond)
	metrics.RecordOrderInFlightFinished()

	m := &dto.Metric{}
	if err := metrics.inFlightOrders.Write(m); err != nil {
		t.Fatalf("write inFlightOrders metric: %v", err)
	}
	if got := m.GetGauge().GetValue(); got != 0 {
		t.Fatalf("expected 0 in-flight orders, got %v", got)
	}

	m = &dto.Metric{}
	if err := metrics.orderCreateDuration.Write(m); err != nil {
		t.Fatalf("write orderCreateDuration metric: %v", err)
	}
	if got := m.GetHistogram().GetSampleCount(); got != 1 {
		t.Fatalf("expected 1 duration sample, got %v", got)
	}
}
