package otel

import (
	"context"
	"errors"
	"testing"

	dashAuth "github.com/MrEthical07/dashAuth"
	"github.com/MrEthical07/dashAuth/metrics/export/internaldefs"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

type fakeSource struct {
	counters map[dashAuth.MetricID]uint64
	dropped  uint64
}

func (f *fakeSource) MetricsSnapshot() dashAuth.MetricsSnapshot {
	return dashAuth.MetricsSnapshot{Counters: f.counters}
}

func (f *fakeSource) AuditDropped() uint64 { return f.dropped }

func TestNewOTelExporterValidation(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	meter := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)).Meter("test")

	if _, err := NewOTelExporterFromSource(nil, &fakeSource{}); !errors.Is(err, ErrNilMeter) {
		t.Fatalf("expected ErrNilMeter, got %v", err)
	}
	if _, err := NewOTelExporterFromSource(meter, nil); !errors.Is(err, ErrNilSource) {
		t.Fatalf("expected ErrNilSource, got %v", err)
	}
}

func TestExporterObservesSnapshot(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	meter := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)).Meter("test")

	src := &fakeSource{
		counters: map[dashAuth.MetricID]uint64{
			dashAuth.MetricLoginSuccess:     11,
			dashAuth.MetricOTPVerifySuccess: 5,
		},
		dropped: 3,
	}

	exporter, err := NewOTelExporterFromSource(meter, src)
	if err != nil {
		t.Fatalf("NewOTelExporterFromSource: %v", err)
	}
	defer func() {
		if err := exporter.Close(); err != nil {
			t.Errorf("Close: %v", err)
		}
	}()

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("Collect: %v", err)
	}

	got := map[string]int64{}
	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				continue
			}
			for _, dp := range sum.DataPoints {
				got[m.Name] = dp.Value
			}
		}
	}

	// One instrument per counter def plus the audit dropped counter.
	if len(got) != len(internaldefs.CounterDefs)+1 {
		t.Fatalf("observed %d instruments, want %d", len(got), len(internaldefs.CounterDefs)+1)
	}
	if got["dashauth_login_success_total"] != 11 {
		t.Errorf("login success = %d, want 11", got["dashauth_login_success_total"])
	}
	if got["dashauth_otp_verify_success_total"] != 5 {
		t.Errorf("otp verify success = %d, want 5", got["dashauth_otp_verify_success_total"])
	}
	if got["dashauth_refresh_success_total"] != 0 {
		t.Errorf("refresh success = %d, want 0", got["dashauth_refresh_success_total"])
	}
	if got["dashauth_audit_dropped_total"] != 3 {
		t.Errorf("audit dropped = %d, want 3", got["dashauth_audit_dropped_total"])
	}
}
