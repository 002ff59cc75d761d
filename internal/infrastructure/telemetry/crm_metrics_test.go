package telemetry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wealthcrm/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

type stubOverdue struct {
	n   int64
	err error
	at  time.Time
}

func (s *stubOverdue) CountOverdue(_ context.Context, now time.Time) (int64, error) {
	s.at = now
	return s.n, s.err
}

func newMetrics(t *testing.T) (*telemetry.CRMMetrics, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	m, err := telemetry.NewCRMMetrics(telemetry.CRMMetricsConfig{Meter: provider.Meter("test")})
	require.NoError(t, err)
	return m, reader
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Aggregation {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := make(map[string]metricdata.Aggregation)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m.Data
		}
	}
	return out
}

func sumFor(t *testing.T, data metricdata.Aggregation, key attribute.Key, value string) int64 {
	t.Helper()
	sum, ok := data.(metricdata.Sum[int64])
	require.True(t, ok, "expected int64 sum, got %T", data)

	var total int64
	for _, dp := range sum.DataPoints {
		if v, ok := dp.Attributes.Value(key); ok && v.AsString() == value {
			total += dp.Value
		}
	}
	return total
}

func TestNewCRMMetrics_NilMeter(t *testing.T) {
	m, err := telemetry.NewCRMMetrics(telemetry.CRMMetricsConfig{})
	require.Error(t, err)
	assert.Nil(t, m)
}

func TestNewCRMMetrics_Noop(t *testing.T) {
	m, err := telemetry.NewCRMMetrics(telemetry.CRMMetricsConfig{Meter: noop.NewMeterProvider().Meter("test")})
	require.NoError(t, err)

	// Should not panic
	m.RecordReminderCommand(context.Background(), "create", nil)
	m.RecordAdvice(context.Background(), "deterministic", "steady-growth", time.Millisecond)
}

func TestCRMMetrics_Commands(t *testing.T) {
	m, reader := newMetrics(t)
	ctx := context.Background()

	m.RecordReminderCommand(ctx, "create", nil)
	m.RecordReminderCommand(ctx, "create", errors.New("boom"))
	m.RecordReminderCommand(ctx, "delete", nil)
	m.RecordPlanCommand(ctx, "update", nil)

	data := collect(t, reader)
	reminders := data["crm_reminder_commands_total"]
	assert.Equal(t, int64(2), sumFor(t, reminders, telemetry.AttrOperation, "create"))
	assert.Equal(t, int64(1), sumFor(t, reminders, telemetry.AttrOutcome, "error"))
	assert.Equal(t, int64(1), sumFor(t, data["crm_plan_commands_total"], telemetry.AttrOperation, "update"))
}

func TestCRMMetrics_Advice(t *testing.T) {
	m, reader := newMetrics(t)
	ctx := context.Background()

	m.RecordAdvice(ctx, "remote", "balanced", 120*time.Millisecond)
	m.RecordAdvice(ctx, "deterministic", "balanced", time.Millisecond)
	m.RecordFallback(ctx, "timeout")

	data := collect(t, reader)
	assert.Equal(t, int64(1), sumFor(t, data["crm_advice_generated_total"], telemetry.AttrAdviceSource, "remote"))
	assert.Equal(t, int64(2), sumFor(t, data["crm_advice_generated_total"], telemetry.AttrAdviceTier, "balanced"))
	assert.Equal(t, int64(1), sumFor(t, data["crm_advice_fallbacks_total"], telemetry.AttrOutcome, "timeout"))

	hist, ok := data["crm_advice_duration_seconds"].(metricdata.Histogram[float64])
	require.True(t, ok)
	var count uint64
	for _, dp := range hist.DataPoints {
		count += dp.Count
	}
	assert.Equal(t, uint64(2), count)
}

func TestCRMMetrics_ObserveOverdue(t *testing.T) {
	m, reader := newMetrics(t)
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	counter := &stubOverdue{n: 4}

	require.NoError(t, m.ObserveOverdue(counter, func() time.Time { return now }))

	data := collect(t, reader)
	gauge, ok := data["crm_reminders_overdue"].(metricdata.Gauge[int64])
	require.True(t, ok)
	require.Len(t, gauge.DataPoints, 1)
	assert.Equal(t, int64(4), gauge.DataPoints[0].Value)
	assert.Equal(t, now, counter.at)
}

func TestCRMMetrics_ObserveOverdue_CountFailureSkipsPoint(t *testing.T) {
	m, reader := newMetrics(t)
	counter := &stubOverdue{err: errors.New("db down")}

	require.NoError(t, m.ObserveOverdue(counter, time.Now))

	data := collect(t, reader)
	if gauge, ok := data["crm_reminders_overdue"].(metricdata.Gauge[int64]); ok {
		assert.Empty(t, gauge.DataPoints)
	}
}
