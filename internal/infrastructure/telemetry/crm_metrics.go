package telemetry

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// OverdueCounter reports how many pending reminders are past due at now.
type OverdueCounter interface {
	CountOverdue(ctx context.Context, now time.Time) (int64, error)
}

// CRMMetricsConfig configures CRMMetrics.
type CRMMetricsConfig struct {
	Meter  metric.Meter
	Logger *zap.Logger
}

// CRMMetrics records reminder commands and advice generation.
type CRMMetrics struct {
	reminderCommands *Counter
	planCommands     *Counter
	adviceGenerated  *Counter
	adviceFallbacks  *Counter
	adviceDuration   *Histogram
	overdueGauge     metric.Int64ObservableGauge
	meter            metric.Meter
	logger           *zap.Logger
}

// NewCRMMetrics creates the CRM instruments on cfg.Meter.
func NewCRMMetrics(cfg CRMMetricsConfig) (*CRMMetrics, error) {
	if cfg.Meter == nil {
		return nil, errors.New("NewCRMMetrics: meter cannot be nil")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	m := &CRMMetrics{meter: cfg.Meter, logger: logger}
	var err error

	if m.reminderCommands, err = NewCounter(cfg.Meter, "crm_reminder_commands_total", "Reminder commands by operation and outcome", "{command}"); err != nil {
		return nil, err
	}
	if m.planCommands, err = NewCounter(cfg.Meter, "crm_plan_commands_total", "Plan commands by operation and outcome", "{command}"); err != nil {
		return nil, err
	}
	if m.adviceGenerated, err = NewCounter(cfg.Meter, "crm_advice_generated_total", "Advice results by source and tier", "{advice}"); err != nil {
		return nil, err
	}
	if m.adviceFallbacks, err = NewCounter(cfg.Meter, "crm_advice_fallbacks_total", "Remote advice failures served by the deterministic path", "{advice}"); err != nil {
		return nil, err
	}
	if m.adviceDuration, err = NewHistogram(cfg.Meter, HistogramOpts{
		Name:        "crm_advice_duration_seconds",
		Description: "Time to produce advice",
		Unit:        "s",
		Boundaries:  AdvisorDurationBuckets,
	}); err != nil {
		return nil, err
	}
	return m, nil
}

// RecordReminderCommand counts a reminder command and whether it failed.
func (m *CRMMetrics) RecordReminderCommand(ctx context.Context, op string, err error) {
	m.reminderCommands.Inc(ctx, AttrOperation.String(op), AttrOutcome.String(outcome(err)))
}

// RecordPlanCommand counts a plan command and whether it failed.
func (m *CRMMetrics) RecordPlanCommand(ctx context.Context, op string, err error) {
	m.planCommands.Inc(ctx, AttrOperation.String(op), AttrOutcome.String(outcome(err)))
}

// RecordAdvice counts one advice result and its latency.
func (m *CRMMetrics) RecordAdvice(ctx context.Context, source, tier string, elapsed time.Duration) {
	m.adviceGenerated.Inc(ctx, AttrAdviceSource.String(source), AttrAdviceTier.String(tier))
	m.adviceDuration.RecordDuration(ctx, elapsed, AttrAdviceSource.String(source))
}

// RecordFallback counts a remote failure that fell back to the deterministic path.
func (m *CRMMetrics) RecordFallback(ctx context.Context, reason string) {
	m.adviceFallbacks.Inc(ctx, AttrOutcome.String(reason))
}

// ObserveOverdue registers a gauge that reports the overdue reminder count on
// every collection cycle.
func (m *CRMMetrics) ObserveOverdue(counter OverdueCounter, clock func() time.Time) error {
	gauge, err := m.meter.Int64ObservableGauge("crm_reminders_overdue",
		metric.WithDescription("Pending reminders whose due date has passed"),
		metric.WithUnit("{reminder}"),
	)
	if err != nil {
		return err
	}
	m.overdueGauge = gauge

	_, err = m.meter.RegisterCallback(func(ctx context.Context, o metric.Observer) error {
		n, err := counter.CountOverdue(ctx, clock())
		if err != nil {
			m.logger.Warn("Failed to count overdue reminders", zap.Error(err))
			return nil
		}
		o.ObserveInt64(gauge, n)
		return nil
	}, gauge)
	return err
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
