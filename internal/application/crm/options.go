// Package crm implements the reminder, plan and customer use cases.
package crm

import (
	"context"

	"github.com/wealthcrm/backend/internal/domain/shared"
)

// CommandRecorder observes the outcome of write commands
type CommandRecorder interface {
	RecordReminderCommand(ctx context.Context, op string, err error)
	RecordPlanCommand(ctx context.Context, op string, err error)
}

type noopRecorder struct{}

func (noopRecorder) RecordReminderCommand(context.Context, string, error) {}
func (noopRecorder) RecordPlanCommand(context.Context, string, error)     {}

type serviceOptions struct {
	clock    shared.Clock
	recorder CommandRecorder
}

// Option configures a service
type Option func(*serviceOptions)

// WithClock pins the time source
func WithClock(clock shared.Clock) Option {
	return func(o *serviceOptions) {
		o.clock = clock
	}
}

// WithRecorder sets the command observer
func WithRecorder(r CommandRecorder) Option {
	return func(o *serviceOptions) {
		if r != nil {
			o.recorder = r
		}
	}
}

func buildOptions(opts []Option) serviceOptions {
	o := serviceOptions{clock: shared.SystemClock, recorder: noopRecorder{}}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
