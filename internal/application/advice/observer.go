package advice

import (
	"context"
	"time"
)

// Observer receives advice outcomes, typically to record metrics.
type Observer interface {
	RecordAdvice(ctx context.Context, source, tier string, elapsed time.Duration)
	RecordFallback(ctx context.Context, reason string)
}

// NoopObserver discards all observations
type NoopObserver struct{}

func (NoopObserver) RecordAdvice(context.Context, string, string, time.Duration) {}
func (NoopObserver) RecordFallback(context.Context, string)                      {}
