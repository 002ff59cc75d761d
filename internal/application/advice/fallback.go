// Package advice composes advice providers and serves advice for customers.
package advice

import (
	"context"
	"errors"
	"fmt"

	"github.com/wealthcrm/backend/internal/domain/advice"
	"go.uber.org/zap"
)

var errEmptyAdvice = errors.New("provider returned no advice")

// FallbackAdvisor tries a primary provider and serves the deterministic
// advice whenever it fails or panics. It never returns an error.
type FallbackAdvisor struct {
	primary  advice.Provider
	fallback *advice.DeterministicAdvisor
	logger   *zap.Logger
	observer Observer
}

// NewFallbackAdvisor creates a FallbackAdvisor. A nil observer is allowed.
func NewFallbackAdvisor(primary advice.Provider, fallback *advice.DeterministicAdvisor, logger *zap.Logger, observer Observer) *FallbackAdvisor {
	if fallback == nil {
		fallback = advice.NewDeterministicAdvisor()
	}
	if observer == nil {
		observer = NoopObserver{}
	}
	return &FallbackAdvisor{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
		observer: observer,
	}
}

// Generate implements advice.Provider
func (f *FallbackAdvisor) Generate(ctx context.Context, profile advice.Profile) (*advice.Advice, error) {
	out, err := f.tryPrimary(ctx, profile)
	if err == nil {
		return out, nil
	}

	f.logger.Warn("Primary advisor failed, serving deterministic advice", zap.Error(err))
	f.observer.RecordFallback(ctx, fallbackReason(err))
	return f.fallback.Generate(ctx, profile)
}

func (f *FallbackAdvisor) tryPrimary(ctx context.Context, profile advice.Profile) (out *advice.Advice, err error) {
	if f.primary == nil {
		return nil, errEmptyAdvice
	}
	defer func() {
		if r := recover(); r != nil {
			out, err = nil, fmt.Errorf("%w: %v", errPanic, r)
		}
	}()

	out, err = f.primary.Generate(ctx, profile)
	if err == nil && (out == nil || out.Narrative == "") {
		err = errEmptyAdvice
	}
	return out, err
}

var errPanic = errors.New("advisor panicked")

func fallbackReason(err error) string {
	switch {
	case errors.Is(err, errPanic):
		return "panic"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.Is(err, errEmptyAdvice):
		return "empty"
	default:
		return "error"
	}
}
