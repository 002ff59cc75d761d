// Package advisor implements the remote, OpenAI-compatible advice provider.
package advisor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/wealthcrm/backend/internal/domain/advice"
	"github.com/wealthcrm/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

// Sentinel errors for remote advice generation.
var (
	ErrAdvisorUnavailable = errors.New("advisor: remote advisor is not configured")
	ErrInvalidOutput      = errors.New("advisor: remote advisor returned no usable text")
	ErrRetryExhausted     = errors.New("advisor: remote advisor failed after retries")
	ErrTimeout            = errors.New("advisor: remote advisor timed out")
)

const maxResponseBytes = 1 << 20

// Config holds the remote advisor settings.
type Config struct {
	APIKey     string
	BaseURL    string
	Model      string
	Timeout    time.Duration
	MaxRetries int
}

// RemoteAdvisor asks a chat-completions endpoint to phrase the advice.
// Tier and allocation always come from the deterministic rules; only the
// narrative is remote.
type RemoteAdvisor struct {
	cfg            Config
	http           *http.Client
	logger         *zap.Logger
	initialBackoff time.Duration
}

// Option configures a RemoteAdvisor
type Option func(*RemoteAdvisor)

// WithHTTPClient replaces the instrumented default client
func WithHTTPClient(c *http.Client) Option {
	return func(r *RemoteAdvisor) {
		r.http = c
	}
}

// WithInitialBackoff sets the first retry delay
func WithInitialBackoff(d time.Duration) Option {
	return func(r *RemoteAdvisor) {
		r.initialBackoff = d
	}
}

// NewRemoteAdvisor creates a RemoteAdvisor
func NewRemoteAdvisor(cfg Config, logger *zap.Logger, opts ...Option) *RemoteAdvisor {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 20 * time.Second
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	r := &RemoteAdvisor{
		cfg: cfg,
		http: &http.Client{
			Transport: otelhttp.NewTransport(&http.Transport{
				DialContext:         (&net.Dialer{Timeout: 5 * time.Second}).DialContext,
				TLSHandshakeTimeout: 5 * time.Second,
			}),
		},
		logger:         logger.Named("remote_advisor"),
		initialBackoff: 250 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	Stream      bool          `json:"stream"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// statusError is a non-200 reply from the endpoint
type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("advisor endpoint returned status %d: %s", e.code, e.body)
}

func (e *statusError) retryable() bool {
	return e.code == http.StatusTooManyRequests || e.code >= 500
}

// Generate implements advice.Provider
func (r *RemoteAdvisor) Generate(ctx context.Context, profile advice.Profile) (*advice.Advice, error) {
	if strings.TrimSpace(r.cfg.APIKey) == "" || r.cfg.BaseURL == "" {
		return nil, ErrAdvisorUnavailable
	}

	base := advice.Build(profile)
	req := chatRequest{
		Model: r.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt(profile, base)},
		},
		Temperature: 0.3,
	}

	ctx, cancel := context.WithTimeout(ctx, r.cfg.Timeout)
	defer cancel()

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = r.initialBackoff

	start := time.Now()
	var text string
	var err error
	telemetry.WithRegion(ctx, "remote_advisor", func(ctx context.Context) {
		text, err = backoff.Retry(ctx, func() (string, error) {
			return r.complete(ctx, req)
		},
			backoff.WithBackOff(policy),
			backoff.WithMaxTries(uint(r.cfg.MaxRetries+1)),
		)
	})
	if err != nil {
		r.logger.Debug("Remote advice failed",
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err),
		)
		return nil, classify(ctx, err)
	}

	out := *base
	out.Narrative = text
	out.Source = advice.SourceRemote
	return &out, nil
}

// complete performs one chat-completions call. Errors that retrying cannot
// fix are wrapped as permanent.
func (r *RemoteAdvisor) complete(ctx context.Context, req chatRequest) (string, error) {
	data, err := json.Marshal(req)
	if err != nil {
		return "", backoff.Permanent(fmt.Errorf("marshaling request: %w", err))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, r.cfg.BaseURL+"/chat/completions", bytes.NewReader(data))
	if err != nil {
		return "", backoff.Permanent(fmt.Errorf("creating request: %w", err))
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+r.cfg.APIKey)

	resp, err := r.http.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		se := &statusError{code: resp.StatusCode, body: truncate(string(body), 200)}
		if se.retryable() {
			return "", se
		}
		return "", backoff.Permanent(se)
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", backoff.Permanent(fmt.Errorf("%w: %v", ErrInvalidOutput, err))
	}
	if len(parsed.Choices) == 0 {
		return "", backoff.Permanent(ErrInvalidOutput)
	}
	text := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if text == "" {
		return "", backoff.Permanent(ErrInvalidOutput)
	}
	return text, nil
}

func classify(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, ErrInvalidOutput):
		return err
	case ctx.Err() != nil, errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	default:
		return fmt.Errorf("%w: %w", ErrRetryExhausted, err)
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
