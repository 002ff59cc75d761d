package advice

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
	"time"

	"github.com/wealthcrm/backend/internal/domain/advice"
	"go.uber.org/zap"
)

// Cache stores serialized advice. The stores in infrastructure/cache
// satisfy it.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// CachedAdvisor memoizes remote advice by profile fingerprint. Cache failures
// are logged and otherwise ignored.
type CachedAdvisor struct {
	inner  advice.Provider
	cache  Cache
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedAdvisor wraps inner with cache
func NewCachedAdvisor(inner advice.Provider, cache Cache, ttl time.Duration, logger *zap.Logger) *CachedAdvisor {
	return &CachedAdvisor{inner: inner, cache: cache, ttl: ttl, logger: logger}
}

// Generate implements advice.Provider
func (c *CachedAdvisor) Generate(ctx context.Context, profile advice.Profile) (*advice.Advice, error) {
	key := Fingerprint(profile)

	if data, ok, err := c.cache.Get(ctx, key); err != nil {
		c.logger.Warn("Advice cache read failed", zap.Error(err))
	} else if ok {
		var cached advice.Advice
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
		c.logger.Warn("Discarding undecodable cached advice", zap.String("key", key))
	}

	out, err := c.inner.Generate(ctx, profile)
	if err != nil {
		return nil, err
	}
	if out != nil && out.Source == advice.SourceRemote {
		if data, err := json.Marshal(out); err == nil {
			if err := c.cache.Set(ctx, key, data, c.ttl); err != nil {
				c.logger.Warn("Advice cache write failed", zap.Error(err))
			}
		}
	}
	return out, nil
}

// Fingerprint identifies the inputs that determine advice
func Fingerprint(profile advice.Profile) string {
	parts := []string{
		profile.Assets().StringFixed(2),
		strings.ToLower(profile.Risk()),
		strings.TrimSpace(profile.Goal),
	}
	sum := sha256.Sum256([]byte(strings.Join(parts, "\x1f")))
	return hex.EncodeToString(sum[:])
}
