package retry

import (
	"context"
	"math"
	"math/rand"
	"time"
)

// Config bounds a retry loop. Each adapter supplies its own attempt cap and
// retryability predicate.
type Config struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	Factor      float64
	Jitter      bool
}

func DefaultConfig(maxAttempts int) Config {
	return Config{
		MaxAttempts: maxAttempts,
		BaseDelay:   500 * time.Millisecond,
		MaxDelay:    8 * time.Second,
		Factor:      2,
		Jitter:      true,
	}
}

// Do runs op up to cfg.MaxAttempts times, sleeping an exponential backoff
// between attempts. A non-retryable error stops the loop immediately.
func Do(ctx context.Context, cfg Config, retryable func(error) bool, op func(ctx context.Context) error) error {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	if cfg.Factor <= 0 {
		cfg.Factor = 2
	}

	var lastErr error
	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		lastErr = op(ctx)
		if lastErr == nil {
			return nil
		}
		if retryable != nil && !retryable(lastErr) {
			return lastErr
		}
		if attempt == cfg.MaxAttempts {
			break
		}

		select {
		case <-time.After(Delay(cfg, attempt)):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return lastErr
}

// Delay computes the backoff before the attempt following `attempt`
// (1-based): min(maxDelay, baseDelay * factor^(attempt-1)), plus an optional
// +-30% jitter.
func Delay(cfg Config, attempt int) time.Duration {
	d := float64(cfg.BaseDelay) * math.Pow(cfg.Factor, float64(attempt-1))
	if cfg.MaxDelay > 0 && d > float64(cfg.MaxDelay) {
		d = float64(cfg.MaxDelay)
	}
	if cfg.Jitter {
		d = d * (0.7 + 0.6*rand.Float64())
	}
	return time.Duration(d)
}
