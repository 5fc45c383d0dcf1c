package llm

import (
	"context"
	"time"
)

// RetryConfig controls the rate-limit retry loop. Sleep is injectable so
// tests can observe the backoff schedule without waiting it out.
type RetryConfig struct {
	MaxRetries int
	BaseDelay  time.Duration
	Sleep      func(time.Duration)
}

func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries: 3,
		BaseDelay:  time.Second,
		Sleep:      time.Sleep,
	}
}

// RetryWithBackoff calls fn, retrying only on rate-limit errors with
// exponential backoff (base, 2*base, 4*base, ...). Any other error, or
// exhaustion of the retry budget, propagates immediately.
func RetryWithBackoff[T any](ctx context.Context, cfg RetryConfig, fn func() (T, error)) (T, error) {
	var zero T
	var lastErr error

	sleep := cfg.Sleep
	if sleep == nil {
		sleep = time.Sleep
	}

	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		res, err := fn()
		if err == nil {
			return res, nil
		}
		lastErr = err

		if !IsRateLimit(err) || attempt == cfg.MaxRetries {
			return zero, err
		}

		if ctx.Err() != nil {
			return zero, ctx.Err()
		}

		delay := cfg.BaseDelay * (1 << attempt)
		sleep(delay)
	}

	return zero, lastErr
}
