package llm

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"
)

func TestRetryWithBackoffSucceedsAfterThrottle(t *testing.T) {
	var delays []time.Duration
	cfg := RetryConfig{
		MaxRetries: 3,
		BaseDelay:  time.Second,
		Sleep:      func(d time.Duration) { delays = append(delays, d) },
	}

	calls := 0
	res, err := RetryWithBackoff(context.Background(), cfg, func() (string, error) {
		calls++
		if calls <= 2 {
			return "", &APIError{StatusCode: http.StatusTooManyRequests, Message: "throttled"}
		}
		return "ok", nil
	})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res != "ok" {
		t.Errorf("result = %q, want %q", res, "ok")
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}

	want := []time.Duration{time.Second, 2 * time.Second}
	if len(delays) != len(want) {
		t.Fatalf("delays = %v, want %v", delays, want)
	}
	for i := range want {
		if delays[i] != want[i] {
			t.Errorf("delay[%d] = %v, want %v", i, delays[i], want[i])
		}
	}
}

func TestRetryWithBackoffDoesNotRetryOtherErrors(t *testing.T) {
	var delays []time.Duration
	cfg := RetryConfig{
		MaxRetries: 3,
		BaseDelay:  time.Second,
		Sleep:      func(d time.Duration) { delays = append(delays, d) },
	}

	boom := errors.New("connection refused")
	calls := 0
	_, err := RetryWithBackoff(context.Background(), cfg, func() (string, error) {
		calls++
		return "", boom
	})

	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want %v", err, boom)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
	if len(delays) != 0 {
		t.Errorf("delays = %v, want none", delays)
	}
}

func TestRetryWithBackoffExhaustsBudget(t *testing.T) {
	var delays []time.Duration
	cfg := RetryConfig{
		MaxRetries: 3,
		BaseDelay:  time.Second,
		Sleep:      func(d time.Duration) { delays = append(delays, d) },
	}

	calls := 0
	_, err := RetryWithBackoff(context.Background(), cfg, func() (string, error) {
		calls++
		return "", &APIError{StatusCode: http.StatusTooManyRequests, Message: "throttled"}
	})

	if err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	if calls != 4 {
		t.Errorf("calls = %d, want 4 (initial + 3 retries)", calls)
	}

	want := []time.Duration{time.Second, 2 * time.Second, 4 * time.Second}
	if len(delays) != len(want) {
		t.Fatalf("delays = %v, want %v", delays, want)
	}
	for i := range want {
		if delays[i] != want[i] {
			t.Errorf("delay[%d] = %v, want %v", i, delays[i], want[i])
		}
	}
}

func TestRetryWithBackoffHonorsContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := RetryConfig{
		MaxRetries: 3,
		BaseDelay:  time.Second,
		Sleep:      func(time.Duration) { t.Fatal("should not sleep after cancel") },
	}

	calls := 0
	_, err := RetryWithBackoff(ctx, cfg, func() (string, error) {
		calls++
		cancel()
		return "", &APIError{StatusCode: http.StatusTooManyRequests, Message: "throttled"}
	})

	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestIsRateLimit(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"api error 429", &APIError{StatusCode: 429, Message: "slow down"}, true},
		{"api error 500", &APIError{StatusCode: 500, Message: "boom"}, false},
		{"429 in message", errors.New("upstream returned 429"), true},
		{"rate limit marker", errors.New("RATE_LIMIT_EXCEEDED: try later"), true},
		{"quota marker", errors.New("Quota exceeded for quota metric"), true},
		{"plain error", errors.New("connection refused"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRateLimit(tt.err); got != tt.want {
				t.Errorf("IsRateLimit(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestIsQuotaNotConfigured(t *testing.T) {
	err := &APIError{StatusCode: 429, Message: `limit: quota_limit_value":"0"`}
	if !IsQuotaNotConfigured(err) {
		t.Error("expected zero-quota marker to be detected")
	}
	if IsQuotaNotConfigured(errors.New("Quota exceeded")) {
		t.Error("plain quota message should not be treated as unconfigured")
	}
}
