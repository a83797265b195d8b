package retry

import (
	"context"
	"errors"
	"testing"
	"time"
)

func fastConfig(maxRetries int) *Config {
	return &Config{
		MaxRetries:      maxRetries,
		InitialInterval: 10 * time.Millisecond,
		MaxInterval:     100 * time.Millisecond,
		Multiplier:      2.0,
		JitterFactor:    0,
	}
}

func TestNewFillsDefaults(t *testing.T) {
	retrier := New(nil)
	if retrier == nil {
		t.Fatal("New(nil) returned nil")
	}
	if retrier.config.InitialInterval != 1*time.Second {
		t.Errorf("InitialInterval = %v, want 1s", retrier.config.InitialInterval)
	}

	retrier = New(&Config{})
	if retrier.config.MaxInterval != 30*time.Second {
		t.Errorf("MaxInterval = %v, want 30s", retrier.config.MaxInterval)
	}
	if retrier.config.Multiplier != 2.0 {
		t.Errorf("Multiplier = %f, want 2.0", retrier.config.Multiplier)
	}
}

func TestDoSucceedsFirstAttempt(t *testing.T) {
	retrier := New(fastConfig(3))

	attempts := 0
	result := retrier.Do(context.Background(), func(ctx context.Context) error {
		attempts++
		return nil
	})

	if result.Err != nil {
		t.Errorf("Err = %v, want nil", result.Err)
	}
	if result.Attempts != 1 || attempts != 1 {
		t.Errorf("Attempts = %d (%d calls), want 1", result.Attempts, attempts)
	}
}

func TestDoSucceedsAfterRetries(t *testing.T) {
	retrier := New(fastConfig(5))

	attempts := 0
	result := retrier.Do(context.Background(), func(ctx context.Context) error {
		attempts++
		if attempts < 3 {
			return errors.New("temporary error")
		}
		return nil
	})

	if result.Err != nil {
		t.Errorf("Err = %v, want nil", result.Err)
	}
	if result.Attempts != 3 {
		t.Errorf("Attempts = %d, want 3", result.Attempts)
	}
}

func TestDoExhaustsRetries(t *testing.T) {
	retrier := New(fastConfig(3))

	wantErr := errors.New("persistent error")
	attempts := 0
	result := retrier.Do(context.Background(), func(ctx context.Context) error {
		attempts++
		return wantErr
	})

	if !errors.Is(result.Err, ErrMaxRetriesExceeded) {
		t.Errorf("Err = %v, want ErrMaxRetriesExceeded", result.Err)
	}
	if result.LastError == nil || result.LastError.Error() != wantErr.Error() {
		t.Errorf("LastError = %v, want %v", result.LastError, wantErr)
	}
	// Initial attempt + 3 retries
	if attempts != 4 {
		t.Errorf("Operation called %d times, want 4", attempts)
	}
}

func TestDoStopsOnPermanentError(t *testing.T) {
	retrier := New(fastConfig(5))

	permErr := errors.New("permanent error")
	attempts := 0
	result := retrier.Do(context.Background(), func(ctx context.Context) error {
		attempts++
		return Permanent(permErr)
	})

	if result.Err == nil || result.Err.Error() != permErr.Error() {
		t.Errorf("Err = %v, want %v", result.Err, permErr)
	}
	if attempts != 1 {
		t.Errorf("Operation called %d times, want 1", attempts)
	}
}

func TestDoStopsWhenContextCanceled(t *testing.T) {
	retrier := New(&Config{
		MaxRetries:      10,
		InitialInterval: 100 * time.Millisecond,
		MaxInterval:     time.Second,
		Multiplier:      2.0,
	})

	ctx, cancel := context.WithCancel(context.Background())
	attempts := 0
	result := retrier.Do(ctx, func(ctx context.Context) error {
		attempts++
		if attempts == 2 {
			cancel()
		}
		return errors.New("error")
	})

	if !errors.Is(result.Err, ErrContextCanceled) {
		t.Errorf("Err = %v, want ErrContextCanceled", result.Err)
	}
	if result.Attempts < 2 {
		t.Errorf("Attempts = %d, want >= 2", result.Attempts)
	}
}

func TestDoWithCallbackRunsBeforeEachRetry(t *testing.T) {
	retrier := New(fastConfig(3))

	attempts := 0
	callbackCalls := 0
	result := retrier.DoWithCallback(context.Background(), func(ctx context.Context) error {
		attempts++
		if attempts < 3 {
			return errors.New("error")
		}
		return nil
	}, func(attempt int, err error, nextInterval time.Duration) {
		callbackCalls++
	})

	if result.Err != nil {
		t.Errorf("Err = %v, want nil", result.Err)
	}
	if callbackCalls != 2 {
		t.Errorf("Callback called %d times, want 2", callbackCalls)
	}
}

func TestCalculateIntervalExponentialBackoff(t *testing.T) {
	retrier := New(&Config{
		MaxRetries:      5,
		InitialInterval: 1 * time.Second,
		MaxInterval:     30 * time.Second,
		Multiplier:      2.0,
	})

	tests := []struct {
		attempt  int
		expected time.Duration
	}{
		{0, 1 * time.Second},
		{1, 2 * time.Second},
		{2, 4 * time.Second},
		{3, 8 * time.Second},
		{4, 16 * time.Second},
		{5, 30 * time.Second}, // 32s capped at max
		{6, 30 * time.Second},
	}
	for _, tt := range tests {
		if got := retrier.calculateInterval(tt.attempt); got != tt.expected {
			t.Errorf("calculateInterval(%d) = %v, want %v", tt.attempt, got, tt.expected)
		}
	}
}

func TestCalculateIntervalJitterBounds(t *testing.T) {
	retrier := New(&Config{
		MaxRetries:      5,
		InitialInterval: 1 * time.Second,
		MaxInterval:     30 * time.Second,
		Multiplier:      2.0,
		JitterFactor:    0.1,
	})

	base := 1 * time.Second
	minExpected := time.Duration(float64(base) * 0.9)
	maxExpected := time.Duration(float64(base) * 1.1)

	seen := make(map[time.Duration]bool)
	for i := 0; i < 100; i++ {
		interval := retrier.calculateInterval(0)
		seen[interval] = true
		if interval < minExpected || interval > maxExpected {
			t.Fatalf("calculateInterval(0) = %v, want within ±10%% of %v", interval, base)
		}
	}
	if len(seen) < 3 {
		t.Errorf("expected jitter variation, got %d unique intervals", len(seen))
	}
}

func TestPermanentWrapping(t *testing.T) {
	err := errors.New("test error")

	var pe *PermanentError
	if !errors.As(Permanent(err), &pe) {
		t.Fatal("Permanent error should unwrap to PermanentError")
	}
	if !errors.Is(pe.Unwrap(), err) {
		t.Error("PermanentError.Unwrap() should return the original error")
	}
	if Permanent(nil) != nil {
		t.Error("Permanent(nil) should return nil")
	}
}
