package resilience

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestNewRateLimiter_Defaults(t *testing.T) {
	cfg := NewRateLimiter(RateLimiterConfig{}).Config()
	if cfg.Rate != 10 || cfg.Burst != 1 || cfg.MaxWait != time.Second || cfg.Now == nil {
		t.Errorf("config = %+v", cfg)
	}
}

func TestRateLimiter_BurstThenRefill(t *testing.T) {
	clock := &manualClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	rl := NewRateLimiter(RateLimiterConfig{Rate: 2, Burst: 3, Now: clock.Now})

	for i := 0; i < 3; i++ {
		if !rl.Allow() {
			t.Fatalf("Allow #%d = false within burst", i+1)
		}
	}
	if rl.Allow() {
		t.Fatal("Allow = true with an empty bucket")
	}

	clock.now = clock.now.Add(500 * time.Millisecond)
	if !rl.Allow() {
		t.Error("Allow = false after one token refilled")
	}
	if rl.Allow() {
		t.Error("Allow = true before the next token refilled")
	}

	clock.now = clock.now.Add(time.Minute)
	if got := rl.Tokens(); got != 3 {
		t.Errorf("Tokens = %v, want bucket capped at 3", got)
	}
}

func TestRateLimiter_ExecuteFailFast(t *testing.T) {
	clock := &manualClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	rl := NewRateLimiter(RateLimiterConfig{Rate: 1, Burst: 1, Now: clock.Now})

	var calls int
	op := func(context.Context) error {
		calls++
		return nil
	}
	if err := rl.Execute(context.Background(), op); err != nil {
		t.Fatalf("first Execute = %v", err)
	}
	if err := rl.Execute(context.Background(), op); !errors.Is(err, ErrRateLimited) {
		t.Errorf("second Execute = %v, want ErrRateLimited", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestRateLimiter_WaitGivesUpAfterMaxWait(t *testing.T) {
	clock := &manualClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	rl := NewRateLimiter(RateLimiterConfig{Rate: 1, Burst: 1, MaxWait: 5 * time.Millisecond, Now: clock.Now})
	rl.Allow()

	if err := rl.Wait(context.Background()); !errors.Is(err, ErrRateLimited) {
		t.Errorf("Wait = %v, want ErrRateLimited on a frozen clock", err)
	}
}

func TestRateLimiter_WaitHonorsContext(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{Rate: 0.001, Burst: 1, MaxWait: time.Hour})
	rl.Allow()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if err := rl.Wait(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Wait = %v, want DeadlineExceeded", err)
	}

	cancelled, stop := context.WithCancel(context.Background())
	stop()
	if err := NewRateLimiter(RateLimiterConfig{}).Wait(cancelled); !errors.Is(err, context.Canceled) {
		t.Errorf("Wait on cancelled ctx = %v, want Canceled", err)
	}
}

func TestRateLimiter_WaitSpacesCalls(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{Rate: 100, Burst: 1, WaitOnLimit: true, MaxWait: time.Second})

	var (
		wg     sync.WaitGroup
		ran    atomic.Int64
		failed atomic.Int64
	)
	start := time.Now()
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := rl.Execute(context.Background(), func(context.Context) error {
				ran.Add(1)
				return nil
			})
			if err != nil {
				failed.Add(1)
			}
		}()
	}
	wg.Wait()

	if ran.Load() != 3 || failed.Load() != 0 {
		t.Fatalf("ran = %d, failed = %d; want all three to run", ran.Load(), failed.Load())
	}
	if elapsed := time.Since(start); elapsed < 15*time.Millisecond {
		t.Errorf("elapsed = %v, want two refills of 10ms each", elapsed)
	}
}

func TestPolicy_RateLimitEachAttempt(t *testing.T) {
	clock := &manualClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	policy := NewPolicy(
		WithCircuitBreaker(NewCircuitBreaker(CircuitBreakerConfig{MaxFailures: 1, ResetTimeout: time.Hour, Now: clock.Now})),
		WithRetry(NewRetry(RetryConfig{MaxAttempts: 3, InitialDelay: time.Millisecond})),
		WithRateLimit(NewRateLimiter(RateLimiterConfig{Rate: 1, Burst: 2, Now: clock.Now})),
		WithTimeout(time.Second),
	)

	var calls int
	err := policy.Do(context.Background(), func(context.Context) error {
		calls++
		return errBackend
	})
	if !errors.Is(err, ErrRateLimited) {
		t.Fatalf("Do = %v, want ErrRateLimited on the third attempt", err)
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2 (one per token)", calls)
	}
	if got := policy.Breaker().State(); got != StateClosed {
		t.Errorf("breaker = %v, want closed: throttling is not a backend failure", got)
	}
}
