package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/fleetflow/fleet-api/internal/api/apierr"
)

type stubCounter struct {
	counts  map[string]int64
	resetAt time.Time
	err     error
}

func newStubCounter() *stubCounter {
	return &stubCounter{counts: map[string]int64{}, resetAt: time.Now().Add(time.Minute)}
}

func (s *stubCounter) Incr(_ context.Context, key string, _ time.Duration) (int64, time.Time, error) {
	if s.err != nil {
		return 0, time.Time{}, s.err
	}
	s.counts[key]++
	return s.counts[key], s.resetAt, nil
}

func rateLimited(t *testing.T, cfg RateLimitConfig) (echo.HandlerFunc, *int) {
	t.Helper()
	calls := 0
	next := func(c echo.Context) error {
		calls++
		return c.NoContent(http.StatusOK)
	}
	return RateLimit(cfg)(next), &calls
}

func doRequest(t *testing.T, h echo.HandlerFunc) (*httptest.ResponseRecorder, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/vehicles", nil)
	req.RemoteAddr = "203.0.113.7:51000"
	rec := httptest.NewRecorder()
	return rec, h(e.NewContext(req, rec))
}

func TestRateLimit_UnderLimit(t *testing.T) {
	counter := newStubCounter()
	h, calls := rateLimited(t, RateLimitConfig{
		Counter: counter, Window: time.Minute, Max: 3,
		Prefix: "ff:rl:", Tier: "default", Logger: zerolog.Nop(),
	})

	for i := 1; i <= 3; i++ {
		rec, err := doRequest(t, h)
		if err != nil {
			t.Fatalf("request %d: unexpected error %v", i, err)
		}
		if got := rec.Header().Get(HeaderRateLimitLimit); got != "3" {
			t.Errorf("request %d: limit header = %q, want 3", i, got)
		}
		wantRemaining := strconv.Itoa(3 - i)
		if got := rec.Header().Get(HeaderRateLimitRemaining); got != wantRemaining {
			t.Errorf("request %d: remaining header = %q, want %s", i, got, wantRemaining)
		}
		if got := rec.Header().Get(HeaderRateLimitReset); got != strconv.FormatInt(counter.resetAt.Unix(), 10) {
			t.Errorf("request %d: reset header = %q", i, got)
		}
	}
	if *calls != 3 {
		t.Fatalf("next called %d times, want 3", *calls)
	}
}

func TestRateLimit_OverLimit(t *testing.T) {
	counter := newStubCounter()
	h, calls := rateLimited(t, RateLimitConfig{
		Counter: counter, Window: time.Minute, Max: 2,
		Prefix: "ff:rl:", Tier: "default", Logger: zerolog.Nop(),
	})

	for i := 0; i < 2; i++ {
		if _, err := doRequest(t, h); err != nil {
			t.Fatalf("warmup request failed: %v", err)
		}
	}

	rec, err := doRequest(t, h)
	var ae *apierr.Error
	if !errors.As(err, &ae) {
		t.Fatalf("expected apierr.Error, got %v", err)
	}
	if ae.Status != http.StatusTooManyRequests || ae.Code != "RATE_LIMITED" {
		t.Fatalf("got status=%d code=%s", ae.Status, ae.Code)
	}
	retryAfter, convErr := strconv.Atoi(rec.Header().Get(HeaderRetryAfter))
	if convErr != nil || retryAfter < 0 || retryAfter > 60 {
		t.Errorf("Retry-After = %q, want 0..60 seconds", rec.Header().Get(HeaderRetryAfter))
	}
	if rec.Header().Get(HeaderRateLimitRemaining) != "0" {
		t.Errorf("remaining header = %q, want 0", rec.Header().Get(HeaderRateLimitRemaining))
	}
	if *calls != 2 {
		t.Fatalf("next called %d times, want 2", *calls)
	}
}

func TestRateLimit_FailsOpenOnStoreError(t *testing.T) {
	counter := newStubCounter()
	counter.err = errors.New("connection refused")
	h, calls := rateLimited(t, RateLimitConfig{
		Counter: counter, Window: time.Minute, Max: 1,
		Prefix: "ff:rl:", Tier: "default", Logger: zerolog.Nop(),
	})

	for i := 0; i < 5; i++ {
		rec, err := doRequest(t, h)
		if err != nil {
			t.Fatalf("request %d should fail open, got %v", i, err)
		}
		if rec.Header().Get(HeaderRateLimitLimit) != "" {
			t.Errorf("request %d: headers set while failing open", i)
		}
	}
	if *calls != 5 {
		t.Fatalf("next called %d times, want 5", *calls)
	}
}

func TestRateLimit_TiersAreIndependent(t *testing.T) {
	counter := newStubCounter()
	def, _ := rateLimited(t, RateLimitConfig{
		Counter: counter, Window: time.Minute, Max: 1,
		Prefix: "ff:rl:", Tier: "default", Logger: zerolog.Nop(),
	})
	auth, authCalls := rateLimited(t, RateLimitConfig{
		Counter: counter, Window: time.Minute, Max: 1,
		Prefix: "ff:rl:auth:", Tier: "auth", Logger: zerolog.Nop(),
	})

	if _, err := doRequest(t, def); err != nil {
		t.Fatalf("default tier first request: %v", err)
	}
	if _, err := doRequest(t, def); err == nil {
		t.Fatal("default tier should be exhausted")
	}
	if _, err := doRequest(t, auth); err != nil {
		t.Fatalf("auth tier should have its own counter: %v", err)
	}
	if *authCalls != 1 {
		t.Fatalf("auth next called %d times, want 1", *authCalls)
	}
}
