package throttle

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

// counting answers 204 to every request and records how many arrived.
func counting(calls *atomic.Int32) roundTripFunc {
	return func(r *http.Request) (*http.Response, error) {
		calls.Add(1)
		return &http.Response{StatusCode: http.StatusNoContent, Body: io.NopCloser(strings.NewReader("")), Request: r}, nil
	}
}

func newThrottle(t *testing.T, cfg Config, next http.RoundTripper) http.RoundTripper {
	t.Helper()

	rt, err := NewRoundTripper(cfg, nil, next)
	if err != nil {
		t.Fatalf("exp nil err, got: %v", err)
	}

	return rt
}

func roundTrip(t *testing.T, ctx context.Context, rt http.RoundTripper) error {
	t.Helper()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "http://example.com/", nil)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := rt.RoundTrip(req)
	if err == nil {
		resp.Body.Close()
	}

	return err
}

func TestConfig_Validate(t *testing.T) {
	testCases := map[string]struct {
		cfg    Config
		expErr bool
	}{
		"valid":         {cfg: Config{RPS: 10, Burst: 20}},
		"zeroRPS":       {cfg: Config{RPS: 0, Burst: 10}, expErr: true},
		"negativeRPS":   {cfg: Config{RPS: -5, Burst: 10}, expErr: true},
		"zeroBurst":     {cfg: Config{RPS: 10, Burst: 0}, expErr: true},
		"negativeBurst": {cfg: Config{RPS: 10, Burst: -5}, expErr: true},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.expErr != errors.Is(err, ErrMustNotBeZero) {
				t.Errorf("exp ErrMustNotBeZero=%t, got: %v", tc.expErr, err)
			}

			_, err = NewRoundTripper(tc.cfg, nil, nil)
			if tc.expErr != (err != nil) {
				t.Errorf("NewRoundTripper: exp error=%t, got: %v", tc.expErr, err)
			}
		})
	}
}

func TestNewRoundTripper_NilNext(t *testing.T) {
	rt := newThrottle(t, Config{RPS: 1, Burst: 1}, nil)
	if rt.(*throttle).next != http.DefaultTransport {
		t.Error("expected http.DefaultTransport as next")
	}
}

func TestThrottle_WithinBurst(t *testing.T) {
	var calls atomic.Int32
	rt := newThrottle(t, Config{RPS: 1, Burst: 3}, counting(&calls))

	start := time.Now()
	for i := range 3 {
		if err := roundTrip(t, t.Context(), rt); err != nil {
			t.Fatalf("request %d: exp nil err, got: %v", i, err)
		}
	}

	if d := time.Since(start); d > 100*time.Millisecond {
		t.Errorf("burst should not wait, took %v", d)
	}
	if calls.Load() != 3 {
		t.Errorf("exp 3 calls, got %d", calls.Load())
	}
}

func TestThrottle_WaitsForToken(t *testing.T) {
	var calls atomic.Int32
	rt := newThrottle(t, Config{RPS: 20, Burst: 1}, counting(&calls))

	start := time.Now()
	for range 2 {
		if err := roundTrip(t, t.Context(), rt); err != nil {
			t.Fatalf("exp nil err, got: %v", err)
		}
	}

	// One token every 50ms; the second request waits for it.
	if d := time.Since(start); d < 30*time.Millisecond {
		t.Errorf("second request should have waited, took %v", d)
	}
	if calls.Load() != 2 {
		t.Errorf("exp 2 calls, got %d", calls.Load())
	}
}

func TestThrottle_FailsFastPastDeadline(t *testing.T) {
	var calls atomic.Int32
	rt := newThrottle(t, Config{RPS: 1, Burst: 1}, counting(&calls))

	if err := roundTrip(t, t.Context(), rt); err != nil {
		t.Fatalf("exp nil err, got: %v", err)
	}

	ctx, cancel := context.WithTimeout(t.Context(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := roundTrip(t, ctx, rt)
	if !errors.Is(err, ErrWaitingFailed) {
		t.Errorf("exp ErrWaitingFailed, got: %v", err)
	}
	if d := time.Since(start); d > 40*time.Millisecond {
		t.Errorf("should fail without waiting for the deadline, took %v", d)
	}
	if calls.Load() != 1 {
		t.Errorf("exp only the first request to pass, got %d", calls.Load())
	}
}

func TestThrottle_CancelledWhileWaiting(t *testing.T) {
	var calls atomic.Int32
	rt := newThrottle(t, Config{RPS: 1, Burst: 1}, counting(&calls))

	if err := roundTrip(t, t.Context(), rt); err != nil {
		t.Fatalf("exp nil err, got: %v", err)
	}

	ctx, cancel := context.WithCancel(t.Context())
	time.AfterFunc(20*time.Millisecond, cancel)

	err := roundTrip(t, ctx, rt)
	if !errors.Is(err, ErrWaitingFailed) || !errors.Is(err, context.Canceled) {
		t.Errorf("exp ErrWaitingFailed wrapping context.Canceled, got: %v", err)
	}
	if calls.Load() != 1 {
		t.Errorf("exp only the first request to pass, got %d", calls.Load())
	}
}

func TestThrottle_ContextEndedEarly(t *testing.T) {
	var calls atomic.Int32
	rt := newThrottle(t, Config{RPS: 10, Burst: 10}, counting(&calls))

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	err := roundTrip(t, ctx, rt)
	if !errors.Is(err, ErrContextEnded) || !errors.Is(err, context.Canceled) {
		t.Errorf("exp ErrContextEnded wrapping context.Canceled, got: %v", err)
	}
	if calls.Load() != 0 {
		t.Errorf("exp no calls, got %d", calls.Load())
	}
}

func TestThrottle_LogsExhaustion(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	var calls atomic.Int32
	rt, err := NewRoundTripper(Config{RPS: 50, Burst: 1}, func() *slog.Logger { return logger }, counting(&calls))
	if err != nil {
		t.Fatal(err)
	}

	for range 2 {
		if err := roundTrip(t, t.Context(), rt); err != nil {
			t.Fatalf("exp nil err, got: %v", err)
		}
	}

	if !strings.Contains(buf.String(), "throttle tokens exhausted") {
		t.Errorf("expected exhaustion log, got: %q", buf.String())
	}
}
