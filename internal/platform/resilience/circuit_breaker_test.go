package resilience

import (
	"errors"
	"testing"
	"time"
)

type transition struct {
	from, to CircuitState
}

func newTestBreaker(threshold, halfOpen int, timeout time.Duration) (*CircuitBreaker, *time.Time, *[]transition) {
	var seen []transition
	b := NewCircuitBreaker("orf", CircuitBreakerConfig{
		Enabled:          true,
		FailureThreshold: threshold,
		OpenTimeout:      timeout,
		HalfOpenMaxReq:   halfOpen,
	}, func(name string, from, to CircuitState) {
		seen = append(seen, transition{from: from, to: to})
	})

	now := time.Date(2026, 1, 10, 10, 0, 0, 0, time.UTC)
	b.now = func() time.Time { return now }
	return b, &now, &seen
}

func TestCircuitBreaker_BasicTransitions(t *testing.T) {
	b, now, seen := newTestBreaker(2, 1, 5*time.Second)

	if err := b.Allow(); err != nil {
		t.Fatalf("expected allow in closed state: %v", err)
	}

	b.RecordFailure()
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("expected closed after first failure, got %s", state)
	}

	b.RecordFailure()
	if state := b.State(); state != CircuitStateOpen {
		t.Fatalf("expected open after threshold failures, got %s", state)
	}

	if err := b.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected circuit open error, got %v", err)
	}

	*now = now.Add(6 * time.Second)
	if err := b.Allow(); err != nil {
		t.Fatalf("expected half-open probe to pass, got %v", err)
	}
	if state := b.State(); state != CircuitStateHalfOpen {
		t.Fatalf("expected half-open state, got %s", state)
	}
	if err := b.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected second probe to be rejected, got %v", err)
	}

	b.RecordSuccess()
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("expected closed after successful half-open probe, got %s", state)
	}

	want := []transition{
		{CircuitStateClosed, CircuitStateOpen},
		{CircuitStateOpen, CircuitStateHalfOpen},
		{CircuitStateHalfOpen, CircuitStateClosed},
	}
	if len(*seen) != len(want) {
		t.Fatalf("unexpected transitions: %+v", *seen)
	}
	for i := range want {
		if (*seen)[i] != want[i] {
			t.Fatalf("transition[%d]=%+v want=%+v", i, (*seen)[i], want[i])
		}
	}
}

func TestCircuitBreaker_FailedProbeReopens(t *testing.T) {
	b, now, _ := newTestBreaker(1, 1, time.Second)

	b.RecordFailure()
	*now = now.Add(2 * time.Second)
	if state := b.State(); state != CircuitStateHalfOpen {
		t.Fatalf("expected half-open after timeout, got %s", state)
	}
	if err := b.Allow(); err != nil {
		t.Fatalf("expected probe to pass: %v", err)
	}

	b.RecordFailure()
	if state := b.State(); state != CircuitStateOpen {
		t.Fatalf("expected open after failed probe, got %s", state)
	}
	if err := b.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected circuit open error, got %v", err)
	}
}

func TestCircuitBreaker_SuccessResetsFailureCount(t *testing.T) {
	b, _, _ := newTestBreaker(2, 1, time.Second)

	b.RecordFailure()
	b.RecordSuccess()
	b.RecordFailure()
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("expected closed, failures were not consecutive; got %s", state)
	}
}

func TestNormalizeCircuitBreakerConfig(t *testing.T) {
	got := NormalizeCircuitBreakerConfig(CircuitBreakerConfig{FailureThreshold: -1, OpenTimeout: 0, HalfOpenMaxReq: 0})
	want := DefaultCircuitBreakerConfig()
	want.Enabled = false
	if got != want {
		t.Fatalf("normalized=%+v want=%+v", got, want)
	}
	if CircuitStateOpen.Level() != 2 || CircuitStateHalfOpen.Level() != 1 || CircuitStateClosed.Level() != 0 {
		t.Fatalf("unexpected state levels")
	}
}
