package session

import (
	"errors"
	"testing"
	"time"
)

var t0 = time.Date(2026, 8, 20, 9, 0, 0, 0, time.Local)

func TestTimer_StartTransitions(t *testing.T) {
	tm := NewTimer()
	if tm.State() != StateIdle {
		t.Fatalf("new timer state = %v, want idle", tm.State())
	}

	if err := tm.Start(KindWork, 25*time.Minute, t0); err != nil {
		t.Fatalf("start: %v", err)
	}
	if tm.State() != StateRunning {
		t.Errorf("state = %v, want running", tm.State())
	}
	if tm.Kind() != KindWork {
		t.Errorf("kind = %v, want work", tm.Kind())
	}
	if !tm.StartedAt().Equal(t0) {
		t.Errorf("startedAt = %v, want %v", tm.StartedAt(), t0)
	}

	// Starting again while running is invalid.
	if err := tm.Start(KindRest, time.Minute, t0); !errors.Is(err, ErrInvalidState) {
		t.Errorf("second start err = %v, want ErrInvalidState", err)
	}
}

func TestTimer_StartRejectsNonPositiveDuration(t *testing.T) {
	for _, d := range []time.Duration{0, -time.Second} {
		tm := NewTimer()
		if err := tm.Start(KindWork, d, t0); !errors.Is(err, ErrInvalidState) {
			t.Errorf("start with duration %v err = %v, want ErrInvalidState", d, err)
		}
	}
}

func TestTimer_ElapsedAndRemaining(t *testing.T) {
	tm := NewTimer()
	if err := tm.Start(KindWork, 10*time.Minute, t0); err != nil {
		t.Fatalf("start: %v", err)
	}

	tests := []struct {
		at      time.Duration
		elapsed time.Duration
	}{
		{0, 0},
		{time.Second, time.Second},
		{4 * time.Minute, 4 * time.Minute},
		{10 * time.Minute, 10 * time.Minute},
	}
	for _, tc := range tests {
		now := t0.Add(tc.at)
		if got := tm.Elapsed(now); got != tc.elapsed {
			t.Errorf("elapsed at +%v = %v, want %v", tc.at, got, tc.elapsed)
		}
		// elapsed + remaining == planned before completion.
		if got := tm.Elapsed(now) + tm.Remaining(now); got != 10*time.Minute {
			t.Errorf("elapsed+remaining at +%v = %v, want 10m", tc.at, got)
		}
	}

	// Past the planned duration, remaining clamps at zero.
	if got := tm.Remaining(t0.Add(11 * time.Minute)); got != 0 {
		t.Errorf("remaining past end = %v, want 0", got)
	}
}

func TestTimer_CompletionBoundaryInclusive(t *testing.T) {
	tm := NewTimer()
	if err := tm.Start(KindWork, time.Minute, t0); err != nil {
		t.Fatalf("start: %v", err)
	}

	if tm.IsComplete(t0.Add(59 * time.Second)) {
		t.Error("complete at 59s, want not complete")
	}
	if !tm.IsComplete(t0.Add(time.Minute)) {
		t.Error("not complete at exactly 60s, want complete")
	}
	if !tm.IsComplete(t0.Add(2 * time.Minute)) {
		t.Error("not complete past planned duration")
	}
}

func TestTimer_PauseFreezesElapsed(t *testing.T) {
	tm := NewTimer()
	if err := tm.Start(KindWork, 10*time.Minute, t0); err != nil {
		t.Fatalf("start: %v", err)
	}

	// Run 2 minutes, then pause.
	pauseAt := t0.Add(2 * time.Minute)
	before := tm.Elapsed(pauseAt)
	if err := tm.Pause(pauseAt); err != nil {
		t.Fatalf("pause: %v", err)
	}

	// Paused interval does not advance elapsed.
	during := tm.Elapsed(pauseAt.Add(30 * time.Minute))
	if during != before {
		t.Errorf("elapsed while paused = %v, want frozen at %v", during, before)
	}

	// Resume after 5 minutes paused; elapsed continues from where it froze.
	resumeAt := pauseAt.Add(5 * time.Minute)
	if err := tm.Resume(resumeAt); err != nil {
		t.Fatalf("resume: %v", err)
	}
	if got := tm.Elapsed(resumeAt); got != before {
		t.Errorf("elapsed right after resume = %v, want %v", got, before)
	}
	if got := tm.Elapsed(resumeAt.Add(time.Minute)); got != before+time.Minute {
		t.Errorf("elapsed 1m after resume = %v, want %v", got, before+time.Minute)
	}
}

func TestTimer_PauseResumeInvalidStates(t *testing.T) {
	tm := NewTimer()

	if err := tm.Pause(t0); !errors.Is(err, ErrInvalidState) {
		t.Errorf("pause while idle err = %v, want ErrInvalidState", err)
	}
	if err := tm.Resume(t0); !errors.Is(err, ErrInvalidState) {
		t.Errorf("resume while idle err = %v, want ErrInvalidState", err)
	}

	if err := tm.Start(KindWork, time.Minute, t0); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := tm.Resume(t0); !errors.Is(err, ErrInvalidState) {
		t.Errorf("resume while running err = %v, want ErrInvalidState", err)
	}

	if err := tm.Pause(t0.Add(time.Second)); err != nil {
		t.Fatalf("pause: %v", err)
	}
	if err := tm.Pause(t0.Add(2 * time.Second)); !errors.Is(err, ErrInvalidState) {
		t.Errorf("double pause err = %v, want ErrInvalidState", err)
	}
}

func TestTimer_EndIdempotent(t *testing.T) {
	tm := NewTimer()
	if err := tm.Start(KindWork, time.Minute, t0); err != nil {
		t.Fatalf("start: %v", err)
	}

	endAt := t0.Add(40 * time.Second)
	first, err := tm.End(false, endAt)
	if err != nil {
		t.Fatalf("end: %v", err)
	}
	if first.Completed {
		t.Error("completed = true, want false for cancelled end")
	}
	if !first.EndedAt.Equal(endAt) {
		t.Errorf("endedAt = %v, want %v", first.EndedAt, endAt)
	}
	if first.Elapsed != 40*time.Second {
		t.Errorf("elapsed = %v, want 40s", first.Elapsed)
	}

	// Second end is a no-op returning the same snapshot, even with
	// different arguments.
	second, err := tm.End(true, endAt.Add(time.Hour))
	if err != nil {
		t.Fatalf("second end: %v", err)
	}
	if second != first {
		t.Errorf("second end snapshot = %+v, want %+v", second, first)
	}

	if tm.State() != StateEnded {
		t.Errorf("state = %v, want ended", tm.State())
	}
}

func TestTimer_EndFromPaused(t *testing.T) {
	tm := NewTimer()
	if err := tm.Start(KindRest, 5*time.Minute, t0); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := tm.Pause(t0.Add(time.Minute)); err != nil {
		t.Fatalf("pause: %v", err)
	}

	snap, err := tm.End(false, t0.Add(3*time.Minute))
	if err != nil {
		t.Fatalf("end from paused: %v", err)
	}
	// Only the running minute counts, not the paused two.
	if snap.Elapsed != time.Minute {
		t.Errorf("elapsed = %v, want 1m", snap.Elapsed)
	}
}

func TestTimer_EndWhileIdleInvalid(t *testing.T) {
	tm := NewTimer()
	if _, err := tm.End(false, t0); !errors.Is(err, ErrInvalidState) {
		t.Errorf("end while idle err = %v, want ErrInvalidState", err)
	}
}

func TestTimer_RemainingJustAfterStart(t *testing.T) {
	tm := NewTimer()
	if err := tm.Start(KindWork, 1500*time.Second, t0); err != nil {
		t.Fatalf("start: %v", err)
	}
	rem := tm.Remaining(t0.Add(10 * time.Millisecond))
	if rem <= 0 || rem > 1500*time.Second {
		t.Errorf("remaining just after start = %v, want in (0, 25m]", rem)
	}
}
