// Package session implements the Pomodoro session lifecycle: a Timer state
// machine tracking one timed interval, and a Coordinator that runs the timer
// in a background loop, persists finished sessions, and broadcasts events.
package session

import (
	"errors"
	"time"
)

// Kind distinguishes work intervals from rest breaks.
type Kind string

const (
	KindWork Kind = "work"
	KindRest Kind = "rest"
)

// State is the lifecycle state of a Timer.
type State int

const (
	StateIdle State = iota
	StateRunning
	StatePaused
	StateEnded
)

// String returns the lowercase state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StatePaused:
		return "paused"
	case StateEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// ErrInvalidState is returned when an operation is invoked in a state that
// does not support it (pause while idle, start after end, and so on).
var ErrInvalidState = errors.New("session: invalid timer state for operation")

// Timer is a single-session countdown state machine. It never reads the
// system clock itself; every state transition and query takes the current
// time as a parameter, so elapsed-time accounting is deterministic and the
// type is trivially testable.
//
// Lifecycle: Idle -> Running <-> Paused -> Ended. Ended is terminal.
type Timer struct {
	state   State
	kind    Kind
	planned time.Duration

	startedAt time.Time
	endedAt   time.Time

	// accounted is running time accumulated before the most recent resume.
	// While running, total elapsed = accounted + (now - runningSince).
	accounted    time.Duration
	runningSince time.Time

	completed bool
}

// NewTimer returns an idle timer.
func NewTimer() *Timer {
	return &Timer{state: StateIdle}
}

// State returns the current lifecycle state.
func (t *Timer) State() State { return t.state }

// Kind returns the session kind. Zero value until Start.
func (t *Timer) Kind() Kind { return t.kind }

// PlannedDuration returns the fixed duration set at Start.
func (t *Timer) PlannedDuration() time.Duration { return t.planned }

// StartedAt returns the wall-clock start time. Zero until Start.
func (t *Timer) StartedAt() time.Time { return t.startedAt }

// Start begins a session of the given kind and planned duration. Only valid
// from the idle state; an ended timer must be replaced, not restarted.
func (t *Timer) Start(kind Kind, planned time.Duration, now time.Time) error {
	if t.state != StateIdle {
		return ErrInvalidState
	}
	if planned <= 0 {
		return ErrInvalidState
	}
	t.kind = kind
	t.planned = planned
	t.startedAt = now
	t.runningSince = now
	t.accounted = 0
	t.state = StateRunning
	return nil
}

// Pause freezes elapsed-time accounting. Valid only while running.
func (t *Timer) Pause(now time.Time) error {
	if t.state != StateRunning {
		return ErrInvalidState
	}
	t.accounted += now.Sub(t.runningSince)
	t.state = StatePaused
	return nil
}

// Resume restarts accounting from the frozen elapsed value. Valid only
// while paused; the paused interval is not counted.
func (t *Timer) Resume(now time.Time) error {
	if t.state != StatePaused {
		return ErrInvalidState
	}
	t.runningSince = now
	t.state = StateRunning
	return nil
}

// Elapsed returns the accounted running time as of now: wall-clock time in
// the running state, excluding all paused intervals.
func (t *Timer) Elapsed(now time.Time) time.Duration {
	switch t.state {
	case StateIdle:
		return 0
	case StateRunning:
		return t.accounted + now.Sub(t.runningSince)
	default: // paused or ended: accounting is frozen
		return t.accounted
	}
}

// Remaining returns the planned duration minus elapsed time, clamped at zero.
func (t *Timer) Remaining(now time.Time) time.Duration {
	rem := t.planned - t.Elapsed(now)
	if rem < 0 {
		return 0
	}
	return rem
}

// IsComplete reports whether elapsed time has reached the planned duration.
// The boundary is inclusive: elapsed == planned counts as complete.
func (t *Timer) IsComplete(now time.Time) bool {
	if t.state == StateIdle {
		return false
	}
	return t.Elapsed(now) >= t.planned
}

// End transitions to the terminal state and freezes the end time. Valid
// from running or paused. Calling End again is a no-op returning the same
// snapshot, so callers racing a tick against an explicit stop cannot
// produce two distinct results.
func (t *Timer) End(completed bool, now time.Time) (Snapshot, error) {
	switch t.state {
	case StateRunning:
		t.accounted += now.Sub(t.runningSince)
		fallthrough
	case StatePaused:
		t.endedAt = now
		t.completed = completed
		t.state = StateEnded
		return t.snapshot(), nil
	case StateEnded:
		return t.snapshot(), nil
	default:
		return Snapshot{}, ErrInvalidState
	}
}

// Snapshot is an immutable view of a timer at (or after) its end.
type Snapshot struct {
	Kind      Kind
	StartedAt time.Time
	EndedAt   time.Time
	Planned   time.Duration
	Elapsed   time.Duration
	Completed bool
}

func (t *Timer) snapshot() Snapshot {
	return Snapshot{
		Kind:      t.kind,
		StartedAt: t.startedAt,
		EndedAt:   t.endedAt,
		Planned:   t.planned,
		Elapsed:   t.accounted,
		Completed: t.completed,
	}
}
