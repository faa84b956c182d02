package session

import (
	"context"
	"errors"
	"time"

	"github.com/irmodoro/irmodoro/internal/store"
)

// ErrSessionActive is returned by StartSession while another session is
// still active; the caller must end or cancel it first.
var ErrSessionActive = errors.New("session: a session is already active")

// ErrNoSession is returned by operations that need an active session when
// there is none.
var ErrNoSession = errors.New("session: no active session")

// Recorder persists finished sessions. *store.DB satisfies it.
type Recorder interface {
	AddSession(rec *store.SessionRecord) (int64, error)
}

// Notifier delivers user-facing notifications. Delivery failures are
// logged and otherwise ignored.
type Notifier interface {
	Send(n Notification) error
}

// session is the in-flight session owned exclusively by the coordinator
// loop. At most one exists at a time.
type session struct {
	id    int64
	timer *Timer

	// tasksCompleted is carried onto the persisted record at end.
	tasksCompleted int
}

// Coordinator mediates between foreground commands and the Timer. All state
// lives inside the Run loop's goroutine: commands arrive on a channel and
// are processed one at a time in arrival order, events are broadcast to
// listeners in the order the state changes happened, so no locking is
// needed around the timer or the in-flight session. It is also the sole
// writer of SessionRecords; because persistence happens inline in the loop,
// writes for the same date are naturally serialized.
type Coordinator struct {
	recorder Recorder
	notifier Notifier

	cmds      chan command
	listeners []func(Event)

	// now and newTicker are injection points for tests; defaults read the
	// system clock and time.NewTicker.
	now       func() time.Time
	newTicker func(d time.Duration) (<-chan time.Time, func())

	tickInterval time.Duration

	// AutoAdvance makes the coordinator emit StartNextSession after a
	// session runs to completion, mirroring the "start next" notification
	// action.
	AutoAdvance bool

	// Logf receives best-effort diagnostics (failed writes, failed
	// notifications). Defaults to a no-op.
	Logf func(format string, args ...any)

	current *session

	tickC    <-chan time.Time
	stopTick func()
}

// NewCoordinator returns a coordinator with no active session. Listeners
// must be registered before Run is called.
func NewCoordinator(recorder Recorder, notifier Notifier) *Coordinator {
	return &Coordinator{
		recorder: recorder,
		notifier: notifier,
		cmds:     make(chan command, 16),
		now:      time.Now,
		newTicker: func(d time.Duration) (<-chan time.Time, func()) {
			t := time.NewTicker(d)
			return t.C, t.Stop
		},
		tickInterval: time.Second,
		Logf:         func(string, ...any) {},
	}
}

// Subscribe registers a listener for coordinator events. Not safe to call
// concurrently with Run; register all listeners first.
func (c *Coordinator) Subscribe(fn func(Event)) {
	c.listeners = append(c.listeners, fn)
}

// command is a request marshalled into the Run loop. The reply channel
// carries the synchronous result back to the issuer.
type command struct {
	run   func() (any, error)
	reply chan cmdResult
}

type cmdResult struct {
	value any
	err   error
}

// Run processes commands and ticks until ctx is cancelled. If a session is
// still active at shutdown it is ended as cancelled so the record is not
// lost.
func (c *Coordinator) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			c.stopTicking()
			if c.current != nil {
				c.endCurrent(false, 0)
			}
			// Drain queued commands so issuers blocked on a reply unblock.
			for {
				select {
				case cmd := <-c.cmds:
					cmd.reply <- cmdResult{err: ctx.Err()}
				default:
					return ctx.Err()
				}
			}
		case cmd := <-c.cmds:
			value, err := cmd.run()
			cmd.reply <- cmdResult{value: value, err: err}
		case now := <-c.tickC:
			c.handleTick(now)
		}
	}
}

// dispatch sends a command into the loop and waits for its reply.
func (c *Coordinator) dispatch(ctx context.Context, run func() (any, error)) (any, error) {
	cmd := command{run: run, reply: make(chan cmdResult, 1)}
	select {
	case c.cmds <- cmd:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	select {
	case res := <-cmd.reply:
		return res.value, res.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// StartSession begins a new session of the given kind and duration. It
// fails with ErrSessionActive if one is already running, emits
// SessionStarted, and starts the one-second tick.
func (c *Coordinator) StartSession(ctx context.Context, kind Kind, duration time.Duration) (int64, error) {
	v, err := c.dispatch(ctx, func() (any, error) {
		if c.current != nil {
			return int64(0), ErrSessionActive
		}

		now := c.now()
		t := NewTimer()
		if err := t.Start(kind, duration, now); err != nil {
			return int64(0), err
		}

		c.current = &session{id: now.UnixMilli(), timer: t}
		c.tickC, c.stopTick = c.newTicker(c.tickInterval)

		c.emit(Event{Type: EventSessionStarted, SessionID: c.current.id})
		return c.current.id, nil
	})
	if err != nil {
		return 0, err
	}
	return v.(int64), nil
}

// EndSession ends the active session, persists its record, and emits the
// terminal SessionEnded event. tasksCompleted is carried onto the record.
func (c *Coordinator) EndSession(ctx context.Context, completed bool, tasksCompleted int) (*store.SessionRecord, error) {
	v, err := c.dispatch(ctx, func() (any, error) {
		if c.current == nil {
			return (*store.SessionRecord)(nil), ErrNoSession
		}
		c.stopTicking()
		return c.endCurrent(completed, tasksCompleted), nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*store.SessionRecord), nil
}

// PauseSession freezes the active session's countdown. The tick keeps
// firing but paused ticks report a frozen elapsed value and never complete
// the session.
func (c *Coordinator) PauseSession(ctx context.Context) error {
	_, err := c.dispatch(ctx, func() (any, error) {
		if c.current == nil {
			return nil, ErrNoSession
		}
		return nil, c.current.timer.Pause(c.now())
	})
	return err
}

// ResumeSession resumes a paused session.
func (c *Coordinator) ResumeSession(ctx context.Context) error {
	_, err := c.dispatch(ctx, func() (any, error) {
		if c.current == nil {
			return nil, ErrNoSession
		}
		return nil, c.current.timer.Resume(c.now())
	})
	return err
}

// SwitchKind ends the active session as cancelled and immediately starts a
// fresh session of the other kind. Mode switching is an end-plus-start, not
// a mutation, so the one-active-session and fixed-duration invariants hold.
func (c *Coordinator) SwitchKind(ctx context.Context, kind Kind, duration time.Duration) (int64, error) {
	v, err := c.dispatch(ctx, func() (any, error) {
		if c.current != nil {
			c.stopTicking()
			c.endCurrent(false, 0)
		}

		now := c.now()
		t := NewTimer()
		if err := t.Start(kind, duration, now); err != nil {
			return int64(0), err
		}
		c.current = &session{id: now.UnixMilli(), timer: t}
		c.tickC, c.stopTick = c.newTicker(c.tickInterval)
		c.emit(Event{Type: EventSessionStarted, SessionID: c.current.id})
		return c.current.id, nil
	})
	if err != nil {
		return 0, err
	}
	return v.(int64), nil
}

// AddTasksCompleted credits n completed tasks to the active session; they
// are carried onto the persisted record when the session ends.
func (c *Coordinator) AddTasksCompleted(ctx context.Context, n int) error {
	_, err := c.dispatch(ctx, func() (any, error) {
		if c.current == nil {
			return nil, ErrNoSession
		}
		c.current.tasksCompleted += n
		return nil, nil
	})
	return err
}

// UpdateSessionTime is accepted for protocol compatibility but has no
// authoritative effect: the in-memory timer is the single source of truth
// for elapsed time.
func (c *Coordinator) UpdateSessionTime(ctx context.Context) error {
	_, err := c.dispatch(ctx, func() (any, error) { return nil, nil })
	return err
}

// Status is a point-in-time view of the active session, if any.
type Status struct {
	Active    bool
	SessionID int64
	Kind      Kind
	State     State
	Elapsed   time.Duration
	Remaining time.Duration
}

// SessionStatus reports the active session's progress.
func (c *Coordinator) SessionStatus(ctx context.Context) (Status, error) {
	v, err := c.dispatch(ctx, func() (any, error) {
		if c.current == nil {
			return Status{}, nil
		}
		now := c.now()
		t := c.current.timer
		return Status{
			Active:    true,
			SessionID: c.current.id,
			Kind:      t.Kind(),
			State:     t.State(),
			Elapsed:   t.Elapsed(now),
			Remaining: t.Remaining(now),
		}, nil
	})
	if err != nil {
		return Status{}, err
	}
	return v.(Status), nil
}

// ScheduleNotification fires a one-shot notification after the given delay,
// independent of the session state machine. If the coordinator is torn down
// before the delay elapses the notification is lost; that is acceptable.
func (c *Coordinator) ScheduleNotification(ctx context.Context, n Notification, delay time.Duration) error {
	_, err := c.dispatch(ctx, func() (any, error) {
		time.AfterFunc(delay, func() {
			if err := c.notifier.Send(n); err != nil {
				c.Logf("scheduled notification failed: %v", err)
			}
		})
		return nil, nil
	})
	return err
}

// handleTick runs the once-per-second progress check. A tick after the
// session ended is impossible: endCurrent stops and detaches the ticker
// channel before the terminal event is emitted.
func (c *Coordinator) handleTick(now time.Time) {
	if c.current == nil {
		return
	}
	t := c.current.timer
	if t.State() != StateRunning {
		// Paused: the countdown is frozen, no progress to report.
		return
	}

	c.emit(Event{
		Type:      EventSessionTimeUpdate,
		SessionID: c.current.id,
		Elapsed:   t.Elapsed(now),
		Remaining: t.Remaining(now),
	})

	if t.IsComplete(now) {
		c.stopTicking()
		c.endCurrent(true, 0)
	}
}

// endCurrent ends the in-flight session, persists its record, emits the
// terminal events, and fires the completion notification. The caller must
// have stopped the ticker first. A persistence failure is logged but does
// not suppress the SessionEnded event; the foreground countdown must never
// hang on storage.
func (c *Coordinator) endCurrent(completed bool, tasksCompleted int) *store.SessionRecord {
	cur := c.current
	snap, _ := cur.timer.End(completed, c.now())

	if tasksCompleted == 0 {
		tasksCompleted = cur.tasksCompleted
	}
	rec := recordFromSnapshot(snap, tasksCompleted)

	if _, err := c.recorder.AddSession(rec); err != nil {
		c.Logf("persisting session %d failed: %v", cur.id, err)
	}

	c.current = nil
	c.emit(Event{Type: EventStoreSessionData, SessionID: cur.id, Record: rec})
	c.emit(Event{Type: EventSessionEnded, SessionID: cur.id, Record: rec})

	if completed {
		if err := c.notifier.Send(completionNotification(snap.Kind)); err != nil {
			c.Logf("completion notification failed: %v", err)
		}
		if c.AutoAdvance {
			c.emit(Event{Type: EventStartNextSession, SessionID: cur.id})
		}
	}
	return rec
}

// stopTicking stops and detaches the ticker so no further tick can be
// delivered, even one already scheduled.
func (c *Coordinator) stopTicking() {
	if c.stopTick != nil {
		c.stopTick()
		c.stopTick = nil
	}
	c.tickC = nil
}

func (c *Coordinator) emit(ev Event) {
	for _, fn := range c.listeners {
		fn(ev)
	}
}

// recordFromSnapshot builds the persisted record for an ended session.
// Duration is wall-clock end minus start, floored to whole seconds.
func recordFromSnapshot(snap Snapshot, tasksCompleted int) *store.SessionRecord {
	dur := snap.EndedAt.Sub(snap.StartedAt)
	if dur < 0 {
		dur = 0
	}
	return &store.SessionRecord{
		StartTime:       snap.StartedAt,
		EndTime:         snap.EndedAt,
		DurationSeconds: int(dur / time.Second),
		Kind:            string(snap.Kind),
		Completed:       snap.Completed,
		TasksCompleted:  tasksCompleted,
	}
}
