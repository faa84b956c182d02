package session

import (
	"time"

	"github.com/irmodoro/irmodoro/internal/store"
)

// EventType identifies a Coordinator event.
type EventType string

const (
	// EventSessionStarted confirms a new session; carries SessionID.
	EventSessionStarted EventType = "SESSION_STARTED"

	// EventSessionTimeUpdate is the once-per-second progress tick; carries
	// SessionID, Elapsed and Remaining.
	EventSessionTimeUpdate EventType = "SESSION_TIME_UPDATE"

	// EventSessionEnded is the terminal event for a session id; carries the
	// built Record. No tick for that session follows it.
	EventSessionEnded EventType = "SESSION_ENDED"

	// EventStoreSessionData mirrors the record handed to the local store,
	// so foreground views can update without re-reading the database.
	EventStoreSessionData EventType = "STORE_SESSION_DATA"

	// EventStartNextSession asks the foreground to begin the follow-up
	// session, emitted after a completed session when auto-advance is on.
	EventStartNextSession EventType = "START_NEXT_SESSION"
)

// Event is a message published by the Coordinator to all registered
// listeners, in order, after the state change it describes has been applied.
type Event struct {
	Type      EventType
	SessionID int64
	Elapsed   time.Duration
	Remaining time.Duration

	// Record is set on EventSessionEnded and EventStoreSessionData.
	Record *store.SessionRecord
}

// Notification is a user-facing notification request. Delivery is
// fire-and-forget: a failed or blocked notification never affects session
// bookkeeping.
type Notification struct {
	Title string
	Body  string
	Tag   string
}

// completionNotification builds the kind-dependent notification shown when
// a session runs to completion.
func completionNotification(kind Kind) Notification {
	if kind == KindWork {
		return Notification{
			Title: "Work session complete",
			Body:  "Nice focus. Time for a break.",
			Tag:   "session-complete",
		}
	}
	return Notification{
		Title: "Break complete",
		Body:  "Break is over. Back to work.",
		Tag:   "session-complete",
	}
}
