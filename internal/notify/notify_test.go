package notify

import (
	"errors"
	"testing"

	"github.com/irmodoro/irmodoro/internal/session"
)

func TestFallback_SilentReturnsUnavailable(t *testing.T) {
	d := &Desktop{Silent: true}
	err := d.fallback(session.Notification{Title: "Work session complete"})
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("err = %v, want ErrUnavailable", err)
	}
}

func TestFallback_WritesWithoutError(t *testing.T) {
	d := &Desktop{}
	if err := d.fallback(session.Notification{
		Title: "Break complete",
		Body:  "Break is over. Back to work.",
		Tag:   "session-complete",
	}); err != nil {
		t.Errorf("fallback: %v", err)
	}
}
