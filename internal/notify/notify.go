// Package notify delivers desktop notifications for session events. On
// macOS it uses osascript, on Linux it tries notify-send. If neither is
// available, it falls back to printing to stderr. Delivery is best-effort:
// a blocked or failed notification never affects session state.
package notify

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"

	"github.com/irmodoro/irmodoro/internal/session"
)

// ErrUnavailable indicates the platform declined or lacks a notification
// mechanism. Callers are expected to ignore it.
var ErrUnavailable = errors.New("notify: no notification mechanism available")

// Desktop sends notifications through the host desktop environment.
// The zero value is ready to use.
type Desktop struct {
	// Silent suppresses the stderr fallback, for quiet/daemon runs.
	Silent bool
}

// Send implements session.Notifier.
func (d *Desktop) Send(n session.Notification) error {
	switch runtime.GOOS {
	case "darwin":
		return d.sendMacOS(n)
	case "linux":
		return d.sendLinux(n)
	default:
		return d.fallback(n)
	}
}

// sendMacOS sends a notification via osascript on macOS.
func (d *Desktop) sendMacOS(n session.Notification) error {
	script := fmt.Sprintf(
		`display notification %q with title "irmodoro" subtitle %q`,
		n.Body, n.Title,
	)
	cmd := exec.Command("osascript", "-e", script)
	if err := cmd.Run(); err != nil {
		// Fall back to stderr if osascript fails.
		return d.fallback(n)
	}
	return nil
}

// sendLinux sends a notification via notify-send on Linux.
func (d *Desktop) sendLinux(n session.Notification) error {
	if _, err := exec.LookPath("notify-send"); err != nil {
		return d.fallback(n)
	}

	title := fmt.Sprintf("irmodoro: %s", n.Title)
	cmd := exec.Command("notify-send", title, n.Body)
	if err := cmd.Run(); err != nil {
		return d.fallback(n)
	}
	return nil
}

// fallback prints the notification to stderr when no desktop notification
// system is available.
func (d *Desktop) fallback(n session.Notification) error {
	if d.Silent {
		return ErrUnavailable
	}
	_, err := fmt.Fprintf(os.Stderr, "[%s] %s: %s\n", n.Tag, n.Title, n.Body)
	return err
}
