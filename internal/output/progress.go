package output

import (
	"fmt"
	"strings"
	"time"
)

// CountdownBar renders a progress bar for a running session.
// Example: "████████░░░░░░░░░░░░ 18:42"
func CountdownBar(elapsed, planned time.Duration, width int) string {
	if width <= 0 {
		width = 20
	}
	frac := 0.0
	if planned > 0 {
		frac = float64(elapsed) / float64(planned)
	}
	filled := int(frac * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)

	remaining := planned - elapsed
	if remaining < 0 {
		remaining = 0
	}

	var style func(string) string
	switch {
	case frac >= 1:
		style = func(s string) string { return StyleSuccess.Render(s) }
	case frac >= 0.75:
		style = func(s string) string { return StyleWarning.Render(s) }
	default:
		style = func(s string) string { return StyleHeader.Render(s) }
	}

	return fmt.Sprintf("%s %s", style(bar), StyleBold.Render(Clock(remaining)))
}

// Clock formats a duration as mm:ss, or h:mm:ss past the hour.
func Clock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	d = d.Round(time.Second)
	h := int(d / time.Hour)
	m := int(d/time.Minute) % 60
	s := int(d/time.Second) % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}

// Section prints a styled section header with a horizontal rule.
func Section(title string) string {
	header := StyleHeader.Render(title)
	rule := StyleMuted.Render(strings.Repeat("─", 66))
	return fmt.Sprintf("\n %s\n %s", header, rule)
}
