package gauntlet

import (
	"fmt"

	"github.com/vytor/gauntlet/internal/models"
)

// FormatTime renders a run duration: "m:ss.cc" from one minute up, "s.ccs"
// below that.
func FormatTime(ms int64) string {
	if ms < 0 {
		ms = 0
	}
	minutes := ms / 60000
	seconds := (ms % 60000) / 1000
	centis := (ms % 1000) / 10
	if minutes > 0 {
		return fmt.Sprintf("%d:%02d.%02d", minutes, seconds, centis)
	}
	return fmt.Sprintf("%d.%02ds", seconds, centis)
}

// FormatElapsed renders a live timer as "m:ss".
func FormatElapsed(ms int64) string {
	if ms < 0 {
		ms = 0
	}
	total := ms / 1000
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

// FeedbackMessage renders the transient answer feedback: a miss in Pick mode
// asks for another try, a miss in Type mode reveals the expected answer.
func FeedbackMessage(mode models.GameMode, correct *bool, expected string) string {
	switch {
	case correct == nil:
		return ""
	case *correct:
		return "Correct!"
	case mode == models.ModePick:
		return "Try again"
	default:
		return fmt.Sprintf("It was %q", expected)
	}
}

// RegenHint renders progress towards the next life, e.g. "+1 in 4".
func RegenHint(remaining int) string {
	if remaining <= 0 {
		return ""
	}
	return fmt.Sprintf("+1 in %d", remaining)
}
