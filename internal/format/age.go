// Package format provides display formatting helpers.
package format

import (
	"fmt"
	"time"
)

// FormatAge formats an elapsed duration as a coarse relative-age label:
// "just now", "5m ago", "2h ago", "3d ago", "2w ago", "3mo ago".
// Weeks are days/7 and months are days/30, both floored; this is not
// calendar-aware.
func FormatAge(d time.Duration) string {
	if d < time.Minute {
		return "just now"
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	}
	if d < 24*time.Hour {
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	}
	days := int(d.Hours() / 24)
	if days < 7 {
		return fmt.Sprintf("%dd ago", days)
	}
	if days < 28 {
		return fmt.Sprintf("%dw ago", days/7)
	}
	return fmt.Sprintf("%dmo ago", days/30)
}
