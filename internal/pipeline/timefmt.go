package pipeline

import "fmt"

// FormatSeconds renders a duration in seconds as a remaining-time string,
// "2m 5s" or "1h 2m 5s" once hours are reached. Negative input means the
// estimate is not known yet.
func FormatSeconds(seconds float64) string {
	if seconds < 0 {
		return "calculating..."
	}
	total := int(seconds)
	hrs := total / 3600
	mins := (total % 3600) / 60
	secs := total % 60
	if hrs > 0 {
		return fmt.Sprintf("%dh %dm %ds", hrs, mins, secs)
	}
	return fmt.Sprintf("%dm %ds", mins, secs)
}
