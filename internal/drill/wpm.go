package drill

import (
	"math"
	"time"
)

// DefaultMinElapsedMinutes guards the WPM estimate at session start.
const DefaultMinElapsedMinutes = 0.01

// WPM estimates words per minute from correct characters, counting five
// characters per word. Elapsed time below minElapsed minutes is clamped to
// minElapsed. A positive count never reports 0.
func WPM(correct int, elapsed time.Duration, minElapsed float64) int {
	if correct <= 0 {
		return 0
	}
	if minElapsed <= 0 {
		minElapsed = DefaultMinElapsedMinutes
	}
	minutes := elapsed.Minutes()
	if minutes < minElapsed {
		minutes = minElapsed
	}
	wpm := int(math.Round((float64(correct) / 5.0) / minutes))
	if wpm < 1 {
		return 1
	}
	return wpm
}
