package drill

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWPM(t *testing.T) {
	tests := []struct {
		name       string
		correct    int
		elapsed    time.Duration
		minElapsed float64
		want       int
	}{
		{name: "no chars", correct: 0, elapsed: time.Minute, want: 0},
		{name: "one word per minute", correct: 5, elapsed: time.Minute, want: 1},
		{name: "sixty wpm", correct: 300, elapsed: 5 * time.Minute, want: 60},
		{name: "guard at start", correct: 5, elapsed: 0, minElapsed: 0.01, want: 100},
		{name: "one minute floor", correct: 5, elapsed: time.Second, minElapsed: 1, want: 1},
		{name: "default guard", correct: 5, elapsed: 0, minElapsed: 0, want: 100},
		{name: "positive never zero", correct: 1, elapsed: time.Hour, want: 1},
		{name: "rounds half up", correct: 15, elapsed: 2 * time.Minute, want: 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, WPM(tt.correct, tt.elapsed, tt.minElapsed))
		})
	}
}

func TestCharStates(t *testing.T) {
	assert.Equal(t, []CharState{Current, Pending, Pending}, CharStates("cat", 0))
	assert.Equal(t, []CharState{Correct, Current, Pending}, CharStates("cat", 1))
	assert.Equal(t, []CharState{Correct, Correct, Correct}, CharStates("cat", 3))
	assert.Equal(t, []CharState{Correct, Correct, Correct}, CharStates("cat", 9))
	assert.Empty(t, CharStates("", 0))
}
