package stats

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/catvocab/internal/model"
)

func TestRoundMetrics(t *testing.T) {
	wpm, cpm, acc := RoundMetrics(50, 10, 60000)
	assert.InDelta(t, 10.0, wpm, 1e-9)
	assert.InDelta(t, 50.0, cpm, 1e-9)
	assert.InDelta(t, 50.0/60.0, acc, 1e-9)

	wpm, cpm, acc = RoundMetrics(50, 0, 0)
	assert.Zero(t, wpm)
	assert.Zero(t, cpm)
	assert.Zero(t, acc)
}

func TestMovingAverage(t *testing.T) {
	assert.Equal(t, []float64{1, 1.5, 2.5, 3.5}, MovingAverage([]float64{1, 2, 3, 4}, 2))
	assert.Equal(t, []float64{1, 2}, MovingAverage([]float64{1, 2}, 1))
	assert.Empty(t, MovingAverage(nil, 3))
}

func TestSparkline(t *testing.T) {
	assert.Equal(t, "", Sparkline(nil))
	assert.Equal(t, "+++", Sparkline([]float64{2, 2, 2}))
	line := Sparkline([]float64{0, 5, 10})
	assert.Equal(t, " ", line[:1])
	assert.Equal(t, "@", line[2:])
}

func TestRenderSummary(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderSummary(&buf, nil))
	assert.Equal(t, "No drill rounds found.\n", buf.String())

	buf.Reset()
	rounds := []model.RoundAggregate{
		{Words: 3, CorrectChars: 50, RejectedKeys: 0, DurationMs: 60000},
		{Words: 2, CorrectChars: 100, RejectedKeys: 0, DurationMs: 60000},
	}
	require.NoError(t, RenderSummary(&buf, rounds))
	out := buf.String()
	for _, want := range []string{"Rounds: 2", "Words typed: 5", "Avg WPM: 15.00", "Best WPM: 20.00", "Avg Accuracy: 100.00%"} {
		assert.Contains(t, out, want)
	}
}

func TestRenderCharTableOrdersWeakestFirst(t *testing.T) {
	var buf bytes.Buffer
	aggs := []model.CharAggregate{
		{Char: "a", Correct: 9, Rejected: 1},
		{Char: "z", Correct: 1, Rejected: 1},
	}
	require.NoError(t, RenderCharTable(&buf, aggs, 0))
	lines := strings.Split(buf.String(), "\n")
	require.GreaterOrEqual(t, len(lines), 4)
	assert.Equal(t, "Weakest Letters", lines[0])
	assert.True(t, strings.HasPrefix(lines[2], "z"))
	assert.True(t, strings.HasPrefix(lines[3], "a"))
}

func TestRenderCurves(t *testing.T) {
	var buf bytes.Buffer
	rounds := []model.RoundAggregate{
		{CorrectChars: 50, DurationMs: 60000},
		{CorrectChars: 100, DurationMs: 60000},
		{CorrectChars: 150, RejectedKeys: 50, DurationMs: 60000},
	}
	require.NoError(t, RenderCurves(&buf, rounds, 1, 80, false))
	out := buf.String()
	assert.Contains(t, out, "Learning Curves")
	assert.Contains(t, out, "WPM")
	assert.Contains(t, out, " 30.0")
	assert.Contains(t, out, " 75.0")
	assert.NotContains(t, out, "\x1b[")
}
