package stats

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/verte-zerg/catvocab/internal/model"
)

const (
	terminalWidthBackup = 80
	curveLabelWidth     = 12
	colorReset          = "\x1b[0m"
	colorCyan           = "\x1b[36m"
	colorMagenta        = "\x1b[35m"
)

// TerminalWidth returns the width of stdout, or 80 when it is not a terminal.
func TerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

// UseColor reports whether w is a terminal.
func UseColor(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}

// RenderCurves prints smoothed WPM and accuracy sparklines, one column per
// round, keeping the most recent rounds that fit in totalWidth.
func RenderCurves(w io.Writer, rounds []model.RoundAggregate, window, totalWidth int, useColor bool) error {
	if len(rounds) == 0 {
		return nil
	}
	wpms := make([]float64, len(rounds))
	accs := make([]float64, len(rounds))
	for i, r := range rounds {
		wpm, _, acc := RoundMetrics(r.CorrectChars, r.RejectedKeys, r.DurationMs)
		wpms[i] = wpm
		accs[i] = acc * 100
	}
	wpms = MovingAverage(wpms, window)
	accs = MovingAverage(accs, window)

	width := max(totalWidth-curveLabelWidth, 1)
	if len(wpms) > width {
		wpms = wpms[len(wpms)-width:]
		accs = accs[len(accs)-width:]
	}
	if _, err := fmt.Fprintln(w, "Learning Curves"); err != nil {
		return err
	}
	rows := []struct {
		label  string
		values []float64
		color  string
	}{
		{"WPM", wpms, colorCyan},
		{"Accuracy", accs, colorMagenta},
	}
	for _, row := range rows {
		line := Sparkline(row.values)
		if useColor {
			line = row.color + line + colorReset
		}
		last := row.values[len(row.values)-1]
		if _, err := fmt.Fprintf(w, "%-*s%s %.1f\n", curveLabelWidth, row.label, line, last); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}
