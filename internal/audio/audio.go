// Package audio plays drill cues and speaks words through external commands.
//
// Every failure is swallowed: a missing sound file, a missing player binary or
// a player that exits non-zero only produces a debug log line.
package audio

import (
	"context"
	"os/exec"
)

// Runner executes an external command until it exits or ctx is canceled.
type Runner func(ctx context.Context, name string, args ...string) error

// ExecRunner runs commands with os/exec.
func ExecRunner(ctx context.Context, name string, args ...string) error {
	return exec.CommandContext(ctx, name, args...).Run()
}

// LookPath resolves a binary name.
type LookPath func(name string) (string, error)

func firstAvailable(look LookPath, candidates []string) string {
	for _, name := range candidates {
		if _, err := look(name); err == nil {
			return name
		}
	}
	return ""
}
