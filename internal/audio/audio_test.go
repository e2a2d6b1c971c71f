package audio

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/verte-zerg/catvocab/internal/drill"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type call struct {
	name string
	args []string
}

type fakeRunner struct {
	mu    sync.Mutex
	calls []call
	block bool
	err   error
}

func (f *fakeRunner) Run(ctx context.Context, name string, args ...string) error {
	f.mu.Lock()
	f.calls = append(f.calls, call{name: name, args: args})
	f.mu.Unlock()
	if f.block {
		<-ctx.Done()
		return ctx.Err()
	}
	return f.err
}

func (f *fakeRunner) snapshot() []call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]call(nil), f.calls...)
}

func lookOnly(names ...string) LookPath {
	return func(name string) (string, error) {
		for _, n := range names {
			if n == name {
				return "/usr/bin/" + name, nil
			}
		}
		return "", errors.New("not found")
	}
}

func writeSounds(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range []string{"type.mp3", "success.mp3", "error.mp3"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}
	return dir
}

func TestPlayerPlaysCueFile(t *testing.T) {
	dir := writeSounds(t)
	runner := &fakeRunner{}
	p := NewPlayer(PlayerOptions{Dir: dir, Run: runner.Run, LookPath: lookOnly("afplay")})
	p.Play(drill.CueWordComplete)
	p.Wait()

	calls := runner.snapshot()
	require.Len(t, calls, 1)
	assert.Equal(t, "afplay", calls[0].name)
	assert.Equal(t, []string{"-v", "0.60", filepath.Join(dir, "success.mp3")}, calls[0].args)
}

func TestPlayerSwallowsFailures(t *testing.T) {
	runner := &fakeRunner{err: errors.New("autoplay blocked")}
	p := NewPlayer(PlayerOptions{Dir: writeSounds(t), Run: runner.Run, LookPath: lookOnly("paplay")})
	assert.NotPanics(t, func() {
		p.Play(drill.CueKeyAccepted)
		p.Wait()
	})
	assert.Len(t, runner.snapshot(), 1)
}

func TestPlayerMissingFileIsSilent(t *testing.T) {
	runner := &fakeRunner{}
	p := NewPlayer(PlayerOptions{Dir: t.TempDir(), Run: runner.Run, LookPath: lookOnly("aplay")})
	p.Play(drill.CueKeyRejected)
	p.Wait()
	assert.Empty(t, runner.snapshot())
}

func TestPlayerBellFallback(t *testing.T) {
	var bell bytes.Buffer
	p := NewPlayer(PlayerOptions{Dir: writeSounds(t), LookPath: lookOnly(), Bell: &bell})
	p.Play(drill.CueKeyAccepted)
	p.Play(drill.CueKeyRejected)
	assert.Equal(t, "\a", bell.String())
}

func TestSpeakerCancelsPreviousUtterance(t *testing.T) {
	runner := &fakeRunner{block: true}
	s := NewSpeaker(SpeakerOptions{Run: runner.Run, LookPath: lookOnly("espeak")})
	s.Announce("cat")
	s.Announce("dog")

	require.Eventually(t, func() bool { return len(runner.snapshot()) == 2 }, time.Second, 5*time.Millisecond)
	s.Close()

	var spoken [][]string
	for _, c := range runner.snapshot() {
		spoken = append(spoken, c.args)
	}
	assert.ElementsMatch(t, [][]string{{"-v", "en-us", "cat"}, {"-v", "en-us", "dog"}}, spoken)
}

func TestSpeakerWithoutBinaryIsNoop(t *testing.T) {
	runner := &fakeRunner{}
	s := NewSpeaker(SpeakerOptions{Run: runner.Run, LookPath: lookOnly()})
	s.Announce("cat")
	s.Close()
	assert.Empty(t, runner.snapshot())
}

func TestVolumeArgs(t *testing.T) {
	assert.Equal(t, []string{"--volume=32768"}, volumeArgs("paplay", 0.5))
	assert.Equal(t, []string{"-q", "-f", "9830"}, volumeArgs("mpg123", 0.3))
	assert.Nil(t, volumeArgs("aplay", 0.5))
}
