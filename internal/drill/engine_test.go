package drill

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/verte-zerg/catvocab/internal/model"
)

type fakeScheduler struct {
	tasks []*fakeTask
}

type fakeTask struct {
	delay    time.Duration
	fn       func()
	canceled bool
	ran      bool
}

func (s *fakeScheduler) Schedule(d time.Duration, fn func()) func() {
	t := &fakeTask{delay: d, fn: fn}
	s.tasks = append(s.tasks, t)
	return func() { t.canceled = true }
}

func (s *fakeScheduler) pending() []*fakeTask {
	var out []*fakeTask
	for _, t := range s.tasks {
		if !t.canceled && !t.ran {
			out = append(out, t)
		}
	}
	return out
}

// fire runs every task that is neither canceled nor already run.
func (s *fakeScheduler) fire() {
	for _, t := range s.pending() {
		t.ran = true
		t.fn()
	}
}

type recorder struct {
	frames  []Frame
	cues    []Cue
	spoken  []string
	results []Result
}

func (r *recorder) Render(f Frame)           { r.frames = append(r.frames, f) }
func (r *recorder) Play(c Cue)               { r.cues = append(r.cues, c) }
func (r *recorder) Announce(text string)     { r.spoken = append(r.spoken, text) }
func (r *recorder) RoundComplete(res Result) { r.results = append(r.results, res) }

func (r *recorder) lastFrame(t *testing.T) Frame {
	t.Helper()
	require.NotEmpty(t, r.frames)
	return r.frames[len(r.frames)-1]
}

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func newTestEngine() (*Engine, *recorder, *fakeScheduler, *fakeClock) {
	rec := &recorder{}
	sched := &fakeScheduler{}
	clock := &fakeClock{now: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)}
	e := New(Options{
		Clock:     clock.Now,
		Scheduler: sched,
		Renderer:  rec,
		Cues:      rec,
		Announcer: rec,
		Listener:  rec,
	})
	return e, rec, sched, clock
}

func words(ws ...string) []model.WordRecord {
	out := make([]model.WordRecord, 0, len(ws))
	for _, w := range ws {
		out = append(out, model.WordRecord{Word: w, Definition: "def of " + w})
	}
	return out
}

func typeString(e *Engine, s string) {
	for _, r := range s {
		e.SubmitKey(RuneKey(r))
	}
}

func TestStartEmptyStaysIdle(t *testing.T) {
	e, rec, _, _ := newTestEngine()
	e.Start(nil)
	assert.Equal(t, Idle, e.State())
	assert.Empty(t, rec.frames)

	e.SubmitKey(RuneKey('a'))
	e.SubmitKey(Backspace)
	assert.Empty(t, rec.frames)
	assert.Empty(t, rec.cues)
}

func TestStartRendersFirstWord(t *testing.T) {
	e, rec, _, _ := newTestEngine()
	e.Start(words("cat", "dog"))
	assert.Equal(t, InWord, e.State())
	require.Len(t, rec.frames, 1)
	f := rec.frames[0]
	assert.Equal(t, "cat", f.Word.Word)
	assert.Equal(t, "", f.Typed)
	assert.Equal(t, 0, f.Position)
	assert.Equal(t, 2, f.Total)
	assert.False(t, f.Error)
}

func TestCompletingWordSchedulesOneAdvance(t *testing.T) {
	e, rec, sched, _ := newTestEngine()
	e.Start(words("cat", "dog"))
	typeString(e, "cat")

	snap := e.Snapshot()
	assert.Equal(t, "cat", snap.Typed)
	assert.True(t, snap.Advancing)
	require.Len(t, sched.pending(), 1)
	assert.Equal(t, DefaultAdvanceDelay, sched.pending()[0].delay)
	assert.Equal(t, []string{"cat"}, rec.spoken)
	assert.Equal(t, []Cue{CueKeyAccepted, CueKeyAccepted, CueKeyAccepted, CueWordComplete}, rec.cues)
}

func TestKeysIgnoredWhileAdvancePending(t *testing.T) {
	e, rec, sched, _ := newTestEngine()
	e.Start(words("cat", "dog"))
	typeString(e, "cat")
	frames := len(rec.frames)

	e.SubmitKey(Backspace)
	e.SubmitKey(RuneKey('d'))
	typeString(e, "cat")

	assert.Equal(t, "cat", e.Snapshot().Typed)
	assert.Len(t, rec.frames, frames)
	assert.Len(t, sched.pending(), 1)
}

func TestCatDogScenario(t *testing.T) {
	e, rec, sched, _ := newTestEngine()
	e.Start(words("cat", "dog"))

	typeString(e, "cat")
	sched.fire()
	snap := e.Snapshot()
	assert.Equal(t, 1, snap.Position)
	assert.Equal(t, "dog", snap.Word.Word)
	assert.Equal(t, "", snap.Typed)
	assert.Equal(t, InWord, snap.State)

	e.SubmitKey(RuneKey('d'))
	e.SubmitKey(RuneKey('x'))
	assert.Equal(t, "d", e.Snapshot().Typed)
	f := rec.lastFrame(t)
	assert.True(t, f.Error)
	assert.Equal(t, 'x', f.Mistyped)
	assert.Equal(t, CueKeyRejected, rec.cues[len(rec.cues)-1])

	typeString(e, "og")
	assert.Equal(t, "dog", e.Snapshot().Typed)
	sched.fire()

	assert.Equal(t, Finished, e.State())
	assert.Equal(t, 2, e.Snapshot().Position)
	require.Len(t, rec.results, 1)
	res := rec.results[0]
	assert.Equal(t, 2, res.Words)
	assert.Equal(t, 6, res.CorrectChars)
	assert.Equal(t, 1, res.RejectedKeys)
	assert.Equal(t, CharTally{Correct: 1, Rejected: 1}, res.Chars['o'])
	assert.NotEmpty(t, res.ID)
}

func TestCaseInsensitiveKeepsTargetCasing(t *testing.T) {
	e, _, sched, _ := newTestEngine()
	e.Start(words("Cat"))
	typeString(e, "CA")
	assert.Equal(t, "Ca", e.Snapshot().Typed)
	e.SubmitKey(RuneKey('T'))
	assert.Equal(t, "Cat", e.Snapshot().Typed)
	require.Len(t, sched.pending(), 1)
}

func TestBackspaceIdempotentAtEmpty(t *testing.T) {
	e, rec, _, _ := newTestEngine()
	e.Start(words("house"))
	typeString(e, "hou")
	for i := 0; i < 3; i++ {
		e.SubmitKey(Backspace)
	}
	assert.Equal(t, "", e.Snapshot().Typed)

	frames, cues := len(rec.frames), len(rec.cues)
	e.SubmitKey(Backspace)
	e.SubmitKey(Backspace)
	assert.Equal(t, "", e.Snapshot().Typed)
	assert.Len(t, rec.frames, frames)
	assert.Len(t, rec.cues, cues)
}

func TestBackspacePlaysAcceptCue(t *testing.T) {
	e, rec, _, _ := newTestEngine()
	e.Start(words("ab"))
	e.SubmitKey(RuneKey('a'))
	e.SubmitKey(Backspace)
	assert.Equal(t, CueKeyAccepted, rec.cues[len(rec.cues)-1])
	assert.Equal(t, "", rec.lastFrame(t).Typed)
}

func TestWrongKeyNeverMovesPrefix(t *testing.T) {
	e, _, sched, _ := newTestEngine()
	e.Start(words("go", "run"))
	for _, r := range "xyzXYZ!1" {
		e.SubmitKey(RuneKey(r))
		snap := e.Snapshot()
		assert.Equal(t, 0, len(snap.Typed))
		assert.Equal(t, 0, snap.Position)
	}
	assert.Empty(t, sched.pending())
}

func TestMalformedKeysIgnored(t *testing.T) {
	e, rec, _, _ := newTestEngine()
	e.Start(words("ok"))
	frames := len(rec.frames)
	e.SubmitKey(Key{})
	e.SubmitKey(KeyFromString("enter"))
	e.SubmitKey(KeyFromString(""))
	e.SubmitKey(RuneKey('\t'))
	assert.Len(t, rec.frames, frames)
	assert.Empty(t, rec.cues)
}

func TestRestartCancelsPendingAdvance(t *testing.T) {
	e, rec, sched, _ := newTestEngine()
	e.Start(words("a", "b"))
	e.SubmitKey(RuneKey('a'))
	require.Len(t, sched.pending(), 1)
	stale := sched.tasks[0]

	e.Start(words("x", "y"))
	assert.True(t, stale.canceled)

	// A stale callback firing anyway must not touch the new session.
	stale.fn()
	snap := e.Snapshot()
	assert.Equal(t, 0, snap.Position)
	assert.Equal(t, "x", snap.Word.Word)
	assert.Empty(t, rec.results)
}

func TestStopReturnsToIdle(t *testing.T) {
	e, rec, sched, _ := newTestEngine()
	e.Start(words("a"))
	e.SubmitKey(RuneKey('a'))
	e.Stop()
	assert.Equal(t, Idle, e.State())
	for _, task := range sched.tasks {
		assert.True(t, task.canceled)
		task.fn()
	}
	assert.Empty(t, rec.results)
	assert.Equal(t, Idle, e.State())
}

func TestFinishedIgnoresInput(t *testing.T) {
	e, rec, sched, _ := newTestEngine()
	e.Start(words("a"))
	e.SubmitKey(RuneKey('a'))
	sched.fire()
	require.Equal(t, Finished, e.State())
	frames := len(rec.frames)
	e.SubmitKey(RuneKey('a'))
	e.SubmitKey(Backspace)
	assert.Len(t, rec.frames, frames)
}

func TestWPMInFrames(t *testing.T) {
	e, rec, _, clock := newTestEngine()
	e.Start(words("abcdefghij"))
	clock.now = clock.now.Add(time.Minute)
	typeString(e, "abcde")
	assert.Equal(t, 1, rec.lastFrame(t).WPM)
	typeString(e, "fghij")
	assert.Equal(t, 2, rec.lastFrame(t).WPM)
}

func TestEmptyWordRecordsSkipped(t *testing.T) {
	e, rec, _, _ := newTestEngine()
	e.Start([]model.WordRecord{{Word: ""}, {Word: "ok"}})
	require.Len(t, rec.frames, 1)
	assert.Equal(t, "ok", rec.frames[0].Word.Word)
	assert.Equal(t, 1, rec.frames[0].Total)
}

func TestTimerSchedulerAdvances(t *testing.T) {
	defer goleak.VerifyNone(t)

	done := make(chan Result, 1)
	e := New(Options{
		AdvanceDelay: 5 * time.Millisecond,
		Listener:     ListenerFunc(func(r Result) { done <- r }),
	})
	e.Start(words("hi"))
	typeString(e, "hi")

	select {
	case res := <-done:
		assert.Equal(t, 2, res.CorrectChars)
	case <-time.After(2 * time.Second):
		t.Fatal("advance never fired")
	}
	assert.Equal(t, Finished, e.State())
}

func TestKeyFromString(t *testing.T) {
	assert.True(t, KeyFromString("backspace").IsBackspace())
	assert.Equal(t, 'é', KeyFromString("é").Rune())
	assert.Equal(t, Key{}, KeyFromString("ab"))
}
