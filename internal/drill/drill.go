// Package drill implements the typing drill: a strict, case-insensitive
// per-character comparator over a queue of target words.
//
// The engine owns a single Session. Input arrives one Key at a time through
// SubmitKey; output leaves through the Renderer, CuePlayer, Announcer and
// Listener collaborators. None of the engine operations return errors:
// malformed input degrades to a no-op.
package drill

import (
	"time"
	"unicode"

	"github.com/verte-zerg/catvocab/internal/model"
)

// State is the drill lifecycle state.
type State int

const (
	// Idle means no session is active.
	Idle State = iota
	// InWord means the current word is being typed.
	InWord
	// Finished means every word of the session has been completed.
	Finished
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case InWord:
		return "in-word"
	case Finished:
		return "finished"
	default:
		return "unknown"
	}
}

// Cue is an audio feedback signal tied to an input outcome.
type Cue int

const (
	// CueKeyAccepted is played for a matching key and for backspace.
	CueKeyAccepted Cue = iota
	// CueWordComplete is played when the last character of a word matches.
	CueWordComplete
	// CueKeyRejected is played for a mismatching key.
	CueKeyRejected
)

// Name returns the logical asset name of the cue.
func (c Cue) Name() string {
	switch c {
	case CueKeyAccepted:
		return "click"
	case CueWordComplete:
		return "success"
	case CueKeyRejected:
		return "error"
	default:
		return ""
	}
}

// Key is one logical keystroke: either Backspace or a single rune.
// The zero Key is malformed and ignored by the engine.
type Key struct {
	r         rune
	backspace bool
}

// Backspace deletes the last typed character.
var Backspace = Key{backspace: true}

// RuneKey returns a character key.
func RuneKey(r rune) Key {
	return Key{r: r}
}

// KeyFromString maps a key name to a Key. "backspace" maps to Backspace,
// a string holding exactly one rune maps to that rune, anything else yields
// the zero Key.
func KeyFromString(s string) Key {
	if s == "backspace" {
		return Backspace
	}
	runes := []rune(s)
	if len(runes) != 1 {
		return Key{}
	}
	return RuneKey(runes[0])
}

// IsBackspace reports whether k is the Backspace key.
func (k Key) IsBackspace() bool {
	return k.backspace
}

// Rune returns the character of k, or 0 for Backspace and the zero Key.
func (k Key) Rune() rune {
	return k.r
}

func (k Key) printable() bool {
	return !k.backspace && k.r != 0 && unicode.IsPrint(k.r)
}

// Frame is a render instruction for the current word.
type Frame struct {
	Word     model.WordRecord
	Typed    string
	Error    bool
	Mistyped rune
	Position int
	Total    int
	WPM      int
}

// CharTally counts outcomes for one expected character.
type CharTally struct {
	Correct  int
	Rejected int
}

// Result summarizes a finished session.
type Result struct {
	ID           string
	StartedAt    time.Time
	EndedAt      time.Time
	Words        int
	CorrectChars int
	RejectedKeys int
	WPM          int
	Chars        map[rune]CharTally
}

// Renderer paints a Frame. It is a pure projection of engine state.
type Renderer interface {
	Render(Frame)
}

// CuePlayer plays a short sound. Failures are the player's concern.
type CuePlayer interface {
	Play(Cue)
}

// Announcer speaks text asynchronously, replacing any utterance in flight.
type Announcer interface {
	Announce(text string)
}

// Listener is notified when a session reaches Finished.
type Listener interface {
	RoundComplete(Result)
}

// Scheduler runs fn once after d. The returned func cancels the task;
// calling it after fn ran is harmless.
type Scheduler interface {
	Schedule(d time.Duration, fn func()) (cancel func())
}

// ListenerFunc adapts a function to Listener.
type ListenerFunc func(Result)

// RoundComplete implements Listener.
func (f ListenerFunc) RoundComplete(r Result) { f(r) }

type nopRenderer struct{}

func (nopRenderer) Render(Frame) {}

type nopCues struct{}

func (nopCues) Play(Cue) {}

type nopAnnouncer struct{}

func (nopAnnouncer) Announce(string) {}

type nopListener struct{}

func (nopListener) RoundComplete(Result) {}

// TimerScheduler schedules tasks on the runtime timer.
type TimerScheduler struct{}

// Schedule implements Scheduler.
func (TimerScheduler) Schedule(d time.Duration, fn func()) func() {
	t := time.AfterFunc(d, fn)
	return func() { t.Stop() }
}
