package drill

import (
	"sync"
	"time"
	"unicode"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/verte-zerg/catvocab/internal/model"
)

// DefaultAdvanceDelay is the pause between completing a word and showing the next.
const DefaultAdvanceDelay = 300 * time.Millisecond

// Options configures an Engine. Nil collaborators are replaced by no-ops.
type Options struct {
	AdvanceDelay      time.Duration
	MinElapsedMinutes float64
	Clock             func() time.Time
	Scheduler         Scheduler
	Renderer          Renderer
	Cues              CuePlayer
	Announcer         Announcer
	Listener          Listener
	Logger            *zap.Logger
}

// Session is the state of one run through a word list.
type Session struct {
	ID           string
	Words        []model.WordRecord
	Position     int
	Typed        []rune
	CorrectChars int
	RejectedKeys int
	StartedAt    time.Time
	WPM          int
	Chars        map[rune]CharTally
}

// Snapshot is a read-only copy of the engine state.
type Snapshot struct {
	State        State
	Position     int
	Total        int
	Word         model.WordRecord
	Typed        string
	CorrectChars int
	WPM          int
	Advancing    bool
}

// Engine drives a single Session.
type Engine struct {
	opts Options
	log  *zap.Logger

	mu      sync.Mutex
	state   State
	session *Session

	// token identifies the scheduled advance; bumping it invalidates callbacks.
	token         uint64
	advancing     bool
	cancelAdvance func()
}

// New constructs an Engine in the Idle state.
func New(opts Options) *Engine {
	if opts.AdvanceDelay <= 0 {
		opts.AdvanceDelay = DefaultAdvanceDelay
	}
	if opts.MinElapsedMinutes <= 0 {
		opts.MinElapsedMinutes = DefaultMinElapsedMinutes
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.Scheduler == nil {
		opts.Scheduler = TimerScheduler{}
	}
	if opts.Renderer == nil {
		opts.Renderer = nopRenderer{}
	}
	if opts.Cues == nil {
		opts.Cues = nopCues{}
	}
	if opts.Announcer == nil {
		opts.Announcer = nopAnnouncer{}
	}
	if opts.Listener == nil {
		opts.Listener = nopListener{}
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Engine{opts: opts, log: opts.Logger}
}

// Start begins a new session over words. An empty list leaves the engine
// untouched.
func (e *Engine) Start(words []model.WordRecord) {
	words = usableWords(words)
	if len(words) == 0 {
		return
	}
	e.mu.Lock()
	e.cancelLocked()
	e.session = &Session{
		ID:        uuid.NewString(),
		Words:     words,
		StartedAt: e.opts.Clock(),
		Chars:     map[rune]CharTally{},
	}
	e.state = InWord
	frame := e.frameLocked(false, 0)
	id := e.session.ID
	e.mu.Unlock()

	e.log.Debug("drill started", zap.String("round", id), zap.Int("words", len(words)))
	e.opts.Renderer.Render(frame)
}

// Stop drops the current session and cancels any pending advance.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cancelLocked()
	e.session = nil
	e.state = Idle
}

// State returns the lifecycle state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Snapshot returns a copy of the engine state.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	snap := Snapshot{State: e.state, Advancing: e.advancing}
	s := e.session
	if s == nil {
		return snap
	}
	snap.Position = s.Position
	snap.Total = len(s.Words)
	snap.Typed = string(s.Typed)
	snap.CorrectChars = s.CorrectChars
	snap.WPM = s.WPM
	if s.Position < len(s.Words) {
		snap.Word = s.Words[s.Position]
	}
	return snap
}

// SubmitKey applies one logical keystroke.
func (e *Engine) SubmitKey(key Key) {
	var effects []func()

	e.mu.Lock()
	s := e.session
	if e.state != InWord || s == nil || e.advancing || s.Position >= len(s.Words) {
		e.mu.Unlock()
		return
	}
	target := []rune(s.Words[s.Position].Word)

	switch {
	case key.IsBackspace():
		if len(s.Typed) == 0 {
			e.mu.Unlock()
			return
		}
		s.Typed = s.Typed[:len(s.Typed)-1]
		frame := e.frameLocked(false, 0)
		effects = append(effects, e.cue(CueKeyAccepted), e.render(frame))

	case !key.printable():
		e.mu.Unlock()
		return

	case len(s.Typed) >= len(target):
		e.mu.Unlock()
		return

	default:
		expected := target[len(s.Typed)]
		tally := s.Chars[unicode.ToLower(expected)]
		if !sameLetter(key.Rune(), expected) {
			s.RejectedKeys++
			tally.Rejected++
			s.Chars[unicode.ToLower(expected)] = tally
			frame := e.frameLocked(true, key.Rune())
			effects = append(effects, e.cue(CueKeyRejected), e.render(frame))
			break
		}
		s.Typed = append(s.Typed, expected)
		s.CorrectChars++
		tally.Correct++
		s.Chars[unicode.ToLower(expected)] = tally
		s.WPM = WPM(s.CorrectChars, e.opts.Clock().Sub(s.StartedAt), e.opts.MinElapsedMinutes)
		frame := e.frameLocked(false, 0)
		effects = append(effects, e.cue(CueKeyAccepted), e.render(frame))
		if len(s.Typed) == len(target) {
			word := string(target)
			effects = append(effects, e.cue(CueWordComplete), func() { e.opts.Announcer.Announce(word) })
			effects = append(effects, e.scheduleLocked())
		}
	}
	e.mu.Unlock()

	for _, fn := range effects {
		fn()
	}
}

// scheduleLocked marks the advance as pending and returns the effect that
// registers it with the scheduler.
func (e *Engine) scheduleLocked() func() {
	e.token++
	e.advancing = true
	token := e.token
	return func() {
		cancel := e.opts.Scheduler.Schedule(e.opts.AdvanceDelay, func() { e.advance(token) })
		e.mu.Lock()
		if e.advancing && e.token == token {
			e.cancelAdvance = cancel
			e.mu.Unlock()
			return
		}
		e.mu.Unlock()
		cancel()
	}
}

func (e *Engine) advance(token uint64) {
	e.mu.Lock()
	if !e.advancing || e.token != token || e.session == nil {
		e.mu.Unlock()
		return
	}
	e.advancing = false
	e.cancelAdvance = nil
	s := e.session
	s.Position++
	s.Typed = nil
	if s.Position < len(s.Words) {
		frame := e.frameLocked(false, 0)
		e.mu.Unlock()
		e.opts.Renderer.Render(frame)
		return
	}
	e.state = Finished
	result := e.resultLocked()
	e.mu.Unlock()

	e.log.Debug("drill finished",
		zap.String("round", result.ID),
		zap.Int("words", result.Words),
		zap.Int("wpm", result.WPM),
		zap.Int("rejected", result.RejectedKeys))
	e.opts.Listener.RoundComplete(result)
}

func (e *Engine) cancelLocked() {
	e.token++
	e.advancing = false
	if e.cancelAdvance != nil {
		e.cancelAdvance()
		e.cancelAdvance = nil
	}
}

func (e *Engine) resultLocked() Result {
	s := e.session
	ended := e.opts.Clock()
	chars := make(map[rune]CharTally, len(s.Chars))
	for r, t := range s.Chars {
		chars[r] = t
	}
	return Result{
		ID:           s.ID,
		StartedAt:    s.StartedAt,
		EndedAt:      ended,
		Words:        len(s.Words),
		CorrectChars: s.CorrectChars,
		RejectedKeys: s.RejectedKeys,
		WPM:          WPM(s.CorrectChars, ended.Sub(s.StartedAt), e.opts.MinElapsedMinutes),
		Chars:        chars,
	}
}

func (e *Engine) frameLocked(isErr bool, mistyped rune) Frame {
	s := e.session
	return Frame{
		Word:     s.Words[s.Position],
		Typed:    string(s.Typed),
		Error:    isErr,
		Mistyped: mistyped,
		Position: s.Position,
		Total:    len(s.Words),
		WPM:      s.WPM,
	}
}

func (e *Engine) cue(c Cue) func() {
	return func() { e.opts.Cues.Play(c) }
}

func (e *Engine) render(f Frame) func() {
	return func() { e.opts.Renderer.Render(f) }
}

func sameLetter(a, b rune) bool {
	return a == b || unicode.ToLower(a) == unicode.ToLower(b)
}

// usableWords drops records without a target spelling.
func usableWords(words []model.WordRecord) []model.WordRecord {
	out := make([]model.WordRecord, 0, len(words))
	for _, w := range words {
		if w.Word == "" {
			continue
		}
		out = append(out, w)
	}
	return out
}
