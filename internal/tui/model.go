// Package tui provides the Bubble Tea vocabulary interface: flip cards, the
// typing drill, the searchable library and the saved-words notebook.
package tui

import (
	"context"
	"sort"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/verte-zerg/catvocab/internal/drill"
	"github.com/verte-zerg/catvocab/internal/generator"
	"github.com/verte-zerg/catvocab/internal/input"
	"github.com/verte-zerg/catvocab/internal/model"
	"github.com/verte-zerg/catvocab/internal/notebook"
	"github.com/verte-zerg/catvocab/internal/wordlist"
)

const errorFlash = 250 * time.Millisecond

type view int

const (
	viewCard view = iota
	viewTyping
	viewLibrary
	viewNotebook
)

var viewNames = []string{"Cards", "Typing", "Library", "Notebook"}

// ValidView reports whether name selects a known start view.
func ValidView(name string) bool {
	_, ok := viewByName(name)
	return ok
}

func viewByName(name string) (view, bool) {
	switch name {
	case "", "card", "cards":
		return viewCard, true
	case "typing":
		return viewTyping, true
	case "library":
		return viewLibrary, true
	case "notebook":
		return viewNotebook, true
	default:
		return viewCard, false
	}
}

// RoundRecorder persists finished drill rounds.
type RoundRecorder interface {
	InsertRound(ctx context.Context, stats model.RoundStats, chars []model.CharStats) error
}

// Deps wires the model to its collaborators.
type Deps struct {
	Config     model.Config
	Records    []model.WordRecord
	LoadErr    error
	Generator  *generator.Generator
	Notebook   *notebook.Notebook
	Rounds     RoundRecorder
	Cues       drill.CuePlayer
	Speaker    drill.Announcer
	Logger     *zap.Logger
	WeakSet    map[rune]struct{}
	WeakFactor float64
}

type taskMsg func()

type clearFlashMsg int

// Model implements the Bubble Tea vocabulary UI.
type Model struct {
	cfg        model.Config
	records    []model.WordRecord
	loadErr    error
	gen        *generator.Generator
	notebook   *notebook.Notebook
	rounds     RoundRecorder
	speaker    drill.Announcer
	log        *zap.Logger
	weakSet    map[rune]struct{}
	weakFactor float64

	engine *drill.Engine
	gate   *input.Gate
	tasks  chan func()

	width  int
	height int
	view       view
	modal      *model.WordRecord
	modalSaved bool
	status     string

	deck     []model.WordRecord
	cardIdx  int
	revealed bool

	frame    drill.Frame
	hasFrame bool
	flash    bool
	flashSeq int
	result   *drill.Result
	proxy    textinput.Model

	search    textinput.Model
	libHits   []model.WordRecord
	libCursor int

	saved    []model.WordRecord
	nbCursor int
}

// NewModel constructs the UI model.
func NewModel(d Deps) *Model {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	if d.Generator == nil {
		d.Generator = generator.New()
	}
	m := &Model{
		cfg:        d.Config,
		records:    d.Records,
		loadErr:    d.LoadErr,
		gen:        d.Generator,
		notebook:   d.Notebook,
		rounds:     d.Rounds,
		speaker:    d.Speaker,
		log:        d.Logger,
		weakSet:    d.WeakSet,
		weakFactor: d.WeakFactor,
		gate:       &input.Gate{},
		tasks:      make(chan func(), 8),
	}
	if m.speaker == nil {
		m.speaker = nopAnnouncer{}
	}
	m.engine = drill.New(drill.Options{
		AdvanceDelay:      d.Config.AdvanceDelay,
		MinElapsedMinutes: d.Config.MinElapsed,
		Scheduler:         taskScheduler{tasks: m.tasks},
		Renderer:          m,
		Cues:              d.Cues,
		Announcer:         m.speaker,
		Listener:          m,
		Logger:            d.Logger,
	})

	m.proxy = textinput.New()
	m.proxy.Prompt = "> "
	m.proxy.Placeholder = "type here"
	m.search = textinput.New()
	m.search.Prompt = "Search: "
	m.search.Placeholder = "word or definition"

	if m.loadErr == nil {
		m.deck = m.gen.Shuffle(m.records)
	}
	start, _ := viewByName(d.Config.StartView)
	m.switchView(start)
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return m.waitForTask()
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case taskMsg:
		msg()
		m.syncProxy()
		return m, m.waitForTask()
	case clearFlashMsg:
		if int(msg) == m.flashSeq {
			m.flash = false
		}
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.modal != nil {
			return m.updateModal(msg)
		}
		switch m.view {
		case viewTyping:
			return m.updateTyping(msg)
		case viewLibrary:
			return m.updateLibrary(msg)
		case viewNotebook:
			return m.updateNotebook(msg)
		default:
			return m.updateCard(msg)
		}
	default:
		return m, nil
	}
}

// Render implements drill.Renderer.
func (m *Model) Render(f drill.Frame) {
	m.frame = f
	m.hasFrame = true
	if f.Error {
		m.flash = true
		m.flashSeq++
		return
	}
	m.flash = false
}

// RoundComplete implements drill.Listener.
func (m *Model) RoundComplete(res drill.Result) {
	m.result = &res
	m.saveRound(res)
}

func (m *Model) waitForTask() tea.Cmd {
	tasks := m.tasks
	return func() tea.Msg {
		return taskMsg(<-tasks)
	}
}

func (m *Model) switchView(v view) {
	if m.view == viewTyping && v != viewTyping {
		m.engine.Stop()
		m.gate.Close()
		m.proxy.Blur()
	}
	m.search.Blur()
	m.view = v
	m.status = ""

	switch v {
	case viewTyping:
		m.gate.Open()
		if m.cfg.ProxyInput {
			m.proxy.Focus()
		}
		m.startRound()
	case viewLibrary:
		m.search.SetValue("")
		m.search.Focus()
		m.refreshLibrary()
	case viewNotebook:
		m.loadNotebook()
	}
}

func (m *Model) startRound() {
	m.result = nil
	m.hasFrame = false
	m.flash = false
	if m.loadErr != nil {
		return
	}
	var words []model.WordRecord
	if len(m.weakSet) > 0 {
		words = m.gen.RoundWeighted(m.records, m.cfg.Round, m.weakSet, m.weakFactor)
	} else {
		words = m.gen.Round(m.records, m.cfg.Round)
	}
	m.engine.Start(words)
	m.syncProxy()
}

func (m *Model) updateCard(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case " ", "enter":
		m.revealed = true
	case "n", "right":
		if len(m.deck) > 0 {
			m.cardIdx = (m.cardIdx + 1) % len(m.deck)
			m.revealed = false
		}
	case "p":
		if rec, ok := m.currentCard(); ok {
			m.speaker.Announce(rec.Word)
		}
	case "s":
		if rec, ok := m.currentCard(); ok {
			m.saveToNotebook(rec)
		}
	default:
		m.navigate(msg.String())
	}
	return m, nil
}

func (m *Model) navigate(key string) {
	switch key {
	case "t":
		m.switchView(viewTyping)
	case "l":
		m.switchView(viewLibrary)
	case "b":
		m.switchView(viewNotebook)
	}
}

func (m *Model) currentCard() (model.WordRecord, bool) {
	if len(m.deck) == 0 {
		return model.WordRecord{}, false
	}
	return m.deck[m.cardIdx], true
}

func (m *Model) updateTyping(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.switchView(viewCard)
		return m, nil
	case tea.KeyEnter:
		if m.engine.State() == drill.Finished {
			m.startRound()
		}
		return m, nil
	}

	var cmd tea.Cmd
	var keys []drill.Key
	if m.cfg.ProxyInput {
		m.proxy, cmd = m.proxy.Update(msg)
		keys = m.gate.ProxyChanged(m.proxy.Value())
	} else {
		keys = m.gate.Press(keyPress(msg))
	}
	seq := m.flashSeq
	for _, k := range keys {
		m.engine.SubmitKey(k)
	}
	m.syncProxy()
	if m.flash && m.flashSeq != seq {
		flashSeq := m.flashSeq
		cmd = tea.Batch(cmd, tea.Tick(errorFlash, func(time.Time) tea.Msg {
			return clearFlashMsg(flashSeq)
		}))
	}
	return m, cmd
}

func (m *Model) syncProxy() {
	typed := m.engine.Snapshot().Typed
	m.gate.SyncProxy(typed)
	if m.cfg.ProxyInput {
		m.proxy.SetValue(typed)
		m.proxy.CursorEnd()
	}
}

func keyPress(msg tea.KeyMsg) input.KeyPress {
	switch msg.Type {
	case tea.KeyBackspace, tea.KeyDelete:
		return input.KeyPress{Backspace: true}
	case tea.KeySpace:
		return input.KeyPress{Runes: []rune{' '}, Alt: msg.Alt}
	case tea.KeyRunes:
		return input.KeyPress{Runes: msg.Runes, Alt: msg.Alt}
	default:
		return input.KeyPress{}
	}
}

func (m *Model) updateLibrary(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.switchView(viewCard)
		return m, nil
	case tea.KeyUp:
		m.libCursor = max(m.libCursor-1, 0)
		return m, nil
	case tea.KeyDown:
		m.libCursor = min(m.libCursor+1, max(len(m.libHits)-1, 0))
		return m, nil
	case tea.KeyEnter:
		if m.libCursor < len(m.libHits) {
			m.openModal(m.libHits[m.libCursor])
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.refreshLibrary()
	return m, cmd
}

func (m *Model) refreshLibrary() {
	m.libHits = wordlist.Search(m.records, m.search.Value())
	if m.libCursor >= len(m.libHits) {
		m.libCursor = max(len(m.libHits)-1, 0)
	}
}

func (m *Model) updateNotebook(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.switchView(viewCard)
	case "q":
		return m, tea.Quit
	case "up", "k":
		m.nbCursor = max(m.nbCursor-1, 0)
	case "down", "j":
		m.nbCursor = min(m.nbCursor+1, max(len(m.saved)-1, 0))
	case "enter":
		if m.nbCursor < len(m.saved) {
			m.openModal(m.saved[m.nbCursor])
		}
	case "p":
		if m.nbCursor < len(m.saved) {
			m.speaker.Announce(m.saved[m.nbCursor].Word)
		}
	default:
		m.navigate(msg.String())
	}
	return m, nil
}

func (m *Model) updateModal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "enter", "q":
		m.modal = nil
	case "p":
		m.speaker.Announce(m.modal.Word)
	case "s":
		m.saveToNotebook(*m.modal)
		m.modalSaved = m.isSaved(m.modal.Word)
	}
	return m, nil
}

func (m *Model) openModal(rec model.WordRecord) {
	m.modal = &rec
	m.modalSaved = m.isSaved(rec.Word)
}

func (m *Model) isSaved(word string) bool {
	if m.notebook == nil {
		return false
	}
	saved, err := m.notebook.Contains(context.Background(), word)
	if err != nil {
		m.log.Debug("notebook lookup failed", zap.String("word", word), zap.Error(err))
		return false
	}
	return saved
}

func (m *Model) loadNotebook() {
	m.saved = nil
	m.nbCursor = 0
	if m.notebook == nil {
		return
	}
	words, err := m.notebook.List(context.Background())
	if err != nil {
		m.log.Error("failed to load notebook", zap.Error(err))
		m.status = "Could not read the notebook."
		return
	}
	m.saved = words
}

func (m *Model) saveToNotebook(rec model.WordRecord) {
	if m.notebook == nil {
		return
	}
	added, err := m.notebook.Add(context.Background(), rec)
	switch {
	case err != nil:
		m.log.Error("failed to save word", zap.String("word", rec.Word), zap.Error(err))
		m.status = "Could not save to the notebook."
	case added:
		m.status = "Saved to notebook: " + rec.Word
	default:
		m.status = "Already in your notebook: " + rec.Word
	}
}

func (m *Model) saveRound(res drill.Result) {
	if m.rounds == nil {
		return
	}
	stats := model.RoundStats{
		ID:           res.ID,
		StartedAt:    res.StartedAt,
		EndedAt:      res.EndedAt,
		WordsFile:    m.cfg.WordsFile,
		Words:        res.Words,
		CorrectChars: res.CorrectChars,
		RejectedKeys: res.RejectedKeys,
		DurationMs:   res.EndedAt.Sub(res.StartedAt).Milliseconds(),
	}
	chars := make([]model.CharStats, 0, len(res.Chars))
	for r, tally := range res.Chars {
		chars = append(chars, model.CharStats{Char: string(r), Correct: tally.Correct, Rejected: tally.Rejected})
	}
	sort.Slice(chars, func(i, j int) bool { return chars[i].Char < chars[j].Char })
	if err := m.rounds.InsertRound(context.Background(), stats, chars); err != nil {
		m.log.Error("failed to save round", zap.String("round", res.ID), zap.Error(err))
		return
	}
	m.log.Info("round saved", zap.String("round", res.ID), zap.Int("wpm", res.WPM))
}

// taskScheduler hands deferred engine callbacks to the Update loop.
type taskScheduler struct {
	tasks chan<- func()
}

// Schedule implements drill.Scheduler.
func (s taskScheduler) Schedule(d time.Duration, fn func()) func() {
	t := time.AfterFunc(d, func() { s.tasks <- fn })
	return func() { t.Stop() }
}

type nopAnnouncer struct{}

func (nopAnnouncer) Announce(string) {}
