package audio

import (
	"context"
	"errors"
	"os/exec"
	"sync"

	"go.uber.org/zap"
)

var speechCandidates = []string{"say", "espeak", "spd-say"}

// SpeakerOptions configures a Speaker.
type SpeakerOptions struct {
	Lang     string
	Logger   *zap.Logger
	Run      Runner
	LookPath LookPath
}

// Speaker announces words with a text-to-speech command. Each Announce
// cancels the utterance in flight before starting a new one; nothing queues.
type Speaker struct {
	binary string
	lang   string
	run    Runner
	log    *zap.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewSpeaker resolves a speech binary and returns a Speaker.
func NewSpeaker(opts SpeakerOptions) *Speaker {
	if opts.Run == nil {
		opts.Run = ExecRunner
	}
	if opts.LookPath == nil {
		opts.LookPath = exec.LookPath
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Lang == "" {
		opts.Lang = "en-US"
	}
	s := &Speaker{
		binary: firstAvailable(opts.LookPath, speechCandidates),
		lang:   opts.Lang,
		run:    opts.Run,
		log:    opts.Logger,
	}
	if s.binary == "" {
		s.log.Debug("no speech command found", zap.Strings("candidates", speechCandidates))
	}
	return s
}

// Announce implements drill.Announcer.
func (s *Speaker) Announce(text string) {
	if s.binary == "" || text == "" {
		return
	}
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.mu.Unlock()

	args := s.args(text)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer cancel()
		err := s.run(ctx, s.binary, args...)
		if err != nil && !errors.Is(ctx.Err(), context.Canceled) {
			s.log.Debug("speech failed", zap.String("text", text), zap.Error(err))
		}
	}()
}

// Close cancels the utterance in flight and waits for it to exit.
func (s *Speaker) Close() {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.mu.Unlock()
	s.wg.Wait()
}

func (s *Speaker) args(text string) []string {
	switch s.binary {
	case "espeak":
		return []string{"-v", espeakVoice(s.lang), text}
	case "spd-say":
		return []string{"-l", s.lang, "-w", text}
	default:
		return []string{text}
	}
}

func espeakVoice(lang string) string {
	if lang == "en-US" {
		return "en-us"
	}
	return lang
}
