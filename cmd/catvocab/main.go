// Package main provides the CLI entrypoint for catvocab.
package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/verte-zerg/catvocab/internal/audio"
	"github.com/verte-zerg/catvocab/internal/config"
	"github.com/verte-zerg/catvocab/internal/drill"
	"github.com/verte-zerg/catvocab/internal/generator"
	"github.com/verte-zerg/catvocab/internal/logging"
	"github.com/verte-zerg/catvocab/internal/model"
	"github.com/verte-zerg/catvocab/internal/notebook"
	"github.com/verte-zerg/catvocab/internal/stats"
	"github.com/verte-zerg/catvocab/internal/store"
	"github.com/verte-zerg/catvocab/internal/tui"
	"github.com/verte-zerg/catvocab/internal/wordlist"
)

const (
	defaultRound       = 20
	defaultView        = "card"
	defaultWeakTop     = 8
	defaultWeakFactor  = 2.0
	defaultWeakWindow  = 20
	defaultCurveWindow = 10
	defaultWeakest     = 10
)

var (
	practiceWordsFile  string
	practiceView       string
	practiceRound      int
	practiceDelay      time.Duration
	practiceMinElapsed float64
	practiceMistype    bool
	practiceProxy      bool
	practiceFocusWeak  bool
	practiceWeakTop    int
	practiceWeakFactor float64
	practiceWeakWindow int

	soundMute     bool
	soundNoSpeech bool
	soundDir      string

	verbose bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "catvocab",
		Short:         "Terminal vocabulary trainer with a typing drill",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPracticeCmd,
	}

	rootCmd.Flags().StringVar(&practiceWordsFile, "words-file", "", "JSON word list (default: $XDG_CONFIG_HOME/catvocab/words.json)")
	rootCmd.Flags().StringVar(&practiceView, "view", defaultView, "start view: card, typing, library or notebook")
	rootCmd.Flags().IntVar(&practiceRound, "round", defaultRound, "words per typing round (0 = all)")
	rootCmd.Flags().DurationVar(&practiceDelay, "advance-delay", drill.DefaultAdvanceDelay, "pause before the next word")
	rootCmd.Flags().Float64Var(&practiceMinElapsed, "min-elapsed", drill.DefaultMinElapsedMinutes, "minimum elapsed minutes used for WPM")
	rootCmd.Flags().BoolVar(&practiceMistype, "show-mistype", false, "draw the rejected key at the cursor")
	rootCmd.Flags().BoolVar(&practiceProxy, "proxy-input", false, "read keys through an input field")
	rootCmd.Flags().BoolVar(&practiceFocusWeak, "focus-weak", false, "bias rounds toward weak letters")
	rootCmd.Flags().IntVar(&practiceWeakTop, "weak-top", defaultWeakTop, "number of weak letters to focus on")
	rootCmd.Flags().Float64Var(&practiceWeakFactor, "weak-factor", defaultWeakFactor, "weight factor for weak letters")
	rootCmd.Flags().IntVar(&practiceWeakWindow, "weak-window", defaultWeakWindow, "number of recent rounds to compute weak letters")
	rootCmd.Flags().BoolVar(&soundMute, "mute", false, "disable sound cues")
	rootCmd.Flags().BoolVar(&soundNoSpeech, "no-speech", false, "disable spoken words")
	rootCmd.Flags().StringVar(&soundDir, "sounds-dir", "", "directory with type.mp3, success.mp3 and error.mp3")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "debug logging")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newSearchCmd())
	rootCmd.AddCommand(newNotebookCmd())
	rootCmd.AddCommand(newStatsCmd())

	return rootCmd
}

func runPracticeCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := applyFileConfig(cmd, fileCfg); err != nil {
		return err
	}

	cfg := model.Config{
		WordsFile:    resolveWordsFile(practiceWordsFile),
		Round:        practiceRound,
		Mute:         soundMute,
		NoSpeech:     soundNoSpeech,
		SoundsDir:    resolveSoundsDir(soundDir),
		AdvanceDelay: practiceDelay,
		MinElapsed:   practiceMinElapsed,
		ShowMistype:  practiceMistype,
		ProxyInput:   practiceProxy,
		StartView:    practiceView,
		FocusWeak:    practiceFocusWeak,
		WeakTop:      practiceWeakTop,
		WeakFactor:   practiceWeakFactor,
		WeakWindow:   practiceWeakWindow,
	}
	if err := validateConfig(cfg); err != nil {
		return err
	}

	logger, err := logging.New(config.DefaultLogPath(), verbose)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	records, loadErr := wordlist.LoadRecords(cfg.WordsFile)
	if loadErr != nil {
		logger.Warn("word data unavailable", zap.String("path", cfg.WordsFile), zap.Error(loadErr))
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logger.Error("failed to close db", zap.Error(cerr))
		}
	}()

	weakSet := map[rune]struct{}{}
	if cfg.FocusWeak {
		aggs, err := st.GetWeakChars(context.Background(), cfg.WeakWindow)
		if err != nil {
			logger.Error("failed to load weak chars", zap.Error(err))
		} else {
			weakSet = stats.SelectWeakChars(aggs, cfg.WeakTop)
			if len(weakSet) == 0 {
				logger.Info("no stats available for weak-letter focus yet")
			}
		}
	}

	cues, speaker := buildFeedback(cfg, logger)
	defer speaker.Close()

	m := tui.NewModel(tui.Deps{
		Config:     cfg,
		Records:    records,
		LoadErr:    loadErr,
		Generator:  generator.New(),
		Notebook:   notebook.New(st, logger),
		Rounds:     st,
		Cues:       cues,
		Speaker:    speaker,
		Logger:     logger,
		WeakSet:    weakSet,
		WeakFactor: cfg.WeakFactor,
	})
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

type announcer interface {
	drill.Announcer
	Close()
}

type silentSpeaker struct{ audio.Silent }

func (silentSpeaker) Close() {}

func buildFeedback(cfg model.Config, logger *zap.Logger) (drill.CuePlayer, announcer) {
	var cues drill.CuePlayer = audio.Silent{}
	if !cfg.Mute {
		cues = audio.NewPlayer(audio.PlayerOptions{Dir: cfg.SoundsDir, Logger: logger, Bell: os.Stdout})
	}
	var speaker announcer = silentSpeaker{}
	if !cfg.NoSpeech {
		speaker = audio.NewSpeaker(audio.SpeakerOptions{Logger: logger})
	}
	return cues, speaker
}

func applyFileConfig(cmd *cobra.Command, fileCfg config.FileConfig) error {
	p := fileCfg.Practice
	applyStringConfig(cmd, "words-file", &practiceWordsFile, p.WordsFile)
	applyStringConfig(cmd, "view", &practiceView, p.View)
	applyIntConfig(cmd, "round", &practiceRound, p.Round)
	applyFloatConfig(cmd, "min-elapsed", &practiceMinElapsed, p.MinElapsed)
	applyBoolConfig(cmd, "show-mistype", &practiceMistype, p.ShowMistype)
	applyBoolConfig(cmd, "proxy-input", &practiceProxy, p.ProxyInput)
	applyBoolConfig(cmd, "focus-weak", &practiceFocusWeak, p.FocusWeak)
	applyIntConfig(cmd, "weak-top", &practiceWeakTop, p.WeakTop)
	applyFloatConfig(cmd, "weak-factor", &practiceWeakFactor, p.WeakFactor)
	applyIntConfig(cmd, "weak-window", &practiceWeakWindow, p.WeakWindow)
	if err := applyDurationConfig(cmd, "advance-delay", &practiceDelay, p.AdvanceDelay); err != nil {
		return err
	}

	s := fileCfg.Sound
	applyBoolConfig(cmd, "mute", &soundMute, s.Mute)
	applyBoolConfig(cmd, "no-speech", &soundNoSpeech, s.NoSpeech)
	applyStringConfig(cmd, "sounds-dir", &soundDir, s.SoundsDir)
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyFloatConfig(cmd *cobra.Command, name string, target, value *float64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyDurationConfig(cmd *cobra.Command, name string, target *time.Duration, value *string) error {
	if value == nil || cmd.Flags().Changed(name) {
		return nil
	}
	d, err := time.ParseDuration(*value)
	if err != nil {
		return fmt.Errorf("invalid %s in config: %w", name, err)
	}
	*target = d
	return nil
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# catvocab configuration
# Uncomment a value to enable it. CLI flags override config values.

[practice]
# words-file = %q
# view = %q               # card, typing, library or notebook
# round = %d              # Words per typing round (0 = all)
# advance-delay = %q      # Pause before the next word
# min-elapsed = %.2f      # Minimum elapsed minutes used for WPM
# show-mistype = false    # Draw the rejected key at the cursor
# proxy-input = false     # Read keys through an input field
# focus-weak = false      # Bias rounds toward weak letters
# weak-top = %d           # Number of weak letters to focus on
# weak-factor = %.1f      # Weight factor for weak letters
# weak-window = %d        # Number of recent rounds to compute weak letters

[sound]
# mute = false            # Disable sound cues
# no-speech = false       # Disable spoken words
# sounds-dir = %q
`,
		config.DefaultWordsPath(),
		defaultView,
		defaultRound,
		drill.DefaultAdvanceDelay.String(),
		drill.DefaultMinElapsedMinutes,
		defaultWeakTop,
		defaultWeakFactor,
		defaultWeakWindow,
		config.DefaultSoundsDir(),
	)
}

func validateConfig(cfg model.Config) error {
	if cfg.Round < 0 {
		return fmt.Errorf("--round must be >= 0")
	}
	if !tui.ValidView(cfg.StartView) {
		return fmt.Errorf("--view must be one of card, typing, library, notebook")
	}
	if cfg.AdvanceDelay <= 0 {
		return fmt.Errorf("--advance-delay must be > 0")
	}
	if cfg.MinElapsed <= 0 {
		return fmt.Errorf("--min-elapsed must be > 0")
	}
	if cfg.WeakTop < 0 {
		return fmt.Errorf("--weak-top must be >= 0")
	}
	if cfg.WeakFactor < 0 {
		return fmt.Errorf("--weak-factor must be >= 0")
	}
	if cfg.WeakWindow < 0 {
		return fmt.Errorf("--weak-window must be >= 0")
	}
	return nil
}

func resolveWordsFile(path string) string {
	if path == "" {
		return config.DefaultWordsPath()
	}
	return path
}

func resolveSoundsDir(path string) string {
	if path == "" {
		return config.DefaultSoundsDir()
	}
	return path
}
