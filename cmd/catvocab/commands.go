package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/verte-zerg/catvocab/internal/config"
	"github.com/verte-zerg/catvocab/internal/logging"
	"github.com/verte-zerg/catvocab/internal/model"
	"github.com/verte-zerg/catvocab/internal/notebook"
	"github.com/verte-zerg/catvocab/internal/stats"
	"github.com/verte-zerg/catvocab/internal/store"
	"github.com/verte-zerg/catvocab/internal/table"
	"github.com/verte-zerg/catvocab/internal/wordlist"
)

const (
	definitionWidth = 60
	topLetters      = 10
)

var (
	searchWordsFile string

	statsSince       string
	statsLast        int
	statsCurveWindow int
	statsWeakest     int
)

func newSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the word list",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSearchCmd,
	}
	cmd.Flags().StringVar(&searchWordsFile, "words-file", "", "JSON word list")
	return cmd
}

func runSearchCmd(cmd *cobra.Command, args []string) error {
	records, err := loadRecords(searchWordsFile)
	if err != nil {
		return err
	}
	query := ""
	if len(args) == 1 {
		query = args[0]
	}
	return writeSearch(cmd.OutOrStdout(), records, query)
}

func writeSearch(w io.Writer, records []model.WordRecord, query string) error {
	hits := wordlist.Search(records, query)
	if _, err := fmt.Fprintf(w, "(%d / %d)\n", len(hits), len(records)); err != nil {
		return err
	}
	if len(hits) == 0 {
		_, err := fmt.Fprintln(w, "No matching words")
		return err
	}
	return writeRecords(w, hits)
}

func writeRecords(w io.Writer, records []model.WordRecord) error {
	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		rows = append(rows, []string{rec.Word, rec.Phonetic, table.Truncate(rec.Definition, definitionWidth)})
	}
	for _, line := range table.Format([]string{"Word", "Phonetic", "Definition"}, rows, nil) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func newNotebookCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notebook",
		Short: "Manage saved words",
	}
	list := &cobra.Command{
		Use:   "list",
		Short: "List saved words",
		Args:  cobra.NoArgs,
		RunE:  runNotebookListCmd,
	}
	add := &cobra.Command{
		Use:   "add <word>",
		Short: "Save a word from the word list",
		Args:  cobra.ExactArgs(1),
		RunE:  runNotebookAddCmd,
	}
	add.Flags().StringVar(&searchWordsFile, "words-file", "", "JSON word list")
	cmd.AddCommand(list, add)
	return cmd
}

func runNotebookListCmd(cmd *cobra.Command, _ []string) error {
	return withNotebook(func(ctx context.Context, nb *notebook.Notebook) error {
		words, err := nb.List(ctx)
		if err != nil {
			return err
		}
		if len(words) == 0 {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), "Your notebook is empty.")
			return err
		}
		return writeRecords(cmd.OutOrStdout(), words)
	})
}

func runNotebookAddCmd(cmd *cobra.Command, args []string) error {
	records, err := loadRecords(searchWordsFile)
	if err != nil {
		return err
	}
	rec, ok := wordlist.Find(records, args[0])
	if !ok {
		return fmt.Errorf("word %q not found in word list", args[0])
	}
	return withNotebook(func(ctx context.Context, nb *notebook.Notebook) error {
		added, err := nb.Add(ctx, rec)
		if err != nil {
			return err
		}
		msg := "Saved to notebook: " + rec.Word
		if !added {
			msg = "Already in your notebook: " + rec.Word
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), msg)
		return err
	})
}

func withNotebook(fn func(ctx context.Context, nb *notebook.Notebook) error) error {
	logger, err := cliLogger()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logger.Error("failed to close db", zap.Error(cerr))
		}
	}()
	return fn(context.Background(), notebook.New(st, logger))
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show drill stats",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N rounds")
	cmd.Flags().IntVar(&statsCurveWindow, "curve-window", defaultCurveWindow, "moving average window")
	cmd.Flags().IntVar(&statsWeakest, "weakest", defaultWeakest, "number of weakest letters to show")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := statsConfig()
	if err != nil {
		return err
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	report, err := stats.BuildReport(context.Background(), st, cfg)
	if err != nil {
		return fmt.Errorf("failed to build stats: %w", err)
	}
	out := cmd.OutOrStdout()
	return writeStats(out, report, cfg, stats.TerminalWidth(), stats.UseColor(out))
}

func writeStats(w io.Writer, report stats.Report, cfg model.StatsConfig, width int, color bool) error {
	if err := stats.RenderSummary(w, report.Rounds); err != nil {
		return err
	}
	if len(report.Rounds) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}
	if err := stats.RenderCurves(w, report.Rounds, cfg.CurveWindow, width, color); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}
	if err := stats.RenderCharTable(w, report.CharAggsWindow, cfg.Weakest); err != nil {
		return err
	}
	if top := stats.TopCharsByFrequency(report.CharAggsAll, topLetters); len(top) > 0 {
		if _, err := fmt.Fprintf(w, "\nMost typed: %s\n", strings.Join(top, " ")); err != nil {
			return err
		}
	}
	return nil
}

func statsConfig() (model.StatsConfig, error) {
	var sinceTime *time.Time
	if statsSince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", statsSince, time.Local)
		if err != nil {
			return model.StatsConfig{}, fmt.Errorf("invalid --since value: %w", err)
		}
		sinceTime = &parsed
	}
	if statsLast < 0 {
		return model.StatsConfig{}, fmt.Errorf("--last must be >= 0")
	}
	return model.StatsConfig{
		Since:       sinceTime,
		Last:        statsLast,
		CurveWindow: statsCurveWindow,
		Weakest:     statsWeakest,
	}, nil
}

func loadRecords(path string) ([]model.WordRecord, error) {
	path = resolveWordsFile(path)
	records, err := wordlist.LoadRecords(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load word list %s: %w", path, err)
	}
	return records, nil
}

func cliLogger() (*zap.Logger, error) {
	return logging.New(config.DefaultLogPath(), verbose)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
