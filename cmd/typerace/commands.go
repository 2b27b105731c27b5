package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/typerace/internal/config"
	"github.com/verte-zerg/typerace/internal/leaderboard"
	"github.com/verte-zerg/typerace/internal/leaderboardui"
	"github.com/verte-zerg/typerace/internal/model"
	"github.com/verte-zerg/typerace/internal/session"
	"github.com/verte-zerg/typerace/internal/source"
	"github.com/verte-zerg/typerace/internal/stats"
	"github.com/verte-zerg/typerace/internal/store"
	"github.com/verte-zerg/typerace/internal/tui"
	"github.com/verte-zerg/typerace/internal/wordlist"
)

const (
	defaultCurveWindow = 10
	defaultPlotWidth   = 60
	formatTable        = "table"
)

var (
	boardFormat string
	boardMode   string
	boardLang   string
	boardTop    int
	boardPlain  bool

	statsLang        string
	statsMode        string
	statsSince       string
	statsLast        int
	statsCurveWindow int

	wordlistLang  string
	wordlistForce bool
)

func newLeaderboardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Show ranked results",
		Args:  cobra.NoArgs,
		RunE:  runLeaderboardCmd,
	}
	cmd.Flags().StringVar(&boardFormat, "format", formatTable, "output format: table, json, yaml or toml")
	cmd.Flags().StringVar(&boardMode, "mode", "", "mode filter")
	cmd.Flags().StringVar(&boardLang, "lang", "", "language filter")
	cmd.Flags().IntVar(&boardTop, "top", 0, "show only the best N entries")
	cmd.Flags().BoolVar(&boardPlain, "plain", false, "print the table instead of opening the browser")
	return cmd
}

func runLeaderboardCmd(cmd *cobra.Command, _ []string) error {
	if boardTop < 0 {
		return fmt.Errorf("--top must be >= 0")
	}
	filter := leaderboard.Filter{Lang: boardLang, Top: boardTop}
	if boardMode != "" {
		mode, err := model.ParseMode(boardMode)
		if err != nil {
			return fmt.Errorf("--mode: %w", err)
		}
		filter.Mode = mode.String()
	}
	board := leaderboard.Open(config.DefaultLeaderboardPath())

	format := strings.ToLower(strings.TrimSpace(boardFormat))
	if format == formatTable {
		if !boardPlain && term.IsTerminal(int(os.Stdout.Fd())) {
			program := tea.NewProgram(leaderboardui.NewModel(board, filter), tea.WithAltScreen())
			if _, err := program.Run(); err != nil {
				return fmt.Errorf("failed to run leaderboard TUI: %w", err)
			}
			return nil
		}
		entries, err := loadRanked(cmd.Context(), board, filter)
		if err != nil {
			return err
		}
		return stats.RenderLeaderboard(cmd.OutOrStdout(), entries)
	}

	exportFormat, err := leaderboard.ParseFormat(format)
	if err != nil {
		return err
	}
	entries, err := loadRanked(cmd.Context(), board, filter)
	if err != nil {
		return err
	}
	return leaderboard.Encode(cmd.OutOrStdout(), exportFormat, entries)
}

func loadRanked(ctx context.Context, loader leaderboardui.Loader, filter leaderboard.Filter) ([]model.LeaderboardEntry, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	entries, err := loader.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load leaderboard (%s): %w", leaderboard.Kind(err), err)
	}
	return leaderboard.Rank(entries, filter), nil
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show session history",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsLang, "lang", "", "language filter")
	cmd.Flags().StringVar(&statsMode, "mode", "", "mode filter")
	cmd.Flags().StringVar(&statsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N sessions")
	cmd.Flags().IntVar(&statsCurveWindow, "curve-window", defaultCurveWindow, "moving average window")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildStatsConfig()
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

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	report, err := stats.BuildReport(ctx, st, cfg)
	if err != nil {
		return fmt.Errorf("failed to build report: %w", err)
	}
	return renderReport(cmd.OutOrStdout(), report, cfg.CurveWindow, plotWidth())
}

func buildStatsConfig() (model.StatsConfig, error) {
	cfg := model.StatsConfig{
		Lang:        statsLang,
		Last:        statsLast,
		CurveWindow: statsCurveWindow,
	}
	if statsMode != "" {
		mode, err := model.ParseMode(statsMode)
		if err != nil {
			return model.StatsConfig{}, fmt.Errorf("--mode: %w", err)
		}
		cfg.Mode = mode.String()
	}
	if statsSince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", statsSince, time.Local)
		if err != nil {
			return model.StatsConfig{}, fmt.Errorf("invalid --since value: %w", err)
		}
		cfg.Since = &parsed
	}
	if cfg.Last < 0 {
		return model.StatsConfig{}, fmt.Errorf("--last must be >= 0")
	}
	if cfg.CurveWindow <= 0 {
		return model.StatsConfig{}, fmt.Errorf("--curve-window must be > 0")
	}
	return cfg, nil
}

func renderReport(w io.Writer, report stats.Report, window, width int) error {
	if err := stats.RenderSummary(w, report.Sessions); err != nil {
		return err
	}
	if err := stats.RenderTrend(w, report.Sessions, window, width); err != nil {
		return err
	}
	return stats.RenderSamples(w, report.LastSamples, width)
}

func plotWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return defaultPlotWidth
	}
	return max(10, min(width-8, 120))
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
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# typerace configuration
# Uncomment a value to enable it. CLI flags override config values.

[session]
# mode = %q            # time, word, quote, wiki or practice
# time = %d                # Seconds per timed session
# words = %d               # Words per word-count session
# batch = %d               # Words generated per batch
# lang = %q              # Word list language
# punctuation = false      # Add punctuation to generated words
# numbers = false          # Mix numbers into generated words
# level = 0                # Practice level 1-%d, 0 picks the first unfinished
# theme = "default"        # %s
# top-words = %d            # Use only the N most frequent words, 0 = all
# lock-timeout = %q      # Maximum wait for the leaderboard lock
# log-level = %q       # trace, debug, info, warn, error or off
`,
		defaultMode,
		defaultTime,
		defaultWords,
		session.DefaultBatchSize,
		defaultLang,
		len(source.Levels),
		strings.Join(tui.ThemeNames(), ", "),
		defaultTopWords,
		leaderboard.DefaultLockTimeout.String(),
		defaultLogLevel,
	)
}

func newLangsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "langs",
		Short: "List available word list languages",
		Args:  cobra.NoArgs,
		RunE:  runLangsCmd,
	}
}

func runLangsCmd(cmd *cobra.Command, _ []string) error {
	langs, err := wordlist.Langs(config.DefaultWordListDir())
	if err != nil {
		return err
	}
	for _, lang := range langs {
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), lang); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newWordlistCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wordlist <file>",
		Short: "Import a word list, one word per line, most frequent first",
		Args:  cobra.ExactArgs(1),
		RunE:  runWordlistCmd,
	}
	cmd.Flags().StringVar(&wordlistLang, "lang", "", "language code for the imported list")
	cmd.Flags().BoolVar(&wordlistForce, "force", false, "overwrite an existing list")
	return cmd
}

func runWordlistCmd(_ *cobra.Command, args []string) error {
	lang := strings.ToLower(strings.TrimSpace(wordlistLang))
	if lang == "" {
		return fmt.Errorf("--lang must not be empty")
	}
	words, err := wordlist.LoadWords(args[0])
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[0], err)
	}
	keep := wordlist.FilterForLang(lang)
	filtered := words[:0]
	for _, w := range words {
		if keep(w) {
			filtered = append(filtered, w)
		}
	}
	if len(filtered) == 0 {
		return fmt.Errorf("%s has no usable words for %q", args[0], lang)
	}

	outPath := filepath.Join(config.DefaultWordListDir(), lang+".txt")
	if !wordlistForce {
		if _, err := os.Stat(outPath); err == nil {
			return fmt.Errorf("word list already exists: %s (use --force to overwrite)", outPath)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat word list: %w", err)
		}
	}
	if err := wordlist.Write(outPath, filtered); err != nil {
		return fmt.Errorf("failed to write %s: %w", outPath, err)
	}
	logErrf("Wrote %d words to %s\n", len(filtered), outPath)
	if skipped := len(words) - len(filtered); skipped > 0 {
		logErrln("Skipped", skipped, "words not usable for", lang)
	}
	return nil
}
