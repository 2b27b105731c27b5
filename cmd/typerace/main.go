// Package main provides the CLI entrypoint for typerace.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/typerace/internal/config"
	"github.com/verte-zerg/typerace/internal/generator"
	"github.com/verte-zerg/typerace/internal/leaderboard"
	"github.com/verte-zerg/typerace/internal/model"
	"github.com/verte-zerg/typerace/internal/session"
	"github.com/verte-zerg/typerace/internal/source"
	"github.com/verte-zerg/typerace/internal/store"
	"github.com/verte-zerg/typerace/internal/tui"
	"github.com/verte-zerg/typerace/internal/wordlist"
)

const (
	defaultLang     = "en"
	defaultMode     = "time"
	defaultTime     = 30
	defaultWords    = 25
	defaultTopWords = 0
	defaultLogLevel = "warn"
)

var (
	sessionMode        string
	sessionTime        int
	sessionWords       int
	sessionBatch       int
	sessionLang        string
	sessionPunctuation bool
	sessionNumbers     bool
	sessionLevel       int
	sessionTheme       string
	sessionTopWords    int
	sessionLockTimeout time.Duration
	sessionLogLevel    string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "typerace",
		Short:         "Terminal typing speed trainer",
		SilenceUsage:  true,
		SilenceErrors: false,
		Args:          cobra.NoArgs,
		RunE:          runSessionCmd,
	}

	flags := rootCmd.Flags()
	flags.StringVar(&sessionMode, "mode", defaultMode, "session mode: time, word, quote, wiki or practice")
	flags.IntVar(&sessionTime, "time", defaultTime, "seconds per timed session")
	flags.IntVar(&sessionWords, "words", defaultWords, "words per word-count session")
	flags.IntVar(&sessionBatch, "batch", session.DefaultBatchSize, "words generated per batch")
	flags.StringVar(&sessionLang, "lang", defaultLang, "word list language")
	flags.BoolVar(&sessionPunctuation, "punctuation", false, "add punctuation to generated words")
	flags.BoolVar(&sessionNumbers, "numbers", false, "mix numbers into generated words")
	flags.IntVar(&sessionLevel, "level", 0, fmt.Sprintf("practice level 1-%d (0 picks the first unfinished)", len(source.Levels)))
	flags.StringVar(&sessionTheme, "theme", "default", "color theme: "+strings.Join(tui.ThemeNames(), ", "))
	flags.IntVar(&sessionTopWords, "top-words", defaultTopWords, "use only the N most frequent words (0 = all)")
	flags.DurationVar(&sessionLockTimeout, "lock-timeout", leaderboard.DefaultLockTimeout, "maximum wait for the leaderboard lock")
	flags.StringVar(&sessionLogLevel, "log-level", defaultLogLevel, "log level: trace, debug, info, warn, error or off")

	rootCmd.AddCommand(newLeaderboardCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newLangsCmd())
	rootCmd.AddCommand(newWordlistCmd())

	return rootCmd
}

func runSessionCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := applySessionConfig(cmd, fileCfg.Session); err != nil {
		return err
	}

	cfg, err := buildConfig()
	if err != nil {
		return err
	}
	if err := validateConfig(cfg); err != nil {
		return err
	}
	theme, err := tui.ThemeByName(cfg.Theme)
	if err != nil {
		return err
	}

	logger, closeLog, err := openLogger(config.DefaultLogPath(), sessionLogLevel)
	if err != nil {
		return err
	}
	defer closeLog()

	words, from, err := wordlist.Load(config.DefaultWordListDir(), cfg.Lang)
	if err != nil {
		return wordListLoadError(cfg.Lang, err)
	}
	if cfg.TopWords > 0 && len(words) > cfg.TopWords {
		words = words[:cfg.TopWords]
	}
	logger.Debug("word list loaded", "lang", cfg.Lang, "from", from, "words", len(words))

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	board := leaderboard.Open(config.DefaultLeaderboardPath(),
		leaderboard.WithLockTimeout(sessionLockTimeout),
		leaderboard.WithLogger(logger.Named("leaderboard")),
	)
	src := source.New(words,
		generator.Options{Punctuation: cfg.Punctuation, Numbers: cfg.Numbers},
		source.WithLogger(logger.Named("source")),
	)

	m := tui.NewModel(cfg, src,
		tui.WithLeaderboard(board),
		tui.WithHistory(st),
		tui.WithTheme(theme),
		tui.WithLogger(logger.Named("tui")),
	)
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func applySessionConfig(cmd *cobra.Command, fc config.SessionConfig) error {
	applyStringConfig(cmd, "mode", &sessionMode, fc.Mode)
	applyIntConfig(cmd, "time", &sessionTime, fc.Time)
	applyIntConfig(cmd, "words", &sessionWords, fc.Words)
	applyIntConfig(cmd, "batch", &sessionBatch, fc.Batch)
	applyStringConfig(cmd, "lang", &sessionLang, fc.Lang)
	applyBoolConfig(cmd, "punctuation", &sessionPunctuation, fc.Punctuation)
	applyBoolConfig(cmd, "numbers", &sessionNumbers, fc.Numbers)
	applyIntConfig(cmd, "level", &sessionLevel, fc.Level)
	applyStringConfig(cmd, "theme", &sessionTheme, fc.Theme)
	applyIntConfig(cmd, "top-words", &sessionTopWords, fc.TopWords)
	applyStringConfig(cmd, "log-level", &sessionLogLevel, fc.LogLevel)
	if fc.LockTimeout != nil && !cmd.Flags().Changed("lock-timeout") {
		d, err := time.ParseDuration(*fc.LockTimeout)
		if err != nil {
			return fmt.Errorf("invalid lock-timeout in config: %w", err)
		}
		sessionLockTimeout = d
	}
	return nil
}

func buildConfig() (model.Config, error) {
	mode, err := model.ParseMode(sessionMode)
	if err != nil {
		return model.Config{}, fmt.Errorf("--mode: %w", err)
	}
	return model.Config{
		Mode:        mode,
		TestTime:    sessionTime,
		WordTarget:  sessionWords,
		BatchSize:   sessionBatch,
		Lang:        strings.ToLower(strings.TrimSpace(sessionLang)),
		Punctuation: sessionPunctuation,
		Numbers:     sessionNumbers,
		Level:       sessionLevel - 1,
		Theme:       sessionTheme,
		TopWords:    sessionTopWords,
	}, nil
}

func validateConfig(cfg model.Config) error {
	if cfg.TestTime <= 0 {
		return fmt.Errorf("--time must be > 0")
	}
	if cfg.WordTarget <= 0 {
		return fmt.Errorf("--words must be > 0")
	}
	if cfg.BatchSize <= 0 {
		return fmt.Errorf("--batch must be > 0")
	}
	if cfg.Lang == "" {
		return fmt.Errorf("--lang must not be empty")
	}
	if cfg.Level < -1 || cfg.Level >= len(source.Levels) {
		return fmt.Errorf("--level must be between 0 and %d", len(source.Levels))
	}
	if cfg.TopWords < 0 {
		return fmt.Errorf("--top-words must be >= 0")
	}
	if sessionLockTimeout <= 0 {
		return fmt.Errorf("--lock-timeout must be > 0")
	}
	return nil
}

// openLogger writes to path since the TUI owns stdout and stderr.
func openLogger(path, level string) (hclog.Logger, func(), error) {
	lvl, err := parseLogLevel(level)
	if err != nil {
		return nil, nil, err
	}
	if lvl == hclog.Off {
		return hclog.NewNullLogger(), func() {}, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return newLogger(f, lvl), func() {
		if cerr := f.Close(); cerr != nil {
			logErrf("failed to close log: %v\n", cerr)
		}
	}, nil
}

func newLogger(w io.Writer, lvl hclog.Level) hclog.Logger {
	return hclog.New(&hclog.LoggerOptions{
		Name:   "typerace",
		Level:  lvl,
		Output: w,
	})
}

func parseLogLevel(s string) (hclog.Level, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "off" {
		return hclog.Off, nil
	}
	lvl := hclog.LevelFromString(s)
	if lvl == hclog.NoLevel {
		return hclog.NoLevel, fmt.Errorf("invalid log level %q", s)
	}
	return lvl, nil
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

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func wordListLoadError(lang string, err error) error {
	lines := []string{
		fmt.Sprintf("failed to load word list: %v", err),
		fmt.Sprintf("language %q not found", lang),
		"Run: typerace langs",
		fmt.Sprintf("Import: typerace wordlist --lang %s <file>", lang),
	}
	return fmt.Errorf("%s", strings.Join(lines, "\n"))
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
