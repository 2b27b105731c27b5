// Package tui provides the Bubble Tea typing interface.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/hashicorp/go-hclog"

	"github.com/verte-zerg/typerace/internal/engine"
	"github.com/verte-zerg/typerace/internal/leaderboard"
	"github.com/verte-zerg/typerace/internal/model"
	"github.com/verte-zerg/typerace/internal/session"
	"github.com/verte-zerg/typerace/internal/source"
	statsPkg "github.com/verte-zerg/typerace/internal/stats"
	"github.com/verte-zerg/typerace/internal/store"
)

const tickInterval = 100 * time.Millisecond

type tickMsg time.Time

type sessionMsg struct {
	ctrl *session.Controller
}

type persistedMsg struct {
	boardErr   error
	historyErr error
}

// Model implements the Bubble Tea typing UI.
type Model struct {
	cfg       model.Config
	autoLevel bool
	src       session.Source
	board     session.Recorder
	history   *store.Store
	logger    hclog.Logger
	theme     Theme
	now       func() time.Time

	ctrl      *session.Controller
	guard     session.RestartGuard
	loading   bool
	persisted bool
	status    string

	width  int
	height int
}

// Option configures a Model.
type Option func(*Model)

// WithLeaderboard sets where finished sessions are ranked.
func WithLeaderboard(rec session.Recorder) Option {
	return func(m *Model) { m.board = rec }
}

// WithHistory sets the session history store.
func WithHistory(st *store.Store) Option {
	return func(m *Model) { m.history = st }
}

// WithLogger attaches a logger.
func WithLogger(l hclog.Logger) Option {
	return func(m *Model) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithTheme selects the color theme.
func WithTheme(t Theme) Option {
	return func(m *Model) { m.theme = t }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(m *Model) {
		if now != nil {
			m.now = now
		}
	}
}

// NewModel constructs a typing TUI model. A negative cfg.Level picks the
// first practice level without a passing result.
func NewModel(cfg model.Config, src session.Source, opts ...Option) *Model {
	m := &Model{
		cfg:       cfg,
		autoLevel: cfg.Level < 0,
		src:       src,
		logger:    hclog.NewNullLogger(),
		theme:     themes["default"],
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.newSessionCmd(), tick())
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case sessionMsg:
		m.ctrl = msg.ctrl
		m.cfg.Level = msg.ctrl.Config().Level
		m.loading = false
		m.persisted = false
		m.status = ""
		return m, nil
	case persistedMsg:
		m.status = persistStatus(msg)
		return m, nil
	case tickMsg:
		if m.ctrl != nil && !m.loading {
			m.ctrl.OnTick(m.now())
		}
		return m, tea.Batch(m.afterInput(), tick())
	case tea.KeyMsg:
		return m, m.handleKey(msg)
	default:
		return m, nil
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		return tea.Quit
	}
	if m.loading || m.ctrl == nil {
		return nil
	}
	now := m.now()
	switch msg.Type {
	case tea.KeyTab:
		if m.guard.Press(now) {
			return m.newSessionCmd()
		}
		return nil
	case tea.KeyCtrlN:
		m.cfg.Mode = m.cfg.Mode.Next()
		return m.newSessionCmd()
	case tea.KeyEnter:
		if m.ctrl.IsFinished() {
			return m.newSessionCmd()
		}
		return nil
	case tea.KeyBackspace:
		m.ctrl.OnKeystroke(engine.Backspace(), now)
	case tea.KeySpace:
		m.ctrl.OnKeystroke(engine.Char(' '), now)
	case tea.KeyRunes:
		if msg.Alt {
			return nil
		}
		for _, r := range msg.Runes {
			m.ctrl.OnKeystroke(engine.Char(r), now)
		}
	default:
		return nil
	}
	return m.afterInput()
}

// afterInput persists a session the first time it is seen finished.
func (m *Model) afterInput() tea.Cmd {
	if m.ctrl == nil || m.persisted || !m.ctrl.IsFinished() {
		return nil
	}
	m.persisted = true
	return m.persistCmd()
}

func (m *Model) newSessionCmd() tea.Cmd {
	m.loading = true
	cfg := m.cfg
	if m.autoLevel {
		cfg.Level = -1
	}
	src, history, logger := m.src, m.history, m.logger
	return func() tea.Msg {
		if cfg.Mode == model.ModePractice && cfg.Level < 0 {
			cfg.Level = 0
			if history != nil {
				level, err := history.FirstUnfinishedLevel(context.Background(), len(source.Levels), source.PassWPM, source.PassAccuracy)
				if err != nil {
					logger.Warn("failed to load practice progress", "err", err)
				} else {
					cfg.Level = level
				}
			}
		}
		cfg.Level = max(cfg.Level, 0)
		return sessionMsg{ctrl: session.New(cfg, src, session.WithLogger(logger))}
	}
}

func (m *Model) persistCmd() tea.Cmd {
	entry, _ := m.ctrl.Entry(m.now())
	rec, _ := m.ctrl.SessionRecord()
	cfg := m.ctrl.Config()
	board, history, logger := m.board, m.history, m.logger
	return func() tea.Msg {
		ctx := context.Background()
		var msg persistedMsg
		if board != nil {
			msg.boardErr = session.Record(ctx, board, entry, logger)
		}
		if history != nil {
			if _, err := history.InsertSession(ctx, rec); err != nil {
				logger.Error("failed to save session history", "err", err)
				msg.historyErr = err
			}
			if cfg.Mode == model.ModePractice {
				duration := time.Duration(rec.DurationMs) * time.Millisecond
				if err := history.SavePracticeResult(ctx, cfg.Level, rec.WPM, rec.Accuracy, duration, rec.EndedAt); err != nil {
					logger.Error("failed to save practice result", "err", err)
					msg.historyErr = err
				}
			}
		}
		return msg
	}
}

func persistStatus(msg persistedMsg) string {
	switch leaderboard.Kind(msg.boardErr) {
	case "":
	case "validation":
		return "result not ranked: invalid entry"
	case "lock-timeout":
		return "result not ranked: leaderboard busy"
	case "decode":
		return "result not ranked: leaderboard file is malformed"
	default:
		return "result not ranked: " + msg.boardErr.Error()
	}
	if msg.historyErr != nil {
		return "history not saved: " + msg.historyErr.Error()
	}
	return "saved"
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.ctrl == nil || m.loading {
		return m.place(m.theme.Footer.Render("loading…"), "")
	}
	if m.ctrl.IsFinished() {
		return m.place(m.renderResult(), m.renderHelp())
	}
	reference := []rune(m.ctrl.Reference())
	if len(reference) == 0 {
		return ""
	}
	cursor := m.ctrl.Position()
	if cursor >= len(reference) {
		cursor = -1
	}
	styledRunes := buildStyledRunes(m.theme, reference, m.ctrl.Verdicts(), cursor)
	if m.width == 0 || m.height == 0 {
		return renderStyledRunes(styledRunes)
	}
	contentWidth := int(float64(m.width) * 0.70)
	if contentWidth < 1 {
		contentWidth = 1
	}
	wrapped := wrapStyledRunes(styledRunes, contentWidth)
	header := m.theme.Footer.Render(m.renderHeader())
	content := lipgloss.NewStyle().Width(contentWidth).Render(header + "\n\n" + wrapped)
	return m.place(content, m.renderFooter())
}

func (m *Model) place(content, footer string) string {
	if m.width == 0 || m.height == 0 {
		if footer == "" {
			return content
		}
		return content + "\n" + footer
	}
	if footer == "" || m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	body := lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return body + "\n" + footerLine
}

func (m *Model) renderHeader() string {
	cfg := m.ctrl.Config()
	segments := []string{cfg.Mode.String()}
	switch cfg.Mode {
	case model.ModeTime:
		segments = append(segments, fmt.Sprintf("%ds", cfg.TestTime))
	case model.ModeWords:
		segments = append(segments, fmt.Sprintf("%d words", cfg.WordTarget))
	case model.ModePractice:
		level := source.ClampLevel(cfg.Level)
		segments = append(segments, fmt.Sprintf("level %d: %s", level+1, source.Levels[level].Name))
	}
	if cfg.Mode.Continuous() {
		segments = append(segments, cfg.Lang)
		if cfg.Punctuation {
			segments = append(segments, "punctuation")
		}
		if cfg.Numbers {
			segments = append(segments, "numbers")
		}
	}
	return strings.Join(segments, " · ")
}

func (m *Model) renderFooter() string {
	if m.ctrl == nil {
		return ""
	}
	now := m.now()
	cfg := m.ctrl.Config()
	var segments []string
	switch cfg.Mode {
	case model.ModeTime:
		segments = append(segments, fmt.Sprintf("%ds left", int(m.ctrl.Remaining(now).Seconds()+0.999)))
	case model.ModeWords:
		segments = append(segments, fmt.Sprintf("%d/%d words", m.ctrl.WordsDone(), cfg.WordTarget))
	default:
		total := len([]rune(m.ctrl.Reference()))
		progress := 0
		if total > 0 {
			progress = int(float64(m.ctrl.Position()) / float64(total) * 100)
		}
		segments = append(segments, fmt.Sprintf("Progress %d%%", progress))
	}
	if m.ctrl.State() == session.Started {
		speed := m.ctrl.Speed()
		if len(speed) > 5 {
			speed = speed[len(speed)-5:]
		}
		if len(speed) > 0 {
			avgLen := statsPkg.AverageWordLength(m.ctrl.Reference())
			segments = append(segments, fmt.Sprintf("%.0f WPM", statsPkg.EstimateWPM(statsPkg.Mean(speed), avgLen)))
		}
		c := m.ctrl.Counters()
		segments = append(segments, fmt.Sprintf("%.1f%%", statsPkg.Accuracy(c.Correct, c.Total)))
	}
	return m.theme.Footer.Render(strings.Join(segments, "  "))
}

func (m *Model) renderResult() string {
	res, ok := m.ctrl.Result()
	if !ok {
		return ""
	}
	lines := []string{
		m.theme.Accent.Render(fmt.Sprintf("%.1f WPM", res.WPM)),
		fmt.Sprintf("Accuracy %.1f%%  ·  %d words  ·  %.1fs", res.Accuracy, res.WordsDone, res.Elapsed.Seconds()),
		fmt.Sprintf("Keystrokes %d  ·  Errors %d", res.Counters.Total, res.Counters.Errors),
	}
	if len(res.Speed) > 0 {
		lines = append(lines, m.theme.Pending.Render(statsPkg.Sparkline(statsPkg.Resample(res.Speed, 40))))
	}
	if m.status != "" {
		lines = append(lines, m.theme.Footer.Render(m.status))
	}
	return lipgloss.JoinVertical(lipgloss.Center, lines...)
}

func (m *Model) renderHelp() string {
	return m.theme.Footer.Render("enter or tab tab: restart  ctrl+n: next mode  esc: quit")
}
