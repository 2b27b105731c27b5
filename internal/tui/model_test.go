package tui

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/typerace/internal/leaderboard"
	"github.com/verte-zerg/typerace/internal/model"
	"github.com/verte-zerg/typerace/internal/session"
	"github.com/verte-zerg/typerace/internal/store"
)

type stubSource struct {
	text string
}

func (s stubSource) NextBatch(int) string { return s.text }
func (s stubSource) Quote() string { return s.text }
func (s stubSource) ExternalSummary() string { return s.text }
func (s stubSource) PracticeText(int, int) string { return s.text }

type memRecorder struct {
	entries []model.LeaderboardEntry
	err     error
}

func (r *memRecorder) Append(_ context.Context, e model.LeaderboardEntry) error {
	if r.err != nil {
		return r.err
	}
	r.entries = append(r.entries, e)
	return nil
}

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestModel(t *testing.T, cfg model.Config, text string, opts ...Option) (*Model, *fakeClock) {
	t.Helper()
	clock := &fakeClock{t: time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)}
	opts = append(opts, WithClock(clock.now))
	m := NewModel(cfg, stubSource{text: text}, opts...)
	loadSession(t, m, m.newSessionCmd())
	return m, clock
}

func loadSession(t *testing.T, m *Model, cmd tea.Cmd) {
	t.Helper()
	if cmd == nil {
		t.Fatalf("expected a session command")
	}
	msg, ok := cmd().(sessionMsg)
	if !ok {
		t.Fatalf("expected sessionMsg")
	}
	m.Update(msg)
}

func typeKeys(m *Model, clock *fakeClock, s string) tea.Cmd {
	var last tea.Cmd
	for _, r := range s {
		clock.advance(200 * time.Millisecond)
		key := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
		if r == ' ' {
			key = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
		}
		_, cmd := m.Update(key)
		if cmd != nil {
			last = cmd
		}
	}
	return last
}

func TestFinishedSessionIsPersistedOnce(t *testing.T) {
	rec := &memRecorder{}
	m, clock := newTestModel(t, model.Config{Mode: model.ModeQuote, Lang: "en"}, "go fast", WithLeaderboard(rec))

	cmd := typeKeys(m, clock, "go fast")
	if !m.ctrl.IsFinished() {
		t.Fatalf("expected finished session")
	}
	if cmd == nil {
		t.Fatalf("expected persist command")
	}
	msg, ok := cmd().(persistedMsg)
	if !ok {
		t.Fatalf("expected persistedMsg")
	}
	m.Update(msg)
	if m.status != "saved" {
		t.Fatalf("expected saved status, got %q", m.status)
	}
	if len(rec.entries) != 1 || rec.entries[0].TestType != model.QuoteTest() {
		t.Fatalf("unexpected recorded entries: %+v", rec.entries)
	}

	if _, cmd := m.Update(tickMsg(clock.t)); cmd == nil {
		t.Fatalf("expected tick to reschedule")
	}
	if len(rec.entries) != 1 {
		t.Fatalf("session persisted twice")
	}
	if !strings.Contains(m.View(), "WPM") {
		t.Fatalf("expected result view, got %q", m.View())
	}
}

func TestPersistFailureKeepsRunning(t *testing.T) {
	rec := &memRecorder{err: leaderboard.ErrLockTimeout}
	m, clock := newTestModel(t, model.Config{Mode: model.ModeQuote, Lang: "en"}, "ok", WithLeaderboard(rec))
	cmd := typeKeys(m, clock, "ok")
	m.Update(cmd())
	if !strings.Contains(m.status, "busy") {
		t.Fatalf("expected busy status, got %q", m.status)
	}
	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	loadSession(t, m, cmd)
	if m.ctrl.State() != session.NotStarted {
		t.Fatalf("expected a fresh session after failure")
	}
}

func TestPersistWritesHistoryAndPracticeResult(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "typerace.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	m, clock := newTestModel(t, model.Config{Mode: model.ModePractice, Level: -1, Lang: "en"}, "fj jf", WithHistory(st))
	if m.ctrl.Config().Level != 0 {
		t.Fatalf("expected first unfinished level 0, got %d", m.ctrl.Config().Level)
	}
	cmd := typeKeys(m, clock, "fj jf")
	m.Update(cmd())
	if m.status != "saved" {
		t.Fatalf("expected saved status, got %q", m.status)
	}

	sessions, err := st.ListSessions(context.Background(), model.StatsConfig{})
	if err != nil {
		t.Fatalf("list sessions: %v", err)
	}
	if len(sessions) != 1 || sessions[0].Mode != "practice" {
		t.Fatalf("unexpected sessions: %+v", sessions)
	}

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	loadSession(t, m, cmd)
	if m.ctrl.Config().Level != 1 {
		t.Fatalf("expected passed level to advance, got %d", m.ctrl.Config().Level)
	}
}

func TestDoubleTabRestarts(t *testing.T) {
	m, clock := newTestModel(t, model.Config{Mode: model.ModeTime, TestTime: 30, BatchSize: 5, Lang: "en"}, "one two three")
	typeKeys(m, clock, "one")

	if _, cmd := m.Update(tea.KeyMsg{Type: tea.KeyTab}); cmd != nil {
		t.Fatalf("single tab should not restart")
	}
	clock.advance(300 * time.Millisecond)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if !m.loading {
		t.Fatalf("expected loading state while the new session is built")
	}
	if _, c := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}}); c != nil {
		t.Fatalf("input while loading should be dropped")
	}
	loadSession(t, m, cmd)
	if m.ctrl.State() != session.NotStarted || m.ctrl.Position() != 0 {
		t.Fatalf("expected fresh session after double tab")
	}
}

func TestCtrlNCyclesMode(t *testing.T) {
	m, _ := newTestModel(t, model.Config{Mode: model.ModeTime, TestTime: 30, Lang: "en"}, "abc")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlN})
	loadSession(t, m, cmd)
	if m.ctrl.Config().Mode != model.ModeWords {
		t.Fatalf("expected words mode, got %s", m.ctrl.Config().Mode)
	}
}

func TestControlKeysAreFiltered(t *testing.T) {
	m, _ := newTestModel(t, model.Config{Mode: model.ModeQuote, Lang: "en"}, "abc")
	for _, k := range []tea.KeyType{tea.KeyDelete, tea.KeyLeft, tea.KeyUp, tea.KeyHome} {
		m.Update(tea.KeyMsg{Type: k})
	}
	if m.ctrl.State() != session.NotStarted {
		t.Fatalf("control keys must not start the session")
	}
	if _, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc}); cmd == nil {
		t.Fatalf("expected quit command on esc")
	}
}

func TestRenderFooterFormats(t *testing.T) {
	m, clock := newTestModel(t, model.Config{Mode: model.ModeQuote, Lang: "en"}, "abcd efgh")
	typeKeys(m, clock, "abcd")
	clock.advance(time.Second)
	m.Update(tickMsg(clock.t))

	out := m.renderFooter()
	for _, want := range []string{"Progress 44%", "WPM", "100.0%"} {
		if !strings.Contains(out, want) {
			t.Fatalf("footer missing %q: %s", want, out)
		}
	}

	m, _ = newTestModel(t, model.Config{Mode: model.ModeTime, TestTime: 30, Lang: "en"}, "abc")
	if out := m.renderFooter(); !strings.Contains(out, "30s left") {
		t.Fatalf("expected countdown, got %s", out)
	}
}

func TestPersistStatusKinds(t *testing.T) {
	if got := persistStatus(persistedMsg{boardErr: &leaderboard.ValidationError{Field: "wpm"}}); !strings.Contains(got, "invalid") {
		t.Fatalf("unexpected status %q", got)
	}
	if got := persistStatus(persistedMsg{historyErr: errors.New("db locked")}); !strings.Contains(got, "history") {
		t.Fatalf("unexpected status %q", got)
	}
}
