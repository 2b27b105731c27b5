// Package leaderboardui provides the Bubble Tea leaderboard browser.
package leaderboardui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/typerace/internal/leaderboard"
	"github.com/verte-zerg/typerace/internal/model"
	"github.com/verte-zerg/typerace/internal/stats"
)

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
)

var columnWidths = []int{4, 7, 9, 11, 6, 8, 5, 16}

// Loader reads every stored entry.
type Loader interface {
	LoadAll(ctx context.Context) ([]model.LeaderboardEntry, error)
}

type loadedMsg struct {
	entries []model.LeaderboardEntry
	err     error
}

// Model implements the Bubble Tea leaderboard UI.
type Model struct {
	loader Loader
	filter leaderboard.Filter

	entries []model.LeaderboardEntry
	ranked  []model.LeaderboardEntry
	errMsg  string

	tabs      []string
	activeTab int
	table     table.Model

	width  int
	height int
}

// NewModel constructs a leaderboard UI. The filter's mode selects the initial tab.
func NewModel(loader Loader, filter leaderboard.Filter) *Model {
	tabs := []string{"all"}
	for _, mode := range model.Modes() {
		tabs = append(tabs, mode.String())
	}
	m := &Model{
		loader: loader,
		filter: filter,
		tabs:   tabs,
	}
	for i, name := range tabs {
		if strings.EqualFold(name, filter.Mode) {
			m.activeTab = i
		}
	}
	m.table = table.New(
		table.WithColumns(buildColumns()),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	m.table.SetStyles(tableStyles())
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return m.load
}

func (m *Model) load() tea.Msg {
	entries, err := m.loader.LoadAll(context.Background())
	return loadedMsg{entries: entries, err: err}
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		return m, nil
	case loadedMsg:
		if msg.err != nil {
			m.errMsg = fmt.Sprintf("Failed to load leaderboard (%s): %v", leaderboard.Kind(msg.err), msg.err)
			return m, nil
		}
		m.errMsg = ""
		m.entries = msg.entries
		m.refresh()
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc", "q":
			return m, tea.Quit
		case "left", "h", "shift+tab":
			m.moveTab(-1)
			return m, nil
		case "right", "l", "tab":
			m.moveTab(1)
			return m, nil
		case "r":
			return m, m.load
		}
	}
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(m.renderTabs())
	b.WriteString("\n")
	b.WriteString(headerStyle.Render(m.renderSummary()))
	b.WriteString("\n")
	if m.errMsg != "" {
		b.WriteString(errorStyle.Render(m.errMsg))
		b.WriteString("\n")
	} else if len(m.ranked) == 0 {
		b.WriteString("No leaderboard entries yet.\n")
	} else {
		b.WriteString(m.table.View())
		b.WriteString("\n")
	}
	b.WriteString(headerStyle.Render("←/→ mode • ↑/↓ scroll • r reload • q quit"))
	return b.String()
}

func (m *Model) moveTab(delta int) {
	n := len(m.tabs)
	m.activeTab = ((m.activeTab+delta)%n + n) % n
	m.refresh()
}

func (m *Model) refresh() {
	f := m.filter
	f.Mode = ""
	if m.activeTab > 0 {
		f.Mode = m.tabs[m.activeTab]
	}
	m.ranked = leaderboard.Rank(m.entries, f)
	rows := make([]table.Row, 0, len(m.ranked))
	for i, e := range m.ranked {
		rows = append(rows, table.Row(stats.LeaderboardRow(i+1, e)))
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

func (m *Model) updateLayout() {
	if m.width > 0 {
		m.table.SetWidth(m.width)
	}
	// tabs (3 lines), summary, help
	if body := m.height - 6; body > 1 {
		m.table.SetHeight(body)
	}
}

func (m *Model) renderTabs() string {
	items := make([]string, 0, len(m.tabs))
	for i, name := range m.tabs {
		if i == m.activeTab {
			items = append(items, activeNavStyle.Render(name))
		} else {
			items = append(items, inactiveNavStyle.Render(name))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, items...)
}

func (m *Model) renderSummary() string {
	parts := []string{fmt.Sprintf("%d of %d entries", len(m.ranked), len(m.entries))}
	if m.filter.Lang != "" {
		parts = append(parts, "lang="+m.filter.Lang)
	}
	if m.filter.Top > 0 {
		parts = append(parts, fmt.Sprintf("top=%d", m.filter.Top))
	}
	return strings.Join(parts, "  ")
}

func buildColumns() []table.Column {
	columns := make([]table.Column, 0, len(stats.LeaderboardHeaders))
	for i, title := range stats.LeaderboardHeaders {
		columns = append(columns, table.Column{Title: title, Width: columnWidths[i]})
	}
	return columns
}

func tableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}
