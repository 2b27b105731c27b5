package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme holds the styles used to render a session.
type Theme struct {
	Name        string
	Correct     lipgloss.Style
	Corrected   lipgloss.Style
	Incorrect   lipgloss.Style
	Pending     lipgloss.Style
	CurrentWord lipgloss.Style
	Footer      lipgloss.Style
	Accent      lipgloss.Style
}

type palette struct {
	correct, corrected, incorrect, pending, current, footer, accent string
}

func (p palette) theme(name string) Theme {
	fg := func(c string) lipgloss.Style { return lipgloss.NewStyle().Foreground(lipgloss.Color(c)) }
	return Theme{
		Name:        name,
		Correct:     fg(p.correct),
		Corrected:   fg(p.corrected),
		Incorrect:   fg(p.incorrect),
		Pending:     fg(p.pending),
		CurrentWord: fg(p.current),
		Footer:      fg(p.footer),
		Accent:      fg(p.accent).Bold(true),
	}
}

var themes = map[string]Theme{
	"default": palette{
		correct: "#F0F0F0", corrected: "#E0A030", incorrect: "#FF4D4F",
		pending: "#8C8C8C", current: "#C89A3A", footer: "#6E6E6E", accent: "#FF9B00",
	}.theme("default"),
	"dark": palette{
		correct: "#C8C8C8", corrected: "#9A9A9A", incorrect: "#D05050",
		pending: "#505050", current: "#787878", footer: "#3C3C3C", accent: "#B4B4B4",
	}.theme("dark"),
	"light": palette{
		correct: "#000000", corrected: "#7A5A00", incorrect: "#C00000",
		pending: "#A0A0A0", current: "#505050", footer: "#787878", accent: "#3C3C3C",
	}.theme("light"),
	"monochrome": {
		Name:        "monochrome",
		Correct:     lipgloss.NewStyle().Bold(true),
		Corrected:   lipgloss.NewStyle().Italic(true),
		Incorrect:   lipgloss.NewStyle().Reverse(true),
		Pending:     lipgloss.NewStyle().Faint(true),
		CurrentWord: lipgloss.NewStyle(),
		Footer:      lipgloss.NewStyle().Faint(true),
		Accent:      lipgloss.NewStyle().Bold(true),
	},
}

// ThemeNames lists the available themes.
func ThemeNames() []string {
	names := make([]string, 0, len(themes))
	for name := range themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ThemeByName looks up a theme; an empty name selects the default.
func ThemeByName(name string) (Theme, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = "default"
	}
	t, ok := themes[name]
	if !ok {
		return Theme{}, fmt.Errorf("unknown theme %q (available: %s)", name, strings.Join(ThemeNames(), ", "))
	}
	return t, nil
}
