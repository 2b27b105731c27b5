package stats

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/typerace/internal/model"
)

// LeaderboardHeaders are the column titles used for leaderboard output.
var LeaderboardHeaders = []string{"#", "WPM", "Accuracy", "Test", "Words", "Time", "Lang", "Date"}

// LeaderboardRow formats one ranked entry as table cells.
func LeaderboardRow(rank int, e model.LeaderboardEntry) []string {
	date := e.Timestamp
	if len(date) >= 16 {
		date = strings.Replace(date[:16], "T", " ", 1)
	}
	return []string{
		fmt.Sprintf("%d", rank),
		fmt.Sprintf("%.1f", e.WPM),
		fmt.Sprintf("%.1f%%", e.Accuracy),
		e.TestType.String(),
		fmt.Sprintf("%d", e.WordCount),
		fmt.Sprintf("%.1fs", e.DurationSeconds),
		string(e.Language),
		date,
	}
}

// RenderLeaderboard prints ranked entries as an aligned plain-text table.
func RenderLeaderboard(w io.Writer, entries []model.LeaderboardEntry) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, "No leaderboard entries yet.")
		return err
	}
	rows := make([][]string, 0, len(entries))
	for i, e := range entries {
		rows = append(rows, LeaderboardRow(i+1, e))
	}
	rightAlign := map[int]bool{0: true, 1: true, 2: true, 4: true, 5: true}
	for _, line := range formatTable(LeaderboardHeaders, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func formatTable(headers []string, rows [][]string, rightAlignCols map[int]bool) []string {
	colCount := len(headers)
	for _, row := range rows {
		colCount = max(colCount, len(row))
	}
	if colCount == 0 {
		return nil
	}

	widths := make([]int, colCount)
	for i, header := range headers {
		widths[i] = displayWidth(header)
	}
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], displayWidth(cell))
		}
	}

	lines := make([]string, 0, len(rows)+1)
	if len(headers) > 0 {
		lines = append(lines, formatRow(headers, widths, rightAlignCols))
	}
	for _, row := range rows {
		lines = append(lines, formatRow(row, widths, rightAlignCols))
	}
	return lines
}

func formatRow(row []string, widths []int, rightAlignCols map[int]bool) string {
	var b strings.Builder
	for i := 0; i < len(widths); i++ {
		cell := ""
		if i < len(row) {
			cell = row[i]
		}
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(padCell(cell, widths[i], rightAlignCols[i]))
	}
	return strings.TrimRight(b.String(), " ")
}

func padCell(value string, width int, rightAlign bool) string {
	padding := width - displayWidth(value)
	if padding <= 0 {
		return value
	}
	if rightAlign {
		return strings.Repeat(" ", padding) + value
	}
	return value + strings.Repeat(" ", padding)
}

func displayWidth(value string) int {
	return runewidth.StringWidth(value)
}
