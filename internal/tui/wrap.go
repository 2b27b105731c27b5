package tui

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/typerace/internal/engine"
)

type styledRune struct {
	s       string
	width   int
	isSpace bool
}

// buildStyledRunes styles reference by verdict. Characters at or past the
// cursor render as pending, except a held mistake under the cursor.
func buildStyledRunes(theme Theme, reference []rune, verdicts []engine.Verdict, cursorIndex int) []styledRune {
	words := findWords(reference)
	currentWord := wordForCursor(words, cursorIndex)

	out := make([]styledRune, 0, len(reference))
	for i, target := range reference {
		displayed := target
		style := theme.Pending
		verdict := engine.Untouched
		if i < len(verdicts) && (i < cursorIndex || cursorIndex < 0 || (i == cursorIndex && verdicts[i] == engine.Incorrect)) {
			verdict = verdicts[i]
		}
		switch verdict {
		case engine.Correct:
			style = theme.Correct
		case engine.Corrected:
			style = theme.Corrected
		case engine.Incorrect:
			style = theme.Incorrect
			if target == ' ' {
				displayed = '•'
			}
		default:
			if target != ' ' && currentWord != nil && i >= currentWord.start && i < currentWord.end {
				style = theme.CurrentWord
			}
		}
		if i == cursorIndex {
			style = style.Underline(true)
		}
		out = append(out, styledRune{
			s:       style.Render(string(displayed)),
			width:   runewidth.RuneWidth(displayed),
			isSpace: target == ' ',
		})
	}
	return out
}

type wordRange struct {
	start int
	end   int
}

func findWords(targetRunes []rune) []wordRange {
	words := []wordRange{}
	start := -1
	for i, r := range targetRunes {
		if r == ' ' {
			if start != -1 {
				words = append(words, wordRange{start: start, end: i})
				start = -1
			}
			continue
		}
		if start == -1 {
			start = i
		}
	}
	if start != -1 {
		words = append(words, wordRange{start: start, end: len(targetRunes)})
	}
	return words
}

func wordForCursor(words []wordRange, cursorIndex int) *wordRange {
	if len(words) == 0 || cursorIndex < 0 {
		return nil
	}
	for i, w := range words {
		if cursorIndex < w.end {
			return &words[i]
		}
	}
	return nil
}

func renderStyledRunes(runes []styledRune) string {
	var b strings.Builder
	for _, item := range runes {
		b.WriteString(item.s)
	}
	return b.String()
}

func wrapStyledRunes(runes []styledRune, width int) string {
	if width <= 0 {
		return renderStyledRunes(runes)
	}
	var out strings.Builder
	line := make([]styledRune, 0, len(runes))
	lineWidth := 0
	lastSpaceIdx := -1

	for i := 0; i < len(runes); {
		item := runes[i]
		if lineWidth+item.width > width && len(line) > 0 {
			if lastSpaceIdx >= 0 {
				out.WriteString(renderStyledRunes(line[:lastSpaceIdx+1]))
				out.WriteRune('\n')
				line = append([]styledRune{}, line[lastSpaceIdx+1:]...)
			} else {
				out.WriteString(renderStyledRunes(line))
				out.WriteRune('\n')
				line = line[:0]
			}
			lineWidth = lineWidthOf(line)
			lastSpaceIdx = lastSpaceIndex(line)
			continue
		}
		line = append(line, item)
		lineWidth += item.width
		if item.isSpace {
			lastSpaceIdx = len(line) - 1
		}
		i++
	}
	out.WriteString(renderStyledRunes(line))
	return out.String()
}

func lineWidthOf(line []styledRune) int {
	total := 0
	for _, item := range line {
		total += item.width
	}
	return total
}

func lastSpaceIndex(line []styledRune) int {
	for i := len(line) - 1; i >= 0; i-- {
		if line[i].isSpace {
			return i
		}
	}
	return -1
}
