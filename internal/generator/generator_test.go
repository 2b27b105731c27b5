package generator

import (
	"strings"
	"testing"
	"unicode"
)

func TestWordsPlain(t *testing.T) {
	g := NewSeeded(1)
	pool := []string{"alpha", "beta", "gamma"}
	out := g.Words(pool, 40, Options{})
	if len(out) != 40 {
		t.Fatalf("expected 40 words, got %d", len(out))
	}
	for _, w := range out {
		if w != "alpha" && w != "beta" && w != "gamma" {
			t.Fatalf("unexpected word %q without decorations", w)
		}
	}
}

func TestWordsPunctuationCapitalizesAfterSentenceEnd(t *testing.T) {
	g := NewSeeded(7)
	out := g.Words([]string{"word"}, 500, Options{Punctuation: true})
	if !unicode.IsUpper([]rune(out[0])[0]) {
		t.Fatalf("expected first word capitalized, got %q", out[0])
	}
	sawPunct := false
	for i := 1; i < len(out); i++ {
		prev := []rune(out[i-1])
		last := prev[len(prev)-1]
		if strings.ContainsRune(".,!?;:", last) {
			sawPunct = true
		}
		upper := unicode.IsUpper([]rune(out[i])[0])
		if sentenceEnds[last] != upper {
			t.Fatalf("word %d %q after %q: capitalization mismatch", i, out[i], out[i-1])
		}
	}
	if !sawPunct {
		t.Fatalf("expected some punctuation in 500 words")
	}
}

func TestWordsNumbers(t *testing.T) {
	g := NewSeeded(3)
	out := g.Words([]string{"word"}, 500, Options{Numbers: true})
	numbers := 0
	for _, w := range out {
		if w == "word" {
			continue
		}
		for _, r := range w {
			if !unicode.IsDigit(r) {
				t.Fatalf("unexpected token %q", w)
			}
		}
		numbers++
	}
	if numbers == 0 {
		t.Fatalf("expected some numbers in 500 words")
	}
}

func TestPseudoWordsUseOnlyGivenChars(t *testing.T) {
	g := NewSeeded(5)
	out := g.PseudoWords([]rune("fj"), 50, 2, 4)
	if len(out) != 50 {
		t.Fatalf("expected 50 words, got %d", len(out))
	}
	for _, w := range out {
		n := len([]rune(w))
		if n < 2 || n > 4 {
			t.Fatalf("word %q out of length bounds", w)
		}
		if strings.Trim(w, "fj") != "" {
			t.Fatalf("word %q uses characters outside the set", w)
		}
	}
}

func TestEmptyInputs(t *testing.T) {
	g := NewSeeded(1)
	if out := g.Words(nil, 5, Options{}); out != nil {
		t.Fatalf("expected nil for empty pool")
	}
	if out := g.PseudoWords(nil, 5, 1, 2); out != nil {
		t.Fatalf("expected nil for empty charset")
	}
	if g.Pick(nil) != "" {
		t.Fatalf("expected empty pick")
	}
}
