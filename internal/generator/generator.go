// Package generator builds typing text sequences.
package generator

import (
	"math/rand"
	"strconv"
	"time"
	"unicode"
)

const (
	punctPct  = 0.25
	numberPct = 0.1
)

var (
	punctSet     = []rune(".,!?;:")
	sentenceEnds = map[rune]bool{'.': true, '!': true, '?': true}
)

// Options selects optional decorations for generated words.
type Options struct {
	Punctuation bool
	Numbers     bool
}

// Generator produces randomized typing text.
type Generator struct {
	rnd *rand.Rand
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return NewSeeded(time.Now().UnixNano())
}

// NewSeeded returns a Generator with a fixed seed.
func NewSeeded(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

// Words selects count words uniformly. With punctuation enabled some words get
// a trailing mark and the word after a sentence end is capitalized; with
// numbers enabled some words are replaced by short numbers.
func (g *Generator) Words(words []string, count int, opts Options) []string {
	if len(words) == 0 || count <= 0 {
		return nil
	}
	result := make([]string, 0, count)
	capitalizeNext := opts.Punctuation
	for i := 0; i < count; i++ {
		word := words[g.rnd.Intn(len(words))]
		if opts.Numbers && g.rnd.Float64() < numberPct {
			word = strconv.Itoa(g.rnd.Intn(10000))
		}
		if opts.Punctuation {
			if capitalizeNext {
				word = applyCaps(word)
			}
			word = applyPunct(g.rnd, word, punctPct, punctSet)
			runes := []rune(word)
			capitalizeNext = sentenceEnds[runes[len(runes)-1]]
		}
		result = append(result, word)
	}
	return result
}

// PseudoWords builds count words of minLen..maxLen runes drawn from chars.
func (g *Generator) PseudoWords(chars []rune, count, minLen, maxLen int) []string {
	if len(chars) == 0 || count <= 0 {
		return nil
	}
	if minLen < 1 {
		minLen = 1
	}
	if maxLen < minLen {
		maxLen = minLen
	}
	result := make([]string, 0, count)
	for i := 0; i < count; i++ {
		n := minLen + g.rnd.Intn(maxLen-minLen+1)
		word := make([]rune, n)
		for j := range word {
			word[j] = chars[g.rnd.Intn(len(chars))]
		}
		result = append(result, string(word))
	}
	return result
}

// Pick returns a random element of items, or "" when items is empty.
func (g *Generator) Pick(items []string) string {
	if len(items) == 0 {
		return ""
	}
	return items[g.rnd.Intn(len(items))]
}

func applyCaps(word string) string {
	runes := []rune(word)
	if len(runes) == 0 {
		return word
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

func applyPunct(rnd *rand.Rand, word string, pct float64, set []rune) string {
	if pct <= 0 || len(set) == 0 || word == "" {
		return word
	}
	if rnd.Float64() > pct {
		return word
	}
	return word + string(set[rnd.Intn(len(set))])
}
