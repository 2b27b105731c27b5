// Package source supplies reference texts for typing sessions: random word
// batches, quotes, Wikipedia summaries and practice drills.
package source

import (
	"context"
	_ "embed"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/verte-zerg/typerace/internal/generator"
)

//go:embed quotes.txt
var quoteData string

// Quotes returns the built-in quotes.
func Quotes() []string {
	var out []string
	for _, line := range strings.Split(quoteData, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

// Summarizer fetches external text.
type Summarizer interface {
	Summary(ctx context.Context) (string, error)
}

// Source produces reference texts from a word list.
type Source struct {
	gen    *generator.Generator
	words  []string
	opts   generator.Options
	quotes []string
	wiki   Summarizer
	logger hclog.Logger
}

// Option configures a Source.
type Option func(*Source)

// WithGenerator replaces the time-seeded generator.
func WithGenerator(g *generator.Generator) Option {
	return func(s *Source) {
		if g != nil {
			s.gen = g
		}
	}
}

// WithSummarizer sets where ExternalSummary fetches text from.
func WithSummarizer(w Summarizer) Option {
	return func(s *Source) {
		s.wiki = w
	}
}

// WithQuotes replaces the built-in quotes.
func WithQuotes(quotes []string) Option {
	return func(s *Source) {
		if len(quotes) > 0 {
			s.quotes = quotes
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(l hclog.Logger) Option {
	return func(s *Source) {
		if l != nil {
			s.logger = l
		}
	}
}

// New returns a Source drawing batches from words.
func New(words []string, opts generator.Options, options ...Option) *Source {
	s := &Source{
		gen:    generator.New(),
		words:  words,
		opts:   opts,
		quotes: Quotes(),
		wiki:   NewWikiClient(),
		logger: hclog.NewNullLogger(),
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

// NextBatch returns n random words joined by spaces.
func (s *Source) NextBatch(n int) string {
	return strings.Join(s.gen.Words(s.words, n, s.opts), " ")
}

// Quote returns a random quote.
func (s *Source) Quote() string {
	return s.gen.Pick(s.quotes)
}

// ExternalSummary fetches a Wikipedia summary, falling back to a quote when
// the fetch fails.
func (s *Source) ExternalSummary() string {
	if s.wiki == nil {
		return s.Quote()
	}
	text, err := s.wiki.Summary(context.Background())
	if err != nil {
		s.logger.Warn("wiki summary unavailable, using a quote", "err", err)
		return s.Quote()
	}
	return text
}

// PracticeText returns n drill words for the 0-based level.
func (s *Source) PracticeText(level, n int) string {
	chars := []rune(Levels[ClampLevel(level)].Chars)
	return strings.Join(s.gen.PseudoWords(chars, n, 2, 5), " ")
}
