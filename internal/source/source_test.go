package source

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/typerace/internal/generator"
)

type stubSummarizer struct {
	text string
	err  error
}

func (s stubSummarizer) Summary(context.Context) (string, error) {
	return s.text, s.err
}

func TestNextBatchWordCount(t *testing.T) {
	s := New([]string{"one", "two"}, generator.Options{}, WithGenerator(generator.NewSeeded(1)))
	batch := s.NextBatch(12)
	if n := len(strings.Fields(batch)); n != 12 {
		t.Fatalf("expected 12 words, got %d in %q", n, batch)
	}
}

func TestQuotesAreBuiltIn(t *testing.T) {
	quotes := Quotes()
	if len(quotes) < 10 {
		t.Fatalf("expected built-in quotes, got %d", len(quotes))
	}
	s := New(nil, generator.Options{}, WithGenerator(generator.NewSeeded(2)))
	q := s.Quote()
	found := false
	for _, want := range quotes {
		if q == want {
			found = true
		}
	}
	if !found {
		t.Fatalf("quote %q not in built-in set", q)
	}
}

func TestExternalSummaryFallsBackToQuote(t *testing.T) {
	s := New(nil, generator.Options{},
		WithQuotes([]string{"fallback quote"}),
		WithSummarizer(stubSummarizer{err: errors.New("offline")}),
	)
	if got := s.ExternalSummary(); got != "fallback quote" {
		t.Fatalf("expected fallback quote, got %q", got)
	}

	s = New(nil, generator.Options{}, WithSummarizer(stubSummarizer{text: "fetched text"}))
	if got := s.ExternalSummary(); got != "fetched text" {
		t.Fatalf("expected fetched text, got %q", got)
	}
}

func TestPracticeTextUsesLevelChars(t *testing.T) {
	s := New(nil, generator.Options{}, WithGenerator(generator.NewSeeded(4)))
	text := s.PracticeText(0, 20)
	if n := len(strings.Fields(text)); n != 20 {
		t.Fatalf("expected 20 words, got %d", n)
	}
	if strings.Trim(strings.ReplaceAll(text, " ", ""), Levels[0].Chars) != "" {
		t.Fatalf("practice text %q uses characters outside level 0", text)
	}
	if s.PracticeText(99, 3) == "" || s.PracticeText(-1, 3) == "" {
		t.Fatalf("expected out-of-range levels to be clamped")
	}
}

func TestLevelsGrowMonotonically(t *testing.T) {
	for i := 1; i < len(Levels); i++ {
		for _, r := range Levels[i-1].Chars {
			if !strings.ContainsRune(Levels[i].Chars, r) {
				t.Fatalf("level %d drops %q from level %d", i, r, i-1)
			}
		}
	}
}

func TestWikiClientSummary(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"title":"Go","extract":"Go is a\n  programming\tlanguage."}`)
	}))
	defer srv.Close()

	client := &WikiClient{URL: srv.URL, Timeout: time.Second}
	text, err := client.Summary(context.Background())
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if text != "Go is a programming language." {
		t.Fatalf("unexpected summary %q", text)
	}
}

func TestWikiClientErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/missing":
			http.NotFound(w, r)
		case "/empty":
			fmt.Fprint(w, `{"extract":"   "}`)
		case "/slow":
			time.Sleep(300 * time.Millisecond)
			fmt.Fprint(w, `{"extract":"late"}`)
		}
	}))
	defer srv.Close()

	for _, path := range []string{"/missing", "/empty", "/slow"} {
		client := &WikiClient{URL: srv.URL + path, Timeout: 100 * time.Millisecond}
		if _, err := client.Summary(context.Background()); err == nil {
			t.Fatalf("%s: expected error", path)
		}
	}
}

func TestNormalizeTrimsToSentence(t *testing.T) {
	long := strings.Repeat("word ", 100) + "end. " + strings.Repeat("more ", 100)
	got := normalize(long)
	if len([]rune(got)) > maxSummaryRunes {
		t.Fatalf("summary not trimmed: %d runes", len([]rune(got)))
	}
	if !strings.HasSuffix(got, "end.") {
		t.Fatalf("expected cut at sentence end, got suffix %q", got[len(got)-10:])
	}
}
