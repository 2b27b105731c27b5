package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode"
)

const (
	// DefaultWikiURL returns one random English article summary as JSON.
	DefaultWikiURL     = "https://en.wikipedia.org/api/rest_v1/page/random/summary"
	defaultWikiTimeout = 5 * time.Second
	maxSummaryRunes    = 600
)

type wikiSummary struct {
	Extract string `json:"extract"`
}

// WikiClient fetches random article summaries.
type WikiClient struct {
	URL     string
	Timeout time.Duration
	Client  *http.Client
}

// NewWikiClient returns a client for DefaultWikiURL.
func NewWikiClient() *WikiClient {
	return &WikiClient{URL: DefaultWikiURL, Timeout: defaultWikiTimeout}
}

// Summary fetches one summary and normalizes it into typeable text.
func (w *WikiClient) Summary(ctx context.Context) (string, error) {
	timeout := w.Timeout
	if timeout <= 0 {
		timeout = defaultWikiTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, w.URL, http.NoBody)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	client := w.Client
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			// Best-effort body close.
			_ = cerr
		}
	}()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %s", resp.Status)
	}

	var summary wikiSummary
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&summary); err != nil {
		return "", fmt.Errorf("failed to decode summary: %w", err)
	}
	text := normalize(summary.Extract)
	if text == "" {
		return "", fmt.Errorf("summary is empty")
	}
	return text, nil
}

// normalize collapses whitespace, drops control characters and trims long
// text back to the last sentence end within maxSummaryRunes.
func normalize(s string) string {
	var b strings.Builder
	space := false
	for _, r := range s {
		switch {
		case unicode.IsSpace(r):
			space = b.Len() > 0
			continue
		case !unicode.IsPrint(r):
			continue
		}
		if space {
			b.WriteByte(' ')
			space = false
		}
		b.WriteRune(r)
	}
	runes := []rune(b.String())
	if len(runes) <= maxSummaryRunes {
		return string(runes)
	}
	runes = runes[:maxSummaryRunes]
	for i := len(runes) - 1; i > 0; i-- {
		if runes[i] == '.' {
			return string(runes[:i+1])
		}
	}
	return strings.TrimSpace(string(runes))
}
