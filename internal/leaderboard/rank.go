package leaderboard

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/verte-zerg/typerace/internal/model"
)

// Filter narrows and limits ranked output. Zero values match everything.
type Filter struct {
	Mode string
	Lang string
	Top  int
}

// Rank returns the entries matching f, best first: WPM desc, then accuracy
// desc, then oldest first. The input slice is not modified.
func Rank(entries []model.LeaderboardEntry, f Filter) []model.LeaderboardEntry {
	out := make([]model.LeaderboardEntry, 0, len(entries))
	for _, e := range entries {
		if f.Mode != "" && !strings.EqualFold(e.TestMode, f.Mode) {
			continue
		}
		if f.Lang != "" && !strings.EqualFold(string(e.Language), f.Lang) {
			continue
		}
		out = append(out, e)
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.WPM != b.WPM {
			return a.WPM > b.WPM
		}
		if a.Accuracy != b.Accuracy {
			return a.Accuracy > b.Accuracy
		}
		return timestampBefore(a.Timestamp, b.Timestamp)
	})
	if f.Top > 0 && len(out) > f.Top {
		out = out[:f.Top]
	}
	return out
}

func timestampBefore(a, b string) bool {
	ta, errA := time.Parse(time.RFC3339, a)
	tb, errB := time.Parse(time.RFC3339, b)
	if errA != nil || errB != nil {
		return a < b
	}
	return ta.Before(tb)
}

// Format selects an export encoding.
type Format string

// Export formats.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// ParseFormat validates an export format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatJSON, FormatYAML, FormatTOML:
		return f, nil
	case "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unknown format %q (want json, yaml or toml)", s)
}

// Encode writes entries to w in the given format.
func Encode(w io.Writer, format Format, entries []model.LeaderboardEntry) error {
	if entries == nil {
		entries = []model.LeaderboardEntry{}
	}
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(entries); err != nil {
			return err
		}
		return enc.Close()
	case FormatTOML:
		return toml.NewEncoder(w).Encode(fileData{Entries: entries})
	}
	return fmt.Errorf("unknown format %q", format)
}
