// Package model defines shared data structures.
package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Mode selects how a session completes and where its text comes from.
type Mode int

// Session modes.
const (
	ModeTime Mode = iota
	ModeWords
	ModeQuote
	ModeWiki
	ModePractice
)

var modeNames = []string{"time", "word", "quote", "wiki", "practice"}

// Modes lists every mode in cycling order.
func Modes() []Mode {
	return []Mode{ModeTime, ModeWords, ModeQuote, ModeWiki, ModePractice}
}

func (m Mode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return fmt.Sprintf("mode(%d)", int(m))
	}
	return modeNames[m]
}

// Continuous reports whether the mode replaces exhausted text instead of finishing.
func (m Mode) Continuous() bool {
	return m == ModeTime || m == ModeWords
}

// Next returns the following mode, wrapping around.
func (m Mode) Next() Mode {
	return Mode((int(m) + 1) % len(modeNames))
}

// ParseMode accepts the names printed by Mode.String plus a few aliases.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "time", "timed":
		return ModeTime, nil
	case "word", "words":
		return ModeWords, nil
	case "quote":
		return ModeQuote, nil
	case "wiki", "wikipedia":
		return ModeWiki, nil
	case "practice":
		return ModePractice, nil
	}
	return 0, fmt.Errorf("unknown mode %q (want time, words, quote, wiki or practice)", s)
}

// Config defines the settings handed to a session at (re)initialization.
type Config struct {
	Mode        Mode
	TestTime    int
	WordTarget  int
	BatchSize   int
	Lang        string
	Punctuation bool
	Numbers     bool
	Level       int
	Theme       string
	TopWords    int
}

// TestKind tags the variant held by a TestType.
type TestKind int

// Test type variants.
const (
	KindTime TestKind = iota
	KindWord
	KindQuote
	KindWiki
	KindPractice
)

// TestType records what kind of test produced a leaderboard entry.
// Value carries the payload for Practice (level), Time (seconds) and Word (count).
type TestType struct {
	Kind  TestKind
	Value uint
}

// PracticeTest returns a Practice(level) test type.
func PracticeTest(level uint) TestType { return TestType{Kind: KindPractice, Value: level} }

// TimeTest returns a Time(seconds) test type.
func TimeTest(seconds uint) TestType { return TestType{Kind: KindTime, Value: seconds} }

// WordTest returns a Word(count) test type.
func WordTest(count uint) TestType { return TestType{Kind: KindWord, Value: count} }

// QuoteTest returns the Quote test type.
func QuoteTest() TestType { return TestType{Kind: KindQuote} }

// WikiTest returns the Wiki test type.
func WikiTest() TestType { return TestType{Kind: KindWiki} }

func (t TestType) String() string {
	switch t.Kind {
	case KindTime:
		return "time:" + strconv.FormatUint(uint64(t.Value), 10)
	case KindWord:
		return "word:" + strconv.FormatUint(uint64(t.Value), 10)
	case KindPractice:
		return "practice:" + strconv.FormatUint(uint64(t.Value), 10)
	case KindQuote:
		return "quote"
	case KindWiki:
		return "wiki"
	}
	return fmt.Sprintf("kind(%d)", int(t.Kind))
}

// MarshalText implements encoding.TextMarshaler.
func (t TestType) MarshalText() ([]byte, error) {
	if t.Kind < KindTime || t.Kind > KindPractice {
		return nil, fmt.Errorf("invalid test kind %d", int(t.Kind))
	}
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *TestType) UnmarshalText(text []byte) error {
	parsed, err := ParseTestType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// ParseTestType parses the text form produced by TestType.String.
func ParseTestType(s string) (TestType, error) {
	name, payload, hasPayload := strings.Cut(strings.TrimSpace(s), ":")
	switch name {
	case "quote", "wiki":
		if hasPayload {
			return TestType{}, fmt.Errorf("test type %q takes no value", name)
		}
		if name == "quote" {
			return QuoteTest(), nil
		}
		return WikiTest(), nil
	case "time", "word", "practice":
		if !hasPayload {
			return TestType{}, fmt.Errorf("test type %q requires a value", name)
		}
		v, err := strconv.ParseUint(payload, 10, 0)
		if err != nil {
			return TestType{}, fmt.Errorf("invalid %s value %q: %w", name, payload, err)
		}
		switch name {
		case "time":
			return TimeTest(uint(v)), nil
		case "word":
			return WordTest(uint(v)), nil
		default:
			return PracticeTest(uint(v)), nil
		}
	}
	return TestType{}, fmt.Errorf("unknown test type %q", s)
}

// Language identifies the word list a session was generated from.
type Language string

// LeaderboardEntry is one immutable completed-session record.
type LeaderboardEntry struct {
	WPM             float64  `toml:"wpm" json:"wpm" yaml:"wpm"`
	Accuracy        float64  `toml:"accuracy" json:"accuracy" yaml:"accuracy"`
	TestType        TestType `toml:"test_type" json:"test_type" yaml:"test_type"`
	TestMode        string   `toml:"test_mode" json:"test_mode" yaml:"test_mode"`
	WordCount       uint     `toml:"word_count" json:"word_count" yaml:"word_count"`
	DurationSeconds float64  `toml:"duration_seconds" json:"duration_seconds" yaml:"duration_seconds"`
	Timestamp       string   `toml:"timestamp" json:"timestamp" yaml:"timestamp"`
	Language        Language `toml:"language" json:"language" yaml:"language"`
}

// Sample is one per-second metrics reading.
type Sample struct {
	Second int
	CPM    float64
	Errors float64
}

// SessionRecord captures a finished session for the history store.
type SessionRecord struct {
	StartedAt         time.Time
	EndedAt           time.Time
	Mode              Mode
	TestType          TestType
	Lang              string
	WPM               float64
	Accuracy          float64
	WordsDone         int
	CorrectWords      int
	CorrectKeystrokes int
	TotalKeystrokes   int
	Errors            int
	DurationMs        int64
	Samples           []Sample
}

// StatsConfig defines filters and options for stats output.
type StatsConfig struct {
	Lang        string
	Mode        string
	Since       *time.Time
	Last        int
	CurveWindow int
}

// SessionAggregate summarizes a stored session for reporting.
type SessionAggregate struct {
	SessionID       int64
	EndedAt         time.Time
	Mode            string
	Lang            string
	WPM             float64
	Accuracy        float64
	TotalKeystrokes int
	Errors          int
	DurationMs      int64
}
