package leaderboard

import (
	"math"
	"strings"
	"time"

	"github.com/verte-zerg/typerace/internal/model"
)

// Validate checks an entry before it is persisted.
func Validate(e model.LeaderboardEntry) error {
	if !finite(e.WPM) || e.WPM < 0 {
		return &ValidationError{Field: "wpm", Reason: "must be a finite non-negative number"}
	}
	if !finite(e.Accuracy) || e.Accuracy < 0 || e.Accuracy > 100 {
		return &ValidationError{Field: "accuracy", Reason: "must be within [0, 100]"}
	}
	if !finite(e.DurationSeconds) || e.DurationSeconds < 0 {
		return &ValidationError{Field: "duration_seconds", Reason: "must be a finite non-negative number"}
	}
	if strings.TrimSpace(e.Timestamp) == "" {
		return &ValidationError{Field: "timestamp", Reason: "must not be empty"}
	}
	if _, err := time.Parse(time.RFC3339, e.Timestamp); err != nil {
		return &ValidationError{Field: "timestamp", Reason: "must be RFC 3339"}
	}
	if _, err := e.TestType.MarshalText(); err != nil {
		return &ValidationError{Field: "test_type", Reason: err.Error()}
	}
	if strings.TrimSpace(e.TestMode) == "" {
		return &ValidationError{Field: "test_mode", Reason: "must not be empty"}
	}
	if strings.TrimSpace(string(e.Language)) == "" {
		return &ValidationError{Field: "language", Reason: "must not be empty"}
	}
	return nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
