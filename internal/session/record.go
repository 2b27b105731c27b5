package session

import (
	"context"

	"github.com/hashicorp/go-hclog"

	"github.com/verte-zerg/typerace/internal/leaderboard"
	"github.com/verte-zerg/typerace/internal/model"
)

// Recorder persists leaderboard entries.
type Recorder interface {
	Append(ctx context.Context, entry model.LeaderboardEntry) error
}

// Record hands a finished session's entry to rec and logs the outcome.
// The error is returned for reporting only; callers keep running on failure.
func Record(ctx context.Context, rec Recorder, entry model.LeaderboardEntry, logger hclog.Logger) error {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	err := rec.Append(ctx, entry)
	switch leaderboard.Kind(err) {
	case "":
		logger.Info("leaderboard entry saved", "test_type", entry.TestType.String(), "wpm", entry.WPM)
	case "validation":
		logger.Warn("leaderboard entry rejected", "err", err)
	case "lock-timeout":
		logger.Warn("leaderboard is busy, entry dropped", "err", err)
	case "decode":
		logger.Error("leaderboard file is malformed, not overwriting", "err", err)
	case "encode":
		logger.Error("failed to encode leaderboard entry", "err", err)
	default:
		logger.Error("failed to write leaderboard", "err", err)
	}
	return err
}
