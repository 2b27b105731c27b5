// Package store handles SQLite persistence of session history.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/verte-zerg/typerace/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps SQLite access for session history.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			id INTEGER PRIMARY KEY,
			started_at TEXT NOT NULL,
			ended_at TEXT NOT NULL,
			mode TEXT NOT NULL,
			test_type TEXT NOT NULL,
			lang TEXT NOT NULL,
			wpm REAL NOT NULL,
			accuracy REAL NOT NULL,
			words_done INTEGER NOT NULL,
			correct_words INTEGER NOT NULL,
			correct_keystrokes INTEGER NOT NULL,
			total_keystrokes INTEGER NOT NULL,
			errors INTEGER NOT NULL,
			duration_ms INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS session_samples (
			session_id INTEGER NOT NULL,
			second INTEGER NOT NULL,
			cpm REAL NOT NULL,
			errors REAL NOT NULL,
			PRIMARY KEY (session_id, second)
		);`,
		`CREATE TABLE IF NOT EXISTS practice_results (
			id INTEGER PRIMARY KEY,
			level INTEGER NOT NULL,
			wpm REAL NOT NULL,
			accuracy REAL NOT NULL,
			duration_ms INTEGER NOT NULL,
			recorded_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_ended_at ON sessions(ended_at);`,
		`CREATE INDEX IF NOT EXISTS idx_practice_results_level ON practice_results(level);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertSession stores a finished session and its per-second samples.
func (s *Store) InsertSession(ctx context.Context, rec model.SessionRecord) (id int64, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO sessions (started_at, ended_at, mode, test_type, lang, wpm, accuracy, words_done, correct_words, correct_keystrokes, total_keystrokes, errors, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.StartedAt.Format(time.RFC3339Nano),
		rec.EndedAt.Format(time.RFC3339Nano),
		rec.Mode.String(),
		rec.TestType.String(),
		rec.Lang,
		rec.WPM,
		rec.Accuracy,
		rec.WordsDone,
		rec.CorrectWords,
		rec.CorrectKeystrokes,
		rec.TotalKeystrokes,
		rec.Errors,
		rec.DurationMs,
	)
	if err != nil {
		return 0, err
	}
	id, err = res.LastInsertId()
	if err != nil {
		return 0, err
	}

	if len(rec.Samples) > 0 {
		var stmt *sql.Stmt
		stmt, err = tx.PrepareContext(ctx,
			`INSERT INTO session_samples (session_id, second, cpm, errors) VALUES (?, ?, ?, ?)`)
		if err != nil {
			return 0, err
		}
		defer func() {
			if cerr := stmt.Close(); cerr != nil {
				// Best-effort statement close.
				_ = cerr
			}
		}()
		for _, sample := range rec.Samples {
			if _, err = stmt.ExecContext(ctx, id, sample.Second, sample.CPM, sample.Errors); err != nil {
				return 0, err
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

// ListSessions returns session aggregates filtered by stats config, oldest first.
func (s *Store) ListSessions(ctx context.Context, cfg model.StatsConfig) ([]model.SessionAggregate, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if cfg.Lang != "" {
		clauses = append(clauses, "lang = ?")
		args = append(args, cfg.Lang)
	}
	if cfg.Mode != "" {
		clauses = append(clauses, "mode = ?")
		args = append(args, cfg.Mode)
	}
	if cfg.Since != nil {
		clauses = append(clauses, "ended_at >= ?")
		args = append(args, cfg.Since.Format(time.RFC3339Nano))
	}
	query := fmt.Sprintf(`SELECT id, ended_at, mode, lang, wpm, accuracy, total_keystrokes, errors, duration_ms
		FROM sessions
		WHERE %s
		ORDER BY ended_at ASC, id ASC`, strings.Join(clauses, " AND "))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var sessions []model.SessionAggregate
	for rows.Next() {
		var agg model.SessionAggregate
		var endedAt string
		if err := rows.Scan(&agg.SessionID, &endedAt, &agg.Mode, &agg.Lang, &agg.WPM, &agg.Accuracy, &agg.TotalKeystrokes, &agg.Errors, &agg.DurationMs); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, endedAt)
		if err != nil {
			return nil, err
		}
		agg.EndedAt = parsed
		sessions = append(sessions, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sessions, nil
}

// ListSamples returns the per-second samples of one session in order.
func (s *Store) ListSamples(ctx context.Context, sessionID int64) ([]model.Sample, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT second, cpm, errors FROM session_samples WHERE session_id = ? ORDER BY second ASC`, sessionID)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var samples []model.Sample
	for rows.Next() {
		var sample model.Sample
		if err := rows.Scan(&sample.Second, &sample.CPM, &sample.Errors); err != nil {
			return nil, err
		}
		samples = append(samples, sample)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return samples, nil
}

// SavePracticeResult records the outcome of a practice session for a 0-based level.
func (s *Store) SavePracticeResult(ctx context.Context, level int, wpm, accuracy float64, duration time.Duration, at time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO practice_results (level, wpm, accuracy, duration_ms, recorded_at) VALUES (?, ?, ?, ?, ?)`,
		level, wpm, accuracy, duration.Milliseconds(), at.Format(time.RFC3339Nano))
	return err
}

// FirstUnfinishedLevel returns the lowest 0-based level in [0, levels) without a
// result meeting both thresholds. When every level has passed it returns the last one.
func (s *Store) FirstUnfinishedLevel(ctx context.Context, levels int, minWPM, minAccuracy float64) (int, error) {
	if levels <= 0 {
		return 0, nil
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT level FROM practice_results WHERE wpm >= ? AND accuracy >= ?`, minWPM, minAccuracy)
	if err != nil {
		return 0, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	passed := map[int]bool{}
	for rows.Next() {
		var level int
		if err := rows.Scan(&level); err != nil {
			return 0, err
		}
		passed[level] = true
	}
	if err := rows.Err(); err != nil {
		return 0, err
	}
	for level := 0; level < levels; level++ {
		if !passed[level] {
			return level, nil
		}
	}
	return levels - 1, nil
}
