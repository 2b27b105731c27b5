// Package leaderboard persists completed sessions to a shared TOML file.
//
// Every operation holds an advisory lock on a sibling ".lock" file for the
// whole read-modify-write. Writes go to a temp file that is renamed over the
// data file, so readers never observe a partial write.
package leaderboard

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/gofrs/flock"
	"github.com/hashicorp/go-hclog"

	"github.com/verte-zerg/typerace/internal/model"
)

const (
	// DefaultLockTimeout bounds how long Append and LoadAll wait for the lock.
	DefaultLockTimeout = 5 * time.Second
	defaultRetryDelay  = 50 * time.Millisecond
)

type fileData struct {
	Entries []model.LeaderboardEntry `toml:"entries"`
}

// Store reads and appends leaderboard entries.
type Store struct {
	path        string
	lockPath    string
	lockTimeout time.Duration
	retryDelay  time.Duration
	logger      hclog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLockTimeout sets the maximum wait for the file lock.
func WithLockTimeout(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.lockTimeout = d
		}
	}
}

// WithRetryDelay sets the polling interval while waiting for the lock.
func WithRetryDelay(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.retryDelay = d
		}
	}
}

// WithLogger attaches a logger for debug tracing.
func WithLogger(l hclog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// Open returns a Store for path. The file is created lazily on first Append.
func Open(path string, opts ...Option) *Store {
	s := &Store{
		path:        path,
		lockPath:    path + ".lock",
		lockTimeout: DefaultLockTimeout,
		retryDelay:  defaultRetryDelay,
		logger:      hclog.NewNullLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the data file path.
func (s *Store) Path() string {
	return s.path
}

// Append validates entry and adds it to the end of the file.
func (s *Store) Append(ctx context.Context, entry model.LeaderboardEntry) error {
	if err := Validate(entry); err != nil {
		return err
	}
	return s.withLock(ctx, false, func() error {
		entries, err := s.read()
		if err != nil {
			return err
		}
		entries = append(entries, entry)
		if err := s.write(entries); err != nil {
			return err
		}
		s.logger.Debug("leaderboard entry appended", "path", s.path, "entries", len(entries))
		return nil
	})
}

// LoadAll returns every entry in insertion order. A missing or empty file
// yields an empty slice.
func (s *Store) LoadAll(ctx context.Context) ([]model.LeaderboardEntry, error) {
	var entries []model.LeaderboardEntry
	err := s.withLock(ctx, true, func() error {
		var err error
		entries, err = s.read()
		return err
	})
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []model.LeaderboardEntry{}
	}
	return entries, nil
}

func (s *Store) withLock(ctx context.Context, shared bool, fn func() error) (err error) {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create leaderboard directory: %w", err)
	}
	lock := flock.New(s.lockPath)
	lockCtx, cancel := context.WithTimeout(ctx, s.lockTimeout)
	defer cancel()

	var locked bool
	if shared {
		locked, err = lock.TryRLockContext(lockCtx, s.retryDelay)
	} else {
		locked, err = lock.TryLockContext(lockCtx, s.retryDelay)
	}
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			return fmt.Errorf("%w: %s held longer than %s", ErrLockTimeout, s.lockPath, s.lockTimeout)
		}
		return fmt.Errorf("failed to lock %s: %w", s.lockPath, err)
	}
	if !locked {
		return fmt.Errorf("%w: %s", ErrLockTimeout, s.lockPath)
	}
	defer func() {
		if uerr := lock.Unlock(); uerr != nil && err == nil {
			err = fmt.Errorf("failed to unlock %s: %w", s.lockPath, uerr)
		}
	}()
	return fn()
}

func (s *Store) read() ([]model.LeaderboardEntry, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read leaderboard: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	var f fileData
	if _, err := toml.Decode(string(data), &f); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDecode, s.path, err)
	}
	return f.Entries, nil
}

func (s *Store) write(entries []model.LeaderboardEntry) error {
	dir := filepath.Dir(s.path)
	tmpFile, err := os.CreateTemp(dir, ".leaderboard-*.toml")
	if err != nil {
		return fmt.Errorf("failed to create temp leaderboard: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	writer := bufio.NewWriter(tmpFile)
	if err := toml.NewEncoder(writer).Encode(fileData{Entries: entries}); err != nil {
		return fmt.Errorf("%w: %w", ErrEncode, err)
	}
	if err := writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush leaderboard: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("failed to sync leaderboard: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close leaderboard: %w", err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		return fmt.Errorf("failed to set leaderboard permissions: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("failed to replace leaderboard: %w", err)
	}
	return nil
}
