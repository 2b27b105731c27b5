package leaderboard

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks an entry rejected before it reached the file.
	ErrValidation = errors.New("invalid leaderboard entry")
	// ErrLockTimeout means another writer held the file lock for too long.
	ErrLockTimeout = errors.New("leaderboard lock timeout")
	// ErrDecode means the file on disk could not be parsed. The file is left untouched.
	ErrDecode = errors.New("malformed leaderboard file")
	// ErrEncode means entries could not be serialized.
	ErrEncode = errors.New("leaderboard encode failed")
)

// ValidationError describes which field of an entry failed validation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s %s", ErrValidation, e.Field, e.Reason)
}

// Is lets errors.Is match ErrValidation.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Kind classifies err for logging: validation, lock-timeout, decode, encode or io.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrLockTimeout):
		return "lock-timeout"
	case errors.Is(err, ErrDecode):
		return "decode"
	case errors.Is(err, ErrEncode):
		return "encode"
	}
	return "io"
}
