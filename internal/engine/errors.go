package engine

import (
	"errors"
	"fmt"
)

// ErrUnowned is returned for a path that lies under no mapping source.
var ErrUnowned = errors.New("path is not under any sync source")

// SyncError records a failed mirror operation with the paths involved.
type SyncError struct {
	// Op is "copy", "write" or "delete".
	Op     string
	Source string
	Target string
	Err    error
}

func (e *SyncError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Target, e.Err)
	}
	return fmt.Sprintf("%s %s -> %s: %v", e.Op, e.Source, e.Target, e.Err)
}

func (e *SyncError) Unwrap() error {
	return e.Err
}

// IsSyncError reports whether err is or wraps a *SyncError.
func IsSyncError(err error) bool {
	var se *SyncError
	return errors.As(err, &se)
}
