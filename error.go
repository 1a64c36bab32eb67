package loadingcache

import (
	"fmt"
	"time"
)

// SentinelError is a constant error, comparable with ==.
type SentinelError string

// Error implements error.
func (e SentinelError) Error() string {
	return string(e)
}

const (
	// ErrNothingToInvalidate indicates no caches were registered with an Invalidator.
	ErrNothingToInvalidate = SentinelError("loadingcache: nothing to invalidate")

	// ErrAlreadyInvalidated indicates an Invalidator call landed inside its SkipInterval.
	ErrAlreadyInvalidated = SentinelError("loadingcache: already invalidated")

	// ErrInvalidConfig indicates a Config that violates RefreshAge <= SpoilAge.
	ErrInvalidConfig = SentinelError("loadingcache: refresh age must not exceed spoil age")
)

// TimeoutError is returned to an individual Get waiter when Config.Timeout
// elapses before a value is ready. It never affects the underlying Load,
// which keeps running for the benefit of other waiters and future callers.
type TimeoutError struct {
	Key    interface{}
	Waited time.Duration
}

// Error implements error.
func (e *TimeoutError) Error() string {
	return fmt.Sprintf("loadingcache: timed out after %s waiting for key %v", e.Waited, e.Key)
}

// Timeout reports true, following the net.Error convention so callers can
// use errors.As(err, new(interface{ Timeout() bool })) style checks.
func (e *TimeoutError) Timeout() bool {
	return true
}
