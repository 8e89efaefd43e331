package realtime

import (
	"fmt"
	"time"
)

// RetryPolicy bounds automatic reconnection after a connection drop.
// Delay grows linearly with the attempt number; once MaxAttempts are
// exhausted the client stays disconnected until Connect is called again.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
}

// DefaultRetryPolicy matches the dashboard contract: 5 attempts, 1s base.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 5, BaseDelay: time.Second}
}

// Delay returns the wait before the given 1-based attempt.
func (p RetryPolicy) Delay(attempt int) time.Duration {
	return time.Duration(attempt) * p.BaseDelay
}

// ConnectionError wraps a transport-level failure. It is delivered to
// the error observer, never returned synchronously from Connect.
type ConnectionError struct {
	Attempt int
	Err     error
}

func (e *ConnectionError) Error() string {
	if e.Attempt > 0 {
		return fmt.Sprintf("realtime: reconnect attempt %d: %v", e.Attempt, e.Err)
	}
	return fmt.Sprintf("realtime: connection: %v", e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }
