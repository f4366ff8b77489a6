package recognition

import (
	"fmt"
	"time"
)

// ErrUpstream is returned when the recognition service answered with a
// non-2xx status on every submission candidate, or rejected a status read.
type ErrUpstream struct {
	Status int
	Body   string
}

func (e *ErrUpstream) Error() string {
	return fmt.Sprintf("recognition upstream error (%d): %s", e.Status, e.Body)
}

// ErrProtocol is returned when the service accepted a job but the reply
// cannot be followed, e.g. no Operation-Location header.
type ErrProtocol struct {
	Reason string
}

func (e *ErrProtocol) Error() string {
	return "recognition protocol error: " + e.Reason
}

// ErrJobFailed carries the service's error payload for a failed job.
type ErrJobFailed struct {
	Detail string
}

func (e *ErrJobFailed) Error() string {
	return "recognition job failed: " + e.Detail
}

// ErrTimeout is returned when a job is still running at the deadline.
type ErrTimeout struct {
	After time.Duration
}

func (e *ErrTimeout) Error() string {
	return fmt.Sprintf("recognition job did not finish within %s", e.After)
}
