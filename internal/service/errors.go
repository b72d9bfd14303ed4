package service

import (
	"errors"
	"fmt"
)

// Sentinel errors for pipeline outcomes that abort the whole request.
var (
	// ErrLocationNotFound means the location text resolved to nothing. Raised
	// before any paid search call and before any usage record is written.
	ErrLocationNotFound = errors.New("location not found")

	// ErrUpstreamUnavailable means the search capability is misconfigured,
	// unreachable, or every retrieval strategy failed.
	ErrUpstreamUnavailable = errors.New("search provider unavailable")
)

// ValidationError indicates malformed or missing input; no external call is
// made when it is raised.
type ValidationError struct {
	Message string
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return e.Message
}

// QuotaExceededError reports the caller's current usage against their plan
// limit. It always fires before any paid external call.
type QuotaExceededError struct {
	Used  int
	Limit int
}

// Error implements the error interface.
func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("monthly search limit exceeded: used %d/%d", e.Used, e.Limit)
}
