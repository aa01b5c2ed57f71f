package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound signals a missing entity. Query endpoints surface it as 404;
// the background pipeline ignores it.
var ErrNotFound = errors.New("not found")

// ValidationError reports user-correctable bad input. It is returned
// synchronously from submission and never from the background pipeline.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// SchedulingError means a request was persisted but its processing job
// could not be enqueued. The request remains pending.
type SchedulingError struct {
	Err error
}

func (e *SchedulingError) Error() string {
	return fmt.Sprintf("schedule processing: %v", e.Err)
}

func (e *SchedulingError) Unwrap() error { return e.Err }

// GenerationError wraps a failure in one stage of the generation chain.
// The orchestrator converts it into a failed request, never propagating it
// to callers.
type GenerationError struct {
	Stage string
	Err   error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("%s stage: %v", e.Stage, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }
