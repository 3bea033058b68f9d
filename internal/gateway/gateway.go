// Package gateway turns a UserProfile into a structured WeeklyPlan, and a
// Meal into an alternative Meal, by calling an external generation service.
//
// Responses are decoded strictly and validated before they are returned, so
// callers only ever see complete plans and meals. At most one call is in
// flight per Generator; a concurrent call fails fast with ErrBusy.
package gateway

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/semaphore"

	"nutriplan/internal/types"
)

var (
	// ErrGeneration is wrapped by every GenerationError.
	ErrGeneration = errors.New("plan generation failed")
	// ErrBusy is returned when a call is already in flight.
	ErrBusy = errors.New("a generation request is already in progress")
)

// Generator produces plans and alternative meals.
type Generator interface {
	GeneratePlan(ctx context.Context, profile types.UserProfile) (types.WeeklyPlan, error)
	GenerateAlternative(ctx context.Context, meal types.Meal, goalLabel string) (types.Meal, error)
}

// Op identifies which gateway call failed.
type Op string

const (
	OpPlan        Op = "plan"
	OpAlternative Op = "alternative"
)

// GenerationError reports a transport, auth, empty-response or
// schema-conformance failure. It matches ErrGeneration under errors.Is.
type GenerationError struct {
	Op     Op
	Reason string
	Err    error
}

func (e *GenerationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s generation failed: %s: %v", e.Op, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s generation failed: %s", e.Op, e.Reason)
}

// Unwrap exposes both the cause and ErrGeneration.
func (e *GenerationError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrGeneration, e.Err}
	}
	return []error{ErrGeneration}
}

func genErr(op Op, reason string, err error) error {
	return &GenerationError{Op: op, Reason: reason, Err: err}
}

// inflight admits one call at a time.
type inflight struct {
	sem *semaphore.Weighted
}

func newInflight() inflight {
	return inflight{sem: semaphore.NewWeighted(1)}
}

func (f inflight) acquire() (release func(), err error) {
	if !f.sem.TryAcquire(1) {
		return nil, ErrBusy
	}
	return func() { f.sem.Release(1) }, nil
}
