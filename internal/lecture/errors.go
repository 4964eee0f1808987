package lecture

import (
	"errors"
	"fmt"
)

var (
	// ErrScheduling is returned when the narration cannot be partitioned,
	// e.g. for a negative or NaN duration.
	ErrScheduling = errors.New("scheduling failed")

	// ErrClassification exists for completeness; Classify always has a
	// default case and never returns it.
	ErrClassification = errors.New("classification failed")

	// ErrRender is returned when a segment's visual could not be produced
	// even by the plain-text fallback.
	ErrRender = errors.New("render failed")

	// ErrExternalService marks failures of the image or speech generators.
	// It is recovered at the call site and never aborts a render.
	ErrExternalService = errors.New("external service unavailable")

	// ErrAssembly is returned when concatenation, encoding or writing the
	// final video fails. It is fatal for the whole render.
	ErrAssembly = errors.New("assembly failed")
)

// StageError reports which pipeline stage failed, the error kind and the
// underlying cause. errors.Is matches both the kind and the cause.
type StageError struct {
	Stage Stage
	Kind  error
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage: %v: %v", e.Stage, e.Kind, e.Err)
}

func (e *StageError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

// Fail wraps err as a StageError for stage with the given kind.
func Fail(stage Stage, kind, err error) error {
	return &StageError{Stage: stage, Kind: kind, Err: err}
}
