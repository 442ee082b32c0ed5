package dynamo

import "errors"

// Domain errors for the render pipeline.
var (
	// ErrParameterBounds indicates a parameter value is outside valid range.
	ErrParameterBounds = errors.New("dynamo: parameter out of valid bounds")

	// ErrContextCanceled indicates the run was interrupted.
	ErrContextCanceled = errors.New("dynamo: run canceled by context")

	// ErrEmptyTrajectory indicates bounds were requested before any point was observed.
	ErrEmptyTrajectory = errors.New("dynamo: trajectory has no points")

	// ErrCellOutOfRange indicates a normalized coordinate that does not floor
	// to a cell of the density grid (NaN, Inf or outside [0, size-1]).
	ErrCellOutOfRange = errors.New("dynamo: coordinate outside density grid")
)

// Pipeline stages reported in StageError.
const (
	StageLoadConfig  = "load config"
	StageIntegrate   = "integrate"
	StageAccumulate  = "accumulate"
	StageWriteOutput = "write output"
)

// StageError names the stage of a run that failed.
type StageError struct {
	Stage   string
	Wrapped error
}

func (e *StageError) Error() string {
	return e.Stage + ": " + e.Wrapped.Error()
}

func (e *StageError) Unwrap() error {
	return e.Wrapped
}

// Wrap returns nil for a nil err, otherwise a *StageError for stage.
func Wrap(stage string, err error) error {
	if err == nil {
		return nil
	}
	return &StageError{Stage: stage, Wrapped: err}
}
