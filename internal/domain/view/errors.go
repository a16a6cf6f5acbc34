package view

import (
	"errors"
	"fmt"
)

var (
	// ErrNoProject indicates no project is selected in the session.
	ErrNoProject = errors.New("no project selected")
	// ErrStaleResult indicates the selection changed while the aggregation
	// was in flight; the result was discarded, never applied.
	ErrStaleResult = errors.New("aggregation superseded by a newer selection")
)

// FetchFailure reports that the top-level product fetch for a project failed,
// aborting the whole aggregation.
type FetchFailure struct {
	ProjectID int64
	Err       error
}

func (e *FetchFailure) Error() string {
	return fmt.Sprintf("loading products for project %d: %v", e.ProjectID, e.Err)
}

func (e *FetchFailure) Unwrap() error { return e.Err }
