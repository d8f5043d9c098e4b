package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Workbook-level errors
	ErrNoStateColumn = errors.New("no state column detected")
	ErrNoHeaderRow   = errors.New("workbook has no header row")
	ErrUnreadable    = errors.New("workbook unreadable")

	// Row-level errors
	ErrUnresolvedState = errors.New("state token could not be resolved")
	ErrNoStateToken    = errors.New("cell contains no state token")

	// Scoring errors
	ErrInvalidRubric = errors.New("invalid rubric")
)

// Error constructors with context
func NewNoStateColumnError(workbook WorkbookID, ratio float64) error {
	return fmt.Errorf("%w in workbook %s: best candidate resolved %.0f%% of sampled values", ErrNoStateColumn, workbook, ratio*100)
}

func NewUnresolvedStateError(token string) error {
	return fmt.Errorf("%w: %q", ErrUnresolvedState, token)
}

func NewRubricError(category string, reason string) error {
	return fmt.Errorf("%w: category %s: %s", ErrInvalidRubric, category, reason)
}

// IsWorkbookRejection reports whether err is an expected whole-workbook
// rejection, as opposed to a fault in the pipeline itself.
func IsWorkbookRejection(err error) bool {
	return errors.Is(err, ErrNoStateColumn) ||
		errors.Is(err, ErrNoHeaderRow) ||
		errors.Is(err, ErrUnreadable)
}
