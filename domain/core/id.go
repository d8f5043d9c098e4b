package core

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ID represents a domain identifier
type ID string

// NewID creates a new unique identifier using UUID v7 for time-ordered generation
func NewID() ID {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to v4 if v7 fails
		id = uuid.New()
	}
	return ID(id.String())
}

// String returns the string representation
func (id ID) String() string {
	return string(id)
}

// IsEmpty checks if the ID is empty
func (id ID) IsEmpty() bool {
	return id == ""
}

// Domain-specific ID types
type (
	// RunID identifies one ingestion run.
	RunID ID
	// WorkbookID identifies one source spreadsheet; it is derived from the
	// file name so that merge order is reproducible across runs.
	WorkbookID string
)

func (id RunID) String() string      { return ID(id).String() }
func (id WorkbookID) String() string { return string(id) }

// NewRunID creates a fresh run identifier.
func NewRunID() RunID {
	return RunID(NewID())
}

// NewWorkbookID derives a workbook identifier from a file path base name.
func NewWorkbookID(name string) WorkbookID {
	return WorkbookID(strings.TrimSpace(name))
}

// ParseRunID parses a string into RunID
func ParseRunID(s string) (RunID, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("run ID cannot be empty")
	}
	return RunID(s), nil
}
