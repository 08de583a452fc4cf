package records

import "errors"

// Error definitions for the records view.
var (
	// ErrNoRecordService indicates that no record service was provided.
	ErrNoRecordService = errors.New("record service is required")

	// ErrNoSheet indicates that no sheet has been selected.
	ErrNoSheet = errors.New("no sheet selected")
)
