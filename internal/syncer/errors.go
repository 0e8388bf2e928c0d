package syncer

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that no entry exists for the requested id.
var ErrNotFound = errors.New("no data found")

// DuplicateIDError indicates a data-integrity anomaly: more than one entry
// in the store carries the same id. Operations that hit it still proceed
// with the first match; callers can detect the anomaly with errors.As.
type DuplicateIDError struct {
	ID    string
	Count int
}

func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("%d entries found for ID %s, expected 1", e.Count, e.ID)
}
