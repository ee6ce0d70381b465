package usecase

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
	ErrTransportFailure      = errors.New("feed transport failure")
	ErrEmptyResultSet        = errors.New("no valid results in feed document")
)

// EmptyResultSetError is returned when a document yields no scoring rows.
// Candidates counts objects that still look like result records, which
// hints at a changed feed schema when it is non-zero.
type EmptyResultSetError struct {
	EventID    string
	Candidates int
}

func (e *EmptyResultSetError) Error() string {
	if e.Candidates > 0 {
		return fmt.Sprintf("%s: event %s (%d result-like objects found, schema changed?)", ErrEmptyResultSet, e.EventID, e.Candidates)
	}
	return fmt.Sprintf("%s: event %s", ErrEmptyResultSet, e.EventID)
}

func (e *EmptyResultSetError) Unwrap() error {
	return ErrEmptyResultSet
}
