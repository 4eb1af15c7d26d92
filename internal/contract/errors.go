package contract

import (
	"errors"
	"fmt"
)

// ErrContentUnavailable is returned when a snapshot of a path cannot be fetched at a ref.
var ErrContentUnavailable = errors.New("content unavailable")

// ErrUnrecognizedLanguage selects the generic structure table in static analysis.
var ErrUnrecognizedLanguage = errors.New("unrecognized language")

// RepositoryAccessError is a fatal failure to reach a ref or enumerate repository data.
type RepositoryAccessError struct {
	Op  string
	Ref string
	Err error
}

func (e *RepositoryAccessError) Error() string {
	if e.Ref == "" {
		return fmt.Sprintf("repository access failed during %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("repository access failed during %s of %q: %v", e.Op, e.Ref, e.Err)
}

func (e *RepositoryAccessError) Unwrap() error { return e.Err }

// NewRepositoryAccessError wraps err unless it is already a RepositoryAccessError.
func NewRepositoryAccessError(op, ref string, err error) error {
	var rae *RepositoryAccessError
	if errors.As(err, &rae) {
		return err
	}
	return &RepositoryAccessError{Op: op, Ref: ref, Err: err}
}
