package model

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is matched by NotFoundError.
	ErrNotFound = errors.New("not found")
	// ErrReferenceNotFound is matched by ReferenceNotFoundError.
	ErrReferenceNotFound = errors.New("reference not found")
	// ErrInvalidFormat is matched by InvalidFormatError.
	ErrInvalidFormat = errors.New("invalid format")
	// ErrValidation is matched by ValidationError.
	ErrValidation = errors.New("validation failed")
	// ErrHasDependents is matched by HasDependentsError.
	ErrHasDependents = errors.New("has dependents")
	// ErrStoreUnavailable is matched by StoreUnavailableError.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// NotFoundError reports that no entity of Kind has the given identity.
type NotFoundError struct {
	Kind Kind
	ID   int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Kind, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// ReferenceNotFoundError reports that a related entity named by Key does
// not exist. Key is a name for authors and genres and an id otherwise.
type ReferenceNotFoundError struct {
	Kind Kind
	Key  string
}

func (e *ReferenceNotFoundError) Error() string {
	return fmt.Sprintf("referenced %s %q does not exist", e.Kind, e.Key)
}

func (e *ReferenceNotFoundError) Is(target error) bool { return target == ErrReferenceNotFound }

type InvalidFormatError struct {
	Field string
	Value string
}

func (e *InvalidFormatError) Error() string {
	return fmt.Sprintf("invalid %s %q", e.Field, e.Value)
}

func (e *InvalidFormatError) Is(target error) bool { return target == ErrInvalidFormat }

// ValidationError reports an empty or out-of-range field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// HasDependentsError is returned when a delete is refused because order
// records still reference the target.
type HasDependentsError struct {
	Kind       Kind
	ID         int64
	Dependents int64
}

func (e *HasDependentsError) Error() string {
	return fmt.Sprintf("%s %d is referenced by %d order record(s)", e.Kind, e.ID, e.Dependents)
}

func (e *HasDependentsError) Is(target error) bool { return target == ErrHasDependents }

// StoreUnavailableError wraps any fault raised below the entity store,
// such as a lost connection or a failed statement.
type StoreUnavailableError struct {
	Op  string
	Err error
}

func (e *StoreUnavailableError) Error() string {
	return fmt.Sprintf("store unavailable: %s: %v", e.Op, e.Err)
}

func (e *StoreUnavailableError) Is(target error) bool { return target == ErrStoreUnavailable }

func (e *StoreUnavailableError) Unwrap() error { return e.Err }

// ValidationErrors is a list of field failures reported together.
type ValidationErrors []*ValidationError

func (es ValidationErrors) Error() string {
	msgs := make([]string, len(es))
	for i, e := range es {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "; ")
}

func (es ValidationErrors) Is(target error) bool { return target == ErrValidation }
