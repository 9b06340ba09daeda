package production

import (
	"errors"
	"fmt"
)

// ErrValidation matches every *ValidationError via errors.Is.
var ErrValidation = errors.New("validation failed")

var (
	// ErrRateOutOfRange indicates a rate outside MinRate..MaxRate.
	ErrRateOutOfRange = errors.New("rate out of range")

	// ErrBlankComment indicates a whitespace-only comment.
	ErrBlankComment = errors.New("comment is blank")

	// ErrEmptyTitle indicates an empty or whitespace-only title.
	ErrEmptyTitle = errors.New("title is empty")

	// ErrInvalidGenre indicates an unknown genre or an explicit GenreAll.
	ErrInvalidGenre = errors.New("invalid genre")

	// ErrInvalidKind indicates a bad movie duration or season map.
	ErrInvalidKind = errors.New("invalid kind")

	// ErrInvalidID indicates an identifier that is not a UUID.
	ErrInvalidID = errors.New("invalid id")

	// ErrLocked indicates an edit of a field that is frozen once watched.
	ErrLocked = errors.New("field is locked while watched")

	// ErrNotWatched indicates an edit that only makes sense once watched.
	ErrNotWatched = errors.New("production is not watched")
)

// ValidationError describes a rejected construction or mutation.
// The entity is left unchanged when one is returned.
type ValidationError struct {
	Field  string
	Value  any
	Reason error
}

func (e *ValidationError) Error() string {
	if e.Value == nil {
		return fmt.Sprintf("%s: %v", e.Field, e.Reason)
	}
	return fmt.Sprintf("%s: %v (got %v)", e.Field, e.Reason, e.Value)
}

func (e *ValidationError) Unwrap() []error {
	return []error{ErrValidation, e.Reason}
}

func invalid(field string, value any, reason error) *ValidationError {
	return &ValidationError{Field: field, Value: value, Reason: reason}
}
