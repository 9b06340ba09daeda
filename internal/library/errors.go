package library

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound indicates the requested production doesn't exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicate indicates an id already present in the collection.
	ErrDuplicate = errors.New("duplicate entry")

	// ErrNoData indicates a store that has never been saved to.
	ErrNoData = errors.New("no saved data")
)

// NotFoundError reports a lookup by id or title that matched nothing.
type NotFoundError struct {
	ID          string
	Title       string
	Suggestions []string
}

func (e *NotFoundError) Error() string {
	var msg string
	if e.ID != "" {
		msg = fmt.Sprintf("production %s not found", e.ID)
	} else {
		msg = fmt.Sprintf("production %q not found", e.Title)
	}
	if len(e.Suggestions) > 0 {
		msg += "; did you mean: " + strings.Join(e.Suggestions, ", ")
	}
	return msg
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// PersistenceError wraps a load or save failure from a Store.
type PersistenceError struct {
	Op  string // "load" or "save"
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s productions: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
