package services

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// ErrNotFound is returned when a country or user does not exist
var ErrNotFound = errors.New("not found")

// ValidationError collects every problem found in a submission
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Messages, " ")
}

// StateError rejects an operation the current game state does not allow
type StateError struct {
	Message string
}

func (e *StateError) Error() string {
	return e.Message
}

// PersistenceError wraps a failed write. The transaction it happened in has
// been rolled back.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

func validationError(messages ...string) error {
	return &ValidationError{Messages: messages}
}

func notFound(what string) error {
	return fmt.Errorf("%s: %w", what, ErrNotFound)
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
