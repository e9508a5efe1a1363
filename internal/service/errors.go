package service

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// RowError points at one offending row of a term set or an import sheet.
type RowError struct {
	Sheet  string `json:"sheet,omitempty"`
	Index  int    `json:"index"`
	Field  string `json:"field,omitempty"`
	Reason string `json:"reason"`
}

// ProjectPercentError reports a per-project percentage total that does not
// reach 100%. Diff is in basis points; positive means deficit.
type ProjectPercentError struct {
	Project string `json:"project"`
	DiffBP  int64  `json:"diff_bp"`
}

// ValidationError is caller-fixable and always reported before any storage
// mutation has happened.
type ValidationError struct {
	Message    string                `json:"message"`
	Rows       []RowError            `json:"rows,omitempty"`
	PerProject []ProjectPercentError `json:"per_project,omitempty"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s (%d row errors, %d project errors)", e.Message, len(e.Rows), len(e.PerProject))
}

// NotFoundError marks a missing referenced record.
type NotFoundError struct {
	Entity string `json:"entity"`
	Key    string `json:"key"`
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Entity, e.Key)
}

// ConflictError marks a unique-key collision on a primary upsert.
type ConflictError struct {
	Entity string `json:"entity"`
	Key    string `json:"key"`
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s already exists: %s", e.Entity, e.Key)
}

// StorageError wraps an unexpected database failure. The transaction it
// happened in has been rolled back. Handlers report it opaquely; the wrapped
// cause goes to the log, not the client.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

func storageErr(op string, err error) error {
	return &StorageError{Op: op, Err: err}
}

// notFound translates gorm's sentinel into the domain error.
func notFound(entity, key string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &NotFoundError{Entity: entity, Key: key}
	}
	return err
}
