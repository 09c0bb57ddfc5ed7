// Package database provides sentinel errors for repository operations.
package database

import "errors"

var (
	// ErrNotFound is returned when a requested entity is not found.
	ErrNotFound = errors.New("entity not found")

	// ErrJustificationNotFound is returned when no audit record exists for
	// the requested bridge/round.
	ErrJustificationNotFound = errors.New("justification record not found")
)
