// Package apperr defines the error kinds shared by the store and its callers.
package apperr

import "errors"

var (
	ErrNotFound       = errors.New("not found")
	ErrConflict       = errors.New("conflict")
	ErrNotInitialized = errors.New("store not initialized")
	ErrSlugExhausted  = errors.New("slug space exhausted")
	ErrInvalidType    = errors.New("invalid note type")
)
