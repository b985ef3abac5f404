package ports

import "errors"

var (
	ErrNotFound = errors.New("record not found")
	// ErrConflict means the stored version moved since it was read.
	ErrConflict = errors.New("version conflict")
)
