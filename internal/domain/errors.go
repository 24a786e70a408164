package domain

import "errors"

var (
	// ErrNotFound is returned when a referenced entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput is returned when an entity fails validation before persistence.
	ErrInvalidInput = errors.New("invalid input")
	// ErrDuplicate signals that an equal entity already exists; nothing was created.
	ErrDuplicate = errors.New("already exists")
	// ErrStoreUnavailable wraps failures of the backing store.
	ErrStoreUnavailable = errors.New("store unavailable")
	// ErrUnsupportedFormat is returned for documents that cannot be read.
	ErrUnsupportedFormat = errors.New("unsupported document format")
	// ErrUnreadableDocument is returned when a supported document is corrupt.
	ErrUnreadableDocument = errors.New("unreadable document")
)
