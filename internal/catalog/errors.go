package catalog

import "errors"

var (
	// ErrNotFound is returned when a product, package or question does not exist.
	ErrNotFound = errors.New("not found")
	// ErrUnparseable is returned when a display price contains no digits.
	ErrUnparseable = errors.New("unparseable price")
	// ErrInvalidCatalog wraps every validation failure reported by Validate.
	ErrInvalidCatalog = errors.New("invalid catalog")
)
