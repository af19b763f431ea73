package shop

import (
	"errors"
	"fmt"
)

var (
	// ErrCategoryNotFound is returned when an operation names a category the
	// manager does not hold
	ErrCategoryNotFound = errors.New("category not found")

	// ErrSubCategoryNotFound is returned when a container ref names a
	// sub-category its category does not hold
	ErrSubCategoryNotFound = errors.New("sub-category not found")
)

// DocumentLoadError is returned when the backing document cannot be loaded.
// A load that fails this way commits nothing.
type DocumentLoadError struct {
	Path string
	Err  error
}

func (e *DocumentLoadError) Error() string {
	return fmt.Sprintf("failed to load shop document %s: %v", e.Path, e.Err)
}

func (e *DocumentLoadError) Unwrap() error {
	return e.Err
}

// SkippedEntry is a nested document entry dropped during a load
type SkippedEntry struct {
	Path string
	Err  error
}
