package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/arthur-debert/simpleshop/types"
)

// Kind names the entity a ConstructionError belongs to
type Kind string

const (
	KindItem        Kind = "item"
	KindCategory    Kind = "category"
	KindSubCategory Kind = "subcategory"
)

var (
	// ErrEmptyID is returned when neither an id nor a name to derive one from was given
	ErrEmptyID = errors.New("id cannot be empty")

	// ErrInvalidPrice is returned for a NaN or infinite price
	ErrInvalidPrice = errors.New("price must be a finite number")

	// ErrParentMismatch is returned when a sub-category is added to a
	// category other than the one it was created for
	ErrParentMismatch = errors.New("sub-category belongs to a different category")
)

// ConstructionError wraps any failure to build an entity from a record,
// naming the entity it happened on.
type ConstructionError struct {
	Kind Kind
	ID   string
	Err  error
}

// Error implements the error interface
func (e *ConstructionError) Error() string {
	return fmt.Sprintf("invalid data for %s '%s': %v", e.Kind, e.ID, e.Err)
}

// Unwrap returns the underlying cause
func (e *ConstructionError) Unwrap() error {
	return e.Err
}

// PayloadError reports an opaque payload the codec could not handle
type PayloadError struct {
	Op  string
	Err error
}

// Error implements the error interface
func (e *PayloadError) Error() string {
	return fmt.Sprintf("failed to %s item payload: %v", e.Op, e.Err)
}

// Unwrap returns the codec error
func (e *PayloadError) Unwrap() error {
	return e.Err
}

// ImageTypeError reports an image_type value that is not a known encoding
type ImageTypeError struct {
	Value string
}

// Error implements the error interface
func (e *ImageTypeError) Error() string {
	return fmt.Sprintf("invalid image type '%s', supported types are: %s",
		e.Value, strings.Join(types.ImageTypeValues(), ", "))
}
