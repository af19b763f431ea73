package catalog

import (
	"github.com/arthur-debert/simpleshop/internal/validation"
	"github.com/arthur-debert/simpleshop/types"
)

// Attributes is the display and access metadata shared by categories and
// sub-categories.
type Attributes struct {
	// ID is derived from Name when left empty
	ID          string
	Name        string
	Description string
	// Priority orders siblings for display, lowest first
	Priority    int
	ImageSource string
	ImageType   types.ImageType
	// Permission is generated from the id when left empty
	Permission string
	// Hidden entities are only visible to actors holding Permission
	Hidden bool
}

// entity carries the Attributes for both container variants
type entity struct {
	attrs Attributes
}

func (e *entity) ID() string                 { return e.attrs.ID }
func (e *entity) Name() string               { return e.attrs.Name }
func (e *entity) Description() string        { return e.attrs.Description }
func (e *entity) Priority() int              { return e.attrs.Priority }
func (e *entity) ImageSource() string        { return e.attrs.ImageSource }
func (e *entity) ImageType() types.ImageType { return e.attrs.ImageType }
func (e *entity) Permission() string         { return e.attrs.Permission }
func (e *entity) Hidden() bool               { return e.attrs.Hidden }

// Attributes returns a copy of the entity's metadata, the starting point
// for building an edited replacement.
func (e *entity) Attributes() Attributes { return e.attrs }

// writeAttributes emits the shared fields in document order
func (e *entity) writeAttributes(obj *types.Object) {
	obj.Set("name", e.attrs.Name)
	obj.Set("description", e.attrs.Description)
	obj.Set("priority", e.attrs.Priority)
	obj.Set("image_source", e.attrs.ImageSource)
	obj.Set("image_type", e.attrs.ImageType.String())
	obj.Set("hidden", e.attrs.Hidden)
	obj.Set("permission", e.attrs.Permission)
}

// readAttributes validates the shared fields of a category or sub-category
// record. Any failure here is fatal for the entity.
func readAttributes(id string, record *types.Object) (Attributes, error) {
	if err := validation.RequireKeys(record, "name", "description", "priority", "permission", "hidden"); err != nil {
		return Attributes{}, err
	}

	attrs := Attributes{ID: id}
	var err error
	if attrs.Name, err = validation.RequireString("name", record); err != nil {
		return Attributes{}, err
	}
	if attrs.Description, err = validation.RequireString("description", record); err != nil {
		return Attributes{}, err
	}
	if attrs.Priority, err = validation.RequireInt("priority", record); err != nil {
		return Attributes{}, err
	}
	if attrs.Permission, err = validation.RequireString("permission", record); err != nil {
		return Attributes{}, err
	}
	if attrs.Hidden, err = validation.RequireBool("hidden", record); err != nil {
		return Attributes{}, err
	}
	if attrs.ImageSource, attrs.ImageType, err = readImage(record); err != nil {
		return Attributes{}, err
	}
	return attrs, nil
}

// readImage reads the optional image_source/image_type pair
func readImage(record *types.Object) (string, types.ImageType, error) {
	source, _, err := validation.OptionalString("image_source", record)
	if err != nil {
		return "", types.ImageTypePath, err
	}

	raw, ok, err := validation.OptionalString("image_type", record)
	if err != nil {
		return "", types.ImageTypePath, err
	}
	if !ok {
		return source, types.ImageTypePath, nil
	}
	imageType, ok := types.ParseImageType(raw)
	if !ok {
		return "", types.ImageTypePath, &ImageTypeError{Value: raw}
	}
	return source, imageType, nil
}
