package catalog

import (
	"fmt"

	"github.com/arthur-debert/simpleshop/internal/validation"
	"github.com/arthur-debert/simpleshop/types"
)

// Category is a top-level container holding items and sub-categories
type Category struct {
	entity
	items         keyedSet[*Item]
	subCategories keyedSet[*SubCategory]
}

// NewCategory builds an empty category. The id is derived from the name and
// the permission generated from the id when they are left empty.
func NewCategory(attrs Attributes) (*Category, error) {
	if attrs.ID == "" {
		attrs.ID = DeriveID(attrs.Name)
	}
	if attrs.ID == "" {
		return nil, ErrEmptyID
	}
	if attrs.Permission == "" {
		attrs.Permission = CategoryPermission(attrs.ID)
	}
	return &Category{entity: entity{attrs: attrs}}, nil
}

// CategoryFromRecord rebuilds a category and everything below it
func CategoryFromRecord(codec Codec, id string, record *types.Object) (*Category, error) {
	return Decoder{Codec: codec}.Category(id, record)
}

// Category rebuilds a category and everything below it. Only the category's
// own fields can fail the call.
func (d Decoder) Category(id string, record *types.Object) (*Category, error) {
	attrs, err := readAttributes(id, record)
	if err != nil {
		return nil, &ConstructionError{Kind: KindCategory, ID: id, Err: err}
	}

	c := &Category{entity: entity{attrs: attrs}}
	d.loadItems(id, record, func(item *Item) { c.items.put(item.ID(), item) })

	subs, ok := validation.OptionalObject("sub_categories", record)
	if !ok {
		if !emptyCollection(record, "sub_categories") {
			d.skip(id+"/sub_categories", fmt.Errorf("sub_categories is not an object"))
		}
		return c, nil
	}
	for _, subID := range subs.Keys() {
		raw, _ := subs.Get(subID)
		subRecord, ok := raw.(*types.Object)
		if !ok {
			d.skip(id+"/"+subID, fmt.Errorf("entry is not an object"))
			continue
		}
		sub, err := d.SubCategory(id, subID, subRecord)
		if err != nil {
			d.skip(id+"/"+subID, err)
			continue
		}
		c.subCategories.put(subID, sub)
	}
	return c, nil
}

// AddItem implements Container
func (c *Category) AddItem(item *Item) {
	c.items.put(item.ID(), item)
}

// RemoveItem implements Container
func (c *Category) RemoveItem(id string) bool {
	_, ok := c.items.remove(id)
	return ok
}

// GetItem implements Container
func (c *Category) GetItem(id string) (*Item, bool) {
	return c.items.get(id)
}

// Items implements Container
func (c *Category) Items() []*Item {
	return c.items.list()
}

// AddSubCategory inserts sub, replacing any sub-category with the same id.
// The replaced sub-category, if any, is returned.
func (c *Category) AddSubCategory(sub *SubCategory) (*SubCategory, error) {
	if sub.ParentID() != c.ID() {
		return nil, fmt.Errorf("%w: %q is for %q, not %q", ErrParentMismatch, sub.ID(), sub.ParentID(), c.ID())
	}
	previous, _ := c.subCategories.get(sub.ID())
	c.subCategories.put(sub.ID(), sub)
	return previous, nil
}

// RemoveSubCategory removes and returns the sub-category with the given id
func (c *Category) RemoveSubCategory(id string) (*SubCategory, bool) {
	return c.subCategories.remove(id)
}

// GetSubCategory returns the sub-category with the given id
func (c *Category) GetSubCategory(id string) (*SubCategory, bool) {
	return c.subCategories.get(id)
}

// SubCategories returns the sub-categories in insertion order
func (c *Category) SubCategories() []*SubCategory {
	return c.subCategories.list()
}

// GetContainer resolves a ref relative to this category. An empty
// sub-category id addresses the category itself.
func (c *Category) GetContainer(subCategoryID string) (Container, bool) {
	if subCategoryID == "" {
		return c, true
	}
	sub, ok := c.subCategories.get(subCategoryID)
	if !ok {
		return nil, false
	}
	return sub, true
}

// WithAttributes returns a replacement category carrying attrs and the
// current children. The id never changes; an empty permission is
// regenerated from it.
func (c *Category) WithAttributes(attrs Attributes) *Category {
	attrs.ID = c.ID()
	if attrs.Permission == "" {
		attrs.Permission = CategoryPermission(attrs.ID)
	}
	clone := c.Clone()
	clone.attrs = attrs
	return clone
}

// Clone returns a deep copy. Items are immutable and shared.
func (c *Category) Clone() *Category {
	return &Category{
		entity:        c.entity,
		items:         c.items.clone(func(i *Item) *Item { return i }),
		subCategories: c.subCategories.clone(func(s *SubCategory) *SubCategory { return s.Clone() }),
	}
}

// ToRecord implements Container
func (c *Category) ToRecord() *types.Object {
	obj := types.NewObject()
	c.writeAttributes(obj)

	items := types.NewObject()
	for _, item := range c.items.list() {
		items.Set(item.ID(), item.ToRecord())
	}
	obj.Set("items", items)

	subs := types.NewObject()
	for _, sub := range c.subCategories.list() {
		subs.Set(sub.ID(), sub.ToRecord())
	}
	obj.Set("sub_categories", subs)
	return obj
}
