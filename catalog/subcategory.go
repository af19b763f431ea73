package catalog

import (
	"github.com/arthur-debert/simpleshop/types"
)

// SubCategory is a container nested in a Category. It refers back to its
// parent by id only; the parent owns it.
type SubCategory struct {
	entity
	parentID string
	items    keyedSet[*Item]
}

// NewSubCategory builds an empty sub-category of the category parentID. The
// id is derived from the name and the permission generated from both ids
// when they are left empty.
func NewSubCategory(parentID string, attrs Attributes) (*SubCategory, error) {
	if parentID == "" {
		return nil, ErrEmptyID
	}
	if attrs.ID == "" {
		attrs.ID = DeriveID(attrs.Name)
	}
	if attrs.ID == "" {
		return nil, ErrEmptyID
	}
	if attrs.Permission == "" {
		attrs.Permission = SubCategoryPermission(parentID, attrs.ID)
	}
	return &SubCategory{entity: entity{attrs: attrs}, parentID: parentID}, nil
}

// SubCategoryFromRecord rebuilds a sub-category of parentID
func SubCategoryFromRecord(codec Codec, parentID, id string, record *types.Object) (*SubCategory, error) {
	return Decoder{Codec: codec}.SubCategory(parentID, id, record)
}

// SubCategory rebuilds a sub-category of parentID and its items
func (d Decoder) SubCategory(parentID, id string, record *types.Object) (*SubCategory, error) {
	attrs, err := readAttributes(id, record)
	if err != nil {
		return nil, &ConstructionError{Kind: KindSubCategory, ID: id, Err: err}
	}

	sub := &SubCategory{entity: entity{attrs: attrs}, parentID: parentID}
	d.loadItems(parentID+"/"+id, record, func(item *Item) { sub.items.put(item.ID(), item) })
	return sub, nil
}

// ParentID returns the id of the owning category
func (s *SubCategory) ParentID() string {
	return s.parentID
}

// Ref returns the container ref addressing this sub-category
func (s *SubCategory) Ref() Ref {
	return Ref{CategoryID: s.parentID, SubCategoryID: s.ID()}
}

// AddItem implements Container
func (s *SubCategory) AddItem(item *Item) {
	s.items.put(item.ID(), item)
}

// RemoveItem implements Container
func (s *SubCategory) RemoveItem(id string) bool {
	_, ok := s.items.remove(id)
	return ok
}

// GetItem implements Container
func (s *SubCategory) GetItem(id string) (*Item, bool) {
	return s.items.get(id)
}

// Items implements Container
func (s *SubCategory) Items() []*Item {
	return s.items.list()
}

// WithAttributes returns a replacement sub-category carrying attrs and the
// current items. The id and parent never change.
func (s *SubCategory) WithAttributes(attrs Attributes) *SubCategory {
	attrs.ID = s.ID()
	if attrs.Permission == "" {
		attrs.Permission = SubCategoryPermission(s.parentID, attrs.ID)
	}
	clone := s.Clone()
	clone.attrs = attrs
	return clone
}

// Clone returns a deep copy
func (s *SubCategory) Clone() *SubCategory {
	return &SubCategory{
		entity:   s.entity,
		parentID: s.parentID,
		items:    s.items.clone(func(i *Item) *Item { return i }),
	}
}

// ToRecord implements Container
func (s *SubCategory) ToRecord() *types.Object {
	obj := types.NewObject()
	s.writeAttributes(obj)

	items := types.NewObject()
	for _, item := range s.items.list() {
		items.Set(item.ID(), item.ToRecord())
	}
	obj.Set("items", items)
	return obj
}
