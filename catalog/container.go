// Package catalog models the shop tree: top-level categories, their
// sub-categories, and the items both of them hold.
//
// Entities are plain in-memory values with no I/O. Persistence and
// permission bookkeeping belong to the owner of the tree (shop.Manager),
// which wraps every mutation.
package catalog

import (
	"fmt"
	"strings"

	"github.com/arthur-debert/simpleshop/internal/validation"
	"github.com/arthur-debert/simpleshop/types"
)

// Container is the behaviour shared by Category and SubCategory
type Container interface {
	ID() string
	Name() string
	Description() string
	Priority() int
	ImageSource() string
	ImageType() types.ImageType
	Permission() string
	Hidden() bool
	Attributes() Attributes

	// AddItem inserts item, replacing any item with the same id
	AddItem(item *Item)
	// RemoveItem reports whether an item was removed
	RemoveItem(id string) bool
	GetItem(id string) (*Item, bool)
	// Items returns the items in insertion order
	Items() []*Item

	ToRecord() *types.Object
}

var (
	_ Container = (*Category)(nil)
	_ Container = (*SubCategory)(nil)
)

// Ref addresses an item container: a category, or a sub-category inside it
// when SubCategoryID is set.
type Ref struct {
	CategoryID    string
	SubCategoryID string
}

// ParseRef parses "category" or "category/sub"
func ParseRef(s string) (Ref, error) {
	cat, sub, hasSub := strings.Cut(s, "/")
	if cat == "" || (hasSub && sub == "") {
		return Ref{}, fmt.Errorf("invalid container reference %q: expected category or category/sub-category", s)
	}
	return Ref{CategoryID: cat, SubCategoryID: sub}, nil
}

// String formats the ref the way ParseRef reads it
func (r Ref) String() string {
	if r.SubCategoryID == "" {
		return r.CategoryID
	}
	return r.CategoryID + "/" + r.SubCategoryID
}

// Decoder rebuilds entities from document records. Nested items and
// sub-categories that fail to load are dropped rather than failing their
// parent; OnSkip, when set, is told about each of them.
type Decoder struct {
	Codec  Codec
	OnSkip func(path string, err error)
}

func (d Decoder) skip(path string, err error) {
	if d.OnSkip != nil {
		d.OnSkip(path, err)
	}
}

// Item rebuilds a single item
func (d Decoder) Item(id string, record *types.Object) (*Item, error) {
	return ItemFromRecord(d.Codec, id, record)
}

// loadItems fills add with every well-formed entry of the "items" object
func (d Decoder) loadItems(path string, record *types.Object, add func(*Item)) {
	items, ok := validation.OptionalObject("items", record)
	if !ok {
		if !emptyCollection(record, "items") {
			d.skip(path+"/items", fmt.Errorf("items is not an object"))
		}
		return
	}

	for _, itemID := range items.Keys() {
		raw, _ := items.Get(itemID)
		itemPath := path + "/items/" + itemID
		itemRecord, ok := raw.(*types.Object)
		if !ok {
			d.skip(itemPath, fmt.Errorf("entry is not an object"))
			continue
		}
		item, err := d.Item(itemID, itemRecord)
		if err != nil {
			d.skip(itemPath, err)
			continue
		}
		add(item)
	}
}

// emptyCollection reports whether key is absent, null or an empty list. An
// empty list is how some writers encode an empty object.
func emptyCollection(record *types.Object, key string) bool {
	v, _ := record.Get(key)
	if v == nil {
		return true
	}
	list, ok := v.([]interface{})
	return ok && len(list) == 0
}
