// Package shop owns the catalog tree. The Manager loads it from the backing
// document, wraps every mutation so the permission registry and the
// document follow it, and hands out snapshots for reads.
package shop

import (
	"cmp"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/arthur-debert/simpleshop/catalog"
	"github.com/arthur-debert/simpleshop/metrics"
	"github.com/arthur-debert/simpleshop/permission"
	"github.com/arthur-debert/simpleshop/storage"
	"github.com/arthur-debert/simpleshop/types"
)

// Manager is the aggregate root of the catalog. It is safe for concurrent
// use: mutations are serialized and reads return deep copies.
type Manager struct {
	doc       *storage.Document
	docOpts   []storage.DocumentOption
	codec     catalog.Codec
	registry  permission.Registry
	registrar *permission.Registrar
	logger    *slog.Logger
	metrics   *metrics.Metrics

	lockManager *storage.LockManager
	categories  categorySet
	skipped     []SkippedEntry
}

// New loads the document at path and registers the permissions of every
// category it holds. A document that cannot be loaded is returned as a
// *DocumentLoadError.
func New(path string, opts ...Option) (*Manager, error) {
	m := &Manager{
		lockManager: storage.NewLockManager(),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.codec == nil {
		m.codec = catalog.BlobCodec{}
	}
	if m.registry == nil {
		m.registry = permission.NewMemoryRegistry()
	}
	if m.logger == nil {
		m.logger = slog.Default()
	}
	m.doc = storage.NewDocument(path, m.docOpts...)
	m.registrar = permission.NewRegistrar(m.registry, m.logger, m.metrics)

	categories, skipped, err := m.load()
	if err != nil {
		return nil, err
	}
	m.categories = categories
	m.skipped = skipped
	m.metrics.SetCategories(m.categories.len())

	if err := m.syncAll(); err != nil {
		return nil, err
	}

	m.logger.Info("shop loaded", "path", path, "categories", m.categories.len(), "skipped", len(skipped))
	return m, nil
}

// Path returns the backing document's path
func (m *Manager) Path() string {
	return m.doc.Path()
}

// Registry returns the permission registry the catalog is synced to
func (m *Manager) Registry() permission.Registry {
	return m.registry
}

// Skipped lists the nested entries the last load dropped
func (m *Manager) Skipped() []SkippedEntry {
	return storage.Read(m.lockManager, func() []SkippedEntry {
		return slices.Clone(m.skipped)
	})
}

// load reads the document into a fresh tree without touching the manager
func (m *Manager) load() (categorySet, []SkippedEntry, error) {
	start := time.Now()
	path := m.doc.Path()

	obj, err := m.doc.Load()
	if err != nil {
		return categorySet{}, nil, &DocumentLoadError{Path: path, Err: err}
	}

	var skipped []SkippedEntry
	decoder := catalog.Decoder{
		Codec: m.codec,
		OnSkip: func(entry string, err error) {
			m.logger.Warn("skipping malformed entry", "path", path, "entry", entry, "error", err)
			skipped = append(skipped, SkippedEntry{Path: entry, Err: err})
		},
	}

	var set categorySet
	for _, id := range obj.Keys() {
		raw, _ := obj.Get(id)
		record, ok := raw.(*types.Object)
		if !ok {
			decoder.OnSkip(id, fmt.Errorf("entry is not an object"))
			continue
		}
		c, err := decoder.Category(id, record)
		if err != nil {
			return categorySet{}, nil, &DocumentLoadError{Path: path, Err: err}
		}
		set.put(c)
	}

	m.metrics.ObserveLoad(time.Since(start))
	return set, skipped, nil
}

// syncAll is the start-of-day permission sync
func (m *Manager) syncAll() error {
	if err := m.registrar.EnsureBase(); err != nil {
		return err
	}
	for _, c := range m.categories.list() {
		if err := m.registrar.SyncCategory(c); err != nil {
			return err
		}
	}
	return nil
}

// Reload replaces the tree with the document's current content. On failure
// the tree is left as it was.
func (m *Manager) Reload() error {
	return m.lockManager.Execute(storage.WriteOperation, func() error {
		categories, skipped, err := m.load()
		if err != nil {
			return err
		}
		previous := m.livePermissions()

		m.categories = categories
		m.skipped = skipped
		m.metrics.SetCategories(m.categories.len())
		if err := m.syncAll(); err != nil {
			return err
		}
		return m.revokeStale(previous)
	})
}

// Save writes every category to the document, replacing its content
func (m *Manager) Save() error {
	return m.lockManager.Execute(storage.WriteOperation, m.save)
}

func (m *Manager) save() error {
	obj := types.NewObject()
	for _, c := range m.categories.list() {
		obj.Set(c.ID(), c.ToRecord())
	}

	err := m.doc.Save(obj)
	m.metrics.ObserveSave(err)
	if err != nil {
		m.logger.Error("failed to save shop", "path", m.doc.Path(), "error", err)
		return fmt.Errorf("failed to save shop: %w", err)
	}
	m.metrics.SetCategories(m.categories.len())
	m.logger.Debug("shop saved", "path", m.doc.Path(), "categories", m.categories.len())
	return nil
}

// mutate runs fn against the live tree and persists the result. When fn or
// the save fails, the tree and the registry are put back as they were.
func (m *Manager) mutate(fn func() error) error {
	return m.lockManager.Execute(storage.WriteOperation, func() error {
		snapshot := m.categories.clone()
		err := fn()
		if err == nil {
			err = m.save()
		}
		if err != nil {
			m.rollback(snapshot)
		}
		return err
	})
}

// rollback restores snapshot as the live tree and brings the registry back
// in line with it
func (m *Manager) rollback(snapshot categorySet) {
	current := m.livePermissions()
	m.categories = snapshot
	m.metrics.SetCategories(m.categories.len())
	if err := m.syncAll(); err != nil {
		m.logger.Error("failed to restore permissions", "error", err)
	}
	if err := m.revokeStale(current); err != nil {
		m.logger.Error("failed to revoke permissions", "error", err)
	}
}

// livePermissions returns every permission the tree currently holds
func (m *Manager) livePermissions() map[string]bool {
	live := make(map[string]bool)
	for _, c := range m.categories.list() {
		for _, id := range permission.CategoryPermissions(c) {
			live[id] = true
		}
	}
	return live
}

// revokeStale deregisters permissions that were held before a mutation and
// no entity holds any more. A permission string shared by several entities
// stays registered until the last of them goes.
func (m *Manager) revokeStale(previous map[string]bool) error {
	live := m.livePermissions()
	var stale []string
	for id := range previous {
		if !live[id] {
			stale = append(stale, id)
		}
	}
	slices.Sort(stale)
	return m.registrar.Revoke(stale...)
}

// AddCategory inserts c, replacing any category with the same id, registers
// its permissions and persists. Replacing is how a category is edited.
func (m *Manager) AddCategory(c *catalog.Category) error {
	if c == nil {
		return fmt.Errorf("category cannot be nil")
	}
	return m.mutate(func() error {
		previous := m.livePermissions()
		if err := m.registrar.SyncCategory(c); err != nil {
			return err
		}

		replaced := m.categories.put(c.Clone())
		m.logger.Info("category added", "category", c.ID(), "replaced", replaced)

		return m.revokeStale(previous)
	})
}

// RemoveCategory removes the category with the given id and deregisters its
// permissions and those of its sub-categories. The document is written even
// when no such category exists.
func (m *Manager) RemoveCategory(id string) error {
	return m.mutate(func() error {
		previous := m.livePermissions()
		if _, ok := m.categories.remove(id); ok {
			m.logger.Info("category removed", "category", id)
			return m.revokeStale(previous)
		}
		return nil
	})
}

// GetCategory returns a copy of the category with the given id
func (m *Manager) GetCategory(id string) (*catalog.Category, bool) {
	c := storage.Read(m.lockManager, func() *catalog.Category {
		c, ok := m.categories.get(id)
		if !ok {
			return nil
		}
		return c.Clone()
	})
	return c, c != nil
}

// Categories returns copies of every category in insertion order
func (m *Manager) Categories() []*catalog.Category {
	return storage.Read(m.lockManager, func() []*catalog.Category {
		list := m.categories.list()
		out := make([]*catalog.Category, len(list))
		for i, c := range list {
			out[i] = c.Clone()
		}
		return out
	})
}

// visible reports whether actor may see an entity. A nil actor holds no
// permissions.
func visible(hidden bool, perm string, actor permission.Actor) bool {
	return !hidden || (actor != nil && actor.HasPermission(perm))
}

// VisibleCategories returns the categories that are not hidden or whose
// permission actor holds, in insertion order
func (m *Manager) VisibleCategories(actor permission.Actor) []*catalog.Category {
	var out []*catalog.Category
	for _, c := range m.Categories() {
		if visible(c.Hidden(), c.Permission(), actor) {
			out = append(out, c)
		}
	}
	return out
}

// SortedCategories returns VisibleCategories ordered by ascending priority.
// Categories with equal priority keep their insertion order.
func (m *Manager) SortedCategories(actor permission.Actor) []*catalog.Category {
	out := m.VisibleCategories(actor)
	slices.SortStableFunc(out, func(a, b *catalog.Category) int {
		return cmp.Compare(a.Priority(), b.Priority())
	})
	return out
}

// VisibleSubCategories returns the sub-categories of categoryID that actor
// may see, in insertion order
func (m *Manager) VisibleSubCategories(categoryID string, actor permission.Actor) ([]*catalog.SubCategory, error) {
	c, ok := m.GetCategory(categoryID)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrCategoryNotFound, categoryID)
	}
	var out []*catalog.SubCategory
	for _, sub := range c.SubCategories() {
		if visible(sub.Hidden(), sub.Permission(), actor) {
			out = append(out, sub)
		}
	}
	return out, nil
}

// SortedSubCategories returns VisibleSubCategories ordered by ascending
// priority, ties in insertion order
func (m *Manager) SortedSubCategories(categoryID string, actor permission.Actor) ([]*catalog.SubCategory, error) {
	out, err := m.VisibleSubCategories(categoryID, actor)
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(out, func(a, b *catalog.SubCategory) int {
		return cmp.Compare(a.Priority(), b.Priority())
	})
	return out, nil
}

// AddSubCategory inserts sub into the category categoryID, replacing any
// sub-category with the same id, registers its permission and persists
func (m *Manager) AddSubCategory(categoryID string, sub *catalog.SubCategory) error {
	if sub == nil {
		return fmt.Errorf("sub-category cannot be nil")
	}
	return m.mutate(func() error {
		c, ok := m.categories.get(categoryID)
		if !ok {
			return fmt.Errorf("%w: %q", ErrCategoryNotFound, categoryID)
		}
		if sub.ParentID() != c.ID() {
			return fmt.Errorf("%w: %q is for %q, not %q", catalog.ErrParentMismatch, sub.ID(), sub.ParentID(), c.ID())
		}

		previous := m.livePermissions()
		if err := m.registrar.SyncSubCategory(c, sub); err != nil {
			return err
		}
		if _, err := c.AddSubCategory(sub.Clone()); err != nil {
			return err
		}
		m.logger.Info("sub-category added", "category", categoryID, "subcategory", sub.ID())

		return m.revokeStale(previous)
	})
}

// RemoveSubCategory removes a sub-category and deregisters its permission.
// The document is written even when the sub-category does not exist.
func (m *Manager) RemoveSubCategory(categoryID, subCategoryID string) error {
	return m.mutate(func() error {
		c, ok := m.categories.get(categoryID)
		if !ok {
			return fmt.Errorf("%w: %q", ErrCategoryNotFound, categoryID)
		}

		previous := m.livePermissions()
		if _, ok := c.RemoveSubCategory(subCategoryID); ok {
			m.logger.Info("sub-category removed", "category", categoryID, "subcategory", subCategoryID)
			return m.revokeStale(previous)
		}
		return nil
	})
}

// container resolves ref against the live tree
func (m *Manager) container(ref catalog.Ref) (catalog.Container, error) {
	c, ok := m.categories.get(ref.CategoryID)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrCategoryNotFound, ref.CategoryID)
	}
	container, ok := c.GetContainer(ref.SubCategoryID)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrSubCategoryNotFound, ref.String())
	}
	return container, nil
}

// GetContainer returns a copy of the container ref addresses
func (m *Manager) GetContainer(ref catalog.Ref) (catalog.Container, error) {
	c, ok := m.GetCategory(ref.CategoryID)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrCategoryNotFound, ref.CategoryID)
	}
	container, ok := c.GetContainer(ref.SubCategoryID)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrSubCategoryNotFound, ref.String())
	}
	return container, nil
}

// AddItem inserts item into the container ref addresses, replacing any item
// with the same id there, and persists
func (m *Manager) AddItem(ref catalog.Ref, item *catalog.Item) error {
	if item == nil {
		return fmt.Errorf("item cannot be nil")
	}
	return m.mutate(func() error {
		container, err := m.container(ref)
		if err != nil {
			return err
		}
		container.AddItem(item)
		m.logger.Info("item added", "container", ref.String(), "item", item.ID())
		return nil
	})
}

// RemoveItem removes an item from the container ref addresses. The document
// is written even when the item does not exist.
func (m *Manager) RemoveItem(ref catalog.Ref, itemID string) error {
	return m.mutate(func() error {
		container, err := m.container(ref)
		if err != nil {
			return err
		}
		if container.RemoveItem(itemID) {
			m.logger.Info("item removed", "container", ref.String(), "item", itemID)
		}
		return nil
	})
}

// ReplaceItem removes the item oldID and adds item in one write. The new
// item goes to the end of the container's order.
func (m *Manager) ReplaceItem(ref catalog.Ref, oldID string, item *catalog.Item) error {
	if item == nil {
		return fmt.Errorf("item cannot be nil")
	}
	return m.mutate(func() error {
		container, err := m.container(ref)
		if err != nil {
			return err
		}
		container.RemoveItem(oldID)
		container.AddItem(item)
		m.logger.Info("item replaced", "container", ref.String(), "old", oldID, "item", item.ID())
		return nil
	})
}

// categorySet holds the top-level categories keyed by id in insertion order
type categorySet struct {
	order []string
	byID  map[string]*catalog.Category
}

// put inserts c. A replaced category keeps its position.
func (s *categorySet) put(c *catalog.Category) (replaced bool) {
	if s.byID == nil {
		s.byID = make(map[string]*catalog.Category)
	}
	if _, replaced = s.byID[c.ID()]; !replaced {
		s.order = append(s.order, c.ID())
	}
	s.byID[c.ID()] = c
	return replaced
}

func (s *categorySet) remove(id string) (*catalog.Category, bool) {
	c, ok := s.byID[id]
	if !ok {
		return nil, false
	}
	delete(s.byID, id)
	s.order = slices.DeleteFunc(s.order, func(k string) bool { return k == id })
	return c, true
}

func (s *categorySet) get(id string) (*catalog.Category, bool) {
	c, ok := s.byID[id]
	return c, ok
}

func (s *categorySet) list() []*catalog.Category {
	out := make([]*catalog.Category, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.byID[id])
	}
	return out
}

// clone deep copies every category
func (s *categorySet) clone() categorySet {
	out := categorySet{
		order: slices.Clone(s.order),
		byID:  make(map[string]*catalog.Category, len(s.byID)),
	}
	for id, c := range s.byID {
		out.byID[id] = c.Clone()
	}
	return out
}

func (s *categorySet) len() int {
	return len(s.order)
}
