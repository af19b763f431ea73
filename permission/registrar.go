package permission

import (
	"fmt"
	"log/slog"

	"github.com/arthur-debert/simpleshop/catalog"
	"github.com/arthur-debert/simpleshop/metrics"
)

// Registrar derives permissions from catalog entities and publishes them to
// a Registry. Every operation is idempotent.
type Registrar struct {
	registry Registry
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

// NewRegistrar creates a registrar. logger and m may be nil.
func NewRegistrar(registry Registry, logger *slog.Logger, m *metrics.Metrics) *Registrar {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registrar{registry: registry, logger: logger, metrics: m}
}

// EnsureBase registers the base node every category permission hangs under
func (r *Registrar) EnsureBase() error {
	return r.register(catalog.BasePermission, "Allows access to all shop categories")
}

func (r *Registrar) register(id, description string) error {
	if r.registry.Exists(id) {
		return nil
	}
	if err := r.registry.Register(id, description); err != nil {
		return fmt.Errorf("failed to register permission %q: %w", id, err)
	}
	r.metrics.PermissionChanged("register")
	r.logger.Debug("permission registered", "permission", id)
	return nil
}

func (r *Registrar) attach(parentID, childID string) error {
	if !r.registry.Exists(parentID) {
		return nil
	}
	if err := r.registry.AttachChild(parentID, childID); err != nil {
		return fmt.Errorf("failed to attach %q to %q: %w", childID, parentID, err)
	}
	return nil
}

// SyncCategory registers a category's permission and those of all its
// sub-categories.
func (r *Registrar) SyncCategory(c *catalog.Category) error {
	id := c.Permission()
	if err := r.register(id, "Allows access to category: "+c.Name()); err != nil {
		return err
	}
	if err := r.attach(catalog.BasePermission, id); err != nil {
		return err
	}

	for _, sub := range c.SubCategories() {
		if err := r.SyncSubCategory(c, sub); err != nil {
			return err
		}
	}
	return nil
}

// SyncSubCategory registers a single sub-category's permission under both
// its category's node and the base node.
func (r *Registrar) SyncSubCategory(parent *catalog.Category, sub *catalog.SubCategory) error {
	id := sub.Permission()
	if err := r.register(id, "Allows access to subcategory: "+sub.Name()); err != nil {
		return err
	}
	if err := r.attach(parent.Permission(), id); err != nil {
		return err
	}
	return r.attach(catalog.BasePermission, id)
}

// Revoke deregisters the given permissions, skipping ones that are not
// registered.
func (r *Registrar) Revoke(ids ...string) error {
	for _, id := range ids {
		if !r.registry.Exists(id) {
			continue
		}
		if err := r.registry.Deregister(id); err != nil {
			return fmt.Errorf("failed to deregister permission %q: %w", id, err)
		}
		r.metrics.PermissionChanged("deregister")
		r.logger.Debug("permission deregistered", "permission", id)
	}
	return nil
}

// CategoryPermissions lists the permissions a category and its
// sub-categories hold, category first.
func CategoryPermissions(c *catalog.Category) []string {
	ids := []string{c.Permission()}
	for _, sub := range c.SubCategories() {
		ids = append(ids, sub.Permission())
	}
	return ids
}
