// Package testutil provides a shared shop fixture for tests: a realistic
// catalog document covering visible, hidden, prioritised and malformed
// entries.
package testutil

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/arthur-debert/simpleshop/catalog"
	"github.com/arthur-debert/simpleshop/permission"
	"github.com/arthur-debert/simpleshop/shop"
)

// ShopData provides typed access to the fixture's entities
type ShopData struct {
	// Top-level categories, in document order
	Blocks *catalog.Category // priority 1, two items, two sub-categories
	Tools  *catalog.Category // priority 1, url image, list-encoded sub_categories
	VIP    *catalog.Category // hidden, custom permission "shop.vip"
	Food   *catalog.Category // priority 5, two malformed items, one malformed sub-category

	// Sub-categories of Blocks
	WoodenBlocks *catalog.SubCategory // priority 2
	Glass        *catalog.SubCategory // priority 1, hidden, list-encoded items

	// Registry the manager was synced to
	Registry *permission.MemoryRegistry

	// Path of the temporary copy of the document
	Path string
}

// FixturePath returns the path of the pristine fixture document
func FixturePath() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "testdata", "shop.json")
}

// LoadShop copies the fixture document to a temporary directory and opens a
// manager on it. opts are applied after the fixture's registry.
func LoadShop(t *testing.T, opts ...shop.Option) (*shop.Manager, *ShopData) {
	t.Helper()

	data, err := os.ReadFile(FixturePath())
	if err != nil {
		t.Fatalf("failed to read fixture file: %v", err)
	}
	path := filepath.Join(t.TempDir(), "shop.json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("failed to copy fixture: %v", err)
	}

	registry := permission.NewMemoryRegistry()
	opts = append([]shop.Option{shop.WithRegistry(registry)}, opts...)
	m, err := shop.New(path, opts...)
	if err != nil {
		t.Fatalf("failed to open fixture shop: %v", err)
	}

	fixture := &ShopData{
		Blocks:   mustCategory(t, m, "blocks"),
		Tools:    mustCategory(t, m, "tools"),
		VIP:      mustCategory(t, m, "vip"),
		Food:     mustCategory(t, m, "food"),
		Registry: registry,
		Path:     path,
	}
	fixture.WoodenBlocks = mustSubCategory(t, fixture.Blocks, "wooden_blocks")
	fixture.Glass = mustSubCategory(t, fixture.Blocks, "glass")
	return m, fixture
}

func mustCategory(t *testing.T, m *shop.Manager, id string) *catalog.Category {
	t.Helper()
	c, ok := m.GetCategory(id)
	if !ok {
		t.Fatalf("fixture category %q not loaded", id)
	}
	return c
}

func mustSubCategory(t *testing.T, c *catalog.Category, id string) *catalog.SubCategory {
	t.Helper()
	sub, ok := c.GetSubCategory(id)
	if !ok {
		t.Fatalf("fixture sub-category %s/%s not loaded", c.ID(), id)
	}
	return sub
}
