package permission_test

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/simpleshop/catalog"
	"github.com/arthur-debert/simpleshop/metrics"
	"github.com/arthur-debert/simpleshop/permission"
)

func blocksCategory(t *testing.T) *catalog.Category {
	t.Helper()
	cat, err := catalog.NewCategory(catalog.Attributes{Name: "Blocks"})
	require.NoError(t, err)
	sub, err := catalog.NewSubCategory(cat.ID(), catalog.Attributes{Name: "Wooden Blocks"})
	require.NoError(t, err)
	_, err = cat.AddSubCategory(sub)
	require.NoError(t, err)
	return cat
}

func TestMemoryRegistry(t *testing.T) {
	t.Run("register is idempotent", func(t *testing.T) {
		reg := permission.NewMemoryRegistry()
		require.NoError(t, reg.Register("a", "first"))
		require.NoError(t, reg.Register("a", "second"))

		desc, ok := reg.Description("a")
		assert.True(t, ok)
		assert.Equal(t, "first", desc)
		assert.Equal(t, []string{"a"}, reg.IDs())
	})

	t.Run("deregister detaches from parents", func(t *testing.T) {
		reg := permission.NewMemoryRegistry()
		require.NoError(t, reg.Register("parent", ""))
		require.NoError(t, reg.Register("child", ""))
		require.NoError(t, reg.AttachChild("parent", "child"))
		assert.Equal(t, []string{"child"}, reg.Children("parent"))

		require.NoError(t, reg.Deregister("child"))
		assert.False(t, reg.Exists("child"))
		assert.Empty(t, reg.Children("parent"))
	})

	t.Run("attach to unknown parent fails", func(t *testing.T) {
		reg := permission.NewMemoryRegistry()
		assert.Error(t, reg.AttachChild("missing", "child"))
	})

	t.Run("actor inherits attached children", func(t *testing.T) {
		reg := permission.NewMemoryRegistry()
		require.NoError(t, reg.Register("root", ""))
		require.NoError(t, reg.Register("mid", ""))
		require.NoError(t, reg.Register("leaf", ""))
		require.NoError(t, reg.AttachChild("root", "mid"))
		require.NoError(t, reg.AttachChild("mid", "leaf"))

		actor := reg.Actor("root")
		assert.True(t, actor.HasPermission("leaf"))

		actor = reg.Actor("mid")
		assert.False(t, actor.HasPermission("root"))
		assert.True(t, actor.HasPermission("leaf"))
	})
}

func TestRegistrar(t *testing.T) {
	t.Run("sync registers category and sub-categories", func(t *testing.T) {
		reg := permission.NewMemoryRegistry()
		r := permission.NewRegistrar(reg, nil, nil)
		require.NoError(t, r.EnsureBase())

		cat := blocksCategory(t)
		require.NoError(t, r.SyncCategory(cat))

		assert.True(t, reg.Exists("simpleshop.category.blocks"))
		assert.True(t, reg.Exists("simpleshop.subcategory.blocks.wooden_blocks"))
		assert.Equal(t, []string{"simpleshop.category.blocks", "simpleshop.subcategory.blocks.wooden_blocks"},
			reg.Children(catalog.BasePermission))
		assert.Equal(t, []string{"simpleshop.subcategory.blocks.wooden_blocks"},
			reg.Children("simpleshop.category.blocks"))

		desc, _ := reg.Description("simpleshop.category.blocks")
		assert.Equal(t, "Allows access to category: Blocks", desc)
	})

	t.Run("sync twice is a no-op", func(t *testing.T) {
		reg := permission.NewMemoryRegistry()
		promReg := prometheus.NewRegistry()
		m := metrics.New(promReg)
		r := permission.NewRegistrar(reg, nil, m)

		cat := blocksCategory(t)
		require.NoError(t, r.SyncCategory(cat))
		require.NoError(t, r.SyncCategory(cat))

		assert.Equal(t, float64(2), testutil.ToFloat64(m.PermissionChanges.WithLabelValues("register")))
	})

	t.Run("works without a base node", func(t *testing.T) {
		reg := permission.NewMemoryRegistry()
		r := permission.NewRegistrar(reg, nil, nil)
		require.NoError(t, r.SyncCategory(blocksCategory(t)))
		assert.True(t, reg.Exists("simpleshop.category.blocks"))
	})

	t.Run("revoke skips unknown permissions", func(t *testing.T) {
		reg := permission.NewMemoryRegistry()
		r := permission.NewRegistrar(reg, nil, nil)
		cat := blocksCategory(t)
		require.NoError(t, r.SyncCategory(cat))

		require.NoError(t, r.Revoke(append(permission.CategoryPermissions(cat), "never.registered")...))
		assert.Empty(t, reg.IDs())
	})

	t.Run("registry errors are wrapped", func(t *testing.T) {
		r := permission.NewRegistrar(failingRegistry{}, nil, nil)
		err := r.SyncCategory(blocksCategory(t))
		assert.ErrorIs(t, err, errRegistryDown)
	})
}

func TestGrants(t *testing.T) {
	g := permission.NewGrants("p")
	assert.True(t, g.HasPermission("p"))
	assert.False(t, g.HasPermission("q"))

	f := permission.ActorFunc(func(id string) bool { return id == "q" })
	assert.True(t, f.HasPermission("q"))
}

var errRegistryDown = errors.New("registry down")

type failingRegistry struct{}

func (failingRegistry) Register(string, string) error    { return errRegistryDown }
func (failingRegistry) Deregister(string) error          { return errRegistryDown }
func (failingRegistry) Exists(string) bool               { return false }
func (failingRegistry) AttachChild(string, string) error { return errRegistryDown }
