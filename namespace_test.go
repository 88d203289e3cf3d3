package graft_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/graftkit/graft"
)

func TestNamespace(t *testing.T) {
	t.Parallel()

	t.Run("LazyBuildReflectsInstalledRecords", func(t *testing.T) {
		t.Parallel()
		engine := graft.New(newTestRegistry(t))
		model := newModel("Model")

		require.NoError(t, engine.Install(model, "partition", "orm_x", nil))
		require.NoError(t, engine.Uninstall(model, "audit"))

		// The namespace reflects the records as they stand now, not as they
		// stood at install time.
		ns := engine.Namespace(model)
		assert.Same(t, model, ns.Class())
		assert.Equal(t, []string{"partition"}, ns.Names())
		assert.True(t, ns.Has("partition"))
		assert.False(t, ns.Has("audit"))
	})

	t.Run("InstallAfterBuildUpdatesEntryInPlace", func(t *testing.T) {
		t.Parallel()
		engine := graft.New(newTestRegistry(t))
		model := newModel("Model")

		require.NoError(t, engine.Install(model, "audit", "orm_x", nil))
		ns := engine.Namespace(model)
		audit, err := ns.Get("audit")
		require.NoError(t, err)

		require.NoError(t, engine.Install(model, "partition", "orm_x", nil))

		// Same cache entry, and the instance handed out earlier is still the
		// one the namespace serves.
		assert.Same(t, ns, engine.Namespace(model))
		assert.Equal(t, []string{"audit", "partition"}, ns.Names())

		again, err := ns.Get("audit")
		require.NoError(t, err)
		assert.Same(t, audit, again)
	})

	t.Run("UninstallAfterBuildRemovesEntryInPlace", func(t *testing.T) {
		t.Parallel()
		engine := graft.New(newTestRegistry(t))
		model := newModel("Model")

		require.NoError(t, engine.Install(model, "partition", "orm_x", nil))
		ns := engine.Namespace(model)
		require.Equal(t, []string{"audit", "partition"}, ns.Names())

		require.NoError(t, engine.Uninstall(model, "partition"))

		assert.Same(t, ns, engine.Namespace(model))
		assert.Empty(t, ns.Names())

		_, err := ns.Get("partition")
		require.ErrorIs(t, err, graft.ErrFeatureNotInstalled)
	})
}
