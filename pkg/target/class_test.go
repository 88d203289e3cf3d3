package target_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/graftkit/graft/pkg/target"
)

func staticMethod(result string) target.Method {
	return func(recv any, args ...any) (any, error) {
		return result, nil
	}
}

func TestClass(t *testing.T) {
	t.Parallel()

	t.Run("DefineAndCall", func(t *testing.T) {
		t.Parallel()
		c := target.NewClass("Order")
		c.Define("save", func(recv any, args ...any) (any, error) {
			return []any{recv, args}, nil
		})

		got, err := c.Call("order-1", "save", "fast")
		require.NoError(t, err)
		require.Equal(t, []any{"order-1", []any{"fast"}}, got)
	})

	t.Run("CallUnknownMethod", func(t *testing.T) {
		t.Parallel()
		c := target.NewClass("Order")

		_, err := c.Call(nil, "missing")
		require.Error(t, err)
		require.ErrorIs(t, err, target.ErrUnknownMethod)

		var detail *target.UnknownMethodError
		require.ErrorAs(t, err, &detail)
		assert.Equal(t, "missing", detail.Method)
		assert.Equal(t, "Order", detail.Class)
	})

	t.Run("WithMethods", func(t *testing.T) {
		t.Parallel()
		c := target.NewClass("Order", target.WithMethods(map[string]target.Method{
			"save":   staticMethod("saved"),
			"delete": staticMethod("deleted"),
		}))

		got, err := c.Call(nil, "delete")
		require.NoError(t, err)
		require.Equal(t, "deleted", got)
		assert.Equal(t, []string{"delete", "save"}, c.MethodNames())
	})

	t.Run("InheritedLookup", func(t *testing.T) {
		t.Parallel()
		base := target.NewClass("Base", target.WithMethods(map[string]target.Method{
			"save": staticMethod("base-save"),
		}))
		derived := target.NewClass("Derived", target.WithBase(base))

		require.Equal(t, base, derived.Base())

		got, err := derived.Call(nil, "save")
		require.NoError(t, err)
		require.Equal(t, "base-save", got)
	})

	t.Run("SetSlotShadowsBase", func(t *testing.T) {
		t.Parallel()
		base := target.NewClass("Base", target.WithMethods(map[string]target.Method{
			"save": staticMethod("base-save"),
		}))
		derived := target.NewClass("Derived", target.WithBase(base))

		derived.Define("save", staticMethod("derived-save"))

		got, err := derived.Call(nil, "save")
		require.NoError(t, err)
		assert.Equal(t, "derived-save", got)

		// The base keeps its own implementation.
		got, err = base.Call(nil, "save")
		require.NoError(t, err)
		assert.Equal(t, "base-save", got)
	})

	t.Run("MethodNamesDeduplicated", func(t *testing.T) {
		t.Parallel()
		base := target.NewClass("Base", target.WithMethods(map[string]target.Method{
			"save":  staticMethod("base-save"),
			"touch": staticMethod("base-touch"),
		}))
		derived := target.NewClass("Derived", target.WithBase(base))
		derived.Define("save", staticMethod("derived-save"))
		derived.Define("bulk", staticMethod("bulk"))

		assert.Equal(t, []string{"bulk", "save", "touch"}, derived.MethodNames())
	})

	t.Run("SlotIntercepted", func(t *testing.T) {
		t.Parallel()
		c := target.NewClass("Order")
		c.Define("save", staticMethod("saved"))

		s, ok := c.Slot("save")
		require.True(t, ok)
		assert.False(t, s.Intercepted())

		c.SetSlot("save", target.Slot{Method: staticMethod("wrapped"), Pristine: s.Method})
		s, ok = c.Slot("save")
		require.True(t, ok)
		assert.True(t, s.Intercepted())

		_, ok = c.Slot("missing")
		assert.False(t, ok)
	})
}
