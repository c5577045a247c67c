package ports

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunTermStoreContract runs a suite of tests to verify that a TermStore
// implementation adheres to the defined interface contract.
func RunTermStoreContract(t *testing.T, store TermStore) {
	ctx := context.Background()
	prefix := fmt.Sprintf("contract-%d", time.Now().UnixNano())
	fg := []any{"compose",
		[]any{"Hom", "f", []any{"Ob", "A"}, []any{"Ob", "B"}},
		[]any{"Hom", "g", []any{"Ob", "B"}, []any{"Ob", "C"}},
	}

	t.Run("Save and Load", func(t *testing.T) {
		name := prefix + "-fg"
		require.NoError(t, store.Save(ctx, name, fg), "Save should not return error")

		loaded, err := store.Load(ctx, name)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, fg, loaded)
	})

	t.Run("Primitives", func(t *testing.T) {
		name := prefix + "-prims"
		sexp := []any{"Hom", 42, true, nil, 2.5, []any{"Ob", ""}}
		require.NoError(t, store.Save(ctx, name, sexp))

		loaded, err := store.Load(ctx, name)
		require.NoError(t, err)
		assert.Equal(t, sexp, loaded, "integers must not come back as floats")
	})

	t.Run("Overwrite", func(t *testing.T) {
		name := prefix + "-overwrite"
		require.NoError(t, store.Save(ctx, name, []any{"Ob", "A"}))
		require.NoError(t, store.Save(ctx, name, []any{"Ob", "B"}))

		loaded, err := store.Load(ctx, name)
		require.NoError(t, err)
		assert.Equal(t, []any{"Ob", "B"}, loaded)
	})

	t.Run("Isolation", func(t *testing.T) {
		name := prefix + "-isolated"
		sexp := []any{"Ob", "A"}
		require.NoError(t, store.Save(ctx, name, sexp))
		sexp[1] = "mutated"

		loaded, err := store.Load(ctx, name)
		require.NoError(t, err)
		assert.Equal(t, []any{"Ob", "A"}, loaded)
		loaded.([]any)[1] = "mutated"

		again, err := store.Load(ctx, name)
		require.NoError(t, err)
		assert.Equal(t, []any{"Ob", "A"}, again)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, prefix+"-missing")
		assert.ErrorIs(t, err, ErrTermNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		name := prefix + "-delete"
		require.NoError(t, store.Save(ctx, name, fg))
		require.NoError(t, store.Delete(ctx, name), "Delete should not return error")

		_, err := store.Load(ctx, name)
		assert.ErrorIs(t, err, ErrTermNotFound, "Load after Delete should return ErrTermNotFound")

		assert.NoError(t, store.Delete(ctx, name), "deleting twice is not an error")
	})

	t.Run("List", func(t *testing.T) {
		id1 := prefix + "-list-1"
		id2 := prefix + "-list-2"
		require.NoError(t, store.Save(ctx, id1, fg))
		require.NoError(t, store.Save(ctx, id2, fg))
		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		names, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, names, id1)
		assert.Contains(t, names, id2)
		assert.NotContains(t, names, prefix+"-delete")
	})
}
