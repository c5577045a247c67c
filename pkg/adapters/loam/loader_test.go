package loam

import (
	"context"
	"testing"

	"github.com/aretw0/loam"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/gatlab/internal/testutils"
	"github.com/aretw0/gatlab/pkg/theory"
)

const categoryDoc = `---
name: Category
types:
  - name: Ob
  - name: Hom
    params: [dom, codom]
    context: ["dom::Ob", "codom::Ob"]
terms:
  - name: id
    params: [A]
    context: ["A::Ob"]
    type: Hom(A,A)
  - name: compose
    params: [f, g]
    context: ["A::Ob", "B::Ob", "C::Ob", "f::Hom(A,B)", "g::Hom(B,C)"]
    type: Hom(A,C)
---
Objects and composable morphisms.
`

const pointedDoc = `---
doc: Sets with a point.
types:
  - name: Set
  - name: El
    params: [set]
    context: ["set::Set"]
terms:
  - name: point
    params: [X]
    context: ["X::Set"]
    type: El(X)
---
This body is ignored because doc is set.
`

const brokenDoc = `---
name: Broken
types:
  - name: Ob
terms:
  - name: x
    type: Missing
---
`

func TestLoader_LoadTheory(t *testing.T) {
	dir, repo := testutils.SetupTestRepo(t)
	testutils.WriteFiles(t, dir, map[string]string{
		"category.md": categoryDoc,
		"pointed.md":  pointedDoc,
		"broken.md":   brokenDoc,
	})
	loader := New(loam.NewTypedRepository[theory.Document](repo))
	ctx := context.Background()

	t.Run("frontmatter and body", func(t *testing.T) {
		th, err := loader.LoadTheory(ctx, "category")
		require.NoError(t, err)
		assert.Equal(t, "Category", th.Name())
		assert.Equal(t, "Objects and composable morphisms.", th.Doc())
		compose, ok := th.Term("compose")
		require.True(t, ok)
		assert.Equal(t, "codom(f) == dom(g)", compose.Equations[0].String())
	})

	t.Run("name defaults to the document id", func(t *testing.T) {
		th, err := loader.LoadTheory(ctx, "pointed.md")
		require.NoError(t, err)
		assert.Equal(t, "pointed", th.Name())
		assert.Equal(t, "Sets with a point.", th.Doc())
	})

	t.Run("invalid theory", func(t *testing.T) {
		_, err := loader.LoadTheory(ctx, "broken")
		assert.ErrorContains(t, err, "unknown type constructor Missing")
	})

	t.Run("missing document", func(t *testing.T) {
		_, err := loader.LoadTheory(ctx, "nope")
		assert.Error(t, err)
	})

	t.Run("list", func(t *testing.T) {
		ids, err := loader.List(ctx)
		require.NoError(t, err)
		assert.Subset(t, ids, []string{"broken", "category", "pointed"})
	})
}

func TestOpen_ReadOnly(t *testing.T) {
	dir := t.TempDir()
	testutils.WriteFiles(t, dir, map[string]string{"category.md": categoryDoc})

	loader, err := Open(dir)
	require.NoError(t, err)
	th, err := loader.LoadTheory(context.Background(), "category")
	require.NoError(t, err)
	assert.Len(t, th.Terms(), 2)
}

func TestTrimExtension(t *testing.T) {
	assert.Equal(t, "a/b", trimExtension("a/b.md"))
	assert.Equal(t, "a", trimExtension("a"))
}
