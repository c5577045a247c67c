package tui

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/gatlab/pkg/theories"
)

func TestTheoryMarkdown(t *testing.T) {
	md := TheoryMarkdown(theories.Category())

	assert.Contains(t, md, "# Category\n")
	assert.Contains(t, md, "| `Hom(dom, codom)` | `dom::Ob`, `codom::Ob` |")
	assert.Contains(t, md, "### `compose(f, g) :: Hom(A,C)`")
	assert.Contains(t, md, "- `codom(f) == dom(g)`")
}

func TestNewRenderer_NoTTY(t *testing.T) {
	render := NewRenderer(false)
	out, err := render("# Title\n\nSome *text*.")
	require.NoError(t, err)
	assert.Contains(t, out, "Title")
	assert.Contains(t, out, "text")
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	PrintBanner(&buf)
	assert.Contains(t, buf.String(), "|___/")
}
