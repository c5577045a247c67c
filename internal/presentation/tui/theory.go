package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/gatlab/pkg/theory"
)

// TheoryMarkdown describes a theory as a Markdown document: its documentation,
// then a table of type constructors and one section per term constructor.
func TheoryMarkdown(th *theory.Theory) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", th.Name())
	if th.Doc() != "" {
		sb.WriteString(th.Doc() + "\n\n")
	}

	sb.WriteString("## Types\n\n| Constructor | Context | Doc |\n|---|---|---|\n")
	for _, tc := range th.Types() {
		name := tc.Name
		if tc.Arity() > 0 {
			name += "(" + strings.Join(tc.Params, ", ") + ")"
		}
		fmt.Fprintf(&sb, "| `%s` | %s | %s |\n", name, contextCell(tc.Context), tc.Doc)
	}

	sb.WriteString("\n## Terms\n")
	for _, tc := range th.Terms() {
		fmt.Fprintf(&sb, "\n### `%s(%s) :: %s`\n\n", tc.Name, strings.Join(tc.Params, ", "), tc.Type)
		if tc.Doc != "" {
			sb.WriteString(tc.Doc + "\n\n")
		}
		if len(tc.Context) > 0 {
			fmt.Fprintf(&sb, "- Context: %s\n", contextCell(tc.Context))
		}
		for _, eq := range tc.Equations {
			fmt.Fprintf(&sb, "- `%s`\n", eq)
		}
	}
	return sb.String()
}

func contextCell(ctx theory.Context) string {
	if len(ctx) == 0 {
		return "-"
	}
	parts := make([]string, len(ctx))
	for i, b := range ctx {
		parts[i] = "`" + b.String() + "`"
	}
	return strings.Join(parts, ", ")
}
