package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/gatlab/pkg/expr"
	"github.com/aretw0/gatlab/pkg/theory"
)

// Overlay marks expressions to highlight on the graph, such as the subterm a
// failed check points at.
type Overlay struct {
	Highlight []*expr.Expr
}

// ExprMermaid renders an expression as a Mermaid flowchart.
// Structurally equal subexpressions share one node, so the result is a DAG.
// It applies semantic styling:
// - Term constructor application: [Rectangle] labelled "head : Type"
// - Generator: ([Stadium]) labelled with its signature
// - Raw value: [/Parallelogram/]
// Edges carry the argument position.
func ExprMermaid(e *expr.Expr, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	ids := expr.NewMap[string]()
	next := 0
	newID := func() string {
		id := fmt.Sprintf("n%d", next)
		next++
		return id
	}

	var visit func(x *expr.Expr) string
	visit = func(x *expr.Expr) string {
		if id, ok := ids.Get(x); ok {
			return id
		}
		id := newID()
		ids.Set(x, id)

		if x.IsGenerator() {
			sb.WriteString(fmt.Sprintf("    %s([\"%s\"])\n", id, escape(x.Signature())))
			return id
		}
		sb.WriteString(fmt.Sprintf("    %s[\"%s : %s\"]\n", id, escape(x.Head()), escape(typeOf(x))))
		for i, a := range x.Args() {
			var child string
			if sub, ok := a.(*expr.Expr); ok {
				child = visit(sub)
			} else {
				child = newID()
				sb.WriteString(fmt.Sprintf("    %s[/\"%s\"/]\n", child, escape(fmt.Sprintf("%v", a))))
			}
			sb.WriteString(fmt.Sprintf("    %s -->|%d| %s\n", id, i+1, child))
		}
		return id
	}
	if e != nil {
		visit(e)
	}

	if overlay != nil && len(overlay.Highlight) > 0 {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast regardless of theme (Light/Dark)
		sb.WriteString("    classDef highlight fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")
		seen := make(map[string]bool)
		for _, h := range overlay.Highlight {
			id, ok := ids.Get(h)
			if !ok || seen[id] {
				continue
			}
			seen[id] = true
			sb.WriteString(fmt.Sprintf("    class %s highlight;\n", id))
		}
	}

	return sb.String()
}

// TheoryMermaid renders the signature of a theory: one node per type
// constructor, one subroutine node per term constructor, with edges from the
// sorts of its parameters and to the sort it returns.
func TheoryMermaid(th *theory.Theory) string {
	var sb strings.Builder
	sb.WriteString("graph LR\n")

	for _, tc := range th.Types() {
		label := tc.Name
		if tc.Arity() > 0 {
			label += "(" + strings.Join(tc.Params, ", ") + ")"
		}
		sb.WriteString(fmt.Sprintf("    %s((\"%s\"))\n", typeID(tc.Name), escape(label)))
	}

	for _, tc := range th.Terms() {
		id := termID(tc.Name)
		label := tc.Name + "(" + strings.Join(tc.Params, ", ") + ")"
		sb.WriteString(fmt.Sprintf("    %s[[\"%s\"]]\n", id, escape(label)))
		for _, p := range tc.Params {
			if sort, ok := tc.Context.Lookup(p); ok {
				sb.WriteString(fmt.Sprintf("    %s -.->|%s| %s\n", typeID(sort.Head), sanitizeMermaidID(p), id))
			}
		}
		sb.WriteString(fmt.Sprintf("    %s --> %s\n", id, typeID(tc.Type.Head)))
	}

	return sb.String()
}

func typeOf(e *expr.Expr) string {
	return strings.TrimPrefix(e.Signature(), e.String()+" : ")
}

func typeID(name string) string { return "T_" + sanitizeMermaidID(name) }
func termID(name string) string { return "t_" + sanitizeMermaidID(name) }

// escape replaces double quotes, which would end a Mermaid label.
func escape(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	return s
}
