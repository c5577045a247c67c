package theory

import "fmt"

type checker struct {
	th   *Theory
	errs []error
}

func (v *checker) fail(owner, format string, args ...any) {
	v.errs = append(v.errs, &ValidationError{Constructor: owner, Reason: fmt.Sprintf(format, args...)})
}

func (v *checker) checkType(tc *TypeConstructor) {
	v.checkParams(tc.Name, tc.Params, tc.Context)
	for _, b := range tc.Context {
		v.checkSort(tc.Name, tc.Context, b.Type)
	}
	_, implied := v.th.derive(tc.Params, tc.Context)
	tc.Equations = append(tc.Equations, implied...)
}

func (v *checker) checkTerm(tc *TermConstructor) {
	v.checkParams(tc.Name, tc.Params, tc.Context)
	for _, b := range tc.Context {
		v.checkSort(tc.Name, tc.Context, b.Type)
	}
	v.checkSort(tc.Name, tc.Context, tc.Type)
	for _, eq := range tc.Equations {
		v.checkValue(tc.Name, tc.Context, eq.Lhs)
		v.checkValue(tc.Name, tc.Context, eq.Rhs)
	}

	resolutions, implied := v.th.derive(tc.Params, tc.Context)
	tc.resolutions = resolutions
	tc.declared = len(tc.Equations)
	tc.Equations = append(tc.Equations, implied...)

	reachable := func(name string) bool {
		if _, ok := resolutions[name]; ok {
			return true
		}
		for _, p := range tc.Params {
			if p == name {
				return true
			}
		}
		return false
	}
	check := func(where string, t Term) {
		for _, s := range t.Symbols() {
			if tc.Context.Has(s) && !reachable(s) {
				v.fail(tc.Name, "variable %s in %s cannot be resolved from the parameters", s, where)
			}
		}
	}
	check("result type", tc.Type)
	for _, eq := range tc.Equations[:tc.declared] {
		check("equation "+eq.String(), eq.Lhs)
		check("equation "+eq.String(), eq.Rhs)
	}
}

func (v *checker) checkParams(owner string, params []string, ctx Context) {
	seen := make(map[string]bool)
	for _, p := range params {
		if seen[p] {
			v.fail(owner, "duplicate parameter %s", p)
		}
		seen[p] = true
		if !ctx.Has(p) {
			v.fail(owner, "parameter %s has no declared type", p)
		}
	}
	bound := make(map[string]bool)
	for _, b := range ctx {
		if bound[b.Name] {
			v.fail(owner, "variable %s is bound twice", b.Name)
		}
		bound[b.Name] = true
	}
}

// checkSort validates a term used as a type: its head must be a type constructor.
func (v *checker) checkSort(owner string, ctx Context, t Term) {
	tc, ok := v.th.typeIndex[t.Head]
	if !ok {
		v.fail(owner, "unknown type constructor %s in %s", t.Head, t)
		return
	}
	if len(t.Args) != tc.Arity() {
		v.fail(owner, "type %s expects %d arguments, got %d", tc.Name, tc.Arity(), len(t.Args))
	}
	for _, a := range t.Args {
		v.checkValue(owner, ctx, a)
	}
}

// checkValue validates a term denoting a value: a context variable, an accessor or
// a term constructor application.
func (v *checker) checkValue(owner string, ctx Context, t Term) {
	if t.IsSymbol() && ctx.Has(t.Head) {
		return
	}
	if tc, ok := v.th.termIndex[t.Head]; ok {
		if len(t.Args) != tc.Arity() {
			v.fail(owner, "term %s expects %d arguments, got %d", tc.Name, tc.Arity(), len(t.Args))
		}
	} else if _, ok := v.th.accessors[t.Head]; ok && len(t.Args) == 1 {
		// accessor application
	} else {
		v.fail(owner, "unbound symbol %s", t.Head)
		return
	}
	for _, a := range t.Args {
		v.checkValue(owner, ctx, a)
	}
}

// checkCycles rejects theories whose result types expand into each other forever,
// such as a nullary I()::Ob(I()).
func (v *checker) checkCycles() {
	const (
		white = iota
		grey
		black
	)
	color := make(map[string]int)
	var visit func(name string, path []string)
	visit = func(name string, path []string) {
		switch color[name] {
		case grey:
			v.fail(name, "result type expands recursively: %v", append(path, name))
			return
		case black:
			return
		}
		color[name] = grey
		tc := v.th.termIndex[name]
		for _, dep := range v.th.calls(tc.Context, tc.Type) {
			visit(dep, append(path, name))
		}
		color[name] = black
	}
	for _, tc := range v.th.terms {
		visit(tc.Name, nil)
	}
}

// calls lists the term constructors applied inside a type term.
func (th *Theory) calls(ctx Context, t Term) []string {
	var out []string
	var walk func(Term, bool)
	walk = func(t Term, top bool) {
		if !top {
			if _, ok := th.termIndex[t.Head]; ok && !(t.IsSymbol() && ctx.Has(t.Head)) {
				out = append(out, t.Head)
			}
		}
		for _, a := range t.Args {
			walk(a, false)
		}
	}
	walk(t, true)
	return out
}

// derive walks the declared types of the parameters and records, for each context
// variable they mention, the accessor term computing it. A variable reached twice
// yields an implied equation between the two accessor terms.
func (th *Theory) derive(params []string, ctx Context) (map[string]Term, []Equation) {
	resolved := make(map[string]Term)
	queue := make([]string, 0, len(params))
	for _, p := range params {
		resolved[p] = Sym(p)
		queue = append(queue, p)
	}

	var implied []Equation
	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]

		typ, ok := ctx.Lookup(name)
		if !ok {
			continue
		}
		tc, ok := th.typeIndex[typ.Head]
		if !ok {
			continue
		}
		for i, arg := range typ.Args {
			if i >= len(tc.Params) || !arg.IsSymbol() || !ctx.Has(arg.Head) {
				continue
			}
			acc := Apply(tc.Params[i], resolved[name])
			if prev, ok := resolved[arg.Head]; ok {
				implied = append(implied, Equation{Lhs: prev, Rhs: acc})
				continue
			}
			resolved[arg.Head] = acc
			queue = append(queue, arg.Head)
		}
	}

	for _, p := range params {
		delete(resolved, p)
	}
	return resolved, implied
}
