package engine

import (
	"github.com/steinerkelvin/Kindelia/internal/graph"
	"github.com/steinerkelvin/Kindelia/internal/term"
)

// run is the mutable state of one evaluation: its budget, its token, the
// stuck-call record, and the visited sets that keep normalize from
// entering a shared subgraph twice.
type run struct {
	engine *Engine
	budget *StepBudget
	token  string

	stuckSeen map[term.Name]bool
	stuck     []term.Name

	seenLams map[*graph.LamNode]bool
	seenDups map[*graph.DupNode]bool
	seenSups map[*graph.SupNode]bool
}

func (r *run) stats() *Stats {
	steps := r.budget.Current()
	if steps > r.budget.MaxSteps() {
		steps = r.budget.MaxSteps()
	}
	return &Stats{Token: r.token, Steps: steps, Stuck: r.stuck}
}

// step charges one rule firing against the budget. Called before the rule
// mutates anything, so an exhausted budget leaves the graph intact.
func (r *run) step() error {
	return r.budget.Check(r.token)
}

func (r *run) markStuck(name term.Name) {
	if !r.stuckSeen[name] {
		r.stuckSeen[name] = true
		r.stuck = append(r.stuck, name)
	}
}

// whnf reduces node to weak head normal form. The caller must install the
// returned node on the edge it read node from; whnf patches interior
// edges (application functions, operator operands, strict call arguments)
// itself so partial progress is kept when a term gets stuck.
func (r *run) whnf(node graph.Node) (graph.Node, error) {
	for {
		switch n := node.(type) {
		case *graph.Var:
			if n.Ref.Subst == nil {
				return node, nil
			}
			node = n.Ref.Subst

		case *graph.Dpx:
			if n.Ref.Subst != nil {
				node = n.Ref.Subst
				continue
			}
			fired, err := r.fireDup(n.Ref.Dup)
			if err != nil {
				return node, err
			}
			if !fired {
				return node, nil
			}
			if n.Ref.Subst == nil {
				return node, &RuntimeError{
					Code:    ErrCodeMalformedGraph,
					Message: "duplication fired without resolving a live projection",
					Token:   r.token,
				}
			}
			node = n.Ref.Subst

		case *graph.App:
			fn, err := r.whnf(n.Func)
			n.Func = fn
			if err != nil {
				return node, err
			}
			switch f := fn.(type) {
			case *graph.Lam:
				// beta: rewire the single occurrence to the argument
				// and continue into the body.
				if err := r.step(); err != nil {
					return node, err
				}
				if f.Ref.Var != nil {
					f.Ref.Var.Subst = n.Arg
				}
				node = f.Ref.Body
			case *graph.Sup:
				next, err := r.appSup(n, f)
				if err != nil {
					return node, err
				}
				node = next
			default:
				return node, nil
			}

		case *graph.Op2:
			next, progressed, err := r.whnfOp2(n)
			if err != nil || !progressed {
				return node, err
			}
			node = next

		case *graph.Fun:
			next, progressed, err := r.whnfFun(n)
			if err != nil || !progressed {
				return node, err
			}
			node = next

		default:
			// Lam, Sup, Ctr, Num: already in weak head normal form.
			return node, nil
		}
	}
}

// appSup distributes an application over a superposed function:
// ({f g} x) becomes {(f x0) (g x1)} with dup x0 x1 = x under the
// superposition's label.
func (r *run) appSup(app *graph.App, sup *graph.Sup) (graph.Node, error) {
	if err := r.step(); err != nil {
		return nil, err
	}
	a0, a1 := r.dupOf(sup.Label, app.Arg)
	return &graph.Sup{Label: sup.Label, Ref: &graph.SupNode{
		Left:  &graph.App{Func: sup.Ref.Left, Arg: a0},
		Right: &graph.App{Func: sup.Ref.Right, Arg: a1},
	}}, nil
}

// whnfOp2 reduces a binary operation one head step. progressed is false
// when the operands are stuck.
func (r *run) whnfOp2(op *graph.Op2) (graph.Node, bool, error) {
	v0, err := r.whnf(op.Val0)
	op.Val0 = v0
	if err != nil {
		return nil, false, err
	}

	if sup, ok := v0.(*graph.Sup); ok {
		// (+ {a b} v1) -> {(+ a v0') (+ b v1')} with dup of v1
		if err := r.step(); err != nil {
			return nil, false, err
		}
		b0, b1 := r.dupOf(sup.Label, op.Val1)
		return &graph.Sup{Label: sup.Label, Ref: &graph.SupNode{
			Left:  &graph.Op2{Oper: op.Oper, Val0: sup.Ref.Left, Val1: b0},
			Right: &graph.Op2{Oper: op.Oper, Val0: sup.Ref.Right, Val1: b1},
		}}, true, nil
	}

	num0, ok := v0.(*graph.Num)
	if !ok {
		return nil, false, nil
	}

	v1, err := r.whnf(op.Val1)
	op.Val1 = v1
	if err != nil {
		return nil, false, err
	}

	switch second := v1.(type) {
	case *graph.Num:
		if err := r.step(); err != nil {
			return nil, false, err
		}
		return &graph.Num{Value: op.Oper.Eval(num0.Value, second.Value)}, true, nil
	case *graph.Sup:
		// (+ #n {a b}) -> {(+ n0 a) (+ n1 b)} with dup of the number
		if err := r.step(); err != nil {
			return nil, false, err
		}
		a0, a1 := r.dupOf(second.Label, v0)
		return &graph.Sup{Label: second.Label, Ref: &graph.SupNode{
			Left:  &graph.Op2{Oper: op.Oper, Val0: a0, Val1: second.Ref.Left},
			Right: &graph.Op2{Oper: op.Oper, Val0: a1, Val1: second.Ref.Right},
		}}, true, nil
	default:
		return nil, false, nil
	}
}

// whnfFun matches a call against its book equations in declaration order
// and instantiates the first matching body. progressed is false when the
// function is undeclared, an arity mismatch, or no equation matches; those
// calls stay in the graph as stuck terms.
func (r *run) whnfFun(call *graph.Fun) (graph.Node, bool, error) {
	def := r.engine.book.Lookup(call.Name)
	if def == nil || def.Arity != len(call.Args) {
		r.markStuck(call.Name)
		return nil, false, nil
	}

	for i, strict := range def.Strict {
		if !strict {
			continue
		}
		arg, err := r.whnf(call.Args[i])
		call.Args[i] = arg
		if err != nil {
			return nil, false, err
		}
	}

	for _, rule := range def.Rules {
		env, ok := matchRule(rule.Patterns, call.Args)
		if !ok {
			continue
		}
		if err := r.step(); err != nil {
			return nil, false, err
		}
		body, err := graph.BuildWith(rule.Body, r.engine.labels, env)
		if err != nil {
			return nil, false, &RuntimeError{
				Code:    ErrCodeMalformedGraph,
				Message: "equation body failed to instantiate: " + err.Error(),
				Token:   r.token,
				FunName: string(call.Name),
			}
		}
		return body, true, nil
	}

	r.markStuck(call.Name)
	return nil, false, nil
}

// matchRule checks flat patterns against whnf'd arguments and collects the
// bindings. Matching never mutates the graph; only instantiation does.
func matchRule(patterns []term.Term, args []graph.Node) (map[term.Name]graph.Node, bool) {
	env := map[term.Name]graph.Node{}
	for i, pat := range patterns {
		switch p := pat.(type) {
		case *term.Var:
			if p.Name != term.None {
				env[p.Name] = args[i]
			}
		case *term.Num:
			num, ok := args[i].(*graph.Num)
			if !ok || num.Value != p.Value {
				return nil, false
			}
		case *term.Ctr:
			ctr, ok := args[i].(*graph.Ctr)
			if !ok || ctr.Name != p.Name || len(ctr.Args) != len(p.Args) {
				return nil, false
			}
			for j, field := range p.Args {
				v := field.(*term.Var)
				if v.Name != term.None {
					env[v.Name] = ctr.Args[j]
				}
			}
		default:
			return nil, false
		}
	}
	return env, true
}

// fireDup reduces the duplicated expression to weak head normal form and,
// when it is duplicable, fires the matching rule: substitutions for both
// live projections are installed in one shot. fired is false when the
// expression is stuck.
func (r *run) fireDup(dup *graph.DupNode) (bool, error) {
	expr, err := r.whnf(dup.Expr)
	dup.Expr = expr
	if err != nil {
		return false, err
	}

	switch x := expr.(type) {
	case *graph.Num:
		if err := r.step(); err != nil {
			return false, err
		}
		r.resolve(dup, &graph.Num{Value: x.Value}, &graph.Num{Value: x.Value})
		return true, nil

	case *graph.Ctr:
		if err := r.step(); err != nil {
			return false, err
		}
		left, right := r.dupArgs(dup.Label, x.Args)
		r.resolve(dup,
			&graph.Ctr{Name: x.Name, Args: left},
			&graph.Ctr{Name: x.Name, Args: right})
		return true, nil

	case *graph.Fun:
		if err := r.step(); err != nil {
			return false, err
		}
		left, right := r.dupArgs(dup.Label, x.Args)
		r.resolve(dup,
			&graph.Fun{Name: x.Name, Args: left},
			&graph.Fun{Name: x.Name, Args: right})
		return true, nil

	case *graph.Lam:
		// dup-lam: two fresh lambdas; the original variable becomes a
		// superposition of the fresh variables, the body is duplicated
		// under the same label.
		if err := r.step(); err != nil {
			return false, err
		}
		lam0 := &graph.LamNode{}
		lam1 := &graph.LamNode{}
		if x.Ref.Var != nil {
			v0 := &graph.VarNode{Lam: lam0}
			v1 := &graph.VarNode{Lam: lam1}
			lam0.Var = v0
			lam1.Var = v1
			x.Ref.Var.Subst = &graph.Sup{Label: dup.Label, Ref: &graph.SupNode{
				Left:  &graph.Var{Ref: v0},
				Right: &graph.Var{Ref: v1},
			}}
		}
		b0, b1 := r.dupOf(dup.Label, x.Ref.Body)
		lam0.Body = b0
		lam1.Body = b1
		r.resolve(dup, &graph.Lam{Ref: lam0}, &graph.Lam{Ref: lam1})
		return true, nil

	case *graph.Sup:
		if x.Label == dup.Label {
			// annihilation: each projection takes its side.
			if err := r.step(); err != nil {
				return false, err
			}
			r.resolve(dup, x.Ref.Left, x.Ref.Right)
			return true, nil
		}
		// commutation: the duplication passes through, the superposition
		// re-forms on both sides with its own label.
		if err := r.step(); err != nil {
			return false, err
		}
		l0, l1 := r.dupOf(dup.Label, x.Ref.Left)
		r0, r1 := r.dupOf(dup.Label, x.Ref.Right)
		r.resolve(dup,
			&graph.Sup{Label: x.Label, Ref: &graph.SupNode{Left: l0, Right: r0}},
			&graph.Sup{Label: x.Label, Ref: &graph.SupNode{Left: l1, Right: r1}})
		return true, nil

	default:
		return false, nil
	}
}

// resolve installs the two copies on the duplication's live projections.
// A nil projection means that binder name was unused; its copy is dropped.
func (r *run) resolve(dup *graph.DupNode, left, right graph.Node) {
	if dup.Left != nil {
		dup.Left.Subst = left
	}
	if dup.Right != nil {
		dup.Right.Subst = right
	}
}

// dupOf allocates an unfired duplication of node under label and returns
// its two projections.
func (r *run) dupOf(label graph.Label, node graph.Node) (graph.Node, graph.Node) {
	dup := &graph.DupNode{Label: label, Expr: node}
	left := &graph.DpxNode{Label: label, Side: false, Dup: dup}
	right := &graph.DpxNode{Label: label, Side: true, Dup: dup}
	dup.Left, dup.Right = left, right
	return &graph.Dpx{Ref: left}, &graph.Dpx{Ref: right}
}

// dupArgs duplicates each argument of a constructor or call, yielding the
// left and right argument vectors.
func (r *run) dupArgs(label graph.Label, args []graph.Node) ([]graph.Node, []graph.Node) {
	left := make([]graph.Node, len(args))
	right := make([]graph.Node, len(args))
	for i, arg := range args {
		left[i], right[i] = r.dupOf(label, arg)
	}
	return left, right
}

// normalize reduces node and everything under it to normal form. Shared
// subgraphs (lambda bodies reached twice through substitutions, unfired
// duplications, superposition sides) are visited once.
func (r *run) normalize(node graph.Node) (graph.Node, error) {
	node, err := r.whnf(node)
	if err != nil {
		return node, err
	}

	switch n := node.(type) {
	case *graph.Lam:
		if r.seenLams[n.Ref] {
			return node, nil
		}
		r.seenLams[n.Ref] = true
		body, err := r.normalize(n.Ref.Body)
		n.Ref.Body = body
		return node, err

	case *graph.Sup:
		if r.seenSups[n.Ref] {
			return node, nil
		}
		r.seenSups[n.Ref] = true
		left, err := r.normalize(n.Ref.Left)
		n.Ref.Left = left
		if err != nil {
			return node, err
		}
		right, err := r.normalize(n.Ref.Right)
		n.Ref.Right = right
		return node, err

	case *graph.App:
		fn, err := r.normalize(n.Func)
		n.Func = fn
		if err != nil {
			return node, err
		}
		arg, err := r.normalize(n.Arg)
		n.Arg = arg
		return node, err

	case *graph.Ctr:
		return node, r.normalizeArgs(n.Args)

	case *graph.Fun:
		return node, r.normalizeArgs(n.Args)

	case *graph.Op2:
		val0, err := r.normalize(n.Val0)
		n.Val0 = val0
		if err != nil {
			return node, err
		}
		val1, err := r.normalize(n.Val1)
		n.Val1 = val1
		return node, err

	case *graph.Dpx:
		// A stuck duplication: normalize the shared expression once so
		// readback surfaces its most reduced form.
		dup := n.Ref.Dup
		if n.Ref.Subst != nil || r.seenDups[dup] {
			return node, nil
		}
		r.seenDups[dup] = true
		expr, err := r.normalize(dup.Expr)
		dup.Expr = expr
		return node, err

	default:
		// Var, Num: leaves.
		return node, nil
	}
}

func (r *run) normalizeArgs(args []graph.Node) error {
	for i, arg := range args {
		out, err := r.normalize(arg)
		args[i] = out
		if err != nil {
			return err
		}
	}
	return nil
}
