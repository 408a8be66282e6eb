package graph

import (
	"fmt"

	"github.com/steinerkelvin/Kindelia/internal/term"
)

// placeholder fills a lambda's body edge between allocation and patching.
// It is never exposed outside construction.
var placeholder Node = &Num{Value: term.MaxU120}

// Build translates a surface term into a node graph, drawing duplication
// labels from labels. It fails with UnboundVariableError if a variable
// occurrence has no pending binding in scope.
//
// Binder names are linear: each pushed binding is consumed by at most one
// occurrence; a second occurrence in the same scope finds an empty stack
// and fails. Nested binders reusing a name shadow by stack order.
func Build(t term.Term, labels *Labels) (Node, error) {
	b := &builder{
		labels: labels,
		vars:   map[term.Name][]Node{},
	}
	return b.build(t)
}

// BuildWith is Build with a pre-seeded binding environment. The reducer
// uses it to instantiate function-equation bodies: pattern variables are
// seeded as already-built graph fragments and consumed exactly like dup or
// lambda bindings, so equation bodies obey the same linearity rule.
func BuildWith(t term.Term, labels *Labels, env map[term.Name]Node) (Node, error) {
	b := &builder{
		labels: labels,
		vars:   make(map[term.Name][]Node, len(env)),
	}
	for name, node := range env {
		b.vars[name] = []Node{node}
	}
	return b.build(t)
}

// builder carries the per-name stacks of pending occurrence producers.
// One stack per distinct name, shared across nested shadowing scopes.
type builder struct {
	labels *Labels
	vars   map[term.Name][]Node
}

func (b *builder) consume(name term.Name) (Node, bool) {
	stack := b.vars[name]
	if len(stack) == 0 {
		return nil, false
	}
	top := stack[len(stack)-1]
	b.vars[name] = stack[:len(stack)-1]
	return top, true
}

// bindVar allocates the variable node for a lambda binder and pushes its
// occurrence producer. No-op for an unused binder slot.
func (b *builder) bindVar(name term.Name, lam *LamNode) {
	if name == term.None {
		return
	}
	vn := &VarNode{Lam: lam}
	lam.Var = vn
	b.vars[name] = append(b.vars[name], &Var{Ref: vn})
}

// bindDpx allocates one projection of a duplication binder, installs it on
// the corresponding side, and pushes its occurrence producer.
func (b *builder) bindDpx(name term.Name, side bool, dup *DupNode) {
	if name == term.None {
		return
	}
	dpx := &DpxNode{Label: dup.Label, Side: side, Dup: dup}
	if !side {
		dup.Left = dpx
	} else {
		dup.Right = dpx
	}
	b.vars[name] = append(b.vars[name], &Dpx{Ref: dpx})
}

func (b *builder) build(t term.Term) (Node, error) {
	switch x := t.(type) {
	case *term.Var:
		occ, ok := b.consume(x.Name)
		if !ok {
			return nil, &UnboundVariableError{Name: x.Name}
		}
		return occ, nil

	case *term.Dup:
		// Duplication is strict: the expression is fully built before
		// its binders become visible.
		expr, err := b.build(x.Expr)
		if err != nil {
			return nil, err
		}
		dup := &DupNode{Label: b.labels.Fresh(), Expr: expr}
		b.bindDpx(x.Nam0, false, dup)
		b.bindDpx(x.Nam1, true, dup)
		// The DupNode is reachable only through its projections'
		// back-references, not as a direct edge from the body.
		return b.build(x.Body)

	case *term.Lam:
		// Two-phase: allocate with a placeholder body so occurrences
		// inside the body can back-reference the lambda, then patch.
		lam := &LamNode{Body: placeholder}
		b.bindVar(x.Name, lam)
		body, err := b.build(x.Body)
		if err != nil {
			return nil, err
		}
		lam.Body = body
		return &Lam{Ref: lam}, nil

	case *term.App:
		fn, err := b.build(x.Func)
		if err != nil {
			return nil, err
		}
		arg, err := b.build(x.Arg)
		if err != nil {
			return nil, err
		}
		return &App{Func: fn, Arg: arg}, nil

	case *term.Ctr:
		args, err := b.buildArgs(x.Args)
		if err != nil {
			return nil, err
		}
		return &Ctr{Name: x.Name, Args: args}, nil

	case *term.Fun:
		args, err := b.buildArgs(x.Args)
		if err != nil {
			return nil, err
		}
		return &Fun{Name: x.Name, Args: args}, nil

	case *term.Num:
		return &Num{Value: x.Value}, nil

	case *term.Op2:
		val0, err := b.build(x.Val0)
		if err != nil {
			return nil, err
		}
		val1, err := b.build(x.Val1)
		if err != nil {
			return nil, err
		}
		return &Op2{Oper: x.Oper, Val0: val0, Val1: val1}, nil

	default:
		return nil, fmt.Errorf("unknown term variant %T", t)
	}
}

func (b *builder) buildArgs(args []term.Term) ([]Node, error) {
	built := make([]Node, len(args))
	for i, arg := range args {
		node, err := b.build(arg)
		if err != nil {
			return nil, err
		}
		built[i] = node
	}
	return built, nil
}
