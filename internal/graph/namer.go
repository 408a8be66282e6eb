package graph

// Names maps binder identity (a *VarNode or *DupNode pointer) to a dense,
// deterministic non-negative id.
type Names map[any]int

// AssignNames walks the graph in pre-order, left to right, and assigns a
// dense id to every lambda variable and every duplication node in
// first-visit order. A duplication's owned expression is entered only the
// first time the DupNode is reached via either projection, and a lambda's
// body only the first time the lambda is reached, so shared subgraphs get
// exactly one id regardless of how many occurrence sites reach them.
//
// The result is a pure function of graph shape and visit order: running it
// twice on the same graph yields the same mapping.
func AssignNames(root Node) Names {
	n := namer{ids: Names{}, lams: map[*LamNode]bool{}}
	n.visit(root)
	return n.ids
}

type namer struct {
	ids  Names
	lams map[*LamNode]bool
}

func (n *namer) visit(x Node) {
	switch t := x.(type) {
	case *Var:
		if t.Ref.Subst != nil {
			n.visit(t.Ref.Subst)
		}

	case *Dpx:
		if t.Ref.Subst != nil {
			n.visit(t.Ref.Subst)
			return
		}
		dup := t.Ref.Dup
		if _, seen := n.ids[dup]; !seen {
			n.ids[dup] = len(n.ids)
			n.visit(dup.Expr)
		}

	case *Sup:
		n.visit(t.Ref.Left)
		n.visit(t.Ref.Right)

	case *Lam:
		lam := t.Ref
		if n.lams[lam] {
			return
		}
		n.lams[lam] = true
		if lam.Var != nil {
			if _, seen := n.ids[lam.Var]; !seen {
				n.ids[lam.Var] = len(n.ids)
			}
		}
		n.visit(lam.Body)

	case *App:
		n.visit(t.Func)
		n.visit(t.Arg)

	case *Ctr:
		for _, arg := range t.Args {
			n.visit(arg)
		}

	case *Fun:
		for _, arg := range t.Args {
			n.visit(arg)
		}

	case *Op2:
		n.visit(t.Val0)
		n.visit(t.Val1)

	case *Num:
		// Leaf.
	}
}
