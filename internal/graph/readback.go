package graph

import (
	"fmt"

	"github.com/steinerkelvin/Kindelia/internal/term"
)

// wutName is the sentinel for a live variable whose lambda never received
// an id. Build never produces such a graph; partially reduced graphs
// handed in from outside might.
const wutName term.Name = "___"

// Readback translates a node graph back into a surface term, following
// substitution indirections left by reduction. Lambda binders are renamed
// to x<id> from AssignNames.
//
// Sharing is resolved with per-label side stacks: entering a projection
// pushes its side, and a superposition with the same label consumes the
// top of that stack to choose an alternative. A superposition reached with
// an empty stack for its label sits outside the scope of any duplication
// projection; that graph is malformed and Readback reports it rather than
// guessing a side.
func Readback(root Node) (term.Term, error) {
	r := &reader{
		names: AssignNames(root),
		paths: map[Label][]bool{},
	}
	return r.read(root)
}

type reader struct {
	names Names
	paths map[Label][]bool
}

func (r *reader) varName(key any) term.Name {
	id, ok := r.names[key]
	if !ok {
		return wutName
	}
	return term.Name(fmt.Sprintf("x%d", id))
}

func (r *reader) read(x Node) (term.Term, error) {
	switch t := x.(type) {
	case *Var:
		if t.Ref.Subst != nil {
			return r.read(t.Ref.Subst)
		}
		if t.Ref.Lam == nil {
			return nil, &MalformedGraphError{Reason: "variable occurrence with no binding lambda"}
		}
		return &term.Var{Name: r.varName(t.Ref)}, nil

	case *Dpx:
		if t.Ref.Subst != nil {
			return r.read(t.Ref.Subst)
		}
		if t.Ref.Dup == nil {
			return nil, &MalformedGraphError{Reason: "projection occurrence with no duplication node"}
		}
		// Projections are transparent: push the side, re-read the shared
		// expression, pop. Each occurrence re-materializes the subterm;
		// sharing is a graph property, not a property of the emitted tree.
		label := t.Ref.Label
		r.paths[label] = append(r.paths[label], t.Ref.Side)
		expr, err := r.read(t.Ref.Dup.Expr)
		r.paths[label] = r.paths[label][:len(r.paths[label])-1]
		if err != nil {
			return nil, err
		}
		return expr, nil

	case *Sup:
		stack := r.paths[t.Label]
		if len(stack) == 0 {
			return nil, &MalformedGraphError{
				Reason: fmt.Sprintf("superposition with label %d outside any duplication scope", t.Label),
			}
		}
		// The matching projection entry is consumed by this superposition,
		// mirroring duplication/superposition annihilation: a nested
		// same-label superposition belongs to the next outer projection.
		side := stack[len(stack)-1]
		r.paths[t.Label] = stack[:len(stack)-1]
		var chosen Node
		if !side {
			chosen = t.Ref.Left
		} else {
			chosen = t.Ref.Right
		}
		out, err := r.read(chosen)
		r.paths[t.Label] = append(r.paths[t.Label], side)
		if err != nil {
			return nil, err
		}
		return out, nil

	case *Lam:
		name := term.None
		if t.Ref.Var != nil && t.Ref.Var.Subst == nil {
			name = r.varName(t.Ref.Var)
		}
		body, err := r.read(t.Ref.Body)
		if err != nil {
			return nil, err
		}
		return &term.Lam{Name: name, Body: body}, nil

	case *App:
		fn, err := r.read(t.Func)
		if err != nil {
			return nil, err
		}
		arg, err := r.read(t.Arg)
		if err != nil {
			return nil, err
		}
		return &term.App{Func: fn, Arg: arg}, nil

	case *Ctr:
		args, err := r.readArgs(t.Args)
		if err != nil {
			return nil, err
		}
		return &term.Ctr{Name: t.Name, Args: args}, nil

	case *Fun:
		args, err := r.readArgs(t.Args)
		if err != nil {
			return nil, err
		}
		return &term.Fun{Name: t.Name, Args: args}, nil

	case *Num:
		return &term.Num{Value: t.Value}, nil

	case *Op2:
		val0, err := r.read(t.Val0)
		if err != nil {
			return nil, err
		}
		val1, err := r.read(t.Val1)
		if err != nil {
			return nil, err
		}
		return &term.Op2{Oper: t.Oper, Val0: val0, Val1: val1}, nil

	default:
		return nil, &MalformedGraphError{Reason: fmt.Sprintf("unknown node variant %T", x)}
	}
}

func (r *reader) readArgs(args []Node) ([]term.Term, error) {
	out := make([]term.Term, len(args))
	for i, arg := range args {
		read, err := r.read(arg)
		if err != nil {
			return nil, err
		}
		out[i] = read
	}
	return out, nil
}
