package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/steinerkelvin/Kindelia/internal/term"
)

func mustBuild(t *testing.T, in term.Term) Node {
	t.Helper()
	root, err := Build(in, NewLabels())
	require.NoError(t, err)
	return root
}

func TestAssignNames_LambdaOrder(t *testing.T) {
	// λx(λy((x y))): pre-order assigns x before y.
	in := &term.Lam{Name: "x", Body: &term.Lam{Name: "y", Body: &term.App{
		Func: &term.Var{Name: "x"},
		Arg:  &term.Var{Name: "y"},
	}}}
	root := mustBuild(t, in)
	names := AssignNames(root)

	outer := root.(*Lam)
	inner := outer.Ref.Body.(*Lam)
	assert.Equal(t, 0, names[outer.Ref.Var])
	assert.Equal(t, 1, names[inner.Ref.Var])
	assert.Len(t, names, 2)
}

func TestAssignNames_DupVisitedOnce(t *testing.T) {
	// dup a b = λx(x); (Pair a b): one id for the dup, one for the shared
	// lambda's variable, no matter that two projections reach them.
	in := &term.Dup{
		Nam0: "a", Nam1: "b",
		Expr: &term.Lam{Name: "x", Body: &term.Var{Name: "x"}},
		Body: &term.Fun{Name: "Pair", Args: []term.Term{
			&term.Var{Name: "a"}, &term.Var{Name: "b"},
		}},
	}
	root := mustBuild(t, in)
	names := AssignNames(root)

	pair := root.(*Fun)
	dup := pair.Args[0].(*Dpx).Ref.Dup
	lam := dup.Expr.(*Lam)

	require.Contains(t, names, dup)
	require.Contains(t, names, lam.Ref.Var)
	assert.Len(t, names, 2, "shared subgraph named once")
	assert.Equal(t, 0, names[dup], "dup reached first via the left projection")
	assert.Equal(t, 1, names[lam.Ref.Var])
}

func TestAssignNames_Deterministic(t *testing.T) {
	in := &term.Dup{
		Nam0: "a", Nam1: "b",
		Expr: &term.Lam{Name: "x", Body: &term.Var{Name: "x"}},
		Body: &term.Fun{Name: "Pair", Args: []term.Term{
			&term.Var{Name: "a"}, &term.Var{Name: "b"},
		}},
	}
	root := mustBuild(t, in)

	first := AssignNames(root)
	second := AssignNames(root)
	assert.Equal(t, first, second, "naming is a pure function of graph shape")
}

func TestAssignNames_UnnamedLambdaBodyStillVisited(t *testing.T) {
	// λ~(λy(y)): the unnamed lambda gets no id but its body is entered.
	in := &term.Lam{Name: term.None, Body: &term.Lam{Name: "y", Body: &term.Var{Name: "y"}}}
	root := mustBuild(t, in)
	names := AssignNames(root)

	inner := root.(*Lam).Ref.Body.(*Lam)
	assert.Len(t, names, 1)
	assert.Equal(t, 0, names[inner.Ref.Var])
}

func TestAssignNames_FollowsSubstitutions(t *testing.T) {
	// Simulate a fired beta: the variable occurrence now points at a
	// lambda. The namer must name through the indirection.
	target := &term.Lam{Name: "y", Body: &term.Var{Name: "y"}}
	targetRoot := mustBuild(t, target)

	vn := &VarNode{Subst: targetRoot}
	names := AssignNames(&Var{Ref: vn})
	inner := targetRoot.(*Lam)
	assert.Equal(t, 0, names[inner.Ref.Var])
}
