package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/steinerkelvin/Kindelia/internal/term"
)

func TestBuild_Lambda(t *testing.T) {
	// λx(x): the variable occurrence back-references the lambda node.
	in := &term.Lam{Name: "x", Body: &term.Var{Name: "x"}}
	root, err := Build(in, NewLabels())
	require.NoError(t, err)

	lam, ok := root.(*Lam)
	require.True(t, ok)
	require.NotNil(t, lam.Ref.Var, "binder was referenced, variable node must exist")

	occ, ok := lam.Ref.Body.(*Var)
	require.True(t, ok)
	assert.Same(t, lam.Ref, occ.Ref.Lam, "occurrence must back-reference its binder")
	assert.Same(t, lam.Ref.Var, occ.Ref, "lambda links the same variable node the occurrence uses")
}

func TestBuild_UnusedBinder(t *testing.T) {
	in := &term.Lam{Name: term.None, Body: term.NewNum(1)}
	root, err := Build(in, NewLabels())
	require.NoError(t, err)

	lam := root.(*Lam)
	assert.Nil(t, lam.Ref.Var, "unused binder slot allocates no variable node")
}

func TestBuild_UnboundVariable(t *testing.T) {
	_, err := Build(&term.Var{Name: "x"}, NewLabels())
	require.Error(t, err)
	assert.True(t, IsUnboundVariable(err))

	var ue *UnboundVariableError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, term.Name("x"), ue.Name)
}

func TestBuild_LinearityRejectsSecondUse(t *testing.T) {
	// λx((x x)): second occurrence of x finds an empty stack.
	in := &term.Lam{Name: "x", Body: &term.App{
		Func: &term.Var{Name: "x"},
		Arg:  &term.Var{Name: "x"},
	}}
	_, err := Build(in, NewLabels())
	require.Error(t, err)
	assert.True(t, IsUnboundVariable(err))
}

func TestBuild_ShadowingConsumesInnermostFirst(t *testing.T) {
	// λx(λx(x)): the occurrence consumes the inner binder; the outer
	// binder stays unused.
	in := &term.Lam{Name: "x", Body: &term.Lam{Name: "x", Body: &term.Var{Name: "x"}}}
	root, err := Build(in, NewLabels())
	require.NoError(t, err)

	outer := root.(*Lam)
	inner := outer.Ref.Body.(*Lam)
	occ := inner.Ref.Body.(*Var)
	assert.Same(t, inner.Ref, occ.Ref.Lam, "occurrence binds to the innermost pending binder")
	require.NotNil(t, inner.Ref.Var)
	require.NotNil(t, outer.Ref.Var, "outer binder's variable node was allocated when pushed")
}

func TestBuild_DupProjections(t *testing.T) {
	// dup a b = #7; (Pair a b)
	in := &term.Dup{
		Nam0: "a",
		Nam1: "b",
		Expr: term.NewNum(7),
		Body: &term.Fun{Name: "Pair", Args: []term.Term{
			&term.Var{Name: "a"},
			&term.Var{Name: "b"},
		}},
	}
	labels := NewLabels()
	root, err := Build(in, labels)
	require.NoError(t, err)

	pair, ok := root.(*Fun)
	require.True(t, ok, "the dup node is reachable only through its projections")
	require.Len(t, pair.Args, 2)

	left := pair.Args[0].(*Dpx)
	right := pair.Args[1].(*Dpx)
	assert.False(t, left.Ref.Side)
	assert.True(t, right.Ref.Side)
	assert.Same(t, left.Ref.Dup, right.Ref.Dup, "both projections share one duplication node")
	assert.Equal(t, left.Ref.Label, right.Ref.Label)

	dup := left.Ref.Dup
	assert.Same(t, dup.Left, left.Ref)
	assert.Same(t, dup.Right, right.Ref)
	assert.Equal(t, dup.Label, left.Ref.Label)
}

func TestBuild_DupUnusedSide(t *testing.T) {
	in := &term.Dup{Nam0: "a", Nam1: term.None, Expr: term.NewNum(1), Body: &term.Var{Name: "a"}}
	root, err := Build(in, NewLabels())
	require.NoError(t, err)

	dpx := root.(*Dpx)
	dup := dpx.Ref.Dup
	assert.NotNil(t, dup.Left)
	assert.Nil(t, dup.Right, "unused binder side installs no projection")
}

func TestBuild_FreshLabelPerDup(t *testing.T) {
	in := &term.Dup{
		Nam0: "a", Nam1: term.None, Expr: term.NewNum(1),
		Body: &term.Dup{
			Nam0: "b", Nam1: term.None, Expr: term.NewNum(2),
			Body: &term.Fun{Name: "Pair", Args: []term.Term{
				&term.Var{Name: "a"}, &term.Var{Name: "b"},
			}},
		},
	}
	root, err := Build(in, NewLabels())
	require.NoError(t, err)

	pair := root.(*Fun)
	a := pair.Args[0].(*Dpx)
	b := pair.Args[1].(*Dpx)
	assert.NotEqual(t, a.Ref.Label, b.Ref.Label, "each dup instance gets a fresh label")
}

func TestBuild_DupIsStrict(t *testing.T) {
	// dup a b = a; a — the expression is built before the binders become
	// visible, so the inner occurrence of a is unbound.
	in := &term.Dup{Nam0: "a", Nam1: "b", Expr: &term.Var{Name: "a"}, Body: &term.Var{Name: "a"}}
	_, err := Build(in, NewLabels())
	require.Error(t, err)
	assert.True(t, IsUnboundVariable(err))
}

func TestBuildWith_SeededEnvironment(t *testing.T) {
	labels := NewLabels()
	seed := &Num{Value: term.FromUint64(9)}
	root, err := BuildWith(&term.Ctr{Name: "Box", Args: []term.Term{&term.Var{Name: "v"}}},
		labels, map[term.Name]Node{"v": seed})
	require.NoError(t, err)

	box := root.(*Ctr)
	assert.Same(t, seed, box.Args[0], "seeded binding is spliced in, not copied")
}

func TestBuildWith_SeededBindingIsLinear(t *testing.T) {
	labels := NewLabels()
	seed := &Num{Value: term.FromUint64(9)}
	_, err := BuildWith(&term.Ctr{Name: "Two", Args: []term.Term{
		&term.Var{Name: "v"}, &term.Var{Name: "v"},
	}}, labels, map[term.Name]Node{"v": seed})
	require.Error(t, err)
	assert.True(t, IsUnboundVariable(err), "a seeded binding is consumable once")
}

func TestBuild_NumKeepsValue(t *testing.T) {
	root, err := Build(&term.Num{Value: term.MaxU120}, NewLabels())
	require.NoError(t, err)
	num := root.(*Num)
	assert.Equal(t, term.MaxU120, num.Value)
}
