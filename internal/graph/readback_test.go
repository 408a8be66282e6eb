package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/steinerkelvin/Kindelia/internal/term"
)

func roundTrip(t *testing.T, in term.Term) term.Term {
	t.Helper()
	root, err := Build(in, NewLabels())
	require.NoError(t, err)
	out, err := Readback(root)
	require.NoError(t, err)
	return out
}

func TestReadback_RoundTripSharingFree(t *testing.T) {
	tests := []struct {
		name string
		in   term.Term
	}{
		{"identity", &term.Lam{Name: "x", Body: &term.Var{Name: "x"}}},
		{"const", &term.Lam{Name: "x", Body: &term.Lam{Name: "y", Body: &term.Var{Name: "x"}}}},
		{"ctr", &term.Ctr{Name: "Succ", Args: []term.Term{&term.Ctr{Name: "Zero"}}}},
		{"num", term.NewNum(42)},
		{"op2", &term.Op2{Oper: term.Add, Val0: term.NewNum(2), Val1: term.NewNum(3)}},
		{"app", &term.App{
			Func: &term.Lam{Name: "x", Body: &term.Var{Name: "x"}},
			Arg:  term.NewNum(1),
		}},
		{"fun", &term.Fun{Name: "ToSucc", Args: []term.Term{term.NewNum(3)}}},
		{"unused binder", &term.Lam{Name: term.None, Body: term.NewNum(7)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := roundTrip(t, tt.in)
			assert.True(t, term.AlphaEq(tt.in, out),
				"round-trip changed the term: %s vs %s", term.Print(tt.in), term.Print(out))
		})
	}
}

func TestReadback_CanonicalNames(t *testing.T) {
	in := &term.Lam{Name: "foo", Body: &term.Lam{Name: "bar", Body: &term.App{
		Func: &term.Var{Name: "foo"},
		Arg:  &term.Var{Name: "bar"},
	}}}
	out := roundTrip(t, in)
	assert.Equal(t, "λx0(λx1(x0 x1))", term.Print(out))
}

func TestReadback_ProjectionsRematerialize(t *testing.T) {
	// Without reduction, each projection re-reads the shared expression.
	in := &term.Dup{
		Nam0: "a", Nam1: "b",
		Expr: &term.Lam{Name: "x", Body: &term.Var{Name: "x"}},
		Body: &term.Fun{Name: "Pair", Args: []term.Term{
			&term.Var{Name: "a"}, &term.Var{Name: "b"},
		}},
	}
	out := roundTrip(t, in)
	pair, ok := out.(*term.Fun)
	require.True(t, ok)
	require.Len(t, pair.Args, 2)
	assert.True(t, term.AlphaEq(pair.Args[0], pair.Args[1]),
		"both projections read back the same shared expression")
}

func TestReadback_SupChoosesSideFromPath(t *testing.T) {
	// Hand-built graph: dup a b = {#1 #2}; both sides live. Reading the
	// left projection must surface #1, the right #2.
	sup := &Sup{Label: 1, Ref: &SupNode{
		Left:  &Num{Value: term.FromUint64(1)},
		Right: &Num{Value: term.FromUint64(2)},
	}}
	dup := &DupNode{Label: 1, Expr: sup}
	left := &DpxNode{Label: 1, Side: false, Dup: dup}
	right := &DpxNode{Label: 1, Side: true, Dup: dup}
	dup.Left, dup.Right = left, right

	root := &Ctr{Name: "Pair", Args: []Node{&Dpx{Ref: left}, &Dpx{Ref: right}}}
	out, err := Readback(root)
	require.NoError(t, err)
	assert.Equal(t, "{Pair #1 #2}", term.Print(out))
}

func TestReadback_SupOutsideDupScopeIsMalformed(t *testing.T) {
	sup := &Sup{Label: 7, Ref: &SupNode{
		Left:  &Num{Value: term.FromUint64(1)},
		Right: &Num{Value: term.FromUint64(2)},
	}}
	_, err := Readback(sup)
	require.Error(t, err)
	assert.True(t, IsMalformedGraph(err))
}

func TestReadback_FollowsSubstitutions(t *testing.T) {
	// A fired beta leaves the variable occurrence pointing at the
	// argument; readback must be transparent to it.
	vn := &VarNode{Subst: &Num{Value: term.FromUint64(9)}}
	out, err := Readback(&Ctr{Name: "Box", Args: []Node{&Var{Ref: vn}}})
	require.NoError(t, err)
	assert.Equal(t, "{Box #9}", term.Print(out))
}

func TestReadback_DanglingVariableIsMalformed(t *testing.T) {
	_, err := Readback(&Var{Ref: &VarNode{}})
	require.Error(t, err)
	assert.True(t, IsMalformedGraph(err))
}

func TestLabels_Fresh(t *testing.T) {
	l := NewLabels()
	assert.Equal(t, Label(0), l.Current())
	assert.Equal(t, Label(1), l.Fresh())
	assert.Equal(t, Label(2), l.Fresh())
	assert.Equal(t, Label(2), l.Current())
}
