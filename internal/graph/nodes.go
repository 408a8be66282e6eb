// Package graph holds the sharing-graph representation of a term: the node
// model, the constructor that turns a named surface term into a graph, the
// namer that assigns stable display identifiers, and the reader that turns
// a (possibly reduced) graph back into a surface term.
//
// Nodes are identified by pointer: two references to the same node compare
// equal as map keys, which is exactly the memoization contract the namer
// and reader need. Binder nodes and their occurrence nodes reference each
// other, forming intentional cycles; the Go garbage collector handles the
// shared ownership that the original design modeled with reference counts.
package graph

import "github.com/steinerkelvin/Kindelia/internal/term"

// Label identifies one duplication operation. It ties a DupNode to its two
// projections and to any superposition produced by reducing it, and decides
// annihilation versus commutation when a duplication meets a superposition.
type Label uint64

// Node is a sealed interface over the graph term variants. It mirrors
// term.Term but replaces symbolic name references with direct links.
type Node interface {
	node()
}

// VarNode is the single occurrence-site of a lambda binder. Lam points back
// at the binding lambda. Subst is nil while the variable is bound; beta
// reduction installs the argument here, making the occurrence a transparent
// indirection.
type VarNode struct {
	Lam   *LamNode
	Subst Node
}

// DpxNode is one of the two occurrence-sites of a duplication binder.
// Side false is the first binder name, true the second. Subst is installed
// when the duplication fires, resolving this side to its copy.
type DpxNode struct {
	Label Label
	Side  bool
	Dup   *DupNode
	Subst Node
}

// LamNode owns its body and links to its at-most-one variable node.
// Var stays nil when the binder name is never referenced.
type LamNode struct {
	Var  *VarNode
	Body Node
}

// DupNode owns the expression being duplicated and links to its live
// projections. Either side may be nil when the corresponding binder name
// was unused.
type DupNode struct {
	Label Label
	Left  *DpxNode
	Right *DpxNode
	Expr  Node
}

// SupNode is a pair of alternative subterms. Superpositions never come
// from surface syntax; reduction introduces them.
type SupNode struct {
	Left  Node
	Right Node
}

// Var is a variable-occurrence term.
type Var struct {
	Ref *VarNode
}

// Dpx is a projection-occurrence term.
type Dpx struct {
	Ref *DpxNode
}

// Sup is a superposition term tagged with the label of the duplication
// whose interaction produced it.
type Sup struct {
	Label Label
	Ref   *SupNode
}

// Lam is a lambda term.
type Lam struct {
	Ref *LamNode
}

// App is an application term.
type App struct {
	Func Node
	Arg  Node
}

// Ctr is a constructor term.
type Ctr struct {
	Name term.Name
	Args []Node
}

// Fun is a function-call term.
type Fun struct {
	Name term.Name
	Args []Node
}

// Num is a numeric leaf.
type Num struct {
	Value term.U120
}

// Op2 is a binary-operation term.
type Op2 struct {
	Oper term.Oper
	Val0 Node
	Val1 Node
}

func (*Var) node() {}
func (*Dpx) node() {}
func (*Sup) node() {}
func (*Lam) node() {}
func (*App) node() {}
func (*Ctr) node() {}
func (*Fun) node() {}
func (*Num) node() {}
func (*Op2) node() {}
