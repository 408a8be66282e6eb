package term

// Term is a sealed interface over the surface-term variants.
// Only Var, Dup, Lam, App, Ctr, Fun, Num, and Op2 implement it.
//
// A Term is a plain named tree: binders introduce symbolic names and
// occurrences refer to them by name. Sharing is expressed only through
// explicit dup binders; the graph package turns the name discipline into
// direct node links.
type Term interface {
	term() // Sealed - only the variants in this file implement it
}

// Name is a symbolic identifier for variables, constructors, and functions.
// The zero value None marks an unused binder slot.
type Name string

// None is the unused-binder sentinel. A lambda or dup binder slot holding
// None introduces no occurrence.
const None Name = ""

// Var is a variable occurrence.
type Var struct {
	Name Name
}

// Dup is an explicit duplication binder: `dup a b = expr; body`.
// Nam0 and Nam1 name the two projections of Expr inside Body; either may
// be None when a side is unused.
type Dup struct {
	Nam0 Name
	Nam1 Name
	Expr Term
	Body Term
}

// Lam is a lambda abstraction with an at-most-once bound name.
type Lam struct {
	Name Name
	Body Term
}

// App is a function application.
type App struct {
	Func Term
	Arg  Term
}

// Ctr is a constructor applied to zero or more arguments.
type Ctr struct {
	Name Name
	Args []Term
}

// Fun is a named function call, matched against the equations of a book.
type Fun struct {
	Name Name
	Args []Term
}

// Num is a numeric literal in the U120 domain.
type Num struct {
	Value U120
}

// Op2 is a binary operation over two numeric subterms.
type Op2 struct {
	Oper Oper
	Val0 Term
	Val1 Term
}

func (*Var) term() {}
func (*Dup) term() {}
func (*Lam) term() {}
func (*App) term() {}
func (*Ctr) term() {}
func (*Fun) term() {}
func (*Num) term() {}
func (*Op2) term() {}

// NewNum builds a Num literal from a uint64.
func NewNum(v uint64) *Num {
	return &Num{Value: FromUint64(v)}
}
