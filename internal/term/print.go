package term

import (
	"fmt"
	"strings"
)

// String renders the term in surface syntax. The output parses back to a
// structurally identical term, so print-then-parse is the identity on
// canonical forms.
func Print(t Term) string {
	var sb strings.Builder
	printTerm(&sb, t)
	return sb.String()
}

func printName(sb *strings.Builder, n Name) {
	if n == None {
		sb.WriteByte('~')
		return
	}
	sb.WriteString(string(n))
}

func printTerm(sb *strings.Builder, t Term) {
	switch x := t.(type) {
	case *Var:
		printName(sb, x.Name)
	case *Dup:
		sb.WriteString("dup ")
		printName(sb, x.Nam0)
		sb.WriteByte(' ')
		printName(sb, x.Nam1)
		sb.WriteString(" = ")
		printTerm(sb, x.Expr)
		sb.WriteString("; ")
		printTerm(sb, x.Body)
	case *Lam:
		sb.WriteString("λ")
		printName(sb, x.Name)
		// A parenthesized body supplies its own delimiters: λx(Pair x y),
		// not λx((Pair x y)).
		if bodyDelimited(x.Body) {
			printTerm(sb, x.Body)
		} else {
			sb.WriteByte('(')
			printTerm(sb, x.Body)
			sb.WriteByte(')')
		}
	case *App:
		sb.WriteByte('(')
		printAppSpine(sb, x)
		sb.WriteByte(')')
	case *Ctr:
		sb.WriteByte('{')
		sb.WriteString(string(x.Name))
		for _, arg := range x.Args {
			sb.WriteByte(' ')
			printTerm(sb, arg)
		}
		sb.WriteByte('}')
	case *Fun:
		sb.WriteByte('(')
		sb.WriteString(string(x.Name))
		for _, arg := range x.Args {
			sb.WriteByte(' ')
			printTerm(sb, arg)
		}
		sb.WriteByte(')')
	case *Num:
		sb.WriteByte('#')
		sb.WriteString(x.Value.String())
	case *Op2:
		sb.WriteByte('(')
		sb.WriteString(x.Oper.String())
		sb.WriteByte(' ')
		printTerm(sb, x.Val0)
		sb.WriteByte(' ')
		printTerm(sb, x.Val1)
		sb.WriteByte(')')
	default:
		fmt.Fprintf(sb, "<?%T>", t)
	}
}

// bodyDelimited reports whether the term prints with its own outer
// delimiters, making extra lambda-body parentheses redundant.
func bodyDelimited(t Term) bool {
	switch t.(type) {
	case *App, *Ctr, *Fun, *Op2:
		return true
	default:
		return false
	}
}

// printAppSpine flattens nested applications: App(App(f,x),y) prints as
// (f x y), which the parser folds back into the same left-nested spine.
func printAppSpine(sb *strings.Builder, a *App) {
	if inner, ok := a.Func.(*App); ok {
		printAppSpine(sb, inner)
	} else {
		printTerm(sb, a.Func)
	}
	sb.WriteByte(' ')
	printTerm(sb, a.Arg)
}

func (x *Var) String() string { return Print(x) }
func (x *Dup) String() string { return Print(x) }
func (x *Lam) String() string { return Print(x) }
func (x *App) String() string { return Print(x) }
func (x *Ctr) String() string { return Print(x) }
func (x *Fun) String() string { return Print(x) }
func (x *Num) String() string { return Print(x) }
func (x *Op2) String() string { return Print(x) }
