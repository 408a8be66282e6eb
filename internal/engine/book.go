package engine

import (
	"fmt"

	"github.com/steinerkelvin/Kindelia/internal/term"
)

// Rule is one equation of a function definition: a left-hand pattern per
// argument and a right-hand body instantiated when the patterns match.
type Rule struct {
	Patterns []term.Term
	Body     term.Term
}

// Def is a function definition: equations in declaration order plus the
// per-argument strictness derived from them. Argument i is strict when any
// equation inspects it, meaning its pattern is a number or a constructor
// rather than a bare variable.
type Def struct {
	Name   term.Name
	Arity  int
	Rules  []Rule
	Strict []bool
}

// Book maps function names to their definitions. A Book is populated once
// before evaluation and read-only afterwards; the reducer never mutates it.
type Book struct {
	defs map[term.Name]*Def
}

// NewBook creates an empty function book.
func NewBook() *Book {
	return &Book{defs: map[term.Name]*Def{}}
}

// Lookup returns the definition for name, or nil if none is declared.
func (b *Book) Lookup(name term.Name) *Def {
	return b.defs[name]
}

// Names returns the number of declared functions.
func (b *Book) Names() int {
	return len(b.defs)
}

// Define registers a function. Equations are kept in the order given;
// matching tries them first to last.
//
// Patterns must be flat: a variable (or ~ wildcard), a number, or a
// constructor whose fields are all variables or wildcards. Every equation
// must have exactly arity patterns, and variable names within one equation
// must be distinct, since each binding is consumable once in the body.
func (b *Book) Define(name term.Name, arity int, rules []Rule) error {
	if name == term.None {
		return fmt.Errorf("function name must not be empty")
	}
	if _, dup := b.defs[name]; dup {
		return fmt.Errorf("function %s: already defined", name)
	}
	if len(rules) == 0 {
		return fmt.Errorf("function %s: at least one equation required", name)
	}

	strict := make([]bool, arity)
	for i, rule := range rules {
		if len(rule.Patterns) != arity {
			return fmt.Errorf("function %s: equation %d has %d patterns, want %d",
				name, i, len(rule.Patterns), arity)
		}
		seen := map[term.Name]bool{}
		for j, pat := range rule.Patterns {
			if err := checkPattern(name, i, pat, seen); err != nil {
				return err
			}
			if _, isVar := pat.(*term.Var); !isVar {
				strict[j] = true
			}
		}
	}

	b.defs[name] = &Def{Name: name, Arity: arity, Rules: rules, Strict: strict}
	return nil
}

func checkPattern(fun term.Name, eq int, pat term.Term, seen map[term.Name]bool) error {
	switch p := pat.(type) {
	case *term.Var:
		return bindPatternVar(fun, eq, p.Name, seen)
	case *term.Num:
		return nil
	case *term.Ctr:
		for _, field := range p.Args {
			v, ok := field.(*term.Var)
			if !ok {
				return fmt.Errorf("function %s: equation %d: nested pattern under {%s}, patterns must be flat",
					fun, eq, p.Name)
			}
			if err := bindPatternVar(fun, eq, v.Name, seen); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("function %s: equation %d: %T is not a valid pattern", fun, eq, pat)
	}
}

func bindPatternVar(fun term.Name, eq int, name term.Name, seen map[term.Name]bool) error {
	if name == term.None {
		return nil
	}
	if seen[name] {
		return fmt.Errorf("function %s: equation %d: pattern variable %s bound twice", fun, eq, name)
	}
	seen[name] = true
	return nil
}
