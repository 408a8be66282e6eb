package parser

import (
	"fmt"

	"github.com/steinerkelvin/Kindelia/internal/term"
)

// Program is a parsed source file: constructor declarations, function
// declarations in source order, and the optional run block.
type Program struct {
	Ctrs []CtrDecl
	Funs []FunDecl
	Main term.Term
}

// CtrDecl declares a constructor and its field count.
//
//	ctr {Pair fst snd}
type CtrDecl struct {
	Name  term.Name
	Arity int
}

// FunDecl declares a function: arity from the signature, equations in
// source order.
//
//	fun (Not b) {
//	  (Not #0) = #1
//	  (Not ~)  = #0
//	}
type FunDecl struct {
	Name  term.Name
	Arity int
	Rules []RuleDecl
}

// RuleDecl is one equation: flat patterns and a body.
type RuleDecl struct {
	Patterns []term.Term
	Body     term.Term
}

// ParseProgram parses a full source file of ctr, fun, and run blocks.
// At most one run block is allowed; Main is nil when there is none.
func ParseProgram(src string) (*Program, error) {
	p := newParser(src)
	prog := &Program{}
	for {
		p.skip()
		if p.eof() {
			return prog, nil
		}
		kw, err := p.ident()
		if err != nil {
			return nil, err
		}
		switch kw {
		case "ctr":
			decl, err := p.parseCtrDecl()
			if err != nil {
				return nil, err
			}
			prog.Ctrs = append(prog.Ctrs, decl)
		case "fun":
			decl, err := p.parseFunDecl()
			if err != nil {
				return nil, err
			}
			prog.Funs = append(prog.Funs, decl)
		case "run":
			if prog.Main != nil {
				return nil, p.errf("duplicate run block")
			}
			if err := p.expect('{'); err != nil {
				return nil, err
			}
			main, err := p.parseTerm()
			if err != nil {
				return nil, err
			}
			if err := p.expect('}'); err != nil {
				return nil, err
			}
			prog.Main = main
		default:
			return nil, p.errf("unknown declaration %s, want ctr, fun, or run", kw)
		}
	}
}

// Validate checks every constructor use in the program against the ctr
// declarations: equation patterns, equation bodies, and the run block must
// all apply a declared constructor to its declared number of fields.
// Constructors with no declaration pass; declaring is optional.
func (p *Program) Validate() error {
	arities := map[term.Name]int{}
	for _, decl := range p.Ctrs {
		if prev, ok := arities[decl.Name]; ok && prev != decl.Arity {
			return fmt.Errorf("constructor %s declared with %d fields and again with %d", decl.Name, prev, decl.Arity)
		}
		arities[decl.Name] = decl.Arity
	}
	for _, fun := range p.Funs {
		for _, rule := range fun.Rules {
			for _, pat := range rule.Patterns {
				if err := checkCtrArities(pat, arities); err != nil {
					return fmt.Errorf("fun %s: %w", fun.Name, err)
				}
			}
			if err := checkCtrArities(rule.Body, arities); err != nil {
				return fmt.Errorf("fun %s: %w", fun.Name, err)
			}
		}
	}
	if p.Main != nil {
		return checkCtrArities(p.Main, arities)
	}
	return nil
}

func checkCtrArities(t term.Term, arities map[term.Name]int) error {
	switch x := t.(type) {
	case *term.Ctr:
		if want, ok := arities[x.Name]; ok && want != len(x.Args) {
			return fmt.Errorf("constructor %s takes %d fields, got %d", x.Name, want, len(x.Args))
		}
		for _, arg := range x.Args {
			if err := checkCtrArities(arg, arities); err != nil {
				return err
			}
		}
	case *term.Fun:
		for _, arg := range x.Args {
			if err := checkCtrArities(arg, arities); err != nil {
				return err
			}
		}
	case *term.Dup:
		if err := checkCtrArities(x.Expr, arities); err != nil {
			return err
		}
		return checkCtrArities(x.Body, arities)
	case *term.Lam:
		return checkCtrArities(x.Body, arities)
	case *term.App:
		if err := checkCtrArities(x.Func, arities); err != nil {
			return err
		}
		return checkCtrArities(x.Arg, arities)
	case *term.Op2:
		if err := checkCtrArities(x.Val0, arities); err != nil {
			return err
		}
		return checkCtrArities(x.Val1, arities)
	}
	return nil
}

func (p *parser) parseCtrDecl() (CtrDecl, error) {
	if err := p.expect('{'); err != nil {
		return CtrDecl{}, err
	}
	name, err := p.ident()
	if err != nil {
		return CtrDecl{}, err
	}
	if !isUpperName(name) {
		return CtrDecl{}, p.errf("constructor %s must start uppercase", name)
	}
	arity := 0
	for {
		p.skip()
		if p.eof() {
			return CtrDecl{}, p.errf("expected \"}\"")
		}
		if p.peek() == '}' {
			p.next()
			return CtrDecl{Name: name, Arity: arity}, nil
		}
		if _, err := p.binder(); err != nil {
			return CtrDecl{}, err
		}
		arity++
	}
}

func (p *parser) parseFunDecl() (FunDecl, error) {
	name, arity, _, err := p.parseCallHead()
	if err != nil {
		return FunDecl{}, err
	}
	if err := p.expect('{'); err != nil {
		return FunDecl{}, err
	}

	decl := FunDecl{Name: name, Arity: arity}
	for {
		p.skip()
		if p.eof() {
			return FunDecl{}, p.errf("expected \"}\"")
		}
		if p.peek() == '}' {
			p.next()
			return decl, nil
		}
		rule, err := p.parseRule(name)
		if err != nil {
			return FunDecl{}, err
		}
		decl.Rules = append(decl.Rules, rule)
	}
}

// parseRule parses one equation: (Name pats...) = body.
func (p *parser) parseRule(fun term.Name) (RuleDecl, error) {
	name, _, patterns, err := p.parseCallHead()
	if err != nil {
		return RuleDecl{}, err
	}
	if name != fun {
		return RuleDecl{}, p.errf("equation for %s inside fun %s", name, fun)
	}
	if err := p.expect('='); err != nil {
		return RuleDecl{}, err
	}
	body, err := p.parseTerm()
	if err != nil {
		return RuleDecl{}, err
	}
	return RuleDecl{Patterns: patterns, Body: body}, nil
}

// parseCallHead parses (Name args...) where args are pattern terms.
// Used for both fun signatures (args fix the arity) and equation
// left-hand sides (args are the patterns).
func (p *parser) parseCallHead() (term.Name, int, []term.Term, error) {
	if err := p.expect('('); err != nil {
		return "", 0, nil, err
	}
	name, err := p.ident()
	if err != nil {
		return "", 0, nil, err
	}
	if !isUpperName(name) {
		return "", 0, nil, p.errf("function %s must start uppercase", name)
	}
	args, err := p.parseArgs(')')
	if err != nil {
		return "", 0, nil, err
	}
	return name, len(args), args, nil
}
