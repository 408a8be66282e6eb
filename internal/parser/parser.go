// Package parser turns surface syntax into terms and programs.
//
// The term syntax:
//
//	λx(body)  @x body     lambda (λ~(...) for an unused binder)
//	dup a b = expr; body  duplication
//	#123                  number (U120 decimal)
//	{Ctor args...}        constructor
//	(Fun args...)         function call (uppercase head)
//	(f x y)               application spine (lowercase or compound head)
//	(+ a b)               binary operation
//	// ...                line comment
//
// Input is NFC-normalized before scanning, so visually identical
// identifiers compare equal regardless of their Unicode composition.
package parser

import (
	"fmt"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/steinerkelvin/Kindelia/internal/term"
)

// ParseTerm parses a single term and requires the whole input to be
// consumed.
func ParseTerm(src string) (term.Term, error) {
	p := newParser(src)
	t, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	p.skip()
	if !p.eof() {
		return nil, p.errf("trailing input after term")
	}
	return t, nil
}

type parser struct {
	src  []rune
	pos  int
	line int
	col  int
}

func newParser(src string) *parser {
	return &parser{src: []rune(norm.NFC.String(src)), line: 1, col: 1}
}

func (p *parser) eof() bool {
	return p.pos >= len(p.src)
}

func (p *parser) peek() rune {
	if p.eof() {
		return 0
	}
	return p.src[p.pos]
}

func (p *parser) next() rune {
	r := p.src[p.pos]
	p.pos++
	if r == '\n' {
		p.line++
		p.col = 1
	} else {
		p.col++
	}
	return r
}

func (p *parser) errf(format string, args ...any) *ParseError {
	return &ParseError{Line: p.line, Col: p.col, Message: fmt.Sprintf(format, args...)}
}

// skip advances past whitespace and // line comments.
func (p *parser) skip() {
	for !p.eof() {
		r := p.src[p.pos]
		if unicode.IsSpace(r) {
			p.next()
			continue
		}
		if r == '/' && p.pos+1 < len(p.src) && p.src[p.pos+1] == '/' {
			for !p.eof() && p.src[p.pos] != '\n' {
				p.next()
			}
			continue
		}
		break
	}
}

func (p *parser) expect(want rune) error {
	p.skip()
	if p.eof() || p.peek() != want {
		return p.errf("expected %q", string(want))
	}
	p.next()
	return nil
}

func isIdentStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_'
}

func isIdentRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '.'
}

func isOperRune(r rune) bool {
	switch r {
	case '+', '-', '*', '/', '%', '&', '|', '^', '<', '>', '=', '!':
		return true
	}
	return false
}

func isUpperName(name term.Name) bool {
	for _, r := range string(name) {
		return unicode.IsUpper(r)
	}
	return false
}

func (p *parser) ident() (term.Name, error) {
	p.skip()
	if p.eof() || !isIdentStart(p.peek()) {
		return "", p.errf("expected a name")
	}
	start := p.pos
	for !p.eof() && isIdentRune(p.peek()) {
		p.next()
	}
	return term.Name(p.src[start:p.pos]), nil
}

// binder parses a binding occurrence: a lowercase name or ~ for unused.
func (p *parser) binder() (term.Name, error) {
	p.skip()
	if p.peek() == '~' {
		p.next()
		return term.None, nil
	}
	name, err := p.ident()
	if err != nil {
		return "", err
	}
	if isUpperName(name) {
		return "", p.errf("binder %s must be lowercase", name)
	}
	return name, nil
}

func (p *parser) parseTerm() (term.Term, error) {
	p.skip()
	if p.eof() {
		return nil, p.errf("unexpected end of input")
	}
	switch r := p.peek(); {
	case r == 'λ' || r == '@':
		p.next()
		name, err := p.binder()
		if err != nil {
			return nil, err
		}
		body, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		return &term.Lam{Name: name, Body: body}, nil

	case r == '#':
		p.next()
		return p.parseNum()

	case r == '(':
		return p.parseParen()

	case r == '{':
		return p.parseCtr()

	case r == '~':
		// Valid only as a pattern wildcard; declaration parsing relies
		// on it, term construction rejects it.
		p.next()
		return &term.Var{Name: term.None}, nil

	case isIdentStart(r):
		name, err := p.ident()
		if err != nil {
			return nil, err
		}
		if name == "dup" {
			return p.parseDup()
		}
		if isUpperName(name) {
			return nil, p.errf("constructor %s needs braces, calls need parentheses", name)
		}
		return &term.Var{Name: name}, nil

	default:
		return nil, p.errf("unexpected character %q", string(r))
	}
}

func (p *parser) parseNum() (term.Term, error) {
	start := p.pos
	for !p.eof() && unicode.IsDigit(p.peek()) {
		p.next()
	}
	if p.pos == start {
		return nil, p.errf("expected digits after #")
	}
	value, err := term.ParseU120(string(p.src[start:p.pos]))
	if err != nil {
		return nil, p.errf("%v", err)
	}
	return &term.Num{Value: value}, nil
}

// parseParen parses the three head-dispatched forms: (+ a b) operations,
// (Name args...) calls, and (f x y) application spines.
func (p *parser) parseParen() (term.Term, error) {
	if err := p.expect('('); err != nil {
		return nil, err
	}
	p.skip()

	if isOperRune(p.peek()) {
		oper, err := p.parseOper()
		if err != nil {
			return nil, err
		}
		val0, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		val1, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		if err := p.expect(')'); err != nil {
			return nil, err
		}
		return &term.Op2{Oper: oper, Val0: val0, Val1: val1}, nil
	}

	if isIdentStart(p.peek()) && unicode.IsUpper(p.peek()) {
		name, err := p.ident()
		if err != nil {
			return nil, err
		}
		args, err := p.parseArgs(')')
		if err != nil {
			return nil, err
		}
		return &term.Fun{Name: name, Args: args}, nil
	}

	head, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	args, err := p.parseArgs(')')
	if err != nil {
		return nil, err
	}
	for _, arg := range args {
		head = &term.App{Func: head, Arg: arg}
	}
	return head, nil
}

func (p *parser) parseArgs(close rune) ([]term.Term, error) {
	var args []term.Term
	for {
		p.skip()
		if p.eof() {
			return nil, p.errf("expected %q", string(close))
		}
		if p.peek() == close {
			p.next()
			return args, nil
		}
		arg, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}
}

func (p *parser) parseCtr() (term.Term, error) {
	if err := p.expect('{'); err != nil {
		return nil, err
	}
	name, err := p.ident()
	if err != nil {
		return nil, err
	}
	if !isUpperName(name) {
		return nil, p.errf("constructor %s must start uppercase", name)
	}
	args, err := p.parseArgs('}')
	if err != nil {
		return nil, err
	}
	return &term.Ctr{Name: name, Args: args}, nil
}

// parseDup continues after the dup keyword: a b = expr; body.
func (p *parser) parseDup() (term.Term, error) {
	nam0, err := p.binder()
	if err != nil {
		return nil, err
	}
	nam1, err := p.binder()
	if err != nil {
		return nil, err
	}
	if err := p.expect('='); err != nil {
		return nil, err
	}
	expr, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	if err := p.expect(';'); err != nil {
		return nil, err
	}
	body, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	return &term.Dup{Nam0: nam0, Nam1: nam1, Expr: expr, Body: body}, nil
}

// parseOper reads an operator symbol with maximal munch, so << and <=
// win over <.
func (p *parser) parseOper() (term.Oper, error) {
	first := p.next()
	if !p.eof() && isOperRune(p.peek()) {
		two := string(first) + string(p.peek())
		if oper, ok := term.OperFromSymbol(two); ok {
			p.next()
			return oper, nil
		}
	}
	if oper, ok := term.OperFromSymbol(string(first)); ok {
		return oper, nil
	}
	return 0, p.errf("unknown operator %q", string(first))
}
