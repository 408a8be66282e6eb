package term

import "fmt"

// Oper identifies a binary operator over the U120 domain.
//
// Comparison and logical operators yield Num 0 or 1. All arithmetic wraps
// around modulo 2^120; division and modulo by zero yield 0. The policy is
// wraparound everywhere so every operator is total and deterministic.
type Oper uint8

const (
	Add Oper = iota
	Sub
	Mul
	Div
	Mod
	And
	Or
	Xor
	Shl
	Shr
	Ltn
	Lte
	Eql
	Gte
	Gtn
	Neq
)

var operSymbols = [...]string{
	Add: "+",
	Sub: "-",
	Mul: "*",
	Div: "/",
	Mod: "%",
	And: "&",
	Or:  "|",
	Xor: "^",
	Shl: "<<",
	Shr: ">>",
	Ltn: "<",
	Lte: "<=",
	Eql: "==",
	Gte: ">=",
	Gtn: ">",
	Neq: "!=",
}

// String returns the surface-syntax symbol for the operator.
func (o Oper) String() string {
	if int(o) < len(operSymbols) {
		return operSymbols[o]
	}
	return fmt.Sprintf("Oper(%d)", uint8(o))
}

// OperFromSymbol maps a surface-syntax symbol to its operator.
func OperFromSymbol(sym string) (Oper, bool) {
	for op, s := range operSymbols {
		if s == sym {
			return Oper(op), true
		}
	}
	return 0, false
}

func boolNum(b bool) U120 {
	if b {
		return FromUint64(1)
	}
	return U120{}
}

// Eval applies the operator to two U120 values.
func (o Oper) Eval(a, b U120) U120 {
	switch o {
	case Add:
		return a.Add(b)
	case Sub:
		return a.Sub(b)
	case Mul:
		return a.Mul(b)
	case Div:
		q, _ := a.DivMod(b)
		return q
	case Mod:
		_, r := a.DivMod(b)
		return r
	case And:
		return a.And(b)
	case Or:
		return a.Or(b)
	case Xor:
		return a.Xor(b)
	case Shl:
		return a.Shl(b)
	case Shr:
		return a.Shr(b)
	case Ltn:
		return boolNum(a.Cmp(b) < 0)
	case Lte:
		return boolNum(a.Cmp(b) <= 0)
	case Eql:
		return boolNum(a.Cmp(b) == 0)
	case Gte:
		return boolNum(a.Cmp(b) >= 0)
	case Gtn:
		return boolNum(a.Cmp(b) > 0)
	case Neq:
		return boolNum(a.Cmp(b) != 0)
	default:
		return U120{}
	}
}
