package term

import (
	"fmt"
	"math/bits"
	"strings"
)

// U120 is a 120-bit unsigned integer, the numeric domain of the calculus.
//
// The value is hi*2^64 + lo with hi always below 2^56. Every operation
// wraps around modulo 2^120, so arithmetic is total and identical on all
// platforms.
type U120 struct {
	Hi uint64 // high 56 bits, invariant: Hi < 1<<56
	Lo uint64 // low 64 bits
}

const hiMask = (uint64(1) << 56) - 1

// MaxU120 is 2^120 - 1.
var MaxU120 = U120{Hi: hiMask, Lo: ^uint64(0)}

// FromUint64 widens a uint64 into the U120 domain.
func FromUint64(v uint64) U120 {
	return U120{Lo: v}
}

// IsZero reports whether the value is 0.
func (a U120) IsZero() bool {
	return a.Hi == 0 && a.Lo == 0
}

// Uint64 narrows to uint64, reporting whether the value fits.
func (a U120) Uint64() (uint64, bool) {
	return a.Lo, a.Hi == 0
}

// Cmp returns -1, 0, or 1 comparing a against b.
func (a U120) Cmp(b U120) int {
	switch {
	case a.Hi < b.Hi:
		return -1
	case a.Hi > b.Hi:
		return 1
	case a.Lo < b.Lo:
		return -1
	case a.Lo > b.Lo:
		return 1
	default:
		return 0
	}
}

// Add returns a+b mod 2^120.
func (a U120) Add(b U120) U120 {
	lo, carry := bits.Add64(a.Lo, b.Lo, 0)
	return U120{Hi: (a.Hi + b.Hi + carry) & hiMask, Lo: lo}
}

// Sub returns a-b mod 2^120.
func (a U120) Sub(b U120) U120 {
	lo, borrow := bits.Sub64(a.Lo, b.Lo, 0)
	return U120{Hi: (a.Hi - b.Hi - borrow) & hiMask, Lo: lo}
}

// Mul returns a*b mod 2^120.
func (a U120) Mul(b U120) U120 {
	hi, lo := bits.Mul64(a.Lo, b.Lo)
	hi += a.Lo*b.Hi + a.Hi*b.Lo
	return U120{Hi: hi & hiMask, Lo: lo}
}

// And returns the bitwise conjunction.
func (a U120) And(b U120) U120 {
	return U120{Hi: a.Hi & b.Hi, Lo: a.Lo & b.Lo}
}

// Or returns the bitwise disjunction.
func (a U120) Or(b U120) U120 {
	return U120{Hi: a.Hi | b.Hi, Lo: a.Lo | b.Lo}
}

// Xor returns the bitwise exclusive disjunction.
func (a U120) Xor(b U120) U120 {
	return U120{Hi: a.Hi ^ b.Hi, Lo: a.Lo ^ b.Lo}
}

// Shl returns a shifted left by b bits; shifts of 120 or more yield 0.
func (a U120) Shl(b U120) U120 {
	n, ok := b.Uint64()
	if !ok || n >= 120 {
		return U120{}
	}
	if n >= 64 {
		return U120{Hi: (a.Lo << (n - 64)) & hiMask}
	}
	if n == 0 {
		return a
	}
	return U120{Hi: ((a.Hi << n) | (a.Lo >> (64 - n))) & hiMask, Lo: a.Lo << n}
}

// Shr returns a shifted right by b bits; shifts of 120 or more yield 0.
func (a U120) Shr(b U120) U120 {
	n, ok := b.Uint64()
	if !ok || n >= 120 {
		return U120{}
	}
	if n >= 64 {
		return U120{Lo: a.Hi >> (n - 64)}
	}
	if n == 0 {
		return a
	}
	return U120{Hi: a.Hi >> n, Lo: (a.Lo >> n) | (a.Hi << (64 - n))}
}

func (a U120) bit(i uint) uint64 {
	if i >= 64 {
		return (a.Hi >> (i - 64)) & 1
	}
	return (a.Lo >> i) & 1
}

// DivMod returns the quotient and remainder of a/b.
// Division by zero yields (0, 0) rather than faulting.
func (a U120) DivMod(b U120) (q, r U120) {
	if b.IsZero() {
		return U120{}, U120{}
	}
	if a.Cmp(b) < 0 {
		return U120{}, a
	}
	// Shift-subtract long division, most significant bit first.
	for i := 119; i >= 0; i-- {
		r = r.Shl(FromUint64(1))
		r.Lo |= a.bit(uint(i))
		if r.Cmp(b) >= 0 {
			r = r.Sub(b)
			if i >= 64 {
				q.Hi |= 1 << (uint(i) - 64)
			} else {
				q.Lo |= 1 << uint(i)
			}
		}
	}
	return q, r
}

// divModSmall divides by a uint64, used for decimal formatting.
func (a U120) divModSmall(d uint64) (q U120, r uint64) {
	qHi := a.Hi / d
	rem := a.Hi % d
	qLo, r := bits.Div64(rem, a.Lo, d)
	return U120{Hi: qHi, Lo: qLo}, r
}

// String formats the value in decimal.
func (a U120) String() string {
	if a.IsZero() {
		return "0"
	}
	var sb strings.Builder
	for !a.IsZero() {
		var digit uint64
		a, digit = a.divModSmall(10)
		sb.WriteByte(byte('0' + digit))
	}
	s := []byte(sb.String())
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
	return string(s)
}

// ParseU120 parses a decimal numeral, rejecting values of 2^120 or more.
func ParseU120(s string) (U120, error) {
	if s == "" {
		return U120{}, fmt.Errorf("empty numeral")
	}
	var v U120
	ten := FromUint64(10)
	for _, c := range s {
		if c < '0' || c > '9' {
			return U120{}, fmt.Errorf("invalid digit %q in numeral %q", c, s)
		}
		d := uint64(c - '0')
		if cmp := v.Cmp(maxDivTen); cmp > 0 || (cmp == 0 && d > maxLastDigit) {
			return U120{}, fmt.Errorf("numeral %q overflows the 120-bit domain", s)
		}
		v = v.Mul(ten).Add(FromUint64(d))
	}
	return v, nil
}

// maxDivTen and maxLastDigit split 2^120-1 into floor(max/10) and max%10,
// the bounds for accepting one more decimal digit without overflow.
var maxDivTen, maxLastDigit = func() (U120, uint64) {
	q, r := MaxU120.DivMod(FromUint64(10))
	return q, r.Lo
}()
