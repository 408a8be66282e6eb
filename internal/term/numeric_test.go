package term

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestU120_AddWraps(t *testing.T) {
	assert.Equal(t, FromUint64(5), FromUint64(2).Add(FromUint64(3)))

	// 2^120-1 + 1 wraps to 0
	assert.Equal(t, U120{}, MaxU120.Add(FromUint64(1)))

	// Carry across the limb boundary
	a := U120{Lo: ^uint64(0)}
	assert.Equal(t, U120{Hi: 1, Lo: 0}, a.Add(FromUint64(1)))
}

func TestU120_SubWraps(t *testing.T) {
	assert.Equal(t, FromUint64(1), FromUint64(3).Sub(FromUint64(2)))

	// 0 - 1 wraps to 2^120-1
	assert.Equal(t, MaxU120, FromUint64(0).Sub(FromUint64(1)))

	// Borrow across the limb boundary
	assert.Equal(t, U120{Lo: ^uint64(0)}, U120{Hi: 1}.Sub(FromUint64(1)))
}

func TestU120_Mul(t *testing.T) {
	assert.Equal(t, FromUint64(42), FromUint64(6).Mul(FromUint64(7)))

	// (2^64)*(2^56) = 2^120 wraps to 0
	p64 := U120{Hi: 1}
	p56 := FromUint64(1 << 56)
	assert.Equal(t, U120{}, p64.Mul(p56))

	// (2^60)^2 = 2^120 wraps to 0; (2^59)^2 = 2^118 stays
	p60 := FromUint64(1 << 60)
	assert.Equal(t, U120{}, p60.Mul(p60))
	p59 := FromUint64(1 << 59)
	assert.Equal(t, U120{Hi: 1 << 54}, p59.Mul(p59))
}

func TestU120_DivMod(t *testing.T) {
	tests := []struct {
		name string
		a, b U120
		q, r U120
	}{
		{"small", FromUint64(17), FromUint64(5), FromUint64(3), FromUint64(2)},
		{"exact", FromUint64(42), FromUint64(7), FromUint64(6), FromUint64(0)},
		{"dividend smaller", FromUint64(3), FromUint64(7), FromUint64(0), FromUint64(3)},
		{"by zero", FromUint64(9), FromUint64(0), FromUint64(0), FromUint64(0)},
		{"wide", U120{Hi: 1, Lo: 0}, FromUint64(2), U120{Lo: 1 << 63}, FromUint64(0)},
		{"max by max", MaxU120, MaxU120, FromUint64(1), FromUint64(0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, r := tt.a.DivMod(tt.b)
			assert.Equal(t, tt.q, q, "quotient")
			assert.Equal(t, tt.r, r, "remainder")
		})
	}
}

func TestU120_Shifts(t *testing.T) {
	one := FromUint64(1)
	assert.Equal(t, U120{Hi: 1}, one.Shl(FromUint64(64)))
	assert.Equal(t, U120{Hi: 1 << 55}, one.Shl(FromUint64(119)))
	assert.Equal(t, U120{}, one.Shl(FromUint64(120)))
	assert.Equal(t, one, U120{Hi: 1}.Shr(FromUint64(64)))
	assert.Equal(t, U120{}, one.Shr(FromUint64(1)))
	assert.Equal(t, one, one.Shl(FromUint64(0)))
	assert.Equal(t, one, one.Shr(FromUint64(0)))
}

func TestU120_String(t *testing.T) {
	assert.Equal(t, "0", U120{}.String())
	assert.Equal(t, "12345", FromUint64(12345).String())
	assert.Equal(t, "1329227995784915872903807060280344575", MaxU120.String())
}

func TestParseU120(t *testing.T) {
	v, err := ParseU120("12345")
	require.NoError(t, err)
	assert.Equal(t, FromUint64(12345), v)

	v, err = ParseU120("1329227995784915872903807060280344575")
	require.NoError(t, err)
	assert.Equal(t, MaxU120, v)

	_, err = ParseU120("1329227995784915872903807060280344576")
	assert.Error(t, err, "2^120 must overflow")

	_, err = ParseU120("")
	assert.Error(t, err)

	_, err = ParseU120("12a")
	assert.Error(t, err)
}

func TestU120_RoundTrip(t *testing.T) {
	for _, s := range []string{"0", "1", "999999999999999999999999", "1329227995784915872903807060280344575"} {
		v, err := ParseU120(s)
		require.NoError(t, err)
		assert.Equal(t, s, v.String())
	}
}

func TestOper_Eval(t *testing.T) {
	n := FromUint64
	tests := []struct {
		op   Oper
		a, b U120
		want U120
	}{
		{Add, n(2), n(3), n(5)},
		{Sub, n(0), n(1), MaxU120},
		{Mul, n(6), n(7), n(42)},
		{Div, n(17), n(5), n(3)},
		{Div, n(17), n(0), n(0)},
		{Mod, n(17), n(5), n(2)},
		{Mod, n(17), n(0), n(0)},
		{And, n(0b1100), n(0b1010), n(0b1000)},
		{Or, n(0b1100), n(0b1010), n(0b1110)},
		{Xor, n(0b1100), n(0b1010), n(0b0110)},
		{Shl, n(1), n(4), n(16)},
		{Shr, n(16), n(4), n(1)},
		{Ltn, n(1), n(2), n(1)},
		{Ltn, n(2), n(2), n(0)},
		{Lte, n(2), n(2), n(1)},
		{Eql, n(2), n(2), n(1)},
		{Eql, n(2), n(3), n(0)},
		{Gte, n(2), n(2), n(1)},
		{Gtn, n(3), n(2), n(1)},
		{Neq, n(3), n(2), n(1)},
		{Neq, n(2), n(2), n(0)},
	}
	for _, tt := range tests {
		t.Run(tt.op.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.op.Eval(tt.a, tt.b))
		})
	}
}

func TestOperFromSymbol(t *testing.T) {
	for op := Add; op <= Neq; op++ {
		got, ok := OperFromSymbol(op.String())
		require.True(t, ok, "symbol %q", op.String())
		assert.Equal(t, op, got)
	}
	_, ok := OperFromSymbol("**")
	assert.False(t, ok)
}
