package values

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArithWidening(t *testing.T) {
	a := MustInteger(10, 8, false)
	b := MustInteger(20, 256, false)
	result, err := Arith(opAdd, a, b)
	require.NoError(t, err)
	assert.Equal(t, 256, result.Bits)
	assert.Equal(t, "30", result.String())
}

func TestArithOverflow(t *testing.T) {
	a := MustInteger(1, 256, false)
	a.Val = new(big.Int).Lsh(big.NewInt(1), 256)
	b := MustInteger(1, 256, false)
	_, err := Arith(opAdd, a, b)
	assert.Error(t, err)
}

func TestSubUnderflowUnsigned(t *testing.T) {
	a := MustInteger(1, 8, false)
	b := MustInteger(2, 8, false)
	_, err := Arith(opSub, a, b)
	assert.Error(t, err)
}

func TestNegateRequiresSigned(t *testing.T) {
	a := MustInteger(1, 8, false)
	_, err := Negate(a)
	assert.Error(t, err)

	s := MustInteger(1, 8, true)
	neg, err := Negate(s)
	require.NoError(t, err)
	assert.Equal(t, "-1", neg.String())
}

func TestMulScaled(t *testing.T) {
	a, _ := NewInteger(big.NewInt(0).Mul(big.NewInt(2), pow10(18)), 256, false)
	b, _ := NewInteger(big.NewInt(0).Mul(big.NewInt(3), pow10(18)), 256, false)
	result, err := Mul(a, b, 18)
	require.NoError(t, err)
	expected, _ := new(big.Int).SetString("6000000000000000000", 10)
	assert.Equal(t, 0, result.Val.Cmp(expected))
}

func pow10(n int64) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(n), nil)
}
