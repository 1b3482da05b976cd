package values

import (
	"math/big"
)

// Integer is a width-tagged arbitrary-precision integer (spec §3.1/§3.3):
// every value carries a Bits/Signed tag alongside the two's-complement
// magnitude, and any operation producing a value wider than 256 bits is an
// error.
type Integer struct {
	Val    *big.Int
	Bits   int
	Signed bool
}

func (i *Integer) Kind() Kind { return KindInteger }
func (i *Integer) Type() Type { return IntegerType{Bits: i.Bits, Signed: i.Signed} }
func (i *Integer) String() string {
	return i.Val.String()
}

func (i *Integer) Cmp(o *Integer) int { return i.Val.Cmp(o.Val) }

var (
	maxUint256 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))
)

// NewInteger builds a width-tagged Integer, range-checking v against
// [min,max] for the given bits/signed combination.
func NewInteger(v *big.Int, bits int, signed bool) (*Integer, error) {
	if bits <= 0 || bits > 256 || bits%8 != 0 {
		return nil, TypeErrorf("invalid integer width %d", bits)
	}
	lo, hi := integerRange(bits, signed)
	if v.Cmp(lo) < 0 || v.Cmp(hi) > 0 {
		return nil, TypeErrorf("value %s out of range for %s", v.String(), IntegerType{bits, signed})
	}
	return &Integer{Val: new(big.Int).Set(v), Bits: bits, Signed: signed}, nil
}

// MustInteger panics on range failure; used for internal literal/constant
// construction where the caller has already validated range.
func MustInteger(v int64, bits int, signed bool) *Integer {
	n, err := NewInteger(big.NewInt(v), bits, signed)
	if err != nil {
		panic(err)
	}
	return n
}

func integerRange(bits int, signed bool) (lo, hi *big.Int) {
	if !signed {
		return big.NewInt(0), new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), uint(bits)), big.NewInt(1))
	}
	half := new(big.Int).Lsh(big.NewInt(1), uint(bits-1))
	lo = new(big.Int).Neg(half)
	hi = new(big.Int).Sub(half, big.NewInt(1))
	return lo, hi
}

// widen picks the wider of two operand widths per spec §4.3 ("produce an
// integer whose width is the larger of the two operands").
func widen(a, b *Integer) (bits int, signed bool) {
	bits = a.Bits
	if b.Bits > bits {
		bits = b.Bits
	}
	signed = a.Signed || b.Signed
	return
}

type arithOp int

const (
	opAdd arithOp = iota
	opSub
	opMul
	opDiv
	opMod
	opShl
	opShr
	opAnd
	opOr
	opXor
)

var arithOpsByText = map[string]arithOp{
	"+": opAdd, "-": opSub, "*": opMul, "/": opDiv, "%": opMod,
	"<<": opShl, ">>": opShr, "&": opAnd, "|": opOr, "^": opXor,
}

// ArithByOp dispatches on the operator's source text, so callers outside
// this package (the Evaluator) don't need to know the arithOp encoding.
func ArithByOp(opText string, a, b *Integer) (*Integer, error) {
	op, ok := arithOpsByText[opText]
	if !ok {
		return nil, TypeErrorf("unknown integer operator %q", opText)
	}
	return Arith(op, a, b)
}

// Arith implements the integer operators of spec §4.3: `+ - * / % << >> & | ^`.
func Arith(op arithOp, a, b *Integer) (*Integer, error) {
	bits, signed := widen(a, b)
	var result big.Int
	switch op {
	case opAdd:
		result.Add(a.Val, b.Val)
	case opSub:
		if !signed && a.Val.Cmp(b.Val) < 0 {
			return nil, TypeErrorf("subtraction underflow for unsigned integer")
		}
		result.Sub(a.Val, b.Val)
	case opMul:
		result.Mul(a.Val, b.Val)
	case opDiv:
		if b.Val.Sign() == 0 {
			return nil, TypeErrorf("division by zero")
		}
		result.Quo(a.Val, b.Val)
	case opMod:
		if b.Val.Sign() == 0 {
			return nil, TypeErrorf("modulo by zero")
		}
		result.Rem(a.Val, b.Val)
	case opShl:
		result.Lsh(a.Val, uint(b.Val.Int64()))
	case opShr:
		result.Rsh(a.Val, uint(b.Val.Int64()))
	case opAnd:
		result.And(a.Val, b.Val)
	case opOr:
		result.Or(a.Val, b.Val)
	case opXor:
		result.Xor(a.Val, b.Val)
	}
	if result.CmpAbs(maxUint256) > 0 {
		return nil, TypeErrorf("integer overflow: result exceeds 256 bits")
	}
	return NewInteger(&result, bits, signed)
}

// Negate implements unary `-`, valid only on signed widths (spec §4.3).
func Negate(a *Integer) (*Integer, error) {
	if !a.Signed {
		return nil, TypeErrorf("cannot negate unsigned integer")
	}
	return NewInteger(new(big.Int).Neg(a.Val), a.Bits, a.Signed)
}

// Mul implements the scaled-number `a.mul(b, d)` helper: a*b / 10^d.
func Mul(a, b *Integer, decimals int) (*Integer, error) {
	bits, signed := widen(a, b)
	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
	result := new(big.Int).Mul(a.Val, b.Val)
	result.Quo(result, scale)
	return NewInteger(result, bits, signed)
}

// Div implements the scaled-number `a.div(b, d)` helper: a * 10^d / b.
func Div(a, b *Integer, decimals int) (*Integer, error) {
	if b.Val.Sign() == 0 {
		return nil, TypeErrorf("division by zero")
	}
	bits, signed := widen(a, b)
	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
	result := new(big.Int).Mul(a.Val, scale)
	result.Quo(result, b.Val)
	return NewInteger(result, bits, signed)
}

// Compare implements `< <= > >= == !=` for two integers.
func Compare(a, b *Integer) int { return a.Val.Cmp(b.Val) }

// CastInteger performs the `T(value)` numeric cast of spec §4.3: range-check
// against the destination width/signedness.
func CastInteger(v *Integer, bits int, signed bool) (*Integer, error) {
	return NewInteger(v.Val, bits, signed)
}
