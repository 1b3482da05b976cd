package values

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// ParseDecimalInteger parses a bare decimal integer literal and tags it with
// the narrowest width that fits (uint8..uint256), matching Solidity's
// convention that literals default to unsigned. Width is widened on demand
// by the arithmetic layer, so the literal's own width only matters as a
// starting point.
func ParseDecimalInteger(s string) (*Integer, error) {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, NewError(ErrParse, "invalid integer literal %q", s)
	}
	return integerForMagnitude(v)
}

// ParseScientificInteger parses the `NeM` literal form of spec §4.3: treated
// as the integer N * 10^M. M must be a non-negative integer exponent.
func ParseScientificInteger(mantissa string, exponent int) (*Integer, error) {
	n, ok := new(big.Int).SetString(mantissa, 10)
	if !ok {
		return nil, NewError(ErrParse, "invalid scientific literal mantissa %q", mantissa)
	}
	if exponent < 0 {
		return nil, NewError(ErrParse, "scientific literal exponent must be non-negative, got %d", exponent)
	}
	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(exponent)), nil)
	n.Mul(n, scale)
	return integerForMagnitude(n)
}

func integerForMagnitude(v *big.Int) (*Integer, error) {
	signed := v.Sign() < 0
	for _, bits := range []int{8, 16, 32, 64, 128, 256} {
		lo, hi := integerRange(bits, signed)
		if v.Cmp(lo) >= 0 && v.Cmp(hi) <= 0 {
			return &Integer{Val: v, Bits: bits, Signed: signed}, nil
		}
	}
	return nil, TypeErrorf("integer literal %s does not fit in 256 bits", v.String())
}

// ParseHexLiteral parses a `0x...` literal into FixedBytes of length
// ceil(nibbles/2), per spec §4.3.
func ParseHexLiteral(s string) (FixedBytes, error) {
	s = strings.TrimPrefix(s, "0x")
	s = strings.TrimPrefix(s, "0X")
	if len(s)%2 != 0 {
		s = "0" + s
	}
	b, err := hexDecode(s)
	if err != nil {
		return nil, NewError(ErrParse, "invalid hex literal: %v", err)
	}
	return NewFixedBytes(b)
}

// ParseAddressLiteral parses a 20-byte hex literal as an Address, optionally
// validating EIP-55 checksum casing when the literal is mixed-case.
func ParseAddressLiteral(s string) (Address, error) {
	if !common.IsHexAddress(s) {
		return Address{}, NewError(ErrParse, "invalid address literal %q", s)
	}
	hasUpper := strings.ContainsAny(s, "ABCDEF")
	hasLower := strings.ContainsAny(s, "abcdef")
	if hasUpper && hasLower {
		if s != common.HexToAddress(s).Hex() {
			return Address{}, NewError(ErrParse, "address %q fails EIP-55 checksum", s)
		}
	}
	return NewAddress(common.HexToAddress(s).Bytes())
}

func hexDecode(s string) ([]byte, error) {
	out := make([]byte, len(s)/2)
	for i := 0; i < len(out); i++ {
		hi, err := hexNibble(s[i*2])
		if err != nil {
			return nil, err
		}
		lo, err := hexNibble(s[i*2+1])
		if err != nil {
			return nil, err
		}
		out[i] = hi<<4 | lo
	}
	return out, nil
}

func hexNibble(c byte) (byte, error) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', nil
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, nil
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, nil
	default:
		return 0, NewError(ErrParse, "invalid hex digit %q", string(c))
	}
}
