package values

import (
	"math/big"
	"strings"
	"unicode/utf8"
)

// Format implements the `format` builtin (spec §4.3): Integer values are
// divided by 10^decimals and displayed with `precision` fractional digits
// (trailing zeros trimmed beyond precision); FixedBytes attempt UTF-8
// decoding trimmed at the first NUL, falling back to 0x-hex; everything
// else gets a stable debug representation. format is idempotent on String
// values (spec §8.1).
func Format(v Value, decimals, precision int) string {
	switch x := v.(type) {
	case *Integer:
		return formatScaled(x.Val, decimals, precision)
	case FixedBytes:
		return formatFixedBytes(x)
	case String:
		return string(x)
	default:
		return v.String()
	}
}

func formatScaled(v *big.Int, decimals, precision int) string {
	neg := v.Sign() < 0
	abs := new(big.Int).Abs(v)
	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
	intPart := new(big.Int)
	fracPart := new(big.Int)
	intPart.QuoRem(abs, scale, fracPart)

	fracStr := fracPart.String()
	if pad := decimals - len(fracStr); pad > 0 {
		fracStr = strings.Repeat("0", pad) + fracStr
	}
	if precision < len(fracStr) {
		fracStr = fracStr[:precision]
	} else {
		fracStr = fracStr + strings.Repeat("0", precision-len(fracStr))
	}
	fracStr = strings.TrimRight(fracStr, "0")

	out := intPart.String()
	if fracStr != "" {
		out += "." + fracStr
	}
	if neg {
		out = "-" + out
	}
	return out
}

func formatFixedBytes(b FixedBytes) string {
	trimmed := b
	if idx := indexByte(trimmed, 0); idx >= 0 {
		trimmed = trimmed[:idx]
	}
	if len(trimmed) > 0 && utf8.Valid(trimmed) {
		return string(trimmed)
	}
	return b.String()
}

func indexByte(b []byte, c byte) int {
	for i, x := range b {
		if x == c {
			return i
		}
	}
	return -1
}
