package builtins

import (
	"fmt"
	"math/big"

	"github.com/danhper/eclair/internal/values"
)

// elementaryTypes is the fixed table of bare type-name identifiers
// (`uint8`, `address`, `bytes32`, ...) the Evaluator falls back to when an
// Ident is not bound in the Environment — this is how `uint8(1)` resolves
// its callee to a TypeRef usable as a cast target, and how `uint8` used
// bare (e.g. as the sole argument to `type(...)`) resolves to a TypeRef
// (spec §3.2/§4.3).
var elementaryTypes = buildElementaryTypes()

func buildElementaryTypes() map[string]values.Type {
	table := map[string]values.Type{
		"bool":    values.BoolType{},
		"address": values.AddressType{},
		"string":  values.StringType{},
		"bytes":   values.BytesType{},
	}
	for bits := 8; bits <= 256; bits += 8 {
		table[fmt.Sprintf("uint%d", bits)] = values.Uint(bits)
		table[fmt.Sprintf("int%d", bits)] = values.Int(bits)
	}
	for n := 1; n <= 32; n++ {
		table[fmt.Sprintf("bytes%d", n)] = values.FixedBytesType{Length: n}
	}
	return table
}

// ElementaryType resolves a bare type-name identifier to its descriptor.
func ElementaryType(name string) (values.Type, bool) {
	t, ok := elementaryTypes[name]
	return t, ok
}

// staticMember implements static namespace dispatch on a TypeRef (spec
// §4.2's "if v is a TypeRef, consult the type's static table"):
// `type(uintN).max`/`.min`.
func staticMember(t values.Type, name string) (values.Value, error) {
	switch tt := t.(type) {
	case values.IntegerType:
		switch name {
		case "max":
			return values.NewInteger(integerMax(tt.Bits, tt.Signed), tt.Bits, tt.Signed)
		case "min":
			return values.NewInteger(integerMin(tt.Bits, tt.Signed), tt.Bits, tt.Signed)
		}
	}
	return nil, values.NameErrorf("no static member %q on type %s", name, t)
}

func integerMax(bits int, signed bool) *big.Int {
	if !signed {
		return new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), uint(bits)), big.NewInt(1))
	}
	return new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), uint(bits-1)), big.NewInt(1))
}

func integerMin(bits int, signed bool) *big.Int {
	if !signed {
		return big.NewInt(0)
	}
	return new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), uint(bits-1)))
}
