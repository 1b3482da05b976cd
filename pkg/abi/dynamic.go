package abi

import (
	"fmt"

	gethabi "github.com/ethereum/go-ethereum/accounts/abi"

	"github.com/danhper/eclair/internal/values"
)

// GethType translates an Eclair type descriptor into the go-ethereum ABI
// type it corresponds to, used by the untyped `abi.encode`/`abi.decode`
// builtins where there is no pre-declared ABI to read types from (spec
// §4.4.3) — unlike EncodeCall/DecodeOutput, which read types off a
// *gethabi.Method parsed from a loaded contract ABI.
func GethType(t values.Type) (gethabi.Type, error) {
	switch tt := t.(type) {
	case values.BoolType:
		return gethabi.NewType("bool", "", nil)
	case values.IntegerType:
		sig := "uint"
		if tt.Signed {
			sig = "int"
		}
		return gethabi.NewType(fmt.Sprintf("%s%d", sig, tt.Bits), "", nil)
	case values.FixedBytesType:
		return gethabi.NewType(fmt.Sprintf("bytes%d", tt.Length), "", nil)
	case values.BytesType:
		return gethabi.NewType("bytes", "", nil)
	case values.StringType:
		return gethabi.NewType("string", "", nil)
	case values.AddressType:
		return gethabi.NewType("address", "", nil)
	case values.ArrayType:
		return arrayGethType(tt)
	case values.TupleType:
		return tupleGethType(tt)
	default:
		return gethabi.Type{}, values.TypeErrorf("cannot encode values of type %s", t)
	}
}

func arrayGethType(tt values.ArrayType) (gethabi.Type, error) {
	if _, isTuple := tt.Elem.(values.TupleType); isTuple {
		components, err := tupleComponents(tt.Elem.(values.TupleType))
		if err != nil {
			return gethabi.Type{}, err
		}
		suffix := "[]"
		if tt.Length != nil {
			suffix = fmt.Sprintf("[%d]", *tt.Length)
		}
		return gethabi.NewType("tuple"+suffix, "", components)
	}
	elem, err := GethType(tt.Elem)
	if err != nil {
		return gethabi.Type{}, err
	}
	suffix := "[]"
	if tt.Length != nil {
		suffix = fmt.Sprintf("[%d]", *tt.Length)
	}
	return gethabi.NewType(elem.String()+suffix, "", nil)
}

func tupleGethType(tt values.TupleType) (gethabi.Type, error) {
	components, err := tupleComponents(tt)
	if err != nil {
		return gethabi.Type{}, err
	}
	return gethabi.NewType("tuple", "", components)
}

func tupleComponents(tt values.TupleType) ([]gethabi.ArgumentMarshaling, error) {
	out := make([]gethabi.ArgumentMarshaling, len(tt.Elems))
	for i, elem := range tt.Elems {
		name := fmt.Sprintf("arg%d", i)
		if i < len(tt.Names) && tt.Names[i] != "" {
			name = tt.Names[i]
		}
		marshaling, err := marshalingFor(elem, name)
		if err != nil {
			return nil, err
		}
		out[i] = marshaling
	}
	return out, nil
}

func marshalingFor(t values.Type, name string) (gethabi.ArgumentMarshaling, error) {
	if tt, ok := t.(values.TupleType); ok {
		components, err := tupleComponents(tt)
		if err != nil {
			return gethabi.ArgumentMarshaling{}, err
		}
		return gethabi.ArgumentMarshaling{Name: name, Type: "tuple", Components: components}, nil
	}
	gt, err := GethType(t)
	if err != nil {
		return gethabi.ArgumentMarshaling{}, err
	}
	return gethabi.ArgumentMarshaling{Name: name, Type: gt.String()}, nil
}

// EncodeValues implements `abi.encode(args...)`: standard (padded) ABI
// encoding with types inferred from each value's own runtime type.
func EncodeValues(args []values.Value) ([]byte, error) {
	ethArgs := make(gethabi.Arguments, len(args))
	goVals := make([]interface{}, len(args))
	for i, a := range args {
		t, err := GethType(a.Type())
		if err != nil {
			return nil, err
		}
		ethArgs[i] = gethabi.Argument{Type: t}
		g, err := ToGoValue(a, t)
		if err != nil {
			return nil, err
		}
		goVals[i] = g
	}
	packed, err := ethArgs.Pack(goVals...)
	if err != nil {
		return nil, values.WrapError(values.ErrType, err, "failed to abi-encode arguments")
	}
	return packed, nil
}

// DecodeValues implements `abi.decode(data, (T1, T2, ...))`.
func DecodeValues(data []byte, types []values.Type) (*values.Tuple, error) {
	ethArgs := make(gethabi.Arguments, len(types))
	for i, t := range types {
		gt, err := GethType(t)
		if err != nil {
			return nil, err
		}
		ethArgs[i] = gethabi.Argument{Type: gt}
	}
	raw, err := ethArgs.Unpack(data)
	if err != nil {
		return nil, values.WrapError(values.ErrType, err, "failed to abi-decode")
	}
	vals := make([]values.Value, len(types))
	for i := range types {
		v, err := FromGoValue(raw[i], ethArgs[i].Type)
		if err != nil {
			return nil, err
		}
		vals[i] = v
	}
	return values.NewTuple(vals...), nil
}

// EncodePacked implements `abi.encodePacked(args...)`: Solidity's
// non-standard tight packing — no length prefixes, no padding to 32 bytes,
// dynamic types concatenated as-is.
func EncodePacked(args []values.Value) ([]byte, error) {
	var out []byte
	for _, a := range args {
		b, err := packValue(a)
		if err != nil {
			return nil, err
		}
		out = append(out, b...)
	}
	return out, nil
}

func packValue(v values.Value) ([]byte, error) {
	switch x := v.(type) {
	case values.Bool:
		if x {
			return []byte{1}, nil
		}
		return []byte{0}, nil
	case *values.Integer:
		n := bigIntForWidth(x.Val, x.Bits)
		out := make([]byte, x.Bits/8)
		n.FillBytes(out)
		return out, nil
	case values.FixedBytes:
		return []byte(x), nil
	case values.Bytes:
		return []byte(x), nil
	case values.String:
		return []byte(x), nil
	case values.Address:
		return append([]byte{}, x[:]...), nil
	case *values.Array:
		var out []byte
		for _, el := range x.Elements {
			b, err := packValue(el)
			if err != nil {
				return nil, err
			}
			out = append(out, b...)
		}
		return out, nil
	case *values.Tuple:
		var out []byte
		for _, el := range x.Elements {
			b, err := packValue(el)
			if err != nil {
				return nil, err
			}
			out = append(out, b...)
		}
		return out, nil
	default:
		return nil, values.TypeErrorf("cannot tightly pack value of kind %s", v.Kind())
	}
}
