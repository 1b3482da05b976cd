package abi

import (
	"math/big"
	"reflect"

	gethabi "github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"github.com/danhper/eclair/internal/values"
)

// ToGoValue converts an Eclair runtime value into the Go representation
// go-ethereum's abi.Arguments.Pack expects for t.
func ToGoValue(v values.Value, t gethabi.Type) (interface{}, error) {
	switch t.T {
	case gethabi.BoolTy:
		b, ok := v.(values.Bool)
		if !ok {
			return nil, values.TypeErrorf("expected bool, got %s", v.Kind())
		}
		return bool(b), nil
	case gethabi.AddressTy:
		addr, ok := v.(values.Address)
		if !ok {
			return nil, values.TypeErrorf("expected address, got %s", v.Kind())
		}
		return common.Address(addr), nil
	case gethabi.StringTy:
		s, ok := v.(values.String)
		if !ok {
			return nil, values.TypeErrorf("expected string, got %s", v.Kind())
		}
		return string(s), nil
	case gethabi.BytesTy:
		b, ok := v.(values.Bytes)
		if !ok {
			return nil, values.TypeErrorf("expected bytes, got %s", v.Kind())
		}
		return []byte(b), nil
	case gethabi.FixedBytesTy:
		fb, ok := v.(values.FixedBytes)
		if !ok {
			return nil, values.TypeErrorf("expected fixed bytes, got %s", v.Kind())
		}
		return fixedBytesArray(fb, t.Size)
	case gethabi.IntTy, gethabi.UintTy:
		n, ok := v.(*values.Integer)
		if !ok {
			return nil, values.TypeErrorf("expected integer, got %s", v.Kind())
		}
		return bigIntForWidth(n.Val, t.Size), nil
	case gethabi.SliceTy, gethabi.ArrayTy:
		arr, ok := v.(*values.Array)
		if !ok {
			return nil, values.TypeErrorf("expected array, got %s", v.Kind())
		}
		return toGoSlice(arr, t)
	case gethabi.TupleTy:
		tuple, ok := v.(*values.Tuple)
		if ok {
			return toGoTuple(tuple.Elements, t)
		}
		named, ok := v.(*values.NamedTuple)
		if !ok {
			return nil, values.TypeErrorf("expected tuple, got %s", v.Kind())
		}
		return toGoTuple(named.Values, t)
	default:
		return nil, values.TypeErrorf("unsupported ABI type %s", t.String())
	}
}

func toGoSlice(arr *values.Array, t gethabi.Type) (interface{}, error) {
	elemType := *t.Elem
	goElems := make([]interface{}, len(arr.Elements))
	for i, el := range arr.Elements {
		g, err := ToGoValue(el, elemType)
		if err != nil {
			return nil, err
		}
		goElems[i] = g
	}
	return goElems, nil
}

func toGoTuple(elements []values.Value, t gethabi.Type) (interface{}, error) {
	if len(elements) != len(t.TupleElems) {
		return nil, values.ArityErrorf("tuple has %d fields, expected %d", len(elements), len(t.TupleElems))
	}
	out := make(map[string]interface{}, len(elements))
	for i, el := range elements {
		g, err := ToGoValue(el, *t.TupleElems[i])
		if err != nil {
			return nil, err
		}
		out[t.TupleRawNames[i]] = g
	}
	return out, nil
}

// FromGoValue converts a value unpacked by go-ethereum's abi package back
// into an Eclair runtime value, given the ABI type it was unpacked from.
func FromGoValue(x interface{}, t gethabi.Type) (values.Value, error) {
	switch t.T {
	case gethabi.BoolTy:
		return values.Bool(x.(bool)), nil
	case gethabi.AddressTy:
		addr := x.(common.Address)
		a, err := values.NewAddress(addr.Bytes())
		return a, err
	case gethabi.StringTy:
		return values.String(x.(string)), nil
	case gethabi.BytesTy:
		return values.Bytes(x.([]byte)), nil
	case gethabi.FixedBytesTy:
		b, err := fixedBytesFromGo(x, t.Size)
		if err != nil {
			return nil, err
		}
		return values.NewFixedBytes(b)
	case gethabi.IntTy, gethabi.UintTy:
		magnitude := bigFromGo(x)
		return values.NewInteger(magnitude, t.Size, t.T == gethabi.IntTy)
	case gethabi.SliceTy, gethabi.ArrayTy:
		return fromGoSlice(x, t)
	case gethabi.TupleTy:
		return fromGoTuple(x, t)
	default:
		return nil, values.TypeErrorf("unsupported ABI type %s", t.String())
	}
}

func fromGoSlice(x interface{}, t gethabi.Type) (values.Value, error) {
	elemType := *t.Elem
	rv := reflectSlice(x)
	elems := make([]values.Value, len(rv))
	var elecType values.Type
	for i, item := range rv {
		v, err := FromGoValue(item, elemType)
		if err != nil {
			return nil, err
		}
		elems[i] = v
		if i == 0 {
			elecType = v.Type()
		}
	}
	if elecType == nil {
		elecType = values.NullType{}
	}
	return values.NewArray(elecType, elems...), nil
}

func fromGoTuple(x interface{}, t gethabi.Type) (values.Value, error) {
	fields := make([]string, len(t.TupleElems))
	vals := make([]values.Value, len(t.TupleElems))
	m, isMap := x.(map[string]interface{})
	for i, elemType := range t.TupleElems {
		name := t.TupleRawNames[i]
		fields[i] = name
		var raw interface{}
		if isMap {
			raw = m[name]
		} else {
			raw = reflectField(x, i)
		}
		v, err := FromGoValue(raw, *elemType)
		if err != nil {
			return nil, err
		}
		vals[i] = v
	}
	return values.NewNamedTuple(fields, vals)
}

func bigIntForWidth(v *big.Int, bits int) *big.Int {
	if v.Sign() >= 0 || bits == 0 {
		return v
	}
	// go-ethereum's packer expects unsigned two's-complement representation
	// for negative signed integers.
	mod := new(big.Int).Lsh(big.NewInt(1), uint(bits))
	return new(big.Int).Add(mod, v)
}

func bigFromGo(x interface{}) *big.Int {
	switch n := x.(type) {
	case *big.Int:
		return n
	case uint8:
		return big.NewInt(int64(n))
	case int8:
		return big.NewInt(int64(n))
	case uint16:
		return big.NewInt(int64(n))
	case int16:
		return big.NewInt(int64(n))
	case uint32:
		return big.NewInt(int64(n))
	case int32:
		return big.NewInt(int64(n))
	case uint64:
		return new(big.Int).SetUint64(n)
	case int64:
		return big.NewInt(n)
	default:
		return big.NewInt(0)
	}
}

// fixedBytesArray builds the [N]byte array go-ethereum's reflection-based
// packer expects for bytesN, since there is no common interface for Go's
// distinct fixed-size array types.
func fixedBytesArray(fb values.FixedBytes, size int) (interface{}, error) {
	padded, err := fb.Resize(size)
	if err != nil {
		return nil, err
	}
	arrType := reflect.ArrayOf(size, reflect.TypeOf(byte(0)))
	arrVal := reflect.New(arrType).Elem()
	reflect.Copy(arrVal, reflect.ValueOf([]byte(padded)))
	return arrVal.Interface(), nil
}

func fixedBytesFromGo(x interface{}, size int) ([]byte, error) {
	rv := reflect.ValueOf(x)
	if rv.Kind() != reflect.Array || rv.Len() != size {
		return nil, values.TypeErrorf("unsupported fixed bytes go type for size %d", size)
	}
	out := make([]byte, size)
	reflect.Copy(reflect.ValueOf(out), rv)
	return out, nil
}

func reflectSlice(x interface{}) []interface{} {
	rv := reflect.ValueOf(x)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil
	}
	out := make([]interface{}, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out
}

// reflectField reads field i of a go-ethereum-generated tuple struct, which
// is how Arguments.Unpack returns TupleTy results when the caller does not
// supply a pre-declared target struct.
func reflectField(x interface{}, i int) interface{} {
	rv := reflect.ValueOf(x)
	if rv.Kind() != reflect.Struct || i >= rv.NumField() {
		return nil
	}
	return rv.Field(i).Interface()
}
