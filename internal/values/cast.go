package values

import "math/big"

// Cast performs the `T(value)` constructor of spec §4.3 against a target
// Type descriptor.
func Cast(target Type, v Value) (Value, error) {
	switch t := target.(type) {
	case IntegerType:
		return castToInteger(t, v)
	case FixedBytesType:
		return castToFixedBytes(t, v)
	case BytesType:
		return castToBytes(v)
	case StringType:
		return castToString(v)
	case AddressType:
		return castToAddress(v)
	case BoolType:
		if b, ok := v.(Bool); ok {
			return b, nil
		}
		return nil, TypeErrorf("cannot cast %s to bool", v.Type())
	default:
		return nil, TypeErrorf("cannot cast to %s", target)
	}
}

func castToInteger(t IntegerType, v Value) (Value, error) {
	switch x := v.(type) {
	case *Integer:
		return CastInteger(x, t.Bits, t.Signed)
	case FixedBytes:
		return bytesToInteger(x, t)
	case Address:
		return bytesToInteger(FixedBytes(x[:]), t)
	default:
		return nil, TypeErrorf("cannot cast %s to %s", v.Type(), t)
	}
}

func bytesToInteger(b FixedBytes, t IntegerType) (*Integer, error) {
	padded, err := b.Resize(32)
	if err != nil {
		return nil, err
	}
	magnitude := new(big.Int).SetBytes(padded)
	return NewInteger(magnitude, t.Bits, t.Signed)
}

func castToFixedBytes(t FixedBytesType, v Value) (Value, error) {
	switch x := v.(type) {
	case FixedBytes:
		return x.Resize(t.Length)
	case Bytes:
		return FixedBytes(x).Resize(t.Length)
	case Address:
		return FixedBytes(x[:]).Resize(t.Length)
	case *Integer:
		b := x.Val.Bytes()
		fb, err := NewFixedBytes(append(make([]byte, max(0, 32-len(b))), b...))
		if err != nil {
			return nil, err
		}
		return fb.Resize(t.Length)
	default:
		return nil, TypeErrorf("cannot cast %s to %s", v.Type(), t)
	}
}

func castToBytes(v Value) (Value, error) {
	switch x := v.(type) {
	case Bytes:
		return x, nil
	case FixedBytes:
		return Bytes(x), nil
	case String:
		return Bytes(x), nil
	default:
		return nil, TypeErrorf("cannot cast %s to bytes", v.Type())
	}
}

func castToString(v Value) (Value, error) {
	switch x := v.(type) {
	case String:
		return x, nil
	case Bytes:
		return String(x), nil
	default:
		return nil, TypeErrorf("cannot cast %s to string", v.Type())
	}
}

func castToAddress(v Value) (Value, error) {
	switch x := v.(type) {
	case Address:
		return x, nil
	case FixedBytes:
		if len(x) != 20 {
			return nil, TypeErrorf("cannot cast bytes%d to address, need bytes20", len(x))
		}
		return NewAddress(x)
	case *Integer:
		b := x.Val.Bytes()
		if len(b) > 20 {
			return nil, TypeErrorf("integer too large for address")
		}
		padded := append(make([]byte, 20-len(b)), b...)
		return NewAddress(padded)
	default:
		return nil, TypeErrorf("cannot cast %s to address", v.Type())
	}
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// CoercesTo reports whether a and b can be compared losslessly across
// kinds for equality (spec §4.3): Integer<->FixedBytes padding,
// Address<->FixedBytes[20].
func CoercesTo(a, b Value) bool {
	switch av := a.(type) {
	case Address:
		if fb, ok := b.(FixedBytes); ok && len(fb) == 20 {
			coerced, err := NewAddress(fb)
			return err == nil && coerced == av
		}
	case FixedBytes:
		if addr, ok := b.(Address); ok && len(av) == 20 {
			coerced, err := NewAddress(av)
			return err == nil && coerced == addr
		}
		if n, ok := b.(*Integer); ok {
			return fixedBytesEqualsInteger(av, n)
		}
	case *Integer:
		if fb, ok := b.(FixedBytes); ok {
			return fixedBytesEqualsInteger(fb, av)
		}
	}
	return false
}

func fixedBytesEqualsInteger(b FixedBytes, n *Integer) bool {
	padded, err := b.Resize(32)
	if err != nil {
		return false
	}
	magnitude := new(big.Int).SetBytes(padded)
	return magnitude.Cmp(n.Val) == 0
}
