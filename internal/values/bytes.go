package values

import (
	"bytes"
	"encoding/hex"
)

// FixedBytes is a byte sequence of length 1..32, left-padded when encoded
// into a 32-byte ABI slot (spec §3.1, §8.1's padding invariant).
type FixedBytes []byte

func (f FixedBytes) Kind() Kind { return KindFixedBytes }
func (f FixedBytes) Type() Type { return FixedBytesType{Length: len(f)} }
func (f FixedBytes) String() string {
	return "0x" + hex.EncodeToString(f)
}

func (f FixedBytes) Equal(o FixedBytes) bool { return bytes.Equal(f, o) }

// NewFixedBytes validates the 1..32 length invariant of spec §3.3.
func NewFixedBytes(b []byte) (FixedBytes, error) {
	if len(b) < 1 || len(b) > 32 {
		return nil, TypeErrorf("fixed bytes length must be in 1..32, got %d", len(b))
	}
	out := make([]byte, len(b))
	copy(out, b)
	return FixedBytes(out), nil
}

// Resize reinterprets f at a new width: left-zero-padding when widening,
// left-truncating when narrowing. This is the fixed point pinned by
// spec §4.3's changelog note ("left-padding is the invariant").
func (f FixedBytes) Resize(n int) (FixedBytes, error) {
	if n < 1 || n > 32 {
		return nil, TypeErrorf("fixed bytes length must be in 1..32, got %d", n)
	}
	out := make([]byte, n)
	if n >= len(f) {
		copy(out[n-len(f):], f)
	} else {
		copy(out, f[len(f)-n:])
	}
	return FixedBytes(out), nil
}

// PadLeft32 left-pads f into a 32-byte ABI slot.
func (f FixedBytes) PadLeft32() [32]byte {
	var out [32]byte
	copy(out[32-len(f):], f)
	return out
}

// Bytes is a variable-length byte sequence.
type Bytes []byte

func (b Bytes) Kind() Kind     { return KindBytes }
func (b Bytes) Type() Type     { return BytesType{} }
func (b Bytes) String() string { return "0x" + hex.EncodeToString(b) }

// Index returns the 1-byte FixedBytes at position i, supporting negative
// indices (spec §4.3: "indexing with an Integer produces a 1-byte
// FixedBytes for Bytes").
func (b Bytes) Index(i int) (FixedBytes, error) {
	idx, err := normalizeIndex(i, len(b))
	if err != nil {
		return nil, err
	}
	return NewFixedBytes(b[idx : idx+1])
}

// Slice implements the half-open range syntax with negative-index support.
func (b Bytes) Slice(lo, hi int) (Bytes, error) {
	start, end, err := normalizeRange(lo, hi, len(b))
	if err != nil {
		return nil, err
	}
	out := make([]byte, end-start)
	copy(out, b[start:end])
	return out, nil
}

// String is a UTF-8 string value.
type String string

func (String) Kind() Kind      { return KindString }
func (String) Type() Type      { return StringType{} }
func (s String) String() string { return string(s) }

// Slice implements half-open byte-range slicing on the underlying UTF-8
// bytes, supporting negative indices.
func (s String) Slice(lo, hi int) (String, error) {
	b := []byte(s)
	start, end, err := normalizeRange(lo, hi, len(b))
	if err != nil {
		return "", err
	}
	return String(b[start:end]), nil
}

// Address is a 20-byte EVM address.
type Address [20]byte

func (Address) Kind() Kind { return KindAddress }
func (Address) Type() Type { return AddressType{} }
func (a Address) String() string {
	return "0x" + hex.EncodeToString(a[:])
}

// NewAddress validates the 20-byte invariant of spec §3.3.
func NewAddress(b []byte) (Address, error) {
	var a Address
	if len(b) != 20 {
		return a, TypeErrorf("address must be exactly 20 bytes, got %d", len(b))
	}
	copy(a[:], b)
	return a, nil
}

// normalizeIndex resolves a possibly-negative index against a length,
// implementing the "-1 = last" convention used throughout spec §3.1/§4.3.
func normalizeIndex(i, length int) (int, error) {
	if i < 0 {
		i += length
	}
	if i < 0 || i >= length {
		return 0, NewError(ErrType, "index %d out of range for length %d", i, length)
	}
	return i, nil
}

func normalizeRange(lo, hi, length int) (start, end int, err error) {
	if lo < 0 {
		lo += length
	}
	if hi < 0 {
		hi += length
	}
	if lo < 0 || hi > length || lo > hi {
		return 0, 0, NewError(ErrType, "invalid slice range [%d:%d] for length %d", lo, hi, length)
	}
	return lo, hi, nil
}
