package values

import (
	"fmt"
	"strings"
)

// Type is a type descriptor (spec §3.2). Descriptors mirror the value
// kinds plus parametric variants (Array, Tuple, Contract, Function) and are
// themselves promotable to a first-class TypeRef value.
type Type interface {
	Kind() Kind
	String() string
	Equal(other Type) bool
}

type NullType struct{}

func (NullType) Kind() Kind         { return KindNull }
func (NullType) String() string     { return "null" }
func (NullType) Equal(o Type) bool  { _, ok := o.(NullType); return ok }

type BoolType struct{}

func (BoolType) Kind() Kind        { return KindBool }
func (BoolType) String() string    { return "bool" }
func (BoolType) Equal(o Type) bool { _, ok := o.(BoolType); return ok }

// IntegerType carries the width (8..256, multiple of 8) and signedness that
// every Integer value is tagged with.
type IntegerType struct {
	Bits   int
	Signed bool
}

func (t IntegerType) Kind() Kind { return KindInteger }
func (t IntegerType) String() string {
	if t.Signed {
		return fmt.Sprintf("int%d", t.Bits)
	}
	return fmt.Sprintf("uint%d", t.Bits)
}
func (t IntegerType) Equal(o Type) bool {
	ot, ok := o.(IntegerType)
	return ok && ot.Bits == t.Bits && ot.Signed == t.Signed
}

// FixedBytesType carries the byte length (1..32) of a FixedBytes value.
type FixedBytesType struct {
	Length int
}

func (t FixedBytesType) Kind() Kind        { return KindFixedBytes }
func (t FixedBytesType) String() string    { return fmt.Sprintf("bytes%d", t.Length) }
func (t FixedBytesType) Equal(o Type) bool { ot, ok := o.(FixedBytesType); return ok && ot.Length == t.Length }

type BytesType struct{}

func (BytesType) Kind() Kind        { return KindBytes }
func (BytesType) String() string    { return "bytes" }
func (BytesType) Equal(o Type) bool { _, ok := o.(BytesType); return ok }

type StringType struct{}

func (StringType) Kind() Kind        { return KindString }
func (StringType) String() string    { return "string" }
func (StringType) Equal(o Type) bool { _, ok := o.(StringType); return ok }

type AddressType struct{}

func (AddressType) Kind() Kind        { return KindAddress }
func (AddressType) String() string    { return "address" }
func (AddressType) Equal(o Type) bool { _, ok := o.(AddressType); return ok }

// ArrayType describes an Array's element type and, for fixed-size Solidity
// arrays (T[N]), its length. Length is nil for a dynamic array.
type ArrayType struct {
	Elem   Type
	Length *int
}

func (t ArrayType) Kind() Kind { return KindArray }
func (t ArrayType) String() string {
	if t.Length != nil {
		return fmt.Sprintf("%s[%d]", t.Elem, *t.Length)
	}
	return fmt.Sprintf("%s[]", t.Elem)
}
func (t ArrayType) Equal(o Type) bool {
	ot, ok := o.(ArrayType)
	if !ok || !ot.Elem.Equal(t.Elem) {
		return false
	}
	if (t.Length == nil) != (ot.Length == nil) {
		return false
	}
	return t.Length == nil || *t.Length == *ot.Length
}

// TupleType describes a heterogeneous, optionally named tuple's element
// types, as produced by abi.decode's type-tuple argument.
type TupleType struct {
	Elems []Type
	Names []string // empty string entries mean "unnamed"
}

func (t TupleType) Kind() Kind { return KindTuple }
func (t TupleType) String() string {
	parts := make([]string, len(t.Elems))
	for i, e := range t.Elems {
		parts[i] = e.String()
	}
	return "(" + strings.Join(parts, ",") + ")"
}
func (t TupleType) Equal(o Type) bool {
	ot, ok := o.(TupleType)
	if !ok || len(ot.Elems) != len(t.Elems) {
		return false
	}
	for i := range t.Elems {
		if !t.Elems[i].Equal(ot.Elems[i]) {
			return false
		}
	}
	return true
}

type NamedTupleType struct {
	Fields []string
	Elems  []Type
}

func (t NamedTupleType) Kind() Kind     { return KindNamedTuple }
func (t NamedTupleType) String() string { return "named_tuple" }
func (t NamedTupleType) Equal(o Type) bool {
	ot, ok := o.(NamedTupleType)
	if !ok || len(ot.Fields) != len(t.Fields) {
		return false
	}
	for i := range t.Fields {
		if t.Fields[i] != ot.Fields[i] || !t.Elems[i].Equal(ot.Elems[i]) {
			return false
		}
	}
	return true
}

// TypeType is the type of a TypeRef value — `type(type(uint8))` is a
// TypeRef whose Descriptor is TypeType{}, pinning the idempotence invariant
// in spec §8.1.
type TypeType struct{}

func (TypeType) Kind() Kind        { return KindTypeRef }
func (TypeType) String() string    { return "type" }
func (TypeType) Equal(o Type) bool { _, ok := o.(TypeType); return ok }

// ContractType names the ABI a Contract value is bound to.
type ContractType struct {
	Name string
}

func (t ContractType) Kind() Kind        { return KindContract }
func (t ContractType) String() string    { return t.Name }
func (t ContractType) Equal(o Type) bool { ot, ok := o.(ContractType); return ok && ot.Name == t.Name }

// FunctionType describes a Func value's parameter and return types.
type FunctionType struct {
	Params  []Type
	Results []Type
}

func (t FunctionType) Kind() Kind { return KindFunc }
func (t FunctionType) String() string {
	params := make([]string, len(t.Params))
	for i, p := range t.Params {
		params[i] = p.String()
	}
	return fmt.Sprintf("function(%s)", strings.Join(params, ","))
}
func (t FunctionType) Equal(o Type) bool {
	ot, ok := o.(FunctionType)
	if !ok || len(ot.Params) != len(t.Params) || len(ot.Results) != len(t.Results) {
		return false
	}
	for i := range t.Params {
		if !t.Params[i].Equal(ot.Params[i]) {
			return false
		}
	}
	for i := range t.Results {
		if !t.Results[i].Equal(ot.Results[i]) {
			return false
		}
	}
	return true
}

type TransactionType struct{}

func (TransactionType) Kind() Kind        { return KindTransaction }
func (TransactionType) String() string    { return "transaction" }
func (TransactionType) Equal(o Type) bool { _, ok := o.(TransactionType); return ok }

type ReceiptType struct{}

func (ReceiptType) Kind() Kind        { return KindReceipt }
func (ReceiptType) String() string    { return "receipt" }
func (ReceiptType) Equal(o Type) bool { _, ok := o.(ReceiptType); return ok }

type LogType struct{}

func (LogType) Kind() Kind        { return KindLog }
func (LogType) String() string    { return "log" }
func (LogType) Equal(o Type) bool { _, ok := o.(LogType); return ok }

// Common width-tagged integer type constructors.
func Uint(bits int) IntegerType { return IntegerType{Bits: bits, Signed: false} }
func Int(bits int) IntegerType  { return IntegerType{Bits: bits, Signed: true} }
