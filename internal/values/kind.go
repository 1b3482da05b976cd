// Package values implements Eclair's closed set of runtime values and their
// associated type descriptors (spec §3). Every Solidity-looking expression
// eventually reduces to one of the Kinds below.
package values

// Kind tags a Value's runtime variant. The set is closed and finite: method
// dispatch is a static table keyed by (Kind, name) rather than an
// inheritance hierarchy (see internal/builtins).
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInteger
	KindFixedBytes
	KindBytes
	KindString
	KindAddress
	KindArray
	KindTuple
	KindNamedTuple
	KindTypeRef
	KindContract
	KindFunc
	KindTransaction
	KindReceipt
	KindLog
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInteger:
		return "integer"
	case KindFixedBytes:
		return "fixed_bytes"
	case KindBytes:
		return "bytes"
	case KindString:
		return "string"
	case KindAddress:
		return "address"
	case KindArray:
		return "array"
	case KindTuple:
		return "tuple"
	case KindNamedTuple:
		return "named_tuple"
	case KindTypeRef:
		return "type"
	case KindContract:
		return "contract"
	case KindFunc:
		return "function"
	case KindTransaction:
		return "transaction"
	case KindReceipt:
		return "receipt"
	case KindLog:
		return "log"
	default:
		return "unknown"
	}
}
