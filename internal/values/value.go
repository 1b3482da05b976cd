package values

// Value is implemented by every runtime variant in the closed value
// universe (spec §3.1). Kind() is the tag used for method-table dispatch;
// Type() promotes the value's type descriptor so it can itself be used as a
// first-class TypeRef value.
type Value interface {
	Kind() Kind
	Type() Type
	String() string
}

// Null is the unit result of statements that produce no value.
type Null struct{}

func (Null) Kind() Kind    { return KindNull }
func (Null) Type() Type    { return NullType{} }
func (Null) String() string { return "null" }

// Bool wraps a boolean.
type Bool bool

func (Bool) Kind() Kind      { return KindBool }
func (Bool) Type() Type      { return BoolType{} }
func (b Bool) String() string {
	if b {
		return "true"
	}
	return "false"
}

// Equal implements value equality per spec §4.3 (lossless coercion between
// Integer/FixedBytes/Address is handled by the caller before falling back
// to this strict check).
func Equal(a, b Value) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch av := a.(type) {
	case Null:
		return true
	case Bool:
		return av == b.(Bool)
	case *Integer:
		return av.Cmp(b.(*Integer)) == 0
	case FixedBytes:
		return av.Equal(b.(FixedBytes))
	case Bytes:
		return string(av) == string(b.(Bytes))
	case String:
		return av == b.(String)
	case Address:
		return av == b.(Address)
	case *Array:
		bv := b.(*Array)
		if len(av.Elements) != len(bv.Elements) {
			return false
		}
		for i := range av.Elements {
			if !Equal(av.Elements[i], bv.Elements[i]) {
				return false
			}
		}
		return true
	case *Tuple:
		bv := b.(*Tuple)
		if len(av.Elements) != len(bv.Elements) {
			return false
		}
		for i := range av.Elements {
			if !Equal(av.Elements[i], bv.Elements[i]) {
				return false
			}
		}
		return true
	case *Contract:
		bv := b.(*Contract)
		if av.Name != bv.Name {
			return false
		}
		if av.Address == nil || bv.Address == nil {
			return av.Address == bv.Address
		}
		return *av.Address == *bv.Address
	case Transaction:
		return av == b.(Transaction)
	case TypeRef:
		return av.Descriptor.Equal(b.(TypeRef).Descriptor)
	default:
		return false
	}
}
