package values

// Array is an ordered sequence of values sharing a common element type
// descriptor (spec §3.1). Arrays are immutable: map/filter/concat return
// fresh arrays (spec §3.4).
type Array struct {
	Elements []Value
	ElemType Type
}

func NewArray(elemType Type, elements ...Value) *Array {
	return &Array{Elements: elements, ElemType: elemType}
}

func (a *Array) Kind() Kind { return KindArray }
func (a *Array) Type() Type {
	n := len(a.Elements)
	return ArrayType{Elem: a.ElemType, Length: &n}
}
func (a *Array) String() string {
	s := "["
	for i, e := range a.Elements {
		if i > 0 {
			s += ", "
		}
		s += e.String()
	}
	return s + "]"
}

// Get returns the element at index i, supporting negative indices
// (spec §8.1: `[10, 20, 30][-1] == 30`).
func (a *Array) Get(i int) (Value, error) {
	idx, err := normalizeIndex(i, len(a.Elements))
	if err != nil {
		return nil, err
	}
	return a.Elements[idx], nil
}

// Concat returns a fresh Array with other's elements appended.
func (a *Array) Concat(other *Array) *Array {
	out := make([]Value, 0, len(a.Elements)+len(other.Elements))
	out = append(out, a.Elements...)
	out = append(out, other.Elements...)
	return &Array{Elements: out, ElemType: a.ElemType}
}

// Map applies f to each element, returning a fresh Array of the results.
func (a *Array) Map(f func(Value) (Value, error)) (*Array, error) {
	out := make([]Value, len(a.Elements))
	var elemType Type = a.ElemType
	for i, e := range a.Elements {
		r, err := f(e)
		if err != nil {
			return nil, err
		}
		out[i] = r
		if i == 0 {
			elemType = r.Type()
		}
	}
	return &Array{Elements: out, ElemType: elemType}, nil
}

// Filter keeps elements for which f returns true.
func (a *Array) Filter(f func(Value) (bool, error)) (*Array, error) {
	out := make([]Value, 0, len(a.Elements))
	for _, e := range a.Elements {
		ok, err := f(e)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, e)
		}
	}
	return &Array{Elements: out, ElemType: a.ElemType}, nil
}

// Reduce folds the array with f, starting from init (or the first element
// when init is nil and the array is non-empty).
func (a *Array) Reduce(f func(acc, el Value) (Value, error), init Value) (Value, error) {
	elements := a.Elements
	acc := init
	if acc == nil {
		if len(elements) == 0 {
			return nil, TypeErrorf("reduce of empty array with no initial value")
		}
		acc = elements[0]
		elements = elements[1:]
	}
	var err error
	for _, e := range elements {
		acc, err = f(acc, e)
		if err != nil {
			return nil, err
		}
	}
	return acc, nil
}

// Tuple is an ordered sequence of heterogeneous values, optionally named
// (spec §3.1). Element access is by compile-time integer literal index.
type Tuple struct {
	Elements []Value
	Names    []string // len(Names) == len(Elements) when named; nil otherwise
}

func NewTuple(elements ...Value) *Tuple { return &Tuple{Elements: elements} }

func (t *Tuple) Kind() Kind { return KindTuple }
func (t *Tuple) Type() Type {
	elems := make([]Type, len(t.Elements))
	for i, e := range t.Elements {
		elems[i] = e.Type()
	}
	return TupleType{Elems: elems, Names: t.Names}
}
func (t *Tuple) String() string {
	s := "("
	for i, e := range t.Elements {
		if i > 0 {
			s += ", "
		}
		s += e.String()
	}
	return s + ")"
}

func (t *Tuple) Get(i int) (Value, error) {
	idx, err := normalizeIndex(i, len(t.Elements))
	if err != nil {
		return nil, err
	}
	return t.Elements[idx], nil
}

// NamedTuple holds named fields with a stable field order (spec §3.3); used
// for decoded logs and receipts. Field names are unique within a
// NamedTuple.
type NamedTuple struct {
	Fields []string
	Values []Value
}

func NewNamedTuple(fields []string, values []Value) (*NamedTuple, error) {
	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		if seen[f] {
			return nil, TypeErrorf("duplicate field name %q in named tuple", f)
		}
		seen[f] = true
	}
	return &NamedTuple{Fields: fields, Values: values}, nil
}

func (n *NamedTuple) Kind() Kind { return KindNamedTuple }
func (n *NamedTuple) Type() Type {
	elems := make([]Type, len(n.Values))
	for i, v := range n.Values {
		elems[i] = v.Type()
	}
	return NamedTupleType{Fields: n.Fields, Elems: elems}
}
func (n *NamedTuple) String() string {
	s := "("
	for i := range n.Fields {
		if i > 0 {
			s += ", "
		}
		s += n.Fields[i] + ": " + n.Values[i].String()
	}
	return s + ")"
}

// Field returns the value for a named field, reporting a name error when
// absent (spec §4.2's "no member n on <type>" convention).
func (n *NamedTuple) Field(name string) (Value, error) {
	for i, f := range n.Fields {
		if f == name {
			return n.Values[i], nil
		}
	}
	return nil, NameErrorf("no member %q on named tuple", name)
}
