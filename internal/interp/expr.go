package interp

import (
	"math/big"

	"github.com/danhper/eclair/internal/builtins"
	"github.com/danhper/eclair/internal/environment"
	"github.com/danhper/eclair/internal/parser"
	"github.com/danhper/eclair/internal/values"
)

// evalExpr reduces node to a value in env.
func (e *Evaluator) evalExpr(bc *builtins.Context, env *environment.Environment, node parser.Node) (values.Value, error) {
	switch n := node.(type) {
	case *parser.IntLiteral:
		if n.IsSci {
			return values.ParseScientificInteger(n.Text, n.Exponent)
		}
		return values.ParseDecimalInteger(n.Text)

	case *parser.HexLiteral:
		if len(n.Text) == 40 {
			if addr, err := values.ParseAddressLiteral("0x" + n.Text); err == nil {
				return addr, nil
			}
		}
		return values.ParseHexLiteral(n.Text)

	case *parser.StringLiteral:
		return values.String(n.Value), nil

	case *parser.BoolLiteral:
		return values.Bool(n.Value), nil

	case *parser.ArrayLiteral:
		elems := make([]values.Value, len(n.Elements))
		for i, el := range n.Elements {
			v, err := e.evalExpr(bc, env, el)
			if err != nil {
				return nil, err
			}
			elems[i] = v
		}
		var elemType values.Type = values.BoolType{}
		if len(elems) > 0 {
			elemType = elems[0].Type()
		}
		return values.NewArray(elemType, elems...), nil

	case *parser.TupleLiteral:
		elems := make([]values.Value, len(n.Elements))
		for i, el := range n.Elements {
			v, err := e.evalExpr(bc, env, el)
			if err != nil {
				return nil, err
			}
			elems[i] = v
		}
		return values.NewTuple(elems...), nil

	case *parser.Ident:
		return e.evalIdent(bc, env, n.Name)

	case *parser.LambdaExpr:
		return e.makeLambda(n.Params, n.Body, env), nil

	case *parser.UnaryExpr:
		return e.evalUnary(bc, env, n)

	case *parser.BinaryExpr:
		return e.evalBinary(bc, env, n)

	case *parser.MemberExpr:
		return e.evalMember(bc, env, n)

	case *parser.IndexExpr:
		return e.evalIndex(bc, env, n)

	case *parser.SliceExpr:
		return e.evalSlice(bc, env, n)

	case *parser.CallExpr:
		return e.evalCall(bc, env, n)

	default:
		return nil, values.NewError(values.ErrType, "cannot evaluate node of type %T", node)
	}
}

// evalIdent resolves a bare identifier (spec §4.1/§4.2's lookup chain):
// local binding first, then an elementary type name (for casts/`type(...)`),
// then a bare top-level builtin function, then a registered ABI name used
// as a constructor.
func (e *Evaluator) evalIdent(bc *builtins.Context, env *environment.Environment, name string) (values.Value, error) {
	if v, ok := env.Get(name); ok {
		return v, nil
	}
	if t, ok := builtins.ElementaryType(name); ok {
		return values.TypeRef{Descriptor: t}, nil
	}
	if fn, ok := e.Registry.TopLevelFunc(bc, name); ok {
		return fn, nil
	}
	if parsed, ok := bc.Session.ABIs.ByName(name); ok {
		return &values.Contract{Name: name, ABI: parsed}, nil
	}
	return nil, values.NameErrorf("name %q is not defined", name)
}

func (e *Evaluator) evalUnary(bc *builtins.Context, env *environment.Environment, n *parser.UnaryExpr) (values.Value, error) {
	v, err := e.evalExpr(bc, env, n.Operand)
	if err != nil {
		return nil, err
	}
	switch n.Op {
	case "-":
		i, ok := v.(*values.Integer)
		if !ok {
			return nil, values.TypeErrorf("cannot negate %s", v.Kind())
		}
		return values.Negate(i)
	case "!":
		b, ok := v.(values.Bool)
		if !ok {
			return nil, values.TypeErrorf("cannot apply ! to %s", v.Kind())
		}
		return values.Bool(!b), nil
	case "~":
		i, ok := v.(*values.Integer)
		if !ok {
			return nil, values.TypeErrorf("cannot apply ~ to %s", v.Kind())
		}
		mask := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), uint(i.Bits)), big.NewInt(1))
		flipped := new(big.Int).Xor(i.Val, mask)
		return values.NewInteger(flipped, i.Bits, i.Signed)
	default:
		return nil, values.TypeErrorf("unknown unary operator %q", n.Op)
	}
}

func (e *Evaluator) evalBinary(bc *builtins.Context, env *environment.Environment, n *parser.BinaryExpr) (values.Value, error) {
	if n.Op == "&&" || n.Op == "||" {
		left, err := e.evalExpr(bc, env, n.Left)
		if err != nil {
			return nil, err
		}
		lb, ok := left.(values.Bool)
		if !ok {
			return nil, values.TypeErrorf("%s requires bool operands, got %s", n.Op, left.Kind())
		}
		if n.Op == "&&" && !bool(lb) {
			return values.Bool(false), nil
		}
		if n.Op == "||" && bool(lb) {
			return values.Bool(true), nil
		}
		right, err := e.evalExpr(bc, env, n.Right)
		if err != nil {
			return nil, err
		}
		rb, ok := right.(values.Bool)
		if !ok {
			return nil, values.TypeErrorf("%s requires bool operands, got %s", n.Op, right.Kind())
		}
		return rb, nil
	}

	left, err := e.evalExpr(bc, env, n.Left)
	if err != nil {
		return nil, err
	}
	right, err := e.evalExpr(bc, env, n.Right)
	if err != nil {
		return nil, err
	}

	switch n.Op {
	case "==":
		return values.Bool(valuesEqual(left, right)), nil
	case "!=":
		return values.Bool(!valuesEqual(left, right)), nil
	case "<", "<=", ">", ">=":
		return compareValues(n.Op, left, right)
	case "+":
		return evalAdd(left, right)
	case "-", "*", "/", "%", "<<", ">>", "&", "|", "^":
		li, ok := left.(*values.Integer)
		if !ok {
			return nil, values.TypeErrorf("cannot apply %s to %s and %s", n.Op, left.Kind(), right.Kind())
		}
		ri, ok := right.(*values.Integer)
		if !ok {
			return nil, values.TypeErrorf("cannot apply %s to %s and %s", n.Op, left.Kind(), right.Kind())
		}
		return values.ArithByOp(n.Op, li, ri)
	default:
		return nil, values.TypeErrorf("unknown binary operator %q", n.Op)
	}
}

// evalAdd implements `+` across Integer/String/Bytes (spec §4.3): Integer
// arithmetic, String/Bytes concatenation, and the explicit
// "cannot add <T> and <U>" error for mismatched kinds.
func evalAdd(left, right values.Value) (values.Value, error) {
	switch l := left.(type) {
	case *values.Integer:
		r, ok := right.(*values.Integer)
		if !ok {
			return nil, values.TypeErrorf("cannot add %s and %s", left.Type(), right.Type())
		}
		return values.ArithByOp("+", l, r)
	case values.String:
		r, ok := right.(values.String)
		if !ok {
			return nil, values.TypeErrorf("cannot add %s and %s", left.Type(), right.Type())
		}
		return l + r, nil
	case values.Bytes:
		r, ok := right.(values.Bytes)
		if !ok {
			return nil, values.TypeErrorf("cannot add %s and %s", left.Type(), right.Type())
		}
		return append(append(values.Bytes{}, l...), r...), nil
	default:
		return nil, values.TypeErrorf("cannot add %s and %s", left.Type(), right.Type())
	}
}

// valuesEqual implements spec §4.3's heterogeneous-kind equality: exact
// match within a kind, else a lossless cross-kind coercion check.
func valuesEqual(a, b values.Value) bool {
	if a.Kind() == b.Kind() {
		return values.Equal(a, b)
	}
	return values.CoercesTo(a, b)
}

func compareValues(op string, left, right values.Value) (values.Value, error) {
	li, ok := left.(*values.Integer)
	if !ok {
		return nil, values.TypeErrorf("cannot compare %s and %s", left.Type(), right.Type())
	}
	ri, ok := right.(*values.Integer)
	if !ok {
		return nil, values.TypeErrorf("cannot compare %s and %s", left.Type(), right.Type())
	}
	cmp := values.Compare(li, ri)
	switch op {
	case "<":
		return values.Bool(cmp < 0), nil
	case "<=":
		return values.Bool(cmp <= 0), nil
	case ">":
		return values.Bool(cmp > 0), nil
	case ">=":
		return values.Bool(cmp >= 0), nil
	default:
		return nil, values.TypeErrorf("unknown comparison operator %q", op)
	}
}

// evalMember implements the dispatch contract of spec §4.2: the method
// table first, falling through to a Contract's ABI and finally a TypeRef's
// static table. Ident receivers naming a registered namespace (`vm`, `abi`,
// ...) are special-cased here since namespaces have no Value representation
// of their own.
func (e *Evaluator) evalMember(bc *builtins.Context, env *environment.Environment, n *parser.MemberExpr) (values.Value, error) {
	if id, ok := n.Receiver.(*parser.Ident); ok {
		if _, bound := env.Get(id.Name); !bound {
			if ns, ok := e.Registry.Namespace(id.Name); ok {
				return ns.Get(bc, n.Name)
			}
		}
	}
	recv, err := e.evalExpr(bc, env, n.Receiver)
	if err != nil {
		return nil, err
	}
	return e.resolveMember(bc, recv, n.Name)
}

func (e *Evaluator) resolveMember(bc *builtins.Context, recv values.Value, name string) (values.Value, error) {
	if prop, ok := e.Registry.Property(recv.Kind(), name); ok {
		return prop(bc, recv)
	}
	if m, ok := e.Registry.Method(recv.Kind(), name); ok {
		impl := m
		return &values.Func{
			FuncKind: values.FuncBuiltin,
			Name:     name,
			Invoke: func(args values.CallArgs) (values.Value, error) {
				return impl(bc, recv, args)
			},
		}, nil
	}
	switch v := recv.(type) {
	case *values.Contract:
		return e.resolveContractMember(bc, v, name)
	case values.TypeRef:
		return nil, values.NameErrorf("no static member %q on type %s", name, v.Descriptor)
	case *values.NamedTuple:
		return v.Field(name)
	case *values.Receipt:
		return v.AsNamedTuple().Field(name)
	case *values.Log:
		return v.AsNamedTuple().Field(name)
	case *values.Tuple:
		return nil, values.NameErrorf("tuples only support integer-literal element access, not member %q", name)
	}
	return nil, values.NameErrorf("no member %q on %s", name, recv.Kind())
}

func (e *Evaluator) evalIndex(bc *builtins.Context, env *environment.Environment, n *parser.IndexExpr) (values.Value, error) {
	recv, err := e.evalExpr(bc, env, n.Receiver)
	if err != nil {
		return nil, err
	}
	idxVal, err := e.evalExpr(bc, env, n.Index)
	if err != nil {
		return nil, err
	}
	idxInt, ok := idxVal.(*values.Integer)
	if !ok {
		return nil, values.TypeErrorf("index must be an integer, got %s", idxVal.Kind())
	}
	idx := int(idxInt.Val.Int64())
	switch r := recv.(type) {
	case *values.Array:
		return r.Get(idx)
	case *values.Tuple:
		return r.Get(idx)
	case values.Bytes:
		return r.Index(idx)
	default:
		return nil, values.TypeErrorf("cannot index %s", recv.Kind())
	}
}

func (e *Evaluator) evalSlice(bc *builtins.Context, env *environment.Environment, n *parser.SliceExpr) (values.Value, error) {
	recv, err := e.evalExpr(bc, env, n.Receiver)
	if err != nil {
		return nil, err
	}
	length, err := lengthOf(recv)
	if err != nil {
		return nil, err
	}
	lo, hi := 0, length
	if n.Low != nil {
		v, err := e.evalExpr(bc, env, n.Low)
		if err != nil {
			return nil, err
		}
		i, ok := v.(*values.Integer)
		if !ok {
			return nil, values.TypeErrorf("slice bound must be an integer")
		}
		lo = int(i.Val.Int64())
	}
	if n.High != nil {
		v, err := e.evalExpr(bc, env, n.High)
		if err != nil {
			return nil, err
		}
		i, ok := v.(*values.Integer)
		if !ok {
			return nil, values.TypeErrorf("slice bound must be an integer")
		}
		hi = int(i.Val.Int64())
	}
	switch r := recv.(type) {
	case values.Bytes:
		return r.Slice(lo, hi)
	case values.String:
		return r.Slice(lo, hi)
	default:
		return nil, values.TypeErrorf("cannot slice %s", recv.Kind())
	}
}

func lengthOf(v values.Value) (int, error) {
	switch x := v.(type) {
	case values.Bytes:
		return len(x), nil
	case values.String:
		return len(x), nil
	default:
		return 0, values.TypeErrorf("cannot slice %s", v.Kind())
	}
}

// resolveTypeExpr turns a parsed TypeExpr into a Type descriptor, used by
// DeclStmt and array-length resolution.
func (e *Evaluator) resolveTypeExpr(bc *builtins.Context, env *environment.Environment, te *parser.TypeExpr) (values.Type, error) {
	if te.IsArray {
		elem, err := e.resolveTypeExpr(bc, env, te.Elems[0])
		if err != nil {
			return nil, err
		}
		if te.ArrayLen == nil {
			return values.ArrayType{Elem: elem}, nil
		}
		n, err := e.evalExpr(bc, env, te.ArrayLen)
		if err != nil {
			return nil, err
		}
		ni, ok := n.(*values.Integer)
		if !ok {
			return nil, values.TypeErrorf("array length must be an integer")
		}
		length := int(ni.Val.Int64())
		return values.ArrayType{Elem: elem, Length: &length}, nil
	}
	if t, ok := builtins.ElementaryType(te.Name); ok {
		return t, nil
	}
	return values.ContractType{Name: te.Name}, nil
}
