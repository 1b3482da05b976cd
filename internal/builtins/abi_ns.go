package builtins

import (
	"os"

	"github.com/ethereum/go-ethereum/common"

	"github.com/danhper/eclair/internal/values"
	"github.com/danhper/eclair/pkg/abi"
)

// registerABI wires the `abi` namespace (spec §4.4.2/§4.4.3, §4.5): loading
// and fetching ABI handles, and the untyped encode/decode builtins that
// infer wire types directly from Eclair value/type descriptors rather than
// from a loaded contract method.
func (r *Registry) registerABI() {
	ns := r.namespace("abi")

	ns.Properties["registeredAbis"] = func(c *Context) (values.Value, error) {
		names := c.Session.RegisteredABIs()
		elems := make([]values.Value, len(names))
		for i, n := range names {
			elems[i] = values.String(n)
		}
		return values.NewArray(values.StringType{}, elems...), nil
	}

	// load(name, path) registers an unbound ABI handle (usable as a
	// constructor namespace); load(name, address, path) binds it directly.
	ns.Funcs["load"] = func(c *Context, args values.CallArgs) (values.Value, error) {
		var name, path string
		var address common.Address
		switch len(args.Positional) {
		case 2:
			n, err := asString(arg(args, 0), "abi.load")
			if err != nil {
				return nil, err
			}
			p, err := asString(arg(args, 1), "abi.load")
			if err != nil {
				return nil, err
			}
			name, path = n, p
		case 3:
			n, err := asString(arg(args, 0), "abi.load")
			if err != nil {
				return nil, err
			}
			addr, ok := arg(args, 1).(values.Address)
			if !ok {
				return nil, values.TypeErrorf("abi.load expects an address as the second argument")
			}
			p, err := asString(arg(args, 2), "abi.load")
			if err != nil {
				return nil, err
			}
			name, address, path = n, common.Address(addr), p
		default:
			return nil, values.ArityErrorf("abi.load expects (name, path) or (name, address, path), got %d arguments", len(args.Positional))
		}
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, values.WrapError(values.ErrIO, err, "failed to read ABI file %q", path)
		}
		if err := c.Session.LoadABI(name, address, raw); err != nil {
			return nil, err
		}
		return contractValue(c, name)
	}

	ns.Funcs["fetch"] = func(c *Context, args values.CallArgs) (values.Value, error) {
		if err := requireArity("abi.fetch", args, 2); err != nil {
			return nil, err
		}
		name, err := asString(arg(args, 0), "abi.fetch")
		if err != nil {
			return nil, err
		}
		addr, ok := arg(args, 1).(values.Address)
		if !ok {
			return nil, values.TypeErrorf("abi.fetch expects (name, address)")
		}
		chainID, err := c.Session.GetChainID(c.Ctx)
		if err != nil {
			return nil, err
		}
		if err := c.Session.FetchABI(c.Ctx, name, common.Address(addr), chainID.Int64()); err != nil {
			return nil, err
		}
		return contractValue(c, name)
	}

	ns.Funcs["encode"] = func(c *Context, args values.CallArgs) (values.Value, error) {
		data, err := abi.EncodeValues(args.Positional)
		if err != nil {
			return nil, err
		}
		return values.Bytes(data), nil
	}

	ns.Funcs["encodePacked"] = func(c *Context, args values.CallArgs) (values.Value, error) {
		data, err := abi.EncodePacked(args.Positional)
		if err != nil {
			return nil, err
		}
		return values.Bytes(data), nil
	}

	ns.Funcs["decode"] = func(c *Context, args values.CallArgs) (values.Value, error) {
		if err := requireArity("abi.decode", args, 2); err != nil {
			return nil, err
		}
		data, err := asBytes(arg(args, 0), "abi.decode")
		if err != nil {
			return nil, err
		}
		types, err := asTypeTuple(arg(args, 1))
		if err != nil {
			return nil, err
		}
		return abi.DecodeValues(data, types)
	}

	ns.Funcs["decodeData"] = func(c *Context, args values.CallArgs) (values.Value, error) {
		if err := requireArity("abi.decodeData", args, 1); err != nil {
			return nil, err
		}
		data, err := asBytes(arg(args, 0), "abi.decodeData")
		if err != nil {
			return nil, err
		}
		if len(data) < 4 {
			return nil, values.TypeErrorf("calldata shorter than a selector")
		}
		var selector [4]byte
		copy(selector[:], data[:4])
		_, method, ok := c.Session.ABIs.FindBySelector(selector)
		if !ok {
			return nil, values.NameErrorf("no registered ABI matches selector 0x%x", selector)
		}
		decoded, err := abi.DecodeCalldata(method, data)
		if err != nil {
			return nil, err
		}
		return values.NewTuple(values.String(method.Sig), decoded), nil
	}

	ns.Funcs["decodeMultisend"] = func(c *Context, args values.CallArgs) (values.Value, error) {
		if err := requireArity("abi.decodeMultisend", args, 1); err != nil {
			return nil, err
		}
		data, err := asBytes(arg(args, 0), "abi.decodeMultisend")
		if err != nil {
			return nil, err
		}
		return abi.DecodeMultisend(data)
	}
}

func contractValue(c *Context, name string) (values.Value, error) {
	parsed, ok := c.Session.ABIs.ByName(name)
	if !ok {
		return nil, values.NameErrorf("no ABI registered under %q", name)
	}
	return &values.Contract{Name: name, ABI: parsed}, nil
}

func asBytes(v values.Value, ctx string) ([]byte, error) {
	switch x := v.(type) {
	case values.Bytes:
		return []byte(x), nil
	case values.FixedBytes:
		return []byte(x), nil
	default:
		return nil, values.TypeErrorf("%s expects a bytes argument, got %s", ctx, kindOf(v))
	}
}

// asTypeTuple accepts the Tuple-of-TypeRef produced by writing `(uint8, address)`
// as an expression, used as abi.decode's second argument.
func asTypeTuple(v values.Value) ([]values.Type, error) {
	tup, ok := v.(*values.Tuple)
	if !ok {
		return nil, values.TypeErrorf("abi.decode expects a type tuple as its second argument, got %s", kindOf(v))
	}
	types := make([]values.Type, len(tup.Elements))
	for i, el := range tup.Elements {
		ref, ok := el.(values.TypeRef)
		if !ok {
			return nil, values.TypeErrorf("abi.decode's type tuple must contain only types, element %d is %s", i, el.Kind())
		}
		types[i] = ref.Descriptor
	}
	return types, nil
}
