package builtins

import (
	"github.com/danhper/eclair/internal/values"
	"github.com/danhper/eclair/pkg/abi"
)

// registerTopLevel wires the three bare top-level functions (spec §4.2):
// `keccak256`, `type`, `format`.
func (r *Registry) registerTopLevel() {
	r.TopLevel["keccak256"] = func(c *Context, args values.CallArgs) (values.Value, error) {
		if err := requireArity("keccak256", args, 1); err != nil {
			return nil, err
		}
		data, err := asBytes(arg(args, 0), "keccak256")
		if err != nil {
			if s, ok := arg(args, 0).(values.String); ok {
				data = []byte(s)
			} else {
				return nil, err
			}
		}
		hash := abi.Keccak256(data)
		return values.NewFixedBytes(hash[:])
	}

	r.TopLevel["type"] = func(c *Context, args values.CallArgs) (values.Value, error) {
		if err := requireArity("type", args, 1); err != nil {
			return nil, err
		}
		v := arg(args, 0)
		if _, ok := v.(values.TypeRef); ok {
			return values.TypeRef{Descriptor: values.TypeType{}}, nil
		}
		return values.TypeRef{Descriptor: v.Type()}, nil
	}

	r.TopLevel["format"] = func(c *Context, args values.CallArgs) (values.Value, error) {
		if len(args.Positional) < 1 || len(args.Positional) > 3 {
			return nil, values.ArityErrorf("format expects 1 to 3 arguments, got %d", len(args.Positional))
		}
		decimals, precision := 18, 2
		if len(args.Positional) >= 2 {
			n, err := asInteger(arg(args, 1), "format")
			if err != nil {
				return nil, err
			}
			decimals = int(n.Val.Int64())
		}
		if len(args.Positional) == 3 {
			n, err := asInteger(arg(args, 2), "format")
			if err != nil {
				return nil, err
			}
			precision = int(n.Val.Int64())
		}
		return values.String(values.Format(arg(args, 0), decimals, precision)), nil
	}
}
