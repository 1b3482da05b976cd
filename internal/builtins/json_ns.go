package builtins

import (
	"encoding/json"
	"math/big"

	"github.com/danhper/eclair/internal/values"
)

// registerJSON wires the `json` namespace (SPEC_FULL.md's recovered feature
// C.3): a minimal bridge between Eclair values and arbitrary JSON documents,
// independent of the ABI codec.
func (r *Registry) registerJSON() {
	ns := r.namespace("json")

	ns.Funcs["parse"] = func(c *Context, args values.CallArgs) (values.Value, error) {
		if err := requireArity("json.parse", args, 1); err != nil {
			return nil, err
		}
		raw, err := asString(arg(args, 0), "json.parse")
		if err != nil {
			return nil, err
		}
		var decoded interface{}
		if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
			return nil, values.WrapError(values.ErrType, err, "invalid JSON")
		}
		return fromJSON(decoded)
	}

	ns.Funcs["stringify"] = func(c *Context, args values.CallArgs) (values.Value, error) {
		if err := requireArity("json.stringify", args, 1); err != nil {
			return nil, err
		}
		encoded, err := toJSON(arg(args, 0))
		if err != nil {
			return nil, err
		}
		raw, err := json.Marshal(encoded)
		if err != nil {
			return nil, values.WrapError(values.ErrType, err, "failed to stringify value")
		}
		return values.String(raw), nil
	}
}

func fromJSON(v interface{}) (values.Value, error) {
	switch x := v.(type) {
	case nil:
		return values.Null{}, nil
	case bool:
		return values.Bool(x), nil
	case float64:
		return values.NewInteger(big.NewInt(int64(x)), 256, true)
	case string:
		return values.String(x), nil
	case []interface{}:
		elems := make([]values.Value, len(x))
		var elemType values.Type = values.NullType{}
		for i, el := range x {
			v, err := fromJSON(el)
			if err != nil {
				return nil, err
			}
			elems[i] = v
			if i == 0 {
				elemType = v.Type()
			}
		}
		return values.NewArray(elemType, elems...), nil
	case map[string]interface{}:
		fields := make([]string, 0, len(x))
		vals := make([]values.Value, 0, len(x))
		for k, el := range x {
			v, err := fromJSON(el)
			if err != nil {
				return nil, err
			}
			fields = append(fields, k)
			vals = append(vals, v)
		}
		return values.NewNamedTuple(fields, vals)
	default:
		return nil, values.TypeErrorf("unsupported JSON value")
	}
}

func toJSON(v values.Value) (interface{}, error) {
	switch x := v.(type) {
	case values.Null:
		return nil, nil
	case values.Bool:
		return bool(x), nil
	case *values.Integer:
		return x.Val, nil
	case values.String:
		return string(x), nil
	case values.Address:
		return x.String(), nil
	case values.Bytes:
		return x.String(), nil
	case values.FixedBytes:
		return x.String(), nil
	case *values.Array:
		out := make([]interface{}, len(x.Elements))
		for i, el := range x.Elements {
			v, err := toJSON(el)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	case *values.Tuple:
		out := make([]interface{}, len(x.Elements))
		for i, el := range x.Elements {
			v, err := toJSON(el)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	case *values.NamedTuple:
		out := make(map[string]interface{}, len(x.Fields))
		for i, f := range x.Fields {
			v, err := toJSON(x.Values[i])
			if err != nil {
				return nil, err
			}
			out[f] = v
		}
		return out, nil
	default:
		return nil, values.TypeErrorf("cannot stringify value of kind %s", v.Kind())
	}
}
