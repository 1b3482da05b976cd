package session

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/danhper/eclair/internal/values"
)

// recognizedOptionKeys is the complete set from spec §4.4.1; ParseCallOptions
// rejects anything else with an arity error.
var recognizedOptionKeys = map[string]bool{
	"value": true, "block": true, "from": true, "gasLimit": true,
	"maxFee": true, "priorityFee": true, "gasPrice": true,
	"fromBlock": true, "toBlock": true,
	"topic0": true, "topic1": true, "topic2": true, "topic3": true,
}

// ParseCallOptions converts the evaluator's parsed `{key: value, ...}`
// options block into a CallOptions struct, rejecting unknown keys (spec
// §4.4.1: "Unknown keys are rejected").
func ParseCallOptions(opts map[string]values.Value) (CallOptions, error) {
	var out CallOptions
	for key := range opts {
		if !recognizedOptionKeys[key] {
			return out, values.ArityErrorf("unknown call option %q", key)
		}
	}

	if v, ok := opts["value"]; ok {
		n, err := asInteger(v, "value")
		if err != nil {
			return out, err
		}
		out.Value = n.Val
	}
	if v, ok := opts["block"]; ok {
		sel, err := ParseBlockSelector(v)
		if err != nil {
			return out, err
		}
		out.Block = &sel
	}
	if v, ok := opts["from"]; ok {
		addr, err := asAddress(v, "from")
		if err != nil {
			return out, err
		}
		out.From = &addr
	}
	if v, ok := opts["gasLimit"]; ok {
		n, err := asInteger(v, "gasLimit")
		if err != nil {
			return out, err
		}
		out.GasLimit = n.Val.Uint64()
	}
	if v, ok := opts["maxFee"]; ok {
		n, err := asInteger(v, "maxFee")
		if err != nil {
			return out, err
		}
		out.MaxFee = n.Val
	}
	if v, ok := opts["priorityFee"]; ok {
		n, err := asInteger(v, "priorityFee")
		if err != nil {
			return out, err
		}
		out.PriorityFee = n.Val
	}
	if v, ok := opts["gasPrice"]; ok {
		n, err := asInteger(v, "gasPrice")
		if err != nil {
			return out, err
		}
		out.GasPrice = n.Val
	}
	if v, ok := opts["fromBlock"]; ok {
		sel, err := ParseBlockSelector(v)
		if err != nil {
			return out, err
		}
		out.FromBlock = &sel
	}
	if v, ok := opts["toBlock"]; ok {
		sel, err := ParseBlockSelector(v)
		if err != nil {
			return out, err
		}
		out.ToBlock = &sel
	}
	for i, key := range []string{"topic0", "topic1", "topic2", "topic3"} {
		v, ok := opts[key]
		if !ok {
			continue
		}
		hash, err := asHash(v, key)
		if err != nil {
			return out, err
		}
		out.Topics[i] = &hash
	}
	return out, nil
}

func asInteger(v values.Value, key string) (*values.Integer, error) {
	n, ok := v.(*values.Integer)
	if !ok {
		return nil, values.TypeErrorf("option %q expects an integer, got %s", key, v.Kind())
	}
	return n, nil
}

func asAddress(v values.Value, key string) (common.Address, error) {
	addr, ok := v.(values.Address)
	if !ok {
		return common.Address{}, values.TypeErrorf("option %q expects an address, got %s", key, v.Kind())
	}
	return common.Address(addr), nil
}

func asHash(v values.Value, key string) (common.Hash, error) {
	switch x := v.(type) {
	case values.FixedBytes:
		padded, err := x.Resize(32)
		if err != nil {
			return common.Hash{}, err
		}
		return common.BytesToHash(padded), nil
	default:
		return common.Hash{}, values.TypeErrorf("option %q expects a 32-byte value, got %s", key, v.Kind())
	}
}
