package builtins

import (
	"github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/samber/lo"

	"github.com/danhper/eclair/internal/session"
	"github.com/danhper/eclair/internal/values"
	"github.com/danhper/eclair/pkg/abi"
)

// registerEvents wires the `events` namespace: filtering and decoding logs
// against every registered ABI (spec §4.4.4/§4.5).
func (r *Registry) registerEvents() {
	ns := r.namespace("events")

	ns.Funcs["fetch"] = func(c *Context, args values.CallArgs) (values.Value, error) {
		if len(args.Positional) < 1 {
			return nil, values.ArityErrorf("events.fetch expects at least one address argument")
		}
		addresses, err := addressList(args.Positional)
		if err != nil {
			return nil, err
		}
		opts, err := session.ParseCallOptions(args.Options)
		if err != nil {
			return nil, err
		}
		logs, err := c.Session.FetchLogs(c.Ctx, addresses, opts)
		if err != nil {
			return nil, err
		}
		elems := lo.Map(logs, func(l gethtypes.Log, _ int) values.Value {
			return DecodeLogValue(c, l)
		})
		return values.NewArray(values.LogType{}, elems...), nil
	}
}

// DecodeLogValue builds a *values.Log from a raw go-ethereum log, matching
// it against every registered ABI by topic0 (spec §4.4.4). Shared with
// receipt decoding so `getReceipt().logs` gets the same `args` treatment.
func DecodeLogValue(c *Context, l gethtypes.Log) *values.Log {
	topics := lo.Map(l.Topics, func(t common.Hash, _ int) values.Value {
		return values.FixedBytes(t.Bytes())
	})
	logVal := &values.Log{
		Address: values.Address(l.Address),
		Topics:  values.NewArray(values.FixedBytesType{Length: 32}, topics...),
		Data:    values.Bytes(l.Data),
	}
	if len(l.Topics) == 0 {
		return logVal
	}
	_, event, ok := c.Session.ABIs.FindEventBySignature(l.Topics[0])
	if !ok {
		return logVal
	}
	args, err := abi.DecodeLog(event, l.Topics, l.Data)
	if err != nil {
		return logVal
	}
	logVal.Args = args
	return logVal
}

func addressList(positional []values.Value) ([]common.Address, error) {
	var out []common.Address
	for _, p := range positional {
		switch x := p.(type) {
		case values.Address:
			out = append(out, common.Address(x))
		case *values.Array:
			for _, el := range x.Elements {
				addr, ok := el.(values.Address)
				if !ok {
					return nil, values.TypeErrorf("events.fetch expects addresses, got %s", el.Kind())
				}
				out = append(out, common.Address(addr))
			}
		default:
			return nil, values.TypeErrorf("events.fetch expects address arguments, got %s", p.Kind())
		}
	}
	return out, nil
}
