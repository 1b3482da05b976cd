package builtins

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"

	"github.com/danhper/eclair/internal/values"
	"github.com/danhper/eclair/pkg/abi"
)

// registerMethods wires the per-(kind, name) method table (spec §3.4/§4.2):
// collection methods on Array, scaled-arithmetic helpers on Integer,
// .balance on Address, .getReceipt on Transaction, and static .decode on
// Contract.
func (r *Registry) registerMethods() {
	r.registerProperty(values.KindArray, "length", func(c *Context, recv values.Value) (values.Value, error) {
		arr := recv.(*values.Array)
		return values.NewInteger(bigFromInt(len(arr.Elements)), 256, false)
	})
	r.registerMethod(values.KindArray, "concat", func(c *Context, recv values.Value, args values.CallArgs) (values.Value, error) {
		if err := requireArity("concat", args, 1); err != nil {
			return nil, err
		}
		other, ok := arg(args, 0).(*values.Array)
		if !ok {
			return nil, values.TypeErrorf("concat expects an array argument, got %s", kindOf(arg(args, 0)))
		}
		return recv.(*values.Array).Concat(other), nil
	})
	r.registerMethod(values.KindArray, "map", func(c *Context, recv values.Value, args values.CallArgs) (values.Value, error) {
		if err := requireArity("map", args, 1); err != nil {
			return nil, err
		}
		fn, ok := arg(args, 0).(*values.Func)
		if !ok {
			return nil, values.TypeErrorf("map expects a function argument, got %s", kindOf(arg(args, 0)))
		}
		return recv.(*values.Array).Map(func(el values.Value) (values.Value, error) {
			return fn.Invoke(values.CallArgs{Positional: []values.Value{el}})
		})
	})
	r.registerMethod(values.KindArray, "filter", func(c *Context, recv values.Value, args values.CallArgs) (values.Value, error) {
		if err := requireArity("filter", args, 1); err != nil {
			return nil, err
		}
		fn, ok := arg(args, 0).(*values.Func)
		if !ok {
			return nil, values.TypeErrorf("filter expects a function argument, got %s", kindOf(arg(args, 0)))
		}
		return recv.(*values.Array).Filter(func(el values.Value) (bool, error) {
			result, err := fn.Invoke(values.CallArgs{Positional: []values.Value{el}})
			if err != nil {
				return false, err
			}
			b, ok := result.(values.Bool)
			if !ok {
				return false, values.TypeErrorf("filter's function must return bool, got %s", result.Kind())
			}
			return bool(b), nil
		})
	})
	r.registerMethod(values.KindArray, "reduce", func(c *Context, recv values.Value, args values.CallArgs) (values.Value, error) {
		if len(args.Positional) < 1 || len(args.Positional) > 2 {
			return nil, values.ArityErrorf("reduce expects (function) or (function, initial), got %d arguments", len(args.Positional))
		}
		fn, ok := arg(args, 0).(*values.Func)
		if !ok {
			return nil, values.TypeErrorf("reduce expects a function as its first argument, got %s", kindOf(arg(args, 0)))
		}
		var init values.Value
		if len(args.Positional) == 2 {
			init = arg(args, 1)
		}
		return recv.(*values.Array).Reduce(func(acc, el values.Value) (values.Value, error) {
			return fn.Invoke(values.CallArgs{Positional: []values.Value{acc, el}})
		}, init)
	})
	r.registerMethod(values.KindArray, "format", func(c *Context, recv values.Value, args values.CallArgs) (values.Value, error) {
		return values.String(recv.String()), nil
	})

	r.registerMethod(values.KindInteger, "mul", func(c *Context, recv values.Value, args values.CallArgs) (values.Value, error) {
		if len(args.Positional) < 1 || len(args.Positional) > 2 {
			return nil, values.ArityErrorf("mul expects (other) or (other, decimals), got %d argument(s)", len(args.Positional))
		}
		other, err := asInteger(arg(args, 0), "mul")
		if err != nil {
			return nil, err
		}
		decimals := 18
		if len(args.Positional) == 2 {
			d, err := asInteger(arg(args, 1), "mul")
			if err != nil {
				return nil, err
			}
			decimals = int(d.Val.Int64())
		}
		return values.Mul(recv.(*values.Integer), other, decimals)
	})
	r.registerMethod(values.KindInteger, "div", func(c *Context, recv values.Value, args values.CallArgs) (values.Value, error) {
		if len(args.Positional) < 1 || len(args.Positional) > 2 {
			return nil, values.ArityErrorf("div expects (other) or (other, decimals), got %d argument(s)", len(args.Positional))
		}
		other, err := asInteger(arg(args, 0), "div")
		if err != nil {
			return nil, err
		}
		decimals := 18
		if len(args.Positional) == 2 {
			d, err := asInteger(arg(args, 1), "div")
			if err != nil {
				return nil, err
			}
			decimals = int(d.Val.Int64())
		}
		return values.Div(recv.(*values.Integer), other, decimals)
	})
	r.registerMethod(values.KindInteger, "format", func(c *Context, recv values.Value, args values.CallArgs) (values.Value, error) {
		decimals, precision := 18, 2
		if len(args.Positional) >= 1 {
			n, err := asInteger(arg(args, 0), "format")
			if err != nil {
				return nil, err
			}
			decimals = int(n.Val.Int64())
		}
		if len(args.Positional) >= 2 {
			n, err := asInteger(arg(args, 1), "format")
			if err != nil {
				return nil, err
			}
			precision = int(n.Val.Int64())
		}
		return values.String(values.Format(recv, decimals, precision)), nil
	})

	r.registerProperty(values.KindAddress, "balance", func(c *Context, recv values.Value) (values.Value, error) {
		addr := recv.(values.Address)
		wei, err := c.Session.BalanceOf(c.Ctx, addrCommon(addr))
		if err != nil {
			return nil, err
		}
		return values.NewInteger(wei, 256, false)
	})

	r.registerMethod(values.KindTransaction, "getReceipt", func(c *Context, recv values.Value, args values.CallArgs) (values.Value, error) {
		if err := requireArity("getReceipt", args, 0); err != nil {
			return nil, err
		}
		tx := recv.(values.Transaction)
		receipt, err := c.Session.GetReceipt(c.Ctx, txHash(tx))
		if err != nil {
			return nil, err
		}
		return buildReceiptValue(c, receipt), nil
	})

	// TypeRef's static members (spec §4.2's "if v is a TypeRef, consult the
	// type's static table"): `type(uintN).max`/`.min`, read without parens
	// like any other property.
	r.registerProperty(values.KindTypeRef, "max", func(c *Context, recv values.Value) (values.Value, error) {
		return staticMember(recv.(values.TypeRef).Descriptor, "max")
	})
	r.registerProperty(values.KindTypeRef, "min", func(c *Context, recv values.Value) (values.Value, error) {
		return staticMember(recv.(values.TypeRef).Descriptor, "min")
	})

	r.registerMethod(values.KindContract, "decode", func(c *Context, recv values.Value, args values.CallArgs) (values.Value, error) {
		if err := requireArity("decode", args, 1); err != nil {
			return nil, err
		}
		data, err := asBytes(arg(args, 0), "decode")
		if err != nil {
			return nil, err
		}
		contract := recv.(*values.Contract)
		if len(data) < 4 {
			return nil, values.TypeErrorf("calldata shorter than a selector")
		}
		var selector [4]byte
		copy(selector[:], data[:4])
		for _, m := range contract.ABI.Methods {
			if [4]byte(m.ID[:4]) == selector {
				method := m
				return abi.DecodeCalldata(&method, data)
			}
		}
		return nil, values.NameErrorf("no method on %s matches selector 0x%x", contract.Name, selector)
	})
}

func bigFromInt(n int) *big.Int { return big.NewInt(int64(n)) }

func addrCommon(a values.Address) common.Address { return common.Address(a) }

func txHash(t values.Transaction) common.Hash { return common.Hash(t) }

// buildReceiptValue converts a go-ethereum receipt into the NamedTuple-shaped
// Receipt of spec §3.1, decoding each log against every registered ABI the
// same way events.fetch does.
func buildReceiptValue(c *Context, receipt *gethtypes.Receipt) *values.Receipt {
	logs := make([]values.Value, len(receipt.Logs))
	for i, l := range receipt.Logs {
		logs[i] = DecodeLogValue(c, *l)
	}
	gasUsed, _ := values.NewInteger(new(big.Int).SetUint64(receipt.GasUsed), 256, false)
	blockNumber, _ := values.NewInteger(receipt.BlockNumber, 256, false)
	effectiveGasPrice, _ := values.NewInteger(receipt.EffectiveGasPrice, 256, false)
	return &values.Receipt{
		TxHash:            values.FixedBytes(receipt.TxHash.Bytes()),
		BlockHash:         values.FixedBytes(receipt.BlockHash.Bytes()),
		BlockNumber:       blockNumber,
		Status:            values.Bool(receipt.Status == gethtypes.ReceiptStatusSuccessful),
		GasUsed:           gasUsed,
		EffectiveGasPrice: effectiveGasPrice,
		Logs:              values.NewArray(values.LogType{}, logs...),
	}
}
