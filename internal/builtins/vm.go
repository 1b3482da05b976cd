package builtins

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/danhper/eclair/internal/session"
	"github.com/danhper/eclair/internal/values"
)

// registerVM wires the `vm` namespace (spec §4.5/§6.3): RPC connection
// management, the local Anvil fork lifecycle, impersonation, and
// time/balance manipulation. Every function is a thin wrapper over the
// already-synchronous Session methods.
func (r *Registry) registerVM() {
	ns := r.namespace("vm")

	ns.Properties["currentRpc"] = func(c *Context) (values.Value, error) {
		return values.String(c.Session.CurrentRPC()), nil
	}
	ns.Properties["connected"] = func(c *Context) (values.Value, error) {
		return values.Bool(c.Session.Connected()), nil
	}

	ns.Funcs["rpc"] = func(c *Context, args values.CallArgs) (values.Value, error) {
		if err := requireArity("vm.rpc", args, 1); err != nil {
			return nil, err
		}
		url, err := asString(arg(args, 0), "vm.rpc")
		if err != nil {
			return nil, err
		}
		if c.ResolveRPCAlias != nil {
			url = c.ResolveRPCAlias(url)
		}
		if err := c.Session.SetRPC(c.Ctx, url); err != nil {
			return nil, err
		}
		return values.Null{}, nil
	}

	ns.Funcs["getChainId"] = func(c *Context, args values.CallArgs) (values.Value, error) {
		if err := requireArity("vm.getChainId", args, 0); err != nil {
			return nil, err
		}
		id, err := c.Session.GetChainID(c.Ctx)
		if err != nil {
			return nil, err
		}
		return values.NewInteger(id, 256, false)
	}

	ns.Funcs["fork"] = func(c *Context, args values.CallArgs) (values.Value, error) {
		if err := requireArity("vm.fork", args, 1); err != nil {
			return nil, err
		}
		url, err := asString(arg(args, 0), "vm.fork")
		if err != nil {
			return nil, err
		}
		if err := c.Session.Fork(c.Ctx, url); err != nil {
			return nil, err
		}
		return values.Null{}, nil
	}

	ns.Funcs["startPrank"] = func(c *Context, args values.CallArgs) (values.Value, error) {
		if err := requireArity("vm.startPrank", args, 1); err != nil {
			return nil, err
		}
		addr, ok := arg(args, 0).(values.Address)
		if !ok {
			return nil, values.TypeErrorf("vm.startPrank expects an address argument")
		}
		if err := c.Session.StartPrank(c.Ctx, common.Address(addr)); err != nil {
			return nil, err
		}
		return values.Null{}, nil
	}

	ns.Funcs["stopPrank"] = func(c *Context, args values.CallArgs) (values.Value, error) {
		if err := requireArity("vm.stopPrank", args, 0); err != nil {
			return nil, err
		}
		if err := c.Session.StopPrank(c.Ctx); err != nil {
			return nil, err
		}
		return values.Null{}, nil
	}

	ns.Funcs["deal"] = func(c *Context, args values.CallArgs) (values.Value, error) {
		if err := requireArity("vm.deal", args, 2); err != nil {
			return nil, err
		}
		addr, ok := arg(args, 0).(values.Address)
		if !ok {
			return nil, values.TypeErrorf("vm.deal expects (address, uint256)")
		}
		wei, err := asInteger(arg(args, 1), "vm.deal")
		if err != nil {
			return nil, err
		}
		if err := c.Session.Deal(c.Ctx, common.Address(addr), wei.Val); err != nil {
			return nil, err
		}
		return values.Null{}, nil
	}

	ns.Funcs["mine"] = func(c *Context, args values.CallArgs) (values.Value, error) {
		if err := requireArity("vm.mine", args, 1); err != nil {
			return nil, err
		}
		n, err := asInteger(arg(args, 0), "vm.mine")
		if err != nil {
			return nil, err
		}
		if err := c.Session.Mine(c.Ctx, n.Val.Uint64()); err != nil {
			return nil, err
		}
		return values.Null{}, nil
	}

	ns.Funcs["skip"] = func(c *Context, args values.CallArgs) (values.Value, error) {
		if err := requireArity("vm.skip", args, 1); err != nil {
			return nil, err
		}
		seconds, err := asInteger(arg(args, 0), "vm.skip")
		if err != nil {
			return nil, err
		}
		if err := c.Session.Skip(c.Ctx, seconds.Val.Uint64()); err != nil {
			return nil, err
		}
		return values.Null{}, nil
	}

	ns.Funcs["setBlock"] = func(c *Context, args values.CallArgs) (values.Value, error) {
		if err := requireArity("vm.setBlock", args, 1); err != nil {
			return nil, err
		}
		sel, err := session.ParseBlockSelector(arg(args, 0))
		if err != nil {
			return nil, err
		}
		c.Session.SetBlock(sel)
		return values.Null{}, nil
	}

	ns.Funcs["currentBlock"] = func(c *Context, args values.CallArgs) (values.Value, error) {
		if err := requireArity("vm.currentBlock", args, 0); err != nil {
			return nil, err
		}
		return values.String(c.Session.CurrentBlock().String()), nil
	}
}

func asString(v values.Value, ctx string) (string, error) {
	s, ok := v.(values.String)
	if !ok {
		return "", values.TypeErrorf("%s expects a string argument, got %s", ctx, kindOf(v))
	}
	return string(s), nil
}

func asInteger(v values.Value, ctx string) (*values.Integer, error) {
	n, ok := v.(*values.Integer)
	if !ok {
		return nil, values.TypeErrorf("%s expects an integer argument, got %s", ctx, kindOf(v))
	}
	return n, nil
}

func kindOf(v values.Value) values.Kind {
	if v == nil {
		return values.KindNull
	}
	return v.Kind()
}
