package builtins

import (
	"math/big"

	"github.com/danhper/eclair/internal/values"
)

// registerBlock wires the `block` namespace: read-only properties resolved
// against the session's current block selector (spec §4.5).
func (r *Registry) registerBlock() {
	ns := r.namespace("block")

	ns.Properties["number"] = func(c *Context) (values.Value, error) {
		header, err := c.Session.CurrentHeader(c.Ctx)
		if err != nil {
			return nil, err
		}
		return values.NewInteger(header.Number, 256, false)
	}

	ns.Properties["timestamp"] = func(c *Context) (values.Value, error) {
		header, err := c.Session.CurrentHeader(c.Ctx)
		if err != nil {
			return nil, err
		}
		return values.NewInteger(new(big.Int).SetUint64(header.Time), 256, false)
	}

	ns.Properties["hash"] = func(c *Context) (values.Value, error) {
		header, err := c.Session.CurrentHeader(c.Ctx)
		if err != nil {
			return nil, err
		}
		return values.FixedBytes(header.Hash().Bytes()), nil
	}
}
