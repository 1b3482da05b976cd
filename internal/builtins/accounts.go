package builtins

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/danhper/eclair/internal/values"
)

// registerAccounts wires the `accounts` namespace (spec §4.5/§6.2): loading
// signers (raw key, keystore, ledger) and switching the active one.
func (r *Registry) registerAccounts() {
	ns := r.namespace("accounts")

	ns.Properties["loadedAccounts"] = func(c *Context) (values.Value, error) {
		wallets := c.Session.LoadedAccounts()
		elems := make([]values.Value, len(wallets))
		for i, w := range wallets {
			elems[i] = values.Address(w.Address)
		}
		return values.NewArray(values.AddressType{}, elems...), nil
	}

	ns.Properties["currentAccount"] = func(c *Context) (values.Value, error) {
		w, ok := c.Session.CurrentAccount()
		if !ok {
			return values.Null{}, nil
		}
		return values.Address(w.Address), nil
	}

	ns.Funcs["loadKey"] = func(c *Context, args values.CallArgs) (values.Value, error) {
		if err := requireArity("accounts.loadKey", args, 1); err != nil {
			return nil, err
		}
		hexKey, err := asString(arg(args, 0), "accounts.loadKey")
		if err != nil {
			return nil, err
		}
		wallet, err := c.Session.LoadKey(hexKey)
		if err != nil {
			return nil, err
		}
		return values.Address(wallet.Address), nil
	}

	ns.Funcs["loadKeystore"] = func(c *Context, args values.CallArgs) (values.Value, error) {
		if err := requireArity("accounts.loadKeystore", args, 2); err != nil {
			return nil, err
		}
		path, err := asString(arg(args, 0), "accounts.loadKeystore")
		if err != nil {
			return nil, err
		}
		password, err := asString(arg(args, 1), "accounts.loadKeystore")
		if err != nil {
			return nil, err
		}
		wallet, err := c.Session.LoadKeystore(path, password)
		if err != nil {
			return nil, err
		}
		return values.Address(wallet.Address), nil
	}

	ns.Funcs["loadLedger"] = func(c *Context, args values.CallArgs) (values.Value, error) {
		if err := requireArity("accounts.loadLedger", args, 2); err != nil {
			return nil, err
		}
		path, err := asString(arg(args, 0), "accounts.loadLedger")
		if err != nil {
			return nil, err
		}
		addr, ok := arg(args, 1).(values.Address)
		if !ok {
			return nil, values.TypeErrorf("accounts.loadLedger expects (string, address)")
		}
		wallet := c.Session.LoadLedger(path, common.Address(addr))
		return values.Address(wallet.Address), nil
	}

	ns.Funcs["listLedger"] = func(c *Context, args values.CallArgs) (values.Value, error) {
		if err := requireArity("accounts.listLedger", args, 0); err != nil {
			return nil, err
		}
		addrs, err := c.Session.ListLedger(c.Ctx)
		if err != nil {
			return nil, err
		}
		elems := make([]values.Value, len(addrs))
		for i, a := range addrs {
			elems[i] = values.Address(a)
		}
		return values.NewArray(values.AddressType{}, elems...), nil
	}

	ns.Funcs["selectAccount"] = func(c *Context, args values.CallArgs) (values.Value, error) {
		if err := requireArity("accounts.selectAccount", args, 1); err != nil {
			return nil, err
		}
		ref, err := referenceString(arg(args, 0))
		if err != nil {
			return nil, err
		}
		if err := c.Session.SelectAccount(ref); err != nil {
			return nil, err
		}
		return values.Null{}, nil
	}

	ns.Funcs["aliasAccount"] = func(c *Context, args values.CallArgs) (values.Value, error) {
		if err := requireArity("accounts.aliasAccount", args, 2); err != nil {
			return nil, err
		}
		addr, ok := arg(args, 0).(values.Address)
		if !ok {
			return nil, values.TypeErrorf("accounts.aliasAccount expects (address, string)")
		}
		alias, err := asString(arg(args, 1), "accounts.aliasAccount")
		if err != nil {
			return nil, err
		}
		if err := c.Session.AliasAccount(common.Address(addr), alias); err != nil {
			return nil, err
		}
		return values.Null{}, nil
	}
}

// referenceString accepts either an address or an alias string as the
// `selectAccount` reference, matching the hex-or-alias lookup WalletSet.Select
// performs internally.
func referenceString(v values.Value) (string, error) {
	switch val := v.(type) {
	case values.Address:
		return val.String(), nil
	case values.String:
		return string(val), nil
	default:
		return "", values.TypeErrorf("expected an address or alias string, got %s", kindOf(v))
	}
}
