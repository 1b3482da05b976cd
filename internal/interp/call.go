package interp

import (
	"github.com/danhper/eclair/internal/builtins"
	"github.com/danhper/eclair/internal/environment"
	"github.com/danhper/eclair/internal/parser"
	"github.com/danhper/eclair/internal/session"
	"github.com/danhper/eclair/internal/values"
	"github.com/danhper/eclair/pkg/abi"

	gethabi "github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// evalCall implements the call-dispatch contract of spec §4.4: evaluate
// callee then args then options, and branch on what the callee turned out
// to be.
func (e *Evaluator) evalCall(bc *builtins.Context, env *environment.Environment, n *parser.CallExpr) (values.Value, error) {
	calleeVal, err := e.evalExpr(bc, env, n.Callee)
	if err != nil {
		return nil, err
	}

	args := make([]values.Value, len(n.Args))
	for i, a := range n.Args {
		v, err := e.evalExpr(bc, env, a)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}

	opts := make(map[string]values.Value, len(n.Options))
	for _, o := range n.Options {
		v, err := e.evalExpr(bc, env, o.Value)
		if err != nil {
			return nil, err
		}
		opts[o.Key] = v
	}

	switch callee := calleeVal.(type) {
	case values.TypeRef:
		if len(args) != 1 {
			return nil, values.ArityErrorf("type cast expects exactly 1 argument, got %d", len(args))
		}
		return values.Cast(callee.Descriptor, args[0])

	case *values.Contract:
		if len(args) != 1 {
			return nil, values.ArityErrorf("%s constructor expects exactly 1 address argument, got %d", callee.Name, len(args))
		}
		addr, ok := args[0].(values.Address)
		if !ok {
			return nil, values.TypeErrorf("%s constructor expects an address argument, got %s", callee.Name, args[0].Kind())
		}
		return callee.Bind(addr), nil

	case *values.Func:
		return callee.Invoke(values.CallArgs{Positional: args, Options: opts})

	default:
		return nil, values.TypeErrorf("%s is not callable", calleeVal.Kind())
	}
}

// makeClosure builds the Func for a `function` declaration (spec §4.4's
// "User closure"): a new scope chained to the declaring Environment, with
// parameters bound positionally.
func (e *Evaluator) makeClosure(name string, params []string, body *parser.BlockStmt, defEnv *environment.Environment) *values.Func {
	return &values.Func{
		FuncKind: values.FuncClosure,
		Name:     name,
		Params:   params,
		Invoke: func(args values.CallArgs) (values.Value, error) {
			if len(args.Positional) != len(params) {
				return nil, values.ArityErrorf("%s expects %d argument(s), got %d", name, len(params), len(args.Positional))
			}
			callEnv := defEnv.NewChild()
			for i, p := range params {
				callEnv.Declare(p, args.Positional[i])
			}
			bc := e.context(e.currentCtx)
			_, ctl, err := e.execStmt(bc, callEnv, body)
			if err != nil {
				return nil, err
			}
			if ctl.kind == ctlReturn {
				return ctl.value, nil
			}
			return values.Null{}, nil
		},
	}
}

// makeLambda builds the Func for a `params => expr` lambda literal: same
// scoping as a closure, but the body is a single expression.
func (e *Evaluator) makeLambda(params []string, body parser.Node, defEnv *environment.Environment) *values.Func {
	return &values.Func{
		FuncKind: values.FuncLambda,
		Params:   params,
		Invoke: func(args values.CallArgs) (values.Value, error) {
			if len(args.Positional) != len(params) {
				return nil, values.ArityErrorf("lambda expects %d argument(s), got %d", len(params), len(args.Positional))
			}
			callEnv := defEnv.NewChild()
			for i, p := range params {
				callEnv.Declare(p, args.Positional[i])
			}
			bc := e.context(e.currentCtx)
			return e.evalExpr(bc, callEnv, body)
		},
	}
}

// resolveContractMember implements the dispatch contract's Contract
// fallback (spec §4.2): consult the ABI for a function or event named n and
// synthesize a bound Func.
func (e *Evaluator) resolveContractMember(bc *builtins.Context, contract *values.Contract, name string) (values.Value, error) {
	if method, ok := contract.ABI.Methods[name]; ok {
		m := method
		return e.bindContractMethod(contract, &m), nil
	}
	if event, ok := contract.ABI.Events[name]; ok {
		ev := event
		return e.bindContractEvent(contract, &ev), nil
	}
	return nil, values.NameErrorf("no member %q on contract %s", name, contract.Name)
}

// callMode selects how a bound contract method Func executes, per the
// reserved `{call, send, encode, traceCall}` option keys of spec §4.4's
// call-dispatch section (kept separate from session.ParseCallOptions'
// recognized keys, which govern tx/call parameters, not dispatch mode).
type callMode int

const (
	modeAuto callMode = iota
	modeCall
	modeSend
	modeEncode
	modeTrace
)

func extractCallMode(opts map[string]values.Value) (callMode, map[string]values.Value, error) {
	mode := modeAuto
	rest := make(map[string]values.Value, len(opts))
	for k, v := range opts {
		switch k {
		case "call":
			if truthy(v) {
				mode = modeCall
			}
		case "send":
			if truthy(v) {
				mode = modeSend
			}
		case "encode":
			if truthy(v) {
				mode = modeEncode
			}
		case "traceCall":
			if truthy(v) {
				mode = modeTrace
			}
		default:
			rest[k] = v
		}
	}
	return mode, rest, nil
}

func truthy(v values.Value) bool {
	b, ok := v.(values.Bool)
	return ok && bool(b)
}

// bindContractMethod synthesizes the Func a contract-method call site
// invokes (spec §4.4's "Contract method Func" branch).
func (e *Evaluator) bindContractMethod(contract *values.Contract, method *gethabi.Method) *values.Func {
	isView := method.StateMutability == "view" || method.StateMutability == "pure"
	return &values.Func{
		FuncKind: values.FuncContractMethod,
		Name:     contract.Name + "." + method.Name,
		Contract: contract,
		ABIName:  method.Name,
		StateMut: method.StateMutability,
		Invoke: func(args values.CallArgs) (values.Value, error) {
			if contract.Address == nil {
				return nil, values.NewError(values.ErrUsage, "contract not bound to an address")
			}
			calldata, err := abi.EncodeCall(method, args.Positional)
			if err != nil {
				return nil, err
			}
			mode, rest, err := extractCallMode(args.Options)
			if err != nil {
				return nil, err
			}
			if mode == modeEncode {
				return values.Bytes(calldata), nil
			}
			if mode == modeTrace {
				return nil, values.NewError(values.ErrUsage, "traceCall is not supported against this node")
			}
			opts, err := session.ParseCallOptions(rest)
			if err != nil {
				return nil, err
			}
			bc := e.context(e.currentCtx)
			useCall := mode == modeCall || (mode == modeAuto && isView)
			to := common.Address(*contract.Address)
			if useCall {
				data, err := bc.Session.EthCall(bc.Ctx, to, calldata, opts)
				if err != nil {
					return nil, err
				}
				return abi.DecodeOutput(method, data)
			}
			hash, err := bc.Session.SendTx(bc.Ctx, &to, calldata, opts)
			if err != nil {
				return nil, err
			}
			return values.Transaction(hash), nil
		},
	}
}

// bindContractEvent resolves a contract's event member to its topic0 hash,
// usable as `{topic0: Token.Transfer()}` in events.fetch (spec §4.4.1/§4.4.4).
func (e *Evaluator) bindContractEvent(contract *values.Contract, event *gethabi.Event) *values.Func {
	return &values.Func{
		FuncKind: values.FuncContractMethod,
		Name:     contract.Name + "." + event.Name,
		Contract: contract,
		ABIName:  event.Name,
		IsEvent:  true,
		Invoke: func(args values.CallArgs) (values.Value, error) {
			topic := abi.EventTopic0(event)
			return values.FixedBytes(topic.Bytes()), nil
		},
	}
}
