// Package interp implements Eclair's evaluator (spec §4.4): it reduces the
// parser's AST to values.Value, driving the Environment's scope chain and
// the Builtins Registry's dispatch tables. The evaluator is single-threaded
// and recursive; nothing here spawns a goroutine of its own — RPC
// suspension points are ordinary blocking calls into internal/session, and
// the caller decides whether those run under a cancellable context.
package interp

import (
	"context"
	"io"

	"github.com/danhper/eclair/internal/builtins"
	"github.com/danhper/eclair/internal/environment"
	"github.com/danhper/eclair/internal/logging"
	"github.com/danhper/eclair/internal/parser"
	"github.com/danhper/eclair/internal/session"
	"github.com/danhper/eclair/internal/values"
)

// Evaluator owns the long-lived pieces of an interactive run: the global
// Environment (so bindings persist across calls to Eval) and everything a
// builtins.Context needs to be rebuilt per evaluation.
type Evaluator struct {
	Registry *builtins.Registry
	Env      *environment.Environment
	Session  *session.Session
	Log      *logging.Logger
	Out      io.Writer
	ErrOut   io.Writer
	History  func() []string

	// ResolveRPCAlias resolves a foundry.toml [rpc_endpoints] alias; threaded
	// through to builtins.Context so vm.rpc("alias") works the same way a
	// session's initial --rpc-url/ETH_RPC_URL endpoint does (spec §6.3).
	ResolveRPCAlias func(name string) string

	// currentCtx is the cancellable context of the statement presently
	// executing. Closures and bound contract methods may outlive the
	// EvalSource call that created them (a declared function, or a
	// contract handle, used again on a later REPL line) so their Invoke
	// reads this field lazily instead of closing over a stale Context
	// (spec §5: RPC calls must remain cancellable from the current line).
	currentCtx context.Context
}

// New builds an Evaluator with a fresh root Environment. resolveRPCAlias may
// be nil (vm.rpc then treats its argument as a literal URL).
func New(reg *builtins.Registry, sess *session.Session, log *logging.Logger, out, errOut io.Writer, history func() []string, resolveRPCAlias func(string) string) *Evaluator {
	return &Evaluator{
		Registry:        reg,
		Env:             environment.New(),
		Session:         sess,
		Log:             log,
		Out:             out,
		ErrOut:          errOut,
		History:         history,
		ResolveRPCAlias: resolveRPCAlias,
	}
}

func (e *Evaluator) context(ctx context.Context) *builtins.Context {
	return &builtins.Context{
		Ctx:             ctx,
		Session:         e.Session,
		Log:             e.Log,
		Out:             e.Out,
		ErrOut:          e.ErrOut,
		History:         e.History,
		ResolveRPCAlias: e.ResolveRPCAlias,
	}
}

// controlKind signals non-local exit from statement execution. Only
// `return` produces one; blocks/if/for/while propagate it upward to the
// enclosing function-call boundary without introducing a scope of their
// own (spec §4.1).
type controlKind int

const (
	ctlNone controlKind = iota
	ctlReturn
)

type control struct {
	kind  controlKind
	value values.Value
}

// EvalSource parses src and evaluates every top-level statement in order,
// returning the last produced value. `_` is updated after each top-level
// expression statement that yields a non-Null value (spec §4.1).
func (e *Evaluator) EvalSource(ctx context.Context, src string) (values.Value, error) {
	stmts, err := parser.Parse(src)
	if err != nil {
		if perr, ok := err.(*values.Error); ok {
			return nil, perr
		}
		return nil, values.WrapError(values.ErrParse, err, "parse error")
	}
	e.currentCtx = ctx
	bc := e.context(ctx)
	var result values.Value = values.Null{}
	for _, stmt := range stmts {
		v, ctl, err := e.execStmt(bc, e.Env, stmt)
		if err != nil {
			return nil, err
		}
		if ctl.kind == ctlReturn {
			// A bare `return` at the top level ends evaluation of this
			// source unit early, same as falling off the end.
			result = ctl.value
			break
		}
		result = v
		if _, isExpr := stmt.(*parser.ExprStmt); isExpr && v != nil && v.Kind() != values.KindNull {
			e.Env.SetLastResult(v)
		}
	}
	return result, nil
}

// execStmt executes one statement in env, returning the value it produced
// (Null for statements with no expression value), any propagating control
// signal, and an error.
func (e *Evaluator) execStmt(bc *builtins.Context, env *environment.Environment, node parser.Node) (values.Value, control, error) {
	switch n := node.(type) {
	case *parser.ExprStmt:
		v, err := e.evalExpr(bc, env, n.Expr)
		if err != nil {
			return nil, control{}, err
		}
		return v, control{}, nil

	case *parser.DeclStmt:
		target, err := e.resolveTypeExpr(bc, env, n.Type)
		if err != nil {
			return nil, control{}, err
		}
		var v values.Value = zeroValue(target)
		if n.Value != nil {
			raw, err := e.evalExpr(bc, env, n.Value)
			if err != nil {
				return nil, control{}, err
			}
			v, err = values.Cast(target, raw)
			if err != nil {
				return nil, control{}, err
			}
		}
		env.Declare(n.Name, v)
		return values.Null{}, control{}, nil

	case *parser.AssignStmt:
		v, err := e.evalExpr(bc, env, n.Value)
		if err != nil {
			return nil, control{}, err
		}
		if len(n.Targets) == 1 {
			if err := e.assignTo(env, n.Targets[0], v); err != nil {
				return nil, control{}, err
			}
			return values.Null{}, control{}, nil
		}
		tup, ok := v.(*values.Tuple)
		if !ok || len(tup.Elements) != len(n.Targets) {
			return nil, control{}, values.TypeErrorf("multiple assignment expects a tuple of arity %d", len(n.Targets))
		}
		for i, target := range n.Targets {
			if err := e.assignTo(env, target, tup.Elements[i]); err != nil {
				return nil, control{}, err
			}
		}
		return values.Null{}, control{}, nil

	case *parser.BlockStmt:
		for _, s := range n.Stmts {
			v, ctl, err := e.execStmt(bc, env, s)
			if err != nil {
				return nil, control{}, err
			}
			if ctl.kind != ctlNone {
				return v, ctl, nil
			}
		}
		return values.Null{}, control{}, nil

	case *parser.IfStmt:
		cond, err := e.evalExpr(bc, env, n.Cond)
		if err != nil {
			return nil, control{}, err
		}
		b, ok := cond.(values.Bool)
		if !ok {
			return nil, control{}, values.TypeErrorf("if condition must be bool, got %s", cond.Kind())
		}
		if bool(b) {
			return e.execStmt(bc, env, n.Then)
		}
		if n.Else != nil {
			return e.execStmt(bc, env, n.Else)
		}
		return values.Null{}, control{}, nil

	case *parser.ForStmt:
		if n.Init != nil {
			if _, _, err := e.execStmt(bc, env, n.Init); err != nil {
				return nil, control{}, err
			}
		}
		for {
			if n.Cond != nil {
				cond, err := e.evalExpr(bc, env, n.Cond)
				if err != nil {
					return nil, control{}, err
				}
				b, ok := cond.(values.Bool)
				if !ok {
					return nil, control{}, values.TypeErrorf("for condition must be bool, got %s", cond.Kind())
				}
				if !bool(b) {
					break
				}
			}
			v, ctl, err := e.execStmt(bc, env, n.Body)
			if err != nil {
				return nil, control{}, err
			}
			if ctl.kind != ctlNone {
				return v, ctl, nil
			}
			if n.Post != nil {
				if _, _, err := e.execStmt(bc, env, n.Post); err != nil {
					return nil, control{}, err
				}
			}
		}
		return values.Null{}, control{}, nil

	case *parser.WhileStmt:
		for {
			cond, err := e.evalExpr(bc, env, n.Cond)
			if err != nil {
				return nil, control{}, err
			}
			b, ok := cond.(values.Bool)
			if !ok {
				return nil, control{}, values.TypeErrorf("while condition must be bool, got %s", cond.Kind())
			}
			if !bool(b) {
				break
			}
			v, ctl, err := e.execStmt(bc, env, n.Body)
			if err != nil {
				return nil, control{}, err
			}
			if ctl.kind != ctlNone {
				return v, ctl, nil
			}
		}
		return values.Null{}, control{}, nil

	case *parser.ReturnStmt:
		var v values.Value = values.Null{}
		if n.Value != nil {
			var err error
			v, err = e.evalExpr(bc, env, n.Value)
			if err != nil {
				return nil, control{}, err
			}
		}
		return v, control{kind: ctlReturn, value: v}, nil

	case *parser.FunctionDecl:
		fn := e.makeClosure(n.Name, n.Params, n.Body, env)
		env.Declare(n.Name, fn)
		return values.Null{}, control{}, nil

	default:
		return nil, control{}, values.NewError(values.ErrType, "cannot execute node of type %T", node)
	}
}

// assignTo implements the write policy of spec §4.1 for a single target,
// which must be a bare identifier (member/index assignment targets are not
// part of the value model: Arrays/Tuples are immutable).
func (e *Evaluator) assignTo(env *environment.Environment, target parser.Node, v values.Value) error {
	id, ok := target.(*parser.Ident)
	if !ok {
		return values.TypeErrorf("assignment target must be an identifier")
	}
	env.Assign(id.Name, v)
	return nil
}

// zeroValue produces the default value a declaration with no initializer
// gets, matching each elementary type's natural zero.
func zeroValue(t values.Type) values.Value {
	switch tt := t.(type) {
	case values.IntegerType:
		return values.MustInteger(0, tt.Bits, tt.Signed)
	case values.BoolType:
		return values.Bool(false)
	case values.StringType:
		return values.String("")
	case values.BytesType:
		return values.Bytes(nil)
	case values.AddressType:
		return values.Address{}
	default:
		return values.Null{}
	}
}
