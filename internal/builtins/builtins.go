// Package builtins implements Eclair's Builtins Registry (spec §4.2): the
// fixed catalogue of namespaced functions/properties (abi, vm, accounts,
// block, repl, console, json, fs, events, plus the top-level keccak256/
// type/format) and the per-(kind, name) method table consulted by the
// Evaluator's member/call dispatch.
package builtins

import (
	"context"
	"io"

	"github.com/danhper/eclair/internal/logging"
	"github.com/danhper/eclair/internal/session"
	"github.com/danhper/eclair/internal/values"
)

// Context bundles everything a namespace function or method needs beyond
// its own arguments: the cancellable context for the in-flight expression
// (spec §5's "suspension points"/"cancellation"), the Session RPC/wallet
// state, and the REPL's output/history hooks for console.*/repl.*.
type Context struct {
	Ctx     context.Context
	Session *session.Session
	Log     *logging.Logger
	Out     io.Writer
	ErrOut  io.Writer

	// History returns the REPL's line history, nil outside an interactive
	// session (one-shot file mode has no history to report).
	History func() []string

	// ResolveRPCAlias resolves a foundry.toml [rpc_endpoints] alias to its
	// URL, falling back to returning name unchanged. nil means no config
	// was loaded, in which case vm.rpc takes its argument as a literal URL.
	ResolveRPCAlias func(name string) string
}

// PropertyFunc produces a read-only namespace property value, e.g.
// `block.number`.
type PropertyFunc func(c *Context) (values.Value, error)

// FuncImpl is a namespace function's implementation, e.g. `vm.rpc(url)`.
type FuncImpl func(c *Context, args values.CallArgs) (values.Value, error)

// Namespace is one of abi/vm/accounts/block/repl/console/json/fs/events.
type Namespace struct {
	Name       string
	Properties map[string]PropertyFunc
	Funcs      map[string]FuncImpl
}

func newNamespace(name string) *Namespace {
	return &Namespace{Name: name, Properties: map[string]PropertyFunc{}, Funcs: map[string]FuncImpl{}}
}

// Get resolves a namespace member, used by the Evaluator for both bare
// property access (`block.number`) and as the pre-step before a call
// (`vm.rpc(...)` resolves `vm.rpc` to a Func first).
func (n *Namespace) Get(c *Context, name string) (values.Value, error) {
	if prop, ok := n.Properties[name]; ok {
		return prop(c)
	}
	if fn, ok := n.Funcs[name]; ok {
		impl := fn
		return &values.Func{
			FuncKind: values.FuncBuiltin,
			Name:     n.Name + "." + name,
			Invoke: func(args values.CallArgs) (values.Value, error) {
				return impl(c, args)
			},
		}, nil
	}
	return nil, values.NameErrorf("no member %q on namespace %s", name, n.Name)
}

// MethodFunc is a method bound to a receiver value, e.g. `arr.map(f)`. It is
// always accessed through a call (`arr.map(f)`, never bare `arr.map`).
type MethodFunc func(c *Context, receiver values.Value, args values.CallArgs) (values.Value, error)

// PropertyMethodFunc is a parenthesis-free member read bound to a receiver
// value, e.g. `arr.length`, `addr.balance`, `type(uint8).max`.
type PropertyMethodFunc func(c *Context, receiver values.Value) (values.Value, error)

// Registry is the process-wide catalogue seeded once at startup and shared
// by every evaluated expression.
type Registry struct {
	Namespaces map[string]*Namespace
	TopLevel   map[string]FuncImpl
	Methods    map[values.Kind]map[string]MethodFunc
	Properties map[values.Kind]map[string]PropertyMethodFunc
}

// NewRegistry builds the full catalogue: all namespaces, top-level
// functions, and per-kind methods.
func NewRegistry() *Registry {
	r := &Registry{
		Namespaces: map[string]*Namespace{},
		TopLevel:   map[string]FuncImpl{},
		Methods:    map[values.Kind]map[string]MethodFunc{},
		Properties: map[values.Kind]map[string]PropertyMethodFunc{},
	}
	r.registerVM()
	r.registerAccounts()
	r.registerABI()
	r.registerBlock()
	r.registerConsole()
	r.registerRepl()
	r.registerJSON()
	r.registerFS()
	r.registerEvents()
	r.registerTopLevel()
	r.registerMethods()
	return r
}

func (r *Registry) namespace(name string) *Namespace {
	ns, ok := r.Namespaces[name]
	if !ok {
		ns = newNamespace(name)
		r.Namespaces[name] = ns
	}
	return ns
}

// Namespace looks up a root namespace by name (`vm`, `abi`, ...), used by
// the Evaluator to special-case `Ident` nodes naming a namespace.
func (r *Registry) Namespace(name string) (*Namespace, bool) {
	ns, ok := r.Namespaces[name]
	return ns, ok
}

// TopLevelFunc looks up a bare top-level function (`keccak256`, `type`,
// `format`) as a callable Func value.
func (r *Registry) TopLevelFunc(c *Context, name string) (values.Value, bool) {
	fn, ok := r.TopLevel[name]
	if !ok {
		return nil, false
	}
	impl := fn
	return &values.Func{
		FuncKind: values.FuncBuiltin,
		Name:     name,
		Invoke: func(args values.CallArgs) (values.Value, error) {
			return impl(c, args)
		},
	}, true
}

// Method looks up a method by (kind, name); ok is false when absent, which
// the Evaluator's dispatch contract (spec §4.2) treats as "fall through to
// the next lookup strategy" rather than an immediate error.
func (r *Registry) Method(kind values.Kind, name string) (MethodFunc, bool) {
	table, ok := r.Methods[kind]
	if !ok {
		return nil, false
	}
	m, ok := table[name]
	return m, ok
}

func (r *Registry) registerMethod(kind values.Kind, name string, fn MethodFunc) {
	table, ok := r.Methods[kind]
	if !ok {
		table = map[string]MethodFunc{}
		r.Methods[kind] = table
	}
	table[name] = fn
}

// Property looks up a parenthesis-free member by (kind, name); ok is false
// when absent, same fall-through contract as Method.
func (r *Registry) Property(kind values.Kind, name string) (PropertyMethodFunc, bool) {
	table, ok := r.Properties[kind]
	if !ok {
		return nil, false
	}
	p, ok := table[name]
	return p, ok
}

func (r *Registry) registerProperty(kind values.Kind, name string, fn PropertyMethodFunc) {
	table, ok := r.Properties[kind]
	if !ok {
		table = map[string]PropertyMethodFunc{}
		r.Properties[kind] = table
	}
	table[name] = fn
}

func arg(args values.CallArgs, i int) values.Value {
	if i < len(args.Positional) {
		return args.Positional[i]
	}
	return nil
}

func requireArity(name string, args values.CallArgs, n int) error {
	if len(args.Positional) != n {
		return values.ArityErrorf("%s expects %d argument(s), got %d", name, n, len(args.Positional))
	}
	return nil
}
