package values

// FuncKind distinguishes the four Func payloads of spec §3.1. It exists for
// display and dispatch purposes only — invocation itself always goes
// through Invoke, regardless of kind.
type FuncKind int

const (
	FuncBuiltin FuncKind = iota
	FuncClosure
	FuncContractMethod
	FuncLambda
)

// CallArgs is what an Evaluator call site has produced by the time it
// invokes a Func: evaluated positional arguments plus the parsed options
// block (spec §4.4.1).
type CallArgs struct {
	Positional []Value
	Options    map[string]Value
}

// Invoker is the signature every namespace function, method, user closure,
// and contract method in Eclair implements. For FuncClosure/FuncLambda the
// Invoker is a Go closure created by the Evaluator at function-literal
// evaluation time, capturing the AST body and the defining Environment —
// this keeps internal/values free of a dependency on internal/parser or
// internal/environment (spec §4.2).
type Invoker func(args CallArgs) (Value, error)

// Func is a first-class callable value: a builtin, a user-defined closure
// over its defining environment, a contract method bound to an instance, or
// an anonymous lambda (spec §3.1).
type Func struct {
	FuncKind FuncKind
	Name     string
	Params   []string // display only; real binding happens inside Invoke
	Invoke   Invoker

	// Set only for FuncContractMethod, so the Evaluator can branch on
	// view/pure vs state-modifying without re-deriving it from Invoke.
	Contract *Contract
	ABIName  string
	StateMut string // "view", "pure", "nonpayable", "payable"
	IsEvent  bool
}

func (f *Func) Kind() Kind { return KindFunc }
func (f *Func) Type() Type { return FunctionType{} }
func (f *Func) String() string {
	if f.Name != "" {
		return "function " + f.Name
	}
	return "function"
}
