package builtins

import (
	"os"
	"strings"

	"github.com/danhper/eclair/internal/values"
)

// registerRepl wires the `repl` namespace (SPEC_FULL.md's recovered feature
// C.2): introspecting and persisting the line-editor's history.
func (r *Registry) registerRepl() {
	ns := r.namespace("repl")

	ns.Funcs["history"] = func(c *Context, args values.CallArgs) (values.Value, error) {
		if err := requireArity("repl.history", args, 0); err != nil {
			return nil, err
		}
		if c.History == nil {
			return values.NewArray(values.StringType{}), nil
		}
		lines := c.History()
		elems := make([]values.Value, len(lines))
		for i, l := range lines {
			elems[i] = values.String(l)
		}
		return values.NewArray(values.StringType{}, elems...), nil
	}

	ns.Funcs["save"] = func(c *Context, args values.CallArgs) (values.Value, error) {
		if err := requireArity("repl.save", args, 1); err != nil {
			return nil, err
		}
		path, err := asString(arg(args, 0), "repl.save")
		if err != nil {
			return nil, err
		}
		var lines []string
		if c.History != nil {
			lines = c.History()
		}
		if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644); err != nil {
			return nil, values.WrapError(values.ErrIO, err, "failed to save history to %q", path)
		}
		return values.Null{}, nil
	}
}
