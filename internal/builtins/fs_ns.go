package builtins

import (
	"os"

	"github.com/danhper/eclair/internal/values"
)

// registerFS wires the `fs` namespace (SPEC_FULL.md's recovered feature
// C.3): plain filesystem access for scripting, independent of ABI artifact
// loading.
func (r *Registry) registerFS() {
	ns := r.namespace("fs")

	ns.Funcs["read"] = func(c *Context, args values.CallArgs) (values.Value, error) {
		if err := requireArity("fs.read", args, 1); err != nil {
			return nil, err
		}
		path, err := asString(arg(args, 0), "fs.read")
		if err != nil {
			return nil, err
		}
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, values.WrapError(values.ErrIO, err, "failed to read %q", path)
		}
		return values.String(raw), nil
	}

	ns.Funcs["write"] = func(c *Context, args values.CallArgs) (values.Value, error) {
		if err := requireArity("fs.write", args, 2); err != nil {
			return nil, err
		}
		path, err := asString(arg(args, 0), "fs.write")
		if err != nil {
			return nil, err
		}
		content, err := asString(arg(args, 1), "fs.write")
		if err != nil {
			return nil, err
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return nil, values.WrapError(values.ErrIO, err, "failed to write %q", path)
		}
		return values.Null{}, nil
	}

	ns.Funcs["exists"] = func(c *Context, args values.CallArgs) (values.Value, error) {
		if err := requireArity("fs.exists", args, 1); err != nil {
			return nil, err
		}
		path, err := asString(arg(args, 0), "fs.exists")
		if err != nil {
			return nil, err
		}
		_, err = os.Stat(path)
		return values.Bool(err == nil), nil
	}
}
