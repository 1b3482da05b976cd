package builtins

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/danhper/eclair/internal/values"
)

// registerConsole wires the `console` namespace (SPEC_FULL.md's recovered
// feature C.1): colored logging plus a tabular array printer.
func (r *Registry) registerConsole() {
	ns := r.namespace("console")

	ns.Funcs["log"] = func(c *Context, args values.CallArgs) (values.Value, error) {
		fmt.Fprintln(c.Out, joinArgs(args))
		return values.Null{}, nil
	}

	ns.Funcs["error"] = func(c *Context, args values.CallArgs) (values.Value, error) {
		color.New(color.FgRed).Fprintln(c.ErrOut, joinArgs(args))
		return values.Null{}, nil
	}

	ns.Funcs["table"] = func(c *Context, args values.CallArgs) (values.Value, error) {
		if err := requireArity("console.table", args, 1); err != nil {
			return nil, err
		}
		arr, ok := arg(args, 0).(*values.Array)
		if !ok {
			return nil, values.TypeErrorf("console.table expects an array, got %s", kindOf(arg(args, 0)))
		}
		t := table.NewWriter()
		t.SetOutputMirror(c.Out)
		if header, ok := rowFields(arr); ok {
			row := make(table.Row, len(header))
			for i, h := range header {
				row[i] = h
			}
			t.AppendHeader(row)
			for _, el := range arr.Elements {
				nt := el.(*values.NamedTuple)
				row := make(table.Row, len(nt.Values))
				for i, v := range nt.Values {
					row[i] = v.String()
				}
				t.AppendRow(row)
			}
		} else {
			for i, el := range arr.Elements {
				t.AppendRow(table.Row{i, el.String()})
			}
		}
		t.Render()
		return values.Null{}, nil
	}
}

// rowFields returns the shared field list when arr holds only NamedTuples,
// so console.table can render a proper header row.
func rowFields(arr *values.Array) ([]string, bool) {
	if len(arr.Elements) == 0 {
		return nil, false
	}
	first, ok := arr.Elements[0].(*values.NamedTuple)
	if !ok {
		return nil, false
	}
	for _, el := range arr.Elements {
		nt, ok := el.(*values.NamedTuple)
		if !ok || len(nt.Fields) != len(first.Fields) {
			return nil, false
		}
	}
	return first.Fields, true
}

func joinArgs(args values.CallArgs) string {
	out := ""
	for i, a := range args.Positional {
		if i > 0 {
			out += " "
		}
		out += a.String()
	}
	return out
}
