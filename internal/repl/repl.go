// Package repl implements Eclair's interactive line editor: readline-backed
// input, colored error/result output, and the Ctrl-C cancellation contract
// of spec §5 (an interrupted expression aborts with the Environment intact).
package repl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"

	"github.com/danhper/eclair/internal/logging"
	"github.com/danhper/eclair/internal/values"
)

// Evaluator is the subset of *interp.Evaluator the REPL drives. Declared
// here rather than imported directly so internal/repl doesn't need to
// depend on internal/interp's full surface.
type Evaluator interface {
	EvalSource(ctx context.Context, src string) (values.Value, error)
}

const prompt = "eclair> "
const contPrompt = "     -> "

var (
	errorStyle  = color.New(color.FgRed, color.Bold)
	resultStyle = color.New(color.FgGreen)
)

// REPL owns the readline instance and the running history buffer that
// internal/builtins' `repl` namespace reads through Evaluator.History. The
// Evaluator itself is supplied to Run rather than New, since its
// construction needs the REPL's History method already wired in (spec
// §4.2's `repl.history()`/`repl.save()` builtins read this same buffer).
type REPL struct {
	log     *logging.Logger
	rl      *readline.Instance
	history []string
}

// New builds a REPL reading from stdin/writing to stdout, with history
// persisted in-process only (spec §6.7: "nothing else is persisted by the
// interpreter itself").
func New(log *logging.Logger) (*REPL, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          prompt,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, err
	}
	return &REPL{log: log, rl: rl}, nil
}

// History satisfies the builtins.Context.History contract.
func (r *REPL) History() []string {
	out := make([]string, len(r.history))
	copy(out, r.history)
	return out
}

func (r *REPL) Close() error { return r.rl.Close() }

// Run drives the read-eval-print loop until EOF (Ctrl-D) or an explicit
// `exit`/`quit` line. Each line is evaluated under its own cancellable
// context so a Ctrl-C during a pending RPC call aborts only that line.
func (r *REPL) Run(parent context.Context, eval Evaluator) error {
	for {
		line, err := r.readStatement()
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(r.rl.Stdout())
			return nil
		}
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if err != nil {
			return err
		}
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if trimmed == "exit" || trimmed == "quit" {
			return nil
		}
		r.history = append(r.history, trimmed)

		ctx, cancel := context.WithCancel(parent)
		r.installInterruptHandler(ctx, cancel)
		v, err := eval.EvalSource(ctx, trimmed)
		cancel()

		if err != nil {
			r.printError(err)
			continue
		}
		if v != nil && v.Kind() != values.KindNull {
			resultStyle.Fprintln(r.rl.Stdout(), v.String())
		}
	}
}

// readStatement reads one logical statement, continuing across lines while
// brace/paren/bracket nesting is open so multi-line function bodies and
// block statements can be typed naturally.
func (r *REPL) readStatement() (string, error) {
	r.rl.SetPrompt(prompt)
	line, err := r.rl.Readline()
	if err != nil {
		return "", err
	}
	var buf strings.Builder
	buf.WriteString(line)
	for depth(buf.String()) > 0 {
		r.rl.SetPrompt(contPrompt)
		next, err := r.rl.Readline()
		if err != nil {
			return "", err
		}
		buf.WriteString("\n")
		buf.WriteString(next)
	}
	return buf.String(), nil
}

func depth(s string) int {
	d := 0
	for _, c := range s {
		switch c {
		case '{', '(', '[':
			d++
		case '}', ')', ']':
			d--
		}
	}
	return d
}

func (r *REPL) printError(err error) {
	var everr *values.Error
	if errors.As(err, &everr) {
		errorStyle.Fprintf(r.rl.Stderr(), "%s: %s\n", everr.Kind, everr.Message)
		return
	}
	errorStyle.Fprintf(r.rl.Stderr(), "error: %v\n", err)
}

// installInterruptHandler arms a SIGINT handler for the duration of a single
// evaluation, canceling ctx so the Session's in-flight RPC call returns with
// context.Canceled instead of blocking forever. The goroutine and its signal
// registration are torn down as soon as ctx is done, whether that is because
// of the signal or because evaluation finished normally.
func (r *REPL) installInterruptHandler(ctx context.Context, cancel context.CancelFunc) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	go func() {
		defer signal.Stop(sigCh)
		select {
		case <-sigCh:
			cancel()
		case <-ctx.Done():
		}
	}()
}
