// Package repl provides a read/eval/print loop for label scripts.
//
// Each item is a line or, if the line does not parse on its own, the
// lines up to the next blank one. An expression item prints its value;
// any other item is executed for its effect. Control-C while reading
// discards the pending item; while evaluating, it cancels the "context"
// thread local that proxy calls may consult.
//
// A for loop over a LabelIteratorRange cannot fail, so when a handle
// error ends one early the session reports it after the item, provided
// the labels module was built with Session.Stopped as its stop handler.
package repl // import "github.com/pothosware/pothos-starlark/repl"

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/chzyer/readline"
	"go.starlark.net/resolve"
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

const (
	prompt         = ">>> "
	continuePrompt = "... "
)

// A Session evaluates items read from the terminal in one thread
// against one set of globals.
type Session struct {
	Thread  *starlark.Thread
	Globals starlark.StringDict

	// Stdout receives values of expression items, Stderr errors and
	// stopped-loop reports. They default to os.Stdout and os.Stderr.
	Stdout, Stderr io.Writer

	stops []stop
}

type stop struct {
	err error
	n   int
}

// Stopped records a for loop over a LabelIteratorRange that a handle
// error ended after n labels. It has the signature of
// starlarklabel.StopHandler.
func (s *Session) Stopped(err error, n int) {
	s.stops = append(s.stops, stop{err, n})
}

func (s *Session) stdout() io.Writer {
	if s.Stdout == nil {
		return os.Stdout
	}
	return s.Stdout
}

func (s *Session) stderr() io.Writer {
	if s.Stderr == nil {
		return os.Stderr
	}
	return s.Stderr
}

// Run reads and evaluates items until end of input.
func (s *Session) Run() {
	interrupted := make(chan os.Signal, 1)
	signal.Notify(interrupted, os.Interrupt)
	defer signal.Stop(interrupted)

	rl, err := readline.NewEx(&readline.Config{
		Prompt: prompt,
		Stdout: s.stdout(),
		Stderr: s.stderr(),
	})
	if err != nil {
		FprintError(s.stderr(), err)
		return
	}
	defer rl.Close()

	for {
		rl.SetPrompt(prompt)
		lines := func() ([]byte, error) {
			line, err := rl.Readline()
			rl.SetPrompt(continuePrompt)
			if err != nil {
				return nil, err
			}
			return []byte(line + "\n"), nil
		}

		// Control-C during Readline yields ErrInterrupt, not a SIGINT.
		ctx, cancel := context.WithCancel(context.Background())
		go func() {
			select {
			case <-interrupted:
				cancel()
			case <-ctx.Done():
			}
		}()
		s.Thread.SetLocal("context", ctx)
		err := s.item(lines)
		cancel()

		if err == readline.ErrInterrupt {
			fmt.Fprintln(s.stdout(), err)
			continue
		}
		if err != nil {
			break
		}
	}
	fmt.Fprintln(s.stdout())
}

// item parses one item from lines and evaluates it. It returns an error
// only if lines does; Starlark errors are printed.
func (s *Session) item(lines func() ([]byte, error)) error {
	var readErr error
	f, err := syntax.ParseCompoundStmt("<stdin>", func() ([]byte, error) {
		line, err := lines()
		readErr = err
		return line, err
	})
	if err != nil {
		if readErr != nil {
			return readErr
		}
		FprintError(s.stderr(), err)
		return nil
	}

	// load("lib.star", "f") makes f visible to later items.
	defer func(prev bool) { resolve.LoadBindsGlobally = prev }(resolve.LoadBindsGlobally)
	resolve.LoadBindsGlobally = true

	s.stops = s.stops[:0]
	if expr := soleExpr(f); expr != nil {
		v, err := starlark.EvalExpr(s.Thread, expr, s.Globals)
		if err != nil {
			FprintError(s.stderr(), err)
		} else if v != starlark.None {
			fmt.Fprintln(s.stdout(), v)
		}
	} else if err := starlark.ExecREPLChunk(f, s.Thread, s.Globals); err != nil {
		FprintError(s.stderr(), err)
	}
	for _, st := range s.stops {
		fmt.Fprintf(s.stderr(), "warning: loop over LabelIteratorRange stopped after %d labels: %v\n", st.n, st.err)
	}
	return nil
}

func soleExpr(f *syntax.File) syntax.Expr {
	if len(f.Stmts) == 1 {
		if stmt, ok := f.Stmts[0].(*syntax.ExprStmt); ok {
			return stmt.X
		}
	}
	return nil
}

// FprintError writes err to w, as a backtrace if it is a Starlark
// evaluation error.
func FprintError(w io.Writer, err error) {
	if evalErr, ok := err.(*starlark.EvalError); ok {
		fmt.Fprintln(w, evalErr.Backtrace())
	} else {
		fmt.Fprintln(w, err)
	}
}

// MakeLoad returns a sequential module loader in which every loaded
// file sees predeclared, such as the labels module. Each loader caches
// its files privately and rejects load cycles.
func MakeLoad(predeclared starlark.StringDict) func(thread *starlark.Thread, module string) (starlark.StringDict, error) {
	type entry struct {
		globals starlark.StringDict
		err     error
	}
	cache := make(map[string]*entry)

	return func(thread *starlark.Thread, module string) (starlark.StringDict, error) {
		if e, ok := cache[module]; ok {
			if e == nil {
				return nil, fmt.Errorf("cycle in load graph")
			}
			return e.globals, e.err
		}
		cache[module] = nil // in progress
		child := &starlark.Thread{Name: "exec " + module, Load: thread.Load, Print: thread.Print}
		globals, err := starlark.ExecFile(child, module, nil, predeclared)
		cache[module] = &entry{globals, err}
		return globals, err
	}
}
