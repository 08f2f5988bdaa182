// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// The starlabel command interprets a Starlark file with the labels
// module predeclared, along with json, math and time.
// With no arguments and a terminal on stdin, it starts a read-eval-print
// loop (REPL); with a pipe on stdin it executes the piped program.
//
// The proxy environment, labels.env, provides the constructors
// "Pothos/Label" and "Pothos/LabelBuffer":
//
// 	buf = labels.env.find_proxy("Pothos/LabelBuffer")([
// 	    labels.Label("sob", None, 0),
// 	    labels.Label("rxRate", 1e6, 512),
// 	])
// 	for l in labels.LabelIteratorRange(buf):
// 	    print(l.index, l.id, l.data)
//
// Top-level for loops like this one need the -globalreassign flag;
// -recursion and -set enable the other non-standard dialect features.
package main // import "github.com/pothosware/pothos-starlark/cmd/starlabel"

import (
	"flag"
	"fmt"
	"io"
	"os"
	"runtime"
	"runtime/pprof"
	"strings"

	envstruct "code.cloudfoundry.org/go-envstruct"
	"github.com/pothosware/pothos-starlark/internal/logger"
	"github.com/pothosware/pothos-starlark/repl"
	"github.com/pothosware/pothos-starlark/starlarklabel"
	"go.starlark.net/lib/json"
	"go.starlark.net/lib/math"
	"go.starlark.net/lib/time"
	"go.starlark.net/resolve"
	"go.starlark.net/starlark"
	"golang.org/x/term"
)

func main() {
	os.Exit(doMain())
}

func doMain() int {
	cfg, err := LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "starlabel: invalid configuration: %s\n", err)
		return 1
	}
	if cfg.Report {
		envstruct.WriteReport(cfg)
	}

	log := logger.NewLogger(cfg.LogLevel, "starlabel")
	defer log.Sync()

	interactive := term.IsTerminal(int(os.Stdin.Fd()))
	return run(os.Args[1:], cfg, log, os.Stdin, interactive, os.Stdout, os.Stderr)
}

// run executes the command with the given arguments and streams.
func run(args []string, cfg *Config, log *logger.Logger, stdin io.Reader, interactive bool, stdout, stderr io.Writer) (code int) {
	fs := flag.NewFlagSet("starlabel", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		cpuprofile = fs.String("cpuprofile", "", "gather Go CPU profile in this file")
		memprofile = fs.String("memprofile", "", "gather Go memory profile in this file")
		profile    = fs.String("profile", "", "gather Starlark time profile in this file")
		showenv    = fs.Bool("showenv", cfg.ShowEnv, "on success, print final global environment")
		execprog   = fs.String("c", "", "execute program `prog`")

		// non-standard dialect flags
		allowSet       = fs.Bool("set", resolve.AllowSet, "allow set data type")
		allowRecursion = fs.Bool("recursion", resolve.AllowRecursion, "allow while statements and recursive functions")
		globalReassign = fs.Bool("globalreassign", resolve.AllowGlobalReassign, "allow reassignment of globals, and if/for/while statements at top level")
	)
	if err := fs.Parse(args); err != nil {
		return 2
	}

	defer func(set, recursion, reassign bool) {
		resolve.AllowSet, resolve.AllowRecursion, resolve.AllowGlobalReassign = set, recursion, reassign
	}(resolve.AllowSet, resolve.AllowRecursion, resolve.AllowGlobalReassign)
	resolve.AllowSet, resolve.AllowRecursion, resolve.AllowGlobalReassign = *allowSet, *allowRecursion, *globalReassign

	check := func(err error) bool {
		if err != nil {
			log.Error("profiling failed", err)
			code = 1
			return false
		}
		return true
	}
	if *cpuprofile != "" {
		f, err := os.Create(*cpuprofile)
		if !check(err) || !check(pprof.StartCPUProfile(f)) {
			return 1
		}
		defer func() {
			pprof.StopCPUProfile()
			check(f.Close())
		}()
	}
	if *memprofile != "" {
		f, err := os.Create(*memprofile)
		if !check(err) {
			return 1
		}
		defer func() {
			runtime.GC()
			check(pprof.Lookup("heap").WriteTo(f, 0))
			check(f.Close())
		}()
	}
	if *profile != "" {
		f, err := os.Create(*profile)
		if !check(err) || !check(starlark.StartProfile(f)) {
			return 1
		}
		defer func() {
			check(starlark.StopProfile())
			check(f.Close())
		}()
	}

	session := &repl.Session{Stdout: stdout, Stderr: stderr}
	onStop := func(err error, n int) {
		fmt.Fprintf(stderr, "starlabel: warning: loop over LabelIteratorRange stopped after %d labels: %v\n", n, err)
	}
	if fs.NArg() == 0 && *execprog == "" && interactive {
		onStop = session.Stopped
	}

	env := newEnvironment(log)
	predeclared := starlark.StringDict{
		"labels": starlarklabel.NewModule(env, starlarklabel.WithLogger(log), starlarklabel.WithStopHandler(onStop)),
		"json":   json.Module,
		"math":   math.Module,
		"time":   time.Module,
	}
	thread := &starlark.Thread{
		Load:  repl.MakeLoad(predeclared),
		Print: func(_ *starlark.Thread, msg string) { fmt.Fprintln(stdout, msg) },
	}

	var globals starlark.StringDict
	switch {
	case fs.NArg() == 1 || *execprog != "" || (fs.NArg() == 0 && !interactive):
		var (
			filename string
			src      interface{}
		)
		switch {
		case *execprog != "":
			filename = "cmdline"
			src = *execprog
		case fs.NArg() == 1:
			filename = fs.Arg(0)
		default:
			filename = "<stdin>"
			src = stdin
		}
		thread.Name = "exec " + filename
		log.Debug("executing", logger.String("file", filename))

		var err error
		globals, err = starlark.ExecFile(thread, filename, src, predeclared)
		if err != nil {
			repl.FprintError(stderr, err)
			return 1
		}
		log.Info("executed", logger.String("file", filename), logger.Count(len(globals)))
	case fs.NArg() == 0:
		fmt.Fprintln(stdout, "Welcome to starlabel (labels module predeclared)")
		thread.Name = "REPL"
		globals = make(starlark.StringDict)
		for name, v := range predeclared {
			globals[name] = v
		}
		session.Thread, session.Globals = thread, globals
		session.Run()
	default:
		fmt.Fprintln(stderr, "starlabel: want at most one Starlark file name")
		return 1
	}

	if *showenv {
		for _, name := range globals.Keys() {
			if !strings.HasPrefix(name, "_") {
				fmt.Fprintf(stderr, "%s = %s\n", name, globals[name])
			}
		}
	}

	return code
}
