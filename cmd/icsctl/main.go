// SPDX-License-Identifier: Apache-2.0
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/tliron/commonlog"

	"github.com/icsgo/ics/grammar"
	"github.com/icsgo/ics/internal/combine"
	ierrors "github.com/icsgo/ics/internal/errors"
	"github.com/icsgo/ics/internal/session"
)

// Exit codes, per section 6: 0 ok, 1 syntax error, 2 unsatisfiable
// input, 3 unknown/incomplete.
const (
	exitOK          = 0
	exitSyntaxError = 1
	exitUnsat       = 2
	exitIncomplete  = 3
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: icsctl <atoms-file>")
		os.Exit(exitIncomplete)
	}

	verbose := false
	path := os.Args[1]
	for _, arg := range os.Args[2:] {
		if arg == "-v" || arg == "--verbose" {
			verbose = true
		}
	}

	source, err := os.ReadFile(path)
	if err != nil {
		color.Red("failed to read %s: %s", path, err)
		os.Exit(exitIncomplete)
	}

	prog, err := grammar.ParseString(path, string(source))
	if err != nil {
		grammar.ReportParseError(string(source), err)
		os.Exit(exitSyntaxError)
	}

	ctx := session.Empty(session.Flags{Trace: verbose})
	if verbose {
		commonlog.Configure(1, nil)
		ctx.SetLogger(commonlog.GetLogger("icsctl"))
	}

	reporter := ierrors.NewReporter(path, string(source))
	vars := grammar.Vars{}
	facts := make([]combine.Atom, 0, len(prog.Statements))
	for _, stmt := range prog.Statements {
		a, err := grammar.ToAtom(ctx.Store, vars, stmt.Atom)
		if err != nil {
			var diag *ierrors.Error
			if errors.As(err, &diag) {
				fmt.Print(reporter.Format(diag.Diagnostic))
			} else {
				color.Red("%s", err)
			}
			os.Exit(exitSyntaxError)
		}
		facts = append(facts, a)
	}

	results, err := ctx.Addl(facts)
	if err != nil {
		color.Red("engine error: %s", err)
		os.Exit(exitIncomplete)
	}

	code := exitOK
	for i, r := range results {
		switch r.Status {
		case session.Valid:
			color.Cyan("%d: valid (already entailed)", i+1)
		case session.StatusInconsistent:
			color.Red("%d: inconsistent", i+1)
			code = exitUnsat
		default:
			color.Green("%d: ok", i+1)
		}
	}
	if len(results) < len(facts) {
		color.Yellow("stopped after first inconsistency; %d atom(s) not processed", len(facts)-len(results))
	}

	os.Exit(code)
}
