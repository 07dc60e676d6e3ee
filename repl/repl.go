// Package repl is an interactive line-at-a-time front end over a
// session.Context: each line is one atom statement, parsed through the
// grammar package and folded into the running context immediately.
package repl

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/icsgo/ics/grammar"
	"github.com/icsgo/ics/internal/combine"
	"github.com/icsgo/ics/internal/session"
)

const prompt = ">> "

// Start runs the REPL loop over in, writing results to out, until in is
// exhausted. Each line must be a single `term relop term;` atom.
func Start(in io.Reader, out io.Writer) {
	scanner := bufio.NewScanner(in)
	ctx := session.Empty(session.Flags{})
	vars := grammar.Vars{}

	for {
		fmt.Fprint(out, prompt)
		if !scanner.Scan() {
			return
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if !strings.HasSuffix(line, ";") {
			line += ";"
		}

		prog, err := grammar.ParseString("<repl>", line)
		if err != nil {
			grammar.ReportParseError(line, err)
			continue
		}

		for _, stmt := range prog.Statements {
			a, err := grammar.ToAtom(ctx.Store, vars, stmt.Atom)
			if err != nil {
				color.Red("%s", err)
				continue
			}
			printResult(out, ctx, a)
		}
	}
}

func printResult(out io.Writer, ctx *session.Context, a combine.Atom) {
	var r session.Result
	var err error

	switch a.Kind {
	case combine.AtomEq:
		r, err = ctx.Add(a.X, a.Y)
	case combine.AtomDeq:
		r, err = ctx.AddDeq(a.X, a.Y)
	case combine.AtomSign:
		r, err = ctx.AddSign(a.X, a.Domain)
	}

	if err != nil {
		color.Red("engine error: %s", err)
		return
	}

	switch r.Status {
	case session.Valid:
		fmt.Fprintln(out, color.CyanString("valid"))
	case session.StatusInconsistent:
		fmt.Fprintln(out, color.RedString("inconsistent"))
	default:
		fmt.Fprintln(out, color.GreenString("ok"))
	}
}
