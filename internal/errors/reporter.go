package errors

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// Level represents the severity of a reported diagnostic.
type Level string

const (
	Error   Level = "error"
	Warning Level = "warning"
	Note    Level = "note"
	Help    Level = "help"
)

// Position locates a diagnostic in source text. It mirrors the fields
// participle's lexer.Position carries, so a CLI can build one directly
// from a parse error without this package depending on the parser.
type Position struct {
	Filename string
	Line     int
	Column   int
}

// Diagnostic is a structured contract-violation report with suggestions
// and context, formatted the way the toolchain reports any error: a
// Rust-style header, a source snippet, and an optional caret.
type Diagnostic struct {
	Level       Level
	Code        string
	Message     string
	Position    Position
	Length      int
	Suggestions []Suggestion
	Notes       []string
	HelpText    string
}

// Suggestion is a suggested fix attached to a Diagnostic.
type Suggestion struct {
	Message     string
	Replacement string
}

// Error adapts a Diagnostic to the standard error interface, so a contract
// violation can be constructed as a structured Diagnostic at the point it
// is detected and still flow back through an ordinary Go error return.
type Error struct {
	Diagnostic
}

func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return e.Message
}

// AsError wraps d as an *Error.
func AsError(d Diagnostic) error { return &Error{Diagnostic: d} }

// Reporter formats Diagnostics against a fixed source buffer.
type Reporter struct {
	filename string
	source   string
	lines    []string
}

// NewReporter creates a Reporter for a named source buffer.
func NewReporter(filename, source string) *Reporter {
	return &Reporter{
		filename: filename,
		source:   source,
		lines:    strings.Split(source, "\n"),
	}
}

// Format renders a Diagnostic with Rust-like styling and suggestions.
func (r *Reporter) Format(d Diagnostic) string {
	var b strings.Builder

	levelColor := r.levelColor(d.Level)
	bold := color.New(color.Bold).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()

	if d.Code != "" {
		fmt.Fprintf(&b, "%s[%s]: %s\n", levelColor(string(d.Level)), d.Code, d.Message)
	} else {
		fmt.Fprintf(&b, "%s: %s\n", levelColor(string(d.Level)), d.Message)
	}

	width := r.lineNumberWidth(d.Position.Line)
	indent := strings.Repeat(" ", width)

	fmt.Fprintf(&b, "%s %s %s:%d:%d\n", indent, dim("-->"), r.filename, d.Position.Line, d.Position.Column)
	fmt.Fprintf(&b, "%s %s\n", indent, dim("│"))

	if d.Position.Line > 1 && d.Position.Line-1 < len(r.lines) {
		fmt.Fprintf(&b, "%s %s %s\n", dim(fmt.Sprintf("%*d", width, d.Position.Line-1)), dim("│"), r.lines[d.Position.Line-2])
	}

	if d.Position.Line <= len(r.lines) && d.Position.Line > 0 {
		line := r.lines[d.Position.Line-1]
		fmt.Fprintf(&b, "%s %s %s\n", bold(fmt.Sprintf("%*d", width, d.Position.Line)), dim("│"), line)
		fmt.Fprintf(&b, "%s %s %s\n", indent, dim("│"), r.marker(d.Position.Column, d.Length, d.Level))
	}

	if d.Position.Line < len(r.lines) {
		fmt.Fprintf(&b, "%s %s %s\n", dim(fmt.Sprintf("%*d", width, d.Position.Line+1)), dim("│"), r.lines[d.Position.Line])
	}

	if len(d.Suggestions) > 0 {
		fmt.Fprintf(&b, "%s %s\n", indent, dim("│"))
		cyan := color.New(color.FgCyan).SprintFunc()
		for i, s := range d.Suggestions {
			if i == 0 {
				fmt.Fprintf(&b, "%s %s %s: %s\n", indent, cyan("help"), cyan("try"), s.Message)
			} else {
				fmt.Fprintf(&b, "%s %s %s\n", indent, cyan("    "), s.Message)
			}
			if s.Replacement != "" {
				fmt.Fprintf(&b, "%s %s %s\n", indent, cyan("│"), cyan(s.Replacement))
			}
		}
	}

	for _, note := range d.Notes {
		blue := color.New(color.FgBlue).SprintFunc()
		fmt.Fprintf(&b, "%s %s %s %s\n", indent, dim("│"), blue("note:"), note)
	}

	if d.HelpText != "" {
		green := color.New(color.FgGreen).SprintFunc()
		fmt.Fprintf(&b, "%s %s %s %s\n", indent, dim("│"), green("help:"), d.HelpText)
	}

	b.WriteString("\n")
	return b.String()
}

func (r *Reporter) levelColor(level Level) func(...interface{}) string {
	switch level {
	case Warning:
		return color.New(color.FgYellow, color.Bold).SprintFunc()
	case Note:
		return color.New(color.FgBlue, color.Bold).SprintFunc()
	case Help:
		return color.New(color.FgGreen, color.Bold).SprintFunc()
	default:
		return color.New(color.FgRed, color.Bold).SprintFunc()
	}
}

func (r *Reporter) marker(column, length int, level Level) string {
	if length <= 0 {
		length = 1
	}
	spaces := strings.Repeat(" ", max(0, column-1))

	markerColor := color.New(color.FgRed, color.Bold).SprintFunc()
	if level == Warning {
		markerColor = color.New(color.FgYellow, color.Bold).SprintFunc()
	}
	return spaces + markerColor(strings.Repeat("^", length))
}

func (r *Reporter) lineNumberWidth(line int) int {
	width := len(fmt.Sprintf("%d", line))
	if width < 3 {
		width = 3
	}
	return width
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
