// Package diag renders a single diagnostic error type shared by every
// pipeline stage (lexer, parser, symbol collector, DAG resolver, executor):
// a coded message with a source line and caret, the way the teacher
// compiler's internal/errors.CompilerError does for its own diagnostics.
package diag

import (
	"fmt"
	"strings"

	"github.com/cscan-lang/cscan/pkg/token"
)

// Code is a stable, stage-prefixed identifier for one class of diagnostic
// (e.g. "LEX001", "SYM004", "DAG002"), used for documentation and for
// machine-filtering report output; never reused for a different meaning.
type Code string

// Diagnostic is one reportable problem: a code, a human message, a
// position, and (optionally) the source it came from for caret rendering.
type Diagnostic struct {
	Code    Code
	Message string
	Pos     token.Position
	Source  string
	File    string
}

// New constructs a Diagnostic without source context.
func New(code Code, pos token.Position, message string) *Diagnostic {
	return &Diagnostic{Code: code, Pos: pos, Message: message}
}

// WithSource attaches source text for caret rendering and returns the
// receiver for chaining.
func (d *Diagnostic) WithSource(file, source string) *Diagnostic {
	d.File = file
	d.Source = source
	return d
}

// Error implements the error interface.
func (d *Diagnostic) Error() string { return d.Format(false) }

// Format renders a "[code] line:col: message" header (prefixed with
// "file:" when File is set), followed by the source line and a caret when
// Source is set. If color is true, ANSI codes highlight the caret.
func (d *Diagnostic) Format(color bool) string {
	var sb strings.Builder

	header := fmt.Sprintf("%s", d.Pos)
	if d.File != "" {
		header = d.File + ":" + header
	}
	sb.WriteString(fmt.Sprintf("[%s] %s: %s\n", d.Code, header, d.Message))

	line := d.sourceLine(d.Pos.Line)
	if line == "" {
		return strings.TrimRight(sb.String(), "\n")
	}

	prefix := fmt.Sprintf("%4d | ", d.Pos.Line)
	sb.WriteString(prefix)
	sb.WriteString(line)
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat(" ", len(prefix)+max0(d.Pos.Column-1, 0)))
	if color {
		sb.WriteString("\033[1;31m")
	}
	sb.WriteString("^")
	if color {
		sb.WriteString("\033[0m")
	}
	return sb.String()
}

func (d *Diagnostic) sourceLine(lineNum int) string {
	if d.Source == "" {
		return ""
	}
	lines := strings.Split(d.Source, "\n")
	if lineNum < 1 || lineNum > len(lines) {
		return ""
	}
	return lines[lineNum-1]
}

func max0(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// Bag accumulates diagnostics up to a cap, discarding the rest, so a single
// malformed document cannot grow an unbounded in-memory error list.
type Bag struct {
	items []*Diagnostic
	cap   int
}

// NewBag constructs a Bag that retains at most cap diagnostics.
func NewBag(cap int) *Bag {
	return &Bag{cap: cap}
}

// Add appends d if the bag has not yet reached its cap.
func (b *Bag) Add(d *Diagnostic) {
	if len(b.items) >= b.cap {
		return
	}
	b.items = append(b.items, d)
}

// Items returns every accumulated diagnostic.
func (b *Bag) Items() []*Diagnostic { return b.items }

// Empty reports whether no diagnostics were accumulated.
func (b *Bag) Empty() bool { return len(b.items) == 0 }
