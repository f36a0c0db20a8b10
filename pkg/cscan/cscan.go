// Package cscan is the public facade over the compliance-scanning
// pipeline: Lex -> Parse -> Collect symbols -> Resolve the dependency
// graph -> Execute criteria trees -> Report. It is the single entry point
// embedders and the cmd/cscan CLI use instead of wiring the internal
// packages together themselves.
package cscan

import (
	"context"
	"time"

	"github.com/cscan-lang/cscan/internal/config"
	"github.com/cscan-lang/cscan/internal/dag"
	"github.com/cscan-lang/cscan/internal/diag"
	"github.com/cscan-lang/cscan/internal/exec"
	"github.com/cscan-lang/cscan/internal/lexer"
	"github.com/cscan-lang/cscan/internal/parser"
	"github.com/cscan-lang/cscan/internal/report"
	"github.com/cscan-lang/cscan/internal/symbols"
	"github.com/cscan-lang/cscan/pkg/ast"
)

// Content is one parsed and resolved compliance-scan definition, ready to
// Execute against a Registry of collectors.
type Content struct {
	File     *ast.File
	Resolved *dag.Resolved
	Severity report.Severity
}

// Diagnostics is every problem surfaced while compiling a Content: lexer,
// parser, or resolver errors rendered as diag.Diagnostic.
type Diagnostics struct {
	Items []*diag.Diagnostic
}

func (d *Diagnostics) Empty() bool { return len(d.Items) == 0 }

// Compile runs Lex -> Parse -> Collect -> Resolve over src and returns the
// resulting Content, or the diagnostics collected along the way if
// compilation could not produce a usable Content.
func Compile(src string, severity report.Severity) (*Content, *Diagnostics) {
	bag := diag.NewBag(256)

	lx := lexer.New(src)
	p := parser.New(lx)
	file, syntaxErrs := p.Parse()
	for _, e := range syntaxErrs {
		bag.Add(diag.New(diag.Code("PAR:"+string(e.Kind)), e.Pos, e.Message))
	}
	if file == nil {
		return nil, &Diagnostics{Items: bag.Items()}
	}

	collected := symbols.Collect(file.Definition, bag)
	resolved, err := dag.Resolve(file.Definition, collected, bag)
	if err != nil {
		bag.Add(diag.New(diag.CodeDagCircularDependency, file.Span().Start, err.Error()))
		return nil, &Diagnostics{Items: bag.Items()}
	}

	if !bag.Empty() {
		return &Content{File: file, Resolved: resolved, Severity: severity}, &Diagnostics{Items: bag.Items()}
	}
	return &Content{File: file, Resolved: resolved, Severity: severity}, nil
}

// Report wraps report.Report, which already carries the scan ID, elapsed
// time, severity and host/user context; it adds no fields of its own and
// is the shape an FFI caller or CLI wrapper surfaces.
type Report struct {
	*report.Report
}

// Run executes content's criteria trees against registry-supplied object
// data and returns a timestamped, scan-identified Report. hostCtx/userCtx
// are stamped onto the resulting Report unchanged (spec.md §6); they play
// no role in execution itself.
func Run(ctx context.Context, scanID string, content *Content, registry *exec.Registry, timeout exec.Timeout, hostCtx config.HostContext, userCtx map[string]string) (*Report, error) {
	engine := exec.NewEngine(registry, timeout, content.Severity)
	start := timeNow()
	outcomes, findings, err := engine.Run(ctx, content.File.Definition, content.Resolved)
	if err != nil {
		return nil, err
	}
	elapsed := timeNow().Sub(start)
	r := report.Build(scanID, elapsed, content.Severity, hostCtx, userCtx, outcomes, findings)
	return &Report{Report: r}, nil
}

// timeNow is the package's sole source of wall-clock time, isolated here
// so a future deterministic-clock test hook has one place to patch.
func timeNow() time.Time { return time.Now() }
