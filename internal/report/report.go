// Package report builds the final compliance report from an executor run:
// per-criteria-tree pass/fail/error outcomes rolled up with the Severity
// the caller passes to Build (the CLI takes it from --severity or the run
// config; no parsed definition carries a `criticality` field), plus the
// flattened per-object Findings the executor collected along the way, each
// now carrying its own severity/title/description (spec.md §6). Finding-path
// ordering uses maruel/natural so numbered object names (disk1, disk2,
// disk10) sort the way a human expects rather than lexicographically;
// truncated debug dumps use tidwall/pretty.
package report

import (
	"sort"
	"time"

	"github.com/maruel/natural"
	"github.com/tidwall/pretty"

	"github.com/cscan-lang/cscan/internal/config"
	"github.com/cscan-lang/cscan/internal/exec"
)

// Severity is the compliance impact of a failed criteria tree or Finding.
// It is owned by the exec package (Finding stamps one on every leaf result)
// and re-exported here so report callers never need to import exec
// themselves just to name a severity level.
type Severity = exec.Severity

const (
	SeverityInfo     = exec.SeverityInfo
	SeverityLow      = exec.SeverityLow
	SeverityMedium   = exec.SeverityMedium
	SeverityHigh     = exec.SeverityHigh
	SeverityCritical = exec.SeverityCritical
)

// ParseSeverity maps a `criticality` spelling to a Severity, defaulting to
// Medium for anything unrecognized.
func ParseSeverity(s string) Severity { return exec.ParseSeverity(s) }

// Counts summarizes how many criteria trees landed in each outcome
// bucket, kept separate from the boolean "did everything pass" result so
// a caller can report partial compliance.
type Counts struct {
	Total int
	Pass  int
	Fail  int
	Error int
}

// Report is the result of one complete scan: every criteria tree's
// outcome, the leaf findings that produced them, and run metadata. Host
// and user context are carried through from the run configuration so a
// consumer can attribute a report to the machine/operator it ran under
// without re-reading the config file (spec.md §6).
type Report struct {
	ScanID      string
	Elapsed     time.Duration
	Severity    Severity
	HostContext config.HostContext
	UserContext map[string]string
	Counts      Counts
	Findings    []exec.Finding
	Passed      bool
}

// Build summarizes outcomes/findings produced by exec.Engine.Run into a
// Report. severity is supplied by the caller; it is neither read from the
// definition nor computed from the criteria trees.
func Build(scanID string, elapsed time.Duration, severity Severity, hostCtx config.HostContext, userCtx map[string]string, outcomes []exec.Outcome, findings []exec.Finding) *Report {
	r := &Report{
		ScanID:      scanID,
		Elapsed:     elapsed,
		Severity:    severity,
		HostContext: hostCtx,
		UserContext: userCtx,
		Findings:    sortFindings(findings),
	}
	r.Passed = len(outcomes) > 0
	r.Counts.Total = len(outcomes)
	for _, o := range outcomes {
		switch o {
		case exec.OutcomeTrue:
			r.Counts.Pass++
		case exec.OutcomeFalse:
			r.Counts.Fail++
			r.Passed = false
		default:
			r.Counts.Error++
			r.Passed = false
		}
	}
	return r
}

func sortFindings(findings []exec.Finding) []exec.Finding {
	out := append([]exec.Finding{}, findings...)
	sort.Sort(findingPaths(out))
	return out
}

// findingPaths is a sort.Interface view over a Finding slice ordered by
// "ObjectID.Path" using natural (numeric-aware) string comparison, so
// object names like disk1/disk2/disk10 sort the way a human expects.
type findingPaths []exec.Finding

func (f findingPaths) Len() int      { return len(f) }
func (f findingPaths) Swap(i, j int) { f[i], f[j] = f[j], f[i] }
func (f findingPaths) Less(i, j int) bool {
	return natural.Less(f[i].ObjectID+"."+f[i].Path, f[j].ObjectID+"."+f[j].Path)
}

// DebugJSON renders a Report-shaped JSON payload truncated to maxBytes for
// log-safe diagnostics, pretty-printed for readability.
func DebugJSON(raw []byte, maxBytes int) string {
	out := pretty.Pretty(raw)
	if len(out) > maxBytes {
		out = out[:maxBytes]
	}
	return string(out)
}
