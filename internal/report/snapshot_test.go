package report

import (
	"fmt"
	"strings"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"

	"github.com/cscan-lang/cscan/internal/config"
	"github.com/cscan-lang/cscan/internal/exec"
)

// renderForSnapshot formats a Report deterministically, leaving out Elapsed
// since wall-clock duration would make every run a new snapshot.
func renderForSnapshot(r *Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "scan=%s severity=%s passed=%v host=%s\n", r.ScanID, r.Severity, r.Passed, r.HostContext.Hostname)
	fmt.Fprintf(&b, "counts: total=%d pass=%d fail=%d error=%d\n", r.Counts.Total, r.Counts.Pass, r.Counts.Fail, r.Counts.Error)
	for _, f := range r.Findings {
		fmt.Fprintf(&b, "finding: %s.%s severity=%s = %s\n", f.ObjectID, f.Path, f.Severity, f.Outcome)
	}
	return b.String()
}

func TestBuild_ReportSnapshot(t *testing.T) {
	outcomes := []exec.Outcome{exec.OutcomeTrue, exec.OutcomeFalse, exec.OutcomeError}
	findings := []exec.Finding{
		{ObjectID: "disk10", Path: "CTN_disk", Severity: SeverityHigh, Outcome: exec.OutcomeTrue},
		{ObjectID: "disk2", Path: "CTN_disk", Severity: SeverityHigh, Outcome: exec.OutcomeFalse},
		{ObjectID: "disk1", Path: "CRI_AND.CTN_disk", Severity: SeverityHigh, Outcome: exec.OutcomeError},
	}
	hostCtx := config.HostContext{Hostname: "scanner-01"}
	r := Build("scan-snapshot-1", 0, SeverityHigh, hostCtx, nil, outcomes, findings)

	snaps.MatchSnapshot(t, renderForSnapshot(r))
}
