package report

import (
	"testing"

	"github.com/cscan-lang/cscan/internal/config"
	"github.com/cscan-lang/cscan/internal/exec"
)

func TestParseSeverity(t *testing.T) {
	tests := []struct {
		in   string
		want Severity
	}{
		{"low", SeverityLow},
		{"LOW", SeverityLow},
		{"High", SeverityHigh},
		{"critical", SeverityCritical},
		{" medium ", SeverityMedium},
		{"garbage", SeverityMedium},
		{"", SeverityMedium},
	}
	for _, tt := range tests {
		if got := ParseSeverity(tt.in); got != tt.want {
			t.Errorf("ParseSeverity(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestBuild_CountsAndPassed(t *testing.T) {
	outcomes := []exec.Outcome{exec.OutcomeTrue, exec.OutcomeFalse, exec.OutcomeError}
	r := Build("scan-1", 0, SeverityHigh, config.HostContext{}, nil, outcomes, nil)

	if r.Counts.Total != 3 || r.Counts.Pass != 1 || r.Counts.Fail != 1 || r.Counts.Error != 1 {
		t.Errorf("Counts = %+v, want total=3 pass=1 fail=1 error=1", r.Counts)
	}
	if r.Passed {
		t.Error("expected Passed = false when any outcome is fail or error")
	}
}

func TestBuild_AllPassed(t *testing.T) {
	outcomes := []exec.Outcome{exec.OutcomeTrue, exec.OutcomeTrue}
	r := Build("scan-2", 0, SeverityLow, config.HostContext{}, nil, outcomes, nil)
	if !r.Passed {
		t.Error("expected Passed = true when every outcome is true")
	}
}

func TestBuild_SortsFindingsNaturally(t *testing.T) {
	findings := []exec.Finding{
		{ObjectID: "disk10", Path: "size"},
		{ObjectID: "disk2", Path: "size"},
		{ObjectID: "disk1", Path: "size"},
	}
	r := Build("scan-3", 0, SeverityMedium, config.HostContext{}, nil, nil, findings)

	want := []string{"disk1", "disk2", "disk10"}
	for i, w := range want {
		if r.Findings[i].ObjectID != w {
			t.Errorf("Findings[%d].ObjectID = %q, want %q (full order: %v)", i, r.Findings[i].ObjectID, w, r.Findings)
		}
	}
}
