package diag

import (
	"strings"
	"testing"

	"github.com/cscan-lang/cscan/pkg/token"
)

func TestDiagnostic_FormatWithoutSource(t *testing.T) {
	d := New(CodeParUnexpectedToken, token.Position{Line: 3, Column: 5}, "unexpected token")
	out := d.Format(false)
	if !strings.Contains(out, "PAR003") || !strings.Contains(out, "3:5") || !strings.Contains(out, "unexpected token") {
		t.Errorf("Format() = %q, missing expected fields", out)
	}
}

func TestDiagnostic_FormatWithSourceRendersCaret(t *testing.T) {
	src := "VAR x TY_INT\nVAR\n"
	d := New(CodeParUnexpectedToken, token.Position{Line: 2, Column: 4}, "expected identifier").WithSource("test.dsl", src)
	out := d.Format(false)
	if !strings.Contains(out, "test.dsl:2:4") {
		t.Errorf("Format() = %q, missing file:pos header", out)
	}
	lines := strings.Split(out, "\n")
	if len(lines) < 3 {
		t.Fatalf("Format() produced %d lines, want at least 3 (header, source, caret)", len(lines))
	}
	if !strings.Contains(lines[2], "^") {
		t.Errorf("Format() caret line = %q, want a caret", lines[2])
	}
}

func TestBag_CapsAccumulation(t *testing.T) {
	b := NewBag(2)
	b.Add(New(CodeSymDuplicateName, token.Position{Line: 1}, "a"))
	b.Add(New(CodeSymDuplicateName, token.Position{Line: 2}, "b"))
	b.Add(New(CodeSymDuplicateName, token.Position{Line: 3}, "c"))

	if len(b.Items()) != 2 {
		t.Errorf("Items() has %d entries, want 2 (capped)", len(b.Items()))
	}
	if b.Empty() {
		t.Error("Empty() = true, want false after adding diagnostics")
	}
}

func TestBag_Empty(t *testing.T) {
	b := NewBag(5)
	if !b.Empty() {
		t.Error("Empty() = false for a freshly constructed bag")
	}
}
