package record

import (
	"testing"

	"github.com/tidwall/sjson"

	"github.com/cscan-lang/cscan/internal/types"
)

func mustBuild(t *testing.T, sets map[string]interface{}) []byte {
	t.Helper()
	raw := []byte("{}")
	var err error
	for path, value := range sets {
		raw, err = sjson.SetBytes(raw, path, value)
		if err != nil {
			t.Fatalf("sjson.SetBytes(%q): %v", path, err)
		}
	}
	return raw
}

func TestParseJSON_Scalars(t *testing.T) {
	raw := mustBuild(t, map[string]interface{}{
		"mode":    "0644",
		"size":    42,
		"ratio":   1.5,
		"present": true,
	})

	rec, err := ParseJSON(raw)
	if err != nil {
		t.Fatalf("ParseJSON: %v", err)
	}
	if rec.Kind() != types.RecordObject {
		t.Fatalf("Kind() = %v, want RecordObject", rec.Kind())
	}
	if got := rec.Get("mode").StringVal(); got != "0644" {
		t.Errorf("mode = %q, want 0644", got)
	}
	if got := rec.Get("size").IntVal(); got != 42 {
		t.Errorf("size = %d, want 42", got)
	}
	if got := rec.Get("ratio").NumberVal(); got != 1.5 {
		t.Errorf("ratio = %v, want 1.5", got)
	}
	if got := rec.Get("present").BoolVal(); got != true {
		t.Errorf("present = %v, want true", got)
	}
}

func TestParseJSON_InvalidPayload(t *testing.T) {
	if _, err := ParseJSON([]byte("{not json")); err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}
