package record

import (
	"testing"

	"github.com/cscan-lang/cscan/internal/types"
)

func TestResolvePath_SimpleKey(t *testing.T) {
	obj := types.NewRecordObject()
	obj.Set("mode", types.NewRecordString("0644"))

	got, err := ResolvePath(obj, "mode")
	if err != nil {
		t.Fatalf("ResolvePath: %v", err)
	}
	if len(got) != 1 || got[0].StringVal() != "0644" {
		t.Fatalf("got %v, want [\"0644\"]", got)
	}
}

func TestResolvePath_ObjectWildcard(t *testing.T) {
	obj := types.NewRecordObject()
	obj.Set("a", types.NewRecordInt(1))
	obj.Set("b", types.NewRecordInt(2))

	got, err := ResolvePath(obj, "*")
	if err != nil {
		t.Fatalf("ResolvePath: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d results, want 2", len(got))
	}
}

func TestResolvePath_ArrayIndexAll(t *testing.T) {
	root := types.NewRecordObject()
	accounts := types.NewRecordArray()
	for _, name := range []string{"alice", "bob"} {
		entry := types.NewRecordObject()
		entry.Set("name", types.NewRecordString(name))
		accounts.Append(entry)
	}
	root.Set("accounts", accounts)

	got, err := ResolvePath(root, "accounts[*].name")
	if err != nil {
		t.Fatalf("ResolvePath: %v", err)
	}
	if len(got) != 2 || got[0].StringVal() != "alice" || got[1].StringVal() != "bob" {
		t.Fatalf("got %v, want [alice bob]", got)
	}
}

func TestResolvePath_NestedWildcards(t *testing.T) {
	root := types.NewRecordObject()
	for _, group := range []string{"g1", "g2"} {
		arr := types.NewRecordArray()
		arr.Append(types.NewRecordInt(1))
		arr.Append(types.NewRecordInt(2))
		root.Set(group, arr)
	}

	got, err := ResolvePath(root, "*[*]")
	if err != nil {
		t.Fatalf("ResolvePath: %v", err)
	}
	if len(got) != 4 {
		t.Fatalf("got %d results, want 4", len(got))
	}
}

func TestResolvePath_MissingKeyYieldsNoResults(t *testing.T) {
	obj := types.NewRecordObject()
	got, err := ResolvePath(obj, "absent")
	if err != nil {
		t.Fatalf("ResolvePath: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("got %v, want empty", got)
	}
}

func TestParsePath_Errors(t *testing.T) {
	cases := []string{"", "a..b", "a[x]"}
	for _, c := range cases {
		if _, err := ParsePath(c); err == nil {
			t.Errorf("ParsePath(%q): expected error", c)
		}
	}
}
