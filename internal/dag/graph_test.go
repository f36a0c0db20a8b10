package dag

import (
	"testing"

	"github.com/cscan-lang/cscan/internal/symbols"
)

func TestTopoSort_OrdersDependenciesFirst(t *testing.T) {
	g := Build([]symbols.Relationship{
		{From: "b", To: "a"},
		{From: "c", To: "b"},
	})

	order, err := g.TopoSort()
	if err != nil {
		t.Fatalf("TopoSort() error = %v", err)
	}

	pos := make(map[string]int, len(order))
	for i, n := range order {
		pos[n] = i
	}
	if pos["a"] > pos["b"] {
		t.Errorf("expected a before b, got order %v", order)
	}
	if pos["b"] > pos["c"] {
		t.Errorf("expected b before c, got order %v", order)
	}
}

func TestTopoSort_IsolatedNode(t *testing.T) {
	g := Build(nil)
	g.AddNode("standalone")

	order, err := g.TopoSort()
	if err != nil {
		t.Fatalf("TopoSort() error = %v", err)
	}
	if len(order) != 1 || order[0] != "standalone" {
		t.Errorf("TopoSort() = %v, want [standalone]", order)
	}
}

func TestTopoSort_DetectsCycle(t *testing.T) {
	g := Build([]symbols.Relationship{
		{From: "a", To: "b"},
		{From: "b", To: "c"},
		{From: "c", To: "a"},
	})

	_, err := g.TopoSort()
	if err == nil {
		t.Fatal("expected a circular dependency error, got nil")
	}
	cycleErr, ok := err.(*CircularDependencyError)
	if !ok {
		t.Fatalf("expected *CircularDependencyError, got %T", err)
	}
	if len(cycleErr.Cycle) == 0 {
		t.Error("expected a non-empty cycle path")
	}
}

func TestTopoSort_DeterministicAcrossRuns(t *testing.T) {
	rels := []symbols.Relationship{
		{From: "z", To: "y"},
		{From: "z", To: "x"},
		{From: "m", To: "n"},
	}

	first, err := Build(rels).TopoSort()
	if err != nil {
		t.Fatalf("TopoSort() error = %v", err)
	}
	second, err := Build(rels).TopoSort()
	if err != nil {
		t.Fatalf("TopoSort() error = %v", err)
	}

	if len(first) != len(second) {
		t.Fatalf("order length differs: %v vs %v", first, second)
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("non-deterministic order: %v vs %v", first, second)
			break
		}
	}
}
