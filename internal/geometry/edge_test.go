package geometry

import "testing"

func TestParseEdge(t *testing.T) {
	for _, e := range Edges {
		got, err := ParseEdge(e.String())
		if err != nil || got != e {
			t.Errorf("ParseEdge(%q) = %v, %v", e.String(), got, err)
		}
	}
	if _, err := ParseEdge("middle"); err == nil {
		t.Error("expected error for unknown edge")
	}
	if Edge(9).String() != "Edge(9)" {
		t.Errorf("unexpected String for out of range edge: %s", Edge(9))
	}
}
