package page

import (
	"math"
	"testing"
)

func TestAdjacencyWrapsBothWays(t *testing.T) {
	t.Parallel()
	if Server.Next() != Planner {
		t.Fatalf("Server.Next() = %v, want Planner", Server.Next())
	}
	if Planner.Prev() != Server {
		t.Fatalf("Planner.Prev() = %v, want Server", Planner.Prev())
	}
	for _, p := range All() {
		if p.Next().Prev() != p || p.Prev().Next() != p {
			t.Fatalf("adjacency not symmetric for %v", p)
		}
	}
	p := Planner
	for i := 0; i < Count; i++ {
		p = p.Next()
	}
	if p != Planner {
		t.Fatalf("walking Count steps must return to start, got %v", p)
	}
}

func TestFromIndex(t *testing.T) {
	t.Parallel()
	cases := map[int]Page{0: Planner, 4: Server, 5: Planner, 253: Statistics, -1: Server, -6: Server}
	for in, want := range cases {
		if got := FromIndex(in); got != want {
			t.Fatalf("FromIndex(%d) = %v, want %v", in, got, want)
		}
	}
}

func TestParse(t *testing.T) {
	t.Parallel()
	if p, ok := Parse(" notes "); !ok || p != Notes {
		t.Fatalf("Parse(notes) = %v, %v", p, ok)
	}
	if _, ok := Parse("calendar"); ok {
		t.Fatalf("unknown label must not parse")
	}
}

func TestCyclicDistance(t *testing.T) {
	t.Parallel()
	tests := []struct {
		a, b float64
		want float64
	}{
		{0, 0, 0},
		{0, 1, 1},
		{0, 4, 1},
		{4, 0.5, 1.5},
		{2, 2.25, 0.25},
	}
	for _, tt := range tests {
		if got := CyclicDistance(tt.a, tt.b, Count); math.Abs(got-tt.want) > 1e-9 {
			t.Fatalf("CyclicDistance(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}
