package route

import (
	"testing"
)

func candidate(id string, interchanges, stations int) Route {
	return Route{
		Path:          []Stop{stop(id, "")},
		Interchanges:  interchanges,
		TotalStations: stations,
	}
}

func TestRank(t *testing.T) {
	in := []Route{
		candidate("a", 1, 3),
		candidate("b", 0, 9),
		candidate("c", 0, 4),
		candidate("d", 1, 3),
		candidate("e", 0, 4),
	}
	got := Rank(in)

	want := []string{"c", "e", "b", "a", "d"}
	for i, r := range got {
		if r.Source() != want[i] {
			t.Errorf("Rank()[%d] = %s, want %s", i, r.Source(), want[i])
		}
	}
	if in[0].Source() != "a" {
		t.Error("Rank() modified its input")
	}
}

func TestRankEmpty(t *testing.T) {
	if got := Rank(nil); got == nil || len(got) != 0 {
		t.Errorf("Rank(nil) = %v, want empty slice", got)
	}
}

func TestTop(t *testing.T) {
	routes := []Route{candidate("a", 0, 1), candidate("b", 0, 2), candidate("c", 0, 3), candidate("d", 0, 4)}

	tests := []struct {
		k    int
		want int
	}{
		{DefaultDisplayLimit, 3},
		{1, 1},
		{10, 4},
		{0, 4},
		{-1, 4},
	}
	for _, tc := range tests {
		if got := len(Top(routes, tc.k)); got != tc.want {
			t.Errorf("len(Top(%d)) = %d, want %d", tc.k, got, tc.want)
		}
	}
}
