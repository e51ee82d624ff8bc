package route

import (
	"cmp"
	"slices"
)

// Rank returns a copy of routes sorted by interchanges, then total
// stations. Ties keep their input order.
func Rank(routes []Route) []Route {
	out := slices.Clone(routes)
	if out == nil {
		out = []Route{}
	}
	slices.SortStableFunc(out, func(a, b Route) int {
		if c := cmp.Compare(a.Interchanges, b.Interchanges); c != 0 {
			return c
		}
		return cmp.Compare(a.TotalStations, b.TotalStations)
	})
	return out
}

// Top returns the first k routes. k <= 0 returns all of them.
func Top(routes []Route, k int) []Route {
	if k <= 0 || k >= len(routes) {
		return routes
	}
	return routes[:k]
}
