// Package route enumerates, segments and ranks routes over a [network.Network].
//
// # Finding routes
//
// [Find] runs a bounded depth-first search over simple paths from one
// station to another. Neighbours are expanded in the network's edge order,
// so repeated calls return routes in the same order. The search stops when
// [Bounds.MaxRoutes] routes are found, and abandons a branch once its path
// grows past [Bounds.MaxPathLength] stations or its interchange count
// exceeds [Bounds.MaxInterchanges]. A branch may not switch back onto a
// line it already left.
//
//	routes, err := route.FindRoutes(net, "RJCK", "KSMG", route.Bounds{})
//	if errors.Is(err, errors.ErrCodeInvalidStationCode) {
//	    // unknown station
//	}
//	for _, r := range route.Top(routes, route.DefaultDisplayLimit) {
//	    fmt.Println(r.Interchanges, r.TotalStations)
//	}
//
// An empty result means no route exists under the bounds; it is not an error.
//
// # Segments
//
// Every [Route] carries its path split into same-line [Segment]s by
// [Segments]. For a route with at least one hop the number of segments is
// always one more than its interchange count.
//
// # Ranking
//
// [Rank] orders routes by fewest interchanges, then fewest stations, keeping
// discovery order among ties. [FindRoutes] is Find followed by Rank.
//
// # Cancellation
//
// [FindContext] polls its context while searching. On cancellation it
// returns the routes found so far with a TIMEOUT error.
package route
