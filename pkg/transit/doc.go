// Package transit defines the immutable dataset a route planner works on:
// lines, the stations they serve, and the validation that decides whether a
// dataset can be turned into a network.
//
// # Dataset Shape
//
// A [Dataset] is a list of [Line] values, each holding an ordered collection
// of [Station] values. Stations may be shared between lines (interchanges)
// and may carry a subroute label and an order used to sequence branches:
//
//	{ "lines": [ { "id": "BL", "name": "Blue Line", "color": "#0077c8",
//	    "stations": [
//	      { "code": "RJCK", "name": "Rajiv Chowk",
//	        "position": {"lat": 28.63, "lng": 77.22},
//	        "depth": "underground", "is_interchange": true,
//	        "interchange_lines": ["YL"], "subroute": "main", "order": 12 } ] } ] }
//
// # Validation
//
// [Dataset.Validate] rejects datasets the graph builder cannot use: a line
// without id or stations, or a station without code or position. Failures
// are reported as MALFORMED_DATASET errors naming the offending field.
//
// Datasets are loaded once and never mutated afterwards; every consumer
// (graph builder, search, HTTP endpoint) reads the same value.
package transit
