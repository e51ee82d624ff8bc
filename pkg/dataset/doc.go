// Package dataset reads and writes transit datasets and loads them from
// files, environment variables, HTTP endpoints or a [store.Store].
//
// # Formats
//
// Datasets are JSON or YAML with the same field names:
//
//	{
//	  "lines": [{
//	    "id": "RD", "name": "Red Line", "color": "#e53935",
//	    "stations": [{
//	      "code": "RTHL", "name": "Rithala",
//	      "position": {"lat": 28.72, "lng": 77.10},
//	      "depth": "elevated", "is_interchange": false,
//	      "subroute": "main", "order": 1
//	    }]
//	  }]
//	}
//
// [Import] and [Export] pick the format from the file extension (.json,
// .yaml, .yml).
//
// # Sources
//
// A [Source] produces a dataset on demand. Whatever goes wrong while
// loading (missing file, unset variable, unreachable URL, unparsable body,
// unknown stored name) is reported as DATASET_UNAVAILABLE, so callers can
// tell it apart from a dataset that loads but fails validation when the
// network is built.
package dataset
