// Package network turns a transit dataset into an undirected multi-line
// graph and a station registry.
//
// # Overview
//
// [Build] is the only constructor. It validates the dataset, registers every
// station under its code (first occurrence wins, line memberships
// accumulate), and connects consecutive stations of each line:
//
//	net, err := network.Build(ds)
//	if err != nil {
//	    // MALFORMED_DATASET: nothing downstream may use this dataset
//	}
//	for _, e := range net.Neighbors("RJCK") {
//	    fmt.Println(e.To, e.LineID)
//	}
//
// # Subroutes
//
// Lines whose stations carry a subroute label are split into one partition
// per label (stations without a label land in "main"). Each partition is
// stable-sorted by station order and its neighbours are linked. Lines
// without any subroute are sorted as a whole and their edges carry no
// subroute label.
//
// # Determinism
//
// Edges are appended in line order, then partition order (first appearance),
// then adjacency order. Route search iterates neighbours in that order, so
// identical datasets always produce identical search results.
//
// # Concurrency
//
// A [Network] is never modified after [Build] returns and may be shared by
// any number of concurrent readers. Slices and maps returned by accessors
// belong to the network and must not be modified.
package network
