package network

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/meteo-transit/meteo/pkg/transit"
)

// MainSubroute is the partition label for stations without a subroute on a
// line that has subroutes.
const MainSubroute = "main"

// LineRef identifies a line together with its display attributes.
type LineRef struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// Edge is one direction of a connection between two adjacent stations.
// Every edge a→b has a twin b→a with identical line metadata.
type Edge struct {
	To        string `json:"to"`
	LineID    string `json:"line"`
	LineName  string `json:"lineName"`
	LineColor string `json:"lineColor"`
	Subroute  string `json:"subroute,omitempty"`
	Weight    int    `json:"weight"`
}

// Line returns the edge's line reference.
func (e Edge) Line() LineRef {
	return LineRef{ID: e.LineID, Name: e.LineName, Color: e.LineColor}
}

// Node is a registered station: the attributes of its first occurrence in
// the dataset plus every line it was seen on.
//
// Lines holds one entry per occurrence of the station in the dataset, so a
// station repeated on a line (once per subroute) lists that line repeatedly.
type Node struct {
	transit.Station
	Lines []LineRef `json:"lines"`
}

// DistinctLines returns the node's line memberships with repeats removed,
// in first-seen order.
func (n *Node) DistinctLines() []LineRef {
	out := make([]LineRef, 0, len(n.Lines))
	for _, l := range n.Lines {
		if !slices.ContainsFunc(out, func(o LineRef) bool { return o.ID == l.ID }) {
			out = append(out, l)
		}
	}
	return out
}

// Graph maps a station code to its edges in insertion order.
type Graph map[string][]Edge

// Registry maps a station code to its node.
type Registry map[string]*Node

// Network is the immutable result of [Build].
type Network struct {
	graph    Graph
	registry Registry
	codes    []string  // station codes in first-seen order
	lines    []LineRef // lines in dataset order
	edges    int       // undirected edge count
	hash     string
}

// Build validates ds and derives its graph and registry.
// A malformed dataset yields a MALFORMED_DATASET error and no network.
func Build(ds *transit.Dataset) (*Network, error) {
	if err := ds.Validate(); err != nil {
		return nil, fmt.Errorf("build network: %w", err)
	}

	data, err := json.Marshal(ds)
	if err != nil {
		return nil, fmt.Errorf("build network: %w", err)
	}
	sum := sha256.Sum256(data)

	n := &Network{
		graph:    make(Graph),
		registry: make(Registry),
		lines:    make([]LineRef, 0, len(ds.Lines)),
		hash:     hex.EncodeToString(sum[:]),
	}
	for _, l := range ds.Lines {
		n.register(l)
	}
	for _, l := range ds.Lines {
		n.connect(l)
	}
	return n, nil
}

// register adds the line's stations to the registry and appends the line
// to each station's memberships for every occurrence, new or repeated.
func (n *Network) register(l transit.Line) {
	ref := LineRef{ID: l.ID, Name: l.Name, Color: l.Color}
	n.lines = append(n.lines, ref)
	for _, s := range l.Stations {
		node, ok := n.registry[s.Code]
		if !ok {
			node = &Node{Station: s, Lines: []LineRef{}}
			n.registry[s.Code] = node
			n.graph[s.Code] = []Edge{}
			n.codes = append(n.codes, s.Code)
		}
		node.Lines = append(node.Lines, ref)
	}
}

// connect links consecutive stations of every partition of the line.
func (n *Network) connect(l transit.Line) {
	if !l.HasSubroutes() {
		n.link(l, "", l.Stations)
		return
	}
	for _, p := range partition(l.Stations) {
		n.link(l, p.label, p.stations)
	}
}

type subroute struct {
	label    string
	stations []transit.Station
}

// partition groups stations by subroute label in first-appearance order.
func partition(stations []transit.Station) []subroute {
	var parts []subroute
	index := make(map[string]int)
	for _, s := range stations {
		label := s.Subroute
		if label == "" {
			label = MainSubroute
		}
		i, ok := index[label]
		if !ok {
			i = len(parts)
			index[label] = i
			parts = append(parts, subroute{label: label})
		}
		parts[i].stations = append(parts[i].stations, s)
	}
	return parts
}

func (n *Network) link(l transit.Line, label string, stations []transit.Station) {
	sorted := slices.Clone(stations)
	slices.SortStableFunc(sorted, func(a, b transit.Station) int {
		switch ao, bo := a.OrderValue(), b.OrderValue(); {
		case ao < bo:
			return -1
		case ao > bo:
			return 1
		}
		return 0
	})

	for i := 0; i+1 < len(sorted); i++ {
		from, to := sorted[i].Code, sorted[i+1].Code
		if from == to {
			continue
		}
		e := Edge{LineID: l.ID, LineName: l.Name, LineColor: l.Color, Subroute: label, Weight: 1}
		fwd, back := e, e
		fwd.To, back.To = to, from
		n.graph[from] = append(n.graph[from], fwd)
		n.graph[to] = append(n.graph[to], back)
		n.edges++
	}
}

// Graph returns the adjacency map.
func (n *Network) Graph() Graph { return n.graph }

// Registry returns the station registry.
func (n *Network) Registry() Registry { return n.registry }

// Neighbors returns the edges leaving code in insertion order.
func (n *Network) Neighbors(code string) []Edge { return n.graph[code] }

// Node returns the registered station for code.
func (n *Network) Node(code string) (*Node, bool) {
	node, ok := n.registry[code]
	return node, ok
}

// Has reports whether code is a registered station.
func (n *Network) Has(code string) bool {
	_, ok := n.registry[code]
	return ok
}

// Nodes returns all stations in first-seen order.
func (n *Network) Nodes() []*Node {
	out := make([]*Node, len(n.codes))
	for i, c := range n.codes {
		out[i] = n.registry[c]
	}
	return out
}

// Lines returns the network's lines in dataset order.
func (n *Network) Lines() []LineRef { return n.lines }

// StationCount returns the number of distinct stations.
func (n *Network) StationCount() int { return len(n.codes) }

// Hash returns the SHA-256 of the dataset's JSON encoding. Networks built
// from equal datasets share a hash.
func (n *Network) Hash() string { return n.hash }

// EdgeCount returns the number of undirected connections. Parallel
// connections on different lines or subroutes count separately.
func (n *Network) EdgeCount() int { return n.edges }
