// Package transittest provides small hand-built datasets for tests.
package transittest

import "github.com/meteo-transit/meteo/pkg/transit"

// Station builds an underground station at a position derived from its order.
func Station(code string, order float64) transit.Station {
	o := order
	return transit.Station{
		Code:     code,
		Name:     "Station " + code,
		Position: &transit.Position{Lat: 28.5 + order/100, Lng: 77.1 + order/100},
		Depth:    transit.DepthUnderground,
		Order:    &o,
	}
}

// Branch builds a station on a named subroute.
func Branch(code, subroute string, order float64) transit.Station {
	s := Station(code, order)
	s.Subroute = subroute
	return s
}

// Line builds a line from stations.
func Line(id string, stations ...transit.Station) transit.Line {
	return transit.Line{
		ID:       id,
		Name:     id + " Line",
		Color:    "#" + id,
		Stations: stations,
	}
}

// SameLine is a single line A-B-C-D-E.
func SameLine() *transit.Dataset {
	return &transit.Dataset{Lines: []transit.Line{
		Line("RD", Station("A", 1), Station("B", 2), Station("C", 3), Station("D", 4), Station("E", 5)),
	}}
}

// Interchange is two lines crossing at X:
//
//	RD: A - B - X
//	BL: X - Y - Z
func Interchange() *transit.Dataset {
	return &transit.Dataset{Lines: []transit.Line{
		Line("RD", Station("A", 1), Station("B", 2), Station("X", 3)),
		Line("BL", Station("X", 1), Station("Y", 2), Station("Z", 3)),
	}}
}

// Loop is a circular line plus a chord line, so the graph contains cycles:
//
//	CL: P - Q - R - S - T - P
//	CH: Q - S
func Loop() *transit.Dataset {
	return &transit.Dataset{Lines: []transit.Line{
		Line("CL", Station("P", 1), Station("Q", 2), Station("R", 3), Station("S", 4), Station("T", 5), Station("P", 6)),
		Line("CH", Station("Q", 1), Station("S", 2)),
	}}
}

// Disconnected is two lines that share no station.
func Disconnected() *transit.Dataset {
	return &transit.Dataset{Lines: []transit.Line{
		Line("RD", Station("A", 1), Station("B", 2)),
		Line("GR", Station("M", 1), Station("N", 2)),
	}}
}

// Branched is a line that forks after H into two subroutes, plus a line
// without subroutes that links both branch ends:
//
//	BL main:  K - H
//	BL north: H - N1 - N2
//	BL south: H - S1
//	GR:       N2 - S1
func Branched() *transit.Dataset {
	return &transit.Dataset{Lines: []transit.Line{
		Line("BL",
			Station("K", 1), Station("H", 2),
			Branch("H", "north", 1), Branch("N2", "north", 3), Branch("N1", "north", 2),
			Branch("H", "south", 1), Branch("S1", "south", 2),
		),
		Line("GR", Station("N2", 1), Station("S1", 2)),
	}}
}
