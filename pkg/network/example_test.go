package network_test

import (
	"fmt"

	"github.com/meteo-transit/meteo/pkg/network"
	"github.com/meteo-transit/meteo/pkg/transit/transittest"
)

func ExampleBuild() {
	// RD: A - B - X, BL: X - Y - Z
	net, err := network.Build(transittest.Interchange())
	if err != nil {
		panic(err)
	}

	fmt.Println("Stations:", net.StationCount())
	fmt.Println("Edges:", net.EdgeCount())
	for _, e := range net.Neighbors("X") {
		fmt.Println("X ->", e.To, "via", e.LineID)
	}
	// Output:
	// Stations: 5
	// Edges: 4
	// X -> B via RD
	// X -> Y via BL
}

func ExampleNetwork_Search() {
	net, _ := network.Build(transittest.SameLine())
	for _, n := range net.Search("station c", 5) {
		fmt.Println(n.Code, n.Name)
	}
	// Output:
	// C Station C
}
