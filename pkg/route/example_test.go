package route_test

import (
	"fmt"
	"strings"

	"github.com/meteo-transit/meteo/pkg/network"
	"github.com/meteo-transit/meteo/pkg/route"
	"github.com/meteo-transit/meteo/pkg/transit/transittest"
)

func ExampleFindRoutes() {
	// CL is a loop P-Q-R-S-T-P, CH is a chord Q-S.
	net, _ := network.Build(transittest.Loop())

	routes, _ := route.FindRoutes(net, "P", "S", route.Bounds{})
	for _, r := range route.Top(routes, route.DefaultDisplayLimit) {
		fmt.Printf("%s (%d interchanges)\n", strings.Join(r.Codes(), "-"), r.Interchanges)
	}
	// Output:
	// P-T-S (0 interchanges)
	// P-Q-R-S (0 interchanges)
	// P-Q-S (1 interchanges)
}

func ExampleSegments() {
	net, _ := network.Build(transittest.Interchange())
	routes, _ := route.Find(net, "A", "Z", route.Bounds{})

	for _, seg := range routes[0].Lines {
		var codes []string
		for _, s := range seg.Stations {
			codes = append(codes, s.Code)
		}
		fmt.Println(seg.LineID, codes)
	}
	// Output:
	// RD [B X]
	// BL [Y Z]
}
