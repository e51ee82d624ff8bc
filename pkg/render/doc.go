// Package render exports transit networks and routes as Graphviz diagrams.
//
// # Overview
//
// The package turns a [network.Network] into DOT text and renders DOT to
// SVG with the embedded Graphviz from go-graphviz. Edges are drawn in their
// line colour, interchange stations get a double outline, and a route can be
// highlighted on top of the full network.
//
// # Usage
//
//	dot := render.NetworkDOT(net, render.Options{})
//	svg, err := render.RenderSVG(ctx, dot)
//
// Highlighting a route:
//
//	dot := render.RouteDOT(net, routes[0], render.Options{Detailed: true})
//
// # Format Conversion
//
// [ToPDF] and [ToPNG] convert SVG with the external rsvg-convert tool
// (from librsvg). [Render] picks the conversion from a [Format].
//
// [network.Network]: github.com/meteo-transit/meteo/pkg/network.Network
package render
