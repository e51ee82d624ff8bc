package render

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/meteo-transit/meteo/pkg/network"
	"github.com/meteo-transit/meteo/pkg/route"
)

// Options configures DOT generation.
type Options struct {
	// Detailed adds the station code and depth to node labels.
	// When false, only the station name is shown.
	Detailed bool

	// Geographic pins nodes to their latitude/longitude and lays the
	// graph out with neato instead of dot.
	Geographic bool
}

const (
	fadedColor   = "#c8c8c8"
	defaultColor = "#555555"
	// geoScale converts degrees to Graphviz inches for pinned layouts.
	geoScale = 100.0
)

var hexColorRe = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// NetworkDOT converts a network to an undirected Graphviz DOT graph.
// Each (station pair, line, subroute) becomes one edge, so stations served
// by several lines are joined by parallel edges in each line's colour.
func NetworkDOT(net *network.Network, opts Options) string {
	return toDOT(net, nil, opts)
}

// RouteDOT converts a network to DOT with r highlighted: stations on the
// route are filled and the hops it rides are drawn bold in the line colour,
// while the rest of the network is faded.
func RouteDOT(net *network.Network, r route.Route, opts Options) string {
	hl := &highlight{
		stations: make(map[string]bool, len(r.Path)),
		hops:     make(map[string]bool, len(r.Path)),
	}
	for i, stop := range r.Path {
		hl.stations[stop.Code] = true
		if i > 0 && stop.Line != nil {
			hl.hops[hopKey(r.Path[i-1].Code, stop.Code, stop.Line.ID)] = true
		}
	}
	if len(r.Path) > 0 {
		hl.source = r.Path[0].Code
		hl.target = r.Path[len(r.Path)-1].Code
	}
	return toDOT(net, hl, opts)
}

type highlight struct {
	stations       map[string]bool
	hops           map[string]bool
	source, target string
}

func toDOT(net *network.Network, hl *highlight, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	if opts.Geographic {
		buf.WriteString("  layout=neato;\n")
		buf.WriteString("  overlap=false;\n")
	} else {
		buf.WriteString("  rankdir=LR;\n")
	}
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, style=filled, fillcolor=white, fontsize=10, width=0.3];\n")
	buf.WriteString("  edge [penwidth=3];\n")
	buf.WriteString("\n")

	if net == nil {
		buf.WriteString("}\n")
		return buf.String()
	}

	for _, n := range net.Nodes() {
		attrs := fmtNodeAttrs(n, fmtLabel(n, opts.Detailed), hl)
		if opts.Geographic && n.Position != nil {
			attrs = append(attrs, fmt.Sprintf("pos=\"%.3f,%.3f!\"", n.Position.Lng*geoScale, n.Position.Lat*geoScale))
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", n.Code, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	seen := make(map[string]bool)
	for _, n := range net.Nodes() {
		for _, e := range net.Neighbors(n.Code) {
			key := hopKey(n.Code, e.To, e.LineID) + "|" + e.Subroute
			if seen[key] {
				continue
			}
			seen[key] = true
			fmt.Fprintf(&buf, "  %q -- %q [%s];\n", n.Code, e.To, strings.Join(fmtEdgeAttrs(n.Code, e, hl), ", "))
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// hopKey identifies an undirected hop on a line.
func hopKey(a, b, line string) string {
	if b < a {
		a, b = b, a
	}
	return a + "|" + b + "|" + line
}

func fmtLabel(n *network.Node, detailed bool) string {
	name := n.Name
	if name == "" {
		name = n.Code
	}
	if !detailed {
		return name
	}

	parts := []string{name, n.Code}
	if n.Depth != "" {
		parts = append(parts, string(n.Depth))
	}
	return strings.Join(parts, "\n")
}

func fmtNodeAttrs(n *network.Node, label string, hl *highlight) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if n.IsInterchange || len(n.DistinctLines()) > 1 {
		attrs = append(attrs, "peripheries=2")
	}
	if hl == nil {
		return attrs
	}
	switch {
	case n.Code == hl.source || n.Code == hl.target:
		attrs = append(attrs, "fillcolor=black", "fontcolor=white")
	case hl.stations[n.Code]:
		attrs = append(attrs, "fillcolor=\"#ffe08a\"")
	default:
		attrs = append(attrs, "color=\""+fadedColor+"\"", "fontcolor=\""+fadedColor+"\"")
	}
	return attrs
}

func fmtEdgeAttrs(from string, e network.Edge, hl *highlight) []string {
	color := lineColor(e.LineColor)
	attrs := []string{fmt.Sprintf("tooltip=%q", e.LineName)}
	switch {
	case hl == nil:
		attrs = append(attrs, fmt.Sprintf("color=%q", color))
	case hl.hops[hopKey(from, e.To, e.LineID)]:
		attrs = append(attrs, fmt.Sprintf("color=%q", color), "penwidth=6")
	default:
		attrs = append(attrs, fmt.Sprintf("color=%q", fadedColor))
	}
	if e.Subroute != "" && e.Subroute != network.MainSubroute {
		attrs = append(attrs, "style=dashed")
	}
	return attrs
}

// lineColor falls back to a neutral grey when the dataset colour is not a
// hex triplet Graphviz understands.
func lineColor(c string) string {
	if hexColorRe.MatchString(c) {
		return c
	}
	return defaultColor
}
