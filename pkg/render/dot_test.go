package render

import (
	"context"
	"strings"
	"testing"

	"github.com/meteo-transit/meteo/pkg/network"
	"github.com/meteo-transit/meteo/pkg/route"
	"github.com/meteo-transit/meteo/pkg/transit/transittest"
)

func buildNet(t *testing.T) *network.Network {
	t.Helper()
	net, err := network.Build(transittest.SameLine())
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	return net
}

func TestNetworkDOT_Basic(t *testing.T) {
	net, err := network.Build(transittest.Interchange())
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	dot := NetworkDOT(net, Options{})

	if !strings.HasPrefix(dot, "graph G {") {
		t.Error("NetworkDOT() output missing graph declaration")
	}
	for _, code := range []string{"A", "B", "X", "Y", "Z"} {
		if !strings.Contains(dot, `"`+code+`" [`) {
			t.Errorf("NetworkDOT() output missing node %s", code)
		}
	}
	if !strings.Contains(dot, `"A" -- "B"`) {
		t.Error("NetworkDOT() output missing edge A -- B")
	}
	if strings.Contains(dot, `"B" -- "A"`) {
		t.Error("NetworkDOT() emitted the reverse twin of A -- B")
	}
	if got := strings.Count(dot, " -- "); got != 4 {
		t.Errorf("NetworkDOT() edge count = %d, want 4", got)
	}
}

func TestNetworkDOT_ParallelLines(t *testing.T) {
	net, err := network.Build(transittest.Loop())
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	dot := NetworkDOT(net, Options{})

	// Five hops on the loop plus the Q-S chord.
	if got := strings.Count(dot, " -- "); got != 6 {
		t.Errorf("NetworkDOT() edge count = %d, want 6", got)
	}
}

func TestNetworkDOT_Interchange(t *testing.T) {
	net, err := network.Build(transittest.Interchange())
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	dot := NetworkDOT(net, Options{})

	for _, line := range strings.Split(dot, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), `"X" [`) {
			if !strings.Contains(line, "peripheries=2") {
				t.Errorf("interchange node = %q, want peripheries=2", line)
			}
			return
		}
	}
	t.Error("NetworkDOT() output missing node X")
}

func TestNetworkDOT_Subroutes(t *testing.T) {
	net, err := network.Build(transittest.Branched())
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	dot := NetworkDOT(net, Options{})

	if !strings.Contains(dot, "style=dashed") {
		t.Error("NetworkDOT() branch edges missing dashed style")
	}
	// H repeats on three BL subroutes but belongs to a single line.
	for _, line := range strings.Split(dot, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), `"H" [`) && strings.Contains(line, "peripheries=2") {
			t.Errorf("branch node = %q, want no interchange marker", line)
		}
	}
}

func TestNetworkDOT_Geographic(t *testing.T) {
	dot := NetworkDOT(buildNet(t), Options{Geographic: true})

	if !strings.Contains(dot, "layout=neato") {
		t.Error("NetworkDOT() geographic output missing neato layout")
	}
	if !strings.Contains(dot, "pos=") {
		t.Error("NetworkDOT() geographic output missing node positions")
	}
}

func TestNetworkDOT_Nil(t *testing.T) {
	dot := NetworkDOT(nil, Options{})
	if strings.Contains(dot, " -- ") {
		t.Errorf("NetworkDOT(nil) = %q, want empty graph", dot)
	}
}

func TestRouteDOT(t *testing.T) {
	net := buildNet(t)
	routes, err := route.Find(net, "A", "C", route.Bounds{})
	if err != nil {
		t.Fatalf("Find() error: %v", err)
	}
	if len(routes) != 1 {
		t.Fatalf("Find() = %d routes, want 1", len(routes))
	}

	dot := RouteDOT(net, routes[0], Options{})

	lines := strings.Split(dot, "\n")
	find := func(prefix string) string {
		for _, l := range lines {
			if strings.HasPrefix(strings.TrimSpace(l), prefix) {
				return l
			}
		}
		t.Fatalf("RouteDOT() output missing %s", prefix)
		return ""
	}

	if l := find(`"A" -- "B"`); !strings.Contains(l, "penwidth=6") {
		t.Errorf("route hop A-B = %q, want bold", l)
	}
	if l := find(`"B" -- "C"`); !strings.Contains(l, "penwidth=6") {
		t.Errorf("route hop B-C = %q, want bold", l)
	}
	if l := find(`"C" -- "D"`); !strings.Contains(l, fadedColor) {
		t.Errorf("off-route hop C-D = %q, want faded", l)
	}
	if l := find(`"A" [`); !strings.Contains(l, "fillcolor=black") {
		t.Errorf("source node = %q, want black fill", l)
	}
	if l := find(`"B" [`); !strings.Contains(l, "#ffe08a") {
		t.Errorf("via node = %q, want highlighted fill", l)
	}
	if l := find(`"E" [`); !strings.Contains(l, fadedColor) {
		t.Errorf("off-route node = %q, want faded", l)
	}
}

func TestFmtLabel(t *testing.T) {
	n, _ := buildNet(t).Node("B")

	if got := fmtLabel(n, false); got != "Station B" {
		t.Errorf("fmtLabel() simple = %q, want %q", got, "Station B")
	}
	if got := fmtLabel(n, true); got != "Station B\nB\nunderground" {
		t.Errorf("fmtLabel() detailed = %q, want %q", got, "Station B\nB\nunderground")
	}
}

func TestLineColor(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"#FFD700", "#FFD700"},
		{"#0af", "#0af"},
		{"#RD", defaultColor},
		{"", defaultColor},
		{"yellow", defaultColor},
	}
	for _, tt := range tests {
		if got := lineColor(tt.in); got != tt.want {
			t.Errorf("lineColor(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeViewBox(t *testing.T) {
	tests := []struct {
		name string
		svg  string
		want string
	}{
		{
			name: "with viewBox",
			svg:  `<svg viewBox="10 20 800 600" xmlns="http://www.w3.org/2000/svg">content</svg>`,
			want: `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 800.00 600.00" width="800" height="600">content</svg>`,
		},
		{
			name: "no viewBox",
			svg:  `<svg xmlns="http://www.w3.org/2000/svg">content</svg>`,
			want: `<svg xmlns="http://www.w3.org/2000/svg">content</svg>`,
		},
		{
			name: "zero dimensions",
			svg:  `<svg viewBox="0 0 0 0">content</svg>`,
			want: `<svg viewBox="0 0 0 0">content</svg>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := normalizeViewBox([]byte(tt.svg))
			if string(got) != tt.want {
				t.Errorf("normalizeViewBox() = %q, want %q", string(got), tt.want)
			}
		})
	}
}

func TestRenderSVG(t *testing.T) {
	svg, err := RenderSVG(context.Background(), NetworkDOT(buildNet(t), Options{}))
	if err != nil {
		t.Fatalf("RenderSVG() error: %v", err)
	}
	if !strings.Contains(string(svg), "<svg") {
		t.Error("RenderSVG() output missing <svg> tag")
	}
}

func TestRenderSVG_InvalidDOT(t *testing.T) {
	if _, err := RenderSVG(context.Background(), `not valid DOT {{{`); err == nil {
		t.Error("RenderSVG() should return error for invalid DOT")
	}
}

func TestParseFormat(t *testing.T) {
	for _, f := range Formats {
		got, err := ParseFormat(string(f))
		if err != nil || got != f {
			t.Errorf("ParseFormat(%q) = %q, %v", f, got, err)
		}
	}
	if _, err := ParseFormat("gif"); err == nil {
		t.Error("ParseFormat(gif) should fail")
	}
}

func TestRender_DOT(t *testing.T) {
	dot := NetworkDOT(buildNet(t), Options{})
	got, err := Render(context.Background(), dot, FormatDOT)
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if string(got) != dot {
		t.Error("Render(dot) should return the DOT text unchanged")
	}
}
