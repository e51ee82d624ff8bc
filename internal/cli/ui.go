package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/meteo-transit/meteo/pkg/cache"
	"github.com/meteo-transit/meteo/pkg/network"
	"github.com/meteo-transit/meteo/pkg/route"
	"github.com/meteo-transit/meteo/pkg/store"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorBlue   = lipgloss.Color("75")  // Light blue - links
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Public Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleHighlight for emphasized values.
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleLink for URLs.
	StyleLink = lipgloss.NewStyle().Foreground(colorBlue).Underline(true)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleNumber for numeric values.
	StyleNumber = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleSuccess for success messages.
	StyleSuccess = lipgloss.NewStyle().Foreground(colorGreen)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

// =============================================================================
// Internal Styles
// =============================================================================

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleCached   = lipgloss.NewStyle().Foreground(colorGreen)
	styleComputed = lipgloss.NewStyle().Foreground(colorGray)

	styleCommand = lipgloss.NewStyle().Foreground(colorBlue)
)

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
	iconCached  = "cached"
	iconFresh   = "fresh"
)

// =============================================================================
// Status Output
// =============================================================================

// printSuccess prints a success message.
func printSuccess(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconSuccess.Render(iconSuccess) + " " + msg)
}

// printError prints an error message.
func printError(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconError.Render(iconError) + " " + msg)
}

// printWarning prints a warning message.
func printWarning(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconWarning.Render(iconWarning) + " " + StyleWarning.Render(msg))
}

// printInfo prints an info/status message.
func printInfo(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconInfo.Render(iconInfo) + " " + msg)
}

// printDetail prints a detail line (indented).
func printDetail(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println("  " + StyleDim.Render(msg))
}

// =============================================================================
// File Output
// =============================================================================

// printFile prints a file output line.
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path))
}

// =============================================================================
// Key-Value Output
// =============================================================================

// printKeyValue prints a labeled value.
func printKeyValue(key, value string) {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(12)
	fmt.Println(keyStyle.Render(key) + " " + StyleValue.Render(value))
}

// =============================================================================
// Stats Display
// =============================================================================

// printStats prints network statistics on a single line.
func printStats(stations, edges int, cached bool) {
	fmt.Println(formatStats(stations, edges, cached))
}

func formatStats(stations, edges int, cached bool) string {
	var parts []string
	if stations > 0 {
		parts = append(parts, fmt.Sprintf("%d stations", stations))
	}
	if edges > 0 {
		parts = append(parts, fmt.Sprintf("%d edges", edges))
	}

	status := iconFresh
	statusStyle := styleComputed
	if cached {
		status = iconCached
		statusStyle = styleCached
	}
	parts = append(parts, statusStyle.Render(status))

	line := "  "
	for i, part := range parts {
		if i > 0 {
			line += StyleDim.Render(" · ")
		}
		line += StyleDim.Render(part)
	}
	return line
}

// =============================================================================
// Routes
// =============================================================================

// formatRoute renders one ranked route: a header with endpoints and counts,
// then one line per segment in the segment's line colour.
func formatRoute(rank int, r route.Route) string {
	var b strings.Builder

	from, to := stationName(r.Path, 0), stationName(r.Path, len(r.Path)-1)
	header := fmt.Sprintf("%s  %s %s %s",
		StyleNumber.Render(fmt.Sprintf("%2d", rank)),
		StyleValue.Render(from), StyleDim.Render(iconArrow), StyleValue.Render(to))
	b.WriteString(header)
	b.WriteString("   ")
	b.WriteString(StyleDim.Render(fmt.Sprintf("%s · %s",
		plural(r.TotalStations, "stop"), plural(r.Interchanges, "interchange"))))
	b.WriteString("\n")

	for _, seg := range r.Lines {
		swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(seg.LineColor)).Render("■")
		name := lipgloss.NewStyle().Width(16).Render(seg.LineName)
		names := make([]string, len(seg.Stations))
		for i, st := range seg.Stations {
			names[i] = st.Name
		}
		fmt.Fprintf(&b, "    %s %s %s %s\n", swatch, name,
			strings.Join(names, StyleDim.Render(" "+iconArrow+" ")),
			StyleDim.Render("("+plural(len(seg.Stations), "stop")+")"))
	}
	return b.String()
}

// printRoutes prints ranked routes, or a notice when there are none.
func printRoutes(routes []route.Route) {
	if len(routes) == 0 {
		printWarning("No route found")
		return
	}
	for i, r := range routes {
		fmt.Print(formatRoute(i+1, r))
		if i < len(routes)-1 {
			fmt.Println()
		}
	}
}

func stationName(path []route.Stop, i int) string {
	if i < 0 || i >= len(path) {
		return ""
	}
	if path[i].Name != "" {
		return path[i].Name
	}
	return path[i].Code
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}

// =============================================================================
// Tables
// =============================================================================

var headerStyle = lipgloss.NewStyle().Foreground(colorGray).Bold(true)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
}

// formatStations renders search results as a table.
func formatStations(nodes []*network.Node) string {
	t := newTable("Code", "Name", "Lines", "Depth")
	for _, n := range nodes {
		lines := n.DistinctLines()
		ids := make([]string, len(lines))
		for i, l := range lines {
			ids[i] = lipgloss.NewStyle().Foreground(lipgloss.Color(l.Color)).Render(l.ID)
		}
		t.Row(n.Code, n.Name, strings.Join(ids, " "), string(n.Depth))
	}
	return t.Render()
}

// formatDatasets renders stored dataset summaries as a table.
func formatDatasets(infos []store.Info) string {
	t := newTable("Name", "Lines", "Stations", "Updated", "Hash")
	for _, info := range infos {
		t.Row(info.Name, fmt.Sprint(info.Lines), fmt.Sprint(info.Stations),
			formatRelativeTime(info.UpdatedAt), cache.ShortHash(info.Hash))
	}
	return t.Render()
}

// =============================================================================
// Commands & Next Steps
// =============================================================================

// printNextStep prints a suggested next command.
func printNextStep(description, cmd string) {
	fmt.Println(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}

// =============================================================================
// Utilities
// =============================================================================

// printNewline prints an empty line.
func printNewline() {
	fmt.Println()
}

func formatRelativeTime(t time.Time) string {
	if t.IsZero() {
		return "—"
	}
	diff := time.Since(t)

	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	default:
		return t.Format("Jan 2, 2006")
	}
}
