package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/meteo-transit/meteo/pkg/route"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	detailBoxStyle    = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorDim).
				Padding(0, 1)
)

// =============================================================================
// RouteBrowserModel - Interactive route comparison
// =============================================================================

// RouteBrowserModel is the bubbletea model for browsing ranked routes.
// The list shows one summary line per route; the selected route is
// expanded below it segment by segment.
type RouteBrowserModel struct {
	Title    string
	Routes   []route.Route
	Cursor   int
	Selected *route.Route
}

// NewRouteBrowserModel creates a browser over ranked routes.
func NewRouteBrowserModel(title string, routes []route.Route) RouteBrowserModel {
	return RouteBrowserModel{Title: title, Routes: routes}
}

func (m RouteBrowserModel) Init() tea.Cmd {
	return nil
}

func (m RouteBrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < len(m.Routes)-1 {
				m.Cursor++
			}
		case "home", "g":
			m.Cursor = 0
		case "end", "G":
			if len(m.Routes) > 0 {
				m.Cursor = len(m.Routes) - 1
			}
		case "enter":
			if len(m.Routes) == 0 {
				return m, tea.Quit
			}
			r := m.Routes[m.Cursor]
			m.Selected = &r
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m RouteBrowserModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	if len(m.Routes) == 0 {
		b.WriteString(StyleWarning.Render("No route found"))
		b.WriteString("\n")
		return b.String()
	}

	for i, r := range m.Routes {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		line := fmt.Sprintf("%s%2d. %-40s %s", cursor, i+1, summarize(r),
			listDimStyle.Render(fmt.Sprintf("%s · %s", plural(r.TotalStations, "stop"), plural(r.Interchanges, "interchange"))))
		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render(line))
		} else {
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(detailBoxStyle.Render(strings.TrimRight(formatRoute(m.Cursor+1, m.Routes[m.Cursor]), "\n")))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Routes))))

	return b.String()
}

// summarize lists the lines a route rides, e.g. "YL → BL".
func summarize(r route.Route) string {
	ids := make([]string, len(r.Lines))
	for i, seg := range r.Lines {
		ids[i] = seg.LineID
	}
	if len(ids) == 0 {
		return "(no travel)"
	}
	return strings.Join(ids, " "+iconArrow+" ")
}
