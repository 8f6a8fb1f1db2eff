package render

import (
	"fmt"
	"strings"

	"dashsearch/internal/domain/models"

	"github.com/charmbracelet/lipgloss"
)

const emptyMessage = "No results"

// Renderer formats result lists as styled terminal lines. Only the basic
// ANSI palette is used so the output survives gocui's escape interpreter.
type Renderer struct {
	badges map[models.Kind]lipgloss.Style
	label  lipgloss.Style
	route  lipgloss.Style
	muted  lipgloss.Style
}

// New builds a renderer on r; nil uses lipgloss' default renderer.
func New(r *lipgloss.Renderer) *Renderer {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}

	badge := r.NewStyle().Bold(true).Width(10)

	return &Renderer{
		badges: map[models.Kind]lipgloss.Style{
			models.KindState:    badge.Foreground(lipgloss.Color("4")),
			models.KindDistrict: badge.Foreground(lipgloss.Color("6")),
			models.KindResource: badge.Foreground(lipgloss.Color("2")),
		},
		label: r.NewStyle().Bold(true),
		route: r.NewStyle().Foreground(lipgloss.Color("3")),
		muted: r.NewStyle().Foreground(lipgloss.Color("7")),
	}
}

// Line renders one match on a single line.
func (r *Renderer) Line(m models.MatchResult) string {
	var b strings.Builder

	b.WriteString(r.badges[m.Kind].Render(string(m.Kind)))
	b.WriteString(r.label.Render(m.Label))

	switch m.Kind {
	case models.KindState:
		b.WriteString(" ")
		b.WriteString(r.route.Render("→ " + m.RouteKey))

	case models.KindDistrict:
		b.WriteString(r.muted.Render(" (" + m.Region + ")"))
		b.WriteString(" ")
		b.WriteString(r.route.Render("→ " + m.RouteKey))

	case models.KindResource:
		details := make([]string, 0, 4)
		for _, d := range []string{m.CategoryLabel, location(m.City, m.State), m.Phone, m.Website} {
			if d != "" {
				details = append(details, d)
			}
		}
		if len(details) > 0 {
			b.WriteString(r.muted.Render(" · " + strings.Join(details, " · ")))
		}
	}

	return b.String()
}

// Render renders the whole list, one match per line.
func (r *Renderer) Render(list models.ResultList) string {
	if len(list) == 0 {
		return r.muted.Render(emptyMessage)
	}

	lines := make([]string, 0, len(list))
	for _, m := range list {
		lines = append(lines, r.Line(m))
	}
	return strings.Join(lines, "\n")
}

// Summary counts the list per kind.
func Summary(list models.ResultList) string {
	return fmt.Sprintf("%d states, %d districts, %d resources",
		list.Count(models.KindState),
		list.Count(models.KindDistrict),
		list.Count(models.KindResource),
	)
}

func location(city, state string) string {
	switch {
	case city == "":
		return state
	case state == "":
		return city
	default:
		return city + ", " + state
	}
}
