package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jsamuelsen/derdiedas/internal/domain"
)

// genderStyle colors a gender. The renderer drops colors when its output
// is not a terminal.
func genderStyle(r *lipgloss.Renderer, g domain.Gender) lipgloss.Style {
	return r.NewStyle().Bold(true).Foreground(lipgloss.Color(g.Color()))
}

// renderAnnotation writes the annotation text with colored spans.
func renderAnnotation(r *lipgloss.Renderer, a *domain.Annotation) string {
	var b strings.Builder

	for _, span := range a.Spans {
		if span.Kind == domain.SpanPlain || !span.Gender.Known() {
			b.WriteString(span.Text)
			continue
		}

		b.WriteString(genderStyle(r, span.Gender).Render(span.Text))
	}

	return b.String()
}

// renderLegend lists one colored line per gender.
func renderLegend(r *lipgloss.Renderer) string {
	var b strings.Builder

	label := r.NewStyle().Width(10)

	for _, entry := range domain.Legend() {
		fmt.Fprintf(&b, "%s %s %s\n",
			genderStyle(r, entry.Gender).Render("■"),
			label.Render(entry.Label),
			entry.Article,
		)
	}

	return b.String()
}
