// Package layout renders challenges and skill descriptions for the terminal.
package layout

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/EthanGF7/SkillsTracker/internal/challenge"
	"github.com/EthanGF7/SkillsTracker/internal/skilldesc"
	"github.com/EthanGF7/SkillsTracker/internal/ui/theme"
)

const (
	// MinWidth is the narrowest card rendered; smaller widths are raised.
	MinWidth = 40

	// DefaultWidth is used when the terminal width is unknown.
	DefaultWidth = 80
)

// RenderChallenge renders c as a bordered card of the given width.
func RenderChallenge(c *challenge.Challenge, width int) string {
	width = clampWidth(width)
	inner := width - 4

	var b strings.Builder
	b.WriteString(theme.Title.Render(c.Title))
	b.WriteString("\n")
	b.WriteString(theme.Subtitle.Render(challengeMeta(c)))
	b.WriteString("\n\n")
	b.WriteString(theme.Body.Width(inner).Render(c.Description))
	b.WriteString("\n")

	switch c.Kind {
	case challenge.KindCustom:
		writeList(&b, "Objetivos", c.Objectives, inner)
		writeList(&b, "Métricas", c.Metrics, inner)
	default:
		writeList(&b, "Reglas", c.Rules, inner)
		if c.ExtraTip != "" {
			b.WriteString("\n")
			b.WriteString(theme.Hint.Width(inner).Render("Consejo: " + c.ExtraTip))
			b.WriteString("\n")
		}
	}
	if c.Source == challenge.SourceFallback {
		b.WriteString("\n")
		b.WriteString(theme.Badge.Render("reto de respaldo (sin IA)"))
		b.WriteString("\n")
	}

	return theme.Card.Width(width).Render(strings.TrimRight(b.String(), "\n"))
}

// RenderDescription renders a skill description card.
func RenderDescription(name string, d *skilldesc.Description, width int) string {
	width = clampWidth(width)
	inner := width - 4

	var b strings.Builder
	b.WriteString(theme.Title.Render(name))
	if d.Fallback {
		b.WriteString("  ")
		b.WriteString(theme.Badge.Render("(descripción genérica)"))
	}
	b.WriteString("\n\n")
	b.WriteString(theme.Body.Width(inner).Render(d.Description))
	b.WriteString("\n")
	writeList(&b, "Puntos clave", d.KeyPoints, inner)
	writeList(&b, "Ejemplos", d.Examples, inner)

	return theme.Card.Width(width).Render(strings.TrimRight(b.String(), "\n"))
}

// RenderBar renders a horizontal ratio bar such as a success rate. percent
// is clamped to [0, 1].
func RenderBar(percent float64, width int) string {
	if width < 4 {
		width = 4
	}
	if percent < 0 {
		percent = 0
	}
	if percent > 1 {
		percent = 1
	}
	filled := int(float64(width)*percent + 0.5)
	return theme.BarFilled.Render(strings.Repeat("█", filled)) +
		theme.BarEmpty.Render(strings.Repeat("░", width-filled)) +
		fmt.Sprintf(" %3.0f%%", percent*100)
}

func challengeMeta(c *challenge.Challenge) string {
	parts := []string{string(c.Type), c.SkillIdentity()}
	if c.Level != "" {
		parts = append(parts, c.Level)
	}
	if !c.CreatedAt.IsZero() {
		parts = append(parts, c.CreatedAt.Local().Format("2006-01-02 15:04"))
	}
	return strings.Join(parts, " · ")
}

func writeList(b *strings.Builder, label string, items []string, width int) {
	if len(items) == 0 {
		return
	}
	b.WriteString("\n")
	b.WriteString(theme.Label.Render(label))
	b.WriteString("\n")
	item := lipgloss.NewStyle().Width(width).PaddingLeft(2)
	for _, it := range items {
		b.WriteString(item.Render("• " + it))
		b.WriteString("\n")
	}
}

func clampWidth(width int) int {
	if width <= 0 {
		return DefaultWidth
	}
	if width < MinWidth {
		return MinWidth
	}
	return width
}
