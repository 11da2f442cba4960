package history

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"

	"github.com/EthanGF7/SkillsTracker/internal/challenge"
)

// Markdown renders challenges as a Markdown document, one section per
// challenge in the order given.
func Markdown(t challenge.Type, challenges []challenge.Challenge) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Historial de retos (%s)\n\n", t)
	if len(challenges) == 0 {
		b.WriteString("_Sin retos registrados._\n")
		return b.String()
	}

	for _, c := range challenges {
		fmt.Fprintf(&b, "## %s\n\n", oneLine(c.Title))
		meta := []string{"**" + oneLine(c.SkillIdentity()) + "**"}
		if c.Level != "" {
			meta = append(meta, oneLine(c.Level))
		}
		if !c.CreatedAt.IsZero() {
			meta = append(meta, c.CreatedAt.UTC().Format("2006-01-02"))
		}
		b.WriteString(strings.Join(meta, " · "))
		b.WriteString("\n\n")
		b.WriteString(strings.TrimSpace(c.Description))
		b.WriteString("\n\n")

		switch c.Kind {
		case challenge.KindCustom:
			writeSection(&b, "Objetivos", c.Objectives)
			writeSection(&b, "Métricas", c.Metrics)
		default:
			writeSection(&b, "Reglas", c.Rules)
			if c.ExtraTip != "" {
				fmt.Fprintf(&b, "> %s\n\n", oneLine(c.ExtraTip))
			}
		}
	}
	return b.String()
}

// HTML renders challenges to an HTML fragment. Raw HTML in challenge text
// is not passed through.
func HTML(t challenge.Type, challenges []challenge.Challenge) ([]byte, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(Markdown(t, challenges)), &buf); err != nil {
		return nil, fmt.Errorf("render history: %w", err)
	}
	return buf.Bytes(), nil
}

func writeSection(b *strings.Builder, label string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "### %s\n\n", label)
	for _, it := range items {
		fmt.Fprintf(b, "- %s\n", oneLine(it))
	}
	b.WriteString("\n")
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
