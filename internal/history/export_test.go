package history

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EthanGF7/SkillsTracker/internal/challenge"
)

func TestMarkdown(t *testing.T) {
	std := mkChallenge("Escucha activa", 0)
	std.Description = "Escucha sin interrumpir."
	std.Level = "Aprendiz"
	custom := challenge.Challenge{
		Kind:       challenge.KindCustom,
		Title:      "Pide\nayuda",
		SkillName:  "Asertividad",
		Type:       challenge.TypeDaily,
		Objectives: []string{"Pedir algo"},
		Metrics:    []string{"Peticiones"},
		CreatedAt:  time.Date(2026, 5, 30, 0, 0, 0, 0, time.UTC),
	}

	md := Markdown(challenge.TypeDaily, []challenge.Challenge{std, custom})

	assert.True(t, strings.HasPrefix(md, "# Historial de retos (daily)\n"))
	assert.Contains(t, md, "## Escucha activa\n")
	assert.Contains(t, md, "**Empatía** · Aprendiz · 2026-06-01")
	assert.Contains(t, md, "### Reglas\n\n- r\n")
	assert.Contains(t, md, "> tip")
	assert.Contains(t, md, "## Pide ayuda\n")
	assert.Contains(t, md, "### Objetivos\n\n- Pedir algo\n")
	assert.Contains(t, md, "### Métricas\n\n- Peticiones\n")
	assert.Less(t, strings.Index(md, "Escucha activa"), strings.Index(md, "Pide ayuda"))
}

func TestMarkdown_Empty(t *testing.T) {
	md := Markdown(challenge.TypeWeekly, nil)
	assert.Contains(t, md, "Sin retos registrados")
}

func TestHTML_EscapesRawHTML(t *testing.T) {
	c := mkChallenge("<script>alert(1)</script>", 0)
	out, err := HTML(challenge.TypeDaily, []challenge.Challenge{c})
	require.NoError(t, err)

	html := string(out)
	assert.Contains(t, html, "<h1>Historial de retos (daily)</h1>")
	assert.Contains(t, html, "<h3>Reglas</h3>")
	assert.NotContains(t, html, "<script>")
}
