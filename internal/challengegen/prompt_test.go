package challengegen

import (
	"strings"
	"testing"

	"github.com/EthanGF7/SkillsTracker/internal/challenge"
)

func TestBuildSystemPrompt_Standard(t *testing.T) {
	pc := promptContext{
		Kind:     challenge.KindStandard,
		Skill:    "Creatividad",
		Level:    "Aprendiz",
		Type:     challenge.TypeWeekly,
		Context:  "Eres un experto en creatividad.",
		Examples: []string{"Diseña un objeto con materiales reciclados"},
	}
	got := buildSystemPrompt(pc)

	for _, want := range []string{
		"Eres un experto en creatividad.",
		`reto SEMANAL específico para la habilidad "Creatividad"`,
		"principiante",
		"Ejemplos de buenos retos SEMANALES para Creatividad",
		"- Diseña un objeto con materiales reciclados",
		`"extraTip"`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("system prompt missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, `"objectives"`) {
		t.Error("standard prompt should not ask for objectives")
	}
}

func TestBuildSystemPrompt_CustomWithoutLevel(t *testing.T) {
	pc := promptContext{
		Kind:        challenge.KindCustom,
		Skill:       "Asertividad",
		Type:        challenge.TypeDaily,
		Context:     customContext("Asertividad"),
		Description: "Expresar opiniones con respeto",
		KeyPoints:   []string{"Contacto visual"},
	}
	got := buildSystemPrompt(pc)

	if !strings.Contains(got, "Puntos clave:\n- Contacto visual") {
		t.Errorf("key points missing:\n%s", got)
	}
	if strings.Contains(got, "Adapta la complejidad") {
		t.Error("no level line expected without a level")
	}
	if !strings.Contains(got, `"metrics"`) {
		t.Error("custom prompt should ask for metrics")
	}
}

func TestBuildUserMessage(t *testing.T) {
	got := buildUserMessage(promptContext{Kind: challenge.KindStandard, Skill: "Empatía", Level: "Aprendiz", Type: challenge.TypeDaily})
	if !strings.Contains(got, `reto DIARIO de nivel "Aprendiz"`) || !strings.Contains(got, "realizable en un día") {
		t.Errorf("unexpected user message: %s", got)
	}

	got = buildUserMessage(promptContext{Kind: challenge.KindCustom, Skill: "Asertividad", Type: challenge.TypeWeekly})
	if !strings.Contains(got, "durante la semana") || !strings.Contains(got, "resultados medibles") {
		t.Errorf("unexpected user message: %s", got)
	}
}

func TestGenericExamples(t *testing.T) {
	if n := len(genericExamples("Orden", challenge.TypeDaily)); n != 3 {
		t.Fatalf("expected 3 daily examples, got %d", n)
	}
	weekly := genericExamples("Orden", challenge.TypeWeekly)
	if !strings.Contains(weekly[0], "Orden") {
		t.Errorf("examples should mention the skill: %v", weekly)
	}
}
