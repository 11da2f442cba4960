package challengegen

import (
	"fmt"
	"strings"

	"github.com/EthanGF7/SkillsTracker/internal/catalog"
	"github.com/EthanGF7/SkillsTracker/internal/challenge"
)

// promptContext is everything the prompts need about the target skill.
type promptContext struct {
	Kind        challenge.Kind
	Skill       string
	Level       string
	Type        challenge.Type
	Context     string   // role statement
	Description string   // custom skills only
	KeyPoints   []string // custom skills only
	Examples    []string
}

const standardShape = `{
  "title": "título breve y específico",
  "description": "descripción detallada que explique el propósito y beneficios",
  "rules": ["regla1", "regla2", "regla3"],
  "extraTip": "consejo adicional para mejorar la experiencia"
}`

const customShape = `{
  "title": "Un título conciso y motivador para el reto",
  "description": "Una descripción detallada del reto y cómo ayuda a desarrollar la habilidad",
  "objectives": ["3-4 objetivos específicos y medibles"],
  "metrics": ["2-3 formas de medir el progreso"]
}`

func cadence(t challenge.Type) (upper, plural string) {
	if t == challenge.TypeWeekly {
		return "SEMANAL", "SEMANALES"
	}
	return "DIARIO", "DIARIOS"
}

func levelLabel(level string) string {
	if d := catalog.LevelDescription(level); d != "" {
		return fmt.Sprintf("%q (%s)", level, d)
	}
	return fmt.Sprintf("%q", level)
}

// buildSystemPrompt sets the role, constraints and JSON shape.
func buildSystemPrompt(pc promptContext) string {
	upper, plural := cadence(pc.Type)
	var b strings.Builder

	b.WriteString(pc.Context)
	b.WriteString("\n\n")

	if pc.Kind == challenge.KindCustom && pc.Description != "" {
		fmt.Fprintf(&b, "Descripción de la habilidad: %s\n", pc.Description)
		if len(pc.KeyPoints) > 0 {
			b.WriteString("Puntos clave:\n")
			for _, k := range pc.KeyPoints {
				fmt.Fprintf(&b, "- %s\n", k)
			}
		}
		b.WriteString("\n")
	}

	b.WriteString("IMPORTANTE:\n")
	fmt.Fprintf(&b, "1. Genera un reto %s específico para la habilidad %q.\n", upper, pc.Skill)
	b.WriteString("2. Los retos diarios deben ser concisos y realizables en un día.\n")
	b.WriteString("3. Los retos semanales deben ser más elaborados y tener mayor impacto.\n")
	b.WriteString("4. NO repitas ejemplos similares a retos anteriores.\n")
	if pc.Level != "" {
		fmt.Fprintf(&b, "5. Adapta la complejidad al nivel %s.\n", levelLabel(pc.Level))
	}

	if len(pc.Examples) > 0 {
		fmt.Fprintf(&b, "\nEjemplos de buenos retos %s para %s:\n", plural, pc.Skill)
		for _, ex := range pc.Examples {
			fmt.Fprintf(&b, "- %s\n", ex)
		}
	}

	b.WriteString("\nResponde SOLO con un objeto JSON con esta estructura exacta:\n")
	if pc.Kind == challenge.KindCustom {
		b.WriteString(customShape)
	} else {
		b.WriteString(standardShape)
	}
	return b.String()
}

// buildUserMessage asks for one challenge of the requested cadence.
func buildUserMessage(pc promptContext) string {
	upper, _ := cadence(pc.Type)
	level := ""
	if pc.Level != "" {
		level = fmt.Sprintf(" de nivel %q", pc.Level)
	}
	scope := "El reto debe ser conciso y realizable en un día."
	if pc.Type == challenge.TypeWeekly {
		scope = "El reto debe ser más elaborado y tener un impacto significativo durante la semana."
	}
	if pc.Kind == challenge.KindCustom {
		scope += " Enfócate en resultados medibles."
	}
	return fmt.Sprintf("Genera un reto %s%s que se centre específicamente en desarrollar la habilidad de %s. %s",
		upper, level, pc.Skill, scope)
}

// customContext is the role statement for user-defined skills.
func customContext(skill string) string {
	return fmt.Sprintf("Eres un experto en desarrollo personal y profesional. Tu objetivo es crear retos personalizados que ayuden a desarrollar la habilidad %q con resultados medibles.", skill)
}

// genericExamples synthesizes examples for skills without catalog entries.
func genericExamples(skill string, t challenge.Type) []string {
	if t == challenge.TypeWeekly {
		return []string{
			fmt.Sprintf("Crea un plan de desarrollo de %s y síguelo durante la semana", skill),
			fmt.Sprintf("Aplica %s en tres contextos diferentes y pide retroalimentación", skill),
			fmt.Sprintf("Lleva un registro semanal de tus avances en %s", skill),
		}
	}
	return []string{
		fmt.Sprintf("Practica %s en al menos dos situaciones diferentes hoy", skill),
		fmt.Sprintf("Observa a alguien que domine %s y anota qué hace", skill),
		fmt.Sprintf("Reflexiona al final del día sobre cómo aplicaste %s", skill),
	}
}
