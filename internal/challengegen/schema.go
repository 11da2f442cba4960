package challengegen

import "github.com/EthanGF7/SkillsTracker/internal/llm"

func nonEmptyStrings(desc string) map[string]any {
	return map[string]any{
		"type":        "array",
		"items":       map[string]any{"type": "string", "minLength": 1},
		"minItems":    1,
		"description": desc,
	}
}

func text(desc string) map[string]any {
	return map[string]any{"type": "string", "minLength": 1, "description": desc}
}

// StandardSchema is the JSON contract for challenges on catalog skills.
var StandardSchema = &llm.Schema{
	Name:        "standard-challenge",
	Description: "A soft-skills practice challenge with rules and an extra tip",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"title":       text("Título breve y específico"),
			"description": text("Descripción detallada del propósito y beneficios"),
			"rules":       nonEmptyStrings("Reglas concretas para completar el reto"),
			"extraTip":    text("Consejo adicional para mejorar la experiencia"),
		},
		"required":             []any{"title", "description", "rules", "extraTip"},
		"additionalProperties": false,
	},
}

// CustomSchema is the JSON contract for challenges on user-defined skills.
var CustomSchema = &llm.Schema{
	Name:        "custom-challenge",
	Description: "A challenge for a user-defined skill with measurable objectives",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"title":       text("Título conciso y motivador"),
			"description": text("Cómo el reto ayuda a desarrollar la habilidad"),
			"objectives":  nonEmptyStrings("3-4 objetivos específicos y medibles"),
			"metrics":     nonEmptyStrings("2-3 formas de medir el progreso"),
		},
		"required":             []any{"title", "description", "objectives", "metrics"},
		"additionalProperties": false,
	},
}
