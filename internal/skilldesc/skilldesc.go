// Package skilldesc generates descriptions for user-defined skills.
package skilldesc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/EthanGF7/SkillsTracker/internal/llm"
)

// ErrEmptyName is returned when Describe is called without a skill name.
var ErrEmptyName = errors.New("skill name is required")

// Description is the generated profile of a skill.
type Description struct {
	Description string   `json:"description"`
	KeyPoints   []string `json:"keyPoints"`
	Examples    []string `json:"examples"`
	Fallback    bool     `json:"fallback,omitempty"`
}

// Config holds describer settings.
type Config struct {
	MaxTokens   int
	Temperature float64
	Retry       llm.RetryConfig
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   1000,
		Temperature: 0.7,
		Retry: llm.RetryConfig{
			MaxAttempts: 3,
			InitialWait: time.Second,
			MaxWait:     8 * time.Second,
			Multiplier:  2,
		},
	}
}

// Service asks the LLM to describe skills and falls back to static text
// when it cannot.
type Service struct {
	provider llm.Provider
	cfg      Config
}

// New creates a Service. The provider is wrapped with retry on transient
// errors.
func New(provider llm.Provider, cfg Config) *Service {
	return &Service{provider: llm.WithRetry(provider, cfg.Retry), cfg: cfg}
}

// Schema is the JSON contract for skill descriptions.
var Schema = &llm.Schema{
	Name:        "skill-description",
	Description: "A description of a personal skill with key points and practical examples",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"description": map[string]any{"type": "string", "minLength": 1},
			"keyPoints": map[string]any{
				"type":     "array",
				"items":    map[string]any{"type": "string", "minLength": 1},
				"minItems": 1,
			},
			"examples": map[string]any{
				"type":     "array",
				"items":    map[string]any{"type": "string", "minLength": 1},
				"minItems": 1,
			},
		},
		"required":             []any{"description", "keyPoints", "examples"},
		"additionalProperties": false,
	},
}

const systemPrompt = `Eres un experto en desarrollo personal y profesional. Describes habilidades de forma motivadora, práctica y enfocada en el crecimiento.

Responde SOLO con un objeto JSON con esta estructura:
{
  "description": "Una descripción detallada de la habilidad y su importancia",
  "keyPoints": ["4-5 puntos clave sobre cómo desarrollar esta habilidad"],
  "examples": ["3-4 ejemplos prácticos de cómo aplicar esta habilidad"]
}`

// Describe returns a description of skillName. LLM failures never surface:
// the static fallback is returned instead, flagged with Fallback. Only
// invalid input and context cancellation are errors.
func (s *Service) Describe(ctx context.Context, skillName string) (*Description, error) {
	name := strings.TrimSpace(skillName)
	if name == "" {
		return nil, ErrEmptyName
	}

	ctx = llm.WithPurpose(ctx, llm.PurposeSkillDescription)
	req := llm.Request{
		System: systemPrompt,
		Messages: []llm.Message{{
			Role:    llm.RoleUser,
			Content: fmt.Sprintf("Genera una descripción detallada y profesional para la habilidad %q.", name),
		}},
		Schema:      Schema,
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	}

	resp, err := s.provider.Generate(ctx, req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		fmt.Fprintf(os.Stderr, "warning: describing skill %q: %v\n", name, err)
		return Fallback(name), nil
	}

	var d Description
	if err := json.Unmarshal(resp.Content, &d); err != nil || d.Description == "" {
		fmt.Fprintf(os.Stderr, "warning: describing skill %q: unusable response\n", name)
		return Fallback(name), nil
	}
	d.Fallback = false
	return &d, nil
}

// Fallback returns the static description used when the LLM is unavailable.
func Fallback(skillName string) *Description {
	name := strings.ToLower(strings.TrimSpace(skillName))

	if name == "asertividad" {
		return &Description{
			Description: "La asertividad es una habilidad fundamental que permite expresar pensamientos, sentimientos y necesidades de manera clara, directa y respetuosa, manteniendo un equilibrio entre los derechos propios y los de los demás. Esta competencia es esencial para establecer relaciones interpersonales saludables y alcanzar objetivos personales y profesionales.",
			KeyPoints: []string{
				"Expresar opiniones y necesidades de manera clara y respetuosa",
				"Establecer límites saludables en las relaciones",
				"Mantener el equilibrio entre la empatía y la firmeza",
				"Desarrollar la autoconfianza en la comunicación",
			},
			Examples: []string{
				"Practicar la comunicación asertiva en situaciones cotidianas",
				"Expresar desacuerdos de manera constructiva",
				"Defender puntos de vista respetando otras opiniones",
			},
			Fallback: true,
		}
	}

	return &Description{
		Description: fmt.Sprintf("%s es una habilidad esencial que potencia el desarrollo personal y profesional. Esta competencia permite mejorar el desempeño en diversos contextos, facilitando el logro de objetivos y el crecimiento continuo a través de la práctica y el aprendizaje constante.", name),
		KeyPoints: []string{
			fmt.Sprintf("Desarrollar un plan estructurado para mejorar en %s", name),
			fmt.Sprintf("Practicar %s en diferentes situaciones y contextos", name),
			"Buscar retroalimentación y oportunidades de mejora",
			fmt.Sprintf("Establecer metas específicas relacionadas con %s", name),
		},
		Examples: []string{
			fmt.Sprintf("Aplicar %s en situaciones cotidianas y profesionales", name),
			fmt.Sprintf("Crear proyectos específicos para desarrollar %s", name),
			fmt.Sprintf("Compartir experiencias y aprendizajes sobre %s", name),
		},
		Fallback: true,
	}
}
