package challengegen

import (
	"fmt"

	"github.com/EthanGF7/SkillsTracker/internal/challenge"
)

// fallbackChallenge returns static content used when the model cannot be
// reached. The caller assigns ID and timestamps.
func fallbackChallenge(pc promptContext) challenge.Challenge {
	c := challenge.Challenge{
		Kind:   pc.Kind,
		Type:   pc.Type,
		Level:  pc.Level,
		Source: challenge.SourceFallback,
	}

	if pc.Kind == challenge.KindStandard {
		c.Skill = pc.Skill
		c.Title = "Reto de Práctica Básica"
		c.Description = "Debido a un error técnico, te proponemos un reto básico para practicar."
		c.Rules = []string{
			"Identifica una situación donde puedas aplicar esta habilidad",
			"Practica la habilidad durante 15 minutos",
			"Reflexiona sobre tu desempeño",
		}
		c.ExtraTip = "Mantén un registro de tu progreso para ver tu mejora con el tiempo."
		return c
	}

	c.SkillName = pc.Skill
	if pc.Type == challenge.TypeWeekly {
		c.Title = fmt.Sprintf("Proyecto semanal de %s", pc.Skill)
		c.Description = fmt.Sprintf("Un reto semanal diseñado para desarrollar tu %s de manera estructurada y progresiva.", pc.Skill)
		c.Objectives = []string{
			fmt.Sprintf("Crear un plan de desarrollo para %s", pc.Skill),
			"Implementar la habilidad en diferentes contextos",
			"Obtener retroalimentación de otros",
			"Evaluar el progreso y ajustar estrategias",
		}
		c.Metrics = []string{
			"Cumplimiento de objetivos semanales",
			"Feedback recibido de otros participantes",
			"Registro de mejoras observadas",
		}
		return c
	}

	c.Title = fmt.Sprintf("Desarrollo diario de %s", pc.Skill)
	c.Description = fmt.Sprintf("Un reto diario para mejorar tu %s a través de actividades prácticas y medibles.", pc.Skill)
	c.Objectives = []string{
		fmt.Sprintf("Practicar %s en al menos 2 situaciones diferentes", pc.Skill),
		"Documentar tus experiencias y aprendizajes",
		"Identificar áreas de mejora específicas",
	}
	c.Metrics = []string{
		"Número de situaciones donde se practicó la habilidad",
		"Autoevaluación de efectividad (escala 1-5)",
	}
	return c
}
