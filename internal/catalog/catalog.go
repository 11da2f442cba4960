package catalog

import (
	"sort"
	"strings"

	"github.com/EthanGF7/SkillsTracker/internal/challenge"
)

// Skill is a predefined competency with the prompt material used to
// generate challenges for it.
type Skill struct {
	// Name is the display name and identity of the skill, e.g. "Empatía".
	Name string

	// Context is the role statement placed at the top of the system prompt.
	Context string

	// Daily and Weekly hold example challenges of the matching cadence.
	Daily  []string
	Weekly []string
}

// Examples returns the example list for the given challenge type.
func (s Skill) Examples(t challenge.Type) []string {
	if t == challenge.TypeWeekly {
		return s.Weekly
	}
	return s.Daily
}

// Lookup returns the catalog entry for name. Matching is exact first, then
// case-insensitive.
func Lookup(name string) (Skill, bool) {
	if s, ok := skills[name]; ok {
		return s, true
	}
	for k, s := range skills {
		if strings.EqualFold(k, name) {
			return s, true
		}
	}
	return Skill{}, false
}

// Has reports whether name is a predefined skill.
func Has(name string) bool {
	_, ok := Lookup(name)
	return ok
}

// Names returns all predefined skill names sorted alphabetically.
func Names() []string {
	out := make([]string, 0, len(skills))
	for k := range skills {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// All returns every predefined skill sorted by name.
func All() []Skill {
	names := Names()
	out := make([]Skill, len(names))
	for i, n := range names {
		out[i] = skills[n]
	}
	return out
}

var skills = map[string]Skill{
	"Empatía": {
		Name:    "Empatía",
		Context: "Eres un experto en desarrollo de habilidades emocionales y sociales. Tu objetivo es crear retos que ayuden a desarrollar la empatía en situaciones cotidianas y profesionales.",
		Daily: []string{
			"Practica la escucha activa con tres personas diferentes hoy",
			"Observa y anota las emociones de las personas con las que interactúas",
			"Intenta ver una situación desde el punto de vista de otra persona",
		},
		Weekly: []string{
			"Mantén un diario de empatía durante una semana, documentando las emociones de otros",
			"Organiza una actividad grupal donde cada persona comparta una experiencia personal",
			"Realiza un proyecto que beneficie a un grupo diferente al tuyo",
		},
	},
	"Creatividad": {
		Name:    "Creatividad",
		Context: "Eres un experto en desarrollo del pensamiento creativo. Tu objetivo es crear retos que estimulen la innovación y el pensamiento lateral.",
		Daily: []string{
			"Encuentra cinco usos no convencionales para un objeto común",
			"Dibuja o escribe algo usando tu mano no dominante",
			"Resuelve un problema cotidiano de una manera totalmente nueva",
		},
		Weekly: []string{
			"Crea un proyecto artístico usando solo materiales reciclados",
			"Desarrolla una historia usando perspectivas de diferentes personajes",
			"Diseña una solución innovadora para un problema de tu comunidad",
		},
	},
	"Comunicación": {
		Name:    "Comunicación",
		Context: "Eres un experto en habilidades de comunicación. Tu objetivo es crear retos que mejoren la capacidad de expresar ideas y escuchar efectivamente.",
		Daily: []string{
			"Explica un concepto complejo usando solo analogías simples",
			"Practica comunicación no verbal consciente durante una conversación",
			"Da y recibe feedback constructivo en una situación específica",
		},
		Weekly: []string{
			"Prepara y da una presentación sobre un tema que te apasione",
			"Organiza un debate grupal sobre un tema controvertido",
			"Crea un podcast o video explicativo sobre un tema complejo",
		},
	},
	"Trabajo en equipo": {
		Name:    "Trabajo en equipo",
		Context: "Eres un experto en dinámicas de grupo y colaboración. Tu objetivo es crear retos que mejoren la capacidad de trabajar efectivamente con otros.",
		Daily: []string{
			"Ofrece ayuda proactivamente a tres compañeros diferentes",
			"Participa activamente en una reunión de equipo",
			"Resuelve un conflicto menor usando la comunicación efectiva",
		},
		Weekly: []string{
			"Organiza un proyecto colaborativo con roles bien definidos",
			"Implementa un sistema de feedback grupal constructivo",
			"Coordina una actividad que requiera la participación de varios equipos",
		},
	},
	"Liderazgo": {
		Name:    "Liderazgo",
		Context: "Eres un experto en desarrollo de liderazgo. Tu objetivo es crear retos que desarrollen habilidades de liderazgo efectivo y motivación de equipos.",
		Daily: []string{
			"Toma la iniciativa en una situación que requiera dirección",
			"Practica la delegación efectiva de una tarea",
			"Motiva a un compañero que enfrenta un desafío",
		},
		Weekly: []string{
			"Desarrolla un plan de mejora para tu equipo o grupo",
			"Implementa un sistema de reconocimiento y motivación",
			"Lidera un proyecto desde su concepción hasta su finalización",
		},
	},
	"Organización": {
		Name:    "Organización",
		Context: "Eres un experto en gestión del tiempo y organización. Tu objetivo es crear retos que mejoren la capacidad de planificar y estructurar actividades.",
		Daily: []string{
			"Implementa la técnica Pomodoro durante un día completo",
			"Reorganiza tu espacio de trabajo para máxima eficiencia",
			"Prioriza y completa las tres tareas más importantes del día",
		},
		Weekly: []string{
			"Crea y sigue un sistema de organización personal completo",
			"Implementa un método de gestión de proyectos para tus actividades",
			"Desarrolla un plan de productividad semanal detallado",
		},
	},
	"Adaptabilidad": {
		Name:    "Adaptabilidad",
		Context: "Eres un experto en gestión del cambio y resiliencia. Tu objetivo es crear retos que mejoren la capacidad de adaptación a nuevas situaciones.",
		Daily: []string{
			"Cambia una rutina establecida por una nueva",
			"Enfrenta una situación fuera de tu zona de confort",
			"Practica respuestas positivas ante cambios inesperados",
		},
		Weekly: []string{
			"Aprende una nueva habilidad completamente diferente",
			"Implementa cambios significativos en tu rutina semanal",
			"Desarrolla estrategias para manejar situaciones imprevistas",
		},
	},
	"Resolución de problemas": {
		Name:    "Resolución de problemas",
		Context: "Eres un experto en pensamiento crítico y resolución de problemas. Tu objetivo es crear retos que mejoren la capacidad de analizar y resolver situaciones complejas.",
		Daily: []string{
			"Resuelve un problema usando el método de los cinco porqués",
			"Aplica el pensamiento lateral a un desafío cotidiano",
			"Analiza un problema desde tres perspectivas diferentes",
		},
		Weekly: []string{
			"Desarrolla un proyecto usando metodología de design thinking",
			"Crea un sistema para resolver problemas recurrentes",
			"Implementa soluciones innovadoras para desafíos complejos",
		},
	},
	"Gestión del tiempo": {
		Name:    "Gestión del tiempo",
		Context: "Eres un experto en productividad y administración del tiempo. Tu objetivo es crear retos que mejoren la eficiencia y planificación personal.",
		Daily: []string{
			"Aplica la matriz de Eisenhower a tus tareas diarias",
			"Elimina tres actividades que desperdicien tiempo",
			"Implementa bloques de tiempo enfocado",
		},
		Weekly: []string{
			"Crea un sistema de seguimiento del tiempo detallado",
			"Desarrolla un plan de productividad personalizado",
			"Optimiza tu rutina semanal para máxima eficiencia",
		},
	},
}
