package catalog

// levelDescriptions explains each known self-assessment label to the model.
var levelDescriptions = map[string]string{
	"Aprendiz":    "principiante que está comenzando a desarrollar esta habilidad",
	"Explorador":  "persona con conocimientos básicos que busca expandir su comprensión",
	"Practicante": "persona que aplica la habilidad con regularidad y busca consolidarla",
	"Maestro":     "individuo con experiencia sólida buscando perfeccionar su habilidad",
	"Experto":     "individuo con experiencia sólida buscando perfeccionar su habilidad",
	"Leyenda":     "experto que busca alcanzar la excelencia y ayudar a otros",
}

// Levels returns the known level labels from least to most proficient.
func Levels() []string {
	return []string{"Aprendiz", "Explorador", "Practicante", "Maestro", "Experto", "Leyenda"}
}

// LevelDescription returns a short description of a level label. Levels are
// free-form, so unknown labels return "".
func LevelDescription(level string) string {
	return levelDescriptions[level]
}
