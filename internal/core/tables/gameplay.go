package tables

import "github.com/JonMunkholm/pimpoyo/internal/core"

func init() {
	registerInteractions()
	registerNews()
	registerIndicators()
}

func registerInteractions() {
	core.Register(core.TableDefinition{
		Info: core.TableInfo{
			Key:   "interactions",
			Group: "Gameplay",
			Label: "Interactions",
			Columns: []string{
				"id", "session_id", "noticia_id", "respuesta_usuario", "es_correcto",
				"tiempo_respuesta_ms", "puntos_otorgados", "tipo_error", "feedback",
				"secuencia", "tipo_interaccion", "criterios_evaluacion", "key_elements",
				"justification_hints", "likely_misconceptions", "indicadores_detectados",
				"created_at",
			},
		},
	})
}

func registerNews() {
	core.Register(core.TableDefinition{
		Info: core.TableInfo{
			Key:     "news",
			Group:   "Gameplay",
			Label:   "News Items",
			Columns: []string{"id", "external_id", "fuente", "tema", "dificultad", "metadata"},
		},
	})
}

func registerIndicators() {
	core.Register(core.TableDefinition{
		Info: core.TableInfo{
			Key:     "indicators",
			Group:   "Gameplay",
			Label:   "Indicators",
			Columns: []string{"id", "name"},
		},
	})
}
