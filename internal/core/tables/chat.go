package tables

import "github.com/JonMunkholm/pimpoyo/internal/core"

func init() {
	registerChatMessages()
	registerChatSessionsNews()
}

func registerChatMessages() {
	core.Register(core.TableDefinition{
		Info: core.TableInfo{
			Key:   "chat_messages",
			Group: "Chat",
			Label: "Chat Messages",
			Columns: []string{
				"id", "chat_session_id", "emisor", "contenido", "timestamp_mensaje", "orden",
			},
		},
	})
}

func registerChatSessionsNews() {
	core.Register(core.TableDefinition{
		Info: core.TableInfo{
			Key:   "chat_sessions_news",
			Group: "Chat",
			Label: "Chat Sessions",
			Columns: []string{
				"id", "session_id", "noticia_external_id", "fecha_inicio", "fecha_fin",
				"evaluacion_inicial_usuario", "explicacion_inicial_usuario",
				"noticia_verdad_real", "evaluacion_inicial_correcta",
				"mejora_comprension_evaluacion", "mejora_comprension_justificacion",
				"created_at",
			},
		},
	})
}
