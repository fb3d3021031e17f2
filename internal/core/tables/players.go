package tables

import "github.com/JonMunkholm/pimpoyo/internal/core"

func init() {
	registerUsers()
	registerSessions()
	registerStatsUserDetails()
}

func registerUsers() {
	core.Register(core.TableDefinition{
		Info: core.TableInfo{
			Key:   "users",
			Group: "Players",
			Label: "Users",
			Columns: []string{
				"id", "nickname", "hashed_password", "avatar_url", "edad", "genero",
				"curso_escolar", "consentimiento_obtenido", "xp_actual", "created_at",
			},
		},
		SortKey: "id",
	})
}

func registerSessions() {
	core.Register(core.TableDefinition{
		Info: core.TableInfo{
			Key:   "sessions",
			Group: "Players",
			Label: "Game Sessions",
			Columns: []string{
				"id", "user_id", "inicio_ts", "fin_ts", "duracion_seg",
				"interacciones_totales", "aciertos_totales", "fallos_totales",
				"precision_global", "puntuacion_final",
				"tasa_falsos_negativos", "tasa_falsos_positivos",
			},
		},
		SortKey: "id",
	})
}

func registerStatsUserDetails() {
	core.Register(core.TableDefinition{
		Info: core.TableInfo{
			Key:   "stats_user_details",
			Group: "Players",
			Label: "Per-criterion Stats",
			Columns: []string{
				"id", "session_id", "tipo_criterio", "valor_criterio",
				"numero_intentos", "numero_aciertos", "tasa_acierto", "updated_at",
			},
		},
	})
}
