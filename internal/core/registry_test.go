package core_test

import (
	"reflect"
	"testing"

	"github.com/JonMunkholm/pimpoyo/internal/core"
	_ "github.com/JonMunkholm/pimpoyo/internal/core/tables"
)

var documentedSchemas = map[string][]string{
	"users": {
		"id", "nickname", "hashed_password", "avatar_url", "edad", "genero",
		"curso_escolar", "consentimiento_obtenido", "xp_actual", "created_at",
	},
	"sessions": {
		"id", "user_id", "inicio_ts", "fin_ts", "duracion_seg", "interacciones_totales",
		"aciertos_totales", "fallos_totales", "precision_global", "puntuacion_final",
		"tasa_falsos_negativos", "tasa_falsos_positivos",
	},
	"interactions": {
		"id", "session_id", "noticia_id", "respuesta_usuario", "es_correcto",
		"tiempo_respuesta_ms", "puntos_otorgados", "tipo_error", "feedback", "secuencia",
		"tipo_interaccion", "criterios_evaluacion", "key_elements", "justification_hints",
		"likely_misconceptions", "indicadores_detectados", "created_at",
	},
	"news": {"id", "external_id", "fuente", "tema", "dificultad", "metadata"},
	"stats_user_details": {
		"id", "session_id", "tipo_criterio", "valor_criterio", "numero_intentos",
		"numero_aciertos", "tasa_acierto", "updated_at",
	},
	"indicators":    {"id", "name"},
	"chat_messages": {"id", "chat_session_id", "emisor", "contenido", "timestamp_mensaje", "orden"},
	"chat_sessions_news": {
		"id", "session_id", "noticia_external_id", "fecha_inicio", "fecha_fin",
		"evaluacion_inicial_usuario", "explicacion_inicial_usuario", "noticia_verdad_real",
		"evaluacion_inicial_correcta", "mejora_comprension_evaluacion",
		"mejora_comprension_justificacion", "created_at",
	},
	"pretest_results": {
		"session_id", "s1_p1_horas_internet", "s1_p2_plataformas", "s1_p3_habilidad_tech",
		"s1_p4_charla_peligros", "s2_p5_habilidad_vf", "s2_p6_dificultad_vf", "s2_p7_estrategias",
		"s2_p8_fuentes_confianza", "s2_p9_sospecha_falsa", "s2_p10_probabilidad_verdad",
		"s3_p11_vf_apagon", "s3_p11_expl_apagon", "s1_perfil_puntos", "s2_estrategias_puntos",
		"s3_practica_puntos", "puntuacion_total",
	},
	"posttest_results": {
		"session_id", "s1_p1_habilidad_vf", "s1_p2_dificultad_vf", "s1_p3_estrategias",
		"s1_p4_fuentes", "s1_p5_sospecha_falsa", "s1_p6_probabilidad_verdad",
		"s2_p7_aprendizaje_abierta", "s2_p8_cambio_forma_ver", "s2_p9_aprendizaje_escala",
		"s3_p10_vf_sangre_artificial", "s3_p11_vf_apagon", "s3_p11_expl_apagon",
		"s4_p12_facilidad_uso", "s4_p13_utilidad_pistas", "s4_p14_que_gusto",
		"s4_p15_que_no_gusto", "s4_p16_personaje_pimpoyo", "s4_p17_utilidad_futura",
		"s4_p18_frecuencia_aplicacion", "s1_estrategias_puntos", "s2_aprendizaje_puntos",
		"s3_practica_puntos", "s4_ux_puntos", "puntuacion_total",
	},
}

func TestColumnsFor_DocumentedSchemas(t *testing.T) {
	if got := core.TableCount(); got != len(documentedSchemas) {
		t.Errorf("TableCount = %d, want %d", got, len(documentedSchemas))
	}

	for table, want := range documentedSchemas {
		t.Run(table, func(t *testing.T) {
			got := core.ColumnsFor(table)
			if len(got) == 0 {
				t.Fatal("empty column list")
			}
			if !reflect.DeepEqual(got, want) {
				t.Errorf("ColumnsFor(%q) =\n%q\nwant\n%q", table, got, want)
			}
		})
	}
}

func TestColumnsFor_UnknownTable(t *testing.T) {
	got := core.ColumnsFor("unknown_tbl")
	if got == nil || len(got) != 0 {
		t.Errorf("ColumnsFor(unknown) = %#v, want empty non-nil list", got)
	}
}

func TestColumnsFor_ReturnsCopy(t *testing.T) {
	cols := core.ColumnsFor("indicators")
	cols[0] = "mutated"
	if core.ColumnsFor("indicators")[0] != "id" {
		t.Error("ColumnsFor leaked the registry slice")
	}
}

func TestRegistry_FieldSpecsFollowColumnRules(t *testing.T) {
	def, ok := core.Get("users")
	if !ok {
		t.Fatal("users not registered")
	}
	if def.SortKey != "id" {
		t.Errorf("users SortKey = %q, want id", def.SortKey)
	}
	for _, spec := range def.FieldSpecs {
		if spec.Type != core.ColumnType(spec.Name) {
			t.Errorf("%s: spec type %v, rule type %v", spec.Name, spec.Type, core.ColumnType(spec.Name))
		}
	}
}

func TestRegistry_Groups(t *testing.T) {
	want := []string{"Chat", "Gameplay", "Players", "Surveys"}
	if got := core.Groups(); !reflect.DeepEqual(got, want) {
		t.Errorf("Groups = %v, want %v", got, want)
	}
	if got := len(core.ByGroup("Players")); got != 3 {
		t.Errorf("Players tables = %d, want 3", got)
	}
}

func TestRegistry_SortKeys(t *testing.T) {
	for _, def := range core.All() {
		wantSorted := def.Info.Key == "users" || def.Info.Key == "sessions"
		if (def.SortKey != "") != wantSorted {
			t.Errorf("%s SortKey = %q", def.Info.Key, def.SortKey)
		}
	}
}
