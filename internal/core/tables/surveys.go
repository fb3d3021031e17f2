package tables

import "github.com/JonMunkholm/pimpoyo/internal/core"

func init() {
	registerPretestResults()
	registerPosttestResults()
}

func registerPretestResults() {
	core.Register(core.TableDefinition{
		Info: core.TableInfo{
			Key:   "pretest_results",
			Group: "Surveys",
			Label: "Pre-test",
			Columns: []string{
				"session_id",
				"s1_p1_horas_internet", "s1_p2_plataformas", "s1_p3_habilidad_tech", "s1_p4_charla_peligros",
				"s2_p5_habilidad_vf", "s2_p6_dificultad_vf", "s2_p7_estrategias",
				"s2_p8_fuentes_confianza", "s2_p9_sospecha_falsa", "s2_p10_probabilidad_verdad",
				"s3_p11_vf_apagon", "s3_p11_expl_apagon",
				"s1_perfil_puntos", "s2_estrategias_puntos", "s3_practica_puntos", "puntuacion_total",
			},
		},
	})
}

func registerPosttestResults() {
	core.Register(core.TableDefinition{
		Info: core.TableInfo{
			Key:   "posttest_results",
			Group: "Surveys",
			Label: "Post-test",
			Columns: []string{
				"session_id",
				"s1_p1_habilidad_vf", "s1_p2_dificultad_vf", "s1_p3_estrategias", "s1_p4_fuentes",
				"s1_p5_sospecha_falsa", "s1_p6_probabilidad_verdad",
				"s2_p7_aprendizaje_abierta", "s2_p8_cambio_forma_ver", "s2_p9_aprendizaje_escala",
				"s3_p10_vf_sangre_artificial", "s3_p11_vf_apagon", "s3_p11_expl_apagon",
				"s4_p12_facilidad_uso", "s4_p13_utilidad_pistas", "s4_p14_que_gusto",
				"s4_p15_que_no_gusto", "s4_p16_personaje_pimpoyo", "s4_p17_utilidad_futura",
				"s4_p18_frecuencia_aplicacion",
				"s1_estrategias_puntos", "s2_aprendizaje_puntos", "s3_practica_puntos", "s4_ux_puntos",
				"puntuacion_total",
			},
		},
	})
}
