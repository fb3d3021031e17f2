package core_test

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/JonMunkholm/pimpoyo/internal/core"
	_ "github.com/JonMunkholm/pimpoyo/internal/core/tables"
)

// ============================================================================
// Coercion Benchmarks
// ============================================================================

// BenchmarkToInteger covers the id and counter columns, the most common rule.
func BenchmarkToInteger(b *testing.B) {
	testCases := []string{
		"42",
		"-7",
		"  15",
		"42abc",
		"abc",
		"99999999999999999999", // overflow
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for _, tc := range testCases {
			core.ToInteger(tc)
		}
	}
}

// BenchmarkToFloat covers the session rate columns.
func BenchmarkToFloat(b *testing.B) {
	testCases := []string{
		"0.75",
		"1e-3",
		".5",
		"-Infinity",
		"NaN",
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for _, tc := range testCases {
			core.ToFloat(tc)
		}
	}
}

// BenchmarkToStructured measures JSON decoding of survey answer columns.
func BenchmarkToStructured(b *testing.B) {
	b.Run("Array", func(b *testing.B) {
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			core.ToStructured(`["instagram","tiktok","whatsapp"]`)
		}
	})

	b.Run("Object", func(b *testing.B) {
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			core.ToStructured(`{"fuente":true,"fecha":false,"autor":{"nombre":"x"}}`)
		}
	})

	b.Run("Fallback", func(b *testing.B) {
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			core.ToStructured(`{not json`)
		}
	})
}

// BenchmarkCoerceParallel checks the rule table is safe and cheap under
// concurrent parses.
func BenchmarkCoerceParallel(b *testing.B) {
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			core.Coerce("puntuacion_final", "87.5")
			core.Coerce("curso_escolar", "3ÂºB")
		}
	})
}

// ============================================================================
// Scanner Benchmarks
// ============================================================================

// BenchmarkScannerFeed measures per-line classification inside a block.
func BenchmarkScannerFeed(b *testing.B) {
	line := "12\t3\t45\tfalso\tf\t1830\t0\tfuente\t\\N\t4\tclasificacion\t[]\t[]\t[]\t[]\t[]\t2024-03-01 10:00:00"

	sc := core.NewScanner(core.ScannerOptions{})
	sc.Feed("COPY pimpoyo.interactions (id) FROM stdin;")

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		sc.Feed(line)
	}
}

// ============================================================================
// Whole-dump Benchmarks
// ============================================================================

// BenchmarkParse parses a generated dump with every coercion path.
func BenchmarkParse(b *testing.B) {
	for _, rows := range []int{100, 10000} {
		dump := generateTestDump(rows)
		b.Run(fmt.Sprintf("rows=%d", rows), func(b *testing.B) {
			b.SetBytes(int64(len(dump)))
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				core.Parse(dump)
			}
		})
	}
}

// BenchmarkParseReader adds the normalizing reader chain to BenchmarkParse.
func BenchmarkParseReader(b *testing.B) {
	dump := []byte(generateTestDump(10000))
	ctx := context.Background()

	b.SetBytes(int64(len(dump)))
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, _, err := core.ParseReader(ctx, bytes.NewReader(dump), core.Options{}); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkUTF8Sanitizer_Mixed streams a dump with accented text and
// invalid bytes through the sanitizer.
func BenchmarkUTF8Sanitizer_Mixed(b *testing.B) {
	data := bytes.Repeat([]byte("1\tBogotá\t3ºB\t\xff\xfe\tcanción\n"), 2000)

	b.SetBytes(int64(len(data)))
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = io.Copy(io.Discard, core.NewStreamingUTF8Sanitizer(bytes.NewReader(data)))
	}
}

// ============================================================================
// Helper Functions
// ============================================================================

// generateTestDump builds a dump with users, sessions and interactions.
// Users are written in descending id order so Finalize has sorting to do.
func generateTestDump(rows int) string {
	var b strings.Builder
	b.WriteString("SET statement_timeout = 0;\n")

	b.WriteString("COPY pimpoyo.users (id, nickname, hashed_password, avatar_url, edad, genero, curso_escolar, consentimiento_obtenido, xp_actual, created_at) FROM stdin;\n")
	for i := rows; i > 0; i-- {
		fmt.Fprintf(&b, "%d\tuser%d\thash\t\\N\t%d\tF\t%dÂºA\tt\t%d\t2024-01-01 00:00:00\n", i, i, 12+i%5, 1+i%4, i*10)
	}
	b.WriteString("\\.\n")

	b.WriteString("COPY pimpoyo.sessions (id, user_id, inicio_ts, fin_ts, duracion_seg, interacciones_totales, aciertos_totales, fallos_totales, precision_global, puntuacion_final, tasa_falsos_negativos, tasa_falsos_positivos) FROM stdin;\n")
	for i := 1; i <= rows; i++ {
		fmt.Fprintf(&b, "%d\t%d\t2024-01-01\t2024-01-01\t300\t10\t7\t3\t0.7\t70.5\t0.1\t0.2\n", i, i)
	}
	b.WriteString("\\.\n")

	b.WriteString("COPY pimpoyo.interactions (id, session_id, noticia_id, respuesta_usuario, es_correcto, tiempo_respuesta_ms, puntos_otorgados, tipo_error, feedback, secuencia, tipo_interaccion, criterios_evaluacion, key_elements, justification_hints, likely_misconceptions, indicadores_detectados, created_at) FROM stdin;\n")
	for i := 1; i <= rows; i++ {
		fmt.Fprintf(&b, "%d\t%d\t%d\tfalso\tt\t1500\t10\t\\N\tbien\t%d\tclasificacion\t{\"fuente\":true}\t[\"a\",\"b\"]\t[]\t[]\t[\"fecha\"]\t2024-01-01\n", i, i, i%50, i%10)
	}
	b.WriteString("\\.\n")

	return b.String()
}
