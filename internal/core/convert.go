package core

// convert.go coerces raw COPY tokens into typed Values.
//
// Coercion is keyed by column name, not by declared database type: the dump
// carries no type information, so the column rule table below is the single
// source of truth. Rules are evaluated in a fixed priority order:
//
//  1. NULL sentinel (\N) for every column
//  2. Integer allow-list
//  3. Float allow-list
//  4. Boolean allow-list
//  5. JSON allow-list (falls back to the raw string)
//  6. Encoding fix for curso_escolar
//  7. Everything else passes through as a string
//
// Nothing here returns an error. Unparseable numbers become the NaN marker.

import (
	"errors"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// NullSentinel is the token COPY text format uses for SQL NULL.
const NullSentinel = `\N`

// mojibakeOrdinal is the UTF-8 rendering of "º" decoded as Latin-1 and re-encoded.
const mojibakeOrdinal = "Âº"

// Leading numeric prefixes. Trailing junk after the prefix is ignored.
var (
	intPrefixRegex   = regexp.MustCompile(`^[+-]?\d+`)
	floatPrefixRegex = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?`)
	jsonNumberRegex  = regexp.MustCompile(`^-?(0|[1-9]\d*)(\.\d+)?([eE][+-]?\d+)?$`)
)

// columnTypes is the declarative per-column rule table.
// Columns not listed here are FieldText.
var columnTypes = buildColumnTypes(map[FieldType][]string{
	FieldInteger: {
		"id", "user_id", "session_id", "noticia_id", "chat_session_id",
		"duracion_seg", "interacciones_totales", "aciertos_totales", "fallos_totales",
		"puntos_otorgados", "secuencia", "numero_intentos", "numero_aciertos",
		"edad", "xp_actual", "tiempo_respuesta_ms",
		"s1_perfil_puntos", "s2_estrategias_puntos", "s3_practica_puntos", "puntuacion_total",
		"s1_estrategias_puntos", "s2_aprendizaje_puntos", "s4_ux_puntos",
	},
	FieldFloat: {
		"precision_global", "puntuacion_final", "tasa_falsos_negativos",
		"tasa_falsos_positivos", "tasa_acierto",
	},
	FieldBool: {
		"es_correcto", "consentimiento_obtenido", "evaluacion_inicial_correcta",
	},
	FieldJSON: {
		"criterios_evaluacion", "key_elements", "justification_hints",
		"likely_misconceptions", "indicadores_detectados", "metadata",
		"s1_p2_plataformas", "s2_p7_estrategias", "s2_p8_fuentes_confianza", "s2_p9_sospecha_falsa",
		"s1_p3_estrategias", "s1_p4_fuentes", "s1_p5_sospecha_falsa",
		"s2_p10_probabilidad_verdad", "s1_p6_probabilidad_verdad",
	},
	FieldEncodingFix: {
		"curso_escolar",
	},
})

// buildColumnTypes flattens the allow-lists into a lookup table.
// Panics if a column appears in more than one list.
func buildColumnTypes(lists map[FieldType][]string) map[string]FieldType {
	out := make(map[string]FieldType)
	for typ, cols := range lists {
		for _, col := range cols {
			if prev, dup := out[col]; dup {
				panic("column " + col + " listed as both " + prev.String() + " and " + typ.String())
			}
			out[col] = typ
		}
	}
	return out
}

// ColumnType returns the coercion rule for a column name.
func ColumnType(column string) FieldType {
	if t, ok := columnTypes[column]; ok {
		return t
	}
	return FieldText
}

// Coerce converts a raw token into a Value according to the column's rule.
func Coerce(column, raw string) Value {
	if raw == NullSentinel {
		return Null()
	}

	switch ColumnType(column) {
	case FieldInteger:
		return ToInteger(raw)
	case FieldFloat:
		return ToFloat(raw)
	case FieldBool:
		return ToBoolean(raw)
	case FieldJSON:
		return ToStructured(raw)
	case FieldEncodingFix:
		return String(FixEncoding(raw))
	default:
		return String(raw)
	}
}

// CoerceMissing is the value of a schema column with no token on the line.
func CoerceMissing() Value {
	return Null()
}

// ToInteger parses the leading base-10 integer of s.
// Leading whitespace is skipped and trailing characters are ignored,
// so "42abc" is 42. Returns the NaN marker when no digits are found
// or the number overflows int64.
func ToInteger(s string) Value {
	m := intPrefixRegex.FindString(strings.TrimLeft(s, " \t\n\r\v\f"))
	if m == "" {
		return NaN()
	}
	i, err := strconv.ParseInt(m, 10, 64)
	if err != nil {
		return NaN()
	}
	return Integer(i)
}

// ToFloat parses the leading decimal number of s, with the same leniency
// as ToInteger. "Infinity" and friends are accepted with an optional sign.
func ToFloat(s string) Value {
	s = strings.TrimLeft(s, " \t\n\r\v\f")

	unsigned := strings.TrimLeft(s, "+-")
	if strings.HasPrefix(unsigned, "Infinity") && len(s)-len(unsigned) <= 1 {
		f, _ := strconv.ParseFloat(s[:len(s)-len(unsigned)]+"Inf", 64)
		return Float(f)
	}

	m := floatPrefixRegex.FindString(s)
	if m == "" {
		return NaN()
	}
	f, err := strconv.ParseFloat(m, 64)
	if err != nil {
		// Out of range still yields ±Inf from ParseFloat
		if errors.Is(err, strconv.ErrRange) {
			return Float(f)
		}
		return NaN()
	}
	return Float(f)
}

// ToBoolean returns true only for PostgreSQL's "t" and the literal "true".
// Everything else, including "1" and "TRUE", is false.
func ToBoolean(s string) Value {
	return Boolean(s == "t" || s == "true")
}

// ToStructured decodes s as JSON. Invalid JSON is kept verbatim as a string.
func ToStructured(s string) Value {
	if !strictNumbers(s) {
		return String(s)
	}
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return String(s)
	}
	return Structured(v)
}

// strictNumbers reports whether every number literal outside string literals
// follows JSON number grammar. goccy/go-json decodes "01" and "1." without
// complaint.
func strictNumbers(s string) bool {
	inString := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			switch c {
			case '\\':
				i++
			case '"':
				inString = false
			}
			continue
		}
		switch {
		case c == '"':
			inString = true
		case c == '-' || c >= '0' && c <= '9':
			j := i
			for j < len(s) && isNumberByte(s[j]) {
				j++
			}
			if !jsonNumberRegex.MatchString(s[i:j]) {
				return false
			}
			i = j - 1
		}
	}
	return true
}

func isNumberByte(c byte) bool {
	return c >= '0' && c <= '9' || c == '-' || c == '+' || c == '.' || c == 'e' || c == 'E'
}

// FixEncoding repairs the double-encoded ordinal indicator ("5ÂºA" -> "5ºA")
// and trims surrounding whitespace. Only the first occurrence is replaced.
func FixEncoding(s string) string {
	return strings.TrimSpace(strings.Replace(s, mojibakeOrdinal, "º", 1))
}
