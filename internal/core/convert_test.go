package core

import (
	"math"
	"reflect"
	"testing"
)

// ----------------------------------------------------------------------------
// ColumnType Tests
// ----------------------------------------------------------------------------

func TestColumnType(t *testing.T) {
	tests := []struct {
		column string
		want   FieldType
	}{
		{"id", FieldInteger},
		{"tiempo_respuesta_ms", FieldInteger},
		{"s4_ux_puntos", FieldInteger},
		{"precision_global", FieldFloat},
		{"tasa_acierto", FieldFloat},
		{"es_correcto", FieldBool},
		{"consentimiento_obtenido", FieldBool},
		{"criterios_evaluacion", FieldJSON},
		{"s1_p6_probabilidad_verdad", FieldJSON},
		{"curso_escolar", FieldEncodingFix},
		{"nickname", FieldText},
		{"created_at", FieldText},
		{"not_a_column", FieldText},
	}

	for _, tt := range tests {
		t.Run(tt.column, func(t *testing.T) {
			if got := ColumnType(tt.column); got != tt.want {
				t.Errorf("ColumnType(%q) = %v, want %v", tt.column, got, tt.want)
			}
		})
	}
}

func TestBuildColumnTypes_PanicsOnOverlap(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for column in two lists")
		}
	}()
	buildColumnTypes(map[FieldType][]string{
		FieldInteger: {"x"},
		FieldFloat:   {"x"},
	})
}

// ----------------------------------------------------------------------------
// Coerce Tests
// ----------------------------------------------------------------------------

func TestCoerce_NullSentinelOverridesEveryRule(t *testing.T) {
	columns := []string{
		"id", "precision_global", "es_correcto", "metadata", "curso_escolar", "nickname", "anything",
	}
	for _, col := range columns {
		t.Run(col, func(t *testing.T) {
			if got := Coerce(col, `\N`); !got.IsNull() {
				t.Errorf("Coerce(%q, \\N) = %v, want NULL", col, got)
			}
		})
	}
}

func TestCoerce(t *testing.T) {
	tests := []struct {
		name   string
		column string
		raw    string
		want   Value
	}{
		{"integer", "id", "42", Integer(42)},
		{"negative integer", "edad", "-7", Integer(-7)},
		{"float", "precision_global", "0.75", Float(0.75)},
		{"bool t", "es_correcto", "t", Boolean(true)},
		{"bool f", "es_correcto", "f", Boolean(false)},
		{"json array", "key_elements", `["a","b"]`, Structured([]any{"a", "b"})},
		{"json fallback", "metadata", "{bad", String("{bad")},
		{"encoding fix", "curso_escolar", "5ÂºA", String("5ºA")},
		{"text passthrough", "nickname", "  ana  ", String("  ana  ")},
		{"empty text", "nickname", "", String("")},
		{"unknown column", "whatever", "7", String("7")},
		{"backslash-n lowercase is not null", "nickname", `\n`, String(`\n`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Coerce(tt.column, tt.raw)
			if !got.Equal(tt.want) {
				t.Errorf("Coerce(%q, %q) = %v (%s), want %v (%s)",
					tt.column, tt.raw, got, got.Kind, tt.want, tt.want.Kind)
			}
		})
	}
}

func TestCoerceMissing(t *testing.T) {
	if !CoerceMissing().IsNull() {
		t.Error("CoerceMissing should be NULL")
	}
}

// ----------------------------------------------------------------------------
// ToInteger Tests
// ----------------------------------------------------------------------------

func TestToInteger(t *testing.T) {
	tests := []struct {
		input   string
		want    int64
		wantNaN bool
	}{
		{"0", 0, false},
		{"123", 123, false},
		{"-456", -456, false},
		{"+9", 9, false},
		{"  12", 12, false},
		{"42abc", 42, false},
		{"3.9", 3, false},
		{"1e3", 1, false},
		{"", 0, true},
		{"abc", 0, true},
		{"-", 0, true},
		{"99999999999999999999", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := ToInteger(tt.input)
			if tt.wantNaN {
				if !got.IsNaN() {
					t.Errorf("ToInteger(%q) = %v, want NaN", tt.input, got)
				}
				return
			}
			if got.Kind != KindInteger || got.Int != tt.want {
				t.Errorf("ToInteger(%q) = %v, want %d", tt.input, got, tt.want)
			}
		})
	}
}

// ----------------------------------------------------------------------------
// ToFloat Tests
// ----------------------------------------------------------------------------

func TestToFloat(t *testing.T) {
	tests := []struct {
		input   string
		want    float64
		wantNaN bool
	}{
		{"0", 0, false},
		{"0.5", 0.5, false},
		{".25", 0.25, false},
		{"99.", 99, false},
		{"-1.5e2", -150, false},
		{"1.5abc", 1.5, false},
		{" 2", 2, false},
		{"Infinity", math.Inf(1), false},
		{"-Infinity", math.Inf(-1), false},
		{"1e999", math.Inf(1), false},
		{"", 0, true},
		{"NaN", 0, true},
		{"abc", 0, true},
		{".", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := ToFloat(tt.input)
			if tt.wantNaN {
				if !got.IsNaN() {
					t.Errorf("ToFloat(%q) = %v, want NaN", tt.input, got)
				}
				return
			}
			if got.Kind != KindFloat || got.Float != tt.want {
				t.Errorf("ToFloat(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

// ----------------------------------------------------------------------------
// ToBoolean Tests
// ----------------------------------------------------------------------------

func TestToBoolean(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"t", true},
		{"true", true},
		{"f", false},
		{"false", false},
		{"", false},
		{"TRUE", false},
		{"1", false},
		{"yes", false},
		{" t", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := ToBoolean(tt.input)
			if got.Kind != KindBoolean || got.Bool != tt.want {
				t.Errorf("ToBoolean(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

// ----------------------------------------------------------------------------
// ToStructured Tests
// ----------------------------------------------------------------------------

func TestToStructured(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  any
	}{
		{"array", `["a","b"]`, []any{"a", "b"}},
		{"object", `{"k":1}`, map[string]any{"k": float64(1)}},
		{"number", `3`, float64(3)},
		{"json null", `null`, nil},
		{"zero", `0`, float64(0)},
		{"negative exponent", `-0.5e-3`, -0.0005},
		{"zero and ten", `[0,10]`, []any{float64(0), float64(10)}},
		{"leading zero inside string", `{"a":"01"}`, map[string]any{"a": "01"}},
		{"escaped quote before digits", `["x\"01", 1]`, []any{`x"01`, float64(1)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToStructured(tt.input)
			if got.Kind != KindStructured {
				t.Fatalf("ToStructured(%q).Kind = %s, want structured", tt.input, got.Kind)
			}
			if !reflect.DeepEqual(got.Structured, tt.want) {
				t.Errorf("ToStructured(%q) = %#v, want %#v", tt.input, got.Structured, tt.want)
			}
		})
	}
}

func TestToStructured_FallsBackToRawString(t *testing.T) {
	for _, raw := range []string{
		"{bad", "", "not json", `["unterminated"`,
		"01", "-01", `{"a":01}`, "[01]", "1.", "1.e5", "[1, 2.]",
	} {
		got := ToStructured(raw)
		if got.Kind != KindString || got.Str != raw {
			t.Errorf("ToStructured(%q) = %v (%s), want raw string", raw, got, got.Kind)
		}
	}
}

// ----------------------------------------------------------------------------
// FixEncoding Tests
// ----------------------------------------------------------------------------

func TestFixEncoding(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"5ÂºA", "5ºA"},
		{" 3ÂºB ", "3ºB"},
		{"1ºESO", "1ºESO"},
		{"ÂºÂº", "ºÂº"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := FixEncoding(tt.input); got != tt.want {
				t.Errorf("FixEncoding(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
