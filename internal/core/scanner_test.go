package core

import (
	"reflect"
	"testing"
)

func feedAll(sc *Scanner, text string) []Line {
	var out []Line
	for _, raw := range Lines(text) {
		out = append(out, sc.Feed(raw))
	}
	return out
}

func kinds(lines []Line) []LineKind {
	out := make([]LineKind, len(lines))
	for i, l := range lines {
		out[i] = l.Kind
	}
	return out
}

func TestScanner_Transitions(t *testing.T) {
	input := "--\n" +
		"-- PostgreSQL database dump\n" +
		"\n" +
		"SET statement_timeout = 0;\n" +
		"SELECT pg_catalog.set_config('search_path', '', false);\n" +
		"CREATE TABLE pimpoyo.indicators (\n" +
		"COPY pimpoyo.indicators (id, name) FROM stdin;\n" +
		"1\tfoo\n" +
		"-- not a comment in here\n" +
		"\n" +
		"\\.\n" +
		"INSERT INTO pimpoyo.news VALUES (1);\n"

	sc := NewScanner(ScannerOptions{})
	lines := feedAll(sc, input)

	want := []LineKind{
		LineComment, LineComment, LineBlank, LineKeyword, LineKeyword, LineIgnored,
		LineBlockStart, LineData, LineData, LineData, LineBlockEnd, LineInsert,
	}
	if got := kinds(lines); !reflect.DeepEqual(got, want) {
		t.Fatalf("kinds = %v\nwant    %v", got, want)
	}

	if lines[6].Table != "indicators" {
		t.Errorf("block start table = %q, want indicators", lines[6].Table)
	}
	if !reflect.DeepEqual(lines[7].Fields, []string{"1", "foo"}) {
		t.Errorf("fields = %q", lines[7].Fields)
	}
	if !reflect.DeepEqual(lines[9].Fields, []string{""}) {
		t.Errorf("blank data line fields = %q, want one empty token", lines[9].Fields)
	}
	if lines[11].Table != "news" {
		t.Errorf("insert target = %q, want news", lines[11].Table)
	}
	if sc.State() != StateScanning {
		t.Errorf("final state = %v, want scanning", sc.State())
	}
	if lines[11].Number != 12 {
		t.Errorf("line number = %d, want 12", lines[11].Number)
	}
}

func TestScanner_MalformedBlockStartIsIgnored(t *testing.T) {
	tests := []string{
		"COPY public.users (id) FROM stdin;",
		"COPY pimpoyo users FROM stdin;",
		"COPY (SELECT 1) TO stdout;",
	}

	for _, line := range tests {
		t.Run(line, func(t *testing.T) {
			sc := NewScanner(ScannerOptions{})
			got := sc.Feed(line)
			if got.Kind != LineIgnored {
				t.Errorf("kind = %v, want ignored", got.Kind)
			}
			if sc.State() != StateScanning {
				t.Error("malformed block start must not open a block")
			}
		})
	}
}

func TestScanner_CustomSchema(t *testing.T) {
	sc := NewScanner(ScannerOptions{Schema: "staging"})

	if got := sc.Feed("COPY pimpoyo.users (id) FROM stdin;"); got.Kind != LineIgnored {
		t.Errorf("default schema block kind = %v, want ignored", got.Kind)
	}
	if got := sc.Feed("COPY staging.users (id) FROM stdin;"); got.Kind != LineBlockStart || got.Table != "users" {
		t.Errorf("custom schema block = %+v", got)
	}
}

func TestScanner_CRLF(t *testing.T) {
	sc := NewScanner(ScannerOptions{})
	lines := feedAll(sc, "COPY pimpoyo.indicators FROM stdin;\r\n2\tbar\r\n\\.\r\n")

	if got := kinds(lines); !reflect.DeepEqual(got, []LineKind{LineBlockStart, LineData, LineBlockEnd}) {
		t.Fatalf("kinds = %v", got)
	}
	if lines[1].Fields[1] != "bar" {
		t.Errorf("trailing CR not stripped: %q", lines[1].Fields[1])
	}
}

func TestScanner_TerminatorMustBeExact(t *testing.T) {
	sc := NewScanner(ScannerOptions{})
	sc.Feed("COPY pimpoyo.indicators FROM stdin;")

	for _, line := range []string{` \.`, `\. `, `\.\.`} {
		if got := sc.Feed(line); got.Kind != LineData {
			t.Errorf("Feed(%q) = %v, want data", line, got.Kind)
		}
	}
	if sc.OpenTable() != "indicators" {
		t.Errorf("OpenTable = %q, want indicators", sc.OpenTable())
	}
}

func TestScanner_KeywordsOnlySkippedOutsideBlocks(t *testing.T) {
	sc := NewScanner(ScannerOptions{})
	sc.Feed("COPY pimpoyo.chat_messages FROM stdin;")

	got := sc.Feed("SELECT\tis\tdata")
	if got.Kind != LineData || got.Table != "chat_messages" {
		t.Errorf("line = %+v, want data for chat_messages", got)
	}
}

func TestLines(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"", nil},
		{"a", []string{"a"}},
		{"a\n", []string{"a"}},
		{"a\n\nb", []string{"a", "", "b"}},
	}

	for _, tt := range tests {
		if got := Lines(tt.input); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Lines(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestLineKind_String(t *testing.T) {
	if LineInsert.String() != "insert" {
		t.Errorf("LineInsert.String() = %q", LineInsert.String())
	}
	if LineKind(99).String() != "unknown" {
		t.Errorf("out of range kind = %q", LineKind(99).String())
	}
	if !LineKeyword.Skipped() || LineData.Skipped() {
		t.Error("Skipped mismatch")
	}
}
