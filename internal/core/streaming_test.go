package core

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
)

func TestBOMSkippingReader(t *testing.T) {
	tests := []struct {
		name     string
		input    []byte
		expected string
	}{
		{
			name:     "file with BOM",
			input:    append([]byte{0xEF, 0xBB, 0xBF}, []byte("hello,world")...),
			expected: "hello,world",
		},
		{
			name:     "file without BOM",
			input:    []byte("hello,world"),
			expected: "hello,world",
		},
		{
			name:     "empty file",
			input:    []byte{},
			expected: "",
		},
		{
			name:     "only BOM",
			input:    []byte{0xEF, 0xBB, 0xBF},
			expected: "",
		},
		{
			name:     "partial BOM at start",
			input:    []byte{0xEF, 0xBB, 'a', 'b', 'c'},
			expected: string([]byte{0xEF, 0xBB, 'a', 'b', 'c'}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reader := NewBOMSkippingReader(bytes.NewReader(tt.input))
			result, err := io.ReadAll(reader)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if string(result) != tt.expected {
				t.Errorf("got %q, want %q", string(result), tt.expected)
			}
		})
	}
}

func TestStreamingUTF8Sanitizer(t *testing.T) {
	tests := []struct {
		name     string
		input    []byte
		expected string
	}{
		{
			name:     "valid ASCII",
			input:    []byte("hello,world"),
			expected: "hello,world",
		},
		{
			name:     "valid UTF-8 with multibyte",
			input:    []byte("5ºA\tBogotá"),
			expected: "5ºA\tBogotá",
		},
		{
			name:     "invalid single byte replaced",
			input:    []byte{'h', 'e', 0x80, 'l', 'o'},
			expected: "he?lo", // Invalid byte replaced with ?
		},
		{
			name:     "empty input",
			input:    []byte{},
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reader := NewStreamingUTF8Sanitizer(bytes.NewReader(tt.input))
			result, err := io.ReadAll(reader)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if string(result) != tt.expected {
				t.Errorf("got %q, want %q", string(result), tt.expected)
			}
		})
	}
}

func TestStreamingCountingReader(t *testing.T) {
	input := strings.Repeat("x", 1000)
	reader := NewStreamingCountingReader(strings.NewReader(input), 0)

	buf := make([]byte, 100)
	totalRead := 0
	for {
		n, err := reader.Read(buf)
		totalRead += n
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if totalRead != len(input) {
		t.Errorf("total read = %d, want %d", totalRead, len(input))
	}
	if reader.BytesRead != int64(len(input)) {
		t.Errorf("BytesRead = %d, want %d", reader.BytesRead, len(input))
	}
}

func TestStreamingCountingReader_Limit(t *testing.T) {
	reader := NewStreamingCountingReader(strings.NewReader(strings.Repeat("x", 100)), 50)

	_, err := io.ReadAll(reader)
	if !errors.Is(err, ErrDumpTooLarge) {
		t.Fatalf("expected ErrDumpTooLarge, got %v", err)
	}
}

func TestNormalizeEncoding(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{"", EncodingUTF8, false},
		{"UTF8", EncodingUTF8, false},
		{" utf-8 ", EncodingUTF8, false},
		{"latin1", EncodingLatin1, false},
		{"ISO-8859-1", EncodingLatin1, false},
		{"ebcdic", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := NormalizeEncoding(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWrapForParsing(t *testing.T) {
	// BOM plus an invalid byte
	input := append([]byte{0xEF, 0xBB, 0xBF}, []byte{'h', 'e', 0x80, 'l', 'o'}...)

	reader, err := WrapForParsing(context.Background(), bytes.NewReader(input), "", 0)
	if err != nil {
		t.Fatalf("WrapForParsing: %v", err)
	}
	result, err := io.ReadAll(reader)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if string(result) != "he?lo" {
		t.Errorf("got %q, want %q", string(result), "he?lo")
	}
	if reader.BytesRead != 5 {
		t.Errorf("BytesRead = %d, want 5", reader.BytesRead)
	}
}

func TestWrapForParsing_Latin1(t *testing.T) {
	// "5ºA" in ISO-8859-1
	input := []byte{'5', 0xBA, 'A'}

	reader, err := WrapForParsing(context.Background(), bytes.NewReader(input), EncodingLatin1, 0)
	if err != nil {
		t.Fatalf("WrapForParsing: %v", err)
	}
	result, err := io.ReadAll(reader)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(result) != "5ºA" {
		t.Errorf("got %q, want %q", string(result), "5ºA")
	}
}

func TestWrapForParsing_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	reader, err := WrapForParsing(ctx, strings.NewReader("COPY pimpoyo.indicators FROM stdin;\n"), "", 0)
	if err != nil {
		t.Fatalf("WrapForParsing: %v", err)
	}
	if _, err := io.ReadAll(reader); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestWrapForParsing_UnsupportedEncoding(t *testing.T) {
	if _, err := WrapForParsing(context.Background(), strings.NewReader(""), "utf-16", 0); err == nil {
		t.Error("expected error for unsupported encoding")
	}
}
