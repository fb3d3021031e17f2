package core

// streaming.go normalizes dump bytes before they reach the parser.
//
// Dumps arrive from disk or an HTTP body. The readers here fix the common
// transport problems without inspecting SQL:
//
//   - BOMSkippingReader: drops a leading UTF-8 BOM left by Windows editors
//   - Latin-1 decoding (x/text charmap) for dumps exported with a legacy client encoding
//   - StreamingUTF8Sanitizer: replaces invalid UTF-8 bytes with '?'
//   - StreamingCountingReader: counts bytes and enforces an optional size limit
//   - contextReader: stops reading once the request context is done
//
// Use WrapForParsing to apply all of them in the right order.

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// ErrDumpTooLarge is returned when the input exceeds the configured limit.
var ErrDumpTooLarge = errors.New("dump too large")

// Supported input encodings.
const (
	EncodingUTF8   = "utf-8"
	EncodingLatin1 = "latin1"
)

// NormalizeEncoding maps user-facing encoding names to the supported set.
// Returns an error for anything else.
func NormalizeEncoding(name string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "utf-8", "utf8":
		return EncodingUTF8, nil
	case "latin1", "latin-1", "iso-8859-1", "iso8859-1":
		return EncodingLatin1, nil
	default:
		return "", fmt.Errorf("unsupported dump encoding %q", name)
	}
}

// StreamingUTF8Sanitizer wraps an io.Reader and replaces invalid UTF-8 bytes
// with '?' on the fly. Multi-byte sequences split across reads are held back
// until the next read completes them.
type StreamingUTF8Sanitizer struct {
	reader  io.Reader
	pending []byte
}

// NewStreamingUTF8Sanitizer creates a new streaming UTF-8 sanitizer.
func NewStreamingUTF8Sanitizer(r io.Reader) *StreamingUTF8Sanitizer {
	return &StreamingUTF8Sanitizer{
		reader:  r,
		pending: make([]byte, 0, utf8.UTFMax),
	}
}

// Read implements io.Reader.
func (s *StreamingUTF8Sanitizer) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	offset := 0
	if len(s.pending) > 0 {
		offset = copy(p, s.pending)
		s.pending = s.pending[:0]
	}

	n, err := s.reader.Read(p[offset:])
	n += offset
	if n == 0 {
		return 0, err
	}

	if isAllASCII(p[:n]) {
		return n, err
	}

	return s.sanitize(p[:n], err == io.EOF), err
}

// isAllASCII is the fast path: dumps are mostly ASCII.
func isAllASCII(data []byte) bool {
	for _, b := range data {
		if b >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

// sanitize rewrites data in place and returns the number of bytes to emit.
// Unless atEOF, an incomplete trailing sequence is moved to pending.
func (s *StreamingUTF8Sanitizer) sanitize(data []byte, atEOF bool) int {
	if utf8.Valid(data) {
		if !atEOF {
			if trailing := incompleteTrailingBytes(data); trailing > 0 {
				s.pending = append(s.pending, data[len(data)-trailing:]...)
				return len(data) - trailing
			}
		}
		return len(data)
	}

	write := 0
	for read := 0; read < len(data); {
		r, size := utf8.DecodeRune(data[read:])

		if !atEOF && read+size >= len(data) && isIncompleteRune(data[read:]) {
			s.pending = append(s.pending, data[read:]...)
			return write
		}

		if r == utf8.RuneError && size == 1 {
			// One byte out, one byte in: never grows the buffer
			data[write] = '?'
			write++
			read++
			continue
		}
		copy(data[write:], data[read:read+size])
		write += size
		read += size
	}
	return write
}

// incompleteTrailingBytes returns how many bytes at the end of data start a
// multi-byte sequence that is not finished yet.
func incompleteTrailingBytes(data []byte) int {
	for i := 1; i <= 3 && i <= len(data); i++ {
		b := data[len(data)-i]
		if b >= 0xC0 {
			if i < runeLen(b) {
				return i
			}
			return 0
		}
		if b&0xC0 != 0x80 {
			return 0
		}
	}
	return 0
}

// runeLen returns the expected length of a UTF-8 sequence starting with b.
func runeLen(b byte) int {
	switch {
	case b < 0x80:
		return 1
	case b < 0xC0:
		return 0
	case b < 0xE0:
		return 2
	case b < 0xF0:
		return 3
	default:
		return 4
	}
}

// isIncompleteRune reports whether data could be the head of a longer sequence.
func isIncompleteRune(data []byte) bool {
	if len(data) == 0 {
		return false
	}
	return runeLen(data[0]) > len(data)
}

// BOMSkippingReader wraps an io.Reader and drops a leading UTF-8 BOM.
type BOMSkippingReader struct {
	reader  io.Reader
	checked bool
	head    []byte // bytes read during the BOM check that still need returning
}

// NewBOMSkippingReader creates a new BOM-skipping reader.
func NewBOMSkippingReader(r io.Reader) *BOMSkippingReader {
	return &BOMSkippingReader{reader: r}
}

// Read implements io.Reader.
func (r *BOMSkippingReader) Read(p []byte) (int, error) {
	if !r.checked {
		r.checked = true

		var buf [3]byte
		n, err := io.ReadFull(r.reader, buf[:])
		if err == io.ErrUnexpectedEOF {
			err = io.EOF
		}
		if err != nil && err != io.EOF {
			return 0, err
		}
		if !(n == 3 && buf[0] == 0xEF && buf[1] == 0xBB && buf[2] == 0xBF) {
			r.head = append(r.head, buf[:n]...)
		}
		if err == io.EOF && len(r.head) == 0 {
			return 0, io.EOF
		}
	}

	if len(r.head) > 0 {
		n := copy(p, r.head)
		r.head = r.head[n:]
		return n, nil
	}

	return r.reader.Read(p)
}

// StreamingCountingReader tracks bytes read and enforces an optional limit.
type StreamingCountingReader struct {
	reader    io.Reader
	BytesRead int64
	Limit     int64 // 0 means unlimited
}

// NewStreamingCountingReader creates a counting reader. limit <= 0 disables the check.
func NewStreamingCountingReader(r io.Reader, limit int64) *StreamingCountingReader {
	return &StreamingCountingReader{reader: r, Limit: limit}
}

// Read implements io.Reader.
func (r *StreamingCountingReader) Read(p []byte) (int, error) {
	n, err := r.reader.Read(p)
	r.BytesRead += int64(n)
	if r.Limit > 0 && r.BytesRead > r.Limit {
		return n, fmt.Errorf("%w: more than %d bytes", ErrDumpTooLarge, r.Limit)
	}
	return n, err
}

// contextReader fails reads once ctx is done.
type contextReader struct {
	ctx    context.Context
	reader io.Reader
}

func (r contextReader) Read(p []byte) (int, error) {
	if err := r.ctx.Err(); err != nil {
		return 0, err
	}
	return r.reader.Read(p)
}

// WrapForParsing chains the normalizing readers:
//
//  1. context check (so a cancelled request stops reading)
//  2. BOM removal (must see the raw first bytes)
//  3. Latin-1 -> UTF-8 decoding, when requested
//  4. UTF-8 sanitization
//  5. byte counting and size limit
func WrapForParsing(ctx context.Context, r io.Reader, encoding string, limit int64) (*StreamingCountingReader, error) {
	enc, err := NormalizeEncoding(encoding)
	if err != nil {
		return nil, err
	}

	var src io.Reader = NewBOMSkippingReader(contextReader{ctx: ctx, reader: r})
	if enc == EncodingLatin1 {
		src = transform.NewReader(src, charmap.ISO8859_1.NewDecoder())
	}
	return NewStreamingCountingReader(NewStreamingUTF8Sanitizer(src), limit), nil
}
