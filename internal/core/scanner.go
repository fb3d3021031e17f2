package core

// scanner.go implements the line-oriented state machine over dump text.
//
// The scanner has two states:
//
//   - StateScanning: outside any COPY block. Blank lines, "--" comments and
//     SET/SELECT statements are skipped. "COPY <schema>.<table> ..." opens a
//     block. "INSERT INTO <schema>." is recognized but never decoded.
//   - StateCopying: inside a block. A line that is exactly `\.` closes the
//     block; every other line is one data row for the active table.
//
// Reaching the end of input while copying is not an error. Rows are handed
// out one line at a time, so nothing is lost; OpenTable reports the block
// that was never closed.

import (
	"regexp"
	"strings"
)

// DefaultSchema is the dump schema whose COPY blocks are collected.
const DefaultSchema = "pimpoyo"

// BlockTerminator closes a COPY block.
const BlockTerminator = `\.`

// State is the scanner's block state.
type State int

const (
	StateScanning State = iota
	StateCopying
)

// String returns the state name.
func (s State) String() string {
	if s == StateCopying {
		return "copying"
	}
	return "scanning"
}

// LineKind classifies a consumed line.
type LineKind int

const (
	LineBlank      LineKind = iota // empty or whitespace-only, outside a block
	LineComment                    // "--" comment, outside a block
	LineKeyword                    // non-data statement (SET, SELECT), outside a block
	LineBlockStart                 // COPY <schema>.<table> opened a block
	LineData                       // one row inside a block
	LineBlockEnd                   // `\.` closed the block
	LineInsert                     // INSERT INTO <schema>. seen; reserved, not decoded
	LineIgnored                    // anything else outside a block
)

var lineKindNames = [...]string{
	LineBlank:      "blank",
	LineComment:    "comment",
	LineKeyword:    "keyword",
	LineBlockStart: "block_start",
	LineData:       "data",
	LineBlockEnd:   "block_end",
	LineInsert:     "insert",
	LineIgnored:    "ignored",
}

// String returns the kind name.
func (k LineKind) String() string {
	if int(k) < len(lineKindNames) {
		return lineKindNames[k]
	}
	return "unknown"
}

// Skipped reports whether the kind is one of the no-op skip cases.
func (k LineKind) Skipped() bool {
	return k == LineBlank || k == LineComment || k == LineKeyword
}

// Line is the result of consuming one line of input.
type Line struct {
	Number int      // 1-based line number
	Kind   LineKind // classification
	Table  string   // active table for BlockStart, Data and BlockEnd; target table for Insert
	Fields []string // raw tab-separated tokens, LineData only
	Text   string   // the line without its trailing newline
}

// skipKeywords are statement prefixes that never carry row data.
var skipKeywords = []string{"SET", "SELECT"}

// ScannerOptions configures block recognition.
type ScannerOptions struct {
	// Schema is the dump schema prefix of block-start lines (default "pimpoyo").
	Schema string
}

// Scanner is the block state machine. It is not safe for concurrent use.
type Scanner struct {
	copyPattern  *regexp.Regexp
	insertPrefix string

	state  State
	table  string
	lineNo int
}

// NewScanner creates a scanner in StateScanning.
func NewScanner(opts ScannerOptions) *Scanner {
	schema := opts.Schema
	if schema == "" {
		schema = DefaultSchema
	}
	quoted := regexp.QuoteMeta(schema)
	return &Scanner{
		copyPattern:  regexp.MustCompile(`^COPY\s+` + quoted + `\.(\w+)`),
		insertPrefix: "INSERT INTO " + schema + ".",
	}
}

// State returns the current block state.
func (s *Scanner) State() State { return s.state }

// OpenTable returns the table of an unterminated block, or "" when scanning.
func (s *Scanner) OpenTable() string {
	if s.state == StateCopying {
		return s.table
	}
	return ""
}

// Feed consumes one line (without its newline) and returns its classification.
func (s *Scanner) Feed(raw string) Line {
	s.lineNo++
	text := strings.TrimSuffix(raw, "\r")
	line := Line{Number: s.lineNo, Text: text}

	if s.state == StateCopying {
		line.Table = s.table
		if text == BlockTerminator {
			line.Kind = LineBlockEnd
			s.state = StateScanning
			s.table = ""
			return line
		}
		line.Kind = LineData
		line.Fields = strings.Split(text, "\t")
		return line
	}

	trimmed := strings.TrimSpace(text)
	switch {
	case trimmed == "":
		line.Kind = LineBlank
	case strings.HasPrefix(trimmed, "--"):
		line.Kind = LineComment
	case hasKeywordPrefix(trimmed):
		line.Kind = LineKeyword
	case strings.HasPrefix(trimmed, "COPY "):
		m := s.copyPattern.FindStringSubmatch(trimmed)
		if m == nil {
			line.Kind = LineIgnored
			break
		}
		line.Kind = LineBlockStart
		line.Table = m[1]
		s.state = StateCopying
		s.table = m[1]
	case strings.HasPrefix(trimmed, s.insertPrefix):
		line.Kind = LineInsert
		line.Table = insertTarget(trimmed[len(s.insertPrefix):])
	default:
		line.Kind = LineIgnored
	}
	return line
}

// hasKeywordPrefix reports whether line starts with a skip keyword.
func hasKeywordPrefix(line string) bool {
	for _, kw := range skipKeywords {
		if strings.HasPrefix(line, kw) {
			return true
		}
	}
	return false
}

// insertTarget extracts the table name following "INSERT INTO <schema>.".
// Only the identifier is read; the statement body is left untouched.
func insertTarget(rest string) string {
	end := strings.IndexFunc(rest, func(r rune) bool {
		return !(r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9')
	})
	if end < 0 {
		return rest
	}
	return rest[:end]
}

// Lines splits dump text into lines for Feed. A trailing newline does not
// produce an extra empty line.
func Lines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
