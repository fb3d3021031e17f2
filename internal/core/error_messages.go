// Error codes reference.
//
// Errors shown to API and dashboard users carry a short code they can quote
// when reporting a problem. Codes are grouped by category:
//
// # Dump Errors (DUMP001-DUMP099)
//
//	DUMP001 - Dump too large: the dump exceeds DUMP_MAX_FILE_SIZE
//	          Patterns: "dump too large"
//	DUMP002 - Empty dump: the upload contained no bytes
//	          Patterns: "empty dump"
//	DUMP003 - Unsupported encoding: encoding is not utf-8 or latin1
//	          Patterns: "unsupported dump encoding"
//	DUMP004 - No dataset: nothing has been parsed yet
//	          Patterns: "no dataset loaded"
//
// # File Errors (FILE001-FILE099)
//
//	FILE001 - No file: multipart upload without a "file" part
//	          Patterns: "no file provided"
//	FILE002 - File not found: DUMP_PATH or CLI argument does not exist
//	          Patterns: "no such file or directory"
//	FILE003 - Not readable: the process cannot read the dump file
//	          Patterns: "permission denied"
//
// # Upload Errors (UPL001-UPL099)
//
//	UPL001 - System busy: every parse slot is taken
//	         Patterns: "too many concurrent parses"
//	UPL002 - Request cancelled
//	         Patterns: "context canceled"
//	UPL003 - Request timeout
//	         Patterns: "context deadline exceeded"
//
// # Table Errors (TBL001-TBL099)
//
//	TBL001 - Unknown table: the dataset has no bucket with that name
//	         Patterns: "unknown table"
//	TBL002 - Unknown column: the table schema has no such column
//	         Patterns: "unknown column"
//
// # Export Errors (EXP001-EXP099)
//
//	EXP001 - Export disabled: DATABASE_URL is not set
//	         Patterns: "export not configured"
//	EXP002 - Database unreachable
//	         Patterns: "connection refused"
//	EXP003 - Schema permission: the export role cannot write the target schema
//	         Patterns: "permission denied for schema"
//	EXP004 - Export timeout
//	         Patterns: "timeout"
//
// # Rate Limiting (RATE001)
//
//	RATE001 - Too many requests
//	          Patterns: "rate limit"
//
// # Default Error (ERR000)
//
// Returned when nothing matches. Check the server log for the technical error.
//
// Patterns are matched case-insensitively with strings.Contains and the first
// match wins, so specific patterns are listed before general ones.
package core

import (
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened
	Action  string // What to do about it
	Code    string // Support reference
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns is ordered: specific before general.
var errorPatterns = []errorPattern{
	// Dump
	{"dump too large", UserMessage{
		Message: "Dump exceeds the maximum size",
		Action:  "Raise DUMP_MAX_FILE_SIZE or dump only the pimpoyo schema",
		Code:    "DUMP001",
	}},
	{"request body too large", UserMessage{
		Message: "Dump exceeds the maximum size",
		Action:  "Raise DUMP_MAX_FILE_SIZE or dump only the pimpoyo schema",
		Code:    "DUMP001",
	}},
	{"empty dump", UserMessage{
		Message: "The uploaded dump is empty",
		Action:  "Upload the output of pg_dump with COPY blocks",
		Code:    "DUMP002",
	}},
	{"unsupported dump encoding", UserMessage{
		Message: "Unsupported dump encoding",
		Action:  "Use utf-8 or latin1",
		Code:    "DUMP003",
	}},
	{"no dataset loaded", UserMessage{
		Message: "No dump has been parsed yet",
		Action:  "Upload a dump or set DUMP_PATH",
		Code:    "DUMP004",
	}},

	// File
	{"no file provided", UserMessage{
		Message: "No file was selected",
		Action:  "Attach the dump as the \"file\" form field",
		Code:    "FILE001",
	}},
	{"no such file or directory", UserMessage{
		Message: "Dump file not found",
		Action:  "Check the path and try again",
		Code:    "FILE002",
	}},

	// Export permission must win over the generic file permission error
	{"permission denied for schema", UserMessage{
		Message: "The export user cannot write to the target schema",
		Action:  "Grant CREATE and USAGE on EXPORT_TARGET_SCHEMA",
		Code:    "EXP003",
	}},
	{"permission denied", UserMessage{
		Message: "Dump file is not readable",
		Action:  "Check the file permissions",
		Code:    "FILE003",
	}},

	// Upload
	{"too many concurrent parses", UserMessage{
		Message: "Too many dumps are being parsed",
		Action:  "Please wait a moment and try again",
		Code:    "UPL001",
	}},
	{"context canceled", UserMessage{
		Message: "Request was cancelled",
		Action:  "Please try again",
		Code:    "UPL002",
	}},
	{"context deadline exceeded", UserMessage{
		Message: "Request timed out",
		Action:  "Try a smaller dump or raise UPLOAD_TIMEOUT",
		Code:    "UPL003",
	}},

	// Table
	{"unknown table", UserMessage{
		Message: "The dataset has no such table",
		Action:  "GET /api/tables lists the available tables",
		Code:    "TBL001",
	}},
	{"unknown column", UserMessage{
		Message: "The table has no such column",
		Action:  "Check the column name against the table schema",
		Code:    "TBL002",
	}},

	// Export
	{"export not configured", UserMessage{
		Message: "Database export is not configured",
		Action:  "Set DATABASE_URL and restart the server",
		Code:    "EXP001",
	}},
	{"connection refused", UserMessage{
		Message: "Unable to connect to the export database",
		Action:  "Please try again in a few moments",
		Code:    "EXP002",
	}},
	{"timeout", UserMessage{
		Message: "Export timed out",
		Action:  "Please try again later",
		Code:    "EXP004",
	}},

	{"rate limit", UserMessage{
		Message: "Too many requests",
		Action:  "Please wait a moment before trying again",
		Code:    "RATE001",
	}},
}

var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or check the server log",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// Unmatched errors map to ERR000; nil maps to the zero UserMessage.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}
	return defaultMessage
}

// FormatUserError renders "Message (Code: XXX). Action".
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err matched a specific pattern.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}

// UserError pairs a technical error (for logs) with its user message.
type UserError struct {
	Technical error
	User      UserMessage
}

func (e *UserError) Error() string {
	return e.User.Message
}

func (e *UserError) Unwrap() error {
	return e.Technical
}

// NewUserError maps err. Returns nil if err is nil.
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{
		Technical: err,
		User:      MapError(err),
	}
}
