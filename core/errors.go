package core

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies every failure the console can produce.
type ErrorKind int

const (
	// KindValidation rejects empty or whitespace-only query text.
	KindValidation ErrorKind = iota

	// KindEngineInit means the engine runtime failed to load.
	KindEngineInit

	// KindFetch means the snapshot was unreachable. The message includes
	// the HTTP status and URL.
	KindFetch

	// KindLoad means the snapshot bytes were corrupt or not a database.
	KindLoad

	// KindSession means no usable session exists after a load attempt.
	KindSession

	// KindBusy rejects an execute issued while another is running.
	KindBusy

	// KindEngine is a runtime execution failure, with the raw engine
	// message passed through the classification table.
	KindEngine
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindEngineInit:
		return "engine_init"
	case KindFetch:
		return "fetch"
	case KindLoad:
		return "load"
	case KindSession:
		return "session"
	case KindBusy:
		return "busy"
	case KindEngine:
		return "engine"
	default:
		return "unknown"
	}
}

// Error is a classified console error. Every error crossing a package
// boundary in snapquery is one of these; nothing escapes to the host UI
// unclassified.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error // underlying cause, may be nil
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Errorf creates a classified error with a formatted message.
func Errorf(kind ErrorKind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// WrapError classifies an underlying error, keeping it for Unwrap.
func WrapError(kind ErrorKind, err error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

// KindOf extracts the ErrorKind from an error chain. Unclassified errors
// report KindEngine, the catch-all for runtime failures.
func KindOf(err error) ErrorKind {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return KindEngine
}

// engineMessageTable maps raw engine error substrings to stable,
// user-facing messages. Order matters: the first match wins.
var engineMessageTable = []struct {
	substring string
	message   string
}{
	{"no such table", "table not found"},
	{"syntax error", "SQL syntax error"},
	{"constraint failed", "constraint violation"},
	{"readonly", "database is read-only"},
}

// ClassifyEngineMessage maps a raw engine error message to a stable
// user-facing one. Unmatched messages pass through verbatim.
func ClassifyEngineMessage(raw string) string {
	lower := strings.ToLower(raw)
	for _, entry := range engineMessageTable {
		if strings.Contains(lower, entry.substring) {
			return entry.message
		}
	}
	return raw
}
