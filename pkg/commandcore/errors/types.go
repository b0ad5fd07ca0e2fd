package errors

import (
	"fmt"
	"strings"
)

// ParserKind distinguishes the ways the Parser Client can fail (spec §4.2).
type ParserKind string

// Parser failure kinds.
const (
	ParserTimeout     ParserKind = "timeout"
	ParserUnavailable ParserKind = "unavailable"
	ParserMalformed   ParserKind = "malformed"
)

// ParserError is raised by the Parser Client. It is never fatal to a
// command: the Command Orchestrator downgrades it to a diagnostic and lets
// the Classifier proceed with no parser input.
type ParserError struct {
	Kind    ParserKind
	Message string
	Err     error
}

func (e *ParserError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("parser %s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("parser %s", e.Kind)
}

func (e *ParserError) Unwrap() error { return e.Err }

// UnclassifiableError is raised when neither keywords nor the parser
// produced any candidate event type.
type UnclassifiableError struct {
	Utterance string
}

func (e *UnclassifiableError) Error() string {
	return fmt.Sprintf("unclassifiable utterance: %q", e.Utterance)
}

// ValidationError is raised when an event's required fields are not all
// present and non-null after derivation.
type ValidationError struct {
	EventType string
	Missing   []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %s: missing %s", e.EventType, strings.Join(e.Missing, ", "))
}

// LowConfidenceError is raised when the best classification candidate
// scored below the configured confidence threshold without parser
// corroboration.
type LowConfidenceError struct {
	EventType  string
	Confidence float64
	Threshold  float64
}

func (e *LowConfidenceError) Error() string {
	return fmt.Sprintf("confidence %.2f for %s below threshold %.2f", e.Confidence, e.EventType, e.Threshold)
}

// HandlerNotFoundError is raised when no handler is registered for a
// module a classified event requires.
type HandlerNotFoundError struct {
	Module string
}

func (e *HandlerNotFoundError) Error() string {
	return fmt.Sprintf("no handler registered for module %q", e.Module)
}

// HandlerTransientKind distinguishes retriable handler failure modes.
type HandlerTransientKind string

// Handler transient failure kinds.
const (
	HandlerTimeout     HandlerTransientKind = "timeout"
	HandlerUnavailable HandlerTransientKind = "unavailable"
)

// HandlerTransientError is a retriable handler-level failure (spec §7).
type HandlerTransientError struct {
	Kind    HandlerTransientKind
	Module  string
	Message string
	Err     error
}

func (e *HandlerTransientError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("handler %s %s: %s", e.Module, e.Kind, e.Message)
	}
	return fmt.Sprintf("handler %s %s", e.Module, e.Kind)
}

func (e *HandlerTransientError) Unwrap() error { return e.Err }

// HandlerError wraps a handler's own structured failure. Unlike the
// transient kinds above, this is never retried — it is surfaced verbatim in
// that handler's HandlerResult.
type HandlerError struct {
	Kind    string
	Message string
}

func (e *HandlerError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// CancelledError is raised when the caller cancels the command or its
// deadline expires before completion.
type CancelledError struct {
	Stage string // which pipeline stage was in flight, e.g. "parser", "dispatch"
	Err   error
}

func (e *CancelledError) Error() string {
	if e.Stage != "" {
		return fmt.Sprintf("cancelled during %s: %v", e.Stage, e.Err)
	}
	return fmt.Sprintf("cancelled: %v", e.Err)
}

func (e *CancelledError) Unwrap() error { return e.Err }
