// Package parser implements the Parser Client (spec §4.2): a single
// operation, Interpret, that hands an utterance to an external LLM vendor
// and returns a structured, schema-validated interpretation or a typed
// ParserError. The client treats the LLM as untrusted — any field may be
// absent or of the wrong type.
package parser

import (
	"context"

	"github.com/limos-platform/commandcore/pkg/commandcore/model"
)

// Output is the LLM's structured interpretation of an utterance. All fields
// are optional: the classifier must tolerate any of them being zero-valued.
type Output struct {
	ProposedEventTypes []model.EventType `json:"proposed_event_types" jsonschema:"description=Event types this utterance could plausibly be"`
	PrimaryEvent       model.EventType   `json:"primary_event,omitempty" jsonschema:"description=The single most likely event type, if confident"`
	ExtractedData      map[string]any    `json:"extracted_data,omitempty" jsonschema:"description=Fields lifted from the utterance, keyed by field name"`
	Confidence         float64           `json:"confidence" validate:"gte=0,lte=1"`
}

// Client is the Parser Client contract (spec §4.2): a single operation,
// interpret(utterance, timeout) -> ParserOutput | ParserError.
type Client interface {
	Interpret(ctx context.Context, utterance string) (*Output, error)
}
