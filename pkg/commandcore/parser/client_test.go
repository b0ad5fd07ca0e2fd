package parser

import (
	"context"
	"testing"

	"github.com/limos-platform/commandcore/pkg/commandcore/errors"
	"github.com/limos-platform/commandcore/pkg/commandcore/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFakeClient_ReturnsConfiguredOutput(t *testing.T) {
	fc := &FakeClient{
		Outputs: map[string]*Output{
			"filled up with gas, $45": {
				ProposedEventTypes: []model.EventType{model.EventPump},
				PrimaryEvent:       model.EventPump,
				ExtractedData:      map[string]any{"cost": 45.0},
				Confidence:         0.8,
			},
		},
	}

	out, err := fc.Interpret(context.Background(), "filled up with gas, $45")
	require.NoError(t, err)
	assert.Equal(t, model.EventPump, out.PrimaryEvent)
	assert.Equal(t, []string{"filled up with gas, $45"}, fc.Calls)
}

func TestFakeClient_ReturnsConfiguredError(t *testing.T) {
	fc := &FakeClient{
		Errors: map[string]error{
			"gibberish": &errors.ParserError{Kind: errors.ParserUnavailable},
		},
	}

	_, err := fc.Interpret(context.Background(), "gibberish")
	require.Error(t, err)
	var perr *errors.ParserError
	assert.ErrorAs(t, err, &perr)
	assert.Equal(t, errors.ParserUnavailable, perr.Kind)
}

func TestFakeClient_FallsBackToDefault(t *testing.T) {
	fc := &FakeClient{Default: &Output{Confidence: 0.5}}
	out, err := fc.Interpret(context.Background(), "anything")
	require.NoError(t, err)
	assert.Equal(t, 0.5, out.Confidence)
}

func TestFakeClient_EmptyOutputWhenUnconfigured(t *testing.T) {
	fc := &FakeClient{}
	out, err := fc.Interpret(context.Background(), "anything")
	require.NoError(t, err)
	assert.Empty(t, out.ProposedEventTypes)
}
