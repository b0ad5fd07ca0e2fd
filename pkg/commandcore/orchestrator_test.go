package commandcore_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/limos-platform/commandcore/pkg/commandcore"
	"github.com/limos-platform/commandcore/pkg/commandcore/catalog"
	"github.com/limos-platform/commandcore/pkg/commandcore/config"
	"github.com/limos-platform/commandcore/pkg/commandcore/dispatch"
	commanderrors "github.com/limos-platform/commandcore/pkg/commandcore/errors"
	"github.com/limos-platform/commandcore/pkg/commandcore/model"
	"github.com/limos-platform/commandcore/pkg/commandcore/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler() dispatch.Handler {
	return dispatch.HandlerFunc(func(ctx context.Context, action string, event model.ClassifiedEvent) (model.HandlerResult, error) {
		return model.HandlerResult{OK: true, Data: map[string]any{"event_id": event.EventID}}, nil
	})
}

func newOrchestrator(parserClient parser.Client, opts ...commandcore.Option) *commandcore.Orchestrator {
	cat := catalog.New(catalog.Builtin())
	handlers := dispatch.NewRegistry()
	handlers.Register(model.ModuleFleet, okHandler())
	handlers.Register(model.ModuleAccounting, okHandler())
	return commandcore.New(parserClient, cat, handlers, config.DefaultSettings(), opts...)
}

func TestProcessCommand_Success(t *testing.T) {
	// Pump's full required-field set (price_per_unit, quantity, cost,
	// fuel_type, location, from_account, to_account) needs both utterance
	// extraction (price_per_unit, quantity, cost) and parser data (the
	// account/location fields no extract pattern can lift).
	fake := &parser.FakeClient{Default: &parser.Output{
		ExtractedData: map[string]any{
			"fuel_type":    "gasoline",
			"location":     "Shell on 5th",
			"from_account": "checking",
			"to_account":   "fuel_expense",
		},
	}}
	orch := newOrchestrator(fake)

	result, err := orch.ProcessCommand(context.Background(), "filled up with gas, $45, price per unit 3.459", "session-1")

	require.NoError(t, err)
	assert.Equal(t, model.StatusOK, result.Status)
	assert.Equal(t, model.EventPump, result.Classification.PrimaryEventType)
	assert.True(t, result.Primary.Result.OK)
}

func TestProcessCommand_ParserFailureIsNonFatal(t *testing.T) {
	// Maintenance only requires "cost", which keyword extraction can supply
	// on its own, so a parser failure here is genuinely recoverable.
	fake := &parser.FakeClient{Errors: map[string]error{
		"oil change, $59.99": &commanderrors.ParserError{Kind: commanderrors.ParserTimeout},
	}}
	orch := newOrchestrator(fake)

	result, err := orch.ProcessCommand(context.Background(), "oil change, $59.99", "")

	require.NoError(t, err)
	assert.Equal(t, model.StatusOK, result.Status)
	require.NotEmpty(t, result.Diagnostics)
	assert.Contains(t, result.Diagnostics[0], "parser call failed")
}

func TestProcessCommand_ClassifierFailureIsFatal(t *testing.T) {
	orch := newOrchestrator(&parser.FakeClient{})

	result, err := orch.ProcessCommand(context.Background(), "asdkjashd not a real command", "")

	require.Error(t, err)
	assert.Nil(t, result)
	var unclassifiable *commanderrors.UnclassifiableError
	assert.True(t, errors.As(err, &unclassifiable))
}

func TestProcessCommand_NilParserClientSkipsParserStage(t *testing.T) {
	orch := newOrchestrator(nil)

	result, err := orch.ProcessCommand(context.Background(), "oil change, $59.99", "")

	require.NoError(t, err)
	assert.Equal(t, model.StatusOK, result.Status)
}

func TestProcessCommand_CancelledContextPropagatesToDispatch(t *testing.T) {
	orch := newOrchestrator(&parser.FakeClient{})

	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	time.Sleep(time.Millisecond)

	result, err := orch.ProcessCommand(ctx, "oil change, $59.99", "")

	require.NoError(t, err)
	assert.Equal(t, model.StatusError, result.Status)
}
