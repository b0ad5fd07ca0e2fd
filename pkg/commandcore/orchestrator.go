package commandcore

import (
	"context"

	"github.com/limos-platform/commandcore/pkg/commandcore/catalog"
	"github.com/limos-platform/commandcore/pkg/commandcore/classify"
	"github.com/limos-platform/commandcore/pkg/commandcore/config"
	"github.com/limos-platform/commandcore/pkg/commandcore/dispatch"
	commanderrors "github.com/limos-platform/commandcore/pkg/commandcore/errors"
	"github.com/limos-platform/commandcore/pkg/commandcore/model"
	"github.com/limos-platform/commandcore/pkg/commandcore/observability"
	"github.com/limos-platform/commandcore/pkg/commandcore/parser"
)

// Orchestrator is the thin composition layer of spec §4.6: it wires the
// Parser Client, Classifier, and Dispatcher into one ProcessCommand call.
// It holds no per-command state and is safe for concurrent use once built.
type Orchestrator struct {
	parser     parser.Client
	classifier *classify.Classifier
	dispatcher *dispatch.Dispatcher
	settings   config.Settings
	cfg        runConfig
}

// New builds an Orchestrator. cat and handlers are treated as the
// immutable, already-populated Event Catalog and Handler Registry (spec
// §5): build them once at startup and share them across every Orchestrator
// call.
func New(parserClient parser.Client, cat *catalog.Catalog, handlers *dispatch.Registry, settings config.Settings, opts ...Option) *Orchestrator {
	cfg := defaultRunConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	classifier := classify.New(cat, classify.Options{
		MinConfidence:              settings.MinConfidence,
		SecondaryConfidencePenalty: settings.SecondaryConfidencePenalty,
	})

	dispatcher := dispatch.New(handlers, dispatch.Options{
		PrimaryRetry: commanderrors.RetryConfig{
			MaxAttempts:    settings.PrimaryRetryAttempts,
			InitialBackoff: settings.BackoffInitial,
			MaxBackoff:     settings.BackoffMax,
			BackoffFactor:  settings.BackoffFactor,
			Jitter:         0.1,
		},
		SecondaryRetry: commanderrors.RetryConfig{
			MaxAttempts:    settings.SecondaryRetryAttempts,
			InitialBackoff: settings.BackoffInitial,
			MaxBackoff:     settings.BackoffMax,
			BackoffFactor:  settings.BackoffFactor,
			Jitter:         0.1,
		},
		MaxParallel: settings.MaxParallel,
		Metrics:     cfg.metrics,
	})

	return &Orchestrator{
		parser:     parserClient,
		classifier: classifier,
		dispatcher: dispatcher,
		settings:   settings,
		cfg:        cfg,
	}
}

// ProcessCommand implements spec §4.6 and the inbound interface of §6:
// process_command(utterance, session_id?) -> CommandResult.
//
// The Parser Client call is non-fatal: a parser failure (timeout,
// unavailability, malformed output) is folded into the result's
// diagnostics and the classifier proceeds with a nil parser output. A
// classifier failure is fatal and is returned without invoking the
// dispatcher. ctx's deadline and cancellation propagate into both the
// parser call and the dispatcher.
func (o *Orchestrator) ProcessCommand(ctx context.Context, utterance, sessionID string) (result *model.CommandResult, err error) {
	commandID := newCommandID()
	logger := observability.EnrichLogger(o.cfg.logger, commandID, "", "")
	if sessionID != "" {
		logger = logger.With("session_id", sessionID)
	}
	ctx = contextWithLogger(ctx, logger)

	elapsed := observability.TimedOperation()
	ctx, commandSpan := o.cfg.spans.StartCommandSpan(ctx, commandID)
	defer func() { o.cfg.spans.EndSpanWithError(commandSpan, err) }()

	observability.LogCommandStart(logger, commandID, utterance)

	parserOutput, diagnostics := o.runParser(ctx, commandID, utterance)

	classification, classifyDiags, classifyErr := o.runClassifier(ctx, utterance, parserOutput)
	diagnostics = append(diagnostics, classifyDiags...)
	if classifyErr != nil {
		err = classifyErr
		observability.LogCommandError(logger, commandID, err, elapsed())
		return nil, err
	}

	result = o.runDispatcher(ctx, classification)
	result.Diagnostics = append(diagnostics, result.Diagnostics...)

	observability.LogCommandComplete(logger, commandID, string(result.Status), elapsed(), result.EventsProcessed)
	return result, nil
}

// runParser calls the Parser Client, downgrading any error to a
// diagnostic. Returns a nil output when the call failed or was skipped
// because ctx was already cancelled.
func (o *Orchestrator) runParser(ctx context.Context, commandID, utterance string) (*parser.Output, []string) {
	if o.parser == nil {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, []string{(&commanderrors.CancelledError{Stage: "parser", Err: err}).Error()}
	}

	if o.settings.ParserTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.settings.ParserTimeout)
		defer cancel()
	}

	logger := loggerFromContext(ctx)
	elapsed := observability.TimedOperation()
	ctx, span := o.cfg.spans.StartStageSpan(ctx, "parse")

	output, err := o.parser.Interpret(ctx, utterance)

	durationMs := elapsed()
	observability.LogParserCall(logger, commandID, durationMs, err)
	o.cfg.spans.EndSpanWithError(span, err)

	if err != nil {
		return nil, []string{"parser call failed: " + err.Error()}
	}
	return output, nil
}

// runClassifier calls the Classifier, recording its outcome.
func (o *Orchestrator) runClassifier(ctx context.Context, utterance string, parserOutput *parser.Output) (*model.ClassificationResult, []string, error) {
	logger := loggerFromContext(ctx)
	ctx, span := o.cfg.spans.StartStageSpan(ctx, "classify")

	result, diags, err := o.classifier.Classify(utterance, parserOutput)

	source := ""
	eventType := ""
	confidence := 0.0
	if result != nil {
		source = string(result.Source)
		eventType = string(result.Primary.EventType)
		confidence = result.Primary.Confidence
	}
	o.cfg.metrics.RecordClassification(ctx, eventType, source, confidence, err)
	o.cfg.spans.EndSpanWithError(span, err)

	if err != nil {
		logger.Error("classification failed", "error", err)
		return nil, []string(diags), err
	}
	return result, []string(diags), nil
}

// runDispatcher calls the Dispatcher, propagating ctx's deadline and
// cancellation into every handler invocation.
func (o *Orchestrator) runDispatcher(ctx context.Context, classification *model.ClassificationResult) *model.CommandResult {
	ctx, span := o.cfg.spans.StartStageSpan(ctx, "dispatch")
	result := o.dispatcher.Dispatch(ctx, classification)
	o.cfg.spans.EndSpanWithError(span, nil)
	return result
}
