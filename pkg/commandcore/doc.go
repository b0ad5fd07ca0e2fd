/*
Package commandcore is the top-level entry point for the command
orchestration core: it wires the Parser Client, Classifier, and Dispatcher
into a single ProcessCommand call.

# Basic Usage

Build the immutable dependencies once at startup, then process commands
concurrently:

	cat := catalog.New(catalog.Builtin())
	handlers := dispatch.NewRegistry()
	handlers.Register(model.ModuleFleet, fleetHandler)

	orch := commandcore.New(parserClient, cat, handlers, config.DefaultSettings(),
	    commandcore.WithLogger(logger),
	    commandcore.WithMetrics(observability.NewMetricsRecorder()),
	    commandcore.WithTracing(observability.NewSpanManager()),
	)

	result, err := orch.ProcessCommand(ctx, "filled up the f-150 for $62", "session-1")

# Stages

ProcessCommand is a thin composition layer over three stages, each wrapped
in a span and timed for metrics:

  - parse: calls the Parser Client. A parser failure is never fatal — the
    classifier proceeds with a nil parser output and the failure is folded
    into the result's diagnostics.
  - classify: calls the Classifier. A classifier failure is fatal and is
    returned to the caller without invoking the dispatcher.
  - dispatch: calls the Dispatcher and returns its composed CommandResult.

Cancellation propagates into both the parser call and the dispatcher; it
does not apply to the classifier, which is a pure, non-blocking function.
*/
package commandcore
