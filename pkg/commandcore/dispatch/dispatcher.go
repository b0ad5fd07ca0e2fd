package dispatch

import (
	"context"
	stderrors "errors"
	"log/slog"
	"sync"
	"time"

	commanderrors "github.com/limos-platform/commandcore/pkg/commandcore/errors"
	"github.com/limos-platform/commandcore/pkg/commandcore/model"
	"github.com/limos-platform/commandcore/pkg/commandcore/observability"
)

// defaultAction is used when the caller does not need per-event-type action
// names; most handlers in this module key entirely off event_type.
const defaultAction = "process"

// Options configures a Dispatcher (spec §6: dispatch.primary_retry,
// dispatch.secondary_retry, dispatch.max_parallel, backoff settings).
type Options struct {
	PrimaryRetry   commanderrors.RetryConfig
	SecondaryRetry commanderrors.RetryConfig
	MaxParallel    int

	// Metrics records per-handler invocation outcomes. Defaults to a no-op
	// recorder when left nil.
	Metrics observability.MetricsRecorder
}

// DefaultOptions matches the spec's enumerated defaults.
func DefaultOptions() Options {
	return Options{
		PrimaryRetry:   commanderrors.PrimaryRetry,
		SecondaryRetry: commanderrors.SecondaryRetry,
		MaxParallel:    8,
		Metrics:        observability.NoopMetrics{},
	}
}

// Dispatcher implements spec §4.5: primary-first invocation with retry,
// concurrent secondary fan-out bounded by MaxParallel, and deterministic
// result composition.
type Dispatcher struct {
	registry *Registry
	opts     Options
}

// New builds a Dispatcher over reg with opts.
func New(reg *Registry, opts Options) *Dispatcher {
	if opts.Metrics == nil {
		opts.Metrics = observability.NoopMetrics{}
	}
	return &Dispatcher{registry: reg, opts: opts}
}

// Dispatch runs classification's primary and secondary events to
// completion, respecting ctx's deadline, and returns the composed
// CommandResult (spec §4.5 steps 1-4).
func (d *Dispatcher) Dispatch(ctx context.Context, classification *model.ClassificationResult) *model.CommandResult {
	elapsed := observability.TimedOperation()
	result := d.dispatch(ctx, classification)
	d.opts.Metrics.RecordDispatch(ctx, string(result.Status), time.Duration(elapsed())*time.Millisecond)
	return result
}

func (d *Dispatcher) dispatch(ctx context.Context, classification *model.ClassificationResult) *model.CommandResult {
	primaryResult, primaryErr := d.invokePrimary(ctx, classification.Primary)

	primaryDispatched := model.DispatchedEvent{
		EventType: classification.Primary.EventType,
		Module:    classification.Primary.Module,
		Result:    primaryResult,
	}

	result := &model.CommandResult{
		EventsProcessed: 1,
		Primary:         primaryDispatched,
		Classification: model.ClassificationSummary{
			PrimaryEventType: classification.Primary.EventType,
			Source:           classification.Source,
			Confidence:       classification.Primary.Confidence,
			UnresolvedFields: classification.Unresolved,
		},
	}

	if primaryErr != nil || !primaryResult.OK {
		result.Status = model.StatusError
		if primaryErr != nil {
			result.Diagnostics = append(result.Diagnostics, "primary handler failed: "+primaryErr.Error())
		}
		return result
	}

	secondaryResults := d.dispatchSecondaries(ctx, classification.Secondaries)
	result.Secondaries = secondaryResults
	result.EventsProcessed += len(secondaryResults)

	status := model.StatusOK
	for _, s := range secondaryResults {
		if !s.Result.OK {
			status = model.StatusPartial
			break
		}
	}
	result.Status = status

	return result
}

func (d *Dispatcher) invokePrimary(ctx context.Context, event model.ClassifiedEvent) (model.HandlerResult, error) {
	handler, ok := d.registry.HandlerFor(event.Module)
	if !ok {
		err := &commanderrors.HandlerNotFoundError{Module: string(event.Module)}
		return model.HandlerResult{OK: false, Error: &model.HandlerError{Kind: "handler_not_found", Message: err.Error()}}, nil
	}

	retryResult := commanderrors.WithRetryContext(ctx, d.opts.PrimaryRetry, func(ctx context.Context) (model.HandlerResult, error) {
		return handler.Invoke(ctx, defaultAction, event)
	})

	d.opts.Metrics.RecordHandlerInvocation(ctx, string(event.Module), false, retryResult.Duration, retryResult.Err)

	if retryResult.Err != nil {
		slog.ErrorContext(ctx, "primary handler failed",
			"event_type", event.EventType,
			"module", event.Module,
			"attempts", retryResult.Attempts,
			"error", retryResult.Err,
		)
		return model.HandlerResult{OK: false, Error: &model.HandlerError{Kind: "transient", Message: retryResult.Err.Error()}}, retryResult.Err
	}

	slog.InfoContext(ctx, "primary handler completed",
		"event_type", event.EventType,
		"module", event.Module,
		"attempts", retryResult.Attempts,
		"duration_ms", retryResult.Duration.Milliseconds(),
	)

	return retryResult.Value, nil
}

// dispatchSecondaries runs events concurrently, bounded by MaxParallel, and
// returns their results in declaration order regardless of completion order
// (spec §4.5 step 3).
func (d *Dispatcher) dispatchSecondaries(ctx context.Context, events []model.ClassifiedEvent) []model.DispatchedEvent {
	if len(events) == 0 {
		return nil
	}

	results := make([]model.DispatchedEvent, len(events))

	var sem chan struct{}
	if d.opts.MaxParallel > 0 {
		sem = make(chan struct{}, d.opts.MaxParallel)
	}

	perHandlerDeadline := d.computeSecondaryDeadline(ctx, len(events))

	var wg sync.WaitGroup
	for i, event := range events {
		wg.Add(1)
		go func(idx int, ev model.ClassifiedEvent) {
			defer wg.Done()

			if sem != nil {
				select {
				case sem <- struct{}{}:
					defer func() { <-sem }()
				case <-ctx.Done():
					results[idx] = timeoutDispatch(ev)
					return
				}
			}

			handlerCtx := ctx
			var cancel context.CancelFunc
			if perHandlerDeadline > 0 {
				handlerCtx, cancel = context.WithTimeout(ctx, perHandlerDeadline)
				defer cancel()
			}

			results[idx] = d.invokeSecondary(handlerCtx, ev)
		}(i, event)
	}
	wg.Wait()

	return results
}

func (d *Dispatcher) invokeSecondary(ctx context.Context, event model.ClassifiedEvent) model.DispatchedEvent {
	handler, ok := d.registry.HandlerFor(event.Module)
	if !ok {
		err := &commanderrors.HandlerNotFoundError{Module: string(event.Module)}
		return model.DispatchedEvent{
			EventType: event.EventType,
			Module:    event.Module,
			Result:    model.HandlerResult{OK: false, Error: &model.HandlerError{Kind: "handler_not_found", Message: err.Error()}},
		}
	}

	retryResult := commanderrors.WithRetryContext(ctx, d.opts.SecondaryRetry, func(ctx context.Context) (model.HandlerResult, error) {
		return handler.Invoke(ctx, defaultAction, event)
	})

	d.opts.Metrics.RecordHandlerInvocation(ctx, string(event.Module), true, retryResult.Duration, retryResult.Err)

	if retryResult.Err != nil {
		slog.WarnContext(ctx, "secondary handler failed",
			"event_type", event.EventType,
			"module", event.Module,
			"attempts", retryResult.Attempts,
			"error", retryResult.Err,
		)
		kind := "transient"
		var cancelled *commanderrors.CancelledError
		if stderrors.As(retryResult.Err, &cancelled) {
			kind = "timeout"
		}
		return model.DispatchedEvent{
			EventType: event.EventType,
			Module:    event.Module,
			Result:    model.HandlerResult{OK: false, Error: &model.HandlerError{Kind: kind, Message: retryResult.Err.Error()}},
		}
	}

	return model.DispatchedEvent{EventType: event.EventType, Module: event.Module, Result: retryResult.Value}
}

func timeoutDispatch(event model.ClassifiedEvent) model.DispatchedEvent {
	return model.DispatchedEvent{
		EventType: event.EventType,
		Module:    event.Module,
		Result:    model.HandlerResult{OK: false, Error: &model.HandlerError{Kind: "timeout", Message: "deadline exceeded before dispatch"}},
	}
}

// computeSecondaryDeadline implements spec §4.5 step 4: per-handler
// deadline = max(50ms, remaining/remaining_tasks). Returns 0 (no per-call
// deadline beyond ctx's own) when ctx carries no deadline.
func (d *Dispatcher) computeSecondaryDeadline(ctx context.Context, remainingTasks int) time.Duration {
	deadline, ok := ctx.Deadline()
	if !ok || remainingTasks == 0 {
		return 0
	}
	remaining := time.Until(deadline)
	if remaining <= 0 {
		return 50 * time.Millisecond
	}
	per := remaining / time.Duration(remainingTasks)
	if per < 50*time.Millisecond {
		return 50 * time.Millisecond
	}
	return per
}
