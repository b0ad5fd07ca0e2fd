// Package dispatch implements the Handler Registry and Dispatcher (spec
// §4.4, §4.5): looking up the handler for an event's module, invoking the
// primary synchronously, fanning secondaries out concurrently bounded by a
// configurable parallelism, and composing a single CommandResult.
package dispatch

import (
	"context"

	"github.com/limos-platform/commandcore/pkg/commandcore/model"
	"github.com/limos-platform/commandcore/pkg/commandcore/registry"
)

// Handler is the uniform contract every domain module implements (spec
// §4.4): invoke an action against a classified event by its declared
// deadline. The returned error is non-nil only for transient failures
// (timeout, temporary unavailability) the dispatcher may retry; a
// handler-level business failure is reported through HandlerResult.Error
// instead and is never retried.
type Handler interface {
	Invoke(ctx context.Context, action string, event model.ClassifiedEvent) (model.HandlerResult, error)
}

// HandlerFunc adapts a plain function to Handler.
type HandlerFunc func(ctx context.Context, action string, event model.ClassifiedEvent) (model.HandlerResult, error)

// Invoke implements Handler.
func (f HandlerFunc) Invoke(ctx context.Context, action string, event model.ClassifiedEvent) (model.HandlerResult, error) {
	return f(ctx, action, event)
}

// Registry maps a Module to the Handler that serves it. It is immutable
// after startup (spec §5: "Event Catalog and Handler Registry are immutable
// after startup and may be read without locks").
type Registry struct {
	handlers *registry.Registry[model.Module, Handler]
}

// NewRegistry builds an empty Handler Registry.
func NewRegistry() *Registry {
	return &Registry{handlers: registry.New[model.Module, Handler]()}
}

// Register associates module with handler, overwriting any previous
// registration.
func (r *Registry) Register(module model.Module, handler Handler) {
	r.handlers.Register(module, handler)
}

// HandlerFor returns the handler registered for module, or (nil, false) if
// none is registered.
func (r *Registry) HandlerFor(module model.Module) (Handler, bool) {
	return r.handlers.Get(module)
}
