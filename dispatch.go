package jido

import "context"

// Dispatcher publishes a signal to wherever its transport/routing layer
// sends it. Signal transport itself is an external collaborator (spec.md
// §1); the core only needs this seam so the Emit executor has something
// to submit to the task pool.
type Dispatcher interface {
	Dispatch(ctx context.Context, signal Signal, config any) error
}

// DispatcherFunc adapts a plain function to a Dispatcher.
type DispatcherFunc func(ctx context.Context, signal Signal, config any) error

func (f DispatcherFunc) Dispatch(ctx context.Context, signal Signal, config any) error {
	return f(ctx, signal, config)
}
