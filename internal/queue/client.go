// Package queue carries deferred lead deliveries from the API to the worker.
package queue

import "context"

// Client enqueues a lead delivery request.
type Client interface {
	Send(ctx context.Context, msg Message) error
}

// ClientFunc adapts a function to Client.
type ClientFunc func(ctx context.Context, msg Message) error

// Send calls f.
func (f ClientFunc) Send(ctx context.Context, msg Message) error { return f(ctx, msg) }
