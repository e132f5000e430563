// Package publisher provides the no-op publisher used when scrape
// events are disabled. Real providers live in the subpackages.
package publisher

import "context"

// NoOp discards every message.
type NoOp struct{}

// NewNoOp returns a publisher that drops messages.
func NewNoOp() *NoOp {
	return &NoOp{}
}

// Publish drops the payload and reports a synthetic message ID.
func (NoOp) Publish(context.Context, string, any) (string, error) {
	return "noop", nil
}
