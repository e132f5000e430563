// Package storage provides the no-op blob store used when page
// snapshots are disabled. Real providers live in the subpackages.
package storage

import "context"

// NoOp discards every object and returns a synthetic URI.
type NoOp struct{}

// NewNoOp returns a blob store that discards writes.
func NewNoOp() *NoOp {
	return &NoOp{}
}

// PutObject drops the payload.
func (NoOp) PutObject(_ context.Context, path string, _ string, _ []byte) (string, error) {
	return "noop://" + path, nil
}
