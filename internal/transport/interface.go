// Package transport defines the connection surface the session core sends
// through, independent of the concrete WebSocket implementation.
package transport

import (
	"context"

	"github.com/DYAI2025/Vipe-minecraft-modder/internal/events"
)

// Connection is a single client attachment. Send preserves the order in
// which envelopes are handed to it, and sending on a dead connection is a
// swallowed no-op rather than an error that propagates into the pipeline.
type Connection interface {
	Send(ctx context.Context, env events.Envelope) error
	IsConnected() bool
	Close() error
}
