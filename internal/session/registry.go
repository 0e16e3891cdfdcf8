// Package session owns the single-session state of the gateway: the active
// connection slot and the event loop that serializes all mutation of it.
package session

import (
	"log/slog"
	"sync"

	"github.com/DYAI2025/Vipe-minecraft-modder/internal/transport"
)

// Registry holds the single active connection, or none. A later Attach
// unconditionally supersedes the previous connection; Detach only clears
// the slot when it still holds the detaching connection, so a stale detach
// from a replaced session cannot clobber a newer one.
//
// Mutation is expected to happen on the session loop; Current may be read
// from anywhere.
type Registry struct {
	mu   sync.RWMutex
	conn transport.Connection
	log  *slog.Logger
}

func NewRegistry(log *slog.Logger) *Registry {
	if log == nil {
		log = slog.Default()
	}
	return &Registry{log: log.With("component", "registry")}
}

func (r *Registry) Attach(conn transport.Connection) {
	r.mu.Lock()
	prev := r.conn
	r.conn = conn
	r.mu.Unlock()

	if prev != nil && prev != conn {
		// The old connection is superseded, not closed; it discovers its
		// replacement when its read loop ends.
		r.log.Warn("existing connection superseded by new attach")
	}
}

func (r *Registry) Current() (transport.Connection, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.conn, r.conn != nil
}

func (r *Registry) Detach(conn transport.Connection) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.conn == conn {
		r.conn = nil
	}
}
