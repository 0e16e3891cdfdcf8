package recognition

import (
	"log/slog"
	"sync"
	"time"
)

// Disabled stands in when the stt sidecar cannot be reached. There is no
// fallback engine for recognition, so frames are dropped with a rate-
// limited warning and the rest of the session keeps working.
type Disabled struct {
	log *slog.Logger

	mu       sync.Mutex
	lastWarn time.Time
}

const warnInterval = 10 * time.Second

func NewDisabled(log *slog.Logger) *Disabled {
	if log == nil {
		log = slog.Default()
	}
	return &Disabled{log: log.With("component", "recognition")}
}

func (d *Disabled) Feed(frame []byte) error {
	if len(frame) == 0 {
		return nil
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if time.Since(d.lastWarn) >= warnInterval {
		d.log.Warn("speech recognition unavailable, dropping audio", "bytes", len(frame))
		d.lastWarn = time.Now()
	}
	return nil
}

func (d *Disabled) Close() error {
	return nil
}
