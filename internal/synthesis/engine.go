package synthesis

import (
	"context"
	"log/slog"
	"sync"
)

type EngineConfig struct {
	SidecarAddr string
	VoicePath   string
	Language    string
}

// Engine picks the best available synthesizer at startup and tracks the
// active voice profile so redundant SetVoice calls stay cheap.
type Engine struct {
	log *slog.Logger

	mu      sync.Mutex
	active  Synthesizer
	backend string
	profile string
}

// NewEngine prefers the XTTS sidecar and degrades to the system speech
// command when the sidecar cannot be reached. Only when both engines are
// unavailable does startup fail.
func NewEngine(cfg EngineConfig, log *slog.Logger) (*Engine, error) {
	if log == nil {
		log = slog.Default()
	}
	log = log.With("component", "synthesis")

	client, err := NewClient(ClientConfig{
		Addr:      cfg.SidecarAddr,
		VoicePath: cfg.VoicePath,
		Language:  cfg.Language,
	}, log)
	if err == nil {
		return &Engine{log: log, active: client, backend: "xtts", profile: cfg.VoicePath}, nil
	}
	log.Error("tts sidecar init failed, falling back to system speech", "error", err)

	system, sysErr := NewSystem(cfg.Language, log)
	if sysErr != nil {
		return nil, sysErr
	}
	return &Engine{log: log, active: system, backend: "system", profile: cfg.VoicePath}, nil
}

// Backend names the engine selected at startup, "xtts" or "system".
func (e *Engine) Backend() string {
	return e.backend
}

func (e *Engine) Speak(ctx context.Context, fragments <-chan string) error {
	e.mu.Lock()
	active := e.active
	e.mu.Unlock()
	return active.Speak(ctx, fragments)
}

func (e *Engine) SetVoice(profilePath string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if profilePath == e.profile {
		e.log.Debug("voice profile unchanged", "path", profilePath)
		return nil
	}
	if err := e.active.SetVoice(profilePath); err != nil {
		return err
	}
	e.profile = profilePath
	return nil
}

func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.active.Close()
}
