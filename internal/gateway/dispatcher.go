package gateway

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/DYAI2025/Vipe-minecraft-modder/internal/events"
	"github.com/DYAI2025/Vipe-minecraft-modder/internal/pipeline"
	"github.com/DYAI2025/Vipe-minecraft-modder/internal/recognition"
	"github.com/DYAI2025/Vipe-minecraft-modder/internal/shared"
	"github.com/DYAI2025/Vipe-minecraft-modder/internal/synthesis"
	"github.com/DYAI2025/Vipe-minecraft-modder/internal/transport"
)

const (
	audioQueueSize = 256
	errSendTimeout = 5 * time.Second
)

// ProfileChecker answers whether a voice profile exists on disk.
type ProfileChecker interface {
	Exists(path string) bool
}

// Dispatcher routes decoded frames to their handlers. Text frames are
// handled on the session loop; binary audio goes to a dedicated feed
// worker so a slow recognizer can never stall the loop.
type Dispatcher struct {
	orch       *pipeline.Orchestrator
	recognizer recognition.Recognizer
	synth      synthesis.Synthesizer
	profiles   ProfileChecker
	log        *slog.Logger

	audio     chan []byte
	closeOnce sync.Once
	done      chan struct{}
}

func NewDispatcher(orch *pipeline.Orchestrator, recognizer recognition.Recognizer, synth synthesis.Synthesizer, profiles ProfileChecker, log *slog.Logger) *Dispatcher {
	if log == nil {
		log = slog.Default()
	}
	d := &Dispatcher{
		orch:       orch,
		recognizer: recognizer,
		synth:      synth,
		profiles:   profiles,
		log:        log.With("component", "gateway"),
		audio:      make(chan []byte, audioQueueSize),
		done:       make(chan struct{}),
	}
	go d.feedWorker()
	return d
}

// HandleText processes one inbound JSON frame. Every failure produces
// exactly one error.raised on the same connection; the session survives.
func (d *Dispatcher) HandleText(conn transport.Connection, data []byte) {
	env, err := events.Decode(data)
	if err != nil {
		d.sendError(conn, shared.AsGatewayError(err))
		return
	}

	switch env.Type {
	case events.TypeChatQuery:
		p := env.Payload.(*events.ChatQueryPayload)
		if err := d.orch.StartTextTurn(p.Text); err != nil {
			d.sendError(conn, shared.AsGatewayError(err))
		}
	case events.TypeUiCommand:
		d.handleCommand(conn, env.Payload.(*events.UiCommandPayload))
	default:
		// recognized but not actionable server-side
		d.log.Debug("ignoring client event", "type", env.Type)
	}
}

func (d *Dispatcher) handleCommand(conn transport.Connection, p *events.UiCommandPayload) {
	switch p.Command {
	case "set_profile":
		path, _ := p.Args["path"].(string)
		if path == "" || !d.profiles.Exists(path) {
			// tolerated: no feedback, no error, session untouched
			d.log.Warn("set_profile with unknown path", "path", path)
			return
		}
		if err := d.synth.SetVoice(path); err != nil {
			d.sendError(conn, shared.Pipeline("voice switch failed").WithDetails(map[string]any{"path": path}))
			return
		}
		d.sendEnvelope(conn, events.New(events.TypeUiFeedback, "server", events.SeverityInfo, &events.UiFeedbackPayload{
			Target:  "set_profile",
			Helpful: true,
			Note:    path,
		}))
	default:
		d.log.Debug("ignoring ui command", "command", p.Command)
	}
}

// HandleBinary enqueues one PCM frame for the recognizer. Empty frames
// are valid keepalives and ignored. Called from the read goroutine, never
// from the loop; frames arriving after Close are dropped.
func (d *Dispatcher) HandleBinary(frame []byte) {
	if len(frame) == 0 {
		return
	}
	select {
	case <-d.done:
		return
	default:
	}
	select {
	case d.audio <- frame:
	default:
		d.log.Warn("audio queue full, dropping frame", "bytes", len(frame))
	}
}

func (d *Dispatcher) feedWorker() {
	for {
		select {
		case frame := <-d.audio:
			if err := d.recognizer.Feed(frame); err != nil {
				d.log.Warn("recognizer rejected frame", "error", err)
			}
		case <-d.done:
			return
		}
	}
}

func (d *Dispatcher) sendError(conn transport.Connection, gerr *shared.GatewayError) {
	d.log.Warn("raising client error", "code", string(gerr.Code), "message", gerr.Message)
	d.sendEnvelope(conn, events.NewError("server", gerr))
}

func (d *Dispatcher) sendEnvelope(conn transport.Connection, env events.Envelope) {
	ctx, cancel := context.WithTimeout(context.Background(), errSendTimeout)
	defer cancel()
	if err := conn.Send(ctx, env); err != nil {
		d.log.Warn("event delivery failed", "type", env.Type, "error", err)
	}
}

// Close stops the audio feed worker. The audio channel itself is never
// closed: a websocket read loop may still be delivering frames while the
// app shuts down, and those are simply dropped.
func (d *Dispatcher) Close() error {
	d.closeOnce.Do(func() { close(d.done) })
	return nil
}
