package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/DYAI2025/Vipe-minecraft-modder/internal/events"
	"github.com/DYAI2025/Vipe-minecraft-modder/internal/generation"
	"github.com/DYAI2025/Vipe-minecraft-modder/internal/session"
	"github.com/DYAI2025/Vipe-minecraft-modder/internal/shared"
	"github.com/DYAI2025/Vipe-minecraft-modder/internal/synthesis"
)

const (
	pipelineID  = "voice_chat"
	sendTimeout = 5 * time.Second
)

// Orchestrator drives one turn at a time through generation and speech.
// All state mutation and all outbound sends happen on the session loop;
// the generation/synthesis work itself runs on a per-turn worker.
type Orchestrator struct {
	registry *session.Registry
	loop     *session.Loop
	gen      generation.Generator
	synth    synthesis.Synthesizer
	log      *slog.Logger

	mu   sync.Mutex
	step Step
	turn *Turn

	cancelMu sync.Mutex
	cancel   context.CancelFunc
}

func NewOrchestrator(registry *session.Registry, loop *session.Loop, gen generation.Generator, synth synthesis.Synthesizer, log *slog.Logger) *Orchestrator {
	if log == nil {
		log = slog.Default()
	}
	return &Orchestrator{
		registry: registry,
		loop:     loop,
		gen:      gen,
		synth:    synth,
		log:      log.With("component", "pipeline"),
		step:     StepIdle,
	}
}

// Step reports the current pipeline position; safe from any goroutine.
func (o *Orchestrator) Step() Step {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.step
}

func (o *Orchestrator) busy() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.step != StepIdle
}

func (o *Orchestrator) setStep(step Step) {
	o.mu.Lock()
	o.step = step
	o.mu.Unlock()
}

// OnFinalTranscript handles a finished recognition result. Must run on
// the session loop. Whitespace-only transcripts are inert; a transcript
// arriving mid-turn is dropped rather than queued.
func (o *Orchestrator) OnFinalTranscript(text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	if o.busy() {
		o.log.Warn("dropping transcript, turn in progress", "step", o.Step())
		return
	}

	o.setStep(StepListening)
	o.send(events.New(events.TypeSttFinal, "server", events.SeverityInfo, &events.SttFinalPayload{
		Text:       text,
		Confidence: 1,
		Final:      true,
	}))
	o.startTurn(InputVoice, text)
}

// StartTextTurn handles a chat.query. Must run on the session loop.
func (o *Orchestrator) StartTextTurn(text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return shared.Protocol("chat.query text is empty")
	}
	if o.busy() {
		return shared.PipelineBusy("a turn is already in progress")
	}
	o.startTurn(InputText, text)
	return nil
}

func (o *Orchestrator) startTurn(input InputKind, text string) {
	turn := &Turn{
		ID:        uuid.New().String(),
		Input:     input,
		Text:      text,
		StartedAt: time.Now().UTC(),
	}
	o.mu.Lock()
	o.step = StepThinking
	o.turn = turn
	o.mu.Unlock()

	o.log.Info("turn started", "turn", turn.ID, "input", string(input))
	o.send(events.New(events.TypePipelineStatus, "server", events.SeverityInfo, &events.PipelineStatusPayload{
		PipelineID: pipelineID,
		Step:       "llm",
		State:      "start",
	}))

	ctx, cancel := context.WithCancel(context.Background())
	o.cancelMu.Lock()
	o.cancel = cancel
	o.cancelMu.Unlock()

	go o.runTurn(ctx, cancel, turn)
}

// runTurn executes generation and playback off the loop and reports the
// outcome back through it. The turn context is cancelled on exit so a
// generation producer left undrained by a synthesis failure can stop.
func (o *Orchestrator) runTurn(ctx context.Context, cancel context.CancelFunc, turn *Turn) {
	defer cancel()
	defer func() {
		if r := recover(); r != nil {
			o.finish(turn, fmt.Errorf("turn worker panic: %v", r))
		}
	}()

	stream, err := o.gen.Generate(ctx, turn.Text)
	if err != nil {
		o.finish(turn, fmt.Errorf("generation: %w", err))
		return
	}

	o.setStep(StepSpeaking)
	if err := o.synth.Speak(ctx, stream.Fragments()); err != nil {
		o.finish(turn, fmt.Errorf("synthesis: %w", err))
		return
	}
	if err := stream.Err(); err != nil {
		o.finish(turn, fmt.Errorf("generation: %w", err))
		return
	}
	o.finish(turn, nil)
}

// finish schedules the completion back onto the loop. If the loop is
// already closed the process is shutting down and the outcome is logged
// instead.
func (o *Orchestrator) finish(turn *Turn, err error) {
	scheduleErr := o.loop.Schedule(func() {
		o.complete(turn, err)
	})
	if scheduleErr != nil {
		o.log.Error("turn outcome lost, loop closed", "turn", turn.ID, "error", err)
	}
}

func (o *Orchestrator) complete(turn *Turn, err error) {
	if err != nil {
		o.setStep(StepError)
		o.log.Error("turn failed", "turn", turn.ID, "input", string(turn.Input), "error", err)
		if turn.Input == InputText {
			gerr := shared.Pipeline("turn failed").WithDetails(map[string]any{"turnId": turn.ID})
			o.send(events.NewError("server", gerr))
		}
	} else {
		o.setStep(StepDone)
		o.log.Info("turn finished", "turn", turn.ID, "elapsed", time.Since(turn.StartedAt))
		o.send(events.New(events.TypePipelineStatus, "server", events.SeverityInfo, &events.PipelineStatusPayload{
			PipelineID: pipelineID,
			Step:       "tts",
			State:      "done",
		}))
	}

	o.mu.Lock()
	o.step = StepIdle
	o.turn = nil
	o.mu.Unlock()
}

// send delivers to whatever connection is attached right now; with no
// client attached the event is dropped, never buffered.
func (o *Orchestrator) send(env events.Envelope) {
	conn, ok := o.registry.Current()
	if !ok {
		o.log.Debug("no client attached, dropping event", "type", env.Type)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()
	if err := conn.Send(ctx, env); err != nil {
		o.log.Warn("event delivery failed", "type", env.Type, "error", err)
	}
}

// Close aborts any in-flight turn worker.
func (o *Orchestrator) Close() error {
	o.cancelMu.Lock()
	defer o.cancelMu.Unlock()
	if o.cancel != nil {
		o.cancel()
	}
	return nil
}
