package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/DYAI2025/Vipe-minecraft-modder/internal/events"
	"github.com/DYAI2025/Vipe-minecraft-modder/internal/generation"
	"github.com/DYAI2025/Vipe-minecraft-modder/internal/session"
	"github.com/DYAI2025/Vipe-minecraft-modder/internal/shared"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeConn struct {
	mu   sync.Mutex
	sent []events.Envelope
}

func (f *fakeConn) Send(ctx context.Context, env events.Envelope) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, env)
	return nil
}

func (f *fakeConn) IsConnected() bool { return true }
func (f *fakeConn) Close() error      { return nil }

func (f *fakeConn) types() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.sent))
	for i, env := range f.sent {
		out[i] = env.Type
	}
	return out
}

func (f *fakeConn) envelopes() []events.Envelope {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]events.Envelope(nil), f.sent...)
}

type fakeGen struct {
	mu        sync.Mutex
	calls     []string
	lastCtx   context.Context
	fragments []string
	streamErr error
	genErr    error
}

func (g *fakeGen) Generate(ctx context.Context, userText string) (*generation.Stream, error) {
	g.mu.Lock()
	g.calls = append(g.calls, userText)
	g.lastCtx = ctx
	g.mu.Unlock()
	if g.genErr != nil {
		return nil, g.genErr
	}
	stream := generation.NewStream(len(g.fragments) + 1)
	for _, f := range g.fragments {
		stream.Push(f)
	}
	stream.CloseWith(g.streamErr)
	return stream, nil
}

func (g *fakeGen) Reset() {}

func (g *fakeGen) callCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.calls)
}

func (g *fakeGen) turnCtx() context.Context {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.lastCtx
}

type fakeSynth struct {
	mu      sync.Mutex
	spoken  []string
	err     error
	abort   bool          // when set, Speak fails without reading fragments
	release chan struct{} // when set, Speak blocks until closed
}

func (s *fakeSynth) Speak(ctx context.Context, fragments <-chan string) error {
	if s.abort {
		return s.err
	}
	var text string
	for f := range fragments {
		text += f
	}
	s.mu.Lock()
	s.spoken = append(s.spoken, text)
	release := s.release
	s.mu.Unlock()
	if release != nil {
		<-release
	}
	return s.err
}

func (s *fakeSynth) SetVoice(string) error { return nil }
func (s *fakeSynth) Close() error          { return nil }

func (s *fakeSynth) utterances() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.spoken...)
}

type harness struct {
	registry *session.Registry
	loop     *session.Loop
	gen      *fakeGen
	synth    *fakeSynth
	orch     *Orchestrator
}

func newHarness(t *testing.T, gen *fakeGen, synth *fakeSynth) *harness {
	t.Helper()
	registry := session.NewRegistry(testLogger())
	loop := session.NewLoop(testLogger())
	go loop.Run()
	t.Cleanup(loop.Close)

	orch := NewOrchestrator(registry, loop, gen, synth, testLogger())
	t.Cleanup(func() { orch.Close() })
	return &harness{registry: registry, loop: loop, gen: gen, synth: synth, orch: orch}
}

func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal(msg)
}

func TestOrchestrator_TextTurnHappyPath(t *testing.T) {
	h := newHarness(t, &fakeGen{fragments: []string{"Hey", " du!"}}, &fakeSynth{})
	conn := &fakeConn{}
	h.registry.Attach(conn)

	if err := h.orch.StartTextTurn("wie baue ich ein schwert?"); err != nil {
		t.Fatalf("StartTextTurn failed: %v", err)
	}
	waitFor(t, func() bool { return h.orch.Step() == StepIdle && len(conn.types()) >= 2 },
		"turn did not complete")

	got := conn.types()
	if got[0] != events.TypePipelineStatus || got[len(got)-1] != events.TypePipelineStatus {
		t.Fatalf("unexpected event sequence %v", got)
	}
	first := conn.envelopes()[0].Payload.(*events.PipelineStatusPayload)
	last := conn.envelopes()[len(got)-1].Payload.(*events.PipelineStatusPayload)
	if first.Step != "llm" || first.State != "start" {
		t.Errorf("first status = %+v, want llm/start", first)
	}
	if last.Step != "tts" || last.State != "done" {
		t.Errorf("last status = %+v, want tts/done", last)
	}

	if spoken := h.synth.utterances(); len(spoken) != 1 || spoken[0] != "Hey du!" {
		t.Errorf("synthesizer spoke %v, want the joined fragments", spoken)
	}
}

func TestOrchestrator_BusyRejectsSecondCommand(t *testing.T) {
	release := make(chan struct{})
	synth := &fakeSynth{release: release}
	h := newHarness(t, &fakeGen{fragments: []string{"..."}}, synth)
	h.registry.Attach(&fakeConn{})

	if err := h.orch.StartTextTurn("erste frage"); err != nil {
		t.Fatalf("first turn rejected: %v", err)
	}
	waitFor(t, func() bool { return h.orch.Step() == StepSpeaking }, "turn never reached speaking")

	err := h.orch.StartTextTurn("zweite frage")
	gerr := shared.AsGatewayError(err)
	if gerr == nil || gerr.Code != shared.CodePipelineBusy {
		t.Fatalf("expected %s, got %v", shared.CodePipelineBusy, err)
	}

	close(release)
	waitFor(t, func() bool { return h.orch.Step() == StepIdle }, "turn never finished")
	if h.gen.callCount() != 1 {
		t.Errorf("rejected turn must not reach the generator, calls=%d", h.gen.callCount())
	}
}

func TestOrchestrator_WhitespaceTranscriptInert(t *testing.T) {
	h := newHarness(t, &fakeGen{}, &fakeSynth{})
	conn := &fakeConn{}
	h.registry.Attach(conn)

	h.orch.OnFinalTranscript("   \n\t ")

	time.Sleep(50 * time.Millisecond)
	if h.orch.Step() != StepIdle {
		t.Errorf("step = %s, want idle", h.orch.Step())
	}
	if h.gen.callCount() != 0 {
		t.Error("whitespace transcript must not start a turn")
	}
	if len(conn.types()) != 0 {
		t.Errorf("whitespace transcript must emit nothing, got %v", conn.types())
	}
}

func TestOrchestrator_VoiceTurnEmitsFinalTranscript(t *testing.T) {
	h := newHarness(t, &fakeGen{fragments: []string{"klar!"}}, &fakeSynth{})
	conn := &fakeConn{}
	h.registry.Attach(conn)

	h.orch.OnFinalTranscript("  baue eine burg  ")
	waitFor(t, func() bool { return h.orch.Step() == StepIdle && len(conn.types()) >= 3 },
		"voice turn did not complete")

	envs := conn.envelopes()
	if envs[0].Type != events.TypeSttFinal {
		t.Fatalf("first event = %s, want stt.final", envs[0].Type)
	}
	p := envs[0].Payload.(*events.SttFinalPayload)
	if p.Text != "baue eine burg" || p.Confidence != 1 || !p.Final {
		t.Errorf("stt.final payload = %+v", p)
	}
}

func TestOrchestrator_TranscriptDroppedWhileBusy(t *testing.T) {
	release := make(chan struct{})
	h := newHarness(t, &fakeGen{fragments: []string{"..."}}, &fakeSynth{release: release})
	h.registry.Attach(&fakeConn{})

	if err := h.orch.StartTextTurn("frage"); err != nil {
		t.Fatalf("turn rejected: %v", err)
	}
	waitFor(t, func() bool { return h.orch.Step() == StepSpeaking }, "turn never reached speaking")

	h.orch.OnFinalTranscript("zwischenruf")
	close(release)
	waitFor(t, func() bool { return h.orch.Step() == StepIdle }, "turn never finished")

	if h.gen.callCount() != 1 {
		t.Errorf("mid-turn transcript must be dropped, generator calls=%d", h.gen.callCount())
	}
}

func TestOrchestrator_CommandFailureRaisesPipelineError(t *testing.T) {
	h := newHarness(t, &fakeGen{genErr: errors.New("model offline")}, &fakeSynth{})
	conn := &fakeConn{}
	h.registry.Attach(conn)

	if err := h.orch.StartTextTurn("frage"); err != nil {
		t.Fatalf("StartTextTurn failed: %v", err)
	}
	waitFor(t, func() bool {
		for _, typ := range conn.types() {
			if typ == events.TypeErrorRaised {
				return true
			}
		}
		return false
	}, "no error.raised emitted")

	var raised *events.ErrorRaisedPayload
	for _, env := range conn.envelopes() {
		if env.Type == events.TypeErrorRaised {
			raised = env.Payload.(*events.ErrorRaisedPayload)
		}
	}
	if raised.Code != string(shared.CodePipeline) || !raised.Recoverable {
		t.Errorf("error payload = %+v", raised)
	}
	waitFor(t, func() bool { return h.orch.Step() == StepIdle }, "pipeline stuck after failure")
}

func TestOrchestrator_TurnContextCancelledOnSettle(t *testing.T) {
	gen := &fakeGen{fragments: []string{"hallo"}}
	synth := &fakeSynth{abort: true, err: errors.New("tts unreachable")}
	h := newHarness(t, gen, synth)
	h.registry.Attach(&fakeConn{})

	if err := h.orch.StartTextTurn("frage"); err != nil {
		t.Fatalf("StartTextTurn failed: %v", err)
	}
	waitFor(t, func() bool { return h.orch.Step() == StepIdle }, "turn never settled")

	// Speak failed without draining the stream; the turn context must
	// still be cancelled so the generation producer can exit.
	waitFor(t, func() bool {
		ctx := gen.turnCtx()
		return ctx != nil && ctx.Err() != nil
	}, "turn context not cancelled after failed turn")
}

func TestOrchestrator_BackgroundFailureLogsOnly(t *testing.T) {
	h := newHarness(t, &fakeGen{genErr: errors.New("model offline")}, &fakeSynth{})
	conn := &fakeConn{}
	h.registry.Attach(conn)

	h.orch.OnFinalTranscript("frage")
	waitFor(t, func() bool { return h.orch.Step() == StepIdle && h.gen.callCount() == 1 },
		"voice turn never settled")

	time.Sleep(50 * time.Millisecond)
	for _, typ := range conn.types() {
		if typ == events.TypeErrorRaised {
			t.Fatal("background failure must not raise a client error")
		}
	}
}

func TestOrchestrator_StatusTargetsConnectionAtSendTime(t *testing.T) {
	release := make(chan struct{})
	h := newHarness(t, &fakeGen{fragments: []string{"..."}}, &fakeSynth{release: release})
	first := &fakeConn{}
	h.registry.Attach(first)

	if err := h.orch.StartTextTurn("frage"); err != nil {
		t.Fatalf("StartTextTurn failed: %v", err)
	}
	waitFor(t, func() bool { return h.orch.Step() == StepSpeaking }, "turn never reached speaking")

	second := &fakeConn{}
	h.registry.Attach(second)
	close(release)
	waitFor(t, func() bool { return h.orch.Step() == StepIdle }, "turn never finished")

	for _, typ := range second.types() {
		if typ == events.TypePipelineStatus {
			return
		}
	}
	t.Error("completion status should reach the superseding connection")
}

func TestOrchestrator_NoConnectionAttached(t *testing.T) {
	h := newHarness(t, &fakeGen{fragments: []string{"ok"}}, &fakeSynth{})

	if err := h.orch.StartTextTurn("frage"); err != nil {
		t.Fatalf("StartTextTurn failed: %v", err)
	}
	waitFor(t, func() bool { return h.orch.Step() == StepIdle }, "turn never finished")
	if len(h.synth.utterances()) != 1 {
		t.Error("turn should run to completion without a client attached")
	}
}
