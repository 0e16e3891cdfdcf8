package bootstrap

import (
	"context"
	"log/slog"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"

	"github.com/DYAI2025/Vipe-minecraft-modder/internal/gateway"
	"github.com/DYAI2025/Vipe-minecraft-modder/internal/generation"
	"github.com/DYAI2025/Vipe-minecraft-modder/internal/health"
	"github.com/DYAI2025/Vipe-minecraft-modder/internal/pipeline"
	"github.com/DYAI2025/Vipe-minecraft-modder/internal/profiles"
	"github.com/DYAI2025/Vipe-minecraft-modder/internal/recognition"
	"github.com/DYAI2025/Vipe-minecraft-modder/internal/session"
	"github.com/DYAI2025/Vipe-minecraft-modder/internal/synthesis"
)

func ProvideRegistry(log *slog.Logger) *session.Registry {
	return session.NewRegistry(log)
}

func ProvideLoop(lc fx.Lifecycle, log *slog.Logger) *session.Loop {
	loop := session.NewLoop(log)
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go loop.Run()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			loop.Close()
			return nil
		},
	})
	return loop
}

func ProvideOrchestrator(lc fx.Lifecycle, registry *session.Registry, loop *session.Loop, gen generation.Generator, synth *synthesis.Engine, log *slog.Logger) *pipeline.Orchestrator {
	orch := pipeline.NewOrchestrator(registry, loop, gen, synth, log)
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return orch.Close()
		},
	})
	return orch
}

func ProvideRecognizer(lc fx.Lifecycle, cfg *Config, loop *session.Loop, orch *pipeline.Orchestrator, log *slog.Logger) recognition.Recognizer {
	// transcripts arrive on the recognizer's goroutine and cross onto
	// the session loop here
	onFinal := func(text string) {
		if err := loop.Schedule(func() { orch.OnFinalTranscript(text) }); err != nil {
			log.Error("transcript lost, loop closed", "error", err)
		}
	}
	r := newRecognizer(cfg, onFinal, log)
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return r.Close()
		},
	})
	return r
}

func ProvideDispatcher(lc fx.Lifecycle, orch *pipeline.Orchestrator, r recognition.Recognizer, synth *synthesis.Engine, store *profiles.Store, log *slog.Logger) *gateway.Dispatcher {
	d := gateway.NewDispatcher(orch, r, synth, store, log)
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return d.Close()
		},
	})
	return d
}

func ProvideGatewayHandler(registry *session.Registry, loop *session.Loop, dispatcher *gateway.Dispatcher, log *slog.Logger) *gateway.Handler {
	return gateway.NewHandler(registry, loop, dispatcher, log)
}

func ProvideProfilesHandler(store *profiles.Store, log *slog.Logger) *profiles.Handler {
	return profiles.NewHandler(store, log)
}

func ProvideHealthHandler(orch *pipeline.Orchestrator, r recognition.Recognizer, synth *synthesis.Engine) *health.Handler {
	mode := "sidecar"
	if _, disabled := r.(*recognition.Disabled); disabled {
		mode = "disabled"
	}
	return health.NewHandler(orch, health.Engines{
		Recognition: mode,
		Synthesis:   synth.Backend(),
	})
}

func RegisterRoutes(e *echo.Echo, ws *gateway.Handler, uploads *profiles.Handler, probes *health.Handler) {
	ws.Register(e)
	uploads.Register(e)
	probes.Register(e)
}

var GatewayModule = fx.Options(
	fx.Provide(
		ProvideRegistry,
		ProvideLoop,
		ProvideOrchestrator,
		ProvideRecognizer,
		ProvideDispatcher,
		ProvideGatewayHandler,
		ProvideProfilesHandler,
		ProvideHealthHandler,
	),
	fx.Invoke(RegisterRoutes),
)
