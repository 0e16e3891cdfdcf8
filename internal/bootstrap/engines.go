package bootstrap

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/DYAI2025/Vipe-minecraft-modder/internal/generation"
	"github.com/DYAI2025/Vipe-minecraft-modder/internal/profiles"
	"github.com/DYAI2025/Vipe-minecraft-modder/internal/recognition"
	"github.com/DYAI2025/Vipe-minecraft-modder/internal/synthesis"
)

func ProvideGenerator(cfg *Config, log *slog.Logger) generation.Generator {
	return generation.NewOllama(generation.OllamaConfig{
		Host:         cfg.OllamaHost,
		Model:        cfg.OllamaModel,
		HistoryLimit: cfg.OllamaHistory,
	}, log)
}

func ProvideSynthesizer(cfg *Config, log *slog.Logger) (*synthesis.Engine, error) {
	return synthesis.NewEngine(synthesis.EngineConfig{
		SidecarAddr: cfg.TTSAddress,
		VoicePath:   cfg.VoiceSample,
		Language:    cfg.Language,
	}, log)
}

func ProvideProfileStore(cfg *Config, log *slog.Logger) (*profiles.Store, error) {
	return profiles.NewStore(cfg.ProfilesDir, log)
}

// newRecognizer degrades to the frame-dropping stub when the stt sidecar
// is unreachable; speech input stops working but the session gateway,
// text chat and synthesis stay up.
func newRecognizer(cfg *Config, onFinal recognition.FinalTextFunc, log *slog.Logger) recognition.Recognizer {
	client, err := recognition.NewClient(recognition.ClientConfig{
		Addr:     cfg.STTAddress,
		Language: cfg.Language,
	}, onFinal, log)
	if err != nil {
		log.Error("stt sidecar init failed, speech input disabled", "error", err)
		return recognition.NewDisabled(log)
	}
	return client
}

var EnginesModule = fx.Options(
	fx.Provide(
		ProvideGenerator,
		ProvideSynthesizer,
		ProvideProfileStore,
	),
)
