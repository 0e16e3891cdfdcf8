package synthesis

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"runtime"
	"strings"

	"github.com/DYAI2025/Vipe-minecraft-modder/internal/shared"
)

// SystemSynthesizer shells out to the local speech command. It has no
// voice conditioning; it exists so the assistant keeps talking when the
// XTTS sidecar is down.
type SystemSynthesizer struct {
	binary   string
	language string
	log      *slog.Logger
}

func NewSystem(language string, log *slog.Logger) (*SystemSynthesizer, error) {
	if log == nil {
		log = slog.Default()
	}
	binary := "espeak"
	if runtime.GOOS == "darwin" {
		binary = "say"
	}
	if _, err := exec.LookPath(binary); err != nil {
		return nil, shared.EngineInit(fmt.Sprintf("system tts command %q not found", binary))
	}
	return &SystemSynthesizer{
		binary:   binary,
		language: language,
		log:      log.With("component", "synthesis"),
	}, nil
}

func (s *SystemSynthesizer) Speak(ctx context.Context, fragments <-chan string) error {
	var sb strings.Builder
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fragment, ok := <-fragments:
			if !ok {
				return s.speakText(ctx, sb.String())
			}
			sb.WriteString(fragment)
		}
	}
}

func (s *SystemSynthesizer) speakText(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	args := []string{text}
	if s.binary == "espeak" && s.language != "" {
		args = []string{"-v", s.language, text}
	}
	cmd := exec.CommandContext(ctx, s.binary, args...)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("system tts: %w", err)
	}
	return nil
}

// SetVoice is accepted but ignored; the system command cannot be
// conditioned on reference audio.
func (s *SystemSynthesizer) SetVoice(profilePath string) error {
	s.log.Warn("system tts ignores voice profiles", "path", profilePath)
	return nil
}

func (s *SystemSynthesizer) Close() error {
	return nil
}
