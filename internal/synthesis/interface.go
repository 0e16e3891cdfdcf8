package synthesis

import "context"

// Synthesizer turns a fragment stream into audible speech. Speak blocks
// until playback has finished on the engine side.
type Synthesizer interface {
	Speak(ctx context.Context, fragments <-chan string) error
	SetVoice(profilePath string) error
	Close() error
}
