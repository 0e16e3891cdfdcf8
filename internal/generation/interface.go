package generation

import "context"

// Generator produces a lazy sequence of response text fragments for one
// user utterance, maintaining conversation history across calls. A
// Generator is restartable per call but not reentrant concurrently; the
// pipeline serializes turns before reaching it.
type Generator interface {
	Generate(ctx context.Context, userText string) (*Stream, error)
	Reset()
}
