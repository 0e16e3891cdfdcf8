package pipeline

import "time"

// Step is the coarse position of the voice pipeline. A session is busy
// whenever the step is not idle.
type Step string

const (
	StepIdle      Step = "idle"
	StepListening Step = "listening"
	StepThinking  Step = "thinking"
	StepSpeaking  Step = "speaking"
	StepDone      Step = "done"
	StepError     Step = "error"
)

// InputKind records what started a turn; failures on command input are
// reported back to the client, background input only logs.
type InputKind string

const (
	InputText  InputKind = "text"
	InputVoice InputKind = "voice"
	InputEvent InputKind = "event"
)

type Turn struct {
	ID        string
	Input     InputKind
	Text      string
	StartedAt time.Time
}
