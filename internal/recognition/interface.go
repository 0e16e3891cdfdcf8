package recognition

// FinalTextFunc receives finished transcripts. It is invoked from the
// recognizer's own goroutine, never from the caller of Feed.
type FinalTextFunc func(text string)

// Recognizer accepts raw PCM16/16kHz frames. Feed must not block on
// downstream work; transcripts come back through the callback.
type Recognizer interface {
	Feed(frame []byte) error
	Close() error
}
