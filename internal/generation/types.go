package generation

import "sync"

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Stream is a lazy fragment sequence. Fragments is closed when generation
// finishes; Err reports the terminal error, if any, once the channel is
// closed.
type Stream struct {
	ch chan string

	mu  sync.Mutex
	err error
}

// NewStream creates a stream with the given fragment buffer. The
// producer feeds it with Push and must seal it with CloseWith.
func NewStream(buf int) *Stream {
	return &Stream{ch: make(chan string, buf)}
}

func (s *Stream) Fragments() <-chan string {
	return s.ch
}

// Push blocks when the consumer is behind and the buffer is full.
func (s *Stream) Push(fragment string) {
	s.ch <- fragment
}

// CloseWith seals the stream; a non-nil err becomes the terminal error
// visible through Err once the channel drains.
func (s *Stream) CloseWith(err error) {
	if err != nil {
		s.fail(err)
	}
	close(s.ch)
}

func (s *Stream) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *Stream) fail(err error) {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
}
