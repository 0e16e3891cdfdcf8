package session

import (
	"log/slog"
	"sync"

	"github.com/DYAI2025/Vipe-minecraft-modder/internal/shared"
)

// Loop is the session's single-owner event loop and, through Schedule, the
// bridge by which foreign goroutines (the recognizer's reader, pipeline
// workers) hand work into it. Scheduled functions run one at a time on the
// loop goroutine in exactly their submission order.
type Loop struct {
	mu     sync.Mutex
	queue  []func()
	wake   chan struct{}
	done   chan struct{}
	closed bool

	stopped chan struct{}
	log     *slog.Logger
}

func NewLoop(log *slog.Logger) *Loop {
	if log == nil {
		log = slog.Default()
	}
	return &Loop{
		wake:    make(chan struct{}, 1),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
		log:     log.With("component", "session_loop"),
	}
}

// Schedule enqueues fn for execution on the loop goroutine. It is safe to
// call from any goroutine, never blocks the caller on loop progress, and
// preserves submission order. After Close it fails loudly instead of
// hanging or silently dropping the work.
func (l *Loop) Schedule(fn func()) error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		l.log.Error("work scheduled on closed loop, dropping")
		return shared.ErrLoopClosed
	}
	l.queue = append(l.queue, fn)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
	return nil
}

// Run drains scheduled work until Close is called, then finishes whatever
// was enqueued before the close and returns. It must be run on exactly one
// goroutine.
func (l *Loop) Run() {
	defer close(l.stopped)
	for {
		select {
		case <-l.wake:
			l.drain()
		case <-l.done:
			l.drain()
			return
		}
	}
}

func (l *Loop) drain() {
	for {
		l.mu.Lock()
		if len(l.queue) == 0 {
			l.mu.Unlock()
			return
		}
		batch := l.queue
		l.queue = nil
		l.mu.Unlock()

		for _, fn := range batch {
			fn()
		}
	}
}

// Close stops the loop. Work already scheduled still runs; new Schedule
// calls fail. Blocks until the loop goroutine has exited.
func (l *Loop) Close() {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		<-l.stopped
		return
	}
	l.closed = true
	l.mu.Unlock()

	close(l.done)
	<-l.stopped
}
