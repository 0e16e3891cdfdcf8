package session

import (
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/DYAI2025/Vipe-minecraft-modder/internal/shared"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLoop_RunsScheduledWork(t *testing.T) {
	l := NewLoop(testLogger())
	go l.Run()

	done := make(chan struct{})
	if err := l.Schedule(func() { close(done) }); err != nil {
		t.Fatalf("Schedule failed: %v", err)
	}
	<-done
	l.Close()
}

func TestLoop_PreservesSubmissionOrder(t *testing.T) {
	l := NewLoop(testLogger())
	go l.Run()

	const n = 1000
	var got []int
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		i := i
		if err := l.Schedule(func() {
			got = append(got, i)
			wg.Done()
		}); err != nil {
			t.Fatalf("Schedule(%d) failed: %v", i, err)
		}
	}
	wg.Wait()
	l.Close()

	for i, v := range got {
		if v != i {
			t.Fatalf("work reordered: position %d holds %d", i, v)
		}
	}
}

// Two callbacks fired in sequence from a foreign goroutine must be observed
// in that same order, even while many other goroutines are scheduling
// concurrently.
func TestLoop_OrderUnderConcurrentFiring(t *testing.T) {
	l := NewLoop(testLogger())
	go l.Run()

	const workers = 8
	const perWorker = 200

	got := make(map[int][]int, workers)
	var wg sync.WaitGroup
	wg.Add(workers * perWorker)

	for w := 0; w < workers; w++ {
		w := w
		go func() {
			for i := 0; i < perWorker; i++ {
				i := i
				for l.Schedule(func() {
					got[w] = append(got[w], i)
					wg.Done()
				}) != nil {
					t.Error("Schedule failed while loop is running")
					return
				}
			}
		}()
	}

	wg.Wait()
	l.Close()

	for w := 0; w < workers; w++ {
		seq := got[w]
		if len(seq) != perWorker {
			t.Fatalf("worker %d: got %d items, want %d", w, len(seq), perWorker)
		}
		for i, v := range seq {
			if v != i {
				t.Fatalf("worker %d: callbacks reordered at %d (got %d)", w, i, v)
			}
		}
	}
}

func TestLoop_ScheduleAfterCloseFailsLoudly(t *testing.T) {
	l := NewLoop(testLogger())
	go l.Run()
	l.Close()

	err := l.Schedule(func() { t.Error("work ran on closed loop") })
	if !errors.Is(err, shared.ErrLoopClosed) {
		t.Fatalf("expected ErrLoopClosed, got %v", err)
	}
}

func TestLoop_CloseDrainsPendingWork(t *testing.T) {
	l := NewLoop(testLogger())

	ran := 0
	for i := 0; i < 10; i++ {
		if err := l.Schedule(func() { ran++ }); err != nil {
			t.Fatalf("Schedule failed: %v", err)
		}
	}

	go l.Run()
	l.Close()

	if ran != 10 {
		t.Errorf("close dropped pending work: ran %d of 10", ran)
	}
}
