package recognition

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// echoSidecar answers every audio frame with a partial and a final
// transcript naming the frame size.
func echoSidecar(t *testing.T) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{}
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for {
			kind, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			if kind != websocket.BinaryMessage {
				t.Errorf("sidecar expects binary frames, got type %d", kind)
				continue
			}
			partial, _ := json.Marshal(transcriptMessage{Type: "partial", Text: "…"})
			final, _ := json.Marshal(transcriptMessage{Type: "final", Text: "heard frame"})
			conn.WriteMessage(websocket.TextMessage, partial)
			conn.WriteMessage(websocket.TextMessage, final)
			_ = data
		}
	}))
}

func wsAddr(srv *httptest.Server) string {
	return strings.TrimPrefix(srv.URL, "http://")
}

func TestClient_FinalTranscriptReachesCallback(t *testing.T) {
	srv := echoSidecar(t)
	defer srv.Close()

	finals := make(chan string, 4)
	client, err := NewClient(ClientConfig{Addr: wsAddr(srv), Language: "de"}, func(text string) {
		finals <- text
	}, testLogger())
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	defer client.Close()

	if err := client.Feed([]byte{0x01, 0x02}); err != nil {
		t.Fatalf("Feed failed: %v", err)
	}

	select {
	case text := <-finals:
		if text != "heard frame" {
			t.Errorf("final transcript = %q, want %q", text, "heard frame")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no final transcript within 2s")
	}

	// the partial must not have fired the callback
	select {
	case text := <-finals:
		t.Errorf("unexpected extra callback %q", text)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestClient_EmptyFrameIsNoop(t *testing.T) {
	srv := echoSidecar(t)
	defer srv.Close()

	finals := make(chan string, 1)
	client, err := NewClient(ClientConfig{Addr: wsAddr(srv)}, func(text string) {
		finals <- text
	}, testLogger())
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	defer client.Close()

	if err := client.Feed(nil); err != nil {
		t.Fatalf("empty frame must be accepted, got %v", err)
	}
	select {
	case text := <-finals:
		t.Errorf("empty frame produced transcript %q", text)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestClient_FeedAfterClose(t *testing.T) {
	srv := echoSidecar(t)
	defer srv.Close()

	client, err := NewClient(ClientConfig{Addr: wsAddr(srv)}, func(string) {}, testLogger())
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	if err := client.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := client.Feed([]byte{0x01}); err == nil {
		t.Fatal("Feed after Close should fail")
	}
}

func TestNewClient_RequiresCallback(t *testing.T) {
	if _, err := NewClient(ClientConfig{Addr: "127.0.0.1:1"}, nil, testLogger()); err == nil {
		t.Fatal("expected error for nil callback")
	}
}

func TestNewClient_UnreachableSidecar(t *testing.T) {
	if _, err := NewClient(ClientConfig{Addr: "127.0.0.1:1"}, func(string) {}, testLogger()); err == nil {
		t.Fatal("expected init error for unreachable sidecar")
	}
}

func TestDisabled_DropsFramesWithoutError(t *testing.T) {
	d := NewDisabled(testLogger())
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				if err := d.Feed([]byte{0x00}); err != nil {
					t.Errorf("disabled recognizer must never fail Feed: %v", err)
				}
			}
		}()
	}
	wg.Wait()
	if err := d.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}
}
