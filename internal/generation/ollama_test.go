package generation

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func chatServer(t *testing.T, fragments []string, capture *[]Message) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		if capture != nil {
			*capture = req.Messages
		}

		enc := json.NewEncoder(w)
		for _, f := range fragments {
			enc.Encode(chatChunk{Message: Message{Role: "assistant", Content: f}})
		}
		enc.Encode(chatChunk{Done: true})
	}))
}

func collect(t *testing.T, s *Stream) []string {
	t.Helper()
	var got []string
	for f := range s.Fragments() {
		got = append(got, f)
	}
	return got
}

func TestOllama_StreamsFragmentsInOrder(t *testing.T) {
	fragments := []string{"Hey", " du", "!"}
	srv := chatServer(t, fragments, nil)
	defer srv.Close()

	gen := NewOllama(OllamaConfig{Host: srv.URL, Model: "qwen2.5:7b"}, testLogger())
	stream, err := gen.Generate(context.Background(), "hallo")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	got := collect(t, stream)
	if len(got) != len(fragments) {
		t.Fatalf("got %d fragments, want %d", len(got), len(fragments))
	}
	for i := range fragments {
		if got[i] != fragments[i] {
			t.Errorf("fragment %d = %q, want %q", i, got[i], fragments[i])
		}
	}
	if stream.Err() != nil {
		t.Errorf("stream should finish cleanly, got %v", stream.Err())
	}
}

func TestOllama_SystemPromptPrepended(t *testing.T) {
	var seen []Message
	srv := chatServer(t, []string{"ok"}, &seen)
	defer srv.Close()

	gen := NewOllama(OllamaConfig{Host: srv.URL, Model: "m", SystemPrompt: "be brief"}, testLogger())
	stream, err := gen.Generate(context.Background(), "hi")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	collect(t, stream)

	if len(seen) != 2 {
		t.Fatalf("expected system+user, got %d messages", len(seen))
	}
	if seen[0].Role != "system" || seen[0].Content != "be brief" {
		t.Errorf("first message should be system prompt, got %+v", seen[0])
	}
	if seen[1].Role != "user" || seen[1].Content != "hi" {
		t.Errorf("second message should be the user text, got %+v", seen[1])
	}
}

func TestOllama_HistoryCapped(t *testing.T) {
	var seen []Message
	srv := chatServer(t, []string{"antwort"}, &seen)
	defer srv.Close()

	const limit = 10
	gen := NewOllama(OllamaConfig{Host: srv.URL, Model: "m", HistoryLimit: limit}, testLogger())
	for i := 0; i < 30; i++ {
		stream, err := gen.Generate(context.Background(), fmt.Sprintf("frage %d", i))
		if err != nil {
			t.Fatalf("Generate %d failed: %v", i, err)
		}
		collect(t, stream)
	}

	if len(seen) > limit {
		t.Errorf("history sent to model has %d entries, cap is %d", len(seen), limit)
	}
	if seen[0].Role != "system" {
		t.Errorf("system prompt must survive the cap, first entry is %q", seen[0].Role)
	}
	last := seen[len(seen)-1]
	if last.Role != "user" || last.Content != "frage 29" {
		t.Errorf("latest user message missing, last entry %+v", last)
	}
}

func TestOllama_Reset(t *testing.T) {
	var seen []Message
	srv := chatServer(t, []string{"ok"}, &seen)
	defer srv.Close()

	gen := NewOllama(OllamaConfig{Host: srv.URL, Model: "m"}, testLogger())
	stream, _ := gen.Generate(context.Background(), "erste")
	collect(t, stream)

	gen.Reset()

	stream, _ = gen.Generate(context.Background(), "zweite")
	collect(t, stream)

	if len(seen) != 2 {
		t.Fatalf("after reset the history should hold system+user only, got %d", len(seen))
	}
}

func TestOllama_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer srv.Close()

	gen := NewOllama(OllamaConfig{Host: srv.URL, Model: "missing"}, testLogger())
	if _, err := gen.Generate(context.Background(), "hi"); err == nil {
		t.Fatal("expected error for non-2xx response")
	}
}
