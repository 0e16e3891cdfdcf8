package generation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
)

// DefaultSystemPrompt is the assistant persona: a Minecraft-modding helper
// for kids, answering short and motivating, in German.
const DefaultSystemPrompt = `Du bist 'Crafty', ein begeisterter Minecraft-Modding-Experte und Assistent.
- Deine Zielgruppe sind Kinder und Jugendliche (10-14 Jahre).
- Du hilfst beim Erstellen von Mods (Fabric API).
- Deine Antworten sind motivierend, kurz und prägnant.
- Wenn du Code schreibst, erkläre ihn einfach.
- Nutze Markdown für Code-Blöcke.
- Dein Charakter ist freundlich, ein bisschen verspielt, aber technisch sehr kompetent.`

const (
	defaultHistoryLimit = 20

	fragmentBufSize = 64
)

type OllamaConfig struct {
	Host         string
	Model        string
	SystemPrompt string

	// HistoryLimit bounds the retained conversation: the system prompt
	// plus the most recent HistoryLimit-1 messages. Zero means the default.
	HistoryLimit int
}

// Ollama streams chat completions from a local Ollama server
// (POST /api/chat with stream:true, one JSON object per line).
type Ollama struct {
	httpClient   *http.Client
	host         string
	model        string
	system       string
	historyLimit int
	log          *slog.Logger

	mu      sync.Mutex
	history []Message
}

func NewOllama(cfg OllamaConfig, log *slog.Logger) *Ollama {
	if log == nil {
		log = slog.Default()
	}
	system := cfg.SystemPrompt
	if system == "" {
		system = DefaultSystemPrompt
	}
	limit := cfg.HistoryLimit
	if limit < 2 {
		limit = defaultHistoryLimit
	}
	return &Ollama{
		httpClient:   &http.Client{},
		host:         strings.TrimRight(cfg.Host, "/"),
		model:        cfg.Model,
		system:       system,
		historyLimit: limit,
		log:          log.With("component", "generation"),
	}
}

type chatRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
	Stream   bool      `json:"stream"`
}

type chatChunk struct {
	Message Message `json:"message"`
	Done    bool    `json:"done"`
}

func (o *Ollama) Generate(ctx context.Context, userText string) (*Stream, error) {
	messages := o.appendUser(userText)

	body, err := json.Marshal(chatRequest{Model: o.model, Messages: messages, Stream: true})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.host+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ollama request: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, fmt.Errorf("ollama: status=%d body=%s", resp.StatusCode, string(b))
	}

	stream := NewStream(fragmentBufSize)
	go o.readChunks(ctx, resp.Body, stream)
	return stream, nil
}

func (o *Ollama) readChunks(ctx context.Context, body io.ReadCloser, stream *Stream) {
	defer body.Close()
	defer close(stream.ch)

	var full strings.Builder
	dec := json.NewDecoder(body)
	for {
		var chunk chatChunk
		if err := dec.Decode(&chunk); err != nil {
			if err == io.EOF {
				break
			}
			stream.fail(fmt.Errorf("ollama stream: %w", err))
			return
		}

		if chunk.Message.Content != "" {
			full.WriteString(chunk.Message.Content)
			select {
			case stream.ch <- chunk.Message.Content:
			case <-ctx.Done():
				stream.fail(ctx.Err())
				return
			}
		}

		if chunk.Done {
			break
		}
	}

	o.appendAssistant(full.String())
}

func (o *Ollama) appendUser(userText string) []Message {
	o.mu.Lock()
	defer o.mu.Unlock()

	if len(o.history) == 0 {
		o.history = append(o.history, Message{Role: "system", Content: o.system})
	}
	o.history = append(o.history, Message{Role: "user", Content: userText})
	o.capHistory()

	messages := make([]Message, len(o.history))
	copy(messages, o.history)
	return messages
}

func (o *Ollama) appendAssistant(text string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.history = append(o.history, Message{Role: "assistant", Content: text})
	o.capHistory()
}

func (o *Ollama) capHistory() {
	if len(o.history) > o.historyLimit {
		keep := o.historyLimit - 1
		kept := make([]Message, 0, keep+1)
		kept = append(kept, o.history[0])
		kept = append(kept, o.history[len(o.history)-keep:]...)
		o.history = kept
	}
}

func (o *Ollama) Reset() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.history = nil
}
