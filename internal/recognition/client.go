package recognition

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/DYAI2025/Vipe-minecraft-modder/internal/shared"
)

const (
	dialTimeout  = 5 * time.Second
	writeTimeout = 5 * time.Second
)

type ClientConfig struct {
	Addr     string // host:port of the stt sidecar
	Language string
}

// Client streams audio to a local faster-whisper sidecar: binary PCM
// frames up, JSON transcript messages down. A dedicated reader goroutine
// fires the final-text callback.
type Client struct {
	log     *slog.Logger
	onFinal FinalTextFunc

	mu     sync.Mutex
	conn   *websocket.Conn
	closed bool
}

type transcriptMessage struct {
	Type string `json:"type"` // "partial" | "final"
	Text string `json:"text"`
}

func NewClient(cfg ClientConfig, onFinal FinalTextFunc, log *slog.Logger) (*Client, error) {
	if log == nil {
		log = slog.Default()
	}
	if onFinal == nil {
		return nil, fmt.Errorf("recognition: final-text callback is required")
	}

	u := url.URL{Scheme: "ws", Host: cfg.Addr, Path: "/recognize"}
	if cfg.Language != "" {
		u.RawQuery = url.Values{"language": {cfg.Language}}.Encode()
	}
	dialer := websocket.Dialer{HandshakeTimeout: dialTimeout}
	conn, _, err := dialer.Dial(u.String(), nil)
	if err != nil {
		return nil, shared.EngineInit(fmt.Sprintf("stt sidecar unreachable at %s: %v", cfg.Addr, err))
	}

	c := &Client{
		log:     log.With("component", "recognition"),
		onFinal: onFinal,
		conn:    conn,
	}
	go c.readLoop()

	c.log.Info("stt sidecar connected", "addr", cfg.Addr, "language", cfg.Language)
	return c, nil
}

func (c *Client) Feed(frame []byte) error {
	if len(frame) == 0 {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return fmt.Errorf("recognition: feed after close")
	}
	c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := c.conn.WriteMessage(websocket.BinaryMessage, frame); err != nil {
		return fmt.Errorf("stt write: %w", err)
	}
	return nil
}

func (c *Client) readLoop() {
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			c.mu.Lock()
			closed := c.closed
			c.mu.Unlock()
			if !closed {
				c.log.Error("stt sidecar stream ended", "error", err)
			}
			return
		}
		var msg transcriptMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			c.log.Warn("discarding malformed transcript frame", "error", err)
			continue
		}
		if msg.Type == "final" {
			c.onFinal(msg.Text)
		}
	}
}

func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	return c.conn.Close()
}
