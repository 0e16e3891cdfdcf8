package synthesis

import (
	"context"
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
	writeTimeout = 10 * time.Second
)

type ClientConfig struct {
	Addr      string // host:port of the tts sidecar
	VoicePath string // reference audio for voice conditioning
	Language  string
}

// Client speaks through a local XTTS sidecar. Every Speak opens a fresh
// socket: config first, then text chunks, then end, and blocks until the
// sidecar reports playback done.
type Client struct {
	addr     string
	language string
	log      *slog.Logger

	mu    sync.Mutex
	voice string
}

type sidecarMessage struct {
	Type    string `json:"type"`
	Text    string `json:"text,omitempty"`
	Voice   string `json:"voice,omitempty"`
	Lang    string `json:"language,omitempty"`
	Message string `json:"message,omitempty"`
}

// NewClient probes the sidecar once so init failures surface before the
// first turn instead of mid-conversation.
func NewClient(cfg ClientConfig, log *slog.Logger) (*Client, error) {
	if log == nil {
		log = slog.Default()
	}
	c := &Client{
		addr:     cfg.Addr,
		language: cfg.Language,
		voice:    cfg.VoicePath,
		log:      log.With("component", "synthesis"),
	}

	conn, err := c.dial(context.Background())
	if err != nil {
		return nil, shared.EngineInit(fmt.Sprintf("tts sidecar unreachable at %s: %v", cfg.Addr, err))
	}
	conn.Close()

	c.log.Info("tts sidecar connected", "addr", cfg.Addr, "voice", cfg.VoicePath)
	return c, nil
}

func (c *Client) dial(ctx context.Context) (*websocket.Conn, error) {
	u := url.URL{Scheme: "ws", Host: c.addr, Path: "/synthesize"}
	dialer := websocket.Dialer{HandshakeTimeout: dialTimeout}
	conn, _, err := dialer.DialContext(ctx, u.String(), nil)
	return conn, err
}

func (c *Client) Speak(ctx context.Context, fragments <-chan string) error {
	c.mu.Lock()
	voice := c.voice
	c.mu.Unlock()

	conn, err := c.dial(ctx)
	if err != nil {
		return fmt.Errorf("tts dial: %w", err)
	}
	defer conn.Close()

	if err := c.send(conn, sidecarMessage{Type: "config", Voice: voice, Lang: c.language}); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fragment, ok := <-fragments:
			if !ok {
				if err := c.send(conn, sidecarMessage{Type: "end"}); err != nil {
					return err
				}
				return c.awaitDone(ctx, conn)
			}
			if fragment == "" {
				continue
			}
			if err := c.send(conn, sidecarMessage{Type: "chunk", Text: fragment}); err != nil {
				return err
			}
		}
	}
}

func (c *Client) send(conn *websocket.Conn, msg sidecarMessage) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		return fmt.Errorf("tts write: %w", err)
	}
	return nil
}

// awaitDone blocks until the sidecar finished playing the whole utterance.
func (c *Client) awaitDone(ctx context.Context, conn *websocket.Conn) error {
	for {
		if deadline, ok := ctx.Deadline(); ok {
			conn.SetReadDeadline(deadline)
		}
		_, data, err := conn.ReadMessage()
		if err != nil {
			return fmt.Errorf("tts read: %w", err)
		}
		var msg sidecarMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			return fmt.Errorf("tts response: %w", err)
		}
		switch msg.Type {
		case "done":
			return nil
		case "error":
			return fmt.Errorf("tts sidecar: %s", msg.Message)
		default:
			// progress frames are informational
		}
	}
}

// SetVoice takes effect on the next Speak; the sidecar is reconfigured
// per utterance, so no re-init is needed here.
func (c *Client) SetVoice(profilePath string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.voice = profilePath
	c.log.Info("voice profile switched", "path", profilePath)
	return nil
}

func (c *Client) Close() error {
	return nil
}
