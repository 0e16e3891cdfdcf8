package gateway

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/DYAI2025/Vipe-minecraft-modder/internal/events"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 1 << 20 // generous: a second of PCM16/16kHz is 32KiB
	sendBufferSize = 64
)

// wsConn adapts a websocket to transport.Connection. Outbound envelopes
// go through a buffered channel drained by a single write pump; sends to
// a dead or saturated connection are dropped with a warning rather than
// blocking the caller.
type wsConn struct {
	ws   *websocket.Conn
	send chan events.Envelope
	log  *slog.Logger

	closeOnce sync.Once
	done      chan struct{}
}

func newWSConn(ws *websocket.Conn, log *slog.Logger) *wsConn {
	c := &wsConn{
		ws:   ws,
		send: make(chan events.Envelope, sendBufferSize),
		log:  log.With("component", "gateway", "remote", ws.RemoteAddr().String()),
		done: make(chan struct{}),
	}
	go c.writePump()
	return c
}

func (c *wsConn) Send(_ context.Context, env events.Envelope) error {
	select {
	case <-c.done:
		return fmt.Errorf("connection closed")
	default:
	}
	select {
	case c.send <- env:
		return nil
	case <-c.done:
		return fmt.Errorf("connection closed")
	default:
		c.log.Warn("outbound buffer full, dropping event", "type", env.Type)
		return nil
	}
}

func (c *wsConn) IsConnected() bool {
	select {
	case <-c.done:
		return false
	default:
		return true
	}
}

func (c *wsConn) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.done)
		err = c.ws.Close()
	})
	return err
}

func (c *wsConn) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case env := <-c.send:
			data, err := events.Encode(env)
			if err != nil {
				c.log.Error("refusing to send uncatalogued event", "type", env.Type, "error", err)
				continue
			}
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.TextMessage, data); err != nil {
				c.log.Warn("write failed, closing connection", "error", err)
				return
			}
		case <-ticker.C:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.done:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			c.ws.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}
