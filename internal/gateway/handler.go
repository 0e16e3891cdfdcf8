package gateway

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/DYAI2025/Vipe-minecraft-modder/internal/session"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Handler owns the single websocket endpoint. One connection at a time
// carries the whole session; a newcomer supersedes the current client.
type Handler struct {
	registry   *session.Registry
	loop       *session.Loop
	dispatcher *Dispatcher
	log        *slog.Logger
}

func NewHandler(registry *session.Registry, loop *session.Loop, dispatcher *Dispatcher, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{
		registry:   registry,
		loop:       loop,
		dispatcher: dispatcher,
		log:        log.With("component", "gateway"),
	}
}

func (h *Handler) Register(e *echo.Echo) {
	e.GET("/ws/session", h.Serve)
}

func (h *Handler) Serve(c echo.Context) error {
	ws, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", "error", err)
		return err
	}

	conn := newWSConn(ws, h.log)
	if err := h.loop.Schedule(func() { h.registry.Attach(conn) }); err != nil {
		conn.Close()
		return err
	}
	h.log.Info("client connected", "remote", ws.RemoteAddr().String())

	h.readLoop(ws, conn)

	// compare-and-clear: a superseding client must not be detached by
	// the old connection going away
	if err := h.loop.Schedule(func() { h.registry.Detach(conn) }); err != nil {
		h.log.Warn("detach skipped, loop closed")
	}
	conn.Close()
	h.log.Info("client disconnected", "remote", ws.RemoteAddr().String())
	return nil
}

func (h *Handler) readLoop(ws *websocket.Conn, conn *wsConn) {
	ws.SetReadLimit(maxMessageSize)
	ws.SetReadDeadline(time.Now().Add(pongWait))
	ws.SetPongHandler(func(string) error {
		ws.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		kind, data, err := ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Warn("read failed", "error", err)
			}
			return
		}

		switch kind {
		case websocket.BinaryMessage:
			h.dispatcher.HandleBinary(data)
		case websocket.TextMessage:
			payload := data
			if err := h.loop.Schedule(func() { h.dispatcher.HandleText(conn, payload) }); err != nil {
				h.log.Warn("dropping frame, loop closed")
				return
			}
		}
	}
}
