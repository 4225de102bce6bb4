package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/nirmalhealthcare/clinic-console/internal/console"
	"github.com/nirmalhealthcare/clinic-console/internal/session"
	"github.com/nirmalhealthcare/clinic-console/pkg/logger"
	"go.uber.org/zap"
)

const (
	streamWriteWait  = 10 * time.Second
	streamPongWait   = 60 * time.Second
	streamPingPeriod = streamPongWait * 9 / 10
)

// streamMessage is a client command on the notification stream.
type streamMessage struct {
	Action string `json:"action"`
	ID     string `json:"id,omitempty"`
}

// streamEvent is pushed to the client.
type streamEvent struct {
	Event string `json:"event"`
	Data  any    `json:"data,omitempty"`
	Error string `json:"error,omitempty"`
}

// buildUpgrader creates a WebSocket upgrader with origin validation. An empty
// allow-list permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			if origin == "" {
				return true
			}
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

type NotificationHandler struct {
	upgrader websocket.Upgrader
}

func NewNotificationHandler(allowedOrigins []string) *NotificationHandler {
	return &NotificationHandler{upgrader: buildUpgrader(allowedOrigins)}
}

// List returns the latest snapshot, fetching one if none exists yet.
func (h *NotificationHandler) List(c *gin.Context) {
	ws, ok := workspace(c)
	if !ok {
		return
	}

	snap, ok := ws.Notifications.Latest()
	if !ok || c.Query("refresh") == "true" {
		var err error
		snap, err = ws.Notifications.Refresh(c.Request.Context())
		if err != nil {
			respondServiceError(c, err, "Failed to fetch notifications")
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": snap})
}

func (h *NotificationHandler) MarkSeen(c *gin.Context) {
	ws, ok := workspace(c)
	if !ok {
		return
	}

	err := ws.Notifications.MarkSeen(c.Request.Context(), c.Param("id"))
	respondWrite(c, err, "Notification marked as seen", "Failed to mark notification as seen")
}

func (h *NotificationHandler) MarkAllSeen(c *gin.Context) {
	ws, ok := workspace(c)
	if !ok {
		return
	}

	err := ws.Notifications.MarkAllSeen(c.Request.Context())
	respondWrite(c, err, "All notifications marked as seen", "Failed to mark notifications as seen")
}

// Stream pushes every new notification snapshot over a WebSocket. Clients may
// send {"action":"mark_seen","id":...}, {"action":"mark_all_seen"} or
// {"action":"refresh"}. The stream ends with a signed_out event when the
// session is invalidated.
func (h *NotificationHandler) Stream(c *gin.Context) {
	ws, ok := workspace(c)
	if !ok {
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Error("WebSocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	log := logger.With(zap.String("workspace_id", ws.ID))
	log.Info("Notification stream opened")

	snapshots, unsubscribe := ws.Notifications.Subscribe()
	defer unsubscribe()

	signedOut := make(chan struct{}, 1)
	unwatch := ws.Session.Subscribe(func(session.Event) {
		select {
		case signedOut <- struct{}{}:
		default:
		}
	})
	defer unwatch()

	if _, ok := ws.Notifications.Latest(); !ok {
		go func() {
			if _, err := ws.Notifications.Refresh(c.Request.Context()); err != nil {
				log.Warn("Initial notification fetch failed", zap.Error(err))
			}
		}()
	}

	commands := make(chan streamMessage)
	done := make(chan struct{})
	stop := make(chan struct{})
	defer close(stop)
	go h.readLoop(conn, commands, done, stop, log)

	ping := time.NewTicker(streamPingPeriod)
	defer ping.Stop()

	for {
		select {
		case <-done:
			log.Debug("Notification stream closed")
			return
		case <-signedOut:
			_ = h.write(conn, streamEvent{Event: "signed_out"}) //nolint:errcheck
			return
		case snap := <-snapshots:
			if !ws.Session.IsAuthenticated(c.Request.Context()) {
				_ = h.write(conn, streamEvent{Event: "signed_out"}) //nolint:errcheck
				return
			}
			if err := h.write(conn, streamEvent{Event: "snapshot", Data: snap}); err != nil {
				return
			}
		case msg := <-commands:
			if err := h.handleCommand(c, ws, msg); err != nil {
				if werr := h.write(conn, streamEvent{Event: "error", Error: err.Error()}); werr != nil {
					return
				}
			}
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(streamWriteWait)); err != nil {
				return
			}
		}
	}
}

func (h *NotificationHandler) readLoop(conn *websocket.Conn, commands chan<- streamMessage, done, stop chan struct{}, log *zap.Logger) {
	defer close(done)

	_ = conn.SetReadDeadline(time.Now().Add(streamPongWait)) //nolint:errcheck
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(streamPongWait))
	})

	for {
		var msg streamMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn("Unexpected close", zap.Error(err))
			}
			return
		}
		select {
		case commands <- msg:
		case <-stop:
			return
		}
	}
}

func (h *NotificationHandler) handleCommand(c *gin.Context, ws *console.Workspace, msg streamMessage) error {
	ctx := c.Request.Context()
	switch msg.Action {
	case "mark_seen":
		return ws.Notifications.MarkSeen(ctx, msg.ID)
	case "mark_all_seen":
		return ws.Notifications.MarkAllSeen(ctx)
	case "refresh":
		_, err := ws.Notifications.Refresh(ctx)
		return err
	default:
		return &unknownActionError{action: msg.Action}
	}
}

type unknownActionError struct{ action string }

func (e *unknownActionError) Error() string { return "unknown action: " + e.action }

func (h *NotificationHandler) write(conn *websocket.Conn, event streamEvent) error {
	_ = conn.SetWriteDeadline(time.Now().Add(streamWriteWait)) //nolint:errcheck
	return conn.WriteJSON(event)
}
