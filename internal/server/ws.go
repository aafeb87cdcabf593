package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	roomdb "github.com/impostor-games/impostor/internal/database/room/database"
	"github.com/impostor-games/impostor/internal/database/room/model"
	"github.com/impostor-games/impostor/internal/logging"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// the room code is the only credential this service knows about
	CheckOrigin: func(*http.Request) bool { return true },
}

// snapshotMessage is one push to a subscribed client: the full current
// room, or a deletion notice.
type snapshotMessage struct {
	Type string      `json:"type"`
	Room *model.Room `json:"room,omitempty"`
}

// subscribe upgrades to WebSocket and pushes the full committed room
// snapshot on every change. Clients re-derive all state from each
// snapshot and must tolerate missed intermediate ones.
func (h *Handler) subscribe(c *gin.Context) {
	logger := logging.FromContext(c.Request.Context()).Named("server.ws")
	roomID := c.Param("code")

	room, err := h.manager.Store().Fetch(roomID)
	if err != nil {
		if errors.Is(err, roomdb.ErrRoomNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
			return
		}
		h.fail(c, err)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Errorf("websocket upgrade: %v", err)
		return
	}
	defer conn.Close()

	events, cancel := h.manager.Store().Subscribe(roomID)
	defer cancel()

	// drain client frames so pongs and close frames are processed
	done := make(chan struct{})
	go func() {
		defer close(done)
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	if err := writeSnapshot(conn, snapshotMessage{Type: "room", Room: &room}); err != nil {
		return
	}

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-c.Request.Context().Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			msg := snapshotMessage{Type: "room", Room: ev.Room}
			if ev.Deleted {
				msg = snapshotMessage{Type: "deleted"}
			}
			if err := writeSnapshot(conn, msg); err != nil {
				logger.Debugf("subscriber write failed: %v", err)
				return
			}
			if ev.Deleted {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func writeSnapshot(conn *websocket.Conn, msg snapshotMessage) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(msg)
}
