package server

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// connection is one websocket client. Writes are serialized because command
// responses and event broadcasts race for the socket.
type connection struct {
	ws     *websocket.Conn
	server *Server

	writeMu   sync.Mutex
	closeOnce sync.Once
}

func newConnection(ws *websocket.Conn, s *Server) *connection {
	return &connection{ws: ws, server: s}
}

// readLoop processes commands until the client hangs up.
func (c *connection) readLoop(ctx context.Context) {
	for {
		var cmd Command
		if err := c.ws.ReadJSON(&cmd); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.server.log.Warn("websocket read failed", "err", err)
			}
			return
		}
		resp := c.server.handleCommand(ctx, cmd)
		if err := c.writeJSON(resp); err != nil {
			return
		}
	}
}

func (c *connection) writeJSON(v any) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.ws.WriteJSON(v)
}

func (c *connection) close() {
	c.closeOnce.Do(func() {
		_ = c.ws.Close()
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
