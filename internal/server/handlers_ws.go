package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/pscheid92/devboard/internal/domain"
)

const wsWriteDeadline = 5 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Local tooling dashboard, no cross-origin restrictions
	},
}

// handleWebSocket serves the same event stream over a WebSocket connection.
// Heartbeat events become ping frames; data events are sent as JSON text.
func (s *Server) handleWebSocket(c echo.Context) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// The upgrader already wrote the error response.
		return nil
	}

	id, events, err := s.hub.Register()
	if err != nil {
		_ = conn.Close()
		return nil
	}

	// Read pump: its only job is detecting the client closing the connection.
	go func() {
		defer s.hub.Unregister(id)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	defer func() {
		s.hub.Unregister(id)
		_ = conn.Close()
	}()

	for event := range events {
		_ = conn.SetWriteDeadline(time.Now().Add(wsWriteDeadline))

		if event.Type == domain.EventHeartbeat {
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return nil
			}
			continue
		}

		data, err := json.Marshal(event)
		if err != nil {
			continue
		}
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			return nil
		}
	}
	return nil
}
