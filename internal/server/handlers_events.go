package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pscheid92/devboard/internal/domain"
	apperrors "github.com/pscheid92/devboard/internal/errors"
)

// handleEvents serves the persistent SSE stream. The first frame signals
// "connected"; after that the client sees change-gated "refresh" frames and
// periodic keep-alive comment frames. There is no backlog: a client connecting
// after a change only gets the next one.
func (s *Server) handleEvents(c echo.Context) error {
	id, events, err := s.hub.Register()
	if err != nil {
		return apperrors.InternalError("failed to open event stream", err)
	}
	defer s.hub.Unregister(id)

	w := c.Response()
	w.Header().Set(echo.HeaderContentType, "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	w.Flush()

	ctx := c.Request().Context()
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-events:
			if !ok {
				return nil
			}
			if _, err := w.Write(sseFrame(event)); err != nil {
				return nil
			}
			w.Flush()
		}
	}
}

// sseFrame encodes one event as a server-sent-events frame. Heartbeats are
// comment frames so EventSource clients never see them as data.
func sseFrame(event domain.Event) []byte {
	if event.Type == domain.EventHeartbeat {
		return []byte(": heartbeat\n\n")
	}
	data, err := json.Marshal(event)
	if err != nil {
		return []byte(": encoding error\n\n")
	}
	return fmt.Appendf(nil, "event: %s\ndata: %s\n\n", event.Type, data)
}
