package server

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pscheid92/devboard/internal/domain"
	apperrors "github.com/pscheid92/devboard/internal/errors"
)

// handleIndex serves the cached dashboard markup. On cold start it triggers
// one synchronous fill; only a failed first fill is surfaced as an error.
func (s *Server) handleIndex(c echo.Context) error {
	entry, err := s.app.CurrentEntry(c.Request().Context())
	if err != nil {
		slog.Error("First fill failed", "error", err)
		return c.String(http.StatusInternalServerError, "dashboard unavailable: "+err.Error())
	}
	return c.HTML(http.StatusOK, entry.Markup)
}

// handleUpdate delegates the mutation to the issue tracker and schedules an
// out-of-band refresh cycle whether or not the mutation succeeded. The
// response mirrors the tracker's result and does not wait for the refresh.
func (s *Server) handleUpdate(c echo.Context) error {
	var update domain.IssueUpdate
	if err := c.Bind(&update); err != nil {
		return apperrors.ValidationError("invalid update payload")
	}
	if update.Number <= 0 {
		return apperrors.ValidationError("issue number is required")
	}

	issue, err := s.mutator.UpdateIssue(c.Request().Context(), update)

	s.app.RequestRefresh()

	if err != nil {
		return apperrors.ExternalError("issue update failed", err).WithContext("issue", update.Number)
	}
	return c.JSON(http.StatusOK, issue)
}

func (s *Server) handleLiveness(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "alive"})
}

func (s *Server) handleReadiness(c echo.Context) error {
	if !s.app.HasEntry() {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "waiting for first cycle"})
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ready"})
}
