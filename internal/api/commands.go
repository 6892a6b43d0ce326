package api

import (
	"net/http"
	"strconv"

	"github.com/nerrad567/gray-logic-botvac/internal/audit"
)

// handleListCommands returns the command log with optional filtering.
//
// Query parameters:
//   - robot_id: filter by robot
//   - operation: filter by operation name
//   - status: accepted or failed
//   - limit: max results (default 50, max 200)
//   - offset: pagination offset
func (s *Server) handleListCommands(w http.ResponseWriter, r *http.Request) {
	if s.commands == nil {
		writeError(w, http.StatusServiceUnavailable, ErrCodeUnavailable, "command log not available")
		return
	}

	q := r.URL.Query()
	filter := audit.Filter{
		RobotID:   q.Get("robot_id"),
		Operation: q.Get("operation"),
		Status:    q.Get("status"),
	}
	switch filter.Status {
	case "", audit.StatusAccepted, audit.StatusFailed:
	default:
		writeBadRequest(w, "status must be accepted or failed")
		return
	}

	var ok bool
	if filter.Limit, ok = intParam(q.Get("limit")); !ok {
		writeBadRequest(w, "limit must be a non-negative integer")
		return
	}
	if filter.Offset, ok = intParam(q.Get("offset")); !ok {
		writeBadRequest(w, "offset must be a non-negative integer")
		return
	}

	result, err := s.commands.List(r.Context(), filter)
	if err != nil {
		s.logger.Error("failed to list commands", "error", err)
		writeInternalError(w, "failed to list commands")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// intParam parses an optional non-negative integer query value.
func intParam(v string) (int, bool) {
	if v == "" {
		return 0, true
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
