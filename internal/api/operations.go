package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/nerrad567/gray-logic-botvac/internal/bridges/botvac"
	"github.com/nerrad567/gray-logic-botvac/internal/capability"
	"github.com/nerrad567/gray-logic-botvac/internal/fleet"
	"github.com/nerrad567/gray-logic-botvac/internal/robot"
)

// EventCommandExecuted is the WebSocket channel for dispatch results.
const EventCommandExecuted = "command.executed"

// commandSource tags commands issued through the HTTP API.
const commandSource = "api"

// capabilityInfo is one row of the validity table.
type capabilityInfo struct {
	Capability string   `json:"capability"`
	Levels     []string `json:"levels"`
}

// operationInfo describes a catalog entry.
type operationInfo struct {
	Name string           `json:"name"`
	Keys []capability.Key `json:"keys,omitempty"`
}

// commandEvent is the wire form of a dispatch result.
type commandEvent struct {
	botvac.Result
	Status     string `json:"status"`
	Error      string `json:"error,omitempty"`
	DurationMS int64  `json:"duration_ms"`
}

func newCommandEvent(res botvac.Result) commandEvent {
	ev := commandEvent{
		Result:     res,
		Status:     res.Status(),
		DurationMS: res.Duration.Milliseconds(),
	}
	if res.Err != nil {
		ev.Error = res.Err.Error()
	}
	return ev
}

// handleListCapabilities returns the documented (capability, level) pairs.
func (s *Server) handleListCapabilities(w http.ResponseWriter, _ *http.Request) {
	out := make([]capabilityInfo, 0, len(capability.ValidLevels))
	for c, levels := range capability.ValidLevels {
		out = append(out, capabilityInfo{Capability: c, Levels: append([]string(nil), levels...)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Capability < out[j].Capability })

	writeJSON(w, http.StatusOK, map[string]any{"capabilities": out})
}

// handleListOperations returns the operation catalog.
func (s *Server) handleListOperations(w http.ResponseWriter, _ *http.Request) {
	ops := robot.Operations()
	out := make([]operationInfo, 0, len(ops))
	for _, op := range ops {
		out = append(out, operationInfo{Name: op.Name(), Keys: op.Keys()})
	}
	writeJSON(w, http.StatusOK, map[string]any{"operations": out})
}

// handleDescribeRobot reports how each operation resolves for a robot.
func (s *Server) handleDescribeRobot(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	statuses, err := s.dispatcher.Describe(r.Context(), id)
	if err != nil {
		s.writeFleetError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"robot_id":   id,
		"operations": statuses,
	})
}

// handleExecuteOperation runs one operation. The request body, if any, is
// the operation's JSON parameters.
func (s *Server) handleExecuteOperation(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeBadRequest(w, "failed to read request body")
		return
	}
	var params json.RawMessage
	if trimmed := bytes.TrimSpace(body); len(trimmed) > 0 {
		if !json.Valid(trimmed) {
			writeBadRequest(w, "invalid JSON body")
			return
		}
		params = trimmed
	}

	source := commandSource
	if claims := claimsFromContext(r.Context()); claims != nil {
		source = commandSource + ":" + claims.Subject
	}

	res := s.dispatcher.Execute(r.Context(), botvac.Request{
		CommandID:  uuid.NewString(),
		RobotID:    chi.URLParam(r, "id"),
		Operation:  chi.URLParam(r, "operation"),
		Parameters: params,
		Source:     source,
	})
	if res.Err != nil {
		s.writeDispatchError(w, res)
		return
	}
	writeJSON(w, http.StatusOK, newCommandEvent(res))
}

// writeDispatchError maps a failed dispatch to an HTTP response.
func (s *Server) writeDispatchError(w http.ResponseWriter, res botvac.Result) {
	msg := res.Err.Error()
	switch res.Code {
	case botvac.ErrCodeNotConfigured:
		writeNotFound(w, "robot not found")
	case botvac.ErrCodeInvalidCommand:
		if errors.Is(res.Err, robot.ErrUnknownOperation) {
			writeNotFound(w, msg)
			return
		}
		writeBadRequest(w, msg)
	case botvac.ErrCodeUnsupportedOperation:
		writeError(w, http.StatusConflict, ErrCodeUnsupported, msg)
	case botvac.ErrCodeAmbiguousCapability:
		writeError(w, http.StatusUnprocessableEntity, ErrCodeAmbiguous, msg)
	case botvac.ErrCodeInvalidParameters:
		writeValidationError(w, msg)
	case botvac.ErrCodeTransportError:
		writeError(w, http.StatusBadGateway, ErrCodeTransport, msg)
	default:
		if errors.Is(res.Err, fleet.ErrRobotNotFound) {
			writeNotFound(w, "robot not found")
			return
		}
		s.logger.Error("dispatch failed", "robot_id", res.RobotID, "operation", res.Operation, "error", res.Err)
		writeInternalError(w, "dispatch failed")
	}
}
