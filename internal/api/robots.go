package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nerrad567/gray-logic-botvac/internal/capability"
	"github.com/nerrad567/gray-logic-botvac/internal/fleet"
)

// robotRequest is the body of create and update requests. Unlike
// fleet.Robot it accepts the signing secret.
type robotRequest struct {
	ID           string                 `json:"id"`
	Name         string                 `json:"name"`
	Serial       string                 `json:"serial"`
	Secret       string                 `json:"secret"`
	Model        string                 `json:"model"`
	Firmware     string                 `json:"firmware"`
	Capabilities capability.Declaration `json:"capabilities"`
}

func (req robotRequest) robot() *fleet.Robot {
	return &fleet.Robot{
		ID:           req.ID,
		Name:         req.Name,
		Serial:       req.Serial,
		Secret:       req.Secret,
		Model:        req.Model,
		Firmware:     req.Firmware,
		Capabilities: req.Capabilities,
	}
}

// robotResponse adds the pairs that will never match an operation.
type robotResponse struct {
	*fleet.Robot
	UnknownCapabilities []capability.Key `json:"unknown_capabilities,omitempty"`
}

func newRobotResponse(r *fleet.Robot) robotResponse {
	return robotResponse{Robot: r, UnknownCapabilities: fleet.UnknownCapabilities(r)}
}

// handleListRobots returns every registered robot.
func (s *Server) handleListRobots(w http.ResponseWriter, r *http.Request) {
	robots, err := s.fleet.ListRobots(r.Context())
	if err != nil {
		s.logger.Error("failed to list robots", "error", err)
		writeInternalError(w, "failed to list robots")
		return
	}

	out := make([]robotResponse, 0, len(robots))
	for i := range robots {
		out = append(out, newRobotResponse(&robots[i]))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"robots": out,
		"count":  len(out),
	})
}

// handleGetRobot returns a single robot.
func (s *Server) handleGetRobot(w http.ResponseWriter, r *http.Request) {
	robot, err := s.fleet.GetRobot(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeFleetError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newRobotResponse(robot))
}

// handleCreateRobot registers a robot.
func (s *Server) handleCreateRobot(w http.ResponseWriter, r *http.Request) {
	var req robotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	robot := req.robot()
	if err := s.fleet.CreateRobot(r.Context(), robot); err != nil {
		s.writeFleetError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, newRobotResponse(robot))
}

// handleUpdateRobot replaces a robot's fields. An omitted secret keeps the
// stored one.
func (s *Server) handleUpdateRobot(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	existing, err := s.fleet.GetRobot(r.Context(), id)
	if err != nil {
		s.writeFleetError(w, err)
		return
	}

	req := robotRequest{
		Name:         existing.Name,
		Serial:       existing.Serial,
		Model:        existing.Model,
		Firmware:     existing.Firmware,
		Capabilities: existing.Capabilities,
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	req.ID = id

	robot := req.robot()
	if err := s.fleet.UpdateRobot(r.Context(), robot); err != nil {
		s.writeFleetError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newRobotResponse(robot))
}

// handleDeleteRobot removes a robot.
func (s *Server) handleDeleteRobot(w http.ResponseWriter, r *http.Request) {
	if err := s.fleet.DeleteRobot(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeFleetError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// writeFleetError maps registry errors to HTTP responses.
func (s *Server) writeFleetError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, fleet.ErrRobotNotFound):
		writeNotFound(w, "robot not found")
	case errors.Is(err, fleet.ErrRobotExists):
		writeConflict(w, "a robot with this id or serial already exists")
	case errors.Is(err, fleet.ErrInvalidRobot):
		writeError(w, http.StatusBadRequest, ErrCodeValidation, err.Error())
	default:
		s.logger.Error("fleet operation failed", "error", err)
		writeInternalError(w, "fleet operation failed")
	}
}
