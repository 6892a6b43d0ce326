package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nerrad567/gray-logic-botvac/internal/auth"
)

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.corsMiddleware)
	r.Use(s.bodySizeLimitMiddleware)

	r.Route("/api/v1", func(r chi.Router) {
		// No auth required
		r.Get("/health", s.handleHealth)
		r.Get("/metrics", s.handleMetrics)

		r.Group(func(r chi.Router) {
			r.Use(s.authMiddleware)

			r.With(s.requirePermission(auth.PermRobotRead)).Get("/capabilities", s.handleListCapabilities)
			r.With(s.requirePermission(auth.PermRobotRead)).Get("/operations", s.handleListOperations)

			r.Route("/robots", func(r chi.Router) {
				r.With(s.requirePermission(auth.PermRobotRead)).Get("/", s.handleListRobots)
				r.With(s.requirePermission(auth.PermRobotManage)).Post("/", s.handleCreateRobot)

				r.Route("/{id}", func(r chi.Router) {
					r.With(s.requirePermission(auth.PermRobotRead)).Get("/", s.handleGetRobot)
					r.With(s.requirePermission(auth.PermRobotManage)).Patch("/", s.handleUpdateRobot)
					r.With(s.requirePermission(auth.PermRobotManage)).Delete("/", s.handleDeleteRobot)
					r.With(s.requirePermission(auth.PermRobotRead)).Get("/operations", s.handleDescribeRobot)
					r.With(s.requirePermission(auth.PermRobotOperate)).Post("/operations/{operation}", s.handleExecuteOperation)
				})
			})

			r.With(s.requirePermission(auth.PermCommandsRead)).Get("/commands", s.handleListCommands)

			// Browsers cannot set headers on the upgrade request, so the
			// token may also arrive as a query parameter.
			r.With(s.requirePermission(auth.PermRobotRead)).Get("/ws", s.handleWebSocket)
		})
	})

	return r
}

// handleHealth returns the server health status.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	body := map[string]any{
		"status":  "ok",
		"version": s.version,
		"robots":  s.fleet.RobotCount(),
	}
	if s.mqtt != nil {
		body["mqtt_connected"] = s.mqtt.IsConnected()
	}
	writeJSON(w, http.StatusOK, body)
}
