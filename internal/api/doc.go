// Package api implements the HTTP REST API and WebSocket server.
//
// Endpoints live under /api/v1:
//   - robot CRUD backed by the fleet registry
//   - per-robot operation support, and dispatch of operations by name
//   - the command log
//   - a WebSocket hub that relays "command.executed" events
//
// # Security
//
// When security.jwt.secret is set, protected routes require an HS256
// bearer token whose role grants the route's permission. WebSocket clients
// may pass the token as the "token" query parameter. With no secret, the API
// is open and a warning is logged at startup.
package api
