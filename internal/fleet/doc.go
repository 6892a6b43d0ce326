// Package fleet stores the BotVac robots managed by the bridge.
//
// A Robot carries the Nucleo credentials (serial and secret) and the
// capability Declaration reported by the robot. Robots are persisted in
// SQLite by SQLiteRepository and served from an in-memory cache by Registry.
//
// Registry also implements nucleo.SecretStore, so the Nucleo client looks up
// secrets from the same cache.
package fleet
