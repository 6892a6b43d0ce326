// Package migrations embeds the SQL schema for the robot fleet and the
// command log.
package migrations

import "embed"

// FS holds every *.sql migration at its root.
//
//go:embed *.sql
var FS embed.FS
