// Package auth validates the bearer tokens that protect the HTTP API.
//
// Tokens are HS256 JWTs carrying a subject and one of three roles
// (viewer, operator, admin). Roles map to permissions statically; there is
// no user database.
package auth
