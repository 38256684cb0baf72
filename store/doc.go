// Package store persists accounts and groups in Redis.
//
// Records are stored as JSON blobs under namespaced keys, with secondary
// index keys for lookup by email and by name. Writes that touch more than
// one record, and writes that must claim a unique index, run as Lua
// scripts so they are atomic on the server.
//
// # Architecture boundaries
//
// The store knows nothing about tokens, roles or HTTP. It persists and
// retrieves records; membership rules live in the engine above it.
//
// # What this package must NOT do
//
//   - decide whether a membership edge is legal
//   - hash or compare passwords
//   - interpret roles
package store
