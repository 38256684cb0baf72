// Package goOrg is an embeddable accounts-and-groups engine.
//
// It owns two concerns: the session token lifecycle (issuance on login,
// verification, transparent renewal of expired tokens, role gating) and
// the bidirectional membership relation between accounts and groups.
// Accounts list the groups they belong to, groups list their member
// accounts, and every membership operation keeps the two sides
// consistent by writing both records atomically.
//
// Construct an Engine with the Builder:
//
//	engine, err := goOrg.New().
//		WithConfig(cfg).
//		WithRedis(rdb).
//		Build()
//
// The engine is transport-agnostic. The middleware package adapts it to
// net/http handlers and the httpapi package exposes the full REST
// surface.
//
// # Architecture boundaries
//
// The root package holds policy: membership rules, the renewal policy,
// role gating, credential checks. Mechanism lives below it in store
// (Redis persistence), jwt (token codec) and password (hashing).
//
// # What this package must NOT do
//
//   - parse HTTP requests or write HTTP responses
//   - talk to Redis directly, bypassing the store
//   - log through anything but the standard logger
package goOrg
