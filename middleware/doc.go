// Package middleware adapts HTTP requests onto engine token validation.
//
// [RequireAuth] reads the Authorization header, verifies the access token
// through Engine.ValidateAccess, and injects the resulting identity into the
// request context for handlers to read with [AuthResultFromContext].
//
// # Architecture boundaries
//
// This package translates HTTP semantics into Engine calls. It does not
// parse tokens itself and never touches Redis; all decisions are delegated
// to the engine.
package middleware
