// Package authcore implements the authentication core of a credential-based
// identity service: user registration, credential verification, and the
// issuance and rotation of paired JWT access/refresh tokens with a
// Redis-backed single-active-refresh-token invariant per user.
//
// The package is designed for concurrent server workloads: Engine methods are
// safe to call from multiple goroutines after initialization through
// [Builder.Build]. The Engine holds no mutable in-process state; everything
// lives in the injected credential store and the Redis session store.
//
// # Architecture boundaries
//
// authcore is the public surface. It exposes [Engine], [Builder], [Config],
// the [UserStore] and [Hasher] collaborator contracts, and value types
// ([TokenPair], [UserIdentity], [AuthResult]). Token encoding lives in jwt/,
// session tracking in session/, password hashing in password/. The HTTP
// transport that maps Engine failures to status codes is deliberately out of
// scope; examples/http-minimal shows one wiring.
//
// # Failure surface
//
// SignUp and SignIn return distinct, specific failures ([ErrAccountExists],
// [ErrInvalidCredentials], [ErrValidation]). Refresh collapses every failure
// mode (malformed, expired, rotated-away, unknown subject) to
// [ErrInvalidCredentials] so a caller cannot learn which check failed. The
// distinct causes remain observable through audit events and metrics.
package authcore
