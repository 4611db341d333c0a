// Package session implements the Redis-backed refresh session store: one
// overwrite-wins record per user holding the identifier of the most recently
// issued refresh token.
package session
