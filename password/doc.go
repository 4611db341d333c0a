// Package password provides the default argon2id implementation of the
// engine's Hasher contract: one-way hashing with constant-time comparison.
package password
