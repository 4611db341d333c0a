// Package jwt signs and verifies the access and refresh tokens issued by the
// authentication engine. Both token kinds share one signing mechanism and
// claim shape; they differ in TTL and in which optional claim is present
// (email on access tokens, rti on refresh tokens).
package jwt
