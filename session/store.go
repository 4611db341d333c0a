package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrRedisUnavailable wraps any transport-level Redis failure. Callers that
// need to distinguish backend outages from normal misses match it with
// errors.Is; a missing record is never an error.
var ErrRedisUnavailable = errors.New("redis unavailable")

// Store tracks, per user, the identifier of the single currently-valid
// refresh token. Insert unconditionally overwrites, so at most one refresh
// token per user validates at any time; issuing a new pair supersedes the
// previous one even before it expires.
//
// State machine per user:
//
//	{no session} --Insert--> {id} --Insert(id')--> {id'} --Invalidate--> {no session}
//
// All operations are single-key and individually atomic. The read in
// Validate and a later overwrite in Insert are NOT atomic as a pair; two
// concurrent refresh calls holding the same superseded token can both pass
// Validate before either Insert lands. A compare-and-swap insert would
// close that window.
type Store struct {
	redis  redis.UniversalClient
	prefix string
}

// NewStore creates a refresh-session [Store] backed by the given Redis
// client. prefix namespaces every key.
func NewStore(redis redis.UniversalClient, prefix string) *Store {
	if prefix == "" {
		prefix = "ars"
	}
	return &Store{redis: redis, prefix: prefix}
}

func (s *Store) key(userID string) string {
	return s.prefix + ":user:" + userID
}

// Insert records tokenID as the only valid refresh session for userID,
// overwriting any prior record. ttl bounds the key's lifetime; zero or
// negative keeps it until overwritten or invalidated.
//
//	Performance: 1 Redis SET.
func (s *Store) Insert(ctx context.Context, userID, tokenID string, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}
	if err := s.redis.Set(ctx, s.key(userID), tokenID, ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

// Validate reports whether a record exists for userID and equals tokenID.
// A missing record is false, not an error.
//
//	Performance: 1 Redis GET.
func (s *Store) Validate(ctx context.Context, userID, tokenID string) (bool, error) {
	stored, err := s.redis.Get(ctx, s.key(userID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return stored == tokenID, nil
}

// Invalidate deletes the record for userID. Idempotent: invalidating an
// absent record is a no-op.
//
//	Performance: 1 Redis DEL.
func (s *Store) Invalidate(ctx context.Context, userID string) error {
	if err := s.redis.Del(ctx, s.key(userID)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

// Ping returns a point-in-time Redis availability check and latency.
func (s *Store) Ping(ctx context.Context) (time.Duration, error) {
	start := time.Now()
	if err := s.redis.Ping(ctx).Err(); err != nil {
		return time.Since(start), fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return time.Since(start), nil
}
