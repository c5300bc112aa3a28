package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const codeKeyPrefix = "otp:"

// CodeStore keeps one-time codes in Redis, shared by every API replica.
// Key format: otp:<mobile_number>
type CodeStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCodeStore wraps client. A ttl of zero stores codes without expiry.
func NewCodeStore(client *redis.Client, ttl time.Duration) *CodeStore {
	return &CodeStore{client: client, ttl: ttl}
}

// Put overwrites the code for key.
func (s *CodeStore) Put(ctx context.Context, key string, code int) error {
	if err := s.client.Set(ctx, s.key(key), code, s.ttl).Err(); err != nil {
		return fmt.Errorf("code store put: %w", err)
	}
	return nil
}

// Get returns the active code for key, if any.
func (s *CodeStore) Get(ctx context.Context, key string) (int, bool, error) {
	code, err := s.client.Get(ctx, s.key(key)).Int()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("code store get: %w", err)
	}
	return code, true, nil
}

func (s *CodeStore) key(k string) string {
	return codeKeyPrefix + k
}
