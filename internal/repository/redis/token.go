package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/qalamhq/qalam/domain"
)

const KeyRevokedToken = "auth:revoked:%s"

// tokenStore remembers revoked token ids in redis, keyed by jti, with a
// TTL equal to the token's remaining lifetime. Keys expire exactly when
// the token itself would stop being valid.
type tokenStore struct {
	client *redis.Client
}

var _ domain.TokenStore = (*tokenStore)(nil)

func NewTokenStore(client *redis.Client) *tokenStore {
	return &tokenStore{
		client,
	}
}

func (s *tokenStore) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		// Already expired, nothing to remember.
		return nil
	}
	key := fmt.Sprintf(KeyRevokedToken, tokenID)
	return s.client.Set(ctx, key, "1", ttl).Err()
}

func (s *tokenStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	key := fmt.Sprintf(KeyRevokedToken, tokenID)
	n, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
