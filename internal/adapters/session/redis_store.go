package session

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker"

	"github.com/pensamiento-creativo/student-records-service/internal/config"
	"github.com/pensamiento-creativo/student-records-service/internal/core/domain"
	"github.com/pensamiento-creativo/student-records-service/internal/core/ports"
)

// activeRoleTTL bounds how long a chosen role survives without a fresh
// sign-in, mirroring tab-scoped session storage.
const activeRoleTTL = 12 * time.Hour

const activeRolePrefix = "active-role:"

// RedisClient is the subset of the go-redis client the store uses, so tests
// can swap in a mock.
type RedisClient interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// RedisActiveRoleStore keeps the per-session chosen role in Redis behind a
// circuit breaker.
type RedisActiveRoleStore struct {
	client RedisClient
	cb     *gobreaker.CircuitBreaker
}

var _ ports.ActiveRoleStore = (*RedisActiveRoleStore)(nil)

func NewRedisActiveRoleStore(client RedisClient) *RedisActiveRoleStore {
	return &RedisActiveRoleStore{
		client: client,
		cb:     config.NewCircuitBreaker("Redis-Session"),
	}
}

func (s *RedisActiveRoleStore) SetActiveRole(ctx context.Context, userID string, role domain.Role) error {
	_, err := s.cb.Execute(func() (interface{}, error) {
		return nil, s.client.Set(ctx, activeRolePrefix+userID, string(role), activeRoleTTL).Err()
	})
	return err
}

func (s *RedisActiveRoleStore) GetActiveRole(ctx context.Context, userID string) (domain.Role, error) {
	value, err := s.cb.Execute(func() (interface{}, error) {
		return s.client.Get(ctx, activeRolePrefix+userID).Result()
	})
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", domain.ErrNotFound
		}
		return "", err
	}
	return domain.Role(value.(string)), nil
}

func (s *RedisActiveRoleStore) ClearActiveRole(ctx context.Context, userID string) error {
	_, err := s.cb.Execute(func() (interface{}, error) {
		return nil, s.client.Del(ctx, activeRolePrefix+userID).Err()
	})
	return err
}
