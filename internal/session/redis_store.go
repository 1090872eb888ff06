package session

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"boxoffice/internal/shared/constants"
)

const (
	fieldAccess  = "access_token"
	fieldRefresh = "refresh_token"
	fieldRole    = "user_role"
	fieldStaff   = "is_staff"
)

// RedisStore keeps one session in a Redis hash with a sliding TTL
type RedisStore struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, key string, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, key: key, ttl: ttl}
}

// Get reads the hash and pushes its expiry back by the TTL. Expire is a no-op
// on a missing key, so a new visitor leaves nothing behind.
func (r *RedisStore) Get(ctx context.Context) (Session, error) {
	pipe := r.client.TxPipeline()
	all := pipe.HGetAll(ctx, r.key)
	pipe.Expire(ctx, r.key, r.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return Session{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	values := all.Val()

	s := Session{
		AccessToken:  values[fieldAccess],
		RefreshToken: values[fieldRefresh],
		Role:         Role(values[fieldRole]),
	}
	if staff, ok := values[fieldStaff]; ok {
		s.IsStaff, _ = strconv.ParseBool(staff)
	}
	return s, nil
}

func (r *RedisStore) Set(ctx context.Context, patch Patch) error {
	var set []interface{}
	var del []string

	put := func(field string, value *string) {
		if value == nil {
			return
		}
		if *value == "" {
			del = append(del, field)
			return
		}
		set = append(set, field, *value)
	}

	put(fieldAccess, patch.AccessToken)
	put(fieldRefresh, patch.RefreshToken)
	if patch.Role != nil {
		role := string(*patch.Role)
		put(fieldRole, &role)
	}
	if patch.IsStaff != nil {
		set = append(set, fieldStaff, strconv.FormatBool(*patch.IsStaff))
	}

	pipe := r.client.TxPipeline()
	if len(set) > 0 {
		pipe.HSet(ctx, r.key, set...)
	}
	if len(del) > 0 {
		pipe.HDel(ctx, r.key, del...)
	}
	pipe.Expire(ctx, r.key, r.ttl)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

func (r *RedisStore) Clear(ctx context.Context) error {
	if err := r.client.Del(ctx, r.key).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

// RedisProvider resolves per-browser RedisStores
type RedisProvider struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisProvider(client *redis.Client, ttl time.Duration) *RedisProvider {
	return &RedisProvider{client: client, prefix: constants.SESSION_KEY_PREFIX, ttl: ttl}
}

func (p *RedisProvider) For(sessionID string) Store {
	return NewRedisStore(p.client, p.prefix+sessionID, p.ttl)
}
