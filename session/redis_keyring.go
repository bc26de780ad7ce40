package session

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// ErrRedisUnavailable is an exported constant or variable used by the chat client.
var ErrRedisUnavailable = errors.New("redis unavailable")

const (
	keyAccess  = "access_token"
	keyRefresh = "refresh_token"
	keyRole    = "role"
)

// RedisKeyring persists the three session keys in Redis under a common
// prefix. It is the durable [Keyring] used when the client must survive
// process restarts.
type RedisKeyring struct {
	client *redis.Client
	prefix string
}

// NewRedisKeyring returns a keyring writing under prefix (default "cc").
func NewRedisKeyring(client *redis.Client, prefix string) *RedisKeyring {
	if prefix == "" {
		prefix = "cc"
	}
	return &RedisKeyring{client: client, prefix: prefix}
}

func (k *RedisKeyring) key(name string) string {
	return k.prefix + ":" + name
}

// Load reads all three keys. Missing keys load as absent fields, never as
// an error; only transport failures are surfaced.
func (k *RedisKeyring) Load(ctx context.Context) (Session, error) {
	vals, err := k.client.MGet(ctx, k.key(keyAccess), k.key(keyRefresh), k.key(keyRole)).Result()
	if err != nil {
		return Session{}, errors.Join(ErrRedisUnavailable, err)
	}

	var s Session
	if v, ok := vals[0].(string); ok {
		s.AccessToken = v
	}
	if v, ok := vals[1].(string); ok {
		s.RefreshToken = v
	}
	if v, ok := vals[2].(string); ok {
		s.Role = v
	}
	return s, nil
}

// Store writes the snapshot in one pipeline. Absent fields are deleted so
// a stored snapshot round-trips exactly.
func (k *RedisKeyring) Store(ctx context.Context, s Session) error {
	pipe := k.client.TxPipeline()
	storeField(ctx, pipe, k.key(keyAccess), s.AccessToken)
	storeField(ctx, pipe, k.key(keyRefresh), s.RefreshToken)
	storeField(ctx, pipe, k.key(keyRole), s.Role)
	if _, err := pipe.Exec(ctx); err != nil {
		return errors.Join(ErrRedisUnavailable, err)
	}
	return nil
}

// Clear deletes all three keys together.
func (k *RedisKeyring) Clear(ctx context.Context) error {
	err := k.client.Del(ctx, k.key(keyAccess), k.key(keyRefresh), k.key(keyRole)).Err()
	if err != nil {
		return errors.Join(ErrRedisUnavailable, err)
	}
	return nil
}

func storeField(ctx context.Context, pipe redis.Pipeliner, key, val string) {
	if val == "" {
		pipe.Del(ctx, key)
		return
	}
	pipe.Set(ctx, key, val, 0)
}
