package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "smartmart-admin/internal/errors"
)

// ErrUnknownSession is returned when a session ID is absent or expired.
var ErrUnknownSession = apperrors.Unauthorized("session expired or unknown")

// Directory is the server-side record of live session IDs.
type Directory interface {
	Put(ctx context.Context, id, username string, ttl time.Duration) error
	Lookup(ctx context.Context, id string) (string, error)
	Remove(ctx context.Context, id string) error
}

type MemoryDirectory struct {
	mu       sync.Mutex
	sessions map[string]memoryEntry
	now      func() time.Time
}

func NewMemoryDirectory() *MemoryDirectory {
	return &MemoryDirectory{sessions: make(map[string]memoryEntry), now: time.Now}
}

func (d *MemoryDirectory) Put(_ context.Context, id, username string, ttl time.Duration) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sessions[id] = memoryEntry{value: username, expires: d.now().Add(ttl)}
	return nil
}

func (d *MemoryDirectory) Lookup(_ context.Context, id string) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	e, ok := d.sessions[id]
	if !ok {
		return "", ErrUnknownSession
	}
	if d.now().After(e.expires) {
		delete(d.sessions, id)
		return "", ErrUnknownSession
	}
	return e.value, nil
}

func (d *MemoryDirectory) Remove(_ context.Context, id string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.sessions, id)
	return nil
}

// redisCmdable is the subset of the go-redis client the directory uses.
type redisCmdable interface {
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

const redisKeyPrefix = "admin:session:"

// RedisDirectory stores sessions as keys with a TTL so they survive restarts
// and are shared between replicas.
type RedisDirectory struct {
	client redisCmdable
	closer func() error
}

// NewRedisDirectory connects using a redis:// URL and verifies the connection.
func NewRedisDirectory(ctx context.Context, rawURL string) (*RedisDirectory, error) {
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, apperrors.ValidationWrap(err, "invalid session redis url")
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, apperrors.NetworkWrap(err, "connect session redis")
	}
	return &RedisDirectory{client: client, closer: client.Close}, nil
}

func (d *RedisDirectory) Put(ctx context.Context, id, username string, ttl time.Duration) error {
	if err := d.client.Set(ctx, redisKeyPrefix+id, username, ttl).Err(); err != nil {
		return apperrors.NetworkWrap(err, "store session")
	}
	return nil
}

func (d *RedisDirectory) Lookup(ctx context.Context, id string) (string, error) {
	username, err := d.client.Get(ctx, redisKeyPrefix+id).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrUnknownSession
	}
	if err != nil {
		return "", apperrors.NetworkWrap(err, "load session")
	}
	return username, nil
}

func (d *RedisDirectory) Remove(ctx context.Context, id string) error {
	if err := d.client.Del(ctx, redisKeyPrefix+id).Err(); err != nil {
		return apperrors.NetworkWrap(err, "remove session")
	}
	return nil
}

func (d *RedisDirectory) Close() error {
	if d.closer == nil {
		return nil
	}
	return d.closer()
}
