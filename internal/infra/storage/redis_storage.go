package storage

import (
	"context"
	"errors"
	"strings"

	"github.com/redis/go-redis/v9"
)

// RedisStorage 使用本機 redis 當作持久化 key/value，key 會加上 prefix
type RedisStorage struct {
	client *redis.Client
	prefix string
}

func NewRedisStorage(client *redis.Client, prefix string) *RedisStorage {
	return &RedisStorage{client: client, prefix: prefix}
}

var _ Storage = (*RedisStorage)(nil)

// Client 與其他元件（例如限流）共用連線
func (r *RedisStorage) Client() *redis.Client {
	return r.client
}

func (r *RedisStorage) Prefix() string {
	return r.prefix
}

func (r *RedisStorage) setPrefixKey(key string) string {
	if r.prefix == "" {
		return key
	}
	var builder strings.Builder
	builder.Grow(len(r.prefix) + 1 + len(key))
	builder.WriteString(r.prefix)
	builder.WriteString(":")
	builder.WriteString(key)
	return builder.String()
}

func (r *RedisStorage) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisStorage) Get(ctx context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, ErrInvalidKey
	}
	b, err := r.client.Get(ctx, r.setPrefixKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrKeyNotFound
	}
	return b, err
}

// Set 不設 TTL
func (r *RedisStorage) Set(ctx context.Context, key string, value []byte) error {
	if key == "" {
		return ErrInvalidKey
	}
	return r.client.Set(ctx, r.setPrefixKey(key), value, 0).Err()
}

func (r *RedisStorage) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, r.setPrefixKey(key)).Err()
}

func (r *RedisStorage) Close() error {
	return r.client.Close()
}

type RedisOption func(*redis.Options)

func NewRedisClient(address string, options ...RedisOption) *redis.Client {
	opts := &redis.Options{
		Addr: address,
	}
	for _, option := range options {
		option(opts)
	}
	return redis.NewClient(opts)
}

func WithPassword(password string) RedisOption {
	return func(o *redis.Options) {
		o.Password = password
	}
}

func WithDB(db int) RedisOption {
	return func(o *redis.Options) {
		o.DB = db
	}
}

func WithPoolSize(poolSize int) RedisOption {
	return func(o *redis.Options) {
		o.PoolSize = poolSize
	}
}
