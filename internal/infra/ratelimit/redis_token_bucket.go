package ratelimit

import (
	"context"
	"math"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisClient 介面定義
type RedisClient interface {
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd
}

const tokenBucketScript = `
	local key = KEYS[1]
	local capacity = tonumber(ARGV[1])
	local rate = tonumber(ARGV[2])
	local now = tonumber(ARGV[3])
	local ttl = tonumber(ARGV[4])

	-- 取得或初始化 bucket 狀態
	local bucket = redis.call('HMGET', key, 'tokens', 'last_refill')
	local currentTokens = tonumber(bucket[1])
	local lastRefill = tonumber(bucket[2])
	if currentTokens == nil then
		currentTokens = capacity
		lastRefill = now
	end

	-- 依經過時間補充
	local elapsedSeconds = math.max(0, now - lastRefill) / 1000000000
	currentTokens = math.min(capacity, currentTokens + elapsedSeconds * rate)

	local allowed = 0
	if currentTokens >= 1 then
		currentTokens = currentTokens - 1
		allowed = 1
	end

	redis.call('HSET', key, 'tokens', currentTokens, 'last_refill', now)
	redis.call('EXPIRE', key, ttl)
	return allowed
`

/*
RedisTokenBucket 以 lua script 在 redis 上原子地補充與扣減

	多個 instance 共用同一個 bucket
	redis 錯誤時拒絕請求
*/
type RedisTokenBucket struct {
	LimiterConfig
	client RedisClient
	prefix string
}

func NewRedisTokenBucket(client RedisClient, prefix string, config LimiterConfig) *RedisTokenBucket {
	return &RedisTokenBucket{
		LimiterConfig: config.normalize(),
		client:        client,
		prefix:        prefix,
	}
}

func (r *RedisTokenBucket) bucketKey(key string) string {
	k := "ratelimit:" + r.Name + ":" + key
	if r.prefix == "" {
		return k
	}
	return r.prefix + ":" + k
}

func (r *RedisTokenBucket) Allow(ctx context.Context, key string) bool {
	ttl := int64(math.Ceil(r.idleTTL().Seconds()))
	result, err := r.client.Eval(
		ctx,
		tokenBucketScript,
		[]string{r.bucketKey(key)},
		r.Capacity,
		r.RatePS,
		time.Now().UnixNano(),
		ttl,
	).Int64()
	if err != nil {
		return false
	}
	return result == 1
}

var _ Limiter = (*RedisTokenBucket)(nil)
