package ratelimit

import (
	"context"
	"time"
)

type RateLimitType string

var (
	TokenBucket = RateLimitType("token_bucket")
	RedisBucket = RateLimitType("redis_bucket")
)

// Limiter 每個 key 各自計算
type Limiter interface {
	Allow(ctx context.Context, key string) bool
}

type LimiterConfig struct {
	Name     string  // 區分不同路由的 bucket
	Capacity int     // bucket 容量，也是初始 token 數
	RatePS   float64 // 每秒補充的 token 數
}

func (c LimiterConfig) normalize() LimiterConfig {
	if c.Name == "" {
		c.Name = "global"
	}
	if c.Capacity <= 0 {
		c.Capacity = 1
	}
	return c
}

// idleTTL bucket 從空補到滿所需時間，超過這段時間沒用就可以丟掉
func (c LimiterConfig) idleTTL() time.Duration {
	if c.RatePS <= 0 {
		return time.Hour
	}
	return time.Duration(float64(c.Capacity)/c.RatePS*float64(time.Second)) + time.Second
}
