package ratelimit

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const testRedisAddr = "localhost:6379"

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func TestMemoryTokenBucket(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{t: time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)}
	limiter := NewMemoryTokenBucket(LimiterConfig{Name: "checkout", Capacity: 3, RatePS: 1}, WithNow(clock.Now))

	for i := 0; i < 3; i++ {
		require.True(t, limiter.Allow(ctx, "10.0.0.1"), "request %d", i+1)
	}
	require.False(t, limiter.Allow(ctx, "10.0.0.1"))

	// 不同 key 各自計算
	require.True(t, limiter.Allow(ctx, "10.0.0.2"))

	clock.Advance(1500 * time.Millisecond)
	require.True(t, limiter.Allow(ctx, "10.0.0.1"))
	require.False(t, limiter.Allow(ctx, "10.0.0.1"))

	// 補充不超過容量
	clock.Advance(time.Hour)
	for i := 0; i < 3; i++ {
		require.True(t, limiter.Allow(ctx, "10.0.0.1"))
	}
	require.False(t, limiter.Allow(ctx, "10.0.0.1"))
}

func TestMemoryTokenBucketZeroRate(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{t: time.Now()}
	limiter := NewMemoryTokenBucket(LimiterConfig{Capacity: 1}, WithNow(clock.Now))

	require.Equal(t, "global", limiter.Name)
	require.True(t, limiter.Allow(ctx, "k"))
	clock.Advance(time.Minute)
	require.False(t, limiter.Allow(ctx, "k"))
}

func TestMemoryTokenBucketPrune(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{t: time.Now()}
	limiter := NewMemoryTokenBucket(LimiterConfig{Capacity: 1, RatePS: 1}, WithNow(clock.Now))

	for i := 0; i < maxIdleBuckets; i++ {
		limiter.buckets[strconv.Itoa(i)] = &bucket{tokens: 1, lastRefill: clock.Now()}
	}
	clock.Advance(time.Minute)
	require.True(t, limiter.Allow(ctx, "fresh"))
	require.Len(t, limiter.buckets, 1)
}

type failingRedis struct{}

func (failingRedis) Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd {
	cmd := redis.NewCmd(ctx)
	cmd.SetErr(errors.New("connection refused"))
	return cmd
}

type recordingRedis struct {
	keys []string
}

func (r *recordingRedis) Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd {
	r.keys = append(r.keys, keys...)
	cmd := redis.NewCmd(ctx)
	cmd.SetVal(int64(1))
	return cmd
}

func TestRedisTokenBucketDeniesOnError(t *testing.T) {
	limiter := NewRedisTokenBucket(failingRedis{}, "storefront", LimiterConfig{Name: "track", Capacity: 10, RatePS: 1})
	require.False(t, limiter.Allow(context.Background(), "10.0.0.1"))
}

func TestRedisTokenBucketKey(t *testing.T) {
	client := &recordingRedis{}
	require.True(t, NewRedisTokenBucket(client, "storefront", LimiterConfig{Name: "track", Capacity: 1}).Allow(context.Background(), "10.0.0.1"))
	require.True(t, NewRedisTokenBucket(client, "", LimiterConfig{Name: "track", Capacity: 1}).Allow(context.Background(), "10.0.0.1"))
	require.Equal(t, []string{"storefront:ratelimit:track:10.0.0.1", "ratelimit:track:10.0.0.1"}, client.keys)
}

type RedisTokenBucketTestSuite struct {
	suite.Suite
	client *redis.Client
	ctx    context.Context
}

func TestRedisTokenBucketSuite(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: testRedisAddr, DB: 1})
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("redis not available on %s: %v", testRedisAddr, err)
	}
	defer client.Close()

	suite.Run(t, &RedisTokenBucketTestSuite{client: client, ctx: context.Background()})
}

func (s *RedisTokenBucketTestSuite) SetupTest() {
	keys, err := s.client.Keys(s.ctx, "storefront-test:ratelimit:*").Result()
	require.NoError(s.T(), err)
	if len(keys) > 0 {
		require.NoError(s.T(), s.client.Del(s.ctx, keys...).Err())
	}
}

func (s *RedisTokenBucketTestSuite) TestBasicRateLimit() {
	limiter := NewRedisTokenBucket(s.client, "storefront-test", LimiterConfig{Name: "checkout", Capacity: 5, RatePS: 0.01})

	for i := 0; i < 5; i++ {
		require.True(s.T(), limiter.Allow(s.ctx, "basic"), "request %d", i+1)
	}
	require.False(s.T(), limiter.Allow(s.ctx, "basic"))
	require.True(s.T(), limiter.Allow(s.ctx, "other"))

	ttl, err := s.client.TTL(s.ctx, "storefront-test:ratelimit:checkout:basic").Result()
	require.NoError(s.T(), err)
	require.Greater(s.T(), ttl, time.Duration(0))
}

func (s *RedisTokenBucketTestSuite) TestTokenRefill() {
	limiter := NewRedisTokenBucket(s.client, "storefront-test", LimiterConfig{Name: "track", Capacity: 1, RatePS: 10})

	require.True(s.T(), limiter.Allow(s.ctx, "refill"))
	require.False(s.T(), limiter.Allow(s.ctx, "refill"))

	time.Sleep(150 * time.Millisecond)
	require.True(s.T(), limiter.Allow(s.ctx, "refill"))
}
