package ratelimit

import (
	"context"
	"sync"
	"time"
)

const maxIdleBuckets = 10000

type bucket struct {
	tokens     float64
	lastRefill time.Time
}

/*
MemoryTokenBucket 單機 token bucket，取用時才依經過時間補充

	適用 memory 與 file storage，多個 instance 之間不共享
*/
type MemoryTokenBucket struct {
	LimiterConfig
	mu      sync.Mutex
	buckets map[string]*bucket
	now     func() time.Time
}

type MemoryOption func(*MemoryTokenBucket)

// WithNow 測試用
func WithNow(now func() time.Time) MemoryOption {
	return func(t *MemoryTokenBucket) {
		t.now = now
	}
}

func NewMemoryTokenBucket(config LimiterConfig, opts ...MemoryOption) *MemoryTokenBucket {
	t := &MemoryTokenBucket{
		LimiterConfig: config.normalize(),
		buckets:       make(map[string]*bucket),
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *MemoryTokenBucket) Allow(ctx context.Context, key string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	b, ok := t.buckets[key]
	if !ok {
		if len(t.buckets) >= maxIdleBuckets {
			t.pruneLocked(now)
		}
		b = &bucket{tokens: float64(t.Capacity), lastRefill: now}
		t.buckets[key] = b
	}

	elapsed := now.Sub(b.lastRefill).Seconds()
	if elapsed > 0 {
		b.tokens = min(float64(t.Capacity), b.tokens+elapsed*t.RatePS)
		b.lastRefill = now
	}
	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

// pruneLocked 移除閒置到已經補滿的 bucket
func (t *MemoryTokenBucket) pruneLocked(now time.Time) {
	ttl := t.idleTTL()
	for key, b := range t.buckets {
		if now.Sub(b.lastRefill) > ttl {
			delete(t.buckets, key)
		}
	}
}

var _ Limiter = (*MemoryTokenBucket)(nil)
