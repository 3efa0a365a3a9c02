package util

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var orderIDPattern = regexp.MustCompile(`^FL-\d{8}-[0-9A-Z]{5}$`)

func TestGenerateOrderID(t *testing.T) {
	now := time.Date(2025, 1, 1, 10, 30, 0, 0, time.UTC)

	id, err := GenerateOrderID(now)
	require.NoError(t, err)
	require.Regexp(t, orderIDPattern, id)
	require.Equal(t, "FL-20250101-", id[:12])
}

func TestGenerateOrderIDUsesUTCDate(t *testing.T) {
	// 台北時間 1/2 凌晨仍是 UTC 1/1
	loc := time.FixedZone("UTC+8", 8*3600)
	now := time.Date(2025, 1, 2, 3, 0, 0, 0, loc)

	id, err := GenerateOrderID(now)
	require.NoError(t, err)
	require.Equal(t, "FL-20250101-", id[:12])
}

func TestGenerateOrderIDRandomSuffix(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 50; i++ {
		id, err := GenerateOrderID(time.Now())
		require.NoError(t, err)
		seen[id] = struct{}{}
	}
	// 36^5 種組合，50 次幾乎不可能全部相同
	require.Greater(t, len(seen), 1)
}
