package util

import (
	"crypto/rand"
	"math/big"
	"strings"
	"time"
)

const (
	OrderIDPrefix     = "FL"
	orderIDSuffixLen  = 5
	orderIDAlphabet   = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	orderIDDateLayout = "20060102"
)

// GenerateOrderID FL-YYYYMMDD-XXXXX，日期取 UTC
// 後綴隨機，不保證全域唯一
func GenerateOrderID(now time.Time) (string, error) {
	suffix, err := randomString(orderIDSuffixLen)
	if err != nil {
		return "", err
	}

	var builder strings.Builder
	builder.Grow(len(OrderIDPrefix) + 2 + len(orderIDDateLayout) + orderIDSuffixLen)
	builder.WriteString(OrderIDPrefix)
	builder.WriteString("-")
	builder.WriteString(now.UTC().Format(orderIDDateLayout))
	builder.WriteString("-")
	builder.WriteString(suffix)
	return builder.String(), nil
}

func randomString(n int) (string, error) {
	max := big.NewInt(int64(len(orderIDAlphabet)))
	b := make([]byte, n)
	for i := range b {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b[i] = orderIDAlphabet[idx.Int64()]
	}
	return string(b), nil
}
