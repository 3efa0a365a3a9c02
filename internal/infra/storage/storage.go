package storage

//go:generate mockgen -destination=mock/storage_mock.go -package=mock_storage github.com/RoyceAzure/lab/storefront/internal/infra/storage Storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrKeyNotFound = errors.New("storage key not found")
	ErrInvalidKey  = errors.New("invalid storage key")
)

// Storage 本地持久化 key/value
// 每個 key 存放一份完整的 JSON 文件，寫入為整份覆蓋
type Storage interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// LoadJSON key 不存在時回傳 found=false, err=nil
func LoadJSON(ctx context.Context, s Storage, key string, v any) (found bool, err error) {
	raw, err := s.Get(ctx, key)
	if errors.Is(err, ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return true, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

func SaveJSON(ctx context.Context, s Storage, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.Set(ctx, key, raw); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}
