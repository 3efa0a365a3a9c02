package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const ModuleName = "storefront"

// New JSON 格式寫到 w，w 為 nil 時寫到 stdout
// 等級使用全域設定，設定檔重新載入時以 SetLevel 調整
func New(level string, w io.Writer) (*zerolog.Logger, error) {
	if err := SetLevel(level); err != nil {
		return nil, err
	}
	if w == nil {
		w = os.Stdout
	}
	zerolog.TimeFieldFormat = time.RFC3339

	logger := zerolog.New(w).With().Timestamp().Str("module", ModuleName).Logger()
	return &logger, nil
}

func SetLevel(level string) error {
	lvl, err := ParseLevel(level)
	if err != nil {
		return err
	}
	zerolog.SetGlobalLevel(lvl)
	return nil
}

// ParseLevel 空字串視為 info
func ParseLevel(level string) (zerolog.Level, error) {
	level = strings.ToLower(strings.TrimSpace(level))
	if level == "" {
		return zerolog.InfoLevel, nil
	}
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return lvl, nil
}
