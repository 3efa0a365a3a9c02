package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.TraceLevel)

	var buf bytes.Buffer
	logger, err := New("warn", &buf)
	require.NoError(t, err)

	logger.Info().Msg("hidden")
	require.Zero(t, buf.Len())

	logger.Warn().Str("order_id", "FL-20250101-ABCDE").Msg("visible")
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.Equal(t, "warn", entry["level"])
	require.Equal(t, ModuleName, entry["module"])
	require.Equal(t, "FL-20250101-ABCDE", entry["order_id"])
	require.Contains(t, entry, "time")

	buf.Reset()
	require.NoError(t, SetLevel("debug"))
	logger.Debug().Msg("now visible")
	require.NotZero(t, buf.Len())
}

func TestParseLevel(t *testing.T) {
	lvl, err := ParseLevel("")
	require.NoError(t, err)
	require.Equal(t, zerolog.InfoLevel, lvl)

	lvl, err = ParseLevel(" ERROR ")
	require.NoError(t, err)
	require.Equal(t, zerolog.ErrorLevel, lvl)

	_, err = ParseLevel("loud")
	require.Error(t, err)

	_, err = New("loud", nil)
	require.Error(t, err)
}
