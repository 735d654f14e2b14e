package logging

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNewAppliesLevel(t *testing.T) {
	cases := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"WARN":    zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"":        zapcore.InfoLevel,
		"verbose": zapcore.InfoLevel,
	}
	for input, want := range cases {
		logger, err := New(input, "console")
		require.NoError(t, err)
		require.True(t, logger.Core().Enabled(want), "level %q", input)
		if want > zapcore.DebugLevel {
			require.False(t, logger.Core().Enabled(want-1), "level %q", input)
		}
	}
}

func TestNewJSONFormat(t *testing.T) {
	logger, err := New("info", "json")
	require.NoError(t, err)
	require.NotNil(t, logger)
}
