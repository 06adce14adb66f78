package logging

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNewHonoursLevel(t *testing.T) {
	logger, err := New(Config{Level: "debug", Format: FormatConsole})
	require.NoError(t, err)
	require.True(t, logger.Core().Enabled(zapcore.DebugLevel))

	logger, err = New(DefaultConfig())
	require.NoError(t, err)
	require.False(t, logger.Core().Enabled(zapcore.DebugLevel))
	require.True(t, logger.Core().Enabled(zapcore.InfoLevel))
}

func TestNewRejectsBadConfig(t *testing.T) {
	_, err := New(Config{Level: "loud"})
	require.Error(t, err)

	_, err = New(Config{Format: "xml"})
	require.Error(t, err)
}
