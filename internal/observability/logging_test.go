package observability

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestInitLogging(t *testing.T) {
	origCLI, origServer := CLILogger, ServerLogger
	defer func() {
		CLILogger = origCLI
		ServerLogger = origServer
	}()

	t.Run("console format", func(t *testing.T) {
		require.NoError(t, InitLogging("debug", "console"))
		assert.NotNil(t, CLILogger)
		assert.True(t, CLILogger.Core().Enabled(zapcore.DebugLevel))
	})

	t.Run("json format", func(t *testing.T) {
		require.NoError(t, InitLogging("warn", "json"))
		assert.False(t, CLILogger.Core().Enabled(zapcore.DebugLevel))
	})

	t.Run("empty format defaults to console", func(t *testing.T) {
		require.NoError(t, InitLogging("info", ""))
	})

	t.Run("bad level", func(t *testing.T) {
		assert.Error(t, InitLogging("shouting", "console"))
	})

	t.Run("bad format", func(t *testing.T) {
		assert.Error(t, InitLogging("info", "xml"))
	})
}
