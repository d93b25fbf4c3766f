package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	gormlogger "gorm.io/gorm/logger"
)

func TestNew(t *testing.T) {
	t.Run("console format", func(t *testing.T) {
		l, err := New(DefaultConfig())
		require.NoError(t, err)
		assert.True(t, l.Core().Enabled(zapcore.InfoLevel))
		assert.False(t, l.Core().Enabled(zapcore.DebugLevel))
	})

	t.Run("json format with debug level", func(t *testing.T) {
		cfg := ProductionConfig()
		cfg.Level = "debug"
		l, err := New(cfg)
		require.NoError(t, err)
		assert.True(t, l.Core().Enabled(zapcore.DebugLevel))
	})

	t.Run("unknown level falls back to info", func(t *testing.T) {
		assert.Equal(t, zapcore.InfoLevel, parseLevel("chatty"))
	})
}

func TestContext(t *testing.T) {
	t.Run("round-trips the logger", func(t *testing.T) {
		l := zap.NewNop()
		ctx := WithContext(context.Background(), l)
		assert.Same(t, l, FromContext(ctx))
	})

	t.Run("missing logger yields a nop", func(t *testing.T) {
		assert.NotNil(t, FromContext(context.Background()))
	})

	t.Run("request and user IDs", func(t *testing.T) {
		ctx, _ := WithRequestID(context.Background(), zap.NewNop(), "req-1")
		ctx, _ = WithUserID(ctx, zap.NewNop(), "user-1")
		assert.Equal(t, "req-1", GetRequestID(ctx))
		assert.Equal(t, "user-1", GetUserID(ctx))
	})
}

func TestMapGormLogLevel(t *testing.T) {
	assert.Equal(t, gormlogger.Silent, MapGormLogLevel("silent"))
	assert.Equal(t, gormlogger.Info, MapGormLogLevel("debug"))
	assert.Equal(t, gormlogger.Warn, MapGormLogLevel("unknown"))
}
