package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

func observedGormLogger(level gormlogger.LogLevel, opts ...GormLoggerOption) (*GormLogger, *observer.ObservedLogs) {
	core, logs := observer.New(zap.DebugLevel)
	return NewGormLogger(zap.New(core), level, opts...), logs
}

func TestGormLogger_Trace(t *testing.T) {
	ctx := context.Background()
	query := func() (string, int64) { return "SELECT * FROM orders", 3 }

	t.Run("logs query at debug when level is info", func(t *testing.T) {
		gl, logs := observedGormLogger(gormlogger.Info)

		gl.Trace(ctx, time.Now(), query, nil)

		entries := logs.FilterMessage("SQL Query").All()
		require.Len(t, entries, 1)
		assert.Equal(t, zap.DebugLevel, entries[0].Level)
		assert.Equal(t, "SELECT * FROM orders", entries[0].ContextMap()["sql"])
		assert.Equal(t, int64(3), entries[0].ContextMap()["rows"])
	})

	t.Run("silent level logs nothing", func(t *testing.T) {
		gl, logs := observedGormLogger(gormlogger.Silent)

		gl.Trace(ctx, time.Now(), query, errors.New("broken"))

		assert.Zero(t, logs.Len())
	})

	t.Run("logs errors", func(t *testing.T) {
		gl, logs := observedGormLogger(gormlogger.Error)

		gl.Trace(ctx, time.Now(), query, errors.New("connection reset"))

		entries := logs.FilterMessage("SQL Error").All()
		require.Len(t, entries, 1)
		assert.Equal(t, zap.ErrorLevel, entries[0].Level)
	})

	t.Run("drops record-not-found by default", func(t *testing.T) {
		gl, logs := observedGormLogger(gormlogger.Error)

		gl.Trace(ctx, time.Now(), query, gormlogger.ErrRecordNotFound)

		assert.Zero(t, logs.FilterMessage("SQL Error").Len())
	})

	t.Run("logs record-not-found when configured", func(t *testing.T) {
		gl, logs := observedGormLogger(gormlogger.Error, WithIgnoreRecordNotFoundError(false))

		gl.Trace(ctx, time.Now(), query, gormlogger.ErrRecordNotFound)

		assert.Equal(t, 1, logs.FilterMessage("SQL Error").Len())
	})

	t.Run("warns on slow queries", func(t *testing.T) {
		gl, logs := observedGormLogger(gormlogger.Warn, WithSlowThreshold(time.Millisecond))

		gl.Trace(ctx, time.Now().Add(-50*time.Millisecond), query, nil)

		require.Equal(t, 1, logs.Len())
		assert.Equal(t, zap.WarnLevel, logs.All()[0].Level)
		assert.Contains(t, logs.All()[0].Message, "SLOW SQL")
	})

	t.Run("tags query with request id from context", func(t *testing.T) {
		gl, logs := observedGormLogger(gormlogger.Info)
		reqCtx, _ := WithRequestID(context.Background(), zap.NewNop(), "req-42")

		gl.Trace(reqCtx, time.Now(), query, nil)

		entries := logs.FilterMessage("SQL Query").All()
		require.Len(t, entries, 1)
		assert.Equal(t, "req-42", entries[0].ContextMap()["request_id"])
	})
}

func TestGormLogger_LogMode(t *testing.T) {
	gl, _ := observedGormLogger(gormlogger.Warn)

	quieter := gl.LogMode(gormlogger.Silent)

	// LogMode clones rather than mutating the shared instance
	assert.Equal(t, gormlogger.Warn, gl.logLevel)
	assert.Equal(t, gormlogger.Silent, quieter.(*GormLogger).logLevel)
}

func TestMapGormLogLevel(t *testing.T) {
	assert.Equal(t, gormlogger.Silent, MapGormLogLevel("silent"))
	assert.Equal(t, gormlogger.Error, MapGormLogLevel("error"))
	assert.Equal(t, gormlogger.Warn, MapGormLogLevel("warn"))
	assert.Equal(t, gormlogger.Info, MapGormLogLevel("info"))
	assert.Equal(t, gormlogger.Info, MapGormLogLevel("debug"))
	assert.Equal(t, gormlogger.Warn, MapGormLogLevel("anything else"))
}
