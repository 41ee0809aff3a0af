package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type catalogItem struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:100"`
	CreatedAt time.Time
}

func openTracingTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&catalogItem{}))
	return db
}

func newSpanRecorder() (*sdktrace.TracerProvider, *tracetest.SpanRecorder) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	return tp, recorder
}

func TestDefaultDBTracingConfig(t *testing.T) {
	cfg := DefaultDBTracingConfig()

	assert.False(t, cfg.Enabled)
	assert.False(t, cfg.LogFullSQL)
	assert.Equal(t, 200*time.Millisecond, cfg.SlowQueryThresh)
	assert.Equal(t, "postgresql", cfg.DBSystem)
	assert.True(t, cfg.WithoutVariables)
}

func TestDBTracingPlugin_RegisterOtelGorm_Disabled(t *testing.T) {
	db := openTracingTestDB(t)

	plugin := NewDBTracingPlugin(DefaultDBTracingConfig(), zap.NewNop())

	assert.NoError(t, plugin.RegisterOtelGorm(db))
}

func TestDBTracingPlugin_RegisterOtelGorm_Enabled(t *testing.T) {
	db := openTracingTestDB(t)

	cfg := DBTracingConfig{
		Enabled:          true,
		SlowQueryThresh:  200 * time.Millisecond,
		DBSystem:         "sqlite",
		WithoutVariables: true,
	}

	plugin := NewDBTracingPlugin(cfg, zap.NewNop())

	assert.NoError(t, plugin.RegisterOtelGorm(db))
}

func TestDBTracingPlugin_RegisterOtelGorm_WithFullSQL(t *testing.T) {
	db := openTracingTestDB(t)

	cfg := DBTracingConfig{
		Enabled:         true,
		LogFullSQL:      true,
		SlowQueryThresh: 200 * time.Millisecond,
		DBSystem:        "sqlite",
	}

	plugin := NewDBTracingPlugin(cfg, zap.NewNop())

	assert.NoError(t, plugin.RegisterOtelGorm(db))
}

func TestDBTracingPlugin_RegisterOtelGorm_DoubleRegistration(t *testing.T) {
	db := openTracingTestDB(t)

	cfg := DBTracingConfig{
		Enabled:         true,
		SlowQueryThresh: 200 * time.Millisecond,
		DBSystem:        "sqlite",
	}

	plugin := NewDBTracingPlugin(cfg, zap.NewNop())
	require.NoError(t, plugin.RegisterOtelGorm(db))

	// Registering the same callback names twice must fail.
	err := plugin.RegisterOtelGorm(db)
	assert.Error(t, err)
}

func TestMarkQueryStart(t *testing.T) {
	db := openTracingTestDB(t)
	db.Statement.Context = context.Background()

	markQueryStart(db)

	start, ok := db.Statement.Context.Value(queryStartTimeKey).(time.Time)
	require.True(t, ok)
	assert.WithinDuration(t, time.Now(), start, time.Second)
}

func TestAnnotateSpan_RowsAffectedAndTable(t *testing.T) {
	tp, recorder := newSpanRecorder()
	tracer := tp.Tracer("db-tracing-test")

	ctx, span := tracer.Start(context.Background(), "query")

	db := openTracingTestDB(t)
	db.Statement.Context = ctx
	db.Statement.RowsAffected = 7
	db.Statement.Table = "products"

	plugin := NewDBTracingPlugin(DBTracingConfig{SlowQueryThresh: time.Second}, zap.NewNop())
	plugin.annotateSpan(db)
	span.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)

	attrs := spans[0].Attributes()
	foundRows, foundTable := false, false
	for _, attr := range attrs {
		switch string(attr.Key) {
		case "db.rows_affected":
			foundRows = true
			assert.Equal(t, int64(7), attr.Value.AsInt64())
		case "db.sql.table":
			foundTable = true
			assert.Equal(t, "products", attr.Value.AsString())
		}
	}
	assert.True(t, foundRows)
	assert.True(t, foundTable)
}

func TestAnnotateSpan_MarksErrors(t *testing.T) {
	tp, recorder := newSpanRecorder()
	tracer := tp.Tracer("db-tracing-test")

	ctx, span := tracer.Start(context.Background(), "query")

	db := openTracingTestDB(t)
	db.Statement.Context = ctx
	db.Error = gorm.ErrInvalidTransaction

	plugin := NewDBTracingPlugin(DBTracingConfig{SlowQueryThresh: time.Second}, zap.NewNop())
	plugin.annotateSpan(db)
	span.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	require.Len(t, spans[0].Events(), 1)
	assert.Equal(t, "exception", spans[0].Events()[0].Name)
}

func TestAnnotateSpan_IgnoresRecordNotFound(t *testing.T) {
	tp, recorder := newSpanRecorder()
	tracer := tp.Tracer("db-tracing-test")

	ctx, span := tracer.Start(context.Background(), "query")

	db := openTracingTestDB(t)
	db.Statement.Context = ctx
	db.Error = gorm.ErrRecordNotFound

	plugin := NewDBTracingPlugin(DBTracingConfig{SlowQueryThresh: time.Second}, zap.NewNop())
	plugin.annotateSpan(db)
	span.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.NotEqual(t, codes.Error, spans[0].Status().Code)
	assert.Empty(t, spans[0].Events())
}

func TestAnnotateSpan_SlowQueryEvent(t *testing.T) {
	tp, recorder := newSpanRecorder()
	tracer := tp.Tracer("db-tracing-test")

	ctx, span := tracer.Start(context.Background(), "query")
	// Backdate the start so the elapsed time clears the threshold.
	ctx = context.WithValue(ctx, queryStartTimeKey, time.Now().Add(-500*time.Millisecond))

	db := openTracingTestDB(t)
	db.Statement.Context = ctx

	plugin := NewDBTracingPlugin(DBTracingConfig{SlowQueryThresh: 100 * time.Millisecond}, zap.NewNop())
	plugin.annotateSpan(db)
	span.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)

	foundSlow := false
	for _, attr := range spans[0].Attributes() {
		if string(attr.Key) == "db.slow_query" {
			foundSlow = true
			assert.True(t, attr.Value.AsBool())
		}
	}
	assert.True(t, foundSlow)

	require.Len(t, spans[0].Events(), 1)
	assert.Equal(t, "slow_query_warning", spans[0].Events()[0].Name)
}

func TestAnnotateSpan_FastQueryNoEvent(t *testing.T) {
	tp, recorder := newSpanRecorder()
	tracer := tp.Tracer("db-tracing-test")

	ctx, span := tracer.Start(context.Background(), "query")
	ctx = context.WithValue(ctx, queryStartTimeKey, time.Now())

	db := openTracingTestDB(t)
	db.Statement.Context = ctx

	plugin := NewDBTracingPlugin(DBTracingConfig{SlowQueryThresh: time.Minute}, zap.NewNop())
	plugin.annotateSpan(db)
	span.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Empty(t, spans[0].Events())
}

func TestAnnotateSpan_NonRecordingSpan(t *testing.T) {
	db := openTracingTestDB(t)
	db.Statement.Context = context.Background()

	plugin := NewDBTracingPlugin(DBTracingConfig{SlowQueryThresh: time.Second}, zap.NewNop())

	// No span in context, must not panic.
	plugin.annotateSpan(db)
}

func TestAnnotateSpan_NilContext(t *testing.T) {
	db := openTracingTestDB(t)
	db.Statement.Context = nil

	plugin := NewDBTracingPlugin(DBTracingConfig{SlowQueryThresh: time.Second}, zap.NewNop())

	plugin.annotateSpan(db)
}

func TestDBTracingPlugin_IntegrationWithOtelGorm(t *testing.T) {
	tp, recorder := newSpanRecorder()
	tracer := tp.Tracer("db-tracing-test")

	db := openTracingTestDB(t)

	cfg := DBTracingConfig{
		Enabled:         true,
		SlowQueryThresh: time.Minute,
		DBSystem:        "sqlite",
	}
	plugin := NewDBTracingPlugin(cfg, zap.NewNop())
	require.NoError(t, plugin.RegisterOtelGorm(db))

	ctx, parent := tracer.Start(context.Background(), "create-product")
	err := db.WithContext(ctx).Create(&catalogItem{Name: "Branded Mug"}).Error
	parent.End()

	require.NoError(t, err)

	spans := recorder.Ended()
	assert.NotEmpty(t, spans)
}
