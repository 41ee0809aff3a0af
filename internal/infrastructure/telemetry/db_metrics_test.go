package telemetry

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newDBMeter hands back an isolated meter backed by a manual reader so
// each subtest can assert on exactly what it recorded.
func newDBMeter(t *testing.T, name string) (*sdkmetric.ManualReader, *DBMetrics) {
	t.Helper()

	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	metrics, err := NewDBMetrics(provider.Meter(name), DefaultDBMetricsConfig(), zap.NewNop())
	require.NoError(t, err)
	return reader, metrics
}

func hasMetric(rm metricdata.ResourceMetrics, name string) bool {
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name == name {
				return true
			}
		}
	}
	return false
}

func mockGorm(t *testing.T) *gorm.DB {
	t.Helper()

	mockDB, _, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = mockDB.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: mockDB}), &gorm.Config{})
	require.NoError(t, err)
	return gormDB
}

func TestDefaultDBMetricsConfig(t *testing.T) {
	cfg := DefaultDBMetricsConfig()

	assert.True(t, cfg.Enabled)
	assert.Equal(t, 200*time.Millisecond, cfg.SlowQueryThreshold)
	assert.Equal(t, 15*time.Second, cfg.PoolStatsInterval)
}

func TestNewDBMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer provider.Shutdown(context.Background())
	meter := provider.Meter("db.client")

	t.Run("creates all instruments", func(t *testing.T) {
		metrics, err := NewDBMetrics(meter, DefaultDBMetricsConfig(), zap.NewNop())
		require.NoError(t, err)

		assert.NotNil(t, metrics.poolConnections)
		assert.NotNil(t, metrics.poolConnectionsMax)
		assert.NotNil(t, metrics.queryTotal)
		assert.NotNil(t, metrics.queryDuration)
		assert.NotNil(t, metrics.slowQueryTotal)
	})

	t.Run("zero-value config picks up defaults", func(t *testing.T) {
		metrics, err := NewDBMetrics(meter, DBMetricsConfig{}, zap.NewNop())
		require.NoError(t, err)

		assert.Equal(t, 200*time.Millisecond, metrics.config.SlowQueryThreshold)
		assert.Equal(t, 15*time.Second, metrics.config.PoolStatsInterval)
	})

	t.Run("nil logger falls back to nop", func(t *testing.T) {
		metrics, err := NewDBMetrics(meter, DefaultDBMetricsConfig(), nil)
		require.NoError(t, err)
		require.NotNil(t, metrics.logger)
	})
}

func TestDBMetrics_RecordQuery(t *testing.T) {
	ctx := context.Background()

	t.Run("counts and times queries", func(t *testing.T) {
		reader, metrics := newDBMeter(t, "db.record")

		metrics.RecordQuery(ctx, "SELECT", "products", 50*time.Millisecond, nil)

		var rm metricdata.ResourceMetrics
		require.NoError(t, reader.Collect(ctx, &rm))

		assert.True(t, hasMetric(rm, "db_query_total"))
		assert.True(t, hasMetric(rm, "db_query_duration_seconds"))
	})

	t.Run("flags queries over the slow threshold", func(t *testing.T) {
		reader := sdkmetric.NewManualReader()
		provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
		defer provider.Shutdown(ctx)

		metrics, err := NewDBMetrics(provider.Meter("db.slow"), DBMetricsConfig{
			Enabled:            true,
			SlowQueryThreshold: 100 * time.Millisecond,
		}, zap.NewNop())
		require.NoError(t, err)

		metrics.RecordQuery(ctx, "SELECT", "orders", 250*time.Millisecond, nil)

		var rm metricdata.ResourceMetrics
		require.NoError(t, reader.Collect(ctx, &rm))
		assert.True(t, hasMetric(rm, "db_slow_query_total"))
	})

	t.Run("fast queries leave the slow counter at zero", func(t *testing.T) {
		reader, metrics := newDBMeter(t, "db.fast")

		metrics.RecordQuery(ctx, "SELECT", "products", 50*time.Millisecond, nil)

		var rm metricdata.ResourceMetrics
		require.NoError(t, reader.Collect(ctx, &rm))

		for _, sm := range rm.ScopeMetrics {
			for _, m := range sm.Metrics {
				if m.Name == "db_slow_query_total" {
					sum := m.Data.(metricdata.Sum[int64])
					for _, dp := range sum.DataPoints {
						assert.Equal(t, int64(0), dp.Value)
					}
				}
			}
		}
	})

	t.Run("operation case and empty values are normalized", func(t *testing.T) {
		reader, metrics := newDBMeter(t, "db.normalize")

		metrics.RecordQuery(ctx, "select", "clients", 10*time.Millisecond, nil)
		metrics.RecordQuery(ctx, "Insert", "clients", 10*time.Millisecond, nil)
		metrics.RecordQuery(ctx, "", "clients", 10*time.Millisecond, nil)

		var rm metricdata.ResourceMetrics
		require.NoError(t, reader.Collect(ctx, &rm))
		assert.True(t, hasMetric(rm, "db_query_total"))
	})

	t.Run("slow query with no table name still records", func(t *testing.T) {
		reader := sdkmetric.NewManualReader()
		provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
		defer provider.Shutdown(ctx)

		metrics, err := NewDBMetrics(provider.Meter("db.notable"), DBMetricsConfig{
			Enabled:            true,
			SlowQueryThreshold: 50 * time.Millisecond,
		}, zap.NewNop())
		require.NoError(t, err)

		metrics.RecordQuery(ctx, "SELECT", "", 100*time.Millisecond, nil)

		var rm metricdata.ResourceMetrics
		require.NoError(t, reader.Collect(ctx, &rm))
		assert.True(t, hasMetric(rm, "db_slow_query_total"))
	})
}

func TestDBMetrics_PoolStats(t *testing.T) {
	ctx := context.Background()

	t.Run("samples the pool on an interval", func(t *testing.T) {
		reader := sdkmetric.NewManualReader()
		provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
		defer provider.Shutdown(ctx)

		mockDB, _, err := sqlmock.New()
		require.NoError(t, err)
		defer mockDB.Close()

		metrics, err := NewDBMetrics(provider.Meter("db.pool"), DBMetricsConfig{
			Enabled:           true,
			PoolStatsInterval: 50 * time.Millisecond,
		}, zap.NewNop())
		require.NoError(t, err)
		metrics.SetSQLDB(mockDB)

		collectCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		metrics.StartPoolStatsCollection(collectCtx)

		time.Sleep(100 * time.Millisecond)
		metrics.Stop()

		var rm metricdata.ResourceMetrics
		require.NoError(t, reader.Collect(ctx, &rm))

		assert.True(t, hasMetric(rm, "db_pool_connections_max"))
		assert.True(t, hasMetric(rm, "db_pool_connections"))
	})

	t.Run("without a sql.DB the collector is a no-op", func(t *testing.T) {
		_, metrics := newDBMeter(t, "db.nopool")

		collectCtx, cancel := context.WithCancel(ctx)
		defer cancel()

		metrics.StartPoolStatsCollection(collectCtx)
		time.Sleep(50 * time.Millisecond)
		metrics.Stop()
	})

	t.Run("context cancellation stops the collector", func(t *testing.T) {
		reader := sdkmetric.NewManualReader()
		provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
		defer provider.Shutdown(ctx)

		mockDB, _, err := sqlmock.New()
		require.NoError(t, err)
		defer mockDB.Close()

		metrics, err := NewDBMetrics(provider.Meter("db.cancel"), DBMetricsConfig{
			Enabled:           true,
			PoolStatsInterval: time.Second,
		}, zap.NewNop())
		require.NoError(t, err)
		metrics.SetSQLDB(mockDB)

		collectCtx, cancel := context.WithCancel(ctx)
		metrics.StartPoolStatsCollection(collectCtx)
		cancel()
		metrics.Stop()
	})
}

func TestDBMetrics_Stop(t *testing.T) {
	ctx := context.Background()

	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer provider.Shutdown(ctx)

	mockDB, _, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()

	metrics, err := NewDBMetrics(provider.Meter("db.stop"), DBMetricsConfig{
		Enabled:           true,
		PoolStatsInterval: 100 * time.Millisecond,
	}, zap.NewNop())
	require.NoError(t, err)
	metrics.SetSQLDB(mockDB)

	collectCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	metrics.StartPoolStatsCollection(collectCtx)

	t.Run("does not block", func(t *testing.T) {
		done := make(chan struct{})
		go func() {
			metrics.Stop()
			close(done)
		}()

		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("Stop() did not return")
		}
	})

	t.Run("repeat calls are safe", func(t *testing.T) {
		assert.NotPanics(t, func() { metrics.Stop() })
		assert.NotPanics(t, func() { metrics.Stop() })
	})
}

func TestDBMetricsPlugin(t *testing.T) {
	t.Run("reports its name", func(t *testing.T) {
		_, metrics := newDBMeter(t, "db.plugin")
		plugin := NewDBMetricsPlugin(metrics, zap.NewNop())
		assert.Equal(t, "db_metrics", plugin.Name())
	})

	t.Run("registers callbacks on a gorm DB", func(t *testing.T) {
		_, metrics := newDBMeter(t, "db.plugin.init")
		plugin := NewDBMetricsPlugin(metrics, zap.NewNop())

		require.NoError(t, plugin.Initialize(mockGorm(t)))
	})
}

func TestDetectOperationType(t *testing.T) {
	tests := []struct {
		sql      string
		expected string
	}{
		{"SELECT * FROM products", "SELECT"},
		{"select id from products", "SELECT"},
		{"  SELECT id FROM orders", "SELECT"},
		{"INSERT INTO orders (order_number) VALUES ('ORD-1')", "INSERT"},
		{"insert into client_profiles values (1)", "INSERT"},
		{"UPDATE products SET unit_price = 4.2", "UPDATE"},
		{"update orders set status = 'confirmed'", "UPDATE"},
		{"DELETE FROM documents WHERE id = 1", "DELETE"},
		{"delete from outbox_entries", "DELETE"},
		{"CREATE TABLE products", "OTHER"},
		{"DROP TABLE products", "OTHER"},
		{"TRUNCATE TABLE pending_deliveries", "OTHER"},
		{"", "OTHER"},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.expected, detectOperationType(tc.sql), "sql %q", tc.sql)
	}
}

func TestRegisterDBMetrics(t *testing.T) {
	ctx := context.Background()
	logger := zap.NewNop()

	t.Run("disabled config yields nil", func(t *testing.T) {
		metrics, err := RegisterDBMetrics(mockGorm(t), nil, DBMetricsConfig{Enabled: false}, logger)
		require.NoError(t, err)
		assert.Nil(t, metrics)
	})

	t.Run("nil meter provider yields nil", func(t *testing.T) {
		metrics, err := RegisterDBMetrics(mockGorm(t), nil, DBMetricsConfig{Enabled: true}, logger)
		require.NoError(t, err)
		assert.Nil(t, metrics)
	})

	t.Run("registers against a live provider", func(t *testing.T) {
		reader := sdkmetric.NewManualReader()
		sdkProvider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
		defer sdkProvider.Shutdown(ctx)

		mp := &MeterProvider{
			provider: sdkProvider,
			logger:   logger,
			config:   MetricsConfig{Enabled: true},
		}

		metrics, err := RegisterDBMetrics(mockGorm(t), mp, DBMetricsConfig{
			Enabled:            true,
			SlowQueryThreshold: 200 * time.Millisecond,
			PoolStatsInterval:  15 * time.Second,
		}, logger)

		require.NoError(t, err)
		require.NotNil(t, metrics)
	})
}

func TestDBMetrics_ConcurrentRecordQuery(t *testing.T) {
	ctx := context.Background()
	reader, metrics := newDBMeter(t, "db.concurrent")

	operations := []string{"SELECT", "INSERT", "UPDATE", "DELETE"}
	tables := []string{"client_profiles", "orders", "products", "documents"}

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			metrics.RecordQuery(ctx, operations[i%4], tables[i%4], time.Duration(i)*time.Millisecond, nil)
		}(i)
	}
	wg.Wait()

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))
	assert.True(t, hasMetric(rm, "db_query_total"))
}

func TestDBMetrics_ScopedMeter(t *testing.T) {
	ctx := context.Background()

	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer provider.Shutdown(ctx)

	metrics, err := NewDBMetrics(provider.Meter("promoshop.db"), DefaultDBMetricsConfig(), zap.NewNop())
	require.NoError(t, err)

	metrics.RecordQuery(ctx, "SELECT", "products", 10*time.Millisecond, nil)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))

	for _, sm := range rm.ScopeMetrics {
		if sm.Scope.Name == "promoshop.db" {
			assert.NotEmpty(t, sm.Metrics)
			return
		}
	}
	t.Error("no metrics recorded under the promoshop.db scope")
}
