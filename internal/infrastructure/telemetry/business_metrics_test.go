package telemetry_test

import (
	"context"
	"testing"
	"time"

	"github.com/promoshop/backend/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"
	"go.uber.org/zap"
)

func TestNewBusinessMetrics(t *testing.T) {
	meter := noop.NewMeterProvider().Meter("test")

	bm, err := telemetry.NewBusinessMetrics(telemetry.BusinessMetricsConfig{
		Meter:  meter,
		Logger: zap.NewNop(),
	})

	require.NoError(t, err)
	require.NotNil(t, bm)
}

func TestNewBusinessMetrics_NilMeter(t *testing.T) {
	bm, err := telemetry.NewBusinessMetrics(telemetry.BusinessMetricsConfig{
		Meter:  nil,
		Logger: zap.NewNop(),
	})

	require.Error(t, err)
	assert.Nil(t, bm)
	assert.Equal(t, "NewBusinessMetrics: meter cannot be nil", err.Error())
}

func TestBusinessMetrics_RecordOrderCreated(t *testing.T) {
	meter := noop.NewMeterProvider().Meter("test")
	bm, err := telemetry.NewBusinessMetrics(telemetry.BusinessMetricsConfig{
		Meter: meter,
	})
	require.NoError(t, err)

	ctx := context.Background()

	// Should not panic
	bm.RecordOrderCreated(ctx, "acme-promo")
	bm.RecordOrderCreated(ctx, "swiss-gifts")
}

func TestBusinessMetrics_RecordOrderAmount(t *testing.T) {
	meter := noop.NewMeterProvider().Meter("test")
	bm, err := telemetry.NewBusinessMetrics(telemetry.BusinessMetricsConfig{
		Meter: meter,
	})
	require.NoError(t, err)

	ctx := context.Background()

	// Should not panic
	bm.RecordOrderAmount(ctx, "acme-promo", 10000) // 100.00 CHF
	bm.RecordOrderAmount(ctx, "swiss-gifts", 50000)
}

func TestBusinessMetrics_RecordOrderWithAmount(t *testing.T) {
	meter := noop.NewMeterProvider().Meter("test")
	bm, err := telemetry.NewBusinessMetrics(telemetry.BusinessMetricsConfig{
		Meter: meter,
	})
	require.NoError(t, err)

	ctx := context.Background()
	amount := decimal.NewFromFloat(199.99)

	// Should not panic and record both count and amount
	bm.RecordOrderWithAmount(ctx, "acme-promo", amount)
}

func TestBusinessMetrics_RecordOrderProcessed(t *testing.T) {
	meter := noop.NewMeterProvider().Meter("test")
	bm, err := telemetry.NewBusinessMetrics(telemetry.BusinessMetricsConfig{
		Meter: meter,
	})
	require.NoError(t, err)

	ctx := context.Background()

	// Should not panic
	bm.RecordOrderProcessed(ctx, "completed", 0)
	bm.RecordOrderProcessed(ctx, "partial", 3)
}

func TestBusinessMetrics_RecordDocumentGenerated(t *testing.T) {
	meter := noop.NewMeterProvider().Meter("test")
	bm, err := telemetry.NewBusinessMetrics(telemetry.BusinessMetricsConfig{
		Meter: meter,
	})
	require.NoError(t, err)

	ctx := context.Background()

	// Should not panic
	bm.RecordDocumentGenerated(ctx, "INVOICE", telemetry.DocumentOutcomeCompleted)
	bm.RecordDocumentGenerated(ctx, "DELIVERY_NOTE", telemetry.DocumentOutcomeFailed)
}

func TestBusinessMetrics_RecordPendingOrderCount(t *testing.T) {
	meter := noop.NewMeterProvider().Meter("test")
	bm, err := telemetry.NewBusinessMetrics(telemetry.BusinessMetricsConfig{
		Meter: meter,
	})
	require.NoError(t, err)

	ctx := context.Background()

	// Should not panic
	bm.RecordPendingOrderCount(ctx, 12)
	bm.RecordPendingOrderCount(ctx, 0)
}

func TestBusinessMetrics_RecordBacklogSize(t *testing.T) {
	meter := noop.NewMeterProvider().Meter("test")
	bm, err := telemetry.NewBusinessMetrics(telemetry.BusinessMetricsConfig{
		Meter: meter,
	})
	require.NoError(t, err)

	ctx := context.Background()

	// Should not panic
	bm.RecordBacklogSize(ctx, 25, 7)
	bm.RecordBacklogSize(ctx, 0, 0)
}

// Mock implementation for testing periodic collection

type mockBacklogProvider struct {
	pendingOrders int64
	backlogRows   int64
	clients       int64
	err           error
}

func (m *mockBacklogProvider) GetPendingOrderCount(ctx context.Context) (int64, error) {
	if m.err != nil {
		return 0, m.err
	}
	return m.pendingOrders, nil
}

func (m *mockBacklogProvider) GetBacklogRowCount(ctx context.Context) (int64, error) {
	if m.err != nil {
		return 0, m.err
	}
	return m.backlogRows, nil
}

func (m *mockBacklogProvider) GetBacklogClientCount(ctx context.Context) (int64, error) {
	if m.err != nil {
		return 0, m.err
	}
	return m.clients, nil
}

func TestBusinessMetrics_PeriodicCollection(t *testing.T) {
	meter := noop.NewMeterProvider().Meter("test")

	backlogProvider := &mockBacklogProvider{
		pendingOrders: 4,
		backlogRows:   11,
		clients:       3,
	}

	bm, err := telemetry.NewBusinessMetrics(telemetry.BusinessMetricsConfig{
		Meter:           meter,
		Logger:          zap.NewNop(),
		BacklogProvider: backlogProvider,
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Start periodic collection with short interval for testing
	bm.StartPeriodicCollection(ctx, 100*time.Millisecond)

	// Wait for at least one collection cycle
	time.Sleep(150 * time.Millisecond)

	// Stop collection
	bm.Stop()

	// Should complete without error
}

func TestBusinessMetrics_PeriodicCollection_NoProvider(t *testing.T) {
	meter := noop.NewMeterProvider().Meter("test")

	bm, err := telemetry.NewBusinessMetrics(telemetry.BusinessMetricsConfig{
		Meter:  meter,
		Logger: zap.NewNop(),
		// No backlog provider
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Should not panic with no backlog provider
	bm.StartPeriodicCollection(ctx, 50*time.Millisecond)

	time.Sleep(100 * time.Millisecond)
	bm.Stop()
}

func TestBusinessMetrics_Stop_Idempotent(t *testing.T) {
	meter := noop.NewMeterProvider().Meter("test")
	bm, err := telemetry.NewBusinessMetrics(telemetry.BusinessMetricsConfig{
		Meter: meter,
	})
	require.NoError(t, err)

	// Calling Stop multiple times should not panic
	bm.Stop()
	bm.Stop()
	bm.Stop()
}

func TestBusinessMetrics_StartPeriodicCollection_OnlyOnce(t *testing.T) {
	meter := noop.NewMeterProvider().Meter("test")
	bm, err := telemetry.NewBusinessMetrics(telemetry.BusinessMetricsConfig{
		Meter:  meter,
		Logger: zap.NewNop(),
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Calling StartPeriodicCollection multiple times should only start once
	bm.StartPeriodicCollection(ctx, time.Hour)
	bm.StartPeriodicCollection(ctx, time.Minute)
	bm.StartPeriodicCollection(ctx, time.Second)

	bm.Stop()
}

func TestDocumentOutcome_Values(t *testing.T) {
	assert.Equal(t, telemetry.DocumentOutcome("completed"), telemetry.DocumentOutcomeCompleted)
	assert.Equal(t, telemetry.DocumentOutcome("failed"), telemetry.DocumentOutcomeFailed)
}

func TestMetricsError_Error(t *testing.T) {
	err := &telemetry.MetricsError{
		Op:  "TestOperation",
		Err: "test error message",
	}

	assert.Equal(t, "TestOperation: test error message", err.Error())
}
