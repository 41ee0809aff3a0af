package trade

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/promoshop/backend/internal/domain/shared"
	"github.com/promoshop/backend/internal/domain/shared/valueobject"
	"github.com/promoshop/backend/internal/domain/trade"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type fulfillmentFixture struct {
	service     *FulfillmentService
	orderRepo   *MockOrderRepository
	pendingRepo *MockPendingDeliveryRepository
	mugID       uuid.UUID
	penID       uuid.UUID
	order       *trade.Order
}

// newFulfillmentFixture wires the service against mock repositories through
// a no-op transaction scope, with an order of 5 Mugs and 3 Pens for "alice".
func newFulfillmentFixture(t *testing.T) *fulfillmentFixture {
	t.Helper()

	f := &fulfillmentFixture{
		orderRepo:   new(MockOrderRepository),
		pendingRepo: new(MockPendingDeliveryRepository),
		mugID:       uuid.New(),
		penID:       uuid.New(),
	}
	f.service = NewFulfillmentService(&NoOpTransactionScope{
		Repos: &StaticRepositories{
			Orders:            f.orderRepo,
			PendingDeliveries: f.pendingRepo,
		},
	})

	order, err := trade.NewOrder("1718000000000", "alice")
	require.NoError(t, err)
	require.NoError(t, order.AddItem(f.mugID, "Mug", valueobject.NewMoneyCHFFromFloat(10), 5, "Drinkware"))
	require.NoError(t, order.AddItem(f.penID, "Pen", valueobject.NewMoneyCHFFromFloat(2), 3, "Writing"))
	order.ClearDomainEvents()
	f.order = order

	return f
}

func TestFulfillmentServiceProcessOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("full delivery completes the order without backlog rows", func(t *testing.T) {
		f := newFulfillmentFixture(t)
		f.orderRepo.On("FindByOrderNumber", ctx, "1718000000000").Return(f.order, nil)
		f.orderRepo.On("Save", ctx, f.order).Return(nil)

		resp, err := f.service.ProcessOrder(ctx, "1718000000000", ProcessOrderRequest{
			ClientID: "alice",
			DeliveredItems: []DeliveredItemInput{
				{ProductID: f.mugID, Quantity: 5},
				{ProductID: f.penID, Quantity: 3},
			},
		})
		require.NoError(t, err)

		assert.Equal(t, string(trade.OrderStatusCompleted), resp.Status)
		assert.Equal(t, 0, resp.ShortfallCount)
		require.NotNil(t, f.order.LastProcessedDate)
		f.pendingRepo.AssertNotCalled(t, "SaveBatch", mock.Anything, mock.Anything)
		f.orderRepo.AssertExpectations(t)
	})

	t.Run("partial delivery records one backlog row per shortfall", func(t *testing.T) {
		f := newFulfillmentFixture(t)
		f.orderRepo.On("FindByOrderNumber", ctx, "1718000000000").Return(f.order, nil)
		f.orderRepo.On("Save", ctx, f.order).Return(nil)

		var saved []*trade.PendingDelivery
		f.pendingRepo.On("SaveBatch", ctx, mock.Anything).Run(func(args mock.Arguments) {
			saved = args.Get(1).([]*trade.PendingDelivery)
		}).Return(nil)

		resp, err := f.service.ProcessOrder(ctx, "1718000000000", ProcessOrderRequest{
			ClientID: "alice",
			DeliveredItems: []DeliveredItemInput{
				{ProductID: f.mugID, Quantity: 2},
			},
		})
		require.NoError(t, err)

		assert.Equal(t, string(trade.OrderStatusPartial), resp.Status)
		assert.Equal(t, 2, resp.ShortfallCount)

		require.Len(t, saved, 2)
		assert.Equal(t, "alice", saved[0].ClientID)
		assert.Equal(t, "Mug", saved[0].ProductName)
		assert.Equal(t, 3, saved[0].Quantity)
		assert.Equal(t, "Pen", saved[1].ProductName)
		assert.Equal(t, 3, saved[1].Quantity)
	})

	t.Run("reprocessing appends the backlog rows again", func(t *testing.T) {
		f := newFulfillmentFixture(t)
		f.orderRepo.On("FindByOrderNumber", ctx, "1718000000000").Return(f.order, nil)
		f.orderRepo.On("Save", ctx, f.order).Return(nil)
		f.pendingRepo.On("SaveBatch", ctx, mock.Anything).Return(nil)

		req := ProcessOrderRequest{
			ClientID:       "alice",
			DeliveredItems: []DeliveredItemInput{{ProductID: f.mugID, Quantity: 2}},
		}
		_, err := f.service.ProcessOrder(ctx, "1718000000000", req)
		require.NoError(t, err)
		_, err = f.service.ProcessOrder(ctx, "1718000000000", req)
		require.NoError(t, err)

		f.pendingRepo.AssertNumberOfCalls(t, "SaveBatch", 2)
	})

	t.Run("declaration for another client's order is not found", func(t *testing.T) {
		f := newFulfillmentFixture(t)
		f.orderRepo.On("FindByOrderNumber", ctx, "1718000000000").Return(f.order, nil)

		_, err := f.service.ProcessOrder(ctx, "1718000000000", ProcessOrderRequest{
			ClientID:       "mallory",
			DeliveredItems: []DeliveredItemInput{{ProductID: f.mugID, Quantity: 5}},
		})
		assert.ErrorIs(t, err, shared.ErrNotFound)
		f.orderRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("unknown order is not found", func(t *testing.T) {
		f := newFulfillmentFixture(t)
		f.orderRepo.On("FindByOrderNumber", ctx, "unknown").Return(nil, shared.ErrNotFound)

		_, err := f.service.ProcessOrder(ctx, "unknown", ProcessOrderRequest{ClientID: "alice"})
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("save failure aborts before touching the backlog", func(t *testing.T) {
		f := newFulfillmentFixture(t)
		f.orderRepo.On("FindByOrderNumber", ctx, "1718000000000").Return(f.order, nil)
		saveErr := errors.New("write failed")
		f.orderRepo.On("Save", ctx, f.order).Return(saveErr)

		_, err := f.service.ProcessOrder(ctx, "1718000000000", ProcessOrderRequest{
			ClientID:       "alice",
			DeliveredItems: []DeliveredItemInput{{ProductID: f.mugID, Quantity: 2}},
		})
		assert.ErrorIs(t, err, saveErr)
		f.pendingRepo.AssertNotCalled(t, "SaveBatch", mock.Anything, mock.Anything)
	})

	t.Run("backlog write failure fails the whole pass", func(t *testing.T) {
		f := newFulfillmentFixture(t)
		f.orderRepo.On("FindByOrderNumber", ctx, "1718000000000").Return(f.order, nil)
		f.orderRepo.On("Save", ctx, f.order).Return(nil)
		batchErr := errors.New("insert failed")
		f.pendingRepo.On("SaveBatch", ctx, mock.Anything).Return(batchErr)

		_, err := f.service.ProcessOrder(ctx, "1718000000000", ProcessOrderRequest{
			ClientID:       "alice",
			DeliveredItems: []DeliveredItemInput{{ProductID: f.mugID, Quantity: 2}},
		})
		assert.ErrorIs(t, err, batchErr)
	})
}
