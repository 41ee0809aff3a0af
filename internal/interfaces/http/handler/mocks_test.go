package handler

import (
	"context"

	"github.com/google/uuid"
	"github.com/promoshop/backend/internal/domain/catalog"
	"github.com/promoshop/backend/internal/domain/partner"
	"github.com/promoshop/backend/internal/domain/printing"
	"github.com/promoshop/backend/internal/domain/shared"
	"github.com/promoshop/backend/internal/domain/trade"
	"github.com/stretchr/testify/mock"
)

// MockProductRepository implements catalog.ProductRepository for testing
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByName(ctx context.Context, name string) (*catalog.Product, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByCategory(ctx context.Context, category string, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, category, filter)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	args := m.Called(ctx, name)
	return args.Bool(0), args.Error(1)
}

// MockClientProfileRepository implements partner.ClientProfileRepository for testing
type MockClientProfileRepository struct {
	mock.Mock
}

func (m *MockClientProfileRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.ClientProfile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.ClientProfile), args.Error(1)
}

func (m *MockClientProfileRepository) FindByClientID(ctx context.Context, clientID string) (*partner.ClientProfile, error) {
	args := m.Called(ctx, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.ClientProfile), args.Error(1)
}

func (m *MockClientProfileRepository) FindByClientIDs(ctx context.Context, clientIDs []string) ([]partner.ClientProfile, error) {
	args := m.Called(ctx, clientIDs)
	return args.Get(0).([]partner.ClientProfile), args.Error(1)
}

func (m *MockClientProfileRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.ClientProfile, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]partner.ClientProfile), args.Error(1)
}

func (m *MockClientProfileRepository) Save(ctx context.Context, profile *partner.ClientProfile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *MockClientProfileRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockClientProfileRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockClientProfileRepository) ExistsByClientID(ctx context.Context, clientID string) (bool, error) {
	args := m.Called(ctx, clientID)
	return args.Bool(0), args.Error(1)
}

// MockOrderRepository implements trade.OrderRepository for testing
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByOrderNumber(ctx context.Context, orderNumber string) (*trade.Order, error) {
	args := m.Called(ctx, orderNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByClientID(ctx context.Context, clientID string) ([]trade.Order, error) {
	args := m.Called(ctx, clientID)
	return args.Get(0).([]trade.Order), args.Error(1)
}

func (m *MockOrderRepository) FindPending(ctx context.Context) ([]trade.Order, error) {
	args := m.Called(ctx)
	return args.Get(0).([]trade.Order), args.Error(1)
}

func (m *MockOrderRepository) FindTreated(ctx context.Context) ([]trade.Order, error) {
	args := m.Called(ctx)
	return args.Get(0).([]trade.Order), args.Error(1)
}

func (m *MockOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]trade.Order, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]trade.Order), args.Error(1)
}

func (m *MockOrderRepository) Save(ctx context.Context, order *trade.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockPendingDeliveryRepository implements trade.PendingDeliveryRepository for testing
type MockPendingDeliveryRepository struct {
	mock.Mock
}

func (m *MockPendingDeliveryRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.PendingDelivery, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.PendingDelivery), args.Error(1)
}

func (m *MockPendingDeliveryRepository) FindByClientID(ctx context.Context, clientID string) ([]trade.PendingDelivery, error) {
	args := m.Called(ctx, clientID)
	return args.Get(0).([]trade.PendingDelivery), args.Error(1)
}

func (m *MockPendingDeliveryRepository) Save(ctx context.Context, entry *trade.PendingDelivery) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockPendingDeliveryRepository) SaveBatch(ctx context.Context, entries []*trade.PendingDelivery) error {
	args := m.Called(ctx, entries)
	return args.Error(0)
}

func (m *MockPendingDeliveryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPendingDeliveryRepository) CountByClientID(ctx context.Context, clientID string) (int64, error) {
	args := m.Called(ctx, clientID)
	return args.Get(0).(int64), args.Error(1)
}

// MockDocumentRepository implements printing.DocumentRepository for testing
type MockDocumentRepository struct {
	mock.Mock
}

func (m *MockDocumentRepository) FindByID(ctx context.Context, id uuid.UUID) (*printing.Document, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*printing.Document), args.Error(1)
}

func (m *MockDocumentRepository) FindByOrder(ctx context.Context, orderID uuid.UUID) ([]printing.Document, error) {
	args := m.Called(ctx, orderID)
	return args.Get(0).([]printing.Document), args.Error(1)
}

func (m *MockDocumentRepository) FindByOrderAndType(ctx context.Context, orderID uuid.UUID, docType printing.DocType) ([]printing.Document, error) {
	args := m.Called(ctx, orderID, docType)
	return args.Get(0).([]printing.Document), args.Error(1)
}

func (m *MockDocumentRepository) FindAll(ctx context.Context, filter shared.Filter) ([]printing.Document, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]printing.Document), args.Error(1)
}

func (m *MockDocumentRepository) Save(ctx context.Context, doc *printing.Document) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *MockDocumentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockDocumentRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}
