package persistence

import (
	"context"

	"gorm.io/gorm"

	apptrade "github.com/promoshop/backend/internal/application/trade"
	"github.com/promoshop/backend/internal/domain/shared"
	"github.com/promoshop/backend/internal/domain/trade"
)

// GormTransactionScope implements TransactionScope using GORM transactions.
// It provides atomic execution of multiple repository operations.
type GormTransactionScope struct {
	db          *gorm.DB
	outboxSaver shared.OutboxEventSaver
}

// NewGormTransactionScope creates a new GormTransactionScope.
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// SetOutboxEventSaver propagates the outbox saver to order repositories
// created inside transactions, so domain events land in the outbox
// atomically with the order update.
func (s *GormTransactionScope) SetOutboxEventSaver(saver shared.OutboxEventSaver) {
	s.outboxSaver = saver
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
// If the function succeeds, the transaction is committed.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos apptrade.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := &gormTransactionalRepositories{tx: tx, outboxSaver: s.outboxSaver}
		return fn(repos)
	})
}

// gormTransactionalRepositories provides access to the trade repositories
// within a transaction.
type gormTransactionalRepositories struct {
	tx          *gorm.DB
	outboxSaver shared.OutboxEventSaver
}

// OrderRepo returns the order repository scoped to the current transaction.
func (r *gormTransactionalRepositories) OrderRepo() trade.OrderRepository {
	repo := NewGormOrderRepository(r.tx)
	if r.outboxSaver != nil {
		repo.SetOutboxEventSaver(r.outboxSaver)
	}
	return repo
}

// PendingDeliveryRepo returns the backlog repository scoped to the current transaction.
func (r *gormTransactionalRepositories) PendingDeliveryRepo() trade.PendingDeliveryRepository {
	return NewGormPendingDeliveryRepository(r.tx)
}

// Ensure GormTransactionScope implements TransactionScope
var _ apptrade.TransactionScope = (*GormTransactionScope)(nil)

// Ensure gormTransactionalRepositories implements TransactionalRepositories
var _ apptrade.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
