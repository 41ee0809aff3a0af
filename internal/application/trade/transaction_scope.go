package trade

import (
	"context"

	"github.com/promoshop/backend/internal/domain/trade"
)

// TransactionalRepositories provides access to the trade repositories scoped
// to one transaction
type TransactionalRepositories interface {
	// OrderRepo returns the order repository scoped to the transaction
	OrderRepo() trade.OrderRepository
	// PendingDeliveryRepo returns the backlog repository scoped to the transaction
	PendingDeliveryRepo() trade.PendingDeliveryRepository
}

// TransactionScope executes a function within a single storage transaction.
// If the function returns an error every repository operation made through
// the provided repositories is rolled back.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// NoOpTransactionScope runs the function without transaction semantics.
// Intended for tests.
type NoOpTransactionScope struct {
	Repos TransactionalRepositories
}

// Execute runs fn against the configured repositories with no transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s.Repos)
}

// StaticRepositories is a TransactionalRepositories backed by fixed
// repository instances. Intended for tests together with
// NoOpTransactionScope.
type StaticRepositories struct {
	Orders            trade.OrderRepository
	PendingDeliveries trade.PendingDeliveryRepository
}

// OrderRepo returns the fixed order repository
func (r *StaticRepositories) OrderRepo() trade.OrderRepository {
	return r.Orders
}

// PendingDeliveryRepo returns the fixed backlog repository
func (r *StaticRepositories) PendingDeliveryRepo() trade.PendingDeliveryRepository {
	return r.PendingDeliveries
}

// Ensure NoOpTransactionScope implements TransactionScope
var _ TransactionScope = (*NoOpTransactionScope)(nil)

// Ensure StaticRepositories implements TransactionalRepositories
var _ TransactionalRepositories = (*StaticRepositories)(nil)
