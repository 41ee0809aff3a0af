package partner

import (
	"context"

	"github.com/google/uuid"
	"github.com/promoshop/backend/internal/domain/shared"
)

// ClientProfileRepository defines the interface for client profile persistence
type ClientProfileRepository interface {
	// FindByID finds a profile by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*ClientProfile, error)

	// FindByClientID finds a profile by the client's username
	FindByClientID(ctx context.Context, clientID string) (*ClientProfile, error)

	// FindByClientIDs finds profiles for multiple clients at once
	FindByClientIDs(ctx context.Context, clientIDs []string) ([]ClientProfile, error)

	// FindAll finds all profiles matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]ClientProfile, error)

	// Save creates or updates a profile
	Save(ctx context.Context, profile *ClientProfile) error

	// Delete deletes a profile
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts profiles matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// ExistsByClientID checks if a profile exists for the client
	ExistsByClientID(ctx context.Context, clientID string) (bool, error)
}
