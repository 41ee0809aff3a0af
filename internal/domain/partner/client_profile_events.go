package partner

import (
	"github.com/google/uuid"
	"github.com/promoshop/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeClientProfile = "ClientProfile"

// Event type constants
const (
	EventTypeClientProfileCreated = "ClientProfileCreated"
	EventTypeClientProfileUpdated = "ClientProfileUpdated"
)

// ClientProfileCreatedEvent is published when a profile is first created
type ClientProfileCreatedEvent struct {
	shared.BaseDomainEvent
	ProfileID uuid.UUID `json:"profile_id"`
	ClientID  string    `json:"client_id"`
}

// NewClientProfileCreatedEvent creates a new ClientProfileCreatedEvent
func NewClientProfileCreatedEvent(profile *ClientProfile) *ClientProfileCreatedEvent {
	return &ClientProfileCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeClientProfileCreated, AggregateTypeClientProfile, profile.ID),
		ProfileID:       profile.ID,
		ClientID:        profile.ClientID,
	}
}

// ClientProfileUpdatedEvent is published when contact or shop details change
type ClientProfileUpdatedEvent struct {
	shared.BaseDomainEvent
	ProfileID uuid.UUID `json:"profile_id"`
	ClientID  string    `json:"client_id"`
	ShopName  string    `json:"shop_name,omitempty"`
}

// NewClientProfileUpdatedEvent creates a new ClientProfileUpdatedEvent
func NewClientProfileUpdatedEvent(profile *ClientProfile) *ClientProfileUpdatedEvent {
	return &ClientProfileUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeClientProfileUpdated, AggregateTypeClientProfile, profile.ID),
		ProfileID:       profile.ID,
		ClientID:        profile.ClientID,
		ShopName:        profile.ShopName,
	}
}
