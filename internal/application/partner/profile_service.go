package partner

import (
	"context"
	"errors"

	"github.com/promoshop/backend/internal/domain/partner"
	"github.com/promoshop/backend/internal/domain/shared"
)

// ProfileService handles client profile operations. The client ID is the
// shop login name; profiles are created lazily on first save.
type ProfileService struct {
	profileRepo    partner.ClientProfileRepository
	eventPublisher shared.EventPublisher
}

// NewProfileService creates a new ProfileService
func NewProfileService(profileRepo partner.ClientProfileRepository) *ProfileService {
	return &ProfileService{
		profileRepo: profileRepo,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *ProfileService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Upsert creates the profile on first save and replaces all its fields on
// subsequent saves. Every save stamps lastUpdated.
func (s *ProfileService) Upsert(ctx context.Context, clientID string, req UpsertProfileRequest) (*ProfileResponse, error) {
	profile, err := s.profileRepo.FindByClientID(ctx, clientID)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
		profile, err = partner.NewClientProfile(clientID)
		if err != nil {
			return nil, err
		}
	}

	if err := profile.SetContact(req.FirstName, req.LastName, req.Email, req.Phone); err != nil {
		return nil, err
	}
	if err := profile.SetShop(req.ShopName, req.ShopAddress, req.ShopCity, req.ShopZipCode); err != nil {
		return nil, err
	}

	if err := s.profileRepo.Save(ctx, profile); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, profile)

	response := ToProfileResponse(profile)
	return &response, nil
}

// Get returns the profile of one client
func (s *ProfileService) Get(ctx context.Context, clientID string) (*ProfileResponse, error) {
	profile, err := s.profileRepo.FindByClientID(ctx, clientID)
	if err != nil {
		return nil, err
	}

	response := ToProfileResponse(profile)
	return &response, nil
}

// List returns profiles matching the filter with pagination
func (s *ProfileService) List(ctx context.Context, filter ProfileListFilter) ([]ProfileResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "client_id"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "asc"
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]interface{}),
	}

	profiles, err := s.profileRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.profileRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]ProfileResponse, len(profiles))
	for i := range profiles {
		responses[i] = ToProfileResponse(&profiles[i])
	}

	return responses, total, nil
}

func (s *ProfileService) publishEvents(ctx context.Context, profile *partner.ClientProfile) {
	if s.eventPublisher == nil {
		return
	}
	events := profile.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	profile.ClearDomainEvents()
}
