package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/promoshop/backend/internal/domain/partner"
	"github.com/promoshop/backend/internal/domain/shared"
)

// GormClientProfileRepository implements ClientProfileRepository using GORM
type GormClientProfileRepository struct {
	db *gorm.DB
}

// NewGormClientProfileRepository creates a new GormClientProfileRepository
func NewGormClientProfileRepository(db *gorm.DB) *GormClientProfileRepository {
	return &GormClientProfileRepository{db: db}
}

// FindByID finds a profile by its ID
func (r *GormClientProfileRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.ClientProfile, error) {
	var profile partner.ClientProfile
	if err := r.db.WithContext(ctx).First(&profile, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &profile, nil
}

// FindByClientID finds a profile by the client's username
func (r *GormClientProfileRepository) FindByClientID(ctx context.Context, clientID string) (*partner.ClientProfile, error) {
	var profile partner.ClientProfile
	if err := r.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &profile, nil
}

// FindByClientIDs finds profiles for multiple clients at once
func (r *GormClientProfileRepository) FindByClientIDs(ctx context.Context, clientIDs []string) ([]partner.ClientProfile, error) {
	if len(clientIDs) == 0 {
		return []partner.ClientProfile{}, nil
	}

	var profiles []partner.ClientProfile
	if err := r.db.WithContext(ctx).
		Where("client_id IN ?", clientIDs).
		Find(&profiles).Error; err != nil {
		return nil, err
	}
	return profiles, nil
}

// FindAll finds all profiles matching the filter
func (r *GormClientProfileRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.ClientProfile, error) {
	var profiles []partner.ClientProfile
	query := r.applyFilter(r.db.WithContext(ctx).Model(&partner.ClientProfile{}), filter)

	if err := query.Find(&profiles).Error; err != nil {
		return nil, err
	}
	return profiles, nil
}

// Save creates or updates a profile
func (r *GormClientProfileRepository) Save(ctx context.Context, profile *partner.ClientProfile) error {
	return r.db.WithContext(ctx).Save(profile).Error
}

// Delete deletes a profile
func (r *GormClientProfileRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&partner.ClientProfile{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts profiles matching the filter
func (r *GormClientProfileRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&partner.ClientProfile{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByClientID checks if a profile exists for the client
func (r *GormClientProfileRepository) ExistsByClientID(ctx context.Context, clientID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&partner.ClientProfile{}).
		Where("client_id = ?", clientID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// applyFilter applies filter options to the query
func (r *GormClientProfileRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		orderBy := ValidateSortField(filter.OrderBy, ClientProfileSortFields, "client_id")
		query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))
	} else {
		query = query.Order("client_id ASC")
	}

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormClientProfileRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where(
			"client_id ILIKE ? OR first_name ILIKE ? OR last_name ILIKE ? OR shop_name ILIKE ?",
			searchPattern, searchPattern, searchPattern, searchPattern,
		)
	}

	for key, value := range filter.Filters {
		switch key {
		case "shop_city":
			query = query.Where("shop_city = ?", value)
		case "shop_zip_code":
			query = query.Where("shop_zip_code = ?", value)
		}
	}

	return query
}

// Ensure GormClientProfileRepository implements ClientProfileRepository
var _ partner.ClientProfileRepository = (*GormClientProfileRepository)(nil)
