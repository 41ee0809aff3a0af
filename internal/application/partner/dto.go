package partner

import (
	"time"

	"github.com/promoshop/backend/internal/domain/partner"
)

// UpsertProfileRequest is the input for creating or replacing a client profile
type UpsertProfileRequest struct {
	FirstName   string `json:"first_name" binding:"omitempty,max=100"`
	LastName    string `json:"last_name" binding:"omitempty,max=100"`
	Email       string `json:"email" binding:"omitempty,email,max=100"`
	Phone       string `json:"phone" binding:"omitempty,max=50"`
	ShopName    string `json:"shop_name" binding:"omitempty,max=200"`
	ShopAddress string `json:"shop_address" binding:"omitempty,max=500"`
	ShopCity    string `json:"shop_city" binding:"omitempty,max=100"`
	ShopZipCode string `json:"shop_zip_code" binding:"omitempty,max=20"`
}

// ProfileListFilter carries the admin listing parameters
type ProfileListFilter struct {
	Search   string `form:"search"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir"`
}

// ProfileResponse is the API representation of a client profile
type ProfileResponse struct {
	ClientID    string    `json:"client_id"`
	FirstName   string    `json:"first_name,omitempty"`
	LastName    string    `json:"last_name,omitempty"`
	Email       string    `json:"email,omitempty"`
	Phone       string    `json:"phone,omitempty"`
	ShopName    string    `json:"shop_name,omitempty"`
	ShopAddress string    `json:"shop_address,omitempty"`
	ShopCity    string    `json:"shop_city,omitempty"`
	ShopZipCode string    `json:"shop_zip_code,omitempty"`
	LastUpdated time.Time `json:"last_updated"`
}

// ToProfileResponse converts a domain profile to its API representation
func ToProfileResponse(profile *partner.ClientProfile) ProfileResponse {
	return ProfileResponse{
		ClientID:    profile.ClientID,
		FirstName:   profile.FirstName,
		LastName:    profile.LastName,
		Email:       profile.Email,
		Phone:       profile.Phone,
		ShopName:    profile.ShopName,
		ShopAddress: profile.ShopAddress,
		ShopCity:    profile.ShopCity,
		ShopZipCode: profile.ShopZipCode,
		LastUpdated: profile.LastUpdated,
	}
}
