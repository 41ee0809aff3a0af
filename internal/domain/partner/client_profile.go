package partner

import (
	"regexp"
	"strings"
	"time"

	"github.com/promoshop/backend/internal/domain/shared"
)

// ClientProfile holds the contact and shop details of a client.
// It is the aggregate root for client-related operations. The client ID is
// the login username of the client and is unique across the system. Orders
// reference clients by this ID; a profile is not required to exist before a
// client places an order.
type ClientProfile struct {
	shared.BaseAggregateRoot
	ClientID    string    `gorm:"type:varchar(100);not null;uniqueIndex"`
	FirstName   string    `gorm:"type:varchar(100)"`
	LastName    string    `gorm:"type:varchar(100)"`
	Email       string    `gorm:"type:varchar(200);index"`
	Phone       string    `gorm:"type:varchar(50)"`
	ShopName    string    `gorm:"type:varchar(200)"`
	ShopAddress string    `gorm:"type:text"`
	ShopCity    string    `gorm:"type:varchar(100)"`
	ShopZipCode string    `gorm:"type:varchar(20)"`
	LastUpdated time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ClientProfile) TableName() string {
	return "client_profiles"
}

// NewClientProfile creates a new client profile
func NewClientProfile(clientID string) (*ClientProfile, error) {
	clientID = strings.TrimSpace(clientID)
	if err := validateClientID(clientID); err != nil {
		return nil, err
	}

	profile := &ClientProfile{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ClientID:          clientID,
		LastUpdated:       time.Now(),
	}

	profile.AddDomainEvent(NewClientProfileCreatedEvent(profile))

	return profile, nil
}

// SetContact updates the client's personal contact details
func (p *ClientProfile) SetContact(firstName, lastName, email, phone string) error {
	if firstName != "" && len(firstName) > 100 {
		return shared.NewDomainError("INVALID_NAME", "First name cannot exceed 100 characters")
	}
	if lastName != "" && len(lastName) > 100 {
		return shared.NewDomainError("INVALID_NAME", "Last name cannot exceed 100 characters")
	}
	if err := validateEmail(email); err != nil {
		return err
	}
	if err := validatePhone(phone); err != nil {
		return err
	}

	p.FirstName = firstName
	p.LastName = lastName
	p.Email = email
	p.Phone = phone
	p.touch()

	return nil
}

// SetShop updates the client's shop details
func (p *ClientProfile) SetShop(name, address, city, zipCode string) error {
	if name != "" && len(name) > 200 {
		return shared.NewDomainError("INVALID_SHOP_NAME", "Shop name cannot exceed 200 characters")
	}
	if zipCode != "" && len(zipCode) > 20 {
		return shared.NewDomainError("INVALID_ZIP_CODE", "Zip code cannot exceed 20 characters")
	}

	p.ShopName = name
	p.ShopAddress = address
	p.ShopCity = city
	p.ShopZipCode = zipCode
	p.touch()

	return nil
}

// FullName returns the client's full name for display
func (p *ClientProfile) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

func (p *ClientProfile) touch() {
	now := time.Now()
	p.LastUpdated = now
	p.UpdatedAt = now
	p.IncrementVersion()
	p.AddDomainEvent(NewClientProfileUpdatedEvent(p))
}

// validateClientID validates the client identifier (username)
func validateClientID(clientID string) error {
	if clientID == "" {
		return shared.NewDomainError("INVALID_CLIENT_ID", "Client ID cannot be empty")
	}
	if len(clientID) > 100 {
		return shared.NewDomainError("INVALID_CLIENT_ID", "Client ID cannot exceed 100 characters")
	}
	return nil
}

// validatePhone validates a phone number if provided
func validatePhone(phone string) error {
	if phone == "" {
		return nil
	}
	if len(phone) > 50 {
		return shared.NewDomainError("INVALID_PHONE", "Phone cannot exceed 50 characters")
	}
	validPhone := regexp.MustCompile(`^[\d\s\-\(\)\+]+$`)
	if !validPhone.MatchString(phone) {
		return shared.NewDomainError("INVALID_PHONE", "Phone contains invalid characters")
	}
	return nil
}

// validateEmail validates an email address if provided
func validateEmail(email string) error {
	if email == "" {
		return nil
	}
	if len(email) > 200 {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 200 characters")
	}
	emailRegex := regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	if !emailRegex.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Email format is invalid")
	}
	return nil
}
