package model

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// UserRole determines the baseline feature set of a user.
type UserRole string

const (
	RoleAdmin     UserRole = "admin"
	RoleAtendente UserRole = "atendente"
)

// User represents an authenticated staff member of the dashboard.
type User struct {
	BaseModel
	Email       string `gorm:"type:varchar(255);uniqueIndex;not null" json:"email" validate:"required,email"`
	Password    string `gorm:"type:varchar(255);not null" json:"-"` // Hidden from JSON
	DisplayName string `gorm:"type:varchar(255)" json:"display_name" validate:"required"`
	PhoneNumber string `gorm:"type:varchar(20)" json:"phone_number"`

	Role     UserRole `gorm:"type:varchar(20);not null;default:'atendente'" json:"role" validate:"required,oneof=admin atendente"`
	IsActive bool     `gorm:"default:true" json:"is_active"`

	// Per-user override of the role defaults. Null for admins (their record
	// is immutable) and for atendentes that follow the defaults.
	CustomPermissions PermissionMap `gorm:"type:jsonb;serializer:json" json:"custom_permissions,omitempty"`

	// Audit pair written whenever permissions are customized.
	PermissionsModifiedBy *string    `gorm:"type:varchar(255)" json:"permissions_modified_by,omitempty"`
	PermissionsModifiedAt *time.Time `json:"permissions_modified_at,omitempty"`

	TokenVersion string     `gorm:"type:varchar(255);default:''" json:"-"` // For single session enforcement
	LastSeenAt   *time.Time `json:"last_seen_at,omitempty"`                // For user presence
}

// SetPassword hashes and sets the user's password
func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashedPassword)
	return nil
}

// CheckPassword verifies if the provided password matches the stored hash
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
	return err == nil
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// AccessibleFeatures returns the features the user may navigate to.
func (u *User) AccessibleFeatures() []Feature {
	var features []Feature
	for _, f := range AllFeatures {
		if u.IsFeatureEnabled(f) {
			features = append(features, f)
		}
	}
	return features
}

// UserResponse is used for API responses (without sensitive data)
type UserResponse struct {
	ID                    uuid.UUID     `json:"id"`
	Email                 string        `json:"email"`
	DisplayName           string        `json:"display_name"`
	PhoneNumber           string        `json:"phone_number"`
	Role                  UserRole      `json:"role"`
	IsActive              bool          `json:"is_active"`
	CustomPermissions     PermissionMap `json:"custom_permissions,omitempty"`
	PermissionsModifiedBy *string       `json:"permissions_modified_by,omitempty"`
	PermissionsModifiedAt *time.Time    `json:"permissions_modified_at,omitempty"`
	LastSeenAt            *time.Time    `json:"last_seen_at,omitempty"`
	AccessibleFeatures    []Feature     `json:"accessible_features"`
}

// ToResponse converts User to UserResponse
func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:                    u.ID,
		Email:                 u.Email,
		DisplayName:           u.DisplayName,
		PhoneNumber:           u.PhoneNumber,
		Role:                  u.Role,
		IsActive:              u.IsActive,
		CustomPermissions:     u.CustomPermissions,
		PermissionsModifiedBy: u.PermissionsModifiedBy,
		PermissionsModifiedAt: u.PermissionsModifiedAt,
		LastSeenAt:            u.LastSeenAt,
		AccessibleFeatures:    u.AccessibleFeatures(),
	}
}
