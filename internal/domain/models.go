// Package domain defines the core business entities for the SmartPresence
// order-intake portal. These models are independent of the persistence
// backend and mirror the hosted schema (snake_case columns).
package domain

import "time"

// ============================================================
// Profiles & Roles
// ============================================================

// Role is the app_role enum of the hosted schema.
type Role string

const (
	RoleCliente Role = "cliente"
	RoleAdmin   Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleCliente || r == RoleAdmin
}

// Profile is the user identity projection, one per account.
type Profile struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	FullName     string    `json:"full_name"`
	Email        string    `json:"email"`
	Phone        *string   `json:"phone"`
	BusinessName *string   `json:"business_name"`
	BusinessType *string   `json:"business_type"`
	AvatarURL    *string   `json:"avatar_url"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// UserRole is the role assignment of an account.
type UserRole struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	Role           Role      `json:"role"`
	IsSupremeAdmin bool      `json:"is_supreme_admin"`
	CreatedAt      time.Time `json:"created_at"`
}

// StringOrEmpty dereferences an optional column.
func StringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// OptionalString returns nil for blank values so optional columns stay NULL.
func OptionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
