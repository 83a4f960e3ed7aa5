package models

import (
	"time"

	"github.com/google/uuid"
)

// Owner is a registered account that manages one tenant.
type Owner struct {
	// ID is the unique identifier for the owner (UUID format).
	ID string

	// TenantID is the catering business this owner manages.
	TenantID string

	// Email is the login address (unique).
	Email string

	DisplayName string

	// PasswordHash is the bcrypt hash of the owner's password.
	PasswordHash string

	CreatedAt int64
	UpdatedAt int64
}

// NewOwner creates an owner with a fresh ID and timestamps.
func NewOwner(tenantID, email, displayName, passwordHash string) *Owner {
	now := time.Now().Unix()
	return &Owner{
		ID:           uuid.New().String(),
		TenantID:     tenantID,
		Email:        email,
		DisplayName:  displayName,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}
