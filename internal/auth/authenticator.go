package auth

import (
	"context"

	"github.com/mmynk/caterbase/internal/models"
)

// Authenticator defines the interface for authentication implementations.
// This abstraction allows swapping between different auth methods (password, passkeys, OAuth, etc.)
// without changing the service layer code.
type Authenticator interface {
	// Register creates an owner account for tenantID with the given email and credential.
	Register(ctx context.Context, tenantID, email, displayName, credential string) (*models.Owner, error)

	// Authenticate verifies the owner's credentials and returns the owner if successful.
	Authenticate(ctx context.Context, email, credential string) (*models.Owner, error)

	// ValidateCredential checks if the credential meets the implementation's requirements.
	ValidateCredential(credential string) error
}
