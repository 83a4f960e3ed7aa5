package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/caterbase/internal/auth"
	"github.com/mmynk/caterbase/internal/storage"
)

func newTestAuthService(t *testing.T) (*AuthService, *auth.JWTManager) {
	t.Helper()
	store := newTestStore(t)
	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	newAuth := func(s storage.Store) auth.Authenticator {
		return auth.NewPasswordAuthenticator(s).WithCost(bcrypt.MinCost)
	}
	return NewAuthService(store, newAuth, jwtManager, discard), jwtManager
}

func TestAuthService_Register(t *testing.T) {
	svc, jwtManager := newTestAuthService(t)
	ctx := context.Background()

	session, err := svc.Register(ctx, "Olive & Fig Catering", " Chef@Example.com ", "Noa", "password123")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if session.Tenant.Slug != "olive-fig-catering" {
		t.Errorf("Slug = %q, want olive-fig-catering", session.Tenant.Slug)
	}
	if session.Owner.Email != "chef@example.com" || session.Owner.TenantID != session.Tenant.ID {
		t.Errorf("owner = %+v", session.Owner)
	}
	assertMoney(t, "DefaultFoodMarkup", session.Tenant.DefaultFoodMarkup, "3.00")

	claims, err := jwtManager.Validate(session.Token)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if claims.OwnerID != session.Owner.ID || claims.TenantID != session.Tenant.ID {
		t.Errorf("claims = %+v", claims)
	}

	// Same business name gets its own slug.
	other, err := svc.Register(ctx, "Olive & Fig Catering", "other@example.com", "Avi", "password123")
	if err != nil {
		t.Fatalf("second Register failed: %v", err)
	}
	if other.Tenant.ID == session.Tenant.ID || !strings.HasPrefix(other.Tenant.Slug, "olive-fig-catering-") {
		t.Errorf("second tenant = %+v", other.Tenant)
	}

	tests := []struct {
		name     string
		business string
		email    string
		password string
		wantErr  error
	}{
		{"duplicate email", "Another", "chef@example.com", "password123", auth.ErrEmailExists},
		{"weak password", "Another", "new@example.com", "short", auth.ErrWeakPassword},
		{"blank business", " ", "new@example.com", "password123", ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tt.business, tt.email, "Someone", tt.password)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Register error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	registered, err := svc.Register(ctx, "Olive & Fig Catering", "chef@example.com", "Noa", "password123")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	session, err := svc.Login(ctx, "CHEF@example.com", "password123")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if session.Owner.ID != registered.Owner.ID || session.Tenant.ID != registered.Tenant.ID || session.Token == "" {
		t.Errorf("session = %+v", session)
	}

	for _, tc := range []struct{ email, password string }{
		{"chef@example.com", "wrong-password"},
		{"nobody@example.com", "password123"},
		{"", ""},
	} {
		if _, err := svc.Login(ctx, tc.email, tc.password); !errors.Is(err, auth.ErrInvalidCredentials) {
			t.Errorf("Login(%q) error = %v, want ErrInvalidCredentials", tc.email, err)
		}
	}
}
