package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/mmynk/caterbase/internal/auth"
	"github.com/mmynk/caterbase/internal/models"
	"github.com/mmynk/caterbase/internal/storage"
)

// Session is what a successful register or login returns.
type Session struct {
	Owner  *models.Owner
	Tenant *models.Tenant
	Token  string
}

// AuthService registers caterers and logs their owners in.
type AuthService struct {
	store         storage.Store
	authenticator auth.Authenticator
	newAuth       func(storage.Store) auth.Authenticator
	jwtManager    *auth.JWTManager
	logger        *slog.Logger
}

// NewAuthService creates a new authentication service. newAuth builds the
// authenticator over a given store so registration can run inside the
// transaction that creates the tenant.
func NewAuthService(store storage.Store, newAuth func(storage.Store) auth.Authenticator, jwtManager *auth.JWTManager, logger *slog.Logger) *AuthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{
		store:         store,
		authenticator: newAuth(store),
		newAuth:       newAuth,
		jwtManager:    jwtManager,
		logger:        logger,
	}
}

// Register creates a tenant with the standard pricing defaults and its
// owner account, then issues a token.
func (s *AuthService) Register(ctx context.Context, businessName, email, displayName, password string) (*Session, error) {
	s.logger.Info("Register request", "email", email)

	businessName = strings.TrimSpace(businessName)
	email = strings.ToLower(strings.TrimSpace(email))
	if businessName == "" || email == "" || strings.TrimSpace(displayName) == "" {
		return nil, invalidf("business name, email and display name are required")
	}
	if err := s.authenticator.ValidateCredential(password); err != nil {
		return nil, err
	}

	session, err := s.createTenant(ctx, businessName, models.Slugify(businessName), email, displayName, password)
	if errors.Is(err, storage.ErrConflict) {
		// Slug taken by another caterer.
		slug := models.Slugify(businessName) + "-" + uuid.NewString()[:8]
		session, err = s.createTenant(ctx, businessName, slug, email, displayName, password)
	}
	if err != nil {
		s.logger.Error("Registration failed", "email", email, "error", err)
		return nil, err
	}

	token, err := s.jwtManager.Generate(session.Owner)
	if err != nil {
		s.logger.Error("Failed to generate token", "owner_id", session.Owner.ID, "error", err)
		return nil, err
	}
	session.Token = token

	s.logger.Info("Caterer registered", "tenant_id", session.Tenant.ID, "owner_id", session.Owner.ID)
	return session, nil
}

func (s *AuthService) createTenant(ctx context.Context, businessName, slug, email, displayName, password string) (*Session, error) {
	var session Session
	err := s.store.WithTx(ctx, func(tx storage.Store) error {
		tenant := models.NewTenant(businessName)
		tenant.Slug = slug
		if err := tx.CreateTenant(ctx, tenant); err != nil {
			return err
		}
		owner, err := s.newAuth(tx).Register(ctx, tenant.ID, email, displayName, password)
		if err != nil {
			return err
		}
		session.Owner, session.Tenant = owner, tenant
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// Login authenticates an owner and returns a fresh token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, auth.ErrInvalidCredentials
	}

	owner, err := s.authenticator.Authenticate(ctx, email, password)
	if err != nil {
		s.logger.Warn("Login failed", "email", email, "error", err)
		return nil, auth.ErrInvalidCredentials
	}
	tenant, err := s.store.GetTenant(ctx, owner.TenantID)
	if err != nil {
		return nil, err
	}

	token, err := s.jwtManager.Generate(owner)
	if err != nil {
		s.logger.Error("Failed to generate token", "owner_id", owner.ID, "error", err)
		return nil, err
	}

	s.logger.Info("Owner logged in", "owner_id", owner.ID, "tenant_id", owner.TenantID)
	return &Session{Owner: owner, Tenant: tenant, Token: token}, nil
}
