package sqlite

import (
	"context"
	"fmt"

	"github.com/mmynk/caterbase/internal/models"
)

// CreateOwner inserts a new owner into the database.
func (s *SQLiteStore) CreateOwner(ctx context.Context, owner *models.Owner) error {
	query := `
		INSERT INTO owners (id, tenant_id, email, display_name, password_hash, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		owner.ID,
		owner.TenantID,
		owner.Email,
		owner.DisplayName,
		owner.PasswordHash,
		owner.CreatedAt,
		owner.UpdatedAt,
	)
	return wrapWrite("failed to create owner", err)
}

// GetOwnerByEmail retrieves an owner by their email address.
func (s *SQLiteStore) GetOwnerByEmail(ctx context.Context, email string) (*models.Owner, error) {
	return s.getOwner(ctx, "email", email)
}

// GetOwnerByID retrieves an owner by their ID.
func (s *SQLiteStore) GetOwnerByID(ctx context.Context, id string) (*models.Owner, error) {
	return s.getOwner(ctx, "id", id)
}

func (s *SQLiteStore) getOwner(ctx context.Context, column, value string) (*models.Owner, error) {
	query := `
		SELECT id, tenant_id, email, display_name, password_hash, created_at, updated_at
		FROM owners
		WHERE ` + column + ` = ?
	`

	owner := &models.Owner{}
	err := s.db.QueryRowContext(ctx, query, value).Scan(
		&owner.ID,
		&owner.TenantID,
		&owner.Email,
		&owner.DisplayName,
		&owner.PasswordHash,
		&owner.CreatedAt,
		&owner.UpdatedAt,
	)
	if isNoRows(err) {
		return nil, notFound("owner", value)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get owner by %s: %w", column, err)
	}

	return owner, nil
}
