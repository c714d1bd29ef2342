package ports

import (
	"context"

	"github.com/medicapp/clinic-backend/internal/core/domain"
)

// IdentityRepository persists login accounts keyed by login id.
type IdentityRepository interface {
	// Create inserts a new identity, failing with domain.ErrConflict when the
	// login id is already taken.
	Create(ctx context.Context, identity *domain.Identity) error
	FindByLoginID(ctx context.Context, loginID string) (*domain.Identity, error)
	SetPassword(ctx context.Context, loginID, passwordHash string) error
	SetActive(ctx context.Context, loginID string, active bool) error
	UpdateEmail(ctx context.Context, loginID, email string) error
	UpdateProfile(ctx context.Context, loginID string, profile domain.Profile) error
}
