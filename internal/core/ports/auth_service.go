package ports

import (
	"context"
	"time"

	"github.com/medicapp/clinic-backend/internal/core/domain"
)

// TokenPair is issued on a successful login.
type TokenPair struct {
	Access           string
	Refresh          string
	AccessExpiresAt  time.Time
	RefreshExpiresAt time.Time
}

// LoginResult carries the tokens and the identity they were issued for.
type LoginResult struct {
	Tokens   TokenPair
	Identity *domain.Identity
	Role     domain.Role
}

// RegisterAdminInput carries the one-time system admin account setup.
type RegisterAdminInput struct {
	LoginID   string
	Email     string
	Password  string
	FirstName string
	LastName  string
}

type AuthService interface {
	Login(ctx context.Context, loginID, password string) (*LoginResult, error)
	// Refresh exchanges a refresh token for a new access token.
	Refresh(ctx context.Context, refreshToken string) (access string, expiresAt time.Time, err error)
	// VerifyAdmin checks that loginID is the sentinel admin and not yet registered.
	VerifyAdmin(ctx context.Context, loginID, email string) error
	RegisterAdmin(ctx context.Context, input RegisterAdminInput) (*domain.Identity, error)
}
