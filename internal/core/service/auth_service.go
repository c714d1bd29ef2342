package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/medicapp/clinic-backend/internal/core/domain"
	"github.com/medicapp/clinic-backend/internal/core/ports"
)

const minAdminPasswordLength = 8

// TokenConfig controls token signing and lifetimes.
type TokenConfig struct {
	Secret     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// AuthService validates credentials and issues bearer token pairs.
type AuthService struct {
	identities ports.IdentityRepository
	admin      domain.AdminIdentity
	hasher     PasswordHasher
	tokens     TokenConfig
	dummyHash  string
	now        func() time.Time
	log        zerolog.Logger
}

func NewAuthService(identities ports.IdentityRepository, admin domain.AdminIdentity, hasher PasswordHasher, tokens TokenConfig, log zerolog.Logger) (*AuthService, error) {
	if tokens.AccessTTL <= 0 {
		tokens.AccessTTL = 15 * time.Minute
	}
	if tokens.RefreshTTL <= 0 {
		tokens.RefreshTTL = 7 * 24 * time.Hour
	}

	// Compared against on unknown or unusable accounts so every failed
	// login costs one bcrypt comparison.
	dummy, err := hasher.Hash("not-a-real-password")
	if err != nil {
		return nil, err
	}

	return &AuthService{
		identities: identities,
		admin:      admin,
		hasher:     hasher,
		tokens:     tokens,
		dummyHash:  dummy,
		now:        time.Now,
		log:        log,
	}, nil
}

// Login authenticates loginID and issues a token pair. Unknown ids, inactive
// accounts and wrong passwords all fail with domain.ErrUnauthorized.
func (s *AuthService) Login(ctx context.Context, loginID, password string) (*ports.LoginResult, error) {
	loginID = strings.TrimSpace(loginID)

	ve := domain.NewValidationError()
	if loginID == "" {
		ve.Add("employee_id", domain.CodeRequired)
	}
	if password == "" {
		ve.Add("password", domain.CodeRequired)
	}
	if err := ve.OrNil(); err != nil {
		return nil, err
	}

	identity, err := s.authenticate(ctx, loginID, password)
	if err != nil {
		return nil, err
	}

	pair, err := s.issuePair(identity.LoginID)
	if err != nil {
		return nil, err
	}

	return &ports.LoginResult{
		Tokens:   pair,
		Identity: identity,
		Role:     s.admin.RoleOf(identity.LoginID),
	}, nil
}

func (s *AuthService) authenticate(ctx context.Context, loginID, password string) (*domain.Identity, error) {
	identity, err := s.identities.FindByLoginID(ctx, loginID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.hasher.Matches(s.dummyHash, password)
			return nil, domain.ErrUnauthorized
		}
		return nil, fmt.Errorf("authenticate: %w", err)
	}

	if !identity.CanAuthenticate() {
		s.hasher.Matches(s.dummyHash, password)
		return nil, domain.ErrUnauthorized
	}
	if !s.hasher.Matches(identity.PasswordHash, password) {
		return nil, domain.ErrUnauthorized
	}
	return identity, nil
}

// Refresh exchanges a valid refresh token for a new access token. The owning
// identity must still be able to authenticate.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, time.Time, error) {
	if strings.TrimSpace(refreshToken) == "" {
		ve := domain.NewValidationError()
		ve.Add("refresh", domain.CodeRequired)
		return "", time.Time{}, ve
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(refreshToken, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(s.tokens.Secret), nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil || !parsed.Valid {
		return "", time.Time{}, domain.ErrUnauthorized
	}

	if typ, _ := claims[domain.ClaimType].(string); typ != domain.TokenTypeRefresh {
		return "", time.Time{}, domain.ErrUnauthorized
	}
	subject, _ := claims[domain.ClaimSubject].(string)
	if subject == "" {
		return "", time.Time{}, domain.ErrUnauthorized
	}

	identity, err := s.identities.FindByLoginID(ctx, subject)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", time.Time{}, domain.ErrUnauthorized
		}
		return "", time.Time{}, fmt.Errorf("refresh: %w", err)
	}
	if !identity.CanAuthenticate() {
		return "", time.Time{}, domain.ErrUnauthorized
	}

	exp := s.now().Add(s.tokens.AccessTTL)
	access, err := s.sign(subject, domain.TokenTypeAccess, exp)
	if err != nil {
		return "", time.Time{}, err
	}
	return access, exp, nil
}

// VerifyAdmin confirms loginID is the system admin and has no account yet.
func (s *AuthService) VerifyAdmin(ctx context.Context, loginID, email string) error {
	loginID = strings.TrimSpace(loginID)

	ve := domain.NewValidationError()
	if loginID == "" {
		ve.Add("employee_id", domain.CodeRequired)
	}
	if strings.TrimSpace(email) == "" {
		ve.Add("email", domain.CodeRequired)
	}
	if err := ve.OrNil(); err != nil {
		return err
	}

	if !s.admin.Is(loginID) {
		return domain.ErrUnauthorized
	}

	_, err := s.identities.FindByLoginID(ctx, loginID)
	switch {
	case err == nil:
		return domain.ErrConflict
	case errors.Is(err, domain.ErrNotFound):
		return nil
	default:
		return fmt.Errorf("verify admin: %w", err)
	}
}

// RegisterAdmin creates the system admin account, active, with the chosen password.
func (s *AuthService) RegisterAdmin(ctx context.Context, in ports.RegisterAdminInput) (*domain.Identity, error) {
	in.LoginID = strings.TrimSpace(in.LoginID)
	in.Email = strings.TrimSpace(in.Email)

	ve := domain.NewValidationError()
	if in.LoginID == "" {
		ve.Add("employee_id", domain.CodeRequired)
	}
	if in.Email == "" {
		ve.Add("email", domain.CodeRequired)
	}
	if in.Password == "" {
		ve.Add("password", domain.CodeRequired)
	} else if len(in.Password) < minAdminPasswordLength {
		ve.Add("password", domain.CodeInvalid)
	}
	if err := ve.OrNil(); err != nil {
		return nil, err
	}

	if !s.admin.Is(in.LoginID) {
		return nil, domain.ErrUnauthorized
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	identity := &domain.Identity{
		LoginID:      in.LoginID,
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Email:        in.Email,
		PasswordHash: hash,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.identities.Create(ctx, identity); err != nil {
		return nil, err
	}

	s.log.Info().Str("employee_id", identity.LoginID).Msg("system admin registered")
	return identity, nil
}

func (s *AuthService) issuePair(subject string) (ports.TokenPair, error) {
	now := s.now()
	accessExp := now.Add(s.tokens.AccessTTL)
	refreshExp := now.Add(s.tokens.RefreshTTL)

	access, err := s.sign(subject, domain.TokenTypeAccess, accessExp)
	if err != nil {
		return ports.TokenPair{}, err
	}
	refresh, err := s.sign(subject, domain.TokenTypeRefresh, refreshExp)
	if err != nil {
		return ports.TokenPair{}, err
	}

	return ports.TokenPair{
		Access:           access,
		Refresh:          refresh,
		AccessExpiresAt:  accessExp,
		RefreshExpiresAt: refreshExp,
	}, nil
}

func (s *AuthService) sign(subject, tokenType string, exp time.Time) (string, error) {
	claims := jwt.MapClaims{
		domain.ClaimSubject: subject,
		domain.ClaimRole:    string(s.admin.RoleOf(subject)),
		domain.ClaimType:    tokenType,
		"iat":               s.now().Unix(),
		"exp":               exp.Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(s.tokens.Secret))
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", tokenType, err)
	}
	return signed, nil
}
