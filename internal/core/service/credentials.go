package service

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/medicapp/clinic-backend/internal/core/domain"
)

const (
	credentialLength = 14
	// Visually ambiguous characters (0/O, 1/l/I) are left out.
	credentialAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz23456789"
)

// GenerateCredential returns a random password drawn from a mixed
// alphanumeric alphabet that contains at least one upper-case letter,
// one lower-case letter and one digit.
func GenerateCredential() (string, error) {
	max := big.NewInt(int64(len(credentialAlphabet)))
	buf := make([]byte, credentialLength)
	for {
		for i := range buf {
			n, err := rand.Int(rand.Reader, max)
			if err != nil {
				return "", fmt.Errorf("generate credential: %w", err)
			}
			buf[i] = credentialAlphabet[n.Int64()]
		}
		if hasMixedClasses(string(buf)) {
			return string(buf), nil
		}
	}
}

func hasMixedClasses(s string) bool {
	return strings.ContainsAny(s, "ABCDEFGHJKLMNPQRSTUVWXYZ") &&
		strings.ContainsAny(s, "abcdefghijkmnopqrstuvwxyz") &&
		strings.ContainsAny(s, "23456789")
}

// placeholderCredential returns a stored credential no password can match.
func placeholderCredential() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("placeholder credential: %w", err)
	}
	return domain.UnusablePassword(hex.EncodeToString(b)), nil
}

// PasswordHasher hashes and checks passwords with bcrypt.
type PasswordHasher struct {
	cost int
}

// NewPasswordHasher returns a hasher using cost, or bcrypt.DefaultCost when
// cost is out of range.
func NewPasswordHasher(cost int) PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return PasswordHasher{cost: cost}
}

func (h PasswordHasher) Hash(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func (h PasswordHasher) Matches(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
