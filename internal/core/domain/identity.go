package domain

import (
	"strings"
	"time"
)

// unusablePasswordPrefix marks a stored credential that can never verify.
// bcrypt hashes always start with "$", so no plaintext can match it.
const unusablePasswordPrefix = "!"

// Identity is a login account. LoginID is the employee id for doctors and the
// configured sentinel id for the system admin.
type Identity struct {
	LoginID      string    `json:"employee_id"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Profile holds the editable, non-credential identity fields.
type Profile struct {
	FirstName string
	LastName  string
	Email     string
}

// UnusablePassword builds a placeholder credential from a random suffix.
func UnusablePassword(suffix string) string {
	return unusablePasswordPrefix + suffix
}

// HasUsablePassword reports whether the identity can ever authenticate.
func (i *Identity) HasUsablePassword() bool {
	return i.PasswordHash != "" && !strings.HasPrefix(i.PasswordHash, unusablePasswordPrefix)
}

// CanAuthenticate reports whether a login attempt may be checked at all.
func (i *Identity) CanAuthenticate() bool {
	return i.IsActive && i.HasUsablePassword()
}
