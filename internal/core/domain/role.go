package domain

// Role is the capability an authenticated identity carries in its tokens.
type Role string

const (
	RoleSystemAdmin Role = "system_admin"
	RoleDoctor      Role = "doctor"
)

// AdminIdentity designates the single system admin by its configured login id.
// Admin status is never stored on the Identity itself.
type AdminIdentity struct {
	LoginID string
}

// Is reports whether loginID is the system admin.
func (a AdminIdentity) Is(loginID string) bool {
	return a.LoginID != "" && loginID == a.LoginID
}

// RoleOf returns the role for loginID.
func (a AdminIdentity) RoleOf(loginID string) Role {
	if a.Is(loginID) {
		return RoleSystemAdmin
	}
	return RoleDoctor
}
