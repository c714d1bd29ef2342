package domain

import "time"

// DoctorProfile is owned 1:1 by the Identity whose LoginID equals EmployeeID.
// IsActive must match the owning Identity after every verification transition.
type DoctorProfile struct {
	EmployeeID     string    `json:"employee_id"`
	Specialization string    `json:"specialization,omitempty"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Doctor is a profile joined with its owning identity's profile fields.
type Doctor struct {
	Profile  DoctorProfile
	Identity Identity
}

// NeedsVerification reports whether an admin still has to activate the doctor.
func (d Doctor) NeedsVerification() bool {
	return !d.Profile.IsActive
}

// DoctorStats summarises the doctor registry.
type DoctorStats struct {
	Total           int64 `json:"total_doctors"`
	Active          int64 `json:"active_doctors"`
	Pending         int64 `json:"pending_doctors"`
	Specializations int64 `json:"specializations"`
}
