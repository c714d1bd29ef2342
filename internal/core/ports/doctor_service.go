package ports

import (
	"context"

	"github.com/medicapp/clinic-backend/internal/core/domain"
)

// RegisterDoctorInput carries a doctor registration request.
type RegisterDoctorInput struct {
	EmployeeID     string
	FirstName      string
	LastName       string
	Email          string
	Specialization string
}

// UpsertDoctorInput carries an admin create-or-update of a doctor.
// Active only applies when the doctor does not exist yet.
type UpsertDoctorInput struct {
	EmployeeID     string
	FirstName      string
	LastName       string
	Email          string
	Specialization string
	Active         bool
}

// DoctorService covers the doctor registry and the verification workflow.
type DoctorService interface {
	// RegisterPendingDoctor creates an inactive doctor with an unusable credential.
	RegisterPendingDoctor(ctx context.Context, input RegisterDoctorInput) (*domain.Doctor, error)
	// RegisterVerifiedDoctor creates an active doctor and mails a fresh credential.
	// Only the system admin may call it.
	RegisterVerifiedDoctor(ctx context.Context, input RegisterDoctorInput, requester string) (*domain.Doctor, error)
	// VerifyDoctor activates a doctor and mails a fresh credential.
	// Only the system admin may call it.
	VerifyDoctor(ctx context.Context, employeeID, requester string) (*domain.Doctor, error)
	// UpsertDoctor never touches the password or the active flag of an existing doctor.
	UpsertDoctor(ctx context.Context, input UpsertDoctorInput, requester string) (doctor *domain.Doctor, created bool, err error)
	ListDoctors(ctx context.Context) ([]domain.Doctor, error)
	DoctorStats(ctx context.Context) (*domain.DoctorStats, error)
	// SendResetNotice mails a password reset notice to an existing identity.
	SendResetNotice(ctx context.Context, employeeID, email string) error
}
