package ports

import (
	"context"

	"github.com/medicapp/clinic-backend/internal/core/domain"
)

// RegisterPatientInput carries raw patient fields as submitted. PatientNumber
// and DateOfBirth are parsed by the service so failures surface as field errors.
type RegisterPatientInput struct {
	PatientNumber string
	FirstName     string
	MiddleName    string
	LastName      string
	DateOfBirth   string
	City          string
	CategoryIDs   []int64
}

// PatientUpdate is either a FullPatientUpdate or a CategoriesOnlyUpdate.
type PatientUpdate interface {
	isPatientUpdate()
}

// FullPatientUpdate replaces every demographic field and recomputes the age.
// A non-nil CategoryIDs also replaces the category set.
type FullPatientUpdate struct {
	FirstName   string
	MiddleName  string
	LastName    string
	DateOfBirth string
	City        string
	CategoryIDs []int64
}

// CategoriesOnlyUpdate replaces the category set and nothing else.
type CategoriesOnlyUpdate struct {
	CategoryIDs []int64
}

func (FullPatientUpdate) isPatientUpdate()    {}
func (CategoriesOnlyUpdate) isPatientUpdate() {}

type PatientService interface {
	RegisterPatient(ctx context.Context, input RegisterPatientInput) (*domain.Patient, error)
	GetPatient(ctx context.Context, patientNumber int64) (*domain.Patient, error)
	ListPatients(ctx context.Context) ([]domain.Patient, error)
	UpdatePatient(ctx context.Context, patientNumber int64, update PatientUpdate) (*domain.Patient, error)
}
