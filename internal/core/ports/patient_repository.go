package ports

import (
	"context"

	"github.com/medicapp/clinic-backend/internal/core/domain"
)

// PatientRepository persists patients and their category enrollments.
type PatientRepository interface {
	// Create inserts atomically, failing with domain.ErrConflict when the
	// patient number already exists.
	Create(ctx context.Context, patient *domain.Patient) error
	FindByNumber(ctx context.Context, patientNumber int64) (*domain.Patient, error)
	List(ctx context.Context) ([]domain.Patient, error)
	// UpdateDetails overwrites the demographic fields and age snapshot.
	UpdateDetails(ctx context.Context, patient *domain.Patient) error
	// SetCategories replaces the full category set of one patient.
	SetCategories(ctx context.Context, patientNumber int64, categoryIDs []int64) error
	// DetachCategory removes categoryID from every patient's category set.
	DetachCategory(ctx context.Context, categoryID int64) error
}
