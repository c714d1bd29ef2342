package ports

import (
	"context"

	"github.com/medicapp/clinic-backend/internal/core/domain"
)

// DoctorRepository persists doctor profiles.
type DoctorRepository interface {
	// Create fails with domain.ErrConflict when the employee id already has a profile.
	Create(ctx context.Context, profile *domain.DoctorProfile) error
	FindByEmployeeID(ctx context.Context, employeeID string) (*domain.DoctorProfile, error)
	SetActive(ctx context.Context, employeeID string, active bool) error
	UpdateSpecialization(ctx context.Context, employeeID, specialization string) error
	// List returns every profile joined with its owning identity.
	List(ctx context.Context) ([]domain.Doctor, error)
	Stats(ctx context.Context) (domain.DoctorStats, error)
}

// DoctorStatsCache is a best-effort cache in front of DoctorRepository.Stats.
type DoctorStatsCache interface {
	// Get returns ok=false on a cache miss.
	Get(ctx context.Context) (stats domain.DoctorStats, ok bool, err error)
	Set(ctx context.Context, stats domain.DoctorStats) error
	Invalidate(ctx context.Context) error
}
