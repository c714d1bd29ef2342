package handler

import (
	"time"

	"github.com/medicapp/clinic-backend/internal/core/domain"
)

// --- Request / Response types ---

type registerDoctorRequest struct {
	EmployeeID     string `json:"employee_id"    validate:"required"`
	FirstName      string `json:"first_name"     validate:"required"`
	LastName       string `json:"last_name"      validate:"required"`
	Email          string `json:"email"          validate:"required,email"`
	Specialization string `json:"specialization"`
	IsVerified     bool   `json:"is_verified"`
}

type upsertDoctorRequest struct {
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Email          string `json:"email"          validate:"omitempty,email"`
	Specialization string `json:"specialization"`
	IsActive       bool   `json:"is_active"`
}

type sendEmailRequest struct {
	EmployeeID string `json:"employee_id" validate:"required"`
	Email      string `json:"email"       validate:"required,email"`
}

type doctorResponse struct {
	EmployeeID        string    `json:"employee_id"`
	FirstName         string    `json:"first_name"`
	LastName          string    `json:"last_name"`
	Email             string    `json:"email"`
	Specialization    string    `json:"specialization"`
	IsActive          bool      `json:"is_active"`
	NeedsVerification bool      `json:"needs_verification"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func toDoctorResponse(d *domain.Doctor) doctorResponse {
	return doctorResponse{
		EmployeeID:        d.Profile.EmployeeID,
		FirstName:         d.Identity.FirstName,
		LastName:          d.Identity.LastName,
		Email:             d.Identity.Email,
		Specialization:    d.Profile.Specialization,
		IsActive:          d.Profile.IsActive,
		NeedsVerification: d.NeedsVerification(),
		CreatedAt:         d.Profile.CreatedAt,
		UpdatedAt:         d.Profile.UpdatedAt,
	}
}

func toDoctorResponses(doctors []domain.Doctor) []doctorResponse {
	out := make([]doctorResponse, 0, len(doctors))
	for i := range doctors {
		out = append(out, toDoctorResponse(&doctors[i]))
	}
	return out
}
