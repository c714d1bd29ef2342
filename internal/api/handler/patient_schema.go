package handler

import (
	"encoding/json"
	"time"

	"github.com/medicapp/clinic-backend/internal/core/domain"
)

// flexibleNumber accepts a patient number sent as a JSON number or string.
// Parsing is left to the service so bad values surface as field errors.
type flexibleNumber string

func (n *flexibleNumber) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*n = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*n = flexibleNumber(s)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(b, &num); err != nil {
		return err
	}
	*n = flexibleNumber(num.String())
	return nil
}

// --- Request / Response types ---

type createPatientRequest struct {
	PatientNumber flexibleNumber `json:"patient_number"`
	FirstName     string         `json:"first_name"`
	MiddleName    string         `json:"middle_name"`
	LastName      string         `json:"last_name"`
	DateOfBirth   string         `json:"date_of_birth"`
	City          string         `json:"city"`
	CategoryIDs   []int64        `json:"category_ids"`
}

// updatePatientRequest selects its variant through Mode. In "full" mode an
// absent category_ids keeps the current set; an empty list clears it.
type updatePatientRequest struct {
	Mode        string  `json:"mode"          validate:"required,oneof=full categories"`
	FirstName   string  `json:"first_name"`
	MiddleName  string  `json:"middle_name"`
	LastName    string  `json:"last_name"`
	DateOfBirth string  `json:"date_of_birth"`
	City        string  `json:"city"`
	CategoryIDs []int64 `json:"category_ids"`
}

const (
	updateModeFull       = "full"
	updateModeCategories = "categories"
)

type patientResponse struct {
	PatientNumber int64             `json:"patient_number"`
	FirstName     string            `json:"first_name"`
	MiddleName    string            `json:"middle_name"`
	LastName      string            `json:"last_name"`
	Age           int               `json:"age"`
	DateOfBirth   string            `json:"date_of_birth"`
	City          string            `json:"city"`
	Categories    []domain.Category `json:"categories"`
	CreatedAt     time.Time         `json:"created_at"`
}

func toPatientResponse(p *domain.Patient) patientResponse {
	categories := p.Categories
	if categories == nil {
		categories = []domain.Category{}
	}
	return patientResponse{
		PatientNumber: p.PatientNumber,
		FirstName:     p.FirstName,
		MiddleName:    p.MiddleName,
		LastName:      p.LastName,
		Age:           p.Age,
		DateOfBirth:   p.DateOfBirth.Format(domain.DateLayout),
		City:          p.City,
		Categories:    categories,
		CreatedAt:     p.CreatedAt,
	}
}
