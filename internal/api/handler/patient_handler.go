package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/medicapp/clinic-backend/internal/api/metrics"
	"github.com/medicapp/clinic-backend/internal/core/domain"
	"github.com/medicapp/clinic-backend/internal/core/ports"
)

// PatientHandler serves the patient registry.
type PatientHandler struct {
	service ports.PatientService
}

func NewPatientHandler(service ports.PatientService) *PatientHandler {
	return &PatientHandler{service: service}
}

// List handles GET /patient.
//
// @Summary      List patients
// @Tags         patients
// @Produce      json
// @Success      200  {array}  patientResponse
// @Router       /patient [get]
func (h *PatientHandler) List(c echo.Context) error {
	patients, err := h.service.ListPatients(c.Request().Context())
	if err != nil {
		return err
	}

	out := make([]patientResponse, 0, len(patients))
	for i := range patients {
		out = append(out, toPatientResponse(&patients[i]))
	}
	return c.JSON(http.StatusOK, out)
}

// Create handles POST /patient. Unknown category ids are ignored.
//
// @Summary      Register a patient
// @Tags         patients
// @Accept       json
// @Produce      json
// @Param        body  body      createPatientRequest  true  "Patient"
// @Success      201   {object}  patientResponse
// @Failure      400   {object}  map[string]string
// @Router       /patient [post]
func (h *PatientHandler) Create(c echo.Context) error {
	var req createPatientRequest
	if err := c.Bind(&req); err != nil {
		return bindError()
	}

	patient, err := h.service.RegisterPatient(c.Request().Context(), ports.RegisterPatientInput{
		PatientNumber: string(req.PatientNumber),
		FirstName:     req.FirstName,
		MiddleName:    req.MiddleName,
		LastName:      req.LastName,
		DateOfBirth:   req.DateOfBirth,
		City:          req.City,
		CategoryIDs:   req.CategoryIDs,
	})
	if err != nil {
		return err
	}

	metrics.PatientsRegisteredTotal.Inc()
	return c.JSON(http.StatusCreated, toPatientResponse(patient))
}

// Get handles GET /patient/:id.
//
// @Summary      Get a patient
// @Tags         patients
// @Produce      json
// @Param        id   path      int  true  "Patient number"
// @Success      200  {object}  patientResponse
// @Failure      404  {object}  map[string]string
// @Router       /patient/{id} [get]
func (h *PatientHandler) Get(c echo.Context) error {
	number, err := pathInt(c, "id", "patient_number")
	if err != nil {
		return err
	}

	patient, err := h.service.GetPatient(c.Request().Context(), number)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPatientResponse(patient))
}

// Update handles POST /patient/:id/credentials.
//
// @Summary      Update a patient
// @Tags         patients
// @Accept       json
// @Produce      json
// @Param        id    path      int                   true  "Patient number"
// @Param        body  body      updatePatientRequest  true  "Full or categories-only update"
// @Success      200   {object}  patientResponse
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /patient/{id}/credentials [post]
func (h *PatientHandler) Update(c echo.Context) error {
	number, err := pathInt(c, "id", "patient_number")
	if err != nil {
		return err
	}

	var req updatePatientRequest
	if err := c.Bind(&req); err != nil {
		return bindError()
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	var update ports.PatientUpdate
	switch req.Mode {
	case updateModeCategories:
		if req.CategoryIDs == nil {
			ve := domain.NewValidationError()
			ve.Add("category_ids", domain.CodeRequired)
			return ve
		}
		update = ports.CategoriesOnlyUpdate{CategoryIDs: req.CategoryIDs}
	case updateModeFull:
		update = ports.FullPatientUpdate{
			FirstName:   req.FirstName,
			MiddleName:  req.MiddleName,
			LastName:    req.LastName,
			DateOfBirth: req.DateOfBirth,
			City:        req.City,
			CategoryIDs: req.CategoryIDs,
		}
	}

	patient, err := h.service.UpdatePatient(c.Request().Context(), number, update)
	if err != nil {
		return err
	}

	metrics.PatientUpdatesTotal.WithLabelValues(req.Mode).Inc()
	return c.JSON(http.StatusOK, toPatientResponse(patient))
}
