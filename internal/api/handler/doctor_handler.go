package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/medicapp/clinic-backend/internal/api/metrics"
	"github.com/medicapp/clinic-backend/internal/core/domain"
	"github.com/medicapp/clinic-backend/internal/core/ports"
)

// DoctorHandler handles doctor registration, verification and listing.
type DoctorHandler struct {
	service ports.DoctorService
}

func NewDoctorHandler(service ports.DoctorService) *DoctorHandler {
	return &DoctorHandler{service: service}
}

// Register handles POST /register-doc. A registration with is_verified set
// requires an admin bearer token.
//
// @Summary      Register a doctor
// @Tags         doctors
// @Accept       json
// @Produce      json
// @Param        body  body      registerDoctorRequest  true  "Doctor details"
// @Success      201   {object}  doctorResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Router       /register-doc [post]
func (h *DoctorHandler) Register(c echo.Context) error {
	var req registerDoctorRequest
	if err := c.Bind(&req); err != nil {
		return bindError()
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	in := ports.RegisterDoctorInput{
		EmployeeID:     req.EmployeeID,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Email:          req.Email,
		Specialization: req.Specialization,
	}
	ctx := c.Request().Context()

	var (
		doctor *domain.Doctor
		err    error
		mode   = "pending"
	)
	if req.IsVerified {
		mode = "verified"
		doctor, err = h.service.RegisterVerifiedDoctor(ctx, in, optionalIdentity(c))
	} else {
		doctor, err = h.service.RegisterPendingDoctor(ctx, in)
	}
	metrics.DoctorRegistrationsTotal.WithLabelValues(mode, metrics.Result(err)).Inc()
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, toDoctorResponse(doctor))
}

// List handles GET /doctors.
//
// @Summary      List doctors
// @Tags         doctors
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   doctorResponse
// @Failure      401  {object}  map[string]string
// @Router       /doctors [get]
func (h *DoctorHandler) List(c echo.Context) error {
	doctors, err := h.service.ListDoctors(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toDoctorResponses(doctors))
}

// Stats handles GET /doctors/stats.
//
// @Summary      Doctor statistics
// @Tags         doctors
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.DoctorStats
// @Failure      401  {object}  map[string]string
// @Router       /doctors/stats [get]
func (h *DoctorHandler) Stats(c echo.Context) error {
	stats, err := h.service.DoctorStats(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}

// Verify handles POST /doctors/:id/verify.
//
// @Summary      Verify a doctor
// @Tags         doctors
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Employee id"
// @Success      200  {object}  doctorResponse
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /doctors/{id}/verify [post]
func (h *DoctorHandler) Verify(c echo.Context) error {
	requester, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	doctor, err := h.service.VerifyDoctor(c.Request().Context(), c.Param("id"), requester)
	metrics.DoctorVerificationsTotal.WithLabelValues(metrics.Result(err)).Inc()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toDoctorResponse(doctor))
}

// Upsert handles PUT /doctors/:id.
//
// @Summary      Create or update a doctor
// @Tags         doctors
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string               true  "Employee id"
// @Param        body  body      upsertDoctorRequest  true  "Doctor fields"
// @Success      200   {object}  doctorResponse
// @Success      201   {object}  doctorResponse
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Router       /doctors/{id} [put]
func (h *DoctorHandler) Upsert(c echo.Context) error {
	requester, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req upsertDoctorRequest
	if err := c.Bind(&req); err != nil {
		return bindError()
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	doctor, created, err := h.service.UpsertDoctor(c.Request().Context(), ports.UpsertDoctorInput{
		EmployeeID:     c.Param("id"),
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Email:          req.Email,
		Specialization: req.Specialization,
		Active:         req.IsActive,
	}, requester)
	if err != nil {
		return err
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	return c.JSON(status, toDoctorResponse(doctor))
}

// SendEmail handles POST /send-email. The notice does not change the stored
// password.
//
// @Summary      Send a password reset notice
// @Tags         doctors
// @Accept       json
// @Produce      json
// @Param        body  body      sendEmailRequest  true  "Employee id and email"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /send-email [post]
func (h *DoctorHandler) SendEmail(c echo.Context) error {
	var req sendEmailRequest
	if err := c.Bind(&req); err != nil {
		return bindError()
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.service.SendResetNotice(c.Request().Context(), req.EmployeeID, req.Email); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Detail: "email sent"})
}
