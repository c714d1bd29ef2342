package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/medicapp/clinic-backend/internal/api/metrics"
	"github.com/medicapp/clinic-backend/internal/core/domain"
	"github.com/medicapp/clinic-backend/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login authenticates an employee and returns an access/refresh token pair.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return bindError()
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	res, err := h.authService.Login(c.Request().Context(), req.EmployeeID, req.Password)
	metrics.LoginsTotal.WithLabelValues(metrics.Result(err)).Inc()
	if err != nil {
		return err
	}

	resp := loginResponse{
		Access:  res.Tokens.Access,
		Refresh: res.Tokens.Refresh,
		Role:    string(res.Role),
	}
	if res.Role != domain.RoleSystemAdmin {
		resp.EmployeeID = res.Identity.LoginID
		resp.Email = res.Identity.Email
		resp.FirstName = res.Identity.FirstName
		resp.LastName = res.Identity.LastName
	}
	return c.JSON(http.StatusOK, resp)
}

// Refresh exchanges a refresh token for a new access token.
//
// @Summary      Refresh access token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      refreshRequest  true  "Refresh token"
// @Success      200   {object}  refreshResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /token/refresh [post]
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshRequest
	if err := c.Bind(&req); err != nil {
		return bindError()
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	access, _, err := h.authService.Refresh(c.Request().Context(), req.Refresh)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, refreshResponse{Access: access})
}

// VerifyAdmin checks that the employee id is the system admin and is not
// registered yet.
//
// @Summary      Verify system admin id
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      verifyAdminRequest  true  "Admin id and email"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /verify-admin [post]
func (h *AuthHandler) VerifyAdmin(c echo.Context) error {
	var req verifyAdminRequest
	if err := c.Bind(&req); err != nil {
		return bindError()
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.authService.VerifyAdmin(c.Request().Context(), req.EmployeeID, req.Email); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Detail: "admin verified"})
}

// RegisterAdmin creates the system admin account.
//
// @Summary      Register the system admin
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerAdminRequest  true  "Admin account"
// @Success      201   {object}  identityResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /register [post]
func (h *AuthHandler) RegisterAdmin(c echo.Context) error {
	var req registerAdminRequest
	if err := c.Bind(&req); err != nil {
		return bindError()
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	identity, err := h.authService.RegisterAdmin(c.Request().Context(), ports.RegisterAdminInput{
		LoginID:   req.EmployeeID,
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, identityResponse{
		EmployeeID: identity.LoginID,
		Email:      identity.Email,
		FirstName:  identity.FirstName,
		LastName:   identity.LastName,
		IsActive:   identity.IsActive,
	})
}
