package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/medicapp/clinic-backend/internal/core/domain"
)

func TestResolveError(t *testing.T) {
	ve := domain.NewValidationError()
	ve.Add("date_of_birth", domain.CodeInvalidDate)

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantDetail string
	}{
		{"validation", ve, http.StatusBadRequest, "validation failed"},
		{"conflict", domain.ErrConflict, http.StatusBadRequest, "resource already exists"},
		{"wrapped not found", fmt.Errorf("find: %w", domain.ErrNotFound), http.StatusNotFound, "not found"},
		{"unauthorized", domain.ErrUnauthorized, http.StatusUnauthorized, "invalid credentials"},
		{"forbidden", domain.ErrForbidden, http.StatusForbidden, "access forbidden"},
		{"echo error", echo.NewHTTPError(http.StatusMethodNotAllowed, "nope"), http.StatusMethodNotAllowed, "nope"},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError, "internal server error"},
	}

	e := echo.New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

			status, body := resolveError(tt.err, zerolog.Nop(), c)
			if status != tt.wantStatus || body.Detail != tt.wantDetail {
				t.Fatalf("expected %d %q, got %d %q", tt.wantStatus, tt.wantDetail, status, body.Detail)
			}
		})
	}
}

func TestResolveError_ValidationFields(t *testing.T) {
	ve := domain.NewValidationError()
	ve.Add("patient_number", domain.CodeInvalidID)

	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	_, body := resolveError(ve, zerolog.Nop(), c)
	if body.Errors["patient_number"] != domain.CodeInvalidID {
		t.Fatalf("unexpected field errors: %v", body.Errors)
	}
}
