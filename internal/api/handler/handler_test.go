package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/medicapp/clinic-backend/internal/api/middleware"
	"github.com/medicapp/clinic-backend/internal/core/domain"
	"github.com/medicapp/clinic-backend/internal/core/ports"
)

func newTestContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func withIdentity(c echo.Context, loginID string, role domain.Role) {
	c.Set(middleware.CtxEmployeeID, loginID)
	c.Set(middleware.CtxRole, string(role))
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	return resp
}

func validationFields(t *testing.T, err error) map[string]string {
	t.Helper()
	ve, ok := err.(*domain.ValidationError)
	if !ok {
		t.Fatalf("expected *domain.ValidationError, got %T (%v)", err, err)
	}
	return ve.Fields
}

type stubAuthService struct {
	loginFn         func(ctx context.Context, loginID, password string) (*ports.LoginResult, error)
	refreshFn       func(ctx context.Context, token string) (string, time.Time, error)
	verifyAdminFn   func(ctx context.Context, loginID, email string) error
	registerAdminFn func(ctx context.Context, in ports.RegisterAdminInput) (*domain.Identity, error)
}

func (s *stubAuthService) Login(ctx context.Context, loginID, password string) (*ports.LoginResult, error) {
	return s.loginFn(ctx, loginID, password)
}

func (s *stubAuthService) Refresh(ctx context.Context, token string) (string, time.Time, error) {
	return s.refreshFn(ctx, token)
}

func (s *stubAuthService) VerifyAdmin(ctx context.Context, loginID, email string) error {
	return s.verifyAdminFn(ctx, loginID, email)
}

func (s *stubAuthService) RegisterAdmin(ctx context.Context, in ports.RegisterAdminInput) (*domain.Identity, error) {
	return s.registerAdminFn(ctx, in)
}

type stubDoctorService struct {
	registerPendingFn  func(ctx context.Context, in ports.RegisterDoctorInput) (*domain.Doctor, error)
	registerVerifiedFn func(ctx context.Context, in ports.RegisterDoctorInput, requester string) (*domain.Doctor, error)
	verifyFn           func(ctx context.Context, employeeID, requester string) (*domain.Doctor, error)
	upsertFn           func(ctx context.Context, in ports.UpsertDoctorInput, requester string) (*domain.Doctor, bool, error)
	listFn             func(ctx context.Context) ([]domain.Doctor, error)
	statsFn            func(ctx context.Context) (*domain.DoctorStats, error)
	resetFn            func(ctx context.Context, employeeID, email string) error
}

func (s *stubDoctorService) RegisterPendingDoctor(ctx context.Context, in ports.RegisterDoctorInput) (*domain.Doctor, error) {
	return s.registerPendingFn(ctx, in)
}

func (s *stubDoctorService) RegisterVerifiedDoctor(ctx context.Context, in ports.RegisterDoctorInput, requester string) (*domain.Doctor, error) {
	return s.registerVerifiedFn(ctx, in, requester)
}

func (s *stubDoctorService) VerifyDoctor(ctx context.Context, employeeID, requester string) (*domain.Doctor, error) {
	return s.verifyFn(ctx, employeeID, requester)
}

func (s *stubDoctorService) UpsertDoctor(ctx context.Context, in ports.UpsertDoctorInput, requester string) (*domain.Doctor, bool, error) {
	return s.upsertFn(ctx, in, requester)
}

func (s *stubDoctorService) ListDoctors(ctx context.Context) ([]domain.Doctor, error) {
	return s.listFn(ctx)
}

func (s *stubDoctorService) DoctorStats(ctx context.Context) (*domain.DoctorStats, error) {
	return s.statsFn(ctx)
}

func (s *stubDoctorService) SendResetNotice(ctx context.Context, employeeID, email string) error {
	return s.resetFn(ctx, employeeID, email)
}

type stubCategoryService struct {
	createFn func(ctx context.Context, name, description string) (*domain.Category, error)
	listFn   func(ctx context.Context) ([]domain.Category, error)
	updateFn func(ctx context.Context, id int64, in ports.UpdateCategoryInput) (*domain.Category, error)
	deleteFn func(ctx context.Context, id int64) error
}

func (s *stubCategoryService) CreateCategory(ctx context.Context, name, description string) (*domain.Category, error) {
	return s.createFn(ctx, name, description)
}

func (s *stubCategoryService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return s.listFn(ctx)
}

func (s *stubCategoryService) UpdateCategory(ctx context.Context, id int64, in ports.UpdateCategoryInput) (*domain.Category, error) {
	return s.updateFn(ctx, id, in)
}

func (s *stubCategoryService) DeleteCategory(ctx context.Context, id int64) error {
	return s.deleteFn(ctx, id)
}

type stubPatientService struct {
	registerFn func(ctx context.Context, in ports.RegisterPatientInput) (*domain.Patient, error)
	getFn      func(ctx context.Context, n int64) (*domain.Patient, error)
	listFn     func(ctx context.Context) ([]domain.Patient, error)
	updateFn   func(ctx context.Context, n int64, u ports.PatientUpdate) (*domain.Patient, error)
}

func (s *stubPatientService) RegisterPatient(ctx context.Context, in ports.RegisterPatientInput) (*domain.Patient, error) {
	return s.registerFn(ctx, in)
}

func (s *stubPatientService) GetPatient(ctx context.Context, n int64) (*domain.Patient, error) {
	return s.getFn(ctx, n)
}

func (s *stubPatientService) ListPatients(ctx context.Context) ([]domain.Patient, error) {
	return s.listFn(ctx)
}

func (s *stubPatientService) UpdatePatient(ctx context.Context, n int64, u ports.PatientUpdate) (*domain.Patient, error) {
	return s.updateFn(ctx, n, u)
}
