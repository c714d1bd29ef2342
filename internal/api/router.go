package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/medicapp/clinic-backend/docs"
	"github.com/medicapp/clinic-backend/internal/api/handler"
	"github.com/medicapp/clinic-backend/internal/api/middleware"
	"github.com/medicapp/clinic-backend/internal/core/domain"
	"github.com/medicapp/clinic-backend/internal/core/ports"
)

// Services bundles the application services the router exposes.
type Services struct {
	Auth       ports.AuthService
	Doctors    ports.DoctorService
	Categories ports.CategoryService
	Patients   ports.PatientService
}

// Options configures NewRouter.
type Options struct {
	JWTSecret string
	// Dependencies are pinged by the readiness probe, keyed by name.
	Dependencies map[string]handler.PingFunc
	Logger       zerolog.Logger
	// Registry receives the HTTP metrics. Nil means the default registry.
	Registry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(svc Services, opts Options) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(opts.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(opts.Logger))
	e.Use(metricsMiddleware(opts.Registry))

	auth := middleware.Auth(opts.JWTSecret)
	optionalAuth := middleware.OptionalAuth(opts.JWTSecret)
	adminOnly := middleware.RBAC(domain.RoleSystemAdmin)

	authHandler := handler.NewAuthHandler(svc.Auth)
	doctorHandler := handler.NewDoctorHandler(svc.Doctors)
	categoryHandler := handler.NewCategoryHandler(svc.Categories)
	patientHandler := handler.NewPatientHandler(svc.Patients)

	// --- Authentication ---
	e.POST("/login", authHandler.Login)
	e.POST("/token/refresh", authHandler.Refresh)
	e.POST("/verify-admin", authHandler.VerifyAdmin)
	e.POST("/register", authHandler.RegisterAdmin)

	// --- Doctors ---
	e.POST("/register-doc", doctorHandler.Register, optionalAuth)
	e.POST("/send-email", doctorHandler.SendEmail)

	doctors := e.Group("/doctors", auth)
	doctors.GET("", doctorHandler.List)
	doctors.GET("/stats", doctorHandler.Stats)
	doctors.POST("/:id/verify", doctorHandler.Verify, adminOnly)
	doctors.PUT("/:id", doctorHandler.Upsert, adminOnly)

	// --- Categories ---
	categories := e.Group("/categories", auth)
	categories.GET("", categoryHandler.List)
	categories.POST("", categoryHandler.Create)
	categories.PUT("/:id", categoryHandler.Update)
	categories.DELETE("/:id", categoryHandler.Delete)

	// --- Patients (no auth) ---
	e.GET("/patient", patientHandler.List)
	e.POST("/patient", patientHandler.Create)
	e.GET("/patient/:id", patientHandler.Get)
	e.POST("/patient/:id/credentials", patientHandler.Update)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(opts.Dependencies)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Ops ---
	e.GET("/metrics", metricsHandler(opts.Registry))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

func metricsMiddleware(reg *prometheus.Registry) echo.MiddlewareFunc {
	if reg == nil {
		return echoprometheus.NewMiddleware("clinic")
	}
	return echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "clinic",
		Registerer: reg,
	})
}

func metricsHandler(reg *prometheus.Registry) echo.HandlerFunc {
	if reg == nil {
		return echoprometheus.NewHandler()
	}
	return echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: reg})
}
