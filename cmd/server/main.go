// @title       Clinic Admin API
// @version     1.0
// @description Doctor verification, patient registry and care categories.
// @BasePath    /
//
// @securityDefinitions.apikey BearerAuth
// @in   header
// @name Authorization
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	mongodriver "go.mongodb.org/mongo-driver/mongo"

	"github.com/medicapp/clinic-backend/internal/api"
	"github.com/medicapp/clinic-backend/internal/api/handler"
	"github.com/medicapp/clinic-backend/internal/api/metrics"
	"github.com/medicapp/clinic-backend/internal/core/domain"
	"github.com/medicapp/clinic-backend/internal/core/service"
	"github.com/medicapp/clinic-backend/internal/infrastructure/config"
	"github.com/medicapp/clinic-backend/internal/infrastructure/db/mongo"
	"github.com/medicapp/clinic-backend/internal/infrastructure/db/redis"
	"github.com/medicapp/clinic-backend/internal/infrastructure/mail"
	"github.com/medicapp/clinic-backend/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "clinic-backend",
	})

	client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	if err := mongo.EnsureIndexes(ctx, db); err != nil {
		return err
	}

	rdb, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
	if err != nil {
		return err
	}
	defer func() { _ = rdb.Close() }()

	services, err := buildServices(cfg, client, db, rdb, log)
	if err != nil {
		return err
	}

	e := api.NewRouter(services, api.Options{
		JWTSecret: cfg.JWTSecret,
		Dependencies: map[string]handler.PingFunc{
			"mongodb": func(ctx context.Context) error { return client.Ping(ctx, nil) },
			"redis":   func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		},
		Logger: log,
	})

	go func() {
		addr := ":" + cfg.Port
		log.Info().Str("addr", addr).Msg("starting server")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	log.Info().Msg("server stopped")
	return nil
}

func buildServices(cfg *config.Config, client *mongodriver.Client, db *mongodriver.Database, rdb *goredis.Client, log zerolog.Logger) (api.Services, error) {
	tx := mongo.NewTransactor(client)
	identities := mongo.NewIdentityRepository(db)
	doctors := mongo.NewDoctorRepository(db)
	categories := mongo.NewCategoryRepository(db)
	patients := mongo.NewPatientRepository(db)

	admin := domain.AdminIdentity{LoginID: cfg.AdminEmployeeID}
	hasher := service.NewPasswordHasher(cfg.BcryptCost)

	notifier := metrics.InstrumentNotifier(mail.NewSMTPNotifier(mail.Config{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
	}))

	auth, err := service.NewAuthService(identities, admin, hasher, service.TokenConfig{
		Secret:     cfg.JWTSecret,
		AccessTTL:  cfg.AccessTokenTTL,
		RefreshTTL: cfg.RefreshTokenTTL,
	}, log)
	if err != nil {
		return api.Services{}, err
	}

	return api.Services{
		Auth: auth,
		Doctors: service.NewDoctorService(
			tx, identities, doctors,
			redis.NewDoctorStatsCache(rdb, cfg.StatsCacheTTL),
			notifier, admin, hasher, log,
		),
		Categories: service.NewCategoryService(tx, categories, patients, log),
		Patients:   service.NewPatientService(tx, patients, categories, log),
	}, nil
}
