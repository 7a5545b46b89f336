package app

import (
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	"github.com/soraformula/soraformula/internal/config"
	"github.com/soraformula/soraformula/internal/db"
	"github.com/soraformula/soraformula/internal/repository"
	"github.com/soraformula/soraformula/internal/service"
	"github.com/soraformula/soraformula/internal/service/payment"
	"github.com/soraformula/soraformula/internal/storage"
)

type App struct {
	Cfg                 *config.Config
	DB                  *sqlx.DB // nil with the json store
	Storage             storage.Storage
	AuthService         *service.AuthService
	EmailService        *service.EmailService
	ActivityService     *service.ActivityService
	SignupService       *service.SignupService
	SubscriptionService *service.SubscriptionService
	AdminService        *service.AdminService
	ReferenceService    *service.ReferenceService
	PaymentService      payment.Provider // nil when the provider is not configured
}

func New(cfg *config.Config) (*App, error) {
	var database *sqlx.DB
	var collections *repository.Collections

	switch cfg.StoreDriver {
	case "json":
		slog.Info("using json record store", "dir", cfg.DataDir)
		collections = repository.NewJSONCollections(cfg.DataDir)
	case "sqlite", "pgx":
		var err error
		database, err = db.Open(cfg.StoreDriver, cfg.DBConnection)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		collections = repository.NewSQLCollections(database)
	default:
		return nil, fmt.Errorf("unknown store driver: %s (supported: json, sqlite, pgx)", cfg.StoreDriver)
	}

	fileStorage, err := storage.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	return Build(cfg, collections, fileStorage, database), nil
}

// Build wires services over already opened stores
func Build(cfg *config.Config, collections *repository.Collections, fileStorage storage.Storage, database *sqlx.DB) *App {
	emailService := service.NewEmailService(
		cfg.ResendAPIKey,
		cfg.EmailFrom,
		cfg.ResendAudienceID,
		cfg.FrontendURL,
		cfg.AppName,
		cfg.IsDevelopment(),
	)
	activityService := service.NewActivityService(collections.Activities)
	signupService := service.NewSignupService(collections.Signups, collections.Users, activityService, emailService)
	subscriptionService := service.NewSubscriptionService(collections.Payments)
	adminService := service.NewAdminService(signupService, activityService, subscriptionService)

	paymentProvider, err := payment.NewProvider(cfg, payment.Services{
		Subscriptions: subscriptionService,
		Activities:    activityService,
		Email:         emailService,
	})
	if err != nil {
		// the rest of the API works without billing
		slog.Warn("payments disabled", "error", err)
		paymentProvider = nil
	}

	return &App{
		Cfg:                 cfg,
		DB:                  database,
		Storage:             fileStorage,
		AuthService:         service.NewAuthService(cfg.AdminJWTSecret, cfg.AdminTokenExpiry),
		EmailService:        emailService,
		ActivityService:     activityService,
		SignupService:       signupService,
		SubscriptionService: subscriptionService,
		AdminService:        adminService,
		ReferenceService:    service.NewReferenceService(fileStorage),
		PaymentService:      paymentProvider,
	}
}

func (a *App) Close() error {
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}
