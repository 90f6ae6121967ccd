package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/immunet/immunet-backend/internal/adapter/postgres"
	auditrepo "github.com/immunet/immunet-backend/internal/adapter/postgres/audit"
	childrepo "github.com/immunet/immunet-backend/internal/adapter/postgres/child"
	lifecyclerepo "github.com/immunet/immunet-backend/internal/adapter/postgres/lifecycle"
	lotrepo "github.com/immunet/immunet-backend/internal/adapter/postgres/lot"
	registryrepo "github.com/immunet/immunet-backend/internal/adapter/postgres/registry"
	vaccinationrepo "github.com/immunet/immunet-backend/internal/adapter/postgres/vaccination"
	"github.com/immunet/immunet-backend/internal/auth"
	"github.com/immunet/immunet-backend/internal/config"
	"github.com/immunet/immunet-backend/internal/service/lifecycle"
	"github.com/immunet/immunet-backend/internal/service/patient"
	"github.com/immunet/immunet-backend/internal/service/registry"
	"github.com/immunet/immunet-backend/internal/service/stock"
	"github.com/immunet/immunet-backend/internal/service/vaccination"
	"github.com/immunet/immunet-backend/internal/transport/rest"
)

// Run is the application entry point. It loads configuration, initializes the
// logger and the connection pool, wires repositories into services and
// services into the REST transport, then serves until ctx is cancelled and
// shuts down gracefully.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	txManager := postgres.NewTxManager(pool)

	audits := auditrepo.New(pool)
	children := childrepo.New(pool)
	lots := lotrepo.New(pool)
	events := vaccinationrepo.New(pool)
	refs := registryrepo.New(pool)
	lifecycles := lifecyclerepo.New(pool)

	jwtManager := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.AccessTokenTTL)
	hasher := auth.NewPasswordHasher(cfg.Auth.BcryptCost)

	registrySvc := registry.NewService(logger, refs, audits, txManager, hasher)
	stockSvc := stock.NewService(logger, lots, events, registrySvc, audits, txManager, stock.Limits{
		MaxLotQuantity:  cfg.Stock.MaxLotQuantity,
		DefaultPageSize: cfg.Stock.DefaultPageSize,
	})
	vaccinationSvc := vaccination.NewService(logger, events, lots, registrySvc, audits, txManager)
	patientSvc := patient.NewService(logger, children, registrySvc, audits, txManager)
	lifecycleSvc := lifecycle.NewService(logger, lifecycles, registrySvc, audits, txManager)

	handlers := rest.Handlers{
		Health:      rest.NewHealthHandler(pool, BuildVersion()),
		Vaccination: rest.NewVaccinationHandler(vaccinationSvc, logger),
		Stock:       rest.NewStockHandler(stockSvc, logger),
		Patient:     rest.NewPatientHandler(patientSvc, logger),
		Registry:    rest.NewRegistryHandler(registrySvc, logger),
		Lifecycle:   rest.NewLifecycleHandler(lifecycleSvc, logger),
	}

	router := rest.NewRouter(handlers, jwtManager, cfg.CORS, logger)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down", slog.Duration("timeout", cfg.Server.ShutdownTimeout))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}

	logger.Info("stopped")
	return nil
}
