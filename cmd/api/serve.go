package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/georgemunganga/supplier-pro/internal/config"
	"github.com/georgemunganga/supplier-pro/internal/database"
	"github.com/georgemunganga/supplier-pro/internal/identity"
	"github.com/georgemunganga/supplier-pro/internal/logger"
	"github.com/georgemunganga/supplier-pro/internal/modules/analytics"
	"github.com/georgemunganga/supplier-pro/internal/modules/audit"
	"github.com/georgemunganga/supplier-pro/internal/modules/auth"
	"github.com/georgemunganga/supplier-pro/internal/modules/contract"
	"github.com/georgemunganga/supplier-pro/internal/modules/issue"
	"github.com/georgemunganga/supplier-pro/internal/modules/navigation"
	"github.com/georgemunganga/supplier-pro/internal/modules/storage"
	"github.com/georgemunganga/supplier-pro/internal/modules/user"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg := config.Load()
	log, err := logger.New(cfg.Logger)
	if err != nil {
		return err
	}
	defer log.Sync()

	// Weights go over the wire as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(ctx, cfg.Postgres)
	if err != nil {
		return err
	}
	defer db.Close()
	log.Info("connected to database")
	dbx := database.Wrap(db)

	store, err := storage.NewLocalStore(cfg.Storage)
	if err != nil {
		return err
	}
	navigator, err := navigation.New()
	if err != nil {
		return err
	}

	// ── Repositories ────────────────────────────────────────
	userRepo := user.NewPostgresRepository(db)
	contractRepo := contract.NewPostgresRepository(db)
	issueRepo := issue.NewPostgresRepository(dbx)
	auditRepo := audit.NewPostgresRepository(dbx)

	// ── Services ────────────────────────────────────────────
	userService := user.NewService(userRepo)
	authService := auth.NewService(userRepo, cfg.JWT.Secret, cfg.JWT.TTL)
	recorder := audit.NewRecorder(auditRepo, log)
	contractService := contract.NewService(contractRepo, store, recorder, log)
	issueService := issue.NewService(issueRepo)
	analyticsService := analytics.NewService(contractService, issueService, auditRepo)

	userHandler := user.NewHandler(userService)
	authHandler := auth.NewHandler(authService)
	contractHandler := contract.NewHandler(contractService)
	issueHandler := issue.NewHandler(issueService)

	// ── Router ──────────────────────────────────────────────
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	storage.NewHandler(store).RegisterRoutes(router)

	router.Route("/api/v1", func(api chi.Router) {
		userHandler.RegisterPublicRoutes(api)
		authHandler.RegisterPublicRoutes(api)

		api.Group(func(r chi.Router) {
			r.Use(identity.Authenticate(authService))

			userHandler.RegisterRoutes(r)
			authHandler.RegisterRoutes(r)
			r.Route("/contracts", func(r chi.Router) {
				contractHandler.RegisterRoutes(r)
				issueHandler.RegisterContractRoutes(r)
			})
			issueHandler.RegisterRoutes(r)
			audit.NewHandler(audit.NewService(auditRepo)).RegisterRoutes(r)
			analytics.NewHandler(analyticsService).RegisterRoutes(r)
			navigation.NewHandler(navigator).RegisterRoutes(r)
		})
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", zap.String("port", cfg.Server.Port), zap.String("env", cfg.Server.AppEnv))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Info("server stopped")
	return nil
}
