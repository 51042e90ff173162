package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/healthyfootprints/reminder-api/internal/config"
	"github.com/healthyfootprints/reminder-api/internal/handler"
	authHandler "github.com/healthyfootprints/reminder-api/internal/handler/auth"
	reminderHandler "github.com/healthyfootprints/reminder-api/internal/handler/reminder"
	"github.com/healthyfootprints/reminder-api/internal/middleware"
	"github.com/healthyfootprints/reminder-api/internal/repository/postgres"
	"github.com/healthyfootprints/reminder-api/internal/router"
	authService "github.com/healthyfootprints/reminder-api/internal/service/auth"
	reminderService "github.com/healthyfootprints/reminder-api/internal/service/reminder"
	pkgauth "github.com/healthyfootprints/reminder-api/pkg/auth"
	"github.com/healthyfootprints/reminder-api/pkg/metrics"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	m := metrics.New("reminder", "api")

	// Repositories
	reminderRepo := postgres.NewReminderRepository(db, m)
	staffRepo := postgres.NewStaffRepository(db, m)

	// Services
	sessionExpiry := time.Duration(cfg.JWT.ExpiryHours) * time.Hour
	jwtSvc := pkgauth.NewJWTService(cfg.JWT.Secret, sessionExpiry)
	authSvc := authService.NewService(staffRepo, jwtSvc)
	reminderSvc := reminderService.NewService(reminderRepo)

	// Middleware and handlers
	authMiddleware := middleware.NewAuthMiddleware(authSvc)
	h := handler.NewHandler()
	authH := authHandler.NewHandler(authSvc, sessionExpiry, true)
	reminderH := reminderHandler.NewHandler(reminderSvc)

	corsConfig := middleware.DefaultCORSConfig()
	if len(cfg.Security.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.Security.AllowedOrigins
	}

	r := router.NewRouter(authMiddleware, authH, reminderH, h, router.Config{
		RateLimitEnabled: cfg.RateLimit.Enabled,
		RateLimitRPS:     cfg.RateLimit.RequestsPerSecond,
		RateLimitBurst:   cfg.RateLimit.Burst,
		CORSConfig:       corsConfig,
		MetricsPrefix:    "reminder_api",
	})
	r.Setup()

	srv := &http.Server{
		Addr:           fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:        r.Engine(),
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("starting reminder API")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Info().Msg("shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
