package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ErlanBelekov/devconnect/config"
	"github.com/ErlanBelekov/devconnect/internal/health"
	"github.com/ErlanBelekov/devconnect/internal/infrastructure/postgres"
	ctxlog "github.com/ErlanBelekov/devconnect/internal/log"
	"github.com/ErlanBelekov/devconnect/internal/metrics"
	"github.com/ErlanBelekov/devconnect/internal/password"
	"github.com/ErlanBelekov/devconnect/internal/token"
	httptransport "github.com/ErlanBelekov/devconnect/internal/transport/http"
	"github.com/ErlanBelekov/devconnect/internal/transport/http/handler"
	"github.com/ErlanBelekov/devconnect/internal/transport/http/middleware"
	"github.com/ErlanBelekov/devconnect/internal/usecase"
	"github.com/ErlanBelekov/devconnect/internal/validation"
	"github.com/gin-gonic/gin"
	"github.com/lmittmann/tint"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := newLogger(cfg.Env, cfg.SlogLevel())

	if cfg.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}
	if cfg.TokenTTL <= 5*time.Minute {
		logger.Warn("session tokens are very short-lived; set TOKEN_TTL to change", "ttl", cfg.TokenTTL)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	if cfg.AutoMigrate {
		if err := migrateUp(cfg.DatabaseURL); err != nil {
			stop()
			log.Fatalf("migrate: %v", err)
		}
		logger.Info("migrations applied")
	}

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		stop()
		log.Fatalf("db: %v", err)
	}
	defer pool.Close()

	hasher, err := password.NewHasher(cfg.BcryptCost, cfg.HashConcurrency)
	if err != nil {
		stop()
		log.Fatalf("hasher: %v", err)
	}
	tokens, err := token.NewCodec([]byte(cfg.JWTSecret), cfg.TokenTTL)
	if err != nil {
		stop()
		log.Fatalf("token codec: %v", err)
	}

	// Users
	userRepo := postgres.NewUserRepository(pool)
	authUsecase := usecase.NewAuthUsecase(userRepo, hasher, tokens)
	profileUsecase := usecase.NewProfileUsecase(userRepo)

	v := validation.New()
	authHandler := handler.NewAuthHandler(authUsecase, v, handler.CookieOptions{
		Name:   cfg.CookieName,
		Secure: cfg.CookieSecure,
	}, logger)
	userHandler := handler.NewUserHandler(profileUsecase, v, logger)
	authMW := middleware.Auth(authUsecase, cfg.CookieName, logger)

	metrics.Register()
	checker := health.NewChecker(logger, prometheus.DefaultRegisterer,
		health.Dependency{Name: "postgres", Pinger: pool},
	)

	srv := http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           httptransport.NewRouter(logger, authHandler, userHandler, authMW),
		ReadHeaderTimeout: 5 * time.Second,
	}

	metricsSrv := metrics.NewServer(":"+cfg.MetricsPort, checker)

	go func() {
		logger.Info("server started", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	go func() {
		logger.Info("metrics server started", "port", cfg.MetricsPort)
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server", "error", err)
		}
	}()

	<-ctx.Done()
	stop()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", "error", err)
	}
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("metrics server shutdown", "error", err)
	}
}

func migrateUp(databaseURL string) error {
	m, err := postgres.NewMigrator(databaseURL)
	if err != nil {
		return err
	}
	defer func() { _ = m.Close() }()
	return m.Up()
}

func newLogger(env string, level slog.Level) *slog.Logger {
	var inner slog.Handler
	if env == "local" {
		inner = tint.NewHandler(os.Stdout, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		})
	} else {
		inner = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		})
	}
	return slog.New(ctxlog.NewContextHandler(inner))
}
