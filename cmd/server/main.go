package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/mediflow/contact-api/internal/config"
	"github.com/mediflow/contact-api/internal/contact"
	"github.com/mediflow/contact-api/pkg/captcha"
	"github.com/mediflow/contact-api/pkg/health"
	"github.com/mediflow/contact-api/pkg/logger"
	"github.com/mediflow/contact-api/pkg/mailer/resend"
	"github.com/mediflow/contact-api/pkg/ratelimit"
)

func main() {
	// Optional .env for local development; real deployments use the
	// process environment.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration invalid", slog.String("error", err.Error()))
		os.Exit(1)
	}

	log := logger.NewWithSentry(cfg.Sentry, logger.RequestID())
	slog.SetDefault(log)

	if err := run(cfg, log); err != nil {
		log.Error("server failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *slog.Logger) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	checks := health.Checks{}

	var limiter ratelimit.Store
	if cfg.RateLimit.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RateLimit.RedisURL)
		if err != nil {
			return fmt.Errorf("parse redis url: %w", err)
		}
		client := redis.NewClient(opts)
		defer func() { _ = client.Close() }()

		store := ratelimit.NewRedis(client, cfg.RateLimit.MaxPerWindow, cfg.RateLimit.Window)
		checks["redis"] = store.Healthcheck()
		limiter = store
		log.Info("rate limiting via shared redis store")
	} else {
		store := ratelimit.NewMemory(cfg.RateLimit.MaxPerWindow, cfg.RateLimit.Window,
			ratelimit.WithCleanupInterval(5*time.Minute))
		defer store.Close()
		limiter = store
		log.Info("rate limiting via in-process store")
	}

	verifier := captcha.New(cfg.Captcha, captcha.WithLogger(log))
	if verifier.Enabled() {
		log.Info("captcha verification enabled")
	} else {
		log.Info("captcha verification disabled, no secret configured")
	}

	dispatcher := contact.NewDispatcher(resend.New(cfg.Resend), cfg.Mailer, cfg.Contact.ToEmail,
		contact.WithDispatcherLogger(log))
	handler := contact.NewHandler(limiter, verifier, dispatcher, contact.WithLogger(log))

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.Server.RequestTimeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
	r.MethodNotAllowed(contact.MethodNotAllowedHandler())
	r.NotFound(contact.NotFoundHandler())

	r.Get("/healthz", health.LivenessHandler())
	r.Get("/readyz", health.ReadinessHandler(checks, health.WithLogger(log)))
	handler.Routes(r)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting", slog.Int("port", cfg.Server.Port))
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
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	log.Info("shutdown completed")
	return nil
}
