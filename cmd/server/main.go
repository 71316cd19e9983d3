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

	"github.com/domapp/portal/internal/api"
	"github.com/domapp/portal/internal/core/service"
	"github.com/domapp/portal/internal/infrastructure/http/handlers"
	"github.com/domapp/portal/internal/pkg/config"
	"github.com/domapp/portal/internal/session"
	"github.com/domapp/portal/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "domapp: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "domapp",
	})

	users, closeUsers, err := openUserStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeUsers()

	sessions, closeSessions, err := openSessionStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeSessions()

	creds := service.NewCredentialService(users, cfg.Security.BcryptCost)
	auth := service.NewAuthService(users, creds, logger.Component("auth"))
	sessionStore := session.NewStore(sessions, session.CookieConfig{
		Name:   cfg.Session.CookieName,
		TTL:    cfg.Session.TTL,
		Secure: cfg.IsProduction(),
	}, logger.Component("session"))

	e, err := api.NewRouter(api.Deps{
		Auth:     auth,
		Sessions: sessionStore,
		Health: map[string]handlers.Pinger{
			"users":    users,
			"sessions": sessions,
		},
		Log:           logger.Component("http"),
		CSRFEnabled:   cfg.Security.CSRFEnabled,
		SecureCookies: cfg.IsProduction(),
	})
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("port", cfg.Port).
			Str("user_store", cfg.UserStore).
			Str("session_store", cfg.SessionStore).
			Msg("server starting")
		errCh <- e.Start(":" + cfg.Port)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := e.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("graceful shutdown failed")
			return err
		}
		log.Info().Msg("server stopped")
		return nil
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	}
}
