// Copyright 2025 LPK PB Merdeka
// Licensed under the EUPL-1.2

// Package server wires configuration, storage, services and routes into a
// running HTTP server.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pbmerdeka/lpk-server/internal/config"
	"github.com/pbmerdeka/lpk-server/internal/database"
	"github.com/pbmerdeka/lpk-server/internal/handlers"
	appmiddleware "github.com/pbmerdeka/lpk-server/internal/middleware"
	"github.com/pbmerdeka/lpk-server/internal/ratelimit"
	"github.com/pbmerdeka/lpk-server/internal/repository"
	authsvc "github.com/pbmerdeka/lpk-server/internal/services/auth"
	"github.com/pbmerdeka/lpk-server/internal/services/session"
	"github.com/pbmerdeka/lpk-server/internal/services/twofactor"
	"github.com/urfave/cli/v3"
)

// Run starts the server with the given CLI command.
func Run(ctx context.Context, cmd *cli.Command) error {
	cfg := config.NewFromCLI(cmd)
	setupLogger(cfg.Log.Level, cfg.Log.Format)

	slog.Info("starting server",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"base_url", cfg.Server.BaseURL,
	)

	// Database, migrations run on open
	db, err := database.Open(cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if closeErr := database.Close(db); closeErr != nil {
			slog.Error("failed to close database", "error", closeErr)
		}
	}()

	repo := repository.New(db)

	// Services
	auth := authsvc.NewService(repo)
	twoFactor := twofactor.NewService(repo, cfg.TwoFactor.Issuer)
	sessions := session.NewManager(repo, session.Config{
		CookieName: cfg.Session.CookieName,
		TTL:        time.Duration(cfg.Session.MaxAge) * time.Second,
		Secure:     cfg.Secure(),
	})
	limiter := ratelimit.New(cfg.TwoFactor.RateLimit, time.Duration(cfg.TwoFactor.RateWindow)*time.Second)

	// Bootstrap admin account on first run
	if cfg.Admin.Email != "" && cfg.Admin.Password != "" {
		if adminErr := auth.EnsureAdmin(ctx, cfg.Admin.Email, cfg.Admin.Password); adminErr != nil {
			return fmt.Errorf("failed to ensure admin account: %w", adminErr)
		}
	}

	// Echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	setupMiddleware(e, cfg)
	setupRoutes(e, handlers.New(auth, twoFactor, sessions, limiter), sessions)

	return startWithGracefulShutdown(e, cfg)
}

func setupRoutes(e *echo.Echo, h *handlers.Handlers, sessions *session.Manager) {
	e.GET("/health", h.Health)

	// Login flow, no session required
	authGroup := e.Group("/auth")
	authGroup.Use(appmiddleware.LoadUser(sessions))
	authGroup.POST("/login", h.Login)
	authGroup.POST("/precheck", h.Precheck)
	authGroup.POST("/challenge", h.Challenge)
	authGroup.POST("/logout", h.Logout)

	// Account management, session required
	userGroup := e.Group("/user")
	userGroup.Use(appmiddleware.LoadUser(sessions))
	userGroup.Use(appmiddleware.RequireAuth)
	userGroup.POST("/password", h.ChangePassword)
	userGroup.POST("/2fa/generate", h.TwoFactorGenerate)
	userGroup.POST("/2fa/enable", h.TwoFactorEnable)
	userGroup.POST("/2fa/disable", h.TwoFactorDisable)
	userGroup.GET("/2fa/status", h.TwoFactorStatus)
}

func startWithGracefulShutdown(e *echo.Echo, cfg *config.Config) error {
	errChan := make(chan error, 1)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	go func() {
		slog.Info("Server running", "url", cfg.Server.BaseURL)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	// Wait for interrupt signal or error
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		slog.Info("shutting down server")
	case err := <-errChan:
		slog.Error("server error", "error", err)
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		slog.Error("failed to shutdown server", "error", err)
	}

	slog.Info("server stopped")
	return nil
}
