package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"pet-visit-summary/internal/adapters/auth/jwtlocal"
	"pet-visit-summary/internal/adapters/auth/remote"
	"pet-visit-summary/internal/platform/logger"
	"pet-visit-summary/internal/ports/auth"
	"pet-visit-summary/internal/router"
)

// @title Pet Visit Summary API
// @version 0.1.0
// @description API de resúmenes de visita veterinaria.
func main() {
	// .env es opcional (dev); en despliegue las vars vienen del entorno.
	_ = godotenv.Load()

	log := logger.NewFromEnv()

	addr := ":8080"
	if v := os.Getenv("PORT"); v != "" {
		addr = ":" + v
	}

	verifier, err := buildVerifier()
	if err != nil {
		log.Error("auth setup failed", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
	if verifier == nil {
		log.Warn("running without auth verifier (dev mode, X-Debug-User-ID)", nil)
	}

	r := router.NewRouter(router.Options{
		AuthVerifier: verifier,
		Logger:       log,
	})

	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", map[string]any{"addr": addr})
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", map[string]any{"error": err.Error()})
			os.Exit(1)
		}
	case <-ctx.Done():
		log.Info("shutting down", nil)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("shutdown error", map[string]any{"error": err.Error()})
		}
	}
}

// buildVerifier elige el verificador según AUTH_MODE:
// - "remote": servicio de identidad externo (AUTH_VERIFY_URL + AUTH_API_KEY)
// - "jwt":    tokens HS256 locales (AUTH_JWT_SECRET)
// - vacío:    modo dev sin verifier
func buildVerifier() (auth.AuthVerifier, error) {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("AUTH_MODE"))) {
	case "remote":
		client, err := remote.NewClient(remote.ConfigFromEnv())
		if err != nil {
			return nil, err
		}
		if !client.IsConfigured() {
			return nil, remote.ErrNotConfigured
		}
		return remote.NewVerifier(client), nil
	case "jwt":
		return jwtlocal.NewVerifier(os.Getenv("AUTH_JWT_SECRET"))
	default:
		return nil, nil
	}
}
