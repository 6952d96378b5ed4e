// cmd/idea-validator/serve.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"idea-validator/internal/common/auth"
	"idea-validator/internal/common/config"
	"idea-validator/internal/common/database"
	apphttp "idea-validator/internal/common/http"
	"idea-validator/internal/common/logger"
	"idea-validator/internal/common/observability"
	"idea-validator/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("config load failed: %w", err)
	}
	if err := config.ValidateAuth(cfg); err != nil {
		return err
	}

	log := newLogger(cfg, "")
	log.Info("starting idea-validator", map[string]interface{}{
		"version":     cfg.App.Version,
		"environment": cfg.App.Environment,
	})

	if cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	obs, err := observability.New(cfg.App.Name, cfg.Tracing, prometheus.DefaultRegisterer)
	if err != nil {
		return fmt.Errorf("observability init failed: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = obs.Shutdown(shutdownCtx)
	}()

	store, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("record store init failed: %w", err)
	}
	defer closeStore()

	var redisClient *database.RedisClient
	if cfg.Database.Redis.Enabled() {
		redisClient, err = database.NewRedis(cfg.Database.Redis)
		if err == nil {
			err = redisClient.Ping(ctx)
		}
		if err != nil {
			log.Warn("redis unavailable, token cache is process-local", map[string]interface{}{"error": err.Error()})
			redisClient = nil
		} else {
			defer redisClient.Close()
		}
	}

	httpClient := apphttp.NewClient(config.GetDuration(cfg.GenAI.Timeout), userAgent)

	verifier, err := newVerifier(cfg, redisClient, log)
	if err != nil {
		return err
	}

	service, err := newService(ctx, cfg, httpClient, store, obs, log)
	if err != nil {
		return fmt.Errorf("model client init failed: %w", err)
	}

	srv := server.New(cfg.Server, service, verifier, obs, log).HTTPServer()

	errCh := make(chan error, 1)
	go func() {
		log.Info("HTTP server listening", map[string]interface{}{"addr": srv.Addr})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
	case <-ctx.Done():
	}

	log.Info("shutting down", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.ShutdownTimeout))
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	log.Info("shutdown complete", nil)
	return nil
}

// newVerifier returns the hosted auth client behind an LRU cache, with Redis as a second
// tier when available. Disabled auth maps every token to auth.dev_user_id.
func newVerifier(cfg *config.Config, redisClient *database.RedisClient, log logger.Logger) (auth.TokenVerifier, error) {
	if cfg.Auth.Disabled {
		log.Warn("auth disabled, all requests act as the dev user", map[string]interface{}{"userId": cfg.Auth.DevUserID})
		return auth.StaticVerifier{UserID: cfg.Auth.DevUserID}, nil
	}

	ttl := time.Duration(cfg.Auth.CacheTTL) * time.Second
	local, err := auth.NewLRUTokenCache(cfg.Auth.CacheSize, ttl)
	if err != nil {
		return nil, fmt.Errorf("token cache init failed: %w", err)
	}
	tiers := []auth.TokenCache{local}
	if redisClient != nil {
		tiers = append(tiers, auth.NewRedisTokenCache(redisClient.GetClient(), ttl, log))
	}

	httpClient := apphttp.NewClient(config.GetDuration(cfg.Auth.Timeout), userAgent)
	return auth.NewHostedAuthClient(cfg.Auth, httpClient, auth.NewTieredTokenCache(tiers...), log), nil
}
