// cmd/idea-validator/bootstrap.go
package main

import (
	"context"
	"fmt"
	"time"

	"idea-validator/internal/common/config"
	"idea-validator/internal/common/database"
	apphttp "idea-validator/internal/common/http"
	"idea-validator/internal/common/logger"
	"idea-validator/internal/common/observability"
	"idea-validator/internal/pipeline"
	buildprompt "idea-validator/internal/workers/idea-validation/build-prompt"
	checkreport "idea-validator/internal/workers/idea-validation/check-report"
	normalizeresponse "idea-validator/internal/workers/idea-validation/normalize-response"
	validateidea "idea-validator/internal/workers/idea-validation/validate-idea"
	validationstore "idea-validator/internal/workers/records/validation-store"
	"idea-validator/migrations"
)

const userAgent = "idea-validator/1.0"

// retryWithBackoff runs operation up to maxRetries times, doubling the delay after each failure.
func retryWithBackoff(ctx context.Context, operation func() error, maxRetries int, initialDelay time.Duration, log logger.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName), map[string]interface{}{
				"error":       err.Error(),
				"attempt":     i + 1,
				"maxRetries":  maxRetries,
				"nextRetryIn": delay.String(),
			})
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

// connectPostgres opens the pool, waits for the server and applies migrations.
func connectPostgres(ctx context.Context, cfg config.PostgresConfig, log logger.Logger) (*database.PostgresClient, error) {
	var pg *database.PostgresClient
	err := retryWithBackoff(ctx, func() error {
		var err error
		pg, err = database.NewPostgres(cfg)
		if err != nil {
			return err
		}
		if err := pg.Ping(ctx); err != nil {
			_ = pg.Close()
			return err
		}
		return nil
	}, 10, 2*time.Second, log, "PostgreSQL connection")
	if err != nil {
		return nil, err
	}

	applied, err := pg.Migrate(ctx, migrations.FS)
	if err != nil {
		_ = pg.Close()
		return nil, err
	}
	log.Info("PostgreSQL connected", map[string]interface{}{
		"host":       cfg.Host,
		"migrations": applied,
	})
	return pg, nil
}

// openStore returns the Postgres store when a host is configured and the in-memory one otherwise.
func openStore(ctx context.Context, cfg *config.Config, log logger.Logger) (validationstore.Store, func(), error) {
	if !cfg.Database.Postgres.Enabled() {
		log.Warn("no postgres host configured, validations are kept in memory", nil)
		return validationstore.NewMemoryStore(log), func() {}, nil
	}

	pg, err := connectPostgres(ctx, cfg.Database.Postgres, log)
	if err != nil {
		return nil, nil, err
	}
	store := validationstore.NewPostgresStore(validationstore.LoadConfig(), pg.GetDB(), log)
	return store, func() { _ = pg.Close() }, nil
}

// newService wires the pipeline stages around a model client built from cfg.GenAI.
func newService(ctx context.Context, cfg *config.Config, httpClient *apphttp.Client, store validationstore.Store, obs *observability.Observability, log logger.Logger) (*pipeline.Service, error) {
	model, err := validateidea.NewGenAIClient(ctx, cfg.GenAI, httpClient.Standard())
	if err != nil {
		return nil, err
	}
	if model == nil {
		log.Warn("no model API key configured, serving mock reports", nil)
	}

	return pipeline.NewService(
		buildprompt.NewHandler(nil, log),
		validateidea.NewHandler(validateidea.NewConfig(cfg.GenAI), model, log),
		normalizeresponse.NewHandler(nil, log),
		checkreport.NewHandler(nil, log),
		store,
		obs,
		log,
	), nil
}
