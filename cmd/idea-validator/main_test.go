package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"idea-validator/internal/common/auth"
	"idea-validator/internal/common/config"
	"idea-validator/internal/common/logger"
	"idea-validator/internal/pipeline"
	validateidea "idea-validator/internal/workers/idea-validation/validate-idea"
)

// ==========================
// retryWithBackoff
// ==========================

func TestRetryWithBackoff(t *testing.T) {
	log := logger.NewTestLogger(t)

	t.Run("succeeds after transient failures", func(t *testing.T) {
		calls := 0
		err := retryWithBackoff(context.Background(), func() error {
			calls++
			if calls < 3 {
				return errors.New("not yet")
			}
			return nil
		}, 5, time.Millisecond, log, "op")
		require.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("gives up after max retries", func(t *testing.T) {
		calls := 0
		cause := errors.New("still down")
		err := retryWithBackoff(context.Background(), func() error {
			calls++
			return cause
		}, 3, time.Millisecond, log, "op")
		assert.ErrorIs(t, err, cause)
		assert.Contains(t, err.Error(), "op failed after 3 attempts")
		assert.Equal(t, 3, calls)
	})

	t.Run("stops when the context is cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		calls := 0
		err := retryWithBackoff(ctx, func() error {
			calls++
			return errors.New("down")
		}, 5, time.Hour, log, "op")
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, calls)
	})
}

// ==========================
// newVerifier
// ==========================

func TestNewVerifier(t *testing.T) {
	log := logger.NewTestLogger(t)

	t.Run("disabled auth uses the dev user", func(t *testing.T) {
		cfg := &config.Config{Auth: config.AuthConfig{Disabled: true, DevUserID: "dev"}}
		verifier, err := newVerifier(cfg, nil, log)
		require.NoError(t, err)

		user, err := verifier.VerifyToken(context.Background(), "any")
		require.NoError(t, err)
		assert.Equal(t, "dev", user.ID)
	})

	t.Run("hosted auth without redis", func(t *testing.T) {
		cfg := &config.Config{Auth: config.AuthConfig{URL: "http://auth.local", CacheSize: 16, CacheTTL: 60, Timeout: 1000}}
		verifier, err := newVerifier(cfg, nil, log)
		require.NoError(t, err)
		assert.IsType(t, &auth.HostedAuthClient{}, verifier)
	})

	t.Run("invalid cache size", func(t *testing.T) {
		cfg := &config.Config{Auth: config.AuthConfig{URL: "http://auth.local", CacheSize: -1}}
		_, err := newVerifier(cfg, nil, log)
		assert.Error(t, err)
	})
}

// ==========================
// validate command
// ==========================

func TestPrintReport(t *testing.T) {
	report := validateidea.MockReport
	var buf bytes.Buffer
	printReport(&buf, &pipeline.Result{Report: &report, Outcome: validateidea.OutcomeOffline})

	out := buf.String()
	assert.Contains(t, out, "model unavailable (offline)")
	assert.Contains(t, out, "Overall score: 75/100")
	assert.Contains(t, out, "marketSize")
	assert.Contains(t, out, "Recommendations:")
	assert.Contains(t, out, "1. "+report.Recommendations[0])
}

func TestValidateCommand_Offline(t *testing.T) {
	t.Setenv("GENAI_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "")

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
app:
  name: idea-validator-test
logging:
  level: error
  format: console
  output: stderr
`), 0o600))

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{
		"--config", path,
		"validate",
		"--title", "Kirana Connect",
		"--description", "B2B ordering for grocery stores",
		"--json",
	})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	require.NoError(t, rootCmd.Execute())

	var result pipeline.Result
	require.NoError(t, json.Unmarshal(out.Bytes(), &result))
	assert.Equal(t, validateidea.OutcomeOffline, result.Outcome)
	require.NotNil(t, result.Report)
	assert.Equal(t, validateidea.MockReport.OverallScore, result.Report.OverallScore)
}
