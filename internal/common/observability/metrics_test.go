package observability

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"idea-validator/internal/common/config"
)

func TestNew_RecordsRequests(t *testing.T) {
	registry := promclient.NewRegistry()

	obs, err := New("idea-validator-test", config.TracingConfig{}, registry)
	require.NoError(t, err)
	defer obs.Shutdown(context.Background())

	obs.RecordRequest(context.Background(), "/api/validate-idea", 200, 15*time.Millisecond)

	families, err := registry.Gather()
	require.NoError(t, err)

	var names []string
	for _, f := range families {
		names = append(names, f.GetName())
	}
	joined := strings.Join(names, ",")
	assert.Contains(t, joined, "http_requests")
	assert.Contains(t, joined, "http_request_duration")
}

func TestNew_WithTracing(t *testing.T) {
	obs, err := New("idea-validator-test", config.TracingConfig{
		Enabled:        true,
		JaegerEndpoint: "http://127.0.0.1:14268/api/traces",
		SampleRatio:    1,
	}, promclient.NewRegistry())
	require.NoError(t, err)

	ctx, span := obs.StartSpan(context.Background(), "test-span")
	assert.True(t, span.SpanContext().IsValid())
	assert.NotNil(t, ctx)
	EndSpan(span, errors.New("boom"))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_ = obs.Shutdown(shutdownCtx)
}

func TestNilObservability(t *testing.T) {
	var obs *Observability

	ctx, span := obs.StartSpan(context.Background(), "noop")
	assert.NotNil(t, ctx)
	EndSpan(span, nil)

	obs.RecordRequest(context.Background(), "/", 200, time.Millisecond)
	assert.NoError(t, obs.Shutdown(context.Background()))
}
