// internal/common/auth/hosted.go
package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"idea-validator/internal/common/config"
	apperrors "idea-validator/internal/common/errors"
	apphttp "idea-validator/internal/common/http"
	"idea-validator/internal/common/logger"
)

// User is the identity behind a verified bearer token.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
}

// TokenVerifier resolves a bearer token to a user.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (*User, error)
}

// HostedAuthClient verifies tokens against a hosted auth service exposing GET /auth/v1/user.
type HostedAuthClient struct {
	baseURL    string
	anonKey    string
	httpClient *apphttp.Client
	cache      TokenCache
	logger     logger.Logger
}

func NewHostedAuthClient(cfg config.AuthConfig, httpClient *apphttp.Client, cache TokenCache, log logger.Logger) *HostedAuthClient {
	return &HostedAuthClient{
		baseURL:    strings.TrimSuffix(cfg.URL, "/"),
		anonKey:    cfg.AnonKey,
		httpClient: httpClient,
		cache:      cache,
		logger:     log.WithFields(map[string]interface{}{"component": "auth"}),
	}
}

// VerifyToken returns the token's user. Rejected tokens yield UNAUTHORIZED; an unreachable
// or failing auth service yields AUTH_SERVICE_UNAVAILABLE.
func (h *HostedAuthClient) VerifyToken(ctx context.Context, token string) (*User, error) {
	if strings.TrimSpace(token) == "" {
		return nil, apperrors.NewUnauthorizedError("empty bearer token")
	}

	key := TokenKey(token)
	if h.cache != nil {
		if user, ok := h.cache.Get(ctx, key); ok {
			return user, nil
		}
	}

	var user User
	err := h.httpClient.GetJSON(ctx, h.baseURL+"/auth/v1/user", map[string]string{
		"Authorization": "Bearer " + token,
		"apikey":        h.anonKey,
	}, &user)
	if err != nil {
		return nil, h.classify(err)
	}
	if user.ID == "" {
		return nil, apperrors.NewUnauthorizedError("auth service returned no user id")
	}

	if h.cache != nil {
		h.cache.Set(ctx, key, &user)
	}
	return &user, nil
}

func (h *HostedAuthClient) classify(err error) error {
	var statusErr *apphttp.StatusError
	if errors.As(err, &statusErr) && !isTransientHTTPError(statusErr.StatusCode) {
		return apperrors.NewUnauthorizedError(fmt.Sprintf("token rejected with status %d", statusErr.StatusCode))
	}

	h.logger.Error("auth service call failed", map[string]interface{}{
		"error": err.Error(),
	})
	return apperrors.NewAuthServiceUnavailableError(err)
}

// isTransientHTTPError checks if an HTTP status code indicates a transient error.
func isTransientHTTPError(statusCode int) bool {
	return statusCode >= 500 || statusCode == http.StatusTooManyRequests || statusCode == http.StatusRequestTimeout
}

// TokenKey is the cache key for a token. Raw tokens are never stored.
func TokenKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return "auth:token:" + hex.EncodeToString(sum[:])
}

// StaticVerifier accepts any non-empty token as a fixed user. Used when auth is disabled.
type StaticVerifier struct {
	UserID string
}

func (s StaticVerifier) VerifyToken(ctx context.Context, token string) (*User, error) {
	if strings.TrimSpace(token) == "" {
		return nil, apperrors.NewUnauthorizedError("empty bearer token")
	}
	return &User{ID: s.UserID}, nil
}
