// internal/server/middleware.go
package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"idea-validator/internal/common/auth"
	apperrors "idea-validator/internal/common/errors"
	"idea-validator/internal/common/logger"
	"idea-validator/internal/common/observability"
)

const (
	ctxUserKey      = "auth_user"
	ctxRequestIDKey = "request_id"
	requestIDHeader = "X-Request-ID"
)

// RequestID propagates X-Request-ID or assigns a new one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}
		c.Set(ctxRequestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

// RequestLogger logs method, path, status and latency, and records request metrics.
func RequestLogger(log logger.Logger, obs *observability.Observability) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		duration := time.Since(start)

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		obs.RecordRequest(c.Request.Context(), route, c.Writer.Status(), duration)

		log.Info("request", map[string]interface{}{
			"method":    c.Request.Method,
			"path":      c.Request.URL.Path,
			"status":    c.Writer.Status(),
			"latencyMs": duration.Milliseconds(),
			"requestId": c.GetString(ctxRequestIDKey),
		})
	}
}

// CORS allows the configured origins, or any origin when the list is empty or holds "*".
func CORS(allowedOrigins []string) gin.HandlerFunc {
	allowAll := len(allowedOrigins) == 0
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		if o == "*" {
			allowAll = true
		}
		allowed[o] = true
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		header := c.Writer.Header()
		switch {
		case allowAll:
			header.Set("Access-Control-Allow-Origin", "*")
		case origin != "" && allowed[origin]:
			header.Set("Access-Control-Allow-Origin", origin)
			header.Add("Vary", "Origin")
		}
		header.Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")
		header.Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// AuthRequired verifies the bearer token and stores the user in the context.
func AuthRequired(verifier auth.TokenVerifier, responder *apperrors.Responder) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if !strings.HasPrefix(strings.ToLower(h), "bearer ") {
			responder.Respond(c, apperrors.NewUnauthorizedError("missing bearer token"))
			return
		}
		token := strings.TrimSpace(h[len("Bearer "):])

		user, err := verifier.VerifyToken(c.Request.Context(), token)
		if err != nil {
			responder.Respond(c, err)
			return
		}

		c.Set(ctxUserKey, user)
		c.Next()
	}
}

// GetUserLogged returns the user loaded by AuthRequired.
func GetUserLogged(c *gin.Context) (*auth.User, bool) {
	v, ok := c.Get(ctxUserKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*auth.User)
	return user, ok
}
