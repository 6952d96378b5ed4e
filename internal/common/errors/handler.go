// internal/common/errors/handler.go
package errors

import (
	"github.com/gin-gonic/gin"
)

type Logger interface {
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Responder renders errors as JSON responses with a consistent envelope.
type Responder struct {
	logger Logger
}

func NewResponder(logger Logger) *Responder {
	return &Responder{logger: logger}
}

// ErrorBody is the JSON envelope for every error response.
type ErrorBody struct {
	Error *StandardError `json:"error"`
}

// Respond normalizes err, logs it and aborts the request with the mapped status.
func (r *Responder) Respond(c *gin.Context, err error) {
	stdErr := AsStandardError(err)
	status := GetHTTPStatus(stdErr.Code)

	r.logError(c, stdErr, status)

	c.AbortWithStatusJSON(status, ErrorBody{Error: r.public(stdErr)})
}

// public strips diagnostic metadata (raw model text) and internal details from 5xx bodies.
func (r *Responder) public(stdErr *StandardError) *StandardError {
	out := *stdErr
	out.Metadata = nil
	if GetHTTPStatus(stdErr.Code) >= 500 {
		out.Details = ""
	}
	return &out
}

func (r *Responder) logError(c *gin.Context, stdErr *StandardError, status int) {
	fields := map[string]interface{}{
		"method":        c.Request.Method,
		"path":          c.FullPath(),
		"status":        status,
		"errorCode":     string(stdErr.Code),
		"message":       stdErr.Message,
		"details":       stdErr.Details,
		"retryable":     stdErr.Retryable,
		"errorCategory": GetErrorCategory(stdErr.Code),
	}
	if raw, ok := stdErr.Metadata["raw"]; ok {
		fields["raw"] = raw
	}
	if status >= 500 {
		r.logger.Error("request failed", fields)
		return
	}
	r.logger.Warn("request rejected", fields)
}
