// internal/server/handlers.go
package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "idea-validator/internal/common/errors"
	"idea-validator/internal/models"
	validateidea "idea-validator/internal/workers/idea-validation/validate-idea"
)

type validateIdeaRequest struct {
	Prompt string `json:"prompt"`
}

type validateIdeaResponse struct {
	Result string `json:"result"`
}

type createValidationResponse struct {
	Report   *models.ValidationReport `json:"report"`
	Outcome  validateidea.Outcome     `json:"outcome"`
	RecordID string                   `json:"recordId,omitempty"`
	Saved    bool                     `json:"saved"`
	Notice   string                   `json:"notice"`
}

type listValidationsResponse struct {
	Records []models.ValidationRecord `json:"records"`
}

type countValidationsResponse struct {
	Count int `json:"count"`
}

// validateIdea forwards a prompt to the model gateway. It always answers 200: an unreadable
// body, a blank prompt and every model failure get the mock report.
func (s *Server) validateIdea(c *gin.Context) {
	var req validateIdeaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.logger.Warn("unreadable validate-idea body, serving mock report", map[string]interface{}{
			"error": err.Error(),
		})
		c.JSON(http.StatusOK, validateIdeaResponse{Result: validateidea.MockResult()})
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		s.logger.Warn("blank prompt, serving mock report", nil)
		c.JSON(http.StatusOK, validateIdeaResponse{Result: validateidea.MockResult()})
		return
	}

	output, err := s.service.Generate(c.Request.Context(), req.Prompt)
	if err != nil {
		s.logger.Error("gateway failed, serving mock report", map[string]interface{}{
			"error": err.Error(),
		})
		c.JSON(http.StatusOK, validateIdeaResponse{Result: validateidea.MockResult()})
		return
	}

	c.JSON(http.StatusOK, validateIdeaResponse{Result: output.Result})
}

func (s *Server) createValidation(c *gin.Context) {
	user, ok := GetUserLogged(c)
	if !ok {
		s.responder.Respond(c, apperrors.NewUnauthorizedError("no user in context"))
		return
	}

	var form models.IdeaForm
	if err := c.ShouldBindJSON(&form); err != nil {
		s.responder.Respond(c, apperrors.NewInvalidRequestError(err.Error()))
		return
	}

	result, saved, err := s.service.ValidateAndSave(c.Request.Context(), user.ID, form)
	if err != nil {
		s.responder.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, createValidationResponse{
		Report:   result.Report,
		Outcome:  result.Outcome,
		RecordID: saved.RecordID,
		Saved:    saved.Saved,
		Notice:   saved.Notice,
	})
}

func (s *Server) listValidations(c *gin.Context) {
	user, ok := GetUserLogged(c)
	if !ok {
		s.responder.Respond(c, apperrors.NewUnauthorizedError("no user in context"))
		return
	}

	records, err := s.service.List(c.Request.Context(), user.ID)
	if err != nil {
		s.responder.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, listValidationsResponse{Records: records})
}

func (s *Server) countValidations(c *gin.Context) {
	user, ok := GetUserLogged(c)
	if !ok {
		s.responder.Respond(c, apperrors.NewUnauthorizedError("no user in context"))
		return
	}

	count, err := s.service.Count(c.Request.Context(), user.ID)
	if err != nil {
		s.responder.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, countValidationsResponse{Count: count})
}

func (s *Server) getValidation(c *gin.Context) {
	user, ok := GetUserLogged(c)
	if !ok {
		s.responder.Respond(c, apperrors.NewUnauthorizedError("no user in context"))
		return
	}

	record, err := s.service.Get(c.Request.Context(), user.ID, c.Param("id"))
	if err != nil {
		s.responder.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

func (s *Server) deleteValidation(c *gin.Context) {
	user, ok := GetUserLogged(c)
	if !ok {
		s.responder.Respond(c, apperrors.NewUnauthorizedError("no user in context"))
		return
	}

	if err := s.service.Delete(c.Request.Context(), user.ID, c.Param("id")); err != nil {
		s.responder.Respond(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().UTC(),
	})
}

func (s *Server) ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := s.service.Ready(ctx); err != nil {
		s.logger.Warn("readiness check failed", map[string]interface{}{"error": err.Error()})
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not ready",
			"time":   time.Now().UTC(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"online": s.service.Online(),
		"time":   time.Now().UTC(),
	})
}
