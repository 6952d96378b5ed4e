// Package server exposes the validation pipeline over HTTP.
package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"idea-validator/internal/common/auth"
	"idea-validator/internal/common/config"
	apperrors "idea-validator/internal/common/errors"
	"idea-validator/internal/common/logger"
	"idea-validator/internal/common/observability"
	"idea-validator/internal/pipeline"
)

type Server struct {
	config    config.ServerConfig
	engine    *gin.Engine
	service   *pipeline.Service
	verifier  auth.TokenVerifier
	responder *apperrors.Responder
	obs       *observability.Observability
	logger    logger.Logger
}

func New(cfg config.ServerConfig, service *pipeline.Service, verifier auth.TokenVerifier, obs *observability.Observability, log logger.Logger) *Server {
	log = log.WithFields(map[string]interface{}{"component": "http"})
	s := &Server{
		config:    cfg,
		engine:    gin.New(),
		service:   service,
		verifier:  verifier,
		responder: apperrors.NewResponder(log),
		obs:       obs,
		logger:    log,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	r := s.engine
	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(CORS(s.config.AllowedOrigins))

	r.GET("/health", s.health)
	r.GET("/ready", s.ready)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	api.Use(RequestLogger(s.logger, s.obs))

	api.POST("/validate-idea", s.validateIdea)

	authed := api.Group("")
	authed.Use(AuthRequired(s.verifier, s.responder))
	authed.POST("/validations", s.createValidation)
	authed.GET("/validations", s.listValidations)
	authed.GET("/validations/count", s.countValidations)
	authed.GET("/validations/:id", s.getValidation)
	authed.DELETE("/validations/:id", s.deleteValidation)
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// HTTPServer builds an *http.Server with the configured timeouts.
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:         s.config.Addr(),
		Handler:      s.engine,
		ReadTimeout:  config.GetDuration(s.config.ReadTimeout),
		WriteTimeout: config.GetDuration(s.config.WriteTimeout),
	}
}
