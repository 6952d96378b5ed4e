// Package pipeline runs one idea through prompt, model, normalization and report checks,
// and saves the result for its owner.
package pipeline

import (
	"context"
	"errors"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	apperrors "idea-validator/internal/common/errors"
	"idea-validator/internal/common/logger"
	"idea-validator/internal/common/metrics"
	"idea-validator/internal/common/observability"
	"idea-validator/internal/models"
	buildprompt "idea-validator/internal/workers/idea-validation/build-prompt"
	checkreport "idea-validator/internal/workers/idea-validation/check-report"
	normalizeresponse "idea-validator/internal/workers/idea-validation/normalize-response"
	validateidea "idea-validator/internal/workers/idea-validation/validate-idea"
	validationstore "idea-validator/internal/workers/records/validation-store"
)

// Result is a checked report and the gateway path that produced it.
type Result struct {
	Report  *models.ValidationReport `json:"report"`
	Outcome validateidea.Outcome     `json:"outcome"`
}

// SaveResult never carries an error: a failed save is reported as a notice.
type SaveResult struct {
	RecordID string `json:"recordId,omitempty"`
	Saved    bool   `json:"saved"`
	Notice   string `json:"notice"`
}

type Service struct {
	prompts    *buildprompt.Handler
	gateway    *validateidea.Handler
	normalizer *normalizeresponse.Handler
	checker    *checkreport.Handler
	store      validationstore.Store
	obs        *observability.Observability
	logger     logger.Logger
}

func NewService(
	prompts *buildprompt.Handler,
	gateway *validateidea.Handler,
	normalizer *normalizeresponse.Handler,
	checker *checkreport.Handler,
	store validationstore.Store,
	obs *observability.Observability,
	log logger.Logger,
) *Service {
	return &Service{
		prompts:    prompts,
		gateway:    gateway,
		normalizer: normalizer,
		checker:    checker,
		store:      store,
		obs:        obs,
		logger:     log.WithFields(map[string]interface{}{"component": "pipeline"}),
	}
}

// Generate is the raw gateway call used by the prompt endpoint. It only fails on a nil input.
func (s *Service) Generate(ctx context.Context, prompt string) (*validateidea.Output, error) {
	ctx, span := s.obs.StartSpan(ctx, validateidea.TaskType)
	output, err := s.gateway.Execute(ctx, &validateidea.Input{Prompt: prompt})
	if output != nil {
		span.SetAttributes(attribute.String("outcome", string(output.Outcome)))
	}
	observability.EndSpan(span, err)
	return output, err
}

// Validate runs the form through every stage. Unparseable or out-of-schema model text is
// returned as an error carrying the user notice; an unreachable model is not an error.
func (s *Service) Validate(ctx context.Context, form models.IdeaForm) (*Result, error) {
	if missing := form.MissingRequired(); len(missing) > 0 {
		return nil, apperrors.NewInvalidFormError("missing: " + strings.Join(missing, ", "))
	}

	ctx, span := s.obs.StartSpan(ctx, "validate", attribute.String("title", form.Title))
	result, err := s.validate(ctx, form)
	observability.EndSpan(span, err)
	return result, err
}

func (s *Service) validate(ctx context.Context, form models.IdeaForm) (*Result, error) {
	prompt, err := s.prompts.Execute(ctx, &buildprompt.Input{Form: form})
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	generated, err := s.Generate(ctx, prompt.Prompt)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	done := metrics.ObserveStage(normalizeresponse.TaskType)
	normalized, err := s.normalizer.Execute(ctx, &normalizeresponse.Input{Raw: generated.Result})
	if err != nil {
		done(string(apperrors.ErrCodeMalformedResponse))
		s.logger.Error("failed to parse validation result", map[string]interface{}{
			"outcome": generated.Outcome,
			"error":   err.Error(),
		})
		return nil, err
	}
	done("")

	done = metrics.ObserveStage(checkreport.TaskType)
	checked, err := s.checker.Execute(ctx, &checkreport.Input{Normalized: normalized.Normalized})
	if err != nil {
		done(string(apperrors.ErrCodeInvalidReport))
		s.logger.Error("validation result failed report checks", map[string]interface{}{
			"outcome": generated.Outcome,
			"error":   err.Error(),
		})
		return nil, err
	}
	done("")

	s.logger.Info("idea validated", map[string]interface{}{
		"title":        form.Title,
		"outcome":      generated.Outcome,
		"overallScore": checked.Report.OverallScore,
	})

	return &Result{Report: checked.Report, Outcome: generated.Outcome}, nil
}

// Save stores the report for userID. The report is never discarded on failure.
func (s *Service) Save(ctx context.Context, userID string, form models.IdeaForm, report *models.ValidationReport) *SaveResult {
	ctx, span := s.obs.StartSpan(ctx, validationstore.TaskType+".create")
	id, err := s.store.Create(ctx, userID, form, *report, report.OverallScore)
	observability.EndSpan(span, err)

	if err != nil {
		s.logger.Error("error saving validation", map[string]interface{}{
			"userId": userID,
			"error":  err.Error(),
		})
		return &SaveResult{Saved: false, Notice: apperrors.UserNoticeSaveFailed}
	}
	return &SaveResult{RecordID: id, Saved: true, Notice: apperrors.UserNoticeValidated}
}

// ValidateAndSave validates the form and, on success, saves the report for userID.
func (s *Service) ValidateAndSave(ctx context.Context, userID string, form models.IdeaForm) (*Result, *SaveResult, error) {
	result, err := s.Validate(ctx, form)
	if err != nil {
		return nil, nil, err
	}
	return result, s.Save(ctx, userID, form, result.Report), nil
}

func (s *Service) List(ctx context.Context, userID string) ([]models.ValidationRecord, error) {
	return s.store.List(ctx, userID)
}

func (s *Service) Get(ctx context.Context, userID, recordID string) (*models.ValidationRecord, error) {
	return s.store.Get(ctx, userID, recordID)
}

func (s *Service) Count(ctx context.Context, userID string) (int, error) {
	return s.store.Count(ctx, userID)
}

func (s *Service) Delete(ctx context.Context, userID, recordID string) error {
	return s.store.Delete(ctx, userID, recordID)
}

// Ready checks the record store.
func (s *Service) Ready(ctx context.Context) error {
	if s.store == nil {
		return errors.New("record store not configured")
	}
	return s.store.Ping(ctx)
}

// Online reports whether the gateway reaches the model.
func (s *Service) Online() bool {
	return s.gateway.Online()
}
