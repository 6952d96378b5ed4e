// internal/workers/idea-validation/check-report/handler.go
package checkreport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	apperrors "idea-validator/internal/common/errors"
	"idea-validator/internal/common/logger"
	"idea-validator/internal/common/validation"
	"idea-validator/internal/models"
)

const TaskType = "check-report"

var (
	ErrNilInput      = errors.New("CHECK_REPORT_NIL_INPUT")
	ErrInvalidReport = errors.New("INVALID_REPORT")
)

var reportSchema = validation.MustCompile(ReportSchema)

type Handler struct {
	config *Config
	logger logger.Logger
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	if config == nil {
		config = LoadConfig()
	}
	return &Handler{
		config: config,
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, ErrNilInput
	}

	result := h.Check(input.Normalized)
	if !result.Valid() {
		h.logger.Warn("report rejected", map[string]interface{}{
			"reason":     result.Reason,
			"violations": len(result.Violations),
		})
		return nil, fmt.Errorf("%w: %w", ErrInvalidReport, apperrors.NewInvalidReportError(result.Reason))
	}

	return &Output{Report: result.Report}, nil
}

// Check validates a normalized reply against ReportSchema and decodes it when it passes.
func (h *Handler) Check(normalized json.RawMessage) Result {
	return check(normalized, h.config.MaxReasons)
}

// Check uses the default config.
func Check(normalized json.RawMessage) Result {
	return check(normalized, LoadConfig().MaxReasons)
}

func check(normalized json.RawMessage, maxReasons int) Result {
	vr := reportSchema.Validate(normalized)
	if !vr.Valid {
		return Result{
			Reason:     joinReasons(vr.GetErrorMessages(), maxReasons),
			Violations: vr.Errors,
		}
	}

	var report models.ValidationReport
	if err := json.Unmarshal(normalized, &report); err != nil {
		return Result{Reason: err.Error()}
	}
	return Result{Report: &report}
}

func joinReasons(messages []string, max int) string {
	if max > 0 && len(messages) > max {
		extra := len(messages) - max
		messages = append(messages[:max:max], fmt.Sprintf("and %d more", extra))
	}
	return strings.Join(messages, "; ")
}
