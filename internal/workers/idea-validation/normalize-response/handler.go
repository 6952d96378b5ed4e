// internal/workers/idea-validation/normalize-response/handler.go
package normalizeresponse

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	apperrors "idea-validator/internal/common/errors"
	"idea-validator/internal/common/logger"
	"idea-validator/internal/models"
)

const TaskType = "normalize-response"

var (
	ErrNilInput          = errors.New("NORMALIZE_NIL_INPUT")
	ErrMalformedResponse = errors.New("MALFORMED_RESPONSE")
)

const (
	StrategyDirect  = "direct"
	StrategySlice   = "slice"
	StrategyPattern = "pattern"
)

var objectPattern = regexp.MustCompile(`(?s)\{.*\}`)

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

// Execute normalizes input.Raw and decodes it into a report. A reply that is valid JSON
// but does not fit the report type still fails with ErrMalformedResponse.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, ErrNilInput
	}

	normalized, strategy, err := normalize(input.Raw)
	if err != nil {
		h.logger.Warn("model reply is not JSON", map[string]interface{}{
			"rawBytes": len(input.Raw),
			"raw":      truncate(input.Raw, h.config.MaxRawLogBytes),
		})
		return nil, err
	}

	report, err := decodeReport(normalized, input.Raw)
	if err != nil {
		h.logger.Warn("model reply does not decode into a report", map[string]interface{}{
			"strategy": strategy,
			"error":    err.Error(),
		})
		return nil, err
	}

	if strategy != StrategyDirect {
		h.logger.Debug("recovered JSON from surrounding text", map[string]interface{}{
			"strategy": strategy,
		})
	}

	return &Output{
		Normalized: normalized,
		Report:     report,
		Strategy:   strategy,
	}, nil
}

// Normalize recovers a JSON object from model text and returns it compacted. Scalars,
// arrays and null are not accepted at any tier.
// Normalize(Normalize(x)) == Normalize(x) for any accepted x.
func Normalize(raw string) (json.RawMessage, error) {
	normalized, _, err := normalize(raw)
	return normalized, err
}

// Decode normalizes raw and unmarshals the result into a ValidationReport.
// No range or presence checks are made here.
func Decode(raw string) (*models.ValidationReport, error) {
	normalized, _, err := normalize(raw)
	if err != nil {
		return nil, err
	}
	return decodeReport(normalized, raw)
}

func normalize(raw string) (json.RawMessage, string, error) {
	cleaned := stripFences(raw)

	if out, ok := compact(cleaned); ok {
		return out, StrategyDirect, nil
	}

	if start, end := strings.Index(cleaned, "{"), strings.LastIndex(cleaned, "}"); start != -1 && end > start {
		if out, ok := compact(cleaned[start : end+1]); ok {
			return out, StrategySlice, nil
		}
	}

	if match := objectPattern.FindString(raw); match != "" {
		if out, ok := compact(match); ok {
			return out, StrategyPattern, nil
		}
	}

	return nil, "", malformed(raw, nil)
}

// stripFences removes a leading ```json or ``` marker and a trailing ``` marker.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```JSON")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func compact(s string) (json.RawMessage, bool) {
	if !strings.HasPrefix(strings.TrimSpace(s), "{") || !json.Valid([]byte(s)) {
		return nil, false
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, []byte(s)); err != nil {
		return nil, false
	}
	return json.RawMessage(buf.Bytes()), true
}

func decodeReport(normalized json.RawMessage, raw string) (*models.ValidationReport, error) {
	var report models.ValidationReport
	if err := json.Unmarshal(normalized, &report); err != nil {
		return nil, malformed(raw, err)
	}
	return &report, nil
}

// malformed wraps the sentinel together with a StandardError carrying the raw text.
func malformed(raw string, cause error) error {
	stdErr := apperrors.NewMalformedResponseError(raw)
	if cause != nil {
		stdErr.Details = cause.Error()
		return fmt.Errorf("%w: %w: %v", ErrMalformedResponse, stdErr, cause)
	}
	return fmt.Errorf("%w: %w", ErrMalformedResponse, stdErr)
}

func truncate(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
