// internal/workers/idea-validation/validate-idea/handler.go
package validateidea

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"google.golang.org/genai"

	apperrors "idea-validator/internal/common/errors"
	"idea-validator/internal/common/logger"
	"idea-validator/internal/common/metrics"
)

const TaskType = "validate-idea"

var ErrNilInput = errors.New("VALIDATE_IDEA_NIL_INPUT")

var (
	jsonFenceOpen    = regexp.MustCompile("```json\\s*")
	trailingFence    = regexp.MustCompile("```\\s*$")
	leadingFenceLine = regexp.MustCompile("^```.*\n")
	closingFenceLine = regexp.MustCompile("\n```$")
)

type Handler struct {
	config *Config
	client ModelClient
	logger logger.Logger
}

func NewHandler(config *Config, client ModelClient, log logger.Logger) *Handler {
	if config == nil {
		config = LoadConfig()
	}
	return &Handler{
		config: config,
		client: client,
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

// Execute makes at most one model call. Model failures never surface as errors: they
// produce the mock report with the matching Outcome.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, ErrNilInput
	}

	done := metrics.ObserveStage(TaskType)
	output := h.generate(ctx, input.Prompt)

	metrics.GatewayOutcomes.WithLabelValues(string(output.Outcome)).Inc()
	switch output.Outcome {
	case OutcomeTransportFailure:
		done(string(apperrors.ErrCodeTransportFailure))
	case OutcomeShapeError:
		done(string(apperrors.ErrCodeShapeError))
	default:
		done("")
	}

	return output, nil
}

// Online reports whether calls reach the model.
func (h *Handler) Online() bool {
	return h.config.APIKey != "" && h.client != nil
}

func (h *Handler) generate(ctx context.Context, prompt string) (output *Output) {
	if !h.Online() {
		h.logger.Warn("model API key is not set, serving mock report", nil)
		return mockOutput(OutcomeOffline, 0, "model API key not configured")
	}

	defer func() {
		if r := recover(); r != nil {
			h.logger.Error("model call panicked", map[string]interface{}{
				"panic": fmt.Sprint(r),
			})
			output = mockOutput(OutcomeTransportFailure, 0, fmt.Sprintf("panic: %v", r))
		}
	}()

	resp, err := h.client.GenerateContent(ctx, h.config.Model,
		[]*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)},
		h.generationConfig(),
	)
	if err != nil {
		status, body := describeError(err)
		stdErr := apperrors.NewTransportFailureError(status, truncate(body, h.config.MaxLogBodyBytes))
		h.logger.Error("model endpoint call failed", map[string]interface{}{
			"status": status,
			"body":   truncate(body, h.config.MaxLogBodyBytes),
			"code":   stdErr.Code,
		})
		return mockOutput(OutcomeTransportFailure, status, stdErr.Details)
	}

	text, ok := candidateText(resp)
	if !ok {
		stdErr := apperrors.NewShapeError("no text in candidates[0].content.parts")
		h.logger.Error("invalid response structure from model", map[string]interface{}{
			"candidates": candidateCount(resp),
			"code":       stdErr.Code,
		})
		return mockOutput(OutcomeShapeError, http.StatusOK, stdErr.Details)
	}

	h.logger.Info("model reply received", map[string]interface{}{
		"model":     h.config.Model,
		"textBytes": len(text),
	})

	return &Output{
		Result:     StripFences(text),
		Outcome:    OutcomeSuccess,
		StatusCode: http.StatusOK,
	}
}

func (h *Handler) generationConfig() *genai.GenerateContentConfig {
	threshold := genai.HarmBlockThresholdBlockMediumAndAbove
	return &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(h.config.Temperature),
		TopK:            genai.Ptr(h.config.TopK),
		TopP:            genai.Ptr(h.config.TopP),
		MaxOutputTokens: h.config.MaxOutputTokens,
		SafetySettings: []*genai.SafetySetting{
			{Category: genai.HarmCategoryHarassment, Threshold: threshold},
			{Category: genai.HarmCategoryHateSpeech, Threshold: threshold},
			{Category: genai.HarmCategorySexuallyExplicit, Threshold: threshold},
			{Category: genai.HarmCategoryDangerousContent, Threshold: threshold},
		},
	}
}

// StripFences removes markdown code fence markers the model tends to add. It is a light
// pass; the normalizer does the real recovery.
func StripFences(text string) string {
	text = jsonFenceOpen.ReplaceAllString(text, "")
	text = trailingFence.ReplaceAllString(text, "")
	text = strings.TrimSpace(text)

	text = leadingFenceLine.ReplaceAllString(text, "")
	text = closingFenceLine.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

// candidateText returns the first part's text of the first candidate. Later parts are ignored.
func candidateText(resp *genai.GenerateContentResponse) (string, bool) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", false
	}
	candidate := resp.Candidates[0]
	if candidate == nil || candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", false
	}
	part := candidate.Content.Parts[0]
	if part == nil || part.Text == "" {
		return "", false
	}
	return part.Text, true
}

func candidateCount(resp *genai.GenerateContentResponse) int {
	if resp == nil {
		return 0
	}
	return len(resp.Candidates)
}

// describeError extracts the HTTP status and body text from a client error.
func describeError(err error) (int, string) {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code, apiErr.Message
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return apiErrPtr.Code, apiErrPtr.Message
	}
	return 0, err.Error()
}

func mockOutput(outcome Outcome, status int, detail string) *Output {
	return &Output{
		Result:     MockResult(),
		Outcome:    outcome,
		StatusCode: status,
		Detail:     detail,
	}
}

func truncate(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
