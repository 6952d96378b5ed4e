// internal/workers/idea-validation/build-prompt/handler.go
package buildprompt

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"idea-validator/internal/common/logger"
	"idea-validator/internal/models"
)

const TaskType = "build-prompt"

var ErrNilInput = errors.New("BUILD_PROMPT_NIL_INPUT")

const notSpecified = "Not specified"

// ReportSchemaExample is the literal reply shape the model is asked for. Key names are a
// fixed contract with the normalizer and the report checker.
const ReportSchemaExample = `{
  "overallScore": 75,
  "marketSize": {
    "score": 80,
    "analysis": "detailed analysis of market size in %[1]s",
    "tam": "Total Addressable Market in %[1]s",
    "sam": "Serviceable Addressable Market",
    "som": "Serviceable Obtainable Market"
  },
  "competition": {
    "score": 65,
    "analysis": "competitive landscape analysis in %[1]s",
    "competitors": ["competitor1", "competitor2", "competitor3"],
    "competitiveAdvantage": "potential competitive advantages"
  },
  "feasibility": {
    "score": 70,
    "analysis": "technical and operational feasibility in %[1]s",
    "technicalChallenges": ["challenge1", "challenge2", "challenge3"],
    "resourceRequirements": "required resources and team"
  },
  "marketFit": {
    "score": 85,
    "analysis": "product-market fit analysis for %[1]s",
    "targetAudience": "detailed target audience description",
    "culturalFit": "how well it fits %[2]s culture and preferences"
  },
  "financials": {
    "score": 72,
    "analysis": "financial viability analysis",
    "revenueModel": "recommended revenue model for %[1]s",
    "pricingStrategy": "pricing strategy considering %[2]s market",
    "fundingRequirement": "estimated funding requirements"
  },
  "risks": {
    "score": 60,
    "analysis": "risk assessment for %[2]s market",
    "majorRisks": ["risk1", "risk2", "risk3"],
    "mitigationStrategies": ["strategy1", "strategy2", "strategy3"]
  },
  "recommendations": ["recommendation1", "recommendation2", "recommendation3"],
  "nextSteps": ["step1", "step2", "step3"]
}`

// marketRegions maps a market adjective to the region name used inside the schema text.
var marketRegions = map[string]string{
	"Indian": "India",
}

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

// Execute renders the prompt for input.Form. Required-field checks belong to the caller.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, ErrNilInput
	}

	prompt := h.Build(&input.Form)

	h.logger.Debug("prompt built", map[string]interface{}{
		"title":       input.Form.Title,
		"promptBytes": len(prompt),
	})

	return &Output{Prompt: prompt}, nil
}

// Build is a pure function of the form and the handler config.
func (h *Handler) Build(form *models.IdeaForm) string {
	market := h.config.Market
	region := marketRegions[market]
	if region == "" {
		region = market
	}

	var parts []string

	parts = append(parts, fmt.Sprintf(
		"As an expert startup advisor specializing in the %s market, provide a comprehensive validation analysis for this startup idea:",
		market))

	parts = append(parts, "")
	parts = append(parts, fmt.Sprintf("Idea Title: %s", form.Title))
	parts = append(parts, fmt.Sprintf("Description: %s", form.Description))
	parts = append(parts, fmt.Sprintf("Target Market: %s", orNotSpecified(form.TargetMarket)))
	parts = append(parts, fmt.Sprintf("Business Model: %s", orNotSpecified(form.BusinessModel)))
	parts = append(parts, fmt.Sprintf("Stage: %s", orNotSpecified(form.Stage)))
	parts = append(parts, fmt.Sprintf("Budget: %s", orNotSpecified(form.Budget)))
	parts = append(parts, fmt.Sprintf("Timeline: %s", orNotSpecified(form.Timeline)))
	parts = append(parts, fmt.Sprintf("Founder Experience: %s", orNotSpecified(form.Experience)))

	parts = append(parts, "")
	parts = append(parts, fmt.Sprintf(
		"Please analyze this idea specifically for the %s market and provide ONLY a valid JSON response with the following exact structure (no markdown, no explanations, just the JSON):",
		market))
	parts = append(parts, "")
	parts = append(parts, fmt.Sprintf(ReportSchemaExample, region, market))

	if len(h.config.Factors) > 0 {
		parts = append(parts, "")
		parts = append(parts, fmt.Sprintf("Consider %s-specific factors like %s.", market, joinFactors(h.config.Factors)))
	}

	parts = append(parts, "")
	parts = append(parts, "IMPORTANT: Return ONLY the JSON object, no markdown formatting, no explanations.")

	return strings.Join(parts, "\n")
}

func orNotSpecified(v string) string {
	if strings.TrimSpace(v) == "" {
		return notSpecified
	}
	return v
}

func joinFactors(factors []string) string {
	switch len(factors) {
	case 1:
		return factors[0]
	case 2:
		return factors[0] + " and " + factors[1]
	default:
		return strings.Join(factors[:len(factors)-1], ", ") + ", and " + factors[len(factors)-1]
	}
}
