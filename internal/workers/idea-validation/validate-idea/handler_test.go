package validateidea

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"idea-validator/internal/common/config"
	"idea-validator/internal/common/logger"
	"idea-validator/internal/models"
	checkreport "idea-validator/internal/workers/idea-validation/check-report"
)

// ==========================
// Test Helper Functions
// ==========================

type fakeModelClient struct {
	resp      *genai.GenerateContentResponse
	err       error
	panicWith interface{}

	calls       int
	gotModel    string
	gotContents []*genai.Content
	gotConfig   *genai.GenerateContentConfig
}

func (f *fakeModelClient) GenerateContent(ctx context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.calls++
	f.gotModel = model
	f.gotContents = contents
	f.gotConfig = cfg
	if f.panicWith != nil {
		panic(f.panicWith)
	}
	return f.resp, f.err
}

func createTestConfig() *Config {
	cfg := LoadConfig()
	cfg.APIKey = "test-key"
	return cfg
}

func textResponse(parts ...string) *genai.GenerateContentResponse {
	content := &genai.Content{Role: genai.RoleModel}
	for _, p := range parts {
		content.Parts = append(content.Parts, &genai.Part{Text: p})
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: content}},
	}
}

func decodeResult(t *testing.T, result string) models.ValidationReport {
	t.Helper()
	var report models.ValidationReport
	require.NoError(t, json.Unmarshal([]byte(result), &report))
	return report
}

// ==========================
// Outcome Tests
// ==========================

func TestHandler_Execute_Outcomes(t *testing.T) {
	tests := []struct {
		name            string
		config          *Config
		client          *fakeModelClient
		expectedOutcome Outcome
		expectedCalls   int
		validateOutput  func(t *testing.T, output *Output)
	}{
		{
			name:            "missing api key serves mock without calling the model",
			config:          LoadConfig(),
			client:          &fakeModelClient{resp: textResponse(`{"a":1}`)},
			expectedOutcome: OutcomeOffline,
			expectedCalls:   0,
			validateOutput: func(t *testing.T, output *Output) {
				report := decodeResult(t, output.Result)
				assert.Equal(t, 75, report.OverallScore)
			},
		},
		{
			name:            "transport error serves mock",
			config:          createTestConfig(),
			client:          &fakeModelClient{err: genai.APIError{Code: 503, Message: "overloaded", Status: "UNAVAILABLE"}},
			expectedOutcome: OutcomeTransportFailure,
			expectedCalls:   1,
			validateOutput: func(t *testing.T, output *Output) {
				assert.Equal(t, MockResult(), output.Result)
				assert.Equal(t, 503, output.StatusCode)
				assert.Contains(t, output.Detail, "overloaded")
			},
		},
		{
			name:            "network error serves mock",
			config:          createTestConfig(),
			client:          &fakeModelClient{err: errors.New("dial tcp: connection refused")},
			expectedOutcome: OutcomeTransportFailure,
			expectedCalls:   1,
			validateOutput: func(t *testing.T, output *Output) {
				assert.Equal(t, MockResult(), output.Result)
				assert.Equal(t, 0, output.StatusCode)
			},
		},
		{
			name:            "no candidates is a shape error",
			config:          createTestConfig(),
			client:          &fakeModelClient{resp: &genai.GenerateContentResponse{}},
			expectedOutcome: OutcomeShapeError,
			expectedCalls:   1,
			validateOutput: func(t *testing.T, output *Output) {
				assert.Equal(t, MockResult(), output.Result)
			},
		},
		{
			name:   "candidate without content is a shape error",
			config: createTestConfig(),
			client: &fakeModelClient{resp: &genai.GenerateContentResponse{
				Candidates: []*genai.Candidate{{FinishReason: genai.FinishReasonSafety}},
			}},
			expectedOutcome: OutcomeShapeError,
			expectedCalls:   1,
		},
		{
			name:            "empty text is a shape error",
			config:          createTestConfig(),
			client:          &fakeModelClient{resp: textResponse("")},
			expectedOutcome: OutcomeShapeError,
			expectedCalls:   1,
		},
		{
			name:            "nil response is a shape error",
			config:          createTestConfig(),
			client:          &fakeModelClient{},
			expectedOutcome: OutcomeShapeError,
			expectedCalls:   1,
		},
		{
			name:            "panic in the client is recovered",
			config:          createTestConfig(),
			client:          &fakeModelClient{panicWith: "boom"},
			expectedOutcome: OutcomeTransportFailure,
			expectedCalls:   1,
			validateOutput: func(t *testing.T, output *Output) {
				assert.Equal(t, MockResult(), output.Result)
				assert.Contains(t, output.Detail, "boom")
			},
		},
		{
			name:            "success returns fence-stripped text",
			config:          createTestConfig(),
			client:          &fakeModelClient{resp: textResponse("```json\n{\"overallScore\": 42}\n```")},
			expectedOutcome: OutcomeSuccess,
			expectedCalls:   1,
			validateOutput: func(t *testing.T, output *Output) {
				assert.Equal(t, `{"overallScore": 42}`, output.Result)
				assert.Equal(t, http.StatusOK, output.StatusCode)
			},
		},
		{
			name:            "only the first part is read",
			config:          createTestConfig(),
			client:          &fakeModelClient{resp: textResponse(`{"overallScore": 42}`, `trailing part`)},
			expectedOutcome: OutcomeSuccess,
			expectedCalls:   1,
			validateOutput: func(t *testing.T, output *Output) {
				assert.Equal(t, `{"overallScore": 42}`, output.Result)
			},
		},
		{
			name:            "empty first part is a shape error",
			config:          createTestConfig(),
			client:          &fakeModelClient{resp: textResponse("", `{"overallScore": 42}`)},
			expectedOutcome: OutcomeShapeError,
			expectedCalls:   1,
			validateOutput: func(t *testing.T, output *Output) {
				assert.JSONEq(t, MockResult(), output.Result)
			},
		},
		{
			name:            "unparseable success text is passed through",
			config:          createTestConfig(),
			client:          &fakeModelClient{resp: textResponse("I can't do that")},
			expectedOutcome: OutcomeSuccess,
			expectedCalls:   1,
			validateOutput: func(t *testing.T, output *Output) {
				assert.Equal(t, "I can't do that", output.Result)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewHandler(tt.config, tt.client, logger.NewTestLogger(t))

			output, err := handler.Execute(context.Background(), &Input{Prompt: "analyze this"})

			require.NoError(t, err)
			require.NotNil(t, output)
			assert.Equal(t, tt.expectedOutcome, output.Outcome)
			assert.Equal(t, tt.expectedOutcome.Mocked(), output.Result == MockResult())
			assert.Equal(t, tt.expectedCalls, tt.client.calls)
			if tt.validateOutput != nil {
				tt.validateOutput(t, output)
			}
		})
	}
}

func TestHandler_Execute_NilInput(t *testing.T) {
	handler := NewHandler(createTestConfig(), &fakeModelClient{}, logger.NewTestLogger(t))
	_, err := handler.Execute(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNilInput)
}

func TestHandler_Execute_NilClientIsOffline(t *testing.T) {
	handler := NewHandler(createTestConfig(), nil, logger.NewTestLogger(t))
	assert.False(t, handler.Online())

	output, err := handler.Execute(context.Background(), &Input{Prompt: "p"})
	require.NoError(t, err)
	assert.Equal(t, OutcomeOffline, output.Outcome)
}

func TestHandler_Execute_RequestParameters(t *testing.T) {
	client := &fakeModelClient{resp: textResponse(`{}`)}
	handler := NewHandler(createTestConfig(), client, logger.NewTestLogger(t))

	_, err := handler.Execute(context.Background(), &Input{Prompt: "the prompt"})
	require.NoError(t, err)

	assert.Equal(t, DefaultModel, client.gotModel)
	require.Len(t, client.gotContents, 1)
	require.Len(t, client.gotContents[0].Parts, 1)
	assert.Equal(t, "the prompt", client.gotContents[0].Parts[0].Text)

	cfg := client.gotConfig
	require.NotNil(t, cfg)
	assert.Equal(t, float32(0.7), *cfg.Temperature)
	assert.Equal(t, float32(40), *cfg.TopK)
	assert.Equal(t, float32(0.95), *cfg.TopP)
	assert.Equal(t, int32(8192), cfg.MaxOutputTokens)

	var categories []genai.HarmCategory
	for _, s := range cfg.SafetySettings {
		assert.Equal(t, genai.HarmBlockThresholdBlockMediumAndAbove, s.Threshold)
		categories = append(categories, s.Category)
	}
	assert.ElementsMatch(t, []genai.HarmCategory{
		genai.HarmCategoryHarassment,
		genai.HarmCategoryHateSpeech,
		genai.HarmCategorySexuallyExplicit,
		genai.HarmCategoryDangerousContent,
	}, categories)
}

// ==========================
// Mock Report Tests
// ==========================

func TestMockReport(t *testing.T) {
	report := decodeResult(t, MockResult())

	if diff := cmp.Diff(MockReport, report); diff != "" {
		t.Errorf("mock round trip mismatch (-want +got):\n%s", diff)
	}

	assert.Equal(t, 75, report.OverallScore)
	assert.Equal(t, map[string]int{
		"marketSize":  80,
		"competition": 65,
		"feasibility": 70,
		"marketFit":   85,
		"financials":  72,
		"risks":       60,
	}, report.SectionScores())
	assert.Len(t, report.Recommendations, 5)
	assert.Len(t, report.NextSteps, 5)

	result := checkreport.Check(json.RawMessage(MockResult()))
	assert.True(t, result.Valid(), result.Reason)
}

// ==========================
// Fence Stripping Tests
// ==========================

func TestStripFences(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "json fence", input: "```json\n{\"a\":1}\n```", expected: `{"a":1}`},
		{name: "bare fence", input: "```\n{\"a\":1}\n```", expected: `{"a":1}`},
		{name: "no fence", input: "  {\"a\":1}  ", expected: `{"a":1}`},
		{name: "prose is kept", input: "Here:\n```json\n{\"a\":1}\n```", expected: "Here:\n{\"a\":1}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, StripFences(tt.input))
		})
	}
}

// ==========================
// GenAI Client Tests
// ==========================

func TestNewGenAIClient_NoKey(t *testing.T) {
	client, err := NewGenAIClient(context.Background(), config.GenAIConfig{}, nil)
	require.NoError(t, err)
	assert.Nil(t, client)
}

func TestGenAIClient_AgainstTestServer(t *testing.T) {
	tests := []struct {
		name            string
		status          int
		body            string
		expectedOutcome Outcome
		validateOutput  func(t *testing.T, output *Output)
	}{
		{
			name:            "server error falls back to mock",
			status:          http.StatusInternalServerError,
			body:            `{"error":{"code":500,"message":"internal","status":"INTERNAL"}}`,
			expectedOutcome: OutcomeTransportFailure,
			validateOutput: func(t *testing.T, output *Output) {
				assert.Equal(t, MockResult(), output.Result)
				assert.Equal(t, http.StatusInternalServerError, output.StatusCode)
			},
		},
		{
			name:            "successful reply",
			status:          http.StatusOK,
			body:            `{"candidates":[{"content":{"role":"model","parts":[{"text":"` + "```json\\n{\\\"overallScore\\\": 90}\\n```" + `"}]}}]}`,
			expectedOutcome: OutcomeSuccess,
			validateOutput: func(t *testing.T, output *Output) {
				assert.Equal(t, `{"overallScore": 90}`, output.Result)
			},
		},
		{
			name:            "reply without candidates",
			status:          http.StatusOK,
			body:            `{"candidates":[]}`,
			expectedOutcome: OutcomeShapeError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotPath, gotKey, gotBody string
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotPath = r.URL.Path
				gotKey = r.Header.Get("x-goog-api-key")
				b, _ := io.ReadAll(r.Body)
				gotBody = string(b)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client, err := NewGenAIClient(context.Background(), config.GenAIConfig{
				APIKey:     "test-key",
				BaseURL:    server.URL + "/",
				APIVersion: "v1beta",
			}, server.Client())
			require.NoError(t, err)
			require.NotNil(t, client)

			handler := NewHandler(createTestConfig(), client, logger.NewTestLogger(t))
			output, err := handler.Execute(context.Background(), &Input{Prompt: "validate kirana app"})

			require.NoError(t, err)
			assert.Equal(t, tt.expectedOutcome, output.Outcome)
			assert.True(t, strings.HasSuffix(gotPath, "models/gemini-1.5-flash:generateContent"), gotPath)
			assert.Equal(t, "test-key", gotKey)
			assert.Contains(t, gotBody, "validate kirana app")
			assert.Contains(t, gotBody, "BLOCK_MEDIUM_AND_ABOVE")
			assert.Contains(t, gotBody, "HARM_CATEGORY_DANGEROUS_CONTENT")
			if tt.validateOutput != nil {
				tt.validateOutput(t, output)
			}
		})
	}
}
