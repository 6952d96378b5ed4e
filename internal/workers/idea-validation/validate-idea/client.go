// internal/workers/idea-validation/validate-idea/client.go
package validateidea

import (
	"context"
	"fmt"
	"net/http"

	"google.golang.org/genai"

	"idea-validator/internal/common/config"
)

// ModelClient is the one call the gateway makes. *genai.Models satisfies it.
type ModelClient interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// NewGenAIClient builds a Gemini API client. It returns a nil client and no error when
// no API key is configured, which puts the gateway in offline mode.
func NewGenAIClient(ctx context.Context, cfg config.GenAIConfig, httpClient *http.Client) (ModelClient, error) {
	if cfg.APIKey == "" {
		return nil, nil
	}

	httpOptions := genai.HTTPOptions{
		BaseURL:    cfg.BaseURL,
		APIVersion: cfg.APIVersion,
	}
	if cfg.Timeout > 0 {
		timeout := config.GetDuration(cfg.Timeout)
		httpOptions.Timeout = &timeout
	}

	cli, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      cfg.APIKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPClient:  httpClient,
		HTTPOptions: httpOptions,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return cli.Models, nil
}
