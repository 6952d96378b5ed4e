// internal/workers/idea-validation/validate-idea/config.go
package validateidea

import (
	"idea-validator/internal/common/config"
)

const DefaultModel = "gemini-1.5-flash"

type Config struct {
	// APIKey empty means offline: every call returns the mock report.
	APIKey          string
	Model           string
	Temperature     float32
	TopK            float32
	TopP            float32
	MaxOutputTokens int32
	MaxLogBodyBytes int
}

func LoadConfig() *Config {
	return &Config{
		Model:           DefaultModel,
		Temperature:     0.7,
		TopK:            40,
		TopP:            0.95,
		MaxOutputTokens: 8192,
		MaxLogBodyBytes: 4096,
	}
}

// NewConfig builds the gateway config from the genai section of the app config.
func NewConfig(cfg config.GenAIConfig) *Config {
	c := LoadConfig()
	c.APIKey = cfg.APIKey
	if cfg.Model != "" {
		c.Model = cfg.Model
	}
	return c
}
