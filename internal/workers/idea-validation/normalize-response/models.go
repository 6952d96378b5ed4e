// internal/workers/idea-validation/normalize-response/models.go
package normalizeresponse

import (
	"encoding/json"

	"idea-validator/internal/models"
)

type Input struct {
	Raw string `json:"raw"`
}

type Output struct {
	Normalized json.RawMessage          `json:"normalized"`
	Report     *models.ValidationReport `json:"report,omitempty"`
	// Strategy names the step that recovered the JSON: direct, slice or pattern.
	Strategy string `json:"strategy"`
}
