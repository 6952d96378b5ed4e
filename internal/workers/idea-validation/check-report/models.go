// internal/workers/idea-validation/check-report/models.go
package checkreport

import (
	"encoding/json"

	"idea-validator/internal/common/validation"
	"idea-validator/internal/models"
)

type Input struct {
	Normalized json.RawMessage `json:"normalized"`
}

type Output struct {
	Report *models.ValidationReport `json:"report"`
}

// Result is either Valid, with Report set, or Invalid, with Reason set.
type Result struct {
	Report     *models.ValidationReport
	Reason     string
	Violations []validation.ValidationError
}

func (r Result) Valid() bool {
	return r.Report != nil
}
