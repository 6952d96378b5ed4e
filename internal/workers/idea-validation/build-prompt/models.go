// internal/workers/idea-validation/build-prompt/models.go
package buildprompt

import "idea-validator/internal/models"

type Input struct {
	Form models.IdeaForm `json:"form"`
}

type Output struct {
	Prompt string `json:"prompt"`
}
