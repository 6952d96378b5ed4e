// internal/workers/idea-validation/validate-idea/models.go
package validateidea

// Outcome tells the caller which path produced Output.Result.
type Outcome string

const (
	OutcomeOffline          Outcome = "offline"
	OutcomeTransportFailure Outcome = "transport_failure"
	OutcomeShapeError       Outcome = "shape_error"
	OutcomeSuccess          Outcome = "success"
)

// Mocked reports whether Result holds the mock report rather than model text.
func (o Outcome) Mocked() bool {
	return o != OutcomeSuccess
}

type Input struct {
	Prompt string `json:"prompt"`
}

type Output struct {
	Result     string  `json:"result"`
	Outcome    Outcome `json:"outcome"`
	StatusCode int     `json:"statusCode,omitempty"`
	Detail     string  `json:"detail,omitempty"`
}
