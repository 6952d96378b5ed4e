package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSchema = `{
  "type": "object",
  "required": ["name", "score"],
  "properties": {
    "name": {"type": "string", "minLength": 1},
    "score": {"type": "integer", "minimum": 0, "maximum": 100},
    "tags": {"type": "array", "items": {"type": "string"}}
  }
}`

func TestCompile_InvalidSchema(t *testing.T) {
	_, err := Compile(`{"type": 12}`)
	assert.Error(t, err)

	assert.Panics(t, func() { MustCompile(`not json`) })
}

func TestSchema_Validate(t *testing.T) {
	schema := MustCompile(testSchema)

	tests := []struct {
		name          string
		document      string
		expectedValid bool
		expectedField string
		expectedCode  string
	}{
		{
			name:          "valid document",
			document:      `{"name": "a", "score": 50, "tags": ["x"]}`,
			expectedValid: true,
		},
		{
			name:          "missing required",
			document:      `{"name": "a"}`,
			expectedField: "(root)",
			expectedCode:  "REQUIRED_FIELD_MISSING",
		},
		{
			name:          "score above maximum",
			document:      `{"name": "a", "score": 101}`,
			expectedField: "score",
			expectedCode:  "MAXIMUM_VIOLATION",
		},
		{
			name:          "score below minimum",
			document:      `{"name": "a", "score": -1}`,
			expectedField: "score",
			expectedCode:  "MINIMUM_VIOLATION",
		},
		{
			name:          "fractional score",
			document:      `{"name": "a", "score": 7.5}`,
			expectedField: "score",
			expectedCode:  "INVALID_TYPE",
		},
		{
			name:          "array item type",
			document:      `{"name": "a", "score": 1, "tags": [1]}`,
			expectedField: "tags.0",
			expectedCode:  "INVALID_TYPE",
		},
		{
			name:          "not json",
			document:      `{oops`,
			expectedField: "(root)",
			expectedCode:  "INVALID_DOCUMENT",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := schema.Validate([]byte(tt.document))
			require.NotNil(t, result)
			assert.Equal(t, tt.expectedValid, result.Valid)
			if tt.expectedValid {
				assert.Empty(t, result.Errors)
				return
			}
			require.NotEmpty(t, result.Errors)
			assert.True(t, result.HasErrors(tt.expectedField), "errors: %v", result.GetErrorMessages())
			assert.Equal(t, tt.expectedCode, result.GetErrorsForField(tt.expectedField)[0].Code)
		})
	}
}

func TestValidationResult_GetErrorsForField(t *testing.T) {
	vr := &ValidationResult{Errors: []ValidationError{
		{Field: "risks", Message: "m1"},
		{Field: "risks.score", Message: "m2"},
		{Field: "riskScore", Message: "m3"},
	}}

	assert.Len(t, vr.GetErrorsForField("risks"), 2)
	assert.Equal(t, []string{"risks: m1", "risks.score: m2", "riskScore: m3"}, vr.GetErrorMessages())
}
