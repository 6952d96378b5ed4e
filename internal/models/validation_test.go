package models

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func createTestReport() ValidationReport {
	return ValidationReport{
		OverallScore:    70,
		Competition:     CompetitionSection{Score: 60, Competitors: []string{"a", "b"}},
		Feasibility:     FeasibilitySection{Score: 65, TechnicalChallenges: []string{"scale"}},
		Risks:           RisksSection{Score: 50, MajorRisks: []string{"churn"}, MitigationStrategies: []string{"retention"}},
		Recommendations: []string{"focus"},
		NextSteps:       []string{"interview users"},
	}
}

func TestValidationReport_Clone(t *testing.T) {
	original := createTestReport()
	clone := original.Clone()

	if diff := cmp.Diff(original, clone); diff != "" {
		t.Fatalf("clone differs (-original +clone):\n%s", diff)
	}

	clone.Competition.Competitors[0] = "x"
	clone.Feasibility.TechnicalChallenges[0] = "x"
	clone.Risks.MajorRisks[0] = "x"
	clone.Risks.MitigationStrategies[0] = "x"
	clone.Recommendations[0] = "x"
	clone.NextSteps[0] = "x"

	assert.Equal(t, createTestReport(), original)
}

func TestValidationReport_Clone_KeepsNilLists(t *testing.T) {
	clone := ValidationReport{OverallScore: 1}.Clone()
	assert.Nil(t, clone.Recommendations)
	assert.Nil(t, clone.Competition.Competitors)
}

func TestValidationRecord_Clone(t *testing.T) {
	record := ValidationRecord{ID: "r1", Report: createTestReport()}
	clone := record.Clone()
	clone.Report.Recommendations[0] = "x"
	assert.Equal(t, "focus", record.Report.Recommendations[0])
}
