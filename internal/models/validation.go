// internal/models/validation.go
package models

import (
	"slices"
	"strings"
	"time"
)

// IdeaForm is the user's description of a startup idea. Title and description are
// required; everything else is optional free text.
type IdeaForm struct {
	Title         string `json:"title"`
	Description   string `json:"description"`
	TargetMarket  string `json:"targetMarket,omitempty"`
	BusinessModel string `json:"businessModel,omitempty"`
	Stage         string `json:"stage,omitempty"`
	Budget        string `json:"budget,omitempty"`
	Timeline      string `json:"timeline,omitempty"`
	Experience    string `json:"experience,omitempty"`
}

// MissingRequired returns the names of required fields that are blank.
func (f *IdeaForm) MissingRequired() []string {
	var missing []string
	if strings.TrimSpace(f.Title) == "" {
		missing = append(missing, "title")
	}
	if strings.TrimSpace(f.Description) == "" {
		missing = append(missing, "description")
	}
	return missing
}

// ValidationReport is the structured analysis returned by the model.
type ValidationReport struct {
	OverallScore    int                `json:"overallScore"`
	MarketSize      MarketSizeSection  `json:"marketSize"`
	Competition     CompetitionSection `json:"competition"`
	Feasibility     FeasibilitySection `json:"feasibility"`
	MarketFit       MarketFitSection   `json:"marketFit"`
	Financials      FinancialsSection  `json:"financials"`
	Risks           RisksSection       `json:"risks"`
	Recommendations []string           `json:"recommendations"`
	NextSteps       []string           `json:"nextSteps"`
}

type MarketSizeSection struct {
	Score    int    `json:"score"`
	Analysis string `json:"analysis"`
	TAM      string `json:"tam"`
	SAM      string `json:"sam"`
	SOM      string `json:"som"`
}

type CompetitionSection struct {
	Score                int      `json:"score"`
	Analysis             string   `json:"analysis"`
	Competitors          []string `json:"competitors"`
	CompetitiveAdvantage string   `json:"competitiveAdvantage"`
}

type FeasibilitySection struct {
	Score                int      `json:"score"`
	Analysis             string   `json:"analysis"`
	TechnicalChallenges  []string `json:"technicalChallenges"`
	ResourceRequirements string   `json:"resourceRequirements"`
}

type MarketFitSection struct {
	Score          int    `json:"score"`
	Analysis       string `json:"analysis"`
	TargetAudience string `json:"targetAudience"`
	CulturalFit    string `json:"culturalFit"`
}

type FinancialsSection struct {
	Score              int    `json:"score"`
	Analysis           string `json:"analysis"`
	RevenueModel       string `json:"revenueModel"`
	PricingStrategy    string `json:"pricingStrategy"`
	FundingRequirement string `json:"fundingRequirement"`
}

type RisksSection struct {
	Score                int      `json:"score"`
	Analysis             string   `json:"analysis"`
	MajorRisks           []string `json:"majorRisks"`
	MitigationStrategies []string `json:"mitigationStrategies"`
}

// SectionScores returns the six section scores keyed by JSON name.
func (r *ValidationReport) SectionScores() map[string]int {
	return map[string]int{
		"marketSize":  r.MarketSize.Score,
		"competition": r.Competition.Score,
		"feasibility": r.Feasibility.Score,
		"marketFit":   r.MarketFit.Score,
		"financials":  r.Financials.Score,
		"risks":       r.Risks.Score,
	}
}

// Clone returns a deep copy of r. No list field shares a backing array with r.
func (r ValidationReport) Clone() ValidationReport {
	c := r
	c.Competition.Competitors = slices.Clone(r.Competition.Competitors)
	c.Feasibility.TechnicalChallenges = slices.Clone(r.Feasibility.TechnicalChallenges)
	c.Risks.MajorRisks = slices.Clone(r.Risks.MajorRisks)
	c.Risks.MitigationStrategies = slices.Clone(r.Risks.MitigationStrategies)
	c.Recommendations = slices.Clone(r.Recommendations)
	c.NextSteps = slices.Clone(r.NextSteps)
	return c
}

// ValidationRecord is a persisted, write-once validation owned by one user.
type ValidationRecord struct {
	ID           string           `json:"id"`
	UserID       string           `json:"userId"`
	Form         IdeaForm         `json:"form"`
	Report       ValidationReport `json:"report"`
	OverallScore int              `json:"overallScore"`
	CreatedAt    time.Time        `json:"createdAt"`
}

// Clone returns a deep copy of r.
func (r ValidationRecord) Clone() ValidationRecord {
	c := r
	c.Report = r.Report.Clone()
	return c
}
