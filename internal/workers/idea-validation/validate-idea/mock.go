// internal/workers/idea-validation/validate-idea/mock.go
package validateidea

import (
	"encoding/json"

	"idea-validator/internal/models"
)

// MockReport is served whenever the model cannot be used.
var MockReport = models.ValidationReport{
	OverallScore: 75,
	MarketSize: models.MarketSizeSection{
		Score:    80,
		Analysis: "The Indian market shows strong potential for this startup idea with a growing digital adoption rate and increasing smartphone penetration across tier-2 and tier-3 cities.",
		TAM:      "₹50,000 crores - Total addressable market in India",
		SAM:      "₹15,000 crores - Serviceable addressable market",
		SOM:      "₹500 crores - Serviceable obtainable market in first 3 years",
	},
	Competition: models.CompetitionSection{
		Score:                65,
		Analysis:             "Moderate competition exists in the Indian market with several established players, but there's room for differentiation through localization and pricing strategies.",
		Competitors:          []string{"Zomato", "Swiggy", "Dunzo", "BigBasket", "Grofers"},
		CompetitiveAdvantage: "Focus on tier-2 cities with local language support and cash-on-delivery options",
	},
	Feasibility: models.FeasibilitySection{
		Score:    70,
		Analysis: "Technically feasible with existing infrastructure. Main challenges include logistics in smaller cities and payment gateway integration.",
		TechnicalChallenges: []string{
			"Last-mile delivery in tier-2 cities",
			"Multi-language support",
			"Offline payment integration",
		},
		ResourceRequirements: "Team of 8-10 people including developers, operations, and marketing professionals",
	},
	MarketFit: models.MarketFitSection{
		Score:          85,
		Analysis:       "Strong product-market fit potential given India's growing digital economy and changing consumer behavior post-COVID.",
		TargetAudience: "Urban millennials and Gen-Z consumers aged 22-35 in tier-1 and tier-2 cities",
		CulturalFit:    "Aligns well with Indian preference for convenience and value-for-money propositions",
	},
	Financials: models.FinancialsSection{
		Score:              72,
		Analysis:           "Financially viable with proper unit economics. Revenue potential is strong with multiple monetization streams.",
		RevenueModel:       "Commission-based model with delivery fees and premium subscriptions",
		PricingStrategy:    "Competitive pricing with promotional offers for market penetration",
		FundingRequirement: "₹5-10 crores for initial setup and 18-month runway",
	},
	Risks: models.RisksSection{
		Score:    60,
		Analysis: "Moderate to high risk due to competitive market and regulatory challenges in food delivery space.",
		MajorRisks: []string{
			"Intense competition",
			"Regulatory changes",
			"High customer acquisition costs",
			"Logistics challenges",
		},
		MitigationStrategies: []string{
			"Focus on niche markets",
			"Build strong local partnerships",
			"Invest in technology",
			"Maintain healthy unit economics",
		},
	},
	Recommendations: []string{
		"Start with a focused geographic area (2-3 cities) before expanding",
		"Invest heavily in local partnerships and supply chain",
		"Develop strong mobile app with vernacular language support",
		"Focus on unit economics from day one",
		"Build a strong brand presence through digital marketing",
	},
	NextSteps: []string{
		"Conduct detailed market research in target cities",
		"Build MVP and test with limited user base",
		"Secure initial funding of ₹2-3 crores",
		"Hire core team members",
		"Establish partnerships with local vendors",
	},
}

var mockResult = mustMarshal(MockReport)

// MockResult is MockReport serialized as the gateway returns it.
func MockResult() string {
	return mockResult
}

func mustMarshal(v interface{}) string {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return string(b)
}
