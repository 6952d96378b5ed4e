// internal/workers/idea-validation/check-report/schema.go
package checkreport

const scoreSchema = `{"type": "integer", "minimum": 0, "maximum": 100}`

const stringList = `{"type": "array", "items": {"type": "string"}}`

// ReportSchema requires every section and bounds all seven scores to integers in [0,100].
const ReportSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["overallScore", "marketSize", "competition", "feasibility", "marketFit", "financials", "risks", "recommendations", "nextSteps"],
  "properties": {
    "overallScore": ` + scoreSchema + `,
    "marketSize": {
      "type": "object",
      "required": ["score", "analysis", "tam", "sam", "som"],
      "properties": {
        "score": ` + scoreSchema + `,
        "analysis": {"type": "string"},
        "tam": {"type": "string"},
        "sam": {"type": "string"},
        "som": {"type": "string"}
      }
    },
    "competition": {
      "type": "object",
      "required": ["score", "analysis", "competitors", "competitiveAdvantage"],
      "properties": {
        "score": ` + scoreSchema + `,
        "analysis": {"type": "string"},
        "competitors": ` + stringList + `,
        "competitiveAdvantage": {"type": "string"}
      }
    },
    "feasibility": {
      "type": "object",
      "required": ["score", "analysis", "technicalChallenges", "resourceRequirements"],
      "properties": {
        "score": ` + scoreSchema + `,
        "analysis": {"type": "string"},
        "technicalChallenges": ` + stringList + `,
        "resourceRequirements": {"type": "string"}
      }
    },
    "marketFit": {
      "type": "object",
      "required": ["score", "analysis", "targetAudience", "culturalFit"],
      "properties": {
        "score": ` + scoreSchema + `,
        "analysis": {"type": "string"},
        "targetAudience": {"type": "string"},
        "culturalFit": {"type": "string"}
      }
    },
    "financials": {
      "type": "object",
      "required": ["score", "analysis", "revenueModel", "pricingStrategy", "fundingRequirement"],
      "properties": {
        "score": ` + scoreSchema + `,
        "analysis": {"type": "string"},
        "revenueModel": {"type": "string"},
        "pricingStrategy": {"type": "string"},
        "fundingRequirement": {"type": "string"}
      }
    },
    "risks": {
      "type": "object",
      "required": ["score", "analysis", "majorRisks", "mitigationStrategies"],
      "properties": {
        "score": ` + scoreSchema + `,
        "analysis": {"type": "string"},
        "majorRisks": ` + stringList + `,
        "mitigationStrategies": ` + stringList + `
      }
    },
    "recommendations": ` + stringList + `,
    "nextSteps": ` + stringList + `
  }
}`
