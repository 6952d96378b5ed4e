// internal/workers/idea-validation/build-prompt/config.go
package buildprompt

// Config selects the market the advisor persona frames its analysis for.
type Config struct {
	Market  string
	Factors []string
}

func LoadConfig() *Config {
	return &Config{
		Market: "Indian",
		Factors: []string{
			"regulatory environment",
			"payment preferences (UPI, cash, digital wallets)",
			"language and localization needs",
			"tier 1/2/3 city differences",
			"price sensitivity",
			"cultural preferences",
			"government initiatives",
			"infrastructure challenges",
			"local competition",
		},
	}
}
