// internal/workers/idea-validation/check-report/config.go
package checkreport

type Config struct {
	// MaxReasons bounds how many schema violations are joined into the Invalid reason.
	MaxReasons int
}

func LoadConfig() *Config {
	return &Config{
		MaxReasons: 5,
	}
}
