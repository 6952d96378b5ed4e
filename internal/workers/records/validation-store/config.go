// internal/workers/records/validation-store/config.go
package validationstore

import "time"

type Config struct {
	// Timeout bounds each store call on top of the caller's context.
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 5 * time.Second,
	}
}
