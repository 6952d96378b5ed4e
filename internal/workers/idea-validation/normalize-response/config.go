// internal/workers/idea-validation/normalize-response/config.go
package normalizeresponse

type Config struct {
	// MaxRawLogBytes caps how much of an unparseable reply is written to the log.
	MaxRawLogBytes int
}

func LoadConfig() *Config {
	return &Config{
		MaxRawLogBytes: 2048,
	}
}
