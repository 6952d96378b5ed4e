// cmd/idea-validator/main.go
package main

import (
	"os"

	"github.com/spf13/cobra"

	"idea-validator/internal/common/config"
	"idea-validator/internal/common/logger"
)

var (
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "idea-validator",
	Short: "Startup idea validation service",
	Long: `idea-validator scores a startup idea across market size, competition,
feasibility, market fit, financials and risks using a hosted language model.

Run "serve" for the HTTP API, or "validate" to score a single idea from the terminal.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default configs/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(migrateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.LoadFromFile(configPath)
	}
	return config.Load()
}

// newLogger honours --verbose on top of logging.level. output overrides logging.output when set.
func newLogger(cfg *config.Config, output string) logger.Logger {
	level := cfg.Logging.Level
	if verbose {
		level = "debug"
	}
	if output == "" {
		output = cfg.Logging.Output
	}
	return logger.NewStructured(level, cfg.Logging.Format, output)
}
