package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"

	"github.com/sarchlab/complink/config"
)

// configEnv names the environment variable holding the default config file.
const configEnv = "COMPLINK_CONFIG"

var configPath string

var rootCmd = &cobra.Command{
	Use:   "complink",
	Short: "Compression-aware memory link simulator.",
	Long: `complink estimates the compressed size of memory traffic and ` +
		`simulates the flit-level timing of a memory link that carries it.`,
	SilenceUsage: true,
}

// Execute loads the environment defaults and runs the command line.
func Execute() {
	_ = godotenv.Load()

	rootCmd.PersistentFlags().StringVar(&configPath, "config",
		os.Getenv(configEnv),
		"Path to the link configuration JSON file (env "+configEnv+")")

	if err := rootCmd.Execute(); err != nil {
		atexit.Exit(1)
	}

	atexit.Exit(0)
}

// loadConfig returns the configuration named by --config, or the defaults.
func loadConfig() (*config.Config, error) {
	if configPath == "" {
		return config.DefaultConfig(), nil
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", configPath, err)
	}

	return cfg, nil
}
