package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	env "github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds the application configuration
// See .env.example for more documentation
type Config struct {
	ServerAddress       string `env:"SERVER_ADDRESS" envDefault:":8080"`
	Version             string `env:"VERSION" envDefault:"dev"`
	TransitionLatencyMS int    `env:"TRANSITION_LATENCY_MS" envDefault:"2000"`
	DisableBuiltinSeed  bool   `env:"DISABLE_BUILTIN_SEED" envDefault:"false"`
	SeedFrom            string `env:"SEED_FROM" envDefault:""`
	CreatedBy           string `env:"CREATED_BY" envDefault:"console-admin"`
	SkipConfirmFile     string `env:"SKIP_CONFIRMATION_FILE" envDefault:""`
}

// NewConfig creates a new configuration with default values
func NewConfig() *Config {
	err := godotenv.Load()
	if err != nil {
		log.Printf("No .env file found or error loading .env file: %v", err)
	}
	var cfg Config
	err = env.ParseWithOptions(&cfg, env.Options{
		Prefix: "FLEET_CONSOLE_",
	})
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	if cfg.SkipConfirmFile == "" {
		cfg.SkipConfirmFile = defaultSkipConfirmFile()
	}
	return &cfg
}

// Validate checks the configuration for values that cannot work.
func Validate(cfg *Config) error {
	if cfg.TransitionLatencyMS < 0 {
		return fmt.Errorf("transition latency must not be negative, got %d", cfg.TransitionLatencyMS)
	}
	if cfg.ServerAddress == "" {
		return fmt.Errorf("server address must not be empty")
	}
	return nil
}

func defaultSkipConfirmFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".fleetconsole", "skip-confirm")
}
