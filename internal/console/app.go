// Package console wires the fleet console application together.
package console

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/agentfleet/fleetconsole/internal/console/api"
	v0 "github.com/agentfleet/fleetconsole/internal/console/api/handlers/v0"
	"github.com/agentfleet/fleetconsole/internal/console/config"
	"github.com/agentfleet/fleetconsole/internal/console/confirm"
	"github.com/agentfleet/fleetconsole/internal/console/lifecycle"
	"github.com/agentfleet/fleetconsole/internal/console/seed"
	"github.com/agentfleet/fleetconsole/internal/console/service"
	"github.com/agentfleet/fleetconsole/internal/console/store"
	"github.com/agentfleet/fleetconsole/internal/console/telemetry"
	"github.com/agentfleet/fleetconsole/internal/version"
)

// App runs the console API server until it receives SIGINT or SIGTERM.
func App(_ context.Context) error {
	cfg := config.NewConfig()
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	st := store.New()
	lm := lifecycle.NewManager(st,
		lifecycle.WithLatency(time.Duration(cfg.TransitionLatencyMS)*time.Millisecond),
	)
	defer lm.Close()

	policy := confirm.NewPolicy(cfg.SkipConfirmFile)
	consoleService := service.NewConsoleService(st, lm, policy, cfg.CreatedBy)

	// Import builtin seed data unless it is disabled
	if !cfg.DisableBuiltinSeed {
		if err := seed.ImportBuiltinSeedData(st); err != nil {
			log.Printf("Failed to import builtin seed data: %v", err)
		}
	}

	// Import seed data if seed source is provided
	if cfg.SeedFrom != "" {
		log.Printf("Importing data from %s...", cfg.SeedFrom)
		if err := seed.ImportFromPath(st, cfg.SeedFrom); err != nil {
			log.Printf("Failed to import seed data: %v", err)
		}
	}

	log.Printf("Starting fleet console %s (commit: %s)", version.Version, version.GitCommit)

	versionInfo := &v0.VersionBody{
		Version:   version.Version,
		GitCommit: version.GitCommit,
		BuildTime: version.BuildDate,
	}

	shutdownTelemetry, metrics, err := telemetry.InitMetrics(cfg.Version)
	if err != nil {
		return fmt.Errorf("failed to initialize metrics: %v", err)
	}
	defer func() {
		if err := shutdownTelemetry(context.Background()); err != nil {
			log.Printf("Failed to shutdown telemetry: %v", err)
		}
	}()

	server := api.NewServer(cfg, consoleService, metrics, versionInfo)

	// Start server in a goroutine so it doesn't block signal handling
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Failed to start server: %v", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	sctx, scancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer scancel()

	if err := server.Shutdown(sctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting")
	return nil
}
