package main

import (
	"context"
	"log"

	"github.com/agentfleet/fleetconsole/internal/console"
)

func main() {
	if err := console.App(context.Background()); err != nil {
		log.Fatalf("Failed to run console API: %v", err)
	}
}
