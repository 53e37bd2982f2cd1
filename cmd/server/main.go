package main

import (
	"context"
	"log"

	"github.com/vkazmirchuk/authgate/internal/server"
	"github.com/vkazmirchuk/authgate/internal/server/config"
)

func main() {

	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("%v", err)
	}

	// Preconditions are unrecoverable: a missing connection string or a
	// loopback DSN in production must stop the process before it serves.
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	app, err := server.NewApp(cfg)
	if err != nil {
		log.Printf("%v", err)
		return
	}

	app.Run(ctx)
}
