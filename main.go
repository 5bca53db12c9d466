package main

import (
	stdlog "log"

	"github.com/joho/godotenv"

	"github.com/Brayaaan/Finbot/cmd"
	"github.com/Brayaaan/Finbot/internal/config"
	"github.com/Brayaaan/Finbot/internal/logger"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		stdlog.Printf("Warning: Could not load .env file: %v", err)
	}

	// Initialize logging before anything else touches it
	cfg, err := config.Load()
	if err != nil {
		stdlog.Printf("Warning: Could not load configuration: %v", err)
		if err := logger.Setup(logger.DefaultConfig()); err != nil {
			stdlog.Fatalf("Failed to initialize logger: %v", err)
		}
	} else {
		if err := logger.Setup(cfg.GetLoggerConfig()); err != nil {
			stdlog.Fatalf("Failed to initialize logger: %v", err)
		}
	}

	log := logger.WithComponent("main")
	log.Info().Msg("Starting FinBot")

	cmd.Execute()
}
