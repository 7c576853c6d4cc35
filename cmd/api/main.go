package main

import (
	"os"

	"github.com/KrithikaHS/The-Student-360/internal/pkg/logger"
	"github.com/KrithikaHS/The-Student-360/internal/server"
)

// @title Student 360 API
// @version 1.0
// @description API for the Student 360 student records and placement platform

// @contact.name API Support
// @contact.email support@student360.app

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT token for authorization

func main() {
	// NewServer orchestrates config loading, logger setup, database
	// migrations, dependency wiring, and route registration.
	srv, err := server.NewServer()
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	// Run blocks until a shutdown signal arrives
	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
	os.Exit(0)
}
