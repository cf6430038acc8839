package main

import (
	"os"

	"github.com/Rifat402/courses-app/internal/pkg/logger"
	"github.com/Rifat402/courses-app/internal/server"
)

// @title Courses API
// @version 1.0
// @description CRUD API for the courses collection

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api
// @schemes http

func main() {
	srv, err := server.NewServer()
	if err != nil {
		// Details were logged by the setup step that failed
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	// Blocks until a shutdown signal arrives
	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
}
