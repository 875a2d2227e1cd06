package main

import (
	"fmt"
	"log/slog"

	"github.com/amrella/amrella-backend/internal/config"
	"github.com/amrella/amrella-backend/internal/database"
	"github.com/amrella/amrella-backend/internal/logging"
	"github.com/amrella/amrella-backend/internal/repository"
	"github.com/amrella/amrella-backend/internal/services"
	"github.com/spf13/cobra"
)

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	logging.Setup(cfg.LogLevel)

	db, err := database.Connect(cfg)
	if err != nil {
		return err
	}
	if err := database.Migrate(db); err != nil {
		return err
	}

	settings := services.NewSettingsService(repository.NewSettingsRepository(db), nil)
	if err := settings.SeedDefaults(cmd.Context()); err != nil {
		return fmt.Errorf("seed: %w", err)
	}

	slog.Info("migrate: ok")
	return nil
}
