package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/amrella/amrella-backend/internal/config"
	"github.com/amrella/amrella-backend/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func Connect(cfg *config.Config) (*gorm.DB, error) {
	level := logger.Warn
	if cfg.LogLevel == "debug" {
		level = logger.Info
	}

	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(level),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetMaxIdleConns(25)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)

	slog.Info("database connected", "host", cfg.DBHost, "db", cfg.DBName)
	return db, nil
}

// Models lists every table the API owns, in dependency order.
func Models() []interface{} {
	return []interface{}{
		&models.Profile{},
		&models.RefreshToken{},
		&models.Post{},
		&models.Comment{},
		&models.Group{},
		&models.Report{},
		&models.SupportTicket{},
		&models.TicketMessage{},
		&models.AdminActivityLog{},
		&models.PlatformSetting{},
		&models.SystemLog{},
	}
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}
	slog.Info("database migrated", "tables", len(Models()))
	return nil
}

// Pinger checks the database connection.
type Pinger func(ctx context.Context) error

func NewPinger(db *gorm.DB) Pinger {
	return func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		return sqlDB.PingContext(ctx)
	}
}
