// Package db opens the database, applies the schema, seeds sample data and
// exposes the Gateway through which every statement is executed.
package db

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/diewo77/immo-gestion/internal/config"
	"github.com/diewo77/immo-gestion/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect opens PostgreSQL, retrying while the server starts up.
func Connect(cfg config.DatabaseConfig, l *slog.Logger) (*gorm.DB, error) {
	attempts := cfg.Retries
	if attempts < 1 {
		attempts = 1
	}

	var db *gorm.DB
	var err error
	for i := 0; i < attempts; i++ {
		db, err = gorm.Open(postgres.Open(cfg.DSN()), GormConfig(cfg.Debug))
		if err == nil {
			break
		}
		l.Warn("database connection failed, retrying", "attempt", i+1, "of", attempts, "err", err)
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("connexion BDD échouée : %w", err)
	}
	return db, nil
}

// GormConfig returns the shared gorm configuration. SQL is logged only when
// debug is set.
func GormConfig(debug bool) *gorm.Config {
	level := logger.Silent
	if debug {
		level = logger.Info
	}
	return &gorm.Config{
		Logger:         logger.New(log.New(os.Stdout, "\r\n", log.LstdFlags), logger.Config{LogLevel: level, SlowThreshold: 200 * time.Millisecond, IgnoreRecordNotFoundError: true}),
		TranslateError: true,
	}
}

// Migrate applies the schema for every model.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("migrations échouées : %w", err)
	}
	return nil
}
