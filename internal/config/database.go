package config

import (
	"fmt"

	_ "github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"realty_hub/internal/logger"
	"realty_hub/internal/models"
)

// OpenDB opens the configured database. "postgres" connects through pgx and
// "pq" through lib/pq. Postgres driver errors reach the store untouched so it
// can read their SQLSTATE; sqlite errors are translated by gorm.
func OpenDB(cfg DatabaseConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "sqlite":
		dialector = sqlite.Open(cfg.Path + "?_foreign_keys=on")
	case "pq":
		dialector = postgres.New(postgres.Config{DriverName: "postgres", DSN: postgresDSN(cfg)})
	default:
		dialector = postgres.Open(postgresDSN(cfg))
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.GormLogger(),
		TranslateError: cfg.Driver == "sqlite",
	})
	if err != nil {
		return nil, fmt.Errorf("connecting to %s database: %w", cfg.Driver, err)
	}
	return db, nil
}

// postgresDSN builds the key=value DSN understood by both pgx and lib/pq.
func postgresDSN(cfg DatabaseConfig) string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		cfg.Host, cfg.User, cfg.Password, cfg.Name, cfg.Port, cfg.SSLMode, cfg.TimeZone,
	)
}

// Migrate creates or updates the schema for every model.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Property{},
		&models.Image{},
		&models.Favorite{},
		&models.VisitRequest{},
	); err != nil {
		return fmt.Errorf("auto-migration failed: %w", err)
	}
	return nil
}
