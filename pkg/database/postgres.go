package database

import (
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/linq-app/linq-backend/pkg/config"
)

// NewPostgresConnection opens the application database from the configured DSN.
func NewPostgresConnection(cfg *config.Config) (*gorm.DB, error) {
	return gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
}
