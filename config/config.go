package config

import (
	"errors"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// InitDB opens the hosted Postgres-compatible database. The DSN is required;
// without it the process must not start.
func InitDB() (*gorm.DB, error) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		return nil, errors.New("DATABASE_URL is not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	return db, nil
}

// BaseURL -> public application URL used when building menu redirect targets.
func BaseURL() string {
	base := os.Getenv("BASE_URL")
	if base == "" {
		base = "http://localhost:8080"
	}
	return base
}

// WhatsAppNumber -> business number handed back with order tokens when the
// restaurant record has none of its own.
func WhatsAppNumber() string {
	return os.Getenv("WHATSAPP_NUMBER")
}
