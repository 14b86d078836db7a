// Package config loads configuration from environment variables.
package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Backend names for the BACKEND variable.
const (
	BackendTurso  = "turso"
	BackendSheets = "sheets"
)

// Database holds Turso/libsql configuration. URL may also be a local file
// DSN, in which case no auth token is needed.
type Database struct {
	URL       string `envconfig:"TURSO_DATABASE_URL"`
	AuthToken string `envconfig:"TURSO_AUTH_TOKEN"`
}

// Sheets holds the Google service-account credentials for the sheets
// backend.
type Sheets struct {
	CredentialsJSON string `envconfig:"GOOGLE_CREDENTIALS_JSON"`
}

// Bot holds configuration for the bot daemon.
type Bot struct {
	TelegramToken string `envconfig:"TELEGRAM_BOT_TOKEN" required:"true"`
	Backend       string `envconfig:"BACKEND" default:"turso"`
	HTTPAddr      string `envconfig:"HTTP_ADDR" default:":8081"`
	Database      Database
	Sheets        Sheets
}

// LoadBot loads the daemon configuration and checks that the selected
// backend has what it needs.
func LoadBot() (*Bot, error) {
	var cfg Bot
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}

	switch cfg.Backend {
	case BackendTurso:
		if cfg.Database.URL == "" {
			return nil, fmt.Errorf("TURSO_DATABASE_URL is required for the turso backend")
		}
	case BackendSheets:
		if cfg.Sheets.CredentialsJSON == "" {
			return nil, fmt.Errorf("GOOGLE_CREDENTIALS_JSON is required for the sheets backend")
		}
	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
	return &cfg, nil
}

// LoadDatabase loads just the database configuration, for the commands that
// talk to the SQLite backend directly (migrate, stats).
func LoadDatabase() (*Database, error) {
	var cfg Database
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if cfg.URL == "" {
		return nil, fmt.Errorf("TURSO_DATABASE_URL environment variable is required")
	}
	return &cfg, nil
}
