package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
)

// clientConfig is the environment of the terminal client. Flags on the root
// command override it.
type clientConfig struct {
	APIURL      string        `env:"FORMS_API_URL,default=http://localhost:3000"`
	SessionFile string        `env:"FORMS_SESSION_FILE"`
	Timeout     time.Duration `env:"FORMS_TIMEOUT,default=10s"`
	Locale      string        `env:"FORMS_LOCALE,default=en"`
}

func defaultSessionFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".forms-app", "session.json")
	}
	return filepath.Join(home, ".forms-app", "session.json")
}

func loadClientConfig() (clientConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return clientConfig{}, fmt.Errorf("load .env: %w", err)
	}
	var cfg clientConfig
	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return clientConfig{}, fmt.Errorf("decode env: %w", err)
	}
	if cfg.SessionFile == "" {
		cfg.SessionFile = defaultSessionFile()
	}
	return cfg, nil
}
