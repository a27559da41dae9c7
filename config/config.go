// Package config loads storyseed settings from the environment and an
// optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds every setting the command reads.
type Config struct {
	Seed       string `env:"STORYSEED_SEED"`
	ContentDir string `env:"STORYSEED_CONTENT_DIR"`
	SaveDir    string `env:"STORYSEED_SAVE_DIR" envDefault:"saves"`
	DBPath     string `env:"STORYSEED_DB_PATH"`
	LogFile    string `env:"STORYSEED_LOG_FILE"`

	Enhance        bool          `env:"STORYSEED_ENHANCE" envDefault:"false"`
	EnhanceTimeout time.Duration `env:"STORYSEED_ENHANCE_TIMEOUT" envDefault:"3s"`
	GeminiAPIKey   string        `env:"GEMINI_API_KEY"`
	GeminiModel    string        `env:"GEMINI_MODEL" envDefault:"gemini-2.5-flash"`
}

// Load reads the .env files given (".env" when none), then the environment.
// Missing .env files are not an error; variables already set win.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// UseSQLite reports whether saves go to a SQLite database instead of files.
func (c Config) UseSQLite() bool {
	return c.DBPath != ""
}

// EnhancementEnabled reports whether the Gemini enhancer should be wired.
func (c Config) EnhancementEnabled() bool {
	return c.Enhance && c.GeminiAPIKey != ""
}
