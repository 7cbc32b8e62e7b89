// Package config loads client settings from the environment. A .env file in
// the working directory is picked up automatically.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/joho/godotenv/autoload"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// APIURL is the base URL of the remote API including any path prefix,
	// e.g. http://localhost:8080/api.
	APIURL string `envconfig:"API_URL" default:"http://localhost:8080/api"`

	// Email/Password log in at startup when set; otherwise a saved token
	// is used.
	Email    string `envconfig:"EMAIL"`
	Password string `envconfig:"PASSWORD"`

	// Token is a bearer token to use directly, bypassing login.
	Token string `envconfig:"TOKEN"`

	// TokenFile is where a token obtained at login is persisted. Defaults
	// to the user config dir.
	TokenFile string `envconfig:"TOKEN_FILE"`

	PageSize int `envconfig:"PAGE_SIZE" default:"20"`
}

// Load reads CHIRP_* variables into a Config.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("chirp", &cfg); err != nil {
		return Config{}, fmt.Errorf("read environment: %w", err)
	}
	if cfg.TokenFile == "" {
		dir, err := os.UserConfigDir()
		if err == nil {
			cfg.TokenFile = filepath.Join(dir, "chirp", "token")
		}
	}
	return cfg, nil
}

// SavedToken returns the token persisted by a previous login, empty when
// there is none.
func (c Config) SavedToken() string {
	if c.TokenFile == "" {
		return ""
	}
	data, err := os.ReadFile(c.TokenFile)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// SaveToken persists a login token for later sessions.
func (c Config) SaveToken(token string) error {
	if c.TokenFile == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(c.TokenFile), 0o700); err != nil {
		return err
	}
	return os.WriteFile(c.TokenFile, []byte(token+"\n"), 0o600)
}
