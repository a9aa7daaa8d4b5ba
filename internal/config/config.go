// Package config loads the static configuration: the two-entry user
// allow-list, the storage location, and the bot token. The token is resolved
// from the environment first (including a .env file loaded at startup) and
// falls back to the OS keyring.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/avolkova/duolist/internal/keyring"
)

// TokenEnvVar is the environment variable checked for the bot token.
const TokenEnvVar = "BOT_TOKEN"

// User is one authorized account. Slot order in the Users list is
// significant: Users[0] is rating slot 1, Users[1] is slot 2.
type User struct {
	ID          int64  `json:"telegram_id"`
	DisplayName string `json:"display_name"`
}

type Config struct {
	Users   []User `json:"users"`
	Storage string `json:"storage,omitempty"`
	Debug   bool   `json:"debug,omitempty"`

	path string
}

// ExpandPath resolves a leading ~ to the user home directory.
func ExpandPath(path string) string {
	if strings.HasPrefix(path, "~/") || path == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(strings.TrimPrefix(path, "~"), "/"))
	}
	return path
}

// Load reads and validates the configuration file. Fewer than two users is a
// fatal configuration error: rating slots and the allow-list both assume a
// fixed pair.
func Load(path string) (*Config, error) {
	path = ExpandPath(path)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s (run 'duolist init' first)", path)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	cfg.path = path

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Storage == "" {
		cfg.Storage = filepath.Join(filepath.Dir(path), "duolist.db")
	} else if !strings.HasPrefix(cfg.Storage, "postgres://") && !strings.HasPrefix(cfg.Storage, "postgresql://") {
		cfg.Storage = ExpandPath(cfg.Storage)
	}

	return &cfg, nil
}

// Validate checks the allow-list invariants.
func (c *Config) Validate() error {
	if len(c.Users) < 2 {
		return errors.New("at least 2 users must be configured")
	}
	for i, u := range c.Users {
		if u.ID == 0 {
			return fmt.Errorf("user %d is missing telegram_id", i+1)
		}
		if u.DisplayName == "" {
			return fmt.Errorf("user %d is missing display_name", i+1)
		}
	}
	return nil
}

// Save writes the configuration to its file with owner-only permissions.
func (c *Config) Save() error {
	if c.path == "" {
		return errors.New("config has no file path")
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(c.path, append(data, '\n'), 0600)
}

// New creates an unsaved config bound to the given file path.
func New(path string) *Config {
	return &Config{path: ExpandPath(path)}
}

// Path returns the config file location.
func (c *Config) Path() string {
	return c.path
}

// Dir returns the directory holding the config file, database, logs and
// backups.
func (c *Config) Dir() string {
	return filepath.Dir(c.path)
}

// Authorized reports whether the given user id is on the allow-list.
func (c *Config) Authorized(id int64) bool {
	for _, u := range c.Users {
		if u.ID == id {
			return true
		}
	}
	return false
}

// UserName returns the display name for a rating slot (1-based). Falls back
// to a generic label for out-of-range slots.
func (c *Config) UserName(slot int) string {
	if slot >= 1 && slot <= len(c.Users) {
		return c.Users[slot-1].DisplayName
	}
	return fmt.Sprintf("User %d", slot)
}

// Token resolves the bot token: environment first, then the OS keyring.
func (c *Config) Token() (string, error) {
	if token := os.Getenv(TokenEnvVar); token != "" {
		return token, nil
	}
	token, err := keyring.GetToken()
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", fmt.Errorf("no bot token found: set %s or run 'duolist token set'", TokenEnvVar)
		}
		return "", err
	}
	return token, nil
}

// UsesPostgres reports whether the storage location is a postgres DSN rather
// than a sqlite file path.
func (c *Config) UsesPostgres() bool {
	return strings.HasPrefix(c.Storage, "postgres://") || strings.HasPrefix(c.Storage, "postgresql://")
}
