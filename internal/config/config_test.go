package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `{
		"users": [
			{"telegram_id": 101, "display_name": "Ann"},
			{"telegram_id": 102, "display_name": "Bea"}
		]
	}`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(cfg.Users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(cfg.Users))
	}
	if cfg.Users[0].ID != 101 || cfg.Users[0].DisplayName != "Ann" {
		t.Errorf("user 1 = %+v, want id 101 name Ann", cfg.Users[0])
	}
	if want := filepath.Join(filepath.Dir(path), "duolist.db"); cfg.Storage != want {
		t.Errorf("default storage = %q, want %q", cfg.Storage, want)
	}
	if cfg.UsesPostgres() {
		t.Error("UsesPostgres() = true for a sqlite path")
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "config.json"))
	if err == nil || !strings.Contains(err.Error(), "duolist init") {
		t.Errorf("expected not-found error pointing at init, got %v", err)
	}
}

func TestLoadPostgresStorage(t *testing.T) {
	path := writeConfig(t, `{
		"users": [
			{"telegram_id": 101, "display_name": "Ann"},
			{"telegram_id": 102, "display_name": "Bea"}
		],
		"storage": "postgres://host/duolist"
	}`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !cfg.UsesPostgres() {
		t.Error("UsesPostgres() = false for a postgres DSN")
	}
	if cfg.Storage != "postgres://host/duolist" {
		t.Errorf("storage = %q, postgres DSN must not be path-expanded", cfg.Storage)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		users []User
	}{
		{"no users", nil},
		{"one user", []User{{ID: 101, DisplayName: "Ann"}}},
		{"missing id", []User{{ID: 101, DisplayName: "Ann"}, {DisplayName: "Bea"}}},
		{"missing name", []User{{ID: 101, DisplayName: "Ann"}, {ID: 102}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Users: tt.users}
			if err := cfg.Validate(); err == nil {
				t.Error("Validate() = nil, want error")
			}
		})
	}

	t.Run("two valid users", func(t *testing.T) {
		cfg := &Config{Users: []User{
			{ID: 101, DisplayName: "Ann"},
			{ID: 102, DisplayName: "Bea"},
		}}
		if err := cfg.Validate(); err != nil {
			t.Errorf("Validate() = %v, want nil", err)
		}
	})
}

func TestSaveRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")
	cfg := New(path)
	cfg.Users = []User{
		{ID: 101, DisplayName: "Ann"},
		{ID: 102, DisplayName: "Bea"},
	}

	if err := cfg.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load after Save failed: %v", err)
	}
	if len(loaded.Users) != 2 || loaded.Users[1].DisplayName != "Bea" {
		t.Errorf("loaded users = %+v", loaded.Users)
	}

	fi, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat config: %v", err)
	}
	if fi.Mode().Perm() != 0600 {
		t.Errorf("config file mode = %v, want 0600", fi.Mode().Perm())
	}
}

func TestAuthorized(t *testing.T) {
	cfg := &Config{Users: []User{
		{ID: 101, DisplayName: "Ann"},
		{ID: 102, DisplayName: "Bea"},
	}}

	if !cfg.Authorized(101) || !cfg.Authorized(102) {
		t.Error("configured users must be authorized")
	}
	if cfg.Authorized(999) {
		t.Error("Authorized(999) = true, want false")
	}
}

func TestUserName(t *testing.T) {
	cfg := &Config{Users: []User{
		{ID: 101, DisplayName: "Ann"},
		{ID: 102, DisplayName: "Bea"},
	}}

	if got := cfg.UserName(1); got != "Ann" {
		t.Errorf("UserName(1) = %q, want Ann", got)
	}
	if got := cfg.UserName(2); got != "Bea" {
		t.Errorf("UserName(2) = %q, want Bea", got)
	}
	if got := cfg.UserName(3); got != "User 3" {
		t.Errorf("UserName(3) = %q, want generic fallback", got)
	}
}

func TestTokenFromEnv(t *testing.T) {
	t.Setenv(TokenEnvVar, "123:abc")

	cfg := &Config{}
	token, err := cfg.Token()
	if err != nil {
		t.Fatalf("Token failed: %v", err)
	}
	if token != "123:abc" {
		t.Errorf("Token() = %q, want env value", token)
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home directory: %v", err)
	}

	if got := ExpandPath("~/x/config.json"); got != filepath.Join(home, "x", "config.json") {
		t.Errorf("ExpandPath(~/x/config.json) = %q", got)
	}
	if got := ExpandPath("/abs/path"); got != "/abs/path" {
		t.Errorf("ExpandPath(/abs/path) = %q, absolute paths must pass through", got)
	}
}
