// Package postgres is the alternate storage backend, selected when the
// configured storage location is a postgres:// DSN. Credentials must come
// from the environment or .pgpass, never the DSN itself.
package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strings"

	_ "github.com/lib/pq"

	"github.com/avolkova/duolist/internal/migration"
	"github.com/avolkova/duolist/migrations"
)

var (
	// ErrEmbeddedCredentials is returned for DSNs carrying a password.
	ErrEmbeddedCredentials = errors.New("connection string must not contain a password")
)

type Store struct {
	connStr string
	db      *sql.DB
}

func New(connStr string) *Store {
	return &Store{connStr: connStr}
}

// ValidateConnString rejects DSNs with embedded passwords.
func ValidateConnString(connStr string) error {
	u, err := url.Parse(connStr)
	if err != nil {
		return fmt.Errorf("invalid connection string: %w", err)
	}
	if u.User != nil {
		if _, hasPassword := u.User.Password(); hasPassword {
			return ErrEmbeddedCredentials
		}
	}
	return nil
}

func (s *Store) open() error {
	if s.db != nil {
		return nil
	}
	if err := ValidateConnString(s.connStr); err != nil {
		return err
	}
	db, err := sql.Open("postgres", s.connStr)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	s.db = db
	return nil
}

// Init connects and applies all migrations, including seed rows.
func (s *Store) Init() error {
	if err := s.open(); err != nil {
		return err
	}
	subFS, err := fs.Sub(migrations.FS, "postgres")
	if err != nil {
		return fmt.Errorf("failed to access postgres migrations: %w", err)
	}
	_, err = migration.NewRunner(s.db, subFS).Apply(nil)
	return err
}

// Load connects and validates the schema version.
func (s *Store) Load() error {
	if err := s.open(); err != nil {
		return err
	}
	subFS, err := fs.Sub(migrations.FS, "postgres")
	if err != nil {
		return fmt.Errorf("failed to access postgres migrations: %w", err)
	}
	return migration.NewRunner(s.db, subFS).ValidateVersion()
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) Location() string {
	return s.connStr
}

func strPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	v := ns.String
	return &v
}

func intPtr(ni sql.NullInt64) *int {
	if !ni.Valid {
		return nil
	}
	v := int(ni.Int64)
	return &v
}

// buildUpdate assembles a partial SET clause with numbered placeholders
// starting at $1, skipping nil values. The caller appends the id argument
// after the returned args.
func buildUpdate(cols []string, vals []*string) (string, []any) {
	var set []string
	var args []any
	for i, col := range cols {
		if vals[i] != nil {
			args = append(args, *vals[i])
			set = append(set, fmt.Sprintf("%s = $%d", col, len(args)))
		}
	}
	return strings.Join(set, ", "), args
}
