// Package cli holds the shared command context and helpers for the kong
// command tree.
package cli

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/avolkova/duolist/internal/backup"
	"github.com/avolkova/duolist/internal/config"
	"github.com/avolkova/duolist/internal/logger"
	"github.com/avolkova/duolist/internal/storage"
)

// LockFileName is the serve-instance lock file written next to the config.
const LockFileName = "duolist.lock"

// Context is shared by every command. Config and Store are nil when the
// config file does not exist yet; only init runs in that state.
type Context struct {
	ConfigPath string
	Config     *config.Config
	Store      storage.Provider
}

// PerformAutomaticBackup snapshots the database before serving. Failures are
// logged and otherwise ignored; a missed backup should not keep the bot down.
// Postgres storage has its own backup story, so only sqlite files are
// snapshotted.
func (c *Context) PerformAutomaticBackup() {
	if c.Config.UsesPostgres() {
		return
	}
	mgr := backup.NewManager(c.Config.Storage)
	if _, err := mgr.Create(); err != nil {
		logger.Warn("automatic backup failed", "err", err)
	}
}

// LockInfo identifies a running serve instance.
type LockInfo struct {
	InstanceID string `json:"instance_id"`
	PID        int    `json:"pid"`
}

// LockPath returns the lock file location for this config.
func (c *Context) LockPath() string {
	return filepath.Join(c.Config.Dir(), LockFileName)
}

// WriteLock records this process in the lock file.
func (c *Context) WriteLock(info LockInfo) error {
	data, err := json.Marshal(info)
	if err != nil {
		return err
	}
	return os.WriteFile(c.LockPath(), data, 0600)
}

// ReadLock loads the lock file, nil when absent.
func (c *Context) ReadLock() (*LockInfo, error) {
	data, err := os.ReadFile(c.LockPath())
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var info LockInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// RemoveLock deletes the lock file, tolerating its absence.
func (c *Context) RemoveLock() {
	if err := os.Remove(c.LockPath()); err != nil && !os.IsNotExist(err) {
		logger.Warn("failed to remove lock file", "err", err)
	}
}
