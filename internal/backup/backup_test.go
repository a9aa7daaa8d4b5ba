package backup

import (
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"testing"

	_ "modernc.org/sqlite"
)

func setupTestDB(t *testing.T) string {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS test_data (
		id INTEGER PRIMARY KEY,
		name TEXT,
		value INTEGER
	)`)
	if err != nil {
		t.Fatalf("failed to create test table: %v", err)
	}
	_, err = db.Exec("INSERT INTO test_data (id, name, value) VALUES (1, 'test1', 100), (2, 'test2', 200)")
	if err != nil {
		t.Fatalf("failed to insert test data: %v", err)
	}
	db.Close()

	return dbPath
}

func countRows(t *testing.T, dbPath string) int {
	t.Helper()

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("failed to open database %s: %v", dbPath, err)
	}
	defer db.Close()

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM test_data").Scan(&count); err != nil {
		t.Fatalf("failed to query database %s: %v", dbPath, err)
	}
	return count
}

func TestCreate(t *testing.T) {
	dbPath := setupTestDB(t)

	mgr := NewManager(dbPath)
	backupPath, err := mgr.Create()
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if _, err := os.Stat(backupPath); os.IsNotExist(err) {
		t.Fatalf("backup file was not created: %s", backupPath)
	}
	if dir := filepath.Dir(backupPath); dir != mgr.Dir() {
		t.Errorf("backup written to %s, want %s", dir, mgr.Dir())
	}
	name := filepath.Base(backupPath)
	if !strings.HasPrefix(name, BackupFilePrefix) || !strings.HasSuffix(name, BackupFileSuffix) {
		t.Errorf("backup name %s does not match %sTIMESTAMP%s", name, BackupFilePrefix, BackupFileSuffix)
	}

	// The snapshot is a valid database with the same rows.
	if got := countRows(t, backupPath); got != 2 {
		t.Errorf("expected 2 rows in backup, got %d", got)
	}
}

func TestCreateMissingDatabase(t *testing.T) {
	mgr := NewManager(filepath.Join(t.TempDir(), "nope.db"))
	if _, err := mgr.Create(); err == nil {
		t.Error("Create should fail when the database file does not exist")
	}
}

func TestCreateUniqueNames(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)

	// Several snapshots within the same minute must not overwrite each other.
	seen := make(map[string]bool)
	for i := 0; i < 4; i++ {
		path, err := mgr.Create()
		if err != nil {
			t.Fatalf("Create #%d failed: %v", i, err)
		}
		if seen[path] {
			t.Fatalf("Create reused backup path %s", path)
		}
		seen[path] = true
	}

	backups, err := mgr.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(backups) != 4 {
		t.Errorf("expected 4 backups, got %d", len(backups))
	}
}

func TestList(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)

	backups, err := mgr.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(backups) != 0 {
		t.Errorf("expected 0 backups initially, got %d", len(backups))
	}

	for i := 0; i < 3; i++ {
		if _, err := mgr.Create(); err != nil {
			t.Fatalf("Create #%d failed: %v", i, err)
		}
	}

	// A stray file in the backup directory is not a backup.
	if err := os.WriteFile(filepath.Join(mgr.Dir(), "notes.txt"), []byte("x"), 0644); err != nil {
		t.Fatalf("failed to write stray file: %v", err)
	}

	backups, err = mgr.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(backups) != 3 {
		t.Fatalf("expected 3 backups, got %d", len(backups))
	}

	for _, b := range backups {
		if b.Path == "" {
			t.Error("backup path is empty")
		}
		if b.Size == 0 {
			t.Error("backup size is 0")
		}
		if b.Timestamp.IsZero() {
			t.Error("backup timestamp is zero")
		}
	}
	for i := 1; i < len(backups); i++ {
		if backups[i].Timestamp.After(backups[i-1].Timestamp) {
			t.Errorf("backups are not sorted newest first: entry %d is newer than entry %d", i, i-1)
		}
	}
}

func TestRotation(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)

	numBackups := MaxBackups + 5
	for i := 0; i < numBackups; i++ {
		if _, err := mgr.Create(); err != nil {
			t.Fatalf("Create #%d failed: %v", i, err)
		}
	}

	backups, err := mgr.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(backups) != MaxBackups {
		t.Errorf("expected %d backups after rotation, got %d", MaxBackups, len(backups))
	}
}

func TestRestore(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)

	backupPath, err := mgr.Create()
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// Change the live database after the snapshot.
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	if _, err := db.Exec("INSERT INTO test_data (id, name, value) VALUES (3, 'test3', 300)"); err != nil {
		t.Fatalf("failed to insert data: %v", err)
	}
	db.Close()
	if got := countRows(t, dbPath); got != 3 {
		t.Fatalf("expected 3 rows before restore, got %d", got)
	}

	if err := mgr.Restore(backupPath); err != nil {
		t.Fatalf("Restore failed: %v", err)
	}

	if got := countRows(t, dbPath); got != 2 {
		t.Errorf("expected 2 rows after restore, got %d", got)
	}

	// The pre-restore state is snapshotted, so the extra row is recoverable.
	backups, err := mgr.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	found := false
	for _, b := range backups {
		if countRows(t, b.Path) == 3 {
			found = true
			break
		}
	}
	if !found {
		t.Error("no safety snapshot of the pre-restore database was kept")
	}
}

func TestRestoreRejectsBadFile(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)

	t.Run("missing backup", func(t *testing.T) {
		if err := mgr.Restore(filepath.Join(t.TempDir(), "missing.db")); err == nil {
			t.Error("Restore should fail for a missing backup file")
		}
		if got := countRows(t, dbPath); got != 2 {
			t.Errorf("database changed by failed restore: %d rows", got)
		}
	})

	t.Run("corrupt backup", func(t *testing.T) {
		bad := filepath.Join(t.TempDir(), "bad.db")
		if err := os.WriteFile(bad, []byte("not a database"), 0644); err != nil {
			t.Fatalf("failed to write corrupt file: %v", err)
		}
		if err := mgr.Restore(bad); err == nil {
			t.Error("Restore should fail for a corrupt backup file")
		}
		if got := countRows(t, dbPath); got != 2 {
			t.Errorf("database changed by failed restore: %d rows", got)
		}
	})
}
