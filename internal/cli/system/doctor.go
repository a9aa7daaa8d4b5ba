package system

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mitchellh/go-ps"

	"github.com/avolkova/duolist/internal/backup"
	"github.com/avolkova/duolist/internal/cli"
	"github.com/avolkova/duolist/internal/keyring"
	"github.com/avolkova/duolist/internal/migration"
	"github.com/avolkova/duolist/internal/storage/sqlite"
	"github.com/avolkova/duolist/migrations"
)

var (
	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	failStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	skipStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

type DoctorCmd struct{}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	hasError := false
	report := func(name string, err error) {
		if err != nil {
			fmt.Printf("%s %s: FAIL\n", failStyle.Render("❌"), name)
			fmt.Printf("   Error: %v\n", err)
			hasError = true
		} else {
			fmt.Printf("%s %s: OK\n", okStyle.Render("✓"), name)
		}
	}
	skip := func(name, reason string) {
		fmt.Printf("%s %s: SKIPPED (%s)\n", skipStyle.Render("⊘"), name, reason)
	}

	report("Config valid", ctx.Config.Validate())

	if _, err := ctx.Config.Token(); err != nil {
		fmt.Printf("%s Bot token: WARNING\n", warnStyle.Render("⚠"))
		fmt.Printf("   %v\n", err)
	} else {
		fmt.Printf("%s Bot token: OK\n", okStyle.Render("✓"))
	}

	if keyring.IsAvailable() {
		fmt.Printf("%s OS keyring: OK\n", okStyle.Render("✓"))
	} else {
		fmt.Printf("%s OS keyring: WARNING\n", warnStyle.Render("⚠"))
		fmt.Printf("   keyring unavailable; token must come from the environment\n")
	}

	dbErr := ctx.Store.Load()
	report("Database reachable", dbErr)
	if dbErr == nil {
		defer ctx.Store.Close()
	}

	if dbErr != nil {
		skip("Schema version", "database not reachable")
		skip("Migrations complete", "database not reachable")
	} else if runner := schemaRunner(ctx); runner == nil {
		skip("Schema version", "postgres storage")
		skip("Migrations complete", "postgres storage")
	} else {
		report("Schema version", checkSchemaVersion(runner))
		report("Migrations complete", checkMigrationsComplete(runner))
	}

	if ctx.Config.UsesPostgres() {
		skip("Backups present", "postgres storage")
	} else if dbErr != nil {
		skip("Backups present", "database not reachable")
	} else {
		checkBackups(ctx)
	}

	checkRunningInstance(ctx)

	fmt.Println()
	if hasError {
		return errors.New("diagnostics found problems")
	}
	fmt.Println("All checks passed.")
	return nil
}

// schemaRunner builds a migration runner for the open sqlite store, or nil
// for other backends.
func schemaRunner(ctx *cli.Context) *migration.Runner {
	st, ok := ctx.Store.(*sqlite.Store)
	if !ok {
		return nil
	}
	db := st.DB()
	if db == nil {
		return nil
	}
	subFS, err := fs.Sub(migrations.FS, "sqlite")
	if err != nil {
		return nil
	}
	return migration.NewRunner(db, subFS)
}

func checkSchemaVersion(runner *migration.Runner) error {
	current, err := runner.CurrentVersion()
	if err != nil {
		return fmt.Errorf("failed to get current schema version: %w", err)
	}
	latest, err := runner.LatestVersion()
	if err != nil {
		return fmt.Errorf("failed to get latest schema version: %w", err)
	}
	if current > latest {
		return fmt.Errorf("database schema version (%d) is newer than supported version (%d)", current, latest)
	}
	return nil
}

func checkMigrationsComplete(runner *migration.Runner) error {
	current, err := runner.CurrentVersion()
	if err != nil {
		return fmt.Errorf("failed to get current schema version: %w", err)
	}
	latest, err := runner.LatestVersion()
	if err != nil {
		return fmt.Errorf("failed to get latest schema version: %w", err)
	}
	if current < latest {
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d", current, latest)
	}
	return nil
}

func checkBackups(ctx *cli.Context) {
	mgr := backup.NewManager(ctx.Config.Storage)
	backups, err := mgr.List()
	switch {
	case err != nil:
		fmt.Printf("%s Backups present: WARNING\n", warnStyle.Render("⚠"))
		fmt.Printf("   %v\n", err)
	case len(backups) == 0:
		fmt.Printf("%s Backups present: WARNING\n", warnStyle.Render("⚠"))
		fmt.Printf("   no backups yet; one is created on every serve\n")
	default:
		fmt.Printf("%s Backups present: OK (%d, newest %s)\n", okStyle.Render("✓"),
			len(backups), backups[0].Timestamp.Format("2006-01-02 15:04"))
	}
}

// checkRunningInstance reads the serve lock file and looks the recorded pid
// up in the process table. A stale lock from a crashed serve is reported as
// a warning, a live one as informational.
func checkRunningInstance(ctx *cli.Context) {
	info, err := ctx.ReadLock()
	if err != nil {
		fmt.Printf("%s Running instance: WARNING\n", warnStyle.Render("⚠"))
		fmt.Printf("   unreadable lock file: %v\n", err)
		return
	}
	if info == nil {
		fmt.Printf("%s Running instance: none\n", okStyle.Render("✓"))
		return
	}
	if info.PID == os.Getpid() {
		fmt.Printf("%s Running instance: this process\n", okStyle.Render("✓"))
		return
	}

	proc, err := ps.FindProcess(info.PID)
	if err != nil || proc == nil {
		fmt.Printf("%s Running instance: WARNING\n", warnStyle.Render("⚠"))
		fmt.Printf("   stale lock file (pid %d not running); remove %s\n", info.PID, ctx.LockPath())
		return
	}
	fmt.Printf("%s Running instance: pid %d (%s), instance %s\n", okStyle.Render("✓"),
		info.PID, proc.Executable(), info.InstanceID)
}
