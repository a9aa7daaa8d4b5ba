package main

import (
	"errors"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	"github.com/avolkova/duolist/internal/cli"
	"github.com/avolkova/duolist/internal/cli/backups"
	"github.com/avolkova/duolist/internal/cli/system"
	"github.com/avolkova/duolist/internal/config"
	apperrors "github.com/avolkova/duolist/internal/errors"
	"github.com/avolkova/duolist/internal/logger"
	"github.com/avolkova/duolist/internal/storage"
	"github.com/avolkova/duolist/internal/storage/postgres"
	"github.com/avolkova/duolist/internal/storage/sqlite"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Config file path." type:"string" default:"~/.config/duolist/config.json"`
	Debug   bool   `help:"Enable debug logging to stderr."`

	Serve  cli.ServeCmd     `cmd:"" help:"Run the bot." default:"1"`
	Init   system.InitCmd   `cmd:"" help:"Initialize config and storage."`
	Doctor system.DoctorCmd `cmd:"" help:"Run health checks and diagnostics."`
	Token  struct {
		Set   system.TokenSetCmd   `cmd:"" help:"Store the bot token in the OS keyring."`
		Show  system.TokenShowCmd  `cmd:"" help:"Show the stored token (masked)."`
		Clear system.TokenClearCmd `cmd:"" help:"Remove the token from the OS keyring."`
	} `cmd:"" help:"Manage the bot token."`
	Backup struct {
		Create  backups.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    backups.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore backups.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage database backups."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("duolist"),
		kong.Description("Two-person shared list bot for Telegram"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{"version": "v0.2.0"},
	)

	// Best effort: a missing .env just means the token comes from elsewhere.
	_ = godotenv.Load()

	isInit := ctx.Selected() != nil && ctx.Selected().Name == "init"

	cfg, err := config.Load(CLI.Config)
	if err != nil {
		if !isInit {
			apperrors.Fatal(err)
		}
		cfg = nil
	}

	appCtx := &cli.Context{ConfigPath: config.ExpandPath(CLI.Config), Config: cfg}

	if cfg != nil {
		if err := logger.Init(logger.Config{Debug: cfg.Debug || CLI.Debug, ConfigDir: cfg.Dir()}); err != nil {
			apperrors.Fatalf("failed to set up logging: %v", err)
		}

		var store storage.Provider
		if cfg.UsesPostgres() {
			if err := postgres.ValidateConnString(cfg.Storage); err != nil {
				if errors.Is(err, postgres.ErrEmbeddedCredentials) {
					apperrors.Fatalf("connection strings with embedded credentials are not allowed; use .pgpass or environment variables instead")
				}
				apperrors.Fatal(err)
			}
			store = postgres.New(cfg.Storage)
		} else {
			store = sqlite.New(cfg.Storage)
		}
		appCtx.Store = store

		if !isInit {
			if err := store.Load(); err != nil {
				apperrors.Fatal(err)
			}
			defer store.Close()
		}
	}

	if err := ctx.Run(appCtx); err != nil {
		apperrors.Fatal(err)
	}
}
