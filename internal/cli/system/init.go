package system

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/avolkova/duolist/internal/cli"
	"github.com/avolkova/duolist/internal/config"
	"github.com/avolkova/duolist/internal/keyring"
	"github.com/avolkova/duolist/internal/storage/sqlite"
)

type InitCmd struct {
	Force bool `help:"Force reset by deleting the existing database before initialization."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if ctx.Config == nil {
		cfg, err := runSetupForm(ctx.ConfigPath)
		if err != nil {
			return err
		}
		if err := cfg.Save(); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}
		fmt.Printf("Wrote config to: %s\n", cfg.Path())
		ctx.Config = cfg
	}
	if ctx.Config.Storage == "" {
		ctx.Config.Storage = filepath.Join(ctx.Config.Dir(), "duolist.db")
	}
	if ctx.Store == nil {
		ctx.Store = sqlite.New(ctx.Config.Storage)
	}

	if c.Force && !ctx.Config.UsesPostgres() {
		if _, err := os.Stat(ctx.Config.Storage); err == nil {
			if err := ctx.Store.Close(); err != nil {
				return fmt.Errorf("failed to close existing database: %w", err)
			}
			if err := os.Remove(ctx.Config.Storage); err != nil {
				return fmt.Errorf("failed to delete existing database: %w", err)
			}
			fmt.Printf("Deleted existing database at: %s\n", ctx.Config.Storage)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to access existing database: %w", err)
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	fmt.Printf("Initialized duolist storage at: %s\n", ctx.Store.Location())
	return nil
}

// runSetupForm collects the two users and the bot token interactively on
// first run.
func runSetupForm(path string) (*config.Config, error) {
	var (
		token string
		users [2]struct{ id, name string }
	)

	requireID := func(s string) error {
		if _, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64); err != nil {
			return errors.New("must be a numeric Telegram user id")
		}
		return nil
	}
	requireText := func(s string) error {
		if strings.TrimSpace(s) == "" {
			return errors.New("cannot be empty")
		}
		return nil
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Bot token").
				Description("From @BotFather. Stored in the OS keyring.").
				EchoMode(huh.EchoModePassword).
				Value(&token).
				Validate(requireText),
			huh.NewInput().
				Title("First user Telegram id").
				Value(&users[0].id).
				Validate(requireID),
			huh.NewInput().
				Title("First user name").
				Value(&users[0].name).
				Validate(requireText),
			huh.NewInput().
				Title("Second user Telegram id").
				Value(&users[1].id).
				Validate(requireID),
			huh.NewInput().
				Title("Second user name").
				Value(&users[1].name).
				Validate(requireText),
		),
	)
	if err := form.Run(); err != nil {
		return nil, err
	}

	if err := keyring.SetToken(strings.TrimSpace(token)); err != nil {
		if errors.Is(err, keyring.ErrKeyringUnavailable) {
			fmt.Println("⚠ OS keyring unavailable; set the token via the " + config.TokenEnvVar + " environment variable instead.")
		} else {
			return nil, fmt.Errorf("failed to store token: %w", err)
		}
	}

	cfg := config.New(path)
	for _, u := range users {
		id, _ := strconv.ParseInt(strings.TrimSpace(u.id), 10, 64)
		cfg.Users = append(cfg.Users, config.User{ID: id, DisplayName: strings.TrimSpace(u.name)})
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
