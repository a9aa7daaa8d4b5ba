package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"

	"github.com/avolkova/duolist/internal/bot"
	"github.com/avolkova/duolist/internal/logger"
)

// ServeCmd runs the bot until interrupted. It is the default command.
type ServeCmd struct{}

func (c *ServeCmd) Run(ctx *Context) error {
	token, err := ctx.Config.Token()
	if err != nil {
		return err
	}

	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return fmt.Errorf("failed to connect to Telegram: %w", err)
	}
	api.Debug = ctx.Config.Debug

	ctx.PerformAutomaticBackup()

	instanceID := uuid.New().String()
	if err := ctx.WriteLock(LockInfo{InstanceID: instanceID, PID: os.Getpid()}); err != nil {
		logger.Warn("failed to write lock file", "err", err)
	}
	defer ctx.RemoveLock()

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("serving", "bot", api.Self.UserName, "instance_id", instanceID, "storage", ctx.Store.Location())
	fmt.Printf("duolist serving as @%s (Ctrl-C to stop)\n", api.Self.UserName)

	b := bot.New(&bot.APIResponder{API: api}, ctx.Store, ctx.Config)
	b.Run(runCtx, api)

	logger.Info("stopped", "instance_id", instanceID)
	return nil
}
