package system

import (
	"errors"
	"fmt"
	"strings"

	"github.com/avolkova/duolist/internal/cli"
	"github.com/avolkova/duolist/internal/keyring"
)

// TokenSetCmd stores the bot token in the OS keyring.
type TokenSetCmd struct {
	Token string `arg:"" help:"Bot token from @BotFather."`
}

func (cmd *TokenSetCmd) Run(ctx *cli.Context) error {
	token := strings.TrimSpace(cmd.Token)
	if token == "" {
		return errors.New("token cannot be empty")
	}
	if err := keyring.SetToken(token); err != nil {
		return fmt.Errorf("failed to store token in keyring: %w", err)
	}
	fmt.Println("✓ Token stored in OS keyring")
	return nil
}

// TokenShowCmd prints a masked form of the stored token.
type TokenShowCmd struct{}

func (cmd *TokenShowCmd) Run(ctx *cli.Context) error {
	token, err := keyring.GetToken()
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return errors.New("no token found in keyring. Use 'duolist token set' to store one")
		}
		return fmt.Errorf("failed to read token from keyring: %w", err)
	}
	fmt.Println(maskToken(token))
	return nil
}

// TokenClearCmd removes the token from the OS keyring.
type TokenClearCmd struct{}

func (cmd *TokenClearCmd) Run(ctx *cli.Context) error {
	if err := keyring.DeleteToken(); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return errors.New("no token found in keyring")
		}
		return fmt.Errorf("failed to delete token from keyring: %w", err)
	}
	fmt.Println("✓ Token deleted from OS keyring")
	return nil
}

// maskToken keeps just enough of the token visible to tell accounts apart.
func maskToken(token string) string {
	if len(token) <= 8 {
		return strings.Repeat("*", len(token))
	}
	return token[:4] + strings.Repeat("*", len(token)-8) + token[len(token)-4:]
}
