// Package bot holds the chat-facing core: the update loop, the router, the
// conversation engine, the menu builders, and one handler file per list
// domain.
package bot

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/avolkova/duolist/internal/auth"
	"github.com/avolkova/duolist/internal/config"
	"github.com/avolkova/duolist/internal/logger"
	"github.com/avolkova/duolist/internal/storage"
)

// Event is one decoded inbound update. Exactly one of Text/Callback/MediaRef
// carries the payload; the rest of the transport framing never leaves this
// package.
type Event struct {
	UserID     int64
	ChatID     int64
	MessageID  int
	Text       string
	Callback   string
	CallbackID string
	MediaRef   string
}

// Responder is the outbound half of the transport, narrow enough to fake in
// tests.
type Responder interface {
	SendMessage(chatID int64, text string, markup any) error
	EditMessage(chatID int64, messageID int, text string, markup *tgbotapi.InlineKeyboardMarkup) error
	SendVideo(chatID int64, fileID string) error
	AnswerCallback(id string) error
}

// Bot wires the gate, router, conversation engine and store together.
type Bot struct {
	out    Responder
	store  storage.Provider
	cfg    *config.Config
	gate   *auth.Gate
	engine *Engine
}

func New(out Responder, store storage.Provider, cfg *config.Config) *Bot {
	return &Bot{
		out:    out,
		store:  store,
		cfg:    cfg,
		gate:   auth.NewGate(cfg.Users),
		engine: NewEngine(),
	}
}

// Run consumes long-poll updates until the context is cancelled. Updates are
// handled to completion one at a time, so per-user conversation steps never
// interleave.
func (b *Bot) Run(ctx context.Context, api *tgbotapi.BotAPI) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			api.StopReceivingUpdates()
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			ev, ok := decode(update)
			if !ok {
				continue
			}
			b.handle(ev)
		}
	}
}

// decode flattens a transport update into an Event. Updates that are neither
// a message nor a callback are dropped.
func decode(update tgbotapi.Update) (Event, bool) {
	switch {
	case update.CallbackQuery != nil:
		cb := update.CallbackQuery
		ev := Event{
			UserID:     cb.From.ID,
			Callback:   cb.Data,
			CallbackID: cb.ID,
		}
		if cb.Message != nil {
			ev.ChatID = cb.Message.Chat.ID
			ev.MessageID = cb.Message.MessageID
		}
		return ev, true
	case update.Message != nil:
		msg := update.Message
		ev := Event{
			UserID:    msg.From.ID,
			ChatID:    msg.Chat.ID,
			MessageID: msg.MessageID,
			Text:      msg.Text,
		}
		if msg.Video != nil {
			ev.MediaRef = msg.Video.FileID
		} else if msg.Animation != nil {
			ev.MediaRef = msg.Animation.FileID
		}
		return ev, true
	}
	return Event{}, false
}

// handle runs one event through gate, router and store, surfacing failures
// as a generic message.
func (b *Bot) handle(ev Event) {
	if err := b.gate.Check(ev.UserID); err != nil {
		logger.Warn("rejected unauthorized user", "user_id", ev.UserID)
		b.send(ev.ChatID, "Sorry, this is a private bot.", nil)
		return
	}

	if err := b.Dispatch(ev); err != nil {
		logger.Error("handler failed", "user_id", ev.UserID, "err", err)
		b.send(ev.ChatID, "Something went wrong, please try again.", nil)
	}
}

func (b *Bot) send(chatID int64, text string, markup any) {
	if err := b.out.SendMessage(chatID, text, markup); err != nil {
		logger.Error("failed to send message", "chat_id", chatID, "err", err)
	}
}

func (b *Bot) edit(ev Event, text string, markup tgbotapi.InlineKeyboardMarkup) {
	if err := b.out.EditMessage(ev.ChatID, ev.MessageID, text, &markup); err != nil {
		// Telegram rejects edits that change nothing; fall back to a fresh
		// message so the menu still reaches the user.
		b.send(ev.ChatID, text, markup)
	}
}

// APIResponder adapts the concrete transport client to Responder.
type APIResponder struct {
	API *tgbotapi.BotAPI
}

func (r *APIResponder) SendMessage(chatID int64, text string, markup any) error {
	msg := tgbotapi.NewMessage(chatID, text)
	if markup != nil {
		msg.ReplyMarkup = markup
	}
	_, err := r.API.Send(msg)
	return err
}

func (r *APIResponder) EditMessage(chatID int64, messageID int, text string, markup *tgbotapi.InlineKeyboardMarkup) error {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	edit.ReplyMarkup = markup
	_, err := r.API.Send(edit)
	return err
}

func (r *APIResponder) SendVideo(chatID int64, fileID string) error {
	_, err := r.API.Send(tgbotapi.NewVideo(chatID, tgbotapi.FileID(fileID)))
	return err
}

func (r *APIResponder) AnswerCallback(id string) error {
	_, err := r.API.Request(tgbotapi.NewCallback(id, ""))
	return err
}
