package bot

import (
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/avolkova/duolist/internal/models"
	"github.com/avolkova/duolist/internal/storage"
)

func (b *Bot) gameMenu(ev Event) error {
	kb := rows(
		row(btn("➕ Add game", callback(DomainGame, SubAdd))),
		row(btn("📃 To play", callbackID(DomainGame, SubList, 0))),
		row(btn("✅ Played", callbackID(DomainGame, SubDoneList, 0))),
		row(btn("🏆 Top 10", callback(DomainGame, SubTops))),
		row(btn("🎲 Random", callback(DomainGame, SubRandom))),
	)
	if ev.Callback != "" {
		b.edit(ev, "Games", kb)
	} else {
		b.send(ev.ChatID, "Games", kb)
	}
	return nil
}

func (b *Bot) gameCallback(ev Event, a Action) error {
	switch a.Sub {
	case SubMenu:
		return b.gameMenu(ev)
	case SubAdd:
		return b.startAddGame(ev)
	case SubList:
		return b.gameList(ev, models.GamePending, int(a.ID))
	case SubDoneList:
		return b.gameList(ev, models.GameDone, int(a.ID))
	case SubPick:
		return b.gameDetail(ev, a.ID)
	case SubEdit:
		return b.startEditGame(ev, a.ID)
	case SubDone:
		return b.startRateGame(ev, a.ID)
	case SubDelete:
		if err := b.store.DeleteGame(a.ID); err != nil {
			return err
		}
		b.edit(ev, "Deleted.", gameBackRow())
		return nil
	case SubRandom:
		return b.gameRandom(ev)
	case SubTops:
		return b.gameTopMenu(ev)
	case SubTop:
		return b.gameTop(ev, int(a.ID))
	}
	return nil
}

func gameBackRow() tgbotapi.InlineKeyboardMarkup {
	return rows(row(btn("⬅️ Back", callback(DomainGame, SubMenu))))
}

func (b *Bot) gameList(ev Event, status string, page int) error {
	games, err := b.store.GetGames(status)
	if err != nil {
		return err
	}
	title := "To play"
	pageSub := SubList
	if status == models.GameDone {
		title = "Played"
		pageSub = SubDoneList
	}
	if len(games) == 0 {
		b.edit(ev, title+": nothing here yet.", gameBackRow())
		return nil
	}

	items := make([]pickerItem, len(games))
	for i, g := range games {
		items[i] = pickerItem{ID: g.ID, Title: g.Title}
	}
	kb := itemPicker(items, page,
		func(id int64) string { return callbackID(DomainGame, SubPick, id) },
		func(p int) string { return callbackID(DomainGame, pageSub, int64(p)) },
		backButton("⬅️ Back", callback(DomainGame, SubMenu)))
	b.edit(ev, title, kb)
	return nil
}

func (b *Bot) gameDetail(ev Event, id int64) error {
	g, err := b.store.GetGame(id)
	if errors.Is(err, storage.ErrNotFound) {
		b.edit(ev, "Not found.", gameBackRow())
		return nil
	}
	if err != nil {
		return err
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "🎮 %s\n", g.Title)
	if g.Genre != nil {
		fmt.Fprintf(&sb, "🏷 %s\n", *g.Genre)
	}
	if g.Note != nil {
		fmt.Fprintf(&sb, "📝 %s\n", *g.Note)
	}
	if g.Status == models.GameDone {
		sb.WriteString(starLine(b.cfg.UserName(1), g.User1Rating) + "\n")
		sb.WriteString(starLine(b.cfg.UserName(2), g.User2Rating) + "\n")
	}

	markup := rows()
	if g.Status != models.GameDone {
		markup.InlineKeyboard = append(markup.InlineKeyboard,
			row(btn("✅ Played it", callbackID(DomainGame, SubDone, g.ID))))
	}
	markup.InlineKeyboard = append(markup.InlineKeyboard,
		row(btn("✏️ Edit", callbackID(DomainGame, SubEdit, g.ID))),
		row(btn("🗑 Delete", callbackID(DomainGame, SubDelete, g.ID))),
		row(btn("⬅️ Back", callback(DomainGame, SubMenu))))
	b.edit(ev, sb.String(), markup)
	return nil
}

func (b *Bot) gameRandom(ev Event) error {
	g, err := b.store.RandomGame()
	if errors.Is(err, storage.ErrEmpty) {
		b.edit(ev, "Nothing to pick from.", gameBackRow())
		return nil
	}
	if err != nil {
		return err
	}
	b.edit(ev, fmt.Sprintf("🎲 Tonight: %s", g.Title), rows(
		row(btn("Details", callbackID(DomainGame, SubPick, g.ID))),
		row(btn("⬅️ Back", callback(DomainGame, SubMenu))),
	))
	return nil
}

func (b *Bot) gameTopMenu(ev Event) error {
	b.edit(ev, "Top 10 by", rows(
		row(btn("Both of us", callbackID(DomainGame, SubTop, 0))),
		row(btn(b.cfg.UserName(1), callbackID(DomainGame, SubTop, 1))),
		row(btn(b.cfg.UserName(2), callbackID(DomainGame, SubTop, 2))),
		row(btn("⬅️ Back", callback(DomainGame, SubMenu))),
	))
	return nil
}

func (b *Bot) gameTop(ev Event, slot int) error {
	games, err := b.store.TopGames(slot)
	if err != nil {
		return err
	}
	if len(games) == 0 {
		b.edit(ev, "No rated games yet.", gameBackRow())
		return nil
	}

	var sb strings.Builder
	sb.WriteString("🏆 Top 10\n")
	for i, g := range games {
		fmt.Fprintf(&sb, "%d. %s (%s)\n", i+1, g.Title, topRatingLabel(slot, g.User1Rating, g.User2Rating))
	}
	b.edit(ev, sb.String(), gameBackRow())
	return nil
}

func (b *Bot) startAddGame(ev Event) error {
	s := &Session{UserID: ev.UserID, ChatID: ev.ChatID, Domain: DomainGame, Flow: "add"}
	b.engine.Start(s, map[string]Step{
		"title": {Expect: InputText, Run: func(s *Session, in Input) (string, error) {
			if strings.TrimSpace(in.Text) == "" || in.Text == skipToken {
				b.send(s.ChatID, "A title is required. What is the game called?", nil)
				return "title", nil
			}
			s.Set("title", in.Text)
			b.send(s.ChatID, "Any note? Send "+skipToken+" to leave it empty.", nil)
			return "note", nil
		}},
		"note": {Expect: InputText, Run: func(s *Session, in Input) (string, error) {
			if in.Text == skipToken {
				s.SetAbsent("note")
			} else {
				s.Set("note", in.Text)
			}
			b.send(s.ChatID, "Genre? Send "+skipToken+" to leave it empty.", nil)
			return "genre", nil
		}},
		"genre": {Expect: InputText, Run: func(s *Session, in Input) (string, error) {
			if in.Text == skipToken {
				s.SetAbsent("genre")
			} else {
				s.Set("genre", in.Text)
			}
			if _, err := b.store.AddGame(*s.Field("title"), s.Field("note"), s.Field("genre")); err != nil {
				return "", err
			}
			b.send(s.ChatID, fmt.Sprintf("Added %q to the game list.", *s.Field("title")), nil)
			return "", nil
		}},
	}, "title")
	b.send(ev.ChatID, "What is the game called?", nil)
	return nil
}

func (b *Bot) startEditGame(ev Event, id int64) error {
	if _, err := b.store.GetGame(id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			b.edit(ev, "Not found.", gameBackRow())
			return nil
		}
		return err
	}

	s := &Session{UserID: ev.UserID, ChatID: ev.ChatID, Domain: DomainGame, Flow: "edit", ItemID: id}
	b.engine.Start(s, map[string]Step{
		"title": {Expect: InputText, Run: func(s *Session, in Input) (string, error) {
			if in.Text != skipToken {
				s.Set("title", in.Text)
			}
			b.send(s.ChatID, "New note, or "+skipToken+" to keep the current one.", nil)
			return "note", nil
		}},
		"note": {Expect: InputText, Run: func(s *Session, in Input) (string, error) {
			if in.Text != skipToken {
				s.Set("note", in.Text)
			}
			b.send(s.ChatID, "New genre, or "+skipToken+" to keep the current one.", nil)
			return "genre", nil
		}},
		"genre": {Expect: InputText, Run: func(s *Session, in Input) (string, error) {
			if in.Text != skipToken {
				s.Set("genre", in.Text)
			}
			if err := b.store.UpdateGame(s.ItemID, s.Field("title"), s.Field("note"), s.Field("genre")); err != nil {
				return "", err
			}
			b.send(s.ChatID, "Updated.", nil)
			return "", nil
		}},
	}, "title")
	b.send(ev.ChatID, "New title, or "+skipToken+" to keep the current one.", nil)
	return nil
}

func (b *Bot) startRateGame(ev Event, id int64) error {
	g, err := b.store.GetGame(id)
	if errors.Is(err, storage.ErrNotFound) {
		b.edit(ev, "Not found.", gameBackRow())
		return nil
	}
	if err != nil {
		return err
	}

	s := &Session{UserID: ev.UserID, ChatID: ev.ChatID, Domain: DomainGame, Flow: "rate", ItemID: id}
	b.engine.Start(s, map[string]Step{
		"rate1": {Expect: InputRating, Run: func(s *Session, in Input) (string, error) {
			r := in.Rating
			s.Rating1 = &r
			if len(b.cfg.Users) < 2 {
				return "", b.commitRateGame(s, nil)
			}
			b.send(s.ChatID, b.cfg.UserName(2)+", your rating:", ratingGrid())
			return "rate2", nil
		}},
		"rate2": {Expect: InputRating, Run: func(s *Session, in Input) (string, error) {
			r := in.Rating
			return "", b.commitRateGame(s, &r)
		}},
	}, "rate1")
	b.send(ev.ChatID, fmt.Sprintf("Marking %q played. %s, your rating:", g.Title, b.cfg.UserName(1)), ratingGrid())
	return nil
}

func (b *Bot) commitRateGame(s *Session, r2 *int) error {
	if err := b.store.MarkGameDone(s.ItemID, s.Rating1, r2); err != nil {
		return err
	}
	b.send(s.ChatID, "Marked played. 🕹", nil)
	return nil
}
