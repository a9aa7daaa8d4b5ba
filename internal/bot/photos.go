package bot

import (
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/avolkova/duolist/internal/storage"
)

func (b *Bot) photoMenu(ev Event) error {
	kb := rows(
		row(btn("➕ Add category", callback(DomainPhoto, SubAdd))),
		row(btn("📃 Browse", callbackID(DomainPhoto, SubList, 0))),
	)
	if ev.Callback != "" {
		b.edit(ev, "Photo categories", kb)
	} else {
		b.send(ev.ChatID, "Photo categories", kb)
	}
	return nil
}

func (b *Bot) photoCallback(ev Event, a Action) error {
	switch a.Sub {
	case SubMenu:
		return b.photoMenu(ev)
	case SubAdd:
		return b.startAddPhoto(ev)
	case SubList:
		return b.photoList(ev, int(a.ID))
	case SubPick:
		return b.photoDetail(ev, a.ID)
	case SubEdit:
		return b.startEditPhoto(ev, a.ID)
	}
	return nil
}

func photoBackRow() tgbotapi.InlineKeyboardMarkup {
	return rows(row(btn("⬅️ Back", callback(DomainPhoto, SubMenu))))
}

func (b *Bot) photoList(ev Event, page int) error {
	cats, err := b.store.GetPhotoCategories()
	if err != nil {
		return err
	}
	if len(cats) == 0 {
		b.edit(ev, "No photo categories yet.", photoBackRow())
		return nil
	}

	items := make([]pickerItem, len(cats))
	for i, c := range cats {
		items[i] = pickerItem{ID: c.ID, Title: c.Title}
	}
	kb := itemPicker(items, page,
		func(id int64) string { return callbackID(DomainPhoto, SubPick, id) },
		func(p int) string { return callbackID(DomainPhoto, SubList, int64(p)) },
		backButton("⬅️ Back", callback(DomainPhoto, SubMenu)))
	b.edit(ev, "Photo categories", kb)
	return nil
}

func (b *Bot) photoDetail(ev Event, id int64) error {
	c, err := b.store.GetPhotoCategory(id)
	if errors.Is(err, storage.ErrNotFound) {
		b.edit(ev, "Not found.", photoBackRow())
		return nil
	}
	if err != nil {
		return err
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "📸 %s\n", c.Title)
	if c.Link != nil {
		fmt.Fprintf(&sb, "🔗 %s\n", *c.Link)
	}
	if c.Description != nil {
		fmt.Fprintf(&sb, "📝 %s\n", *c.Description)
	}

	b.edit(ev, sb.String(), rows(
		row(btn("✏️ Edit", callbackID(DomainPhoto, SubEdit, c.ID))),
		row(btn("⬅️ Back", callback(DomainPhoto, SubMenu))),
	))
	return nil
}

func (b *Bot) startAddPhoto(ev Event) error {
	s := &Session{UserID: ev.UserID, ChatID: ev.ChatID, Domain: DomainPhoto, Flow: "add"}
	b.engine.Start(s, map[string]Step{
		"title": {Expect: InputText, Run: func(s *Session, in Input) (string, error) {
			if strings.TrimSpace(in.Text) == "" || in.Text == skipToken {
				b.send(s.ChatID, "A title is required. What is the category?", nil)
				return "title", nil
			}
			s.Set("title", in.Text)
			b.send(s.ChatID, "Reference link? Send "+skipToken+" to leave it empty.", nil)
			return "link", nil
		}},
		"link": {Expect: InputText, Run: func(s *Session, in Input) (string, error) {
			if in.Text == skipToken {
				s.SetAbsent("link")
			} else {
				s.Set("link", in.Text)
			}
			b.send(s.ChatID, "Description? Send "+skipToken+" to leave it empty.", nil)
			return "description", nil
		}},
		"description": {Expect: InputText, Run: func(s *Session, in Input) (string, error) {
			if in.Text == skipToken {
				s.SetAbsent("description")
			} else {
				s.Set("description", in.Text)
			}
			if _, err := b.store.AddPhotoCategory(*s.Field("title"), s.Field("link"), s.Field("description")); err != nil {
				return "", err
			}
			b.send(s.ChatID, fmt.Sprintf("Added photo category %q.", *s.Field("title")), nil)
			return "", nil
		}},
	}, "title")
	b.send(ev.ChatID, "What is the category?", nil)
	return nil
}

func (b *Bot) startEditPhoto(ev Event, id int64) error {
	if _, err := b.store.GetPhotoCategory(id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			b.edit(ev, "Not found.", photoBackRow())
			return nil
		}
		return err
	}

	s := &Session{UserID: ev.UserID, ChatID: ev.ChatID, Domain: DomainPhoto, Flow: "edit", ItemID: id}
	b.engine.Start(s, map[string]Step{
		"title": {Expect: InputText, Run: func(s *Session, in Input) (string, error) {
			if in.Text != skipToken {
				s.Set("title", in.Text)
			}
			b.send(s.ChatID, "New link, or "+skipToken+" to keep the current one.", nil)
			return "link", nil
		}},
		"link": {Expect: InputText, Run: func(s *Session, in Input) (string, error) {
			if in.Text != skipToken {
				s.Set("link", in.Text)
			}
			b.send(s.ChatID, "New description, or "+skipToken+" to keep the current one.", nil)
			return "description", nil
		}},
		"description": {Expect: InputText, Run: func(s *Session, in Input) (string, error) {
			if in.Text != skipToken {
				s.Set("description", in.Text)
			}
			if err := b.store.UpdatePhotoCategory(s.ItemID, s.Field("title"), s.Field("link"), s.Field("description")); err != nil {
				return "", err
			}
			b.send(s.ChatID, "Updated.", nil)
			return "", nil
		}},
	}, "title")
	b.send(ev.ChatID, "New title, or "+skipToken+" to keep the current one.", nil)
	return nil
}
