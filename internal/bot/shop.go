package bot

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/avolkova/duolist/internal/storage"
)

func (b *Bot) shopMenu(ev Event) error {
	kb := rows(
		row(btn("➕ Add entry", callback(DomainShop, SubAdd))),
		row(btn("📃 Browse", callback(DomainShop, SubCats))),
	)
	if ev.Callback != "" {
		b.edit(ev, "Shops", kb)
	} else {
		b.send(ev.ChatID, "Shops", kb)
	}
	return nil
}

func (b *Bot) shopCallback(ev Event, a Action) error {
	switch a.Sub {
	case SubMenu:
		return b.shopMenu(ev)
	case SubAdd:
		return b.startAddShopEntry(ev)
	case SubCats:
		return b.shopCategoryFilter(ev)
	case SubList:
		return b.shopList(ev, int(a.ID), a.FieldInt())
	case SubPick:
		return b.shopDetail(ev, a.ID)
	case SubDelete:
		if err := b.store.DeleteShopEntry(a.ID); err != nil {
			return err
		}
		b.edit(ev, "Deleted.", shopBackRow())
		return nil
	}
	return nil
}

func shopBackRow() tgbotapi.InlineKeyboardMarkup {
	return rows(row(btn("⬅️ Back", callback(DomainShop, SubMenu))))
}

func (b *Bot) shopCategoryFilter(ev Event) error {
	cats, err := b.store.GetShopCategories()
	if err != nil {
		return err
	}
	kb := rows(row(btn("All", callbackID(DomainShop, SubList, 0, "0"))))
	for _, c := range cats {
		kb.InlineKeyboard = append(kb.InlineKeyboard,
			row(btn(c.Name, callbackID(DomainShop, SubList, 0, strconv.FormatInt(c.ID, 10)))))
	}
	kb.InlineKeyboard = append(kb.InlineKeyboard,
		row(btn("⬅️ Back", callback(DomainShop, SubMenu))))
	b.edit(ev, "Which category?", kb)
	return nil
}

func (b *Bot) shopList(ev Event, page int, categoryID int64) error {
	entries, err := b.store.GetShopEntries(categoryID)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		b.edit(ev, "No entries here yet.", shopBackRow())
		return nil
	}

	items := make([]pickerItem, len(entries))
	for i, e := range entries {
		items[i] = pickerItem{ID: e.ID, Title: e.Title}
	}
	catField := strconv.FormatInt(categoryID, 10)
	kb := itemPicker(items, page,
		func(id int64) string { return callbackID(DomainShop, SubPick, id) },
		func(p int) string { return callbackID(DomainShop, SubList, int64(p), catField) },
		backButton("⬅️ Back", callback(DomainShop, SubCats)))
	b.edit(ev, "Shop entries", kb)
	return nil
}

func (b *Bot) shopDetail(ev Event, id int64) error {
	e, err := b.store.GetShopEntry(id)
	if errors.Is(err, storage.ErrNotFound) {
		b.edit(ev, "Not found.", shopBackRow())
		return nil
	}
	if err != nil {
		return err
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "🛍 %s\n", e.Title)
	if e.Link != nil {
		fmt.Fprintf(&sb, "🔗 %s\n", *e.Link)
	}
	if e.Description != nil {
		fmt.Fprintf(&sb, "📝 %s\n", *e.Description)
	}

	b.edit(ev, sb.String(), rows(
		row(btn("🗑 Delete", callbackID(DomainShop, SubDelete, e.ID))),
		row(btn("⬅️ Back", callback(DomainShop, SubMenu))),
	))
	return nil
}

func (b *Bot) startAddShopEntry(ev Event) error {
	s := &Session{UserID: ev.UserID, ChatID: ev.ChatID, Domain: DomainShop, Flow: "add"}
	b.engine.Start(s, map[string]Step{
		"title": {Expect: InputText, Run: func(s *Session, in Input) (string, error) {
			if strings.TrimSpace(in.Text) == "" || in.Text == skipToken {
				b.send(s.ChatID, "A title is required. What is the entry?", nil)
				return "title", nil
			}
			s.Set("title", in.Text)
			b.send(s.ChatID, "Link? Send "+skipToken+" to leave it empty.", nil)
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
			cats, err := b.store.GetShopCategories()
			if err != nil {
				return "", err
			}
			b.send(s.ChatID, "Which category?", categoryPicker(cats))
			return "category", nil
		}},
		"category": {Expect: InputSelect, Run: func(s *Session, in Input) (string, error) {
			if in.ID == NewCategoryID {
				b.send(s.ChatID, "Name the new category:", nil)
				return "newcat", nil
			}
			return "", b.commitAddShopEntry(s, in.ID)
		}},
		"newcat": {Expect: InputText, Run: func(s *Session, in Input) (string, error) {
			id, err := b.store.AddShopCategory(in.Text)
			if err != nil {
				return "", err
			}
			return "", b.commitAddShopEntry(s, id)
		}},
	}, "title")
	b.send(ev.ChatID, "What is the entry?", nil)
	return nil
}

func (b *Bot) commitAddShopEntry(s *Session, categoryID int64) error {
	title := s.Field("title")
	if title == nil {
		return fmt.Errorf("%w: title is required", storage.ErrValidation)
	}
	if _, err := b.store.AddShopEntry(*title, s.Field("link"), s.Field("description"), categoryID); err != nil {
		return err
	}
	b.send(s.ChatID, fmt.Sprintf("Added %q.", *title), nil)
	return nil
}
