package bot

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/avolkova/duolist/internal/storage"
)

func (b *Bot) tripMenu(ev Event) error {
	kb := rows(
		row(btn("➕ Add trip", callback(DomainTrip, SubAdd))),
		row(btn("📃 Browse", callback(DomainTrip, SubCats))),
	)
	if ev.Callback != "" {
		b.edit(ev, "Trips", kb)
	} else {
		b.send(ev.ChatID, "Trips", kb)
	}
	return nil
}

func (b *Bot) tripCallback(ev Event, a Action) error {
	switch a.Sub {
	case SubMenu:
		return b.tripMenu(ev)
	case SubAdd:
		return b.startAddTrip(ev)
	case SubCats:
		return b.tripCategoryFilter(ev)
	case SubList:
		return b.tripList(ev, int(a.ID), a.FieldInt())
	case SubPick:
		return b.tripDetail(ev, a.ID)
	case SubEdit:
		return b.startEditTrip(ev, a.ID)
	case SubDelete:
		if err := b.store.DeleteTrip(a.ID); err != nil {
			return err
		}
		b.edit(ev, "Deleted.", tripBackRow())
		return nil
	}
	return nil
}

func tripBackRow() tgbotapi.InlineKeyboardMarkup {
	return rows(row(btn("⬅️ Back", callback(DomainTrip, SubMenu))))
}

func (b *Bot) tripCategoryFilter(ev Event) error {
	cats, err := b.store.GetTripCategories()
	if err != nil {
		return err
	}
	kb := rows(row(btn("All", callbackID(DomainTrip, SubList, 0, "0"))))
	for _, c := range cats {
		kb.InlineKeyboard = append(kb.InlineKeyboard,
			row(btn(c.Name, callbackID(DomainTrip, SubList, 0, strconv.FormatInt(c.ID, 10)))))
	}
	kb.InlineKeyboard = append(kb.InlineKeyboard,
		row(btn("⬅️ Back", callback(DomainTrip, SubMenu))))
	b.edit(ev, "Where to?", kb)
	return nil
}

func (b *Bot) tripList(ev Event, page int, categoryID int64) error {
	trips, err := b.store.GetTrips(categoryID)
	if err != nil {
		return err
	}
	if len(trips) == 0 {
		b.edit(ev, "No trips here yet.", tripBackRow())
		return nil
	}

	items := make([]pickerItem, len(trips))
	for i, t := range trips {
		items[i] = pickerItem{ID: t.ID, Title: t.Title}
	}
	catField := strconv.FormatInt(categoryID, 10)
	kb := itemPicker(items, page,
		func(id int64) string { return callbackID(DomainTrip, SubPick, id) },
		func(p int) string { return callbackID(DomainTrip, SubList, int64(p), catField) },
		backButton("⬅️ Back", callback(DomainTrip, SubCats)))
	b.edit(ev, "Trips", kb)
	return nil
}

func (b *Bot) tripDetail(ev Event, id int64) error {
	t, err := b.store.GetTrip(id)
	if errors.Is(err, storage.ErrNotFound) {
		b.edit(ev, "Not found.", tripBackRow())
		return nil
	}
	if err != nil {
		return err
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "✈️ %s\n", t.Title)
	if t.Note != nil {
		fmt.Fprintf(&sb, "📝 %s\n", *t.Note)
	}
	if name := b.tripCategoryName(t.CategoryID); name != "" {
		fmt.Fprintf(&sb, "📂 %s\n", name)
	}

	b.edit(ev, sb.String(), rows(
		row(btn("✏️ Edit", callbackID(DomainTrip, SubEdit, t.ID))),
		row(btn("🗑 Delete", callbackID(DomainTrip, SubDelete, t.ID))),
		row(btn("⬅️ Back", callback(DomainTrip, SubMenu))),
	))
	return nil
}

func (b *Bot) tripCategoryName(id int64) string {
	cats, err := b.store.GetTripCategories()
	if err != nil {
		return ""
	}
	for _, c := range cats {
		if c.ID == id {
			return c.Name
		}
	}
	return ""
}

func (b *Bot) startAddTrip(ev Event) error {
	s := &Session{UserID: ev.UserID, ChatID: ev.ChatID, Domain: DomainTrip, Flow: "add"}
	b.engine.Start(s, map[string]Step{
		"title": {Expect: InputText, Run: func(s *Session, in Input) (string, error) {
			if strings.TrimSpace(in.Text) == "" || in.Text == skipToken {
				b.send(s.ChatID, "A title is required. Where are we going?", nil)
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
			cats, err := b.store.GetTripCategories()
			if err != nil {
				return "", err
			}
			b.send(s.ChatID, "What kind of trip?", categoryPicker(cats))
			return "category", nil
		}},
		"category": {Expect: InputSelect, Run: func(s *Session, in Input) (string, error) {
			if in.ID == NewCategoryID {
				b.send(s.ChatID, "Name the new category:", nil)
				return "newcat", nil
			}
			return "", b.commitAddTrip(s, in.ID)
		}},
		"newcat": {Expect: InputText, Run: func(s *Session, in Input) (string, error) {
			id, err := b.store.AddTripCategory(in.Text)
			if err != nil {
				return "", err
			}
			return "", b.commitAddTrip(s, id)
		}},
	}, "title")
	b.send(ev.ChatID, "Where are we going?", nil)
	return nil
}

func (b *Bot) commitAddTrip(s *Session, categoryID int64) error {
	title := s.Field("title")
	if title == nil {
		return fmt.Errorf("%w: title is required", storage.ErrValidation)
	}
	if _, err := b.store.AddTrip(*title, s.Field("note"), categoryID); err != nil {
		return err
	}
	b.send(s.ChatID, fmt.Sprintf("Added %q to the trip list.", *title), nil)
	return nil
}

func (b *Bot) startEditTrip(ev Event, id int64) error {
	if _, err := b.store.GetTrip(id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			b.edit(ev, "Not found.", tripBackRow())
			return nil
		}
		return err
	}

	s := &Session{UserID: ev.UserID, ChatID: ev.ChatID, Domain: DomainTrip, Flow: "edit", ItemID: id}
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
			if err := b.store.UpdateTrip(s.ItemID, s.Field("title"), s.Field("note")); err != nil {
				return "", err
			}
			b.send(s.ChatID, "Updated.", nil)
			return "", nil
		}},
	}, "title")
	b.send(ev.ChatID, "New title, or "+skipToken+" to keep the current one.", nil)
	return nil
}
