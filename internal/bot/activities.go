package bot

import (
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/avolkova/duolist/internal/models"
	"github.com/avolkova/duolist/internal/storage"
)

func (b *Bot) activityMenu(ev Event) error {
	kb := rows(
		row(btn("➕ Add activity", callback(DomainActivity, SubAdd))),
		row(btn("📃 Planned", callbackID(DomainActivity, SubList, 0))),
		row(btn("✅ Done", callbackID(DomainActivity, SubDoneList, 0))),
	)
	if ev.Callback != "" {
		b.edit(ev, "Activities", kb)
	} else {
		b.send(ev.ChatID, "Activities", kb)
	}
	return nil
}

func (b *Bot) activityCallback(ev Event, a Action) error {
	switch a.Sub {
	case SubMenu:
		return b.activityMenu(ev)
	case SubAdd:
		return b.startAddActivity(ev)
	case SubList:
		return b.activityList(ev, models.ActivityPlanned, int(a.ID))
	case SubDoneList:
		return b.activityList(ev, models.ActivityDone, int(a.ID))
	case SubPick:
		return b.activityDetail(ev, a.ID)
	case SubEdit:
		return b.startEditActivity(ev, a.ID)
	case SubDone:
		if err := b.store.MarkActivityDone(a.ID); err != nil {
			return err
		}
		b.edit(ev, "Done! 🎉", activityBackRow())
		return nil
	case SubDelete:
		if err := b.store.DeleteActivity(a.ID); err != nil {
			return err
		}
		b.edit(ev, "Deleted.", activityBackRow())
		return nil
	}
	return nil
}

func activityBackRow() tgbotapi.InlineKeyboardMarkup {
	return rows(row(btn("⬅️ Back", callback(DomainActivity, SubMenu))))
}

func (b *Bot) activityList(ev Event, status string, page int) error {
	acts, err := b.store.GetActivities(status)
	if err != nil {
		return err
	}
	title := "Planned"
	pageSub := SubList
	if status == models.ActivityDone {
		title = "Done"
		pageSub = SubDoneList
	}
	if len(acts) == 0 {
		b.edit(ev, title+": nothing here yet.", activityBackRow())
		return nil
	}

	items := make([]pickerItem, len(acts))
	for i, a := range acts {
		items[i] = pickerItem{ID: a.ID, Title: a.Title}
	}
	kb := itemPicker(items, page,
		func(id int64) string { return callbackID(DomainActivity, SubPick, id) },
		func(p int) string { return callbackID(DomainActivity, pageSub, int64(p)) },
		backButton("⬅️ Back", callback(DomainActivity, SubMenu)))
	b.edit(ev, title, kb)
	return nil
}

func (b *Bot) activityDetail(ev Event, id int64) error {
	act, err := b.store.GetActivity(id)
	if errors.Is(err, storage.ErrNotFound) {
		b.edit(ev, "Not found.", activityBackRow())
		return nil
	}
	if err != nil {
		return err
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "📋 %s\n", act.Title)
	if act.Note != nil {
		fmt.Fprintf(&sb, "📝 %s\n", *act.Note)
	}

	markup := rows()
	if act.Status != models.ActivityDone {
		markup.InlineKeyboard = append(markup.InlineKeyboard,
			row(btn("✅ Did it", callbackID(DomainActivity, SubDone, act.ID))))
	}
	markup.InlineKeyboard = append(markup.InlineKeyboard,
		row(btn("✏️ Edit", callbackID(DomainActivity, SubEdit, act.ID))),
		row(btn("🗑 Delete", callbackID(DomainActivity, SubDelete, act.ID))),
		row(btn("⬅️ Back", callback(DomainActivity, SubMenu))))
	b.edit(ev, sb.String(), markup)
	return nil
}

func (b *Bot) startAddActivity(ev Event) error {
	s := &Session{UserID: ev.UserID, ChatID: ev.ChatID, Domain: DomainActivity, Flow: "add"}
	b.engine.Start(s, map[string]Step{
		"title": {Expect: InputText, Run: func(s *Session, in Input) (string, error) {
			if strings.TrimSpace(in.Text) == "" || in.Text == skipToken {
				b.send(s.ChatID, "A title is required. What should we do?", nil)
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
			if _, err := b.store.AddActivity(*s.Field("title"), s.Field("note")); err != nil {
				return "", err
			}
			b.send(s.ChatID, fmt.Sprintf("Added %q to the activity list.", *s.Field("title")), nil)
			return "", nil
		}},
	}, "title")
	b.send(ev.ChatID, "What should we do?", nil)
	return nil
}

func (b *Bot) startEditActivity(ev Event, id int64) error {
	if _, err := b.store.GetActivity(id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			b.edit(ev, "Not found.", activityBackRow())
			return nil
		}
		return err
	}

	s := &Session{UserID: ev.UserID, ChatID: ev.ChatID, Domain: DomainActivity, Flow: "edit", ItemID: id}
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
			if err := b.store.UpdateActivity(s.ItemID, s.Field("title"), s.Field("note")); err != nil {
				return "", err
			}
			b.send(s.ChatID, "Updated.", nil)
			return "", nil
		}},
	}, "title")
	b.send(ev.ChatID, "New title, or "+skipToken+" to keep the current one.", nil)
	return nil
}
