package bot

import (
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/avolkova/duolist/internal/models"
	"github.com/avolkova/duolist/internal/storage"
)

func (b *Bot) videoMenu(ev Event) error {
	kb := rows(
		row(btn("➕ Add idea", callback(DomainVideo, SubAdd))),
		row(btn("📃 To film", callbackID(DomainVideo, SubList, 0))),
		row(btn("✅ Filmed", callbackID(DomainVideo, SubDoneList, 0))),
	)
	if ev.Callback != "" {
		b.edit(ev, "Video ideas", kb)
	} else {
		b.send(ev.ChatID, "Video ideas", kb)
	}
	return nil
}

func (b *Bot) videoCallback(ev Event, a Action) error {
	switch a.Sub {
	case SubMenu:
		return b.videoMenu(ev)
	case SubAdd:
		return b.startAddVideo(ev)
	case SubList:
		return b.videoList(ev, models.VideoTodo, int(a.ID))
	case SubDoneList:
		return b.videoList(ev, models.VideoDone, int(a.ID))
	case SubPick:
		return b.videoDetail(ev, a.ID)
	case SubDone:
		if err := b.store.MarkVideoIdeaDone(a.ID); err != nil {
			return err
		}
		b.edit(ev, "Filmed! 🎬", videoBackRow())
		return nil
	case SubDelete:
		if err := b.store.DeleteVideoIdea(a.ID); err != nil {
			return err
		}
		b.edit(ev, "Deleted.", videoBackRow())
		return nil
	}
	return nil
}

func videoBackRow() tgbotapi.InlineKeyboardMarkup {
	return rows(row(btn("⬅️ Back", callback(DomainVideo, SubMenu))))
}

func (b *Bot) videoList(ev Event, status string, page int) error {
	ideas, err := b.store.GetVideoIdeas(status)
	if err != nil {
		return err
	}
	title := "To film"
	pageSub := SubList
	if status == models.VideoDone {
		title = "Filmed"
		pageSub = SubDoneList
	}
	if len(ideas) == 0 {
		b.edit(ev, title+": nothing here yet.", videoBackRow())
		return nil
	}

	items := make([]pickerItem, len(ideas))
	for i, v := range ideas {
		items[i] = pickerItem{ID: v.ID, Title: v.Title}
	}
	kb := itemPicker(items, page,
		func(id int64) string { return callbackID(DomainVideo, SubPick, id) },
		func(p int) string { return callbackID(DomainVideo, pageSub, int64(p)) },
		backButton("⬅️ Back", callback(DomainVideo, SubMenu)))
	b.edit(ev, title, kb)
	return nil
}

func (b *Bot) videoDetail(ev Event, id int64) error {
	v, err := b.store.GetVideoIdea(id)
	if errors.Is(err, storage.ErrNotFound) {
		b.edit(ev, "Not found.", videoBackRow())
		return nil
	}
	if err != nil {
		return err
	}

	markup := rows()
	if v.Status != models.VideoDone {
		markup.InlineKeyboard = append(markup.InlineKeyboard,
			row(btn("✅ Filmed it", callbackID(DomainVideo, SubDone, v.ID))))
	}
	markup.InlineKeyboard = append(markup.InlineKeyboard,
		row(btn("🗑 Delete", callbackID(DomainVideo, SubDelete, v.ID))),
		row(btn("⬅️ Back", callback(DomainVideo, SubMenu))))

	// Replay the stored reference clip before the detail card when there is
	// one.
	if v.MediaRef != nil {
		if err := b.out.SendVideo(ev.ChatID, *v.MediaRef); err != nil {
			return err
		}
	}
	b.edit(ev, fmt.Sprintf("🎥 %s", v.Title), markup)
	return nil
}

func (b *Bot) startAddVideo(ev Event) error {
	s := &Session{UserID: ev.UserID, ChatID: ev.ChatID, Domain: DomainVideo, Flow: "add"}
	b.engine.Start(s, map[string]Step{
		"title": {Expect: InputText, Run: func(s *Session, in Input) (string, error) {
			if strings.TrimSpace(in.Text) == "" || in.Text == skipToken {
				b.send(s.ChatID, "A title is required. What is the idea?", nil)
				return "title", nil
			}
			s.Set("title", in.Text)
			b.send(s.ChatID, "Send the reference clip.", nil)
			return "media", nil
		}},
		"media": {Expect: InputMedia, Run: func(s *Session, in Input) (string, error) {
			ref := in.MediaRef
			if _, err := b.store.AddVideoIdea(*s.Field("title"), &ref); err != nil {
				return "", err
			}
			b.send(s.ChatID, fmt.Sprintf("Added %q to the idea list.", *s.Field("title")), nil)
			return "", nil
		}},
	}, "title")
	b.send(ev.ChatID, "What is the idea?", nil)
	return nil
}
