package bot

import "github.com/avolkova/duolist/internal/logger"

// Dispatch routes one event by priority: exact reply-keyboard labels first,
// then parsed callback actions, then the active conversation's expected
// input. Anything that matches nothing is dropped silently.
func (b *Bot) Dispatch(ev Event) error {
	if ev.Callback != "" {
		return b.dispatchCallback(ev)
	}

	switch ev.Text {
	case "/start":
		b.send(ev.ChatID, "Hi! Pick a list below.", mainMenu())
		return nil
	case "/cancel":
		b.engine.Cancel(ev.UserID)
		b.send(ev.ChatID, "Cancelled.", nil)
		return nil
	case LabelMovies:
		return b.movieMenu(ev)
	case LabelActivities:
		return b.activityMenu(ev)
	case LabelTrips:
		return b.tripMenu(ev)
	case LabelVideos:
		return b.videoMenu(ev)
	case LabelPhotos:
		return b.photoMenu(ev)
	case LabelGames:
		return b.gameMenu(ev)
	case LabelShops:
		return b.shopMenu(ev)
	}

	in := Input{Kind: InputText, Text: ev.Text}
	if ev.MediaRef != "" {
		in = Input{Kind: InputMedia, MediaRef: ev.MediaRef}
	}
	handled, err := b.engine.Handle(ev.UserID, in)
	if !handled {
		logger.Debug("dropped unroutable message", "user_id", ev.UserID)
	}
	return err
}

func (b *Bot) dispatchCallback(ev Event) error {
	if err := b.out.AnswerCallback(ev.CallbackID); err != nil {
		logger.Debug("failed to answer callback", "err", err)
	}

	a := ParseAction(ev.Callback)
	switch a.Domain {
	case DomainMenu:
		b.edit(ev, "Pick a list from the keyboard below.", rows())
		return nil
	case DomainConv:
		if a.Sub == SubCancel {
			b.engine.Cancel(ev.UserID)
			b.edit(ev, "Cancelled.", rows())
		}
		return nil
	case DomainCat:
		in := Input{Kind: InputSelect, ID: a.ID}
		if a.Sub == SubNew {
			in.ID = NewCategoryID
		}
		_, err := b.engine.Handle(ev.UserID, in)
		return err
	case DomainRate:
		if a.Sub != SubVal {
			return nil
		}
		_, err := b.engine.Handle(ev.UserID, Input{Kind: InputRating, Rating: int(a.ID)})
		return err
	case DomainMovie:
		return b.movieCallback(ev, a)
	case DomainActivity:
		return b.activityCallback(ev, a)
	case DomainTrip:
		return b.tripCallback(ev, a)
	case DomainVideo:
		return b.videoCallback(ev, a)
	case DomainPhoto:
		return b.photoCallback(ev, a)
	case DomainGame:
		return b.gameCallback(ev, a)
	case DomainShop:
		return b.shopCallback(ev, a)
	}
	return nil
}
