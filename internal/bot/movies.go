package bot

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/avolkova/duolist/internal/storage"
)

// skipToken is the reserved reply that skips an optional text field. In an
// add flow it stores an explicit absence; in an edit flow it leaves the
// current value unchanged.
const skipToken = "/skip"

// excludedRandomCategory is left out of the random movie pick: series are
// for watching in order, not at random.
const excludedRandomCategory = "Series"

func (b *Bot) movieMenu(ev Event) error {
	kb := rows(
		row(btn("➕ Add movie", callback(DomainMovie, SubAdd))),
		row(btn("📃 To watch", callback(DomainMovie, SubCats))),
		row(btn("✅ Watched", callbackID(DomainMovie, SubDoneList, 0))),
		row(btn("🏆 Top 10", callback(DomainMovie, SubTops))),
		row(btn("🎲 Random", callback(DomainMovie, SubRandom))),
	)
	if ev.Callback != "" {
		b.edit(ev, "Movies", kb)
	} else {
		b.send(ev.ChatID, "Movies", kb)
	}
	return nil
}

func (b *Bot) movieCallback(ev Event, a Action) error {
	switch a.Sub {
	case SubMenu:
		return b.movieMenu(ev)
	case SubAdd:
		return b.startAddMovie(ev)
	case SubCats:
		return b.movieCategoryFilter(ev)
	case SubList:
		return b.movieList(ev, false, int(a.ID), a.FieldInt())
	case SubDoneList:
		return b.movieList(ev, true, int(a.ID), 0)
	case SubPick:
		return b.movieDetail(ev, a.ID)
	case SubEdit:
		return b.startEditMovie(ev, a.ID)
	case SubDone:
		return b.startRateMovie(ev, a.ID)
	case SubDelete:
		if err := b.store.DeleteMovie(a.ID); err != nil {
			return err
		}
		b.edit(ev, "Deleted.", movieBackRow())
		return nil
	case SubRandom:
		return b.movieRandom(ev)
	case SubTops:
		return b.movieTopMenu(ev)
	case SubTop:
		return b.movieTop(ev, int(a.ID))
	}
	return nil
}

func movieBackRow() tgbotapi.InlineKeyboardMarkup {
	return rows(row(btn("⬅️ Back", callback(DomainMovie, SubMenu))))
}

func (b *Bot) movieCategoryFilter(ev Event) error {
	cats, err := b.store.GetMovieCategories()
	if err != nil {
		return err
	}
	kb := rows(row(btn("All", callbackID(DomainMovie, SubList, 0, "0"))))
	for _, c := range cats {
		kb.InlineKeyboard = append(kb.InlineKeyboard,
			row(btn(c.Name, callbackID(DomainMovie, SubList, 0, strconv.FormatInt(c.ID, 10)))))
	}
	kb.InlineKeyboard = append(kb.InlineKeyboard,
		row(btn("⬅️ Back", callback(DomainMovie, SubMenu))))
	b.edit(ev, "Which kind?", kb)
	return nil
}

func (b *Bot) movieList(ev Event, watched bool, page int, categoryID int64) error {
	movies, err := b.store.GetMovies(watched, categoryID)
	if err != nil {
		return err
	}
	title := "To watch"
	if watched {
		title = "Watched"
	}
	if len(movies) == 0 {
		b.edit(ev, title+": nothing here yet.", movieBackRow())
		return nil
	}

	items := make([]pickerItem, len(movies))
	for i, m := range movies {
		items[i] = pickerItem{ID: m.ID, Title: m.Title}
	}
	catField := strconv.FormatInt(categoryID, 10)
	kb := itemPicker(items, page,
		func(id int64) string { return callbackID(DomainMovie, SubPick, id) },
		func(p int) string {
			if watched {
				return callbackID(DomainMovie, SubDoneList, int64(p))
			}
			return callbackID(DomainMovie, SubList, int64(p), catField)
		},
		backButton("⬅️ Back", callback(DomainMovie, SubMenu)))
	b.edit(ev, title, kb)
	return nil
}

func (b *Bot) movieDetail(ev Event, id int64) error {
	m, err := b.store.GetMovie(id)
	if errors.Is(err, storage.ErrNotFound) {
		b.edit(ev, "Not found.", movieBackRow())
		return nil
	}
	if err != nil {
		return err
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "🎬 %s\n", m.Title)
	if m.Note != nil {
		fmt.Fprintf(&sb, "📝 %s\n", *m.Note)
	}
	if name := b.movieCategoryName(m.CategoryID); name != "" {
		fmt.Fprintf(&sb, "📂 %s\n", name)
	}
	if m.Watched {
		sb.WriteString(starLine(b.cfg.UserName(1), m.User1Rating) + "\n")
		sb.WriteString(starLine(b.cfg.UserName(2), m.User2Rating) + "\n")
	}

	markup := rows()
	if !m.Watched {
		markup.InlineKeyboard = append(markup.InlineKeyboard,
			row(btn("✅ Watched it", callbackID(DomainMovie, SubDone, m.ID))))
	}
	markup.InlineKeyboard = append(markup.InlineKeyboard,
		row(btn("✏️ Edit", callbackID(DomainMovie, SubEdit, m.ID))),
		row(btn("🗑 Delete", callbackID(DomainMovie, SubDelete, m.ID))),
		row(btn("⬅️ Back", callback(DomainMovie, SubMenu))))
	b.edit(ev, sb.String(), markup)
	return nil
}

func (b *Bot) movieCategoryName(id int64) string {
	cats, err := b.store.GetMovieCategories()
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

func (b *Bot) movieRandom(ev Event) error {
	var excludeID int64
	cats, err := b.store.GetMovieCategories()
	if err != nil {
		return err
	}
	for _, c := range cats {
		if c.Name == excludedRandomCategory {
			excludeID = c.ID
		}
	}

	m, err := b.store.RandomMovie(excludeID)
	if errors.Is(err, storage.ErrEmpty) {
		b.edit(ev, "Nothing to pick from.", movieBackRow())
		return nil
	}
	if err != nil {
		return err
	}
	b.edit(ev, fmt.Sprintf("🎲 Tonight: %s", m.Title), rows(
		row(btn("Details", callbackID(DomainMovie, SubPick, m.ID))),
		row(btn("⬅️ Back", callback(DomainMovie, SubMenu))),
	))
	return nil
}

func (b *Bot) movieTopMenu(ev Event) error {
	b.edit(ev, "Top 10 by", rows(
		row(btn("Both of us", callbackID(DomainMovie, SubTop, 0))),
		row(btn(b.cfg.UserName(1), callbackID(DomainMovie, SubTop, 1))),
		row(btn(b.cfg.UserName(2), callbackID(DomainMovie, SubTop, 2))),
		row(btn("⬅️ Back", callback(DomainMovie, SubMenu))),
	))
	return nil
}

func (b *Bot) movieTop(ev Event, slot int) error {
	movies, err := b.store.TopMovies(slot)
	if err != nil {
		return err
	}
	if len(movies) == 0 {
		b.edit(ev, "No rated movies yet.", movieBackRow())
		return nil
	}

	var sb strings.Builder
	sb.WriteString("🏆 Top 10\n")
	for i, m := range movies {
		fmt.Fprintf(&sb, "%d. %s (%s)\n", i+1, m.Title, topRatingLabel(slot, m.User1Rating, m.User2Rating))
	}
	b.edit(ev, sb.String(), movieBackRow())
	return nil
}

// topRatingLabel renders the sort key the top list used: one slot's rating,
// or the two-slot average with absent ratings counted as zero.
func topRatingLabel(slot int, r1, r2 *int) string {
	val := func(r *int) int {
		if r == nil {
			return 0
		}
		return *r
	}
	switch slot {
	case 1:
		return strconv.Itoa(val(r1))
	case 2:
		return strconv.Itoa(val(r2))
	default:
		return strconv.FormatFloat(float64(val(r1)+val(r2))/2, 'g', -1, 64)
	}
}

func (b *Bot) startAddMovie(ev Event) error {
	s := &Session{UserID: ev.UserID, ChatID: ev.ChatID, Domain: DomainMovie, Flow: "add"}
	b.engine.Start(s, map[string]Step{
		"title": {Expect: InputText, Run: func(s *Session, in Input) (string, error) {
			if strings.TrimSpace(in.Text) == "" || in.Text == skipToken {
				b.send(s.ChatID, "A title is required. What is the movie called?", nil)
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
			cats, err := b.store.GetMovieCategories()
			if err != nil {
				return "", err
			}
			b.send(s.ChatID, "Which kind?", categoryPicker(cats))
			return "category", nil
		}},
		"category": {Expect: InputSelect, Run: func(s *Session, in Input) (string, error) {
			if in.ID == NewCategoryID {
				b.send(s.ChatID, "Name the new category:", nil)
				return "newcat", nil
			}
			return "", b.commitAddMovie(s, in.ID)
		}},
		"newcat": {Expect: InputText, Run: func(s *Session, in Input) (string, error) {
			id, err := b.store.AddMovieCategory(in.Text)
			if err != nil {
				return "", err
			}
			return "", b.commitAddMovie(s, id)
		}},
	}, "title")
	b.send(ev.ChatID, "What is the movie called?", nil)
	return nil
}

func (b *Bot) commitAddMovie(s *Session, categoryID int64) error {
	title := s.Field("title")
	if title == nil {
		return fmt.Errorf("%w: title is required", storage.ErrValidation)
	}
	if _, err := b.store.AddMovie(*title, s.Field("note"), categoryID); err != nil {
		return err
	}
	b.send(s.ChatID, fmt.Sprintf("Added %q to the movie list.", *title), nil)
	return nil
}

func (b *Bot) startEditMovie(ev Event, id int64) error {
	if _, err := b.store.GetMovie(id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			b.edit(ev, "Not found.", movieBackRow())
			return nil
		}
		return err
	}

	s := &Session{UserID: ev.UserID, ChatID: ev.ChatID, Domain: DomainMovie, Flow: "edit", ItemID: id}
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
			if err := b.store.UpdateMovie(s.ItemID, s.Field("title"), s.Field("note")); err != nil {
				return "", err
			}
			b.send(s.ChatID, "Updated.", nil)
			return "", nil
		}},
	}, "title")
	b.send(ev.ChatID, "New title, or "+skipToken+" to keep the current one.", nil)
	return nil
}

func (b *Bot) startRateMovie(ev Event, id int64) error {
	m, err := b.store.GetMovie(id)
	if errors.Is(err, storage.ErrNotFound) {
		b.edit(ev, "Not found.", movieBackRow())
		return nil
	}
	if err != nil {
		return err
	}

	s := &Session{UserID: ev.UserID, ChatID: ev.ChatID, Domain: DomainMovie, Flow: "rate", ItemID: id}
	b.engine.Start(s, map[string]Step{
		"rate1": {Expect: InputRating, Run: func(s *Session, in Input) (string, error) {
			r := in.Rating
			s.Rating1 = &r
			if len(b.cfg.Users) < 2 {
				return "", b.commitRateMovie(s, nil)
			}
			b.send(s.ChatID, b.cfg.UserName(2)+", your rating:", ratingGrid())
			return "rate2", nil
		}},
		"rate2": {Expect: InputRating, Run: func(s *Session, in Input) (string, error) {
			r := in.Rating
			return "", b.commitRateMovie(s, &r)
		}},
	}, "rate1")
	b.send(ev.ChatID, fmt.Sprintf("Marking %q watched. %s, your rating:", m.Title, b.cfg.UserName(1)), ratingGrid())
	return nil
}

func (b *Bot) commitRateMovie(s *Session, r2 *int) error {
	if err := b.store.MarkMovieWatched(s.ItemID, s.Rating1, r2); err != nil {
		return err
	}
	b.send(s.ChatID, "Marked watched. 🍿", nil)
	return nil
}
