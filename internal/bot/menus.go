package bot

import (
	"fmt"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/avolkova/duolist/internal/models"
)

// Reply-keyboard labels for the root menu. These route by exact match
// before anything else.
const (
	LabelMovies     = "🎬 Movies"
	LabelActivities = "📋 Activities"
	LabelTrips      = "✈️ Trips"
	LabelVideos     = "🎥 Video ideas"
	LabelPhotos     = "📸 Photos"
	LabelGames      = "🎮 Games"
	LabelShops      = "🔞 Shops"
)

// pageSize is how many rows an item picker shows per page.
const pageSize = 10

// mainMenu is the persistent reply keyboard with one button per domain.
func mainMenu() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(LabelMovies),
			tgbotapi.NewKeyboardButton(LabelActivities),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(LabelTrips),
			tgbotapi.NewKeyboardButton(LabelVideos),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(LabelPhotos),
			tgbotapi.NewKeyboardButton(LabelGames),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(LabelShops),
		),
	)
	kb.ResizeKeyboard = true
	return kb
}

func btn(text, data string) tgbotapi.InlineKeyboardButton {
	return tgbotapi.NewInlineKeyboardButtonData(text, data)
}

func rows(r ...[]tgbotapi.InlineKeyboardButton) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(r...)
}

func row(b ...tgbotapi.InlineKeyboardButton) []tgbotapi.InlineKeyboardButton {
	return tgbotapi.NewInlineKeyboardRow(b...)
}

// pickerItem is one selectable row in a paginated list.
type pickerItem struct {
	ID    int64
	Title string
}

// itemPicker renders one page of items, one button per row. pickData(id)
// builds the selection callback; pageData(page) builds the prev/next
// callbacks, emitted only where pages exist in that direction. back, when
// non-nil, is appended as a trailing row.
func itemPicker(items []pickerItem, page int, pickData func(id int64) string, pageData func(page int) string, back *tgbotapi.InlineKeyboardButton) tgbotapi.InlineKeyboardMarkup {
	if page < 0 {
		page = 0
	}
	start := page * pageSize
	if start > len(items) {
		start = len(items)
	}
	end := start + pageSize
	if end > len(items) {
		end = len(items)
	}

	var kb [][]tgbotapi.InlineKeyboardButton
	for _, it := range items[start:end] {
		kb = append(kb, row(btn(it.Title, pickData(it.ID))))
	}

	var nav []tgbotapi.InlineKeyboardButton
	if page > 0 {
		nav = append(nav, btn("⬅️", pageData(page-1)))
	}
	if end < len(items) {
		nav = append(nav, btn("➡️", pageData(page+1)))
	}
	if len(nav) > 0 {
		kb = append(kb, nav)
	}

	if back != nil {
		kb = append(kb, row(*back))
	}
	return tgbotapi.InlineKeyboardMarkup{InlineKeyboard: kb}
}

// categoryPicker renders one button per category, a "create new" sentinel
// row and a cancel row. Selections land in the active session as
// cat:pick/cat:new callbacks.
func categoryPicker(cats []models.Category) tgbotapi.InlineKeyboardMarkup {
	var kb [][]tgbotapi.InlineKeyboardButton
	for _, c := range cats {
		kb = append(kb, row(btn(c.Name, callbackID(DomainCat, SubPick, c.ID))))
	}
	kb = append(kb, row(btn("➕ New category", callback(DomainCat, SubNew))))
	kb = append(kb, row(btn("❌ Cancel", callback(DomainConv, SubCancel))))
	return tgbotapi.InlineKeyboardMarkup{InlineKeyboard: kb}
}

// ratingGrid is the 1-10 picker, two rows of five, plus a cancel row.
func ratingGrid() tgbotapi.InlineKeyboardMarkup {
	var kb [][]tgbotapi.InlineKeyboardButton
	for base := 1; base <= 6; base += 5 {
		var r []tgbotapi.InlineKeyboardButton
		for n := base; n < base+5; n++ {
			r = append(r, btn(strconv.Itoa(n), callbackID(DomainRate, SubVal, int64(n))))
		}
		kb = append(kb, r)
	}
	kb = append(kb, row(btn("❌ Cancel", callback(DomainConv, SubCancel))))
	return tgbotapi.InlineKeyboardMarkup{InlineKeyboard: kb}
}

func backButton(text, data string) *tgbotapi.InlineKeyboardButton {
	b := btn(text, data)
	return &b
}

// starLine formats an optional rating for detail views.
func starLine(label string, rating *int) string {
	if rating == nil {
		return fmt.Sprintf("%s: —", label)
	}
	return fmt.Sprintf("%s: %d/10", label, *rating)
}
