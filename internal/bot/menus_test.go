package bot

import (
	"fmt"
	"strconv"
	"testing"
)

func makeItems(n int) []pickerItem {
	items := make([]pickerItem, n)
	for i := range items {
		items[i] = pickerItem{ID: int64(i + 1), Title: fmt.Sprintf("item %d", i+1)}
	}
	return items
}

func pick(id int64) string { return callbackID(DomainMovie, SubPick, id) }
func page(p int) string    { return callbackID(DomainMovie, SubList, int64(p)) }

func TestItemPicker(t *testing.T) {
	t.Run("single page has no nav", func(t *testing.T) {
		kb := itemPicker(makeItems(3), 0, pick, page, nil)
		if len(kb.InlineKeyboard) != 3 {
			t.Errorf("got %d rows, want 3 item rows and no nav", len(kb.InlineKeyboard))
		}
	})

	t.Run("first page of many has only next", func(t *testing.T) {
		kb := itemPicker(makeItems(25), 0, pick, page, nil)
		if len(kb.InlineKeyboard) != pageSize+1 {
			t.Fatalf("got %d rows, want %d items plus one nav row", len(kb.InlineKeyboard), pageSize+1)
		}
		nav := kb.InlineKeyboard[pageSize]
		if len(nav) != 1 || *nav[0].CallbackData != page(1) {
			t.Errorf("nav row = %v, want a single next button to page 1", nav)
		}
	})

	t.Run("middle page has both directions", func(t *testing.T) {
		kb := itemPicker(makeItems(25), 1, pick, page, nil)
		nav := kb.InlineKeyboard[len(kb.InlineKeyboard)-1]
		if len(nav) != 2 {
			t.Fatalf("nav row has %d buttons, want prev and next", len(nav))
		}
		if *nav[0].CallbackData != page(0) || *nav[1].CallbackData != page(2) {
			t.Errorf("nav row = [%s, %s], want pages 0 and 2", *nav[0].CallbackData, *nav[1].CallbackData)
		}
	})

	t.Run("last partial page has only prev", func(t *testing.T) {
		kb := itemPicker(makeItems(25), 2, pick, page, nil)
		if len(kb.InlineKeyboard) != 5+1 {
			t.Fatalf("got %d rows, want 5 items plus one nav row", len(kb.InlineKeyboard))
		}
		nav := kb.InlineKeyboard[5]
		if len(nav) != 1 || *nav[0].CallbackData != page(1) {
			t.Errorf("nav row = %v, want a single prev button to page 1", nav)
		}
	})

	t.Run("back row trails everything", func(t *testing.T) {
		back := backButton("⬅️ Back", callback(DomainMovie, SubMenu))
		kb := itemPicker(makeItems(2), 0, pick, page, back)
		last := kb.InlineKeyboard[len(kb.InlineKeyboard)-1]
		if len(last) != 1 || *last[0].CallbackData != callback(DomainMovie, SubMenu) {
			t.Errorf("last row = %v, want the back button", last)
		}
	})

	t.Run("page rows carry the right items", func(t *testing.T) {
		kb := itemPicker(makeItems(25), 1, pick, page, nil)
		first := kb.InlineKeyboard[0][0]
		if first.Text != "item 11" || *first.CallbackData != pick(11) {
			t.Errorf("first row of page 1 = %q/%q, want item 11", first.Text, *first.CallbackData)
		}
	})

	t.Run("negative page clamps to zero", func(t *testing.T) {
		kb := itemPicker(makeItems(3), -2, pick, page, nil)
		if len(kb.InlineKeyboard) != 3 {
			t.Errorf("got %d rows, want the first page", len(kb.InlineKeyboard))
		}
	})
}

func TestRatingGrid(t *testing.T) {
	kb := ratingGrid()
	if len(kb.InlineKeyboard) != 3 {
		t.Fatalf("got %d rows, want two rating rows plus cancel", len(kb.InlineKeyboard))
	}

	n := 1
	for _, r := range kb.InlineKeyboard[:2] {
		if len(r) != 5 {
			t.Fatalf("rating row has %d buttons, want 5", len(r))
		}
		for _, b := range r {
			if b.Text != strconv.Itoa(n) {
				t.Errorf("button text = %q, want %d", b.Text, n)
			}
			a := ParseAction(*b.CallbackData)
			if a.Domain != DomainRate || a.Sub != SubVal || a.ID != int64(n) {
				t.Errorf("button callback = %q, want rate:val:%d", *b.CallbackData, n)
			}
			n++
		}
	}

	cancel := kb.InlineKeyboard[2][0]
	if *cancel.CallbackData != callback(DomainConv, SubCancel) {
		t.Errorf("last row callback = %q, want the cancel action", *cancel.CallbackData)
	}
}

func TestCategoryPicker(t *testing.T) {
	cats := testCategories(3)
	kb := categoryPicker(cats)
	if len(kb.InlineKeyboard) != 5 {
		t.Fatalf("got %d rows, want 3 categories plus create-new plus cancel", len(kb.InlineKeyboard))
	}

	for i, c := range cats {
		b := kb.InlineKeyboard[i][0]
		if b.Text != c.Name || *b.CallbackData != callbackID(DomainCat, SubPick, c.ID) {
			t.Errorf("row %d = %q/%q, want category %q", i, b.Text, *b.CallbackData, c.Name)
		}
	}

	newBtn := kb.InlineKeyboard[3][0]
	if a := ParseAction(*newBtn.CallbackData); a.Domain != DomainCat || a.Sub != SubNew {
		t.Errorf("create-new callback = %q, want cat:new", *newBtn.CallbackData)
	}
	cancelBtn := kb.InlineKeyboard[4][0]
	if *cancelBtn.CallbackData != callback(DomainConv, SubCancel) {
		t.Errorf("cancel callback = %q, want conv:cancel", *cancelBtn.CallbackData)
	}
}
