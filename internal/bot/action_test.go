package bot

import "testing"

func TestParseAction(t *testing.T) {
	tests := []struct {
		name string
		data string
		want Action
	}{
		{"domain and sub", "movie:add", Action{Domain: DomainMovie, Sub: SubAdd}},
		{"with id", "movie:pick:12", Action{Domain: DomainMovie, Sub: SubPick, ID: 12}},
		{"with field", "movie:list:2:7", Action{Domain: DomainMovie, Sub: SubList, ID: 2, Field: "7"}},
		{"with value", "game:edit:3:note:x", Action{Domain: DomainGame, Sub: SubEdit, ID: 3, Field: "note", Value: "x"}},
		{"negative id", "cat:pick:-1", Action{Domain: DomainCat, Sub: SubPick, ID: -1}},
		{"bare domain", "movie", Action{}},
		{"empty", "", Action{}},
		{"empty segments", ":", Action{}},
		{"non-numeric id", "movie:pick:abc", Action{}},
		{"free text", "hello there", Action{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseAction(tt.data); got != tt.want {
				t.Errorf("ParseAction(%q) = %+v, want %+v", tt.data, got, tt.want)
			}
		})
	}
}

func TestCallbackRoundtrip(t *testing.T) {
	data := callbackID(DomainShop, SubList, 3, "9")
	if data != "shop:list:3:9" {
		t.Errorf("callbackID() = %q, want %q", data, "shop:list:3:9")
	}
	got := ParseAction(data)
	if got.Domain != DomainShop || got.Sub != SubList || got.ID != 3 || got.FieldInt() != 9 {
		t.Errorf("ParseAction(callbackID(...)) = %+v, lost information", got)
	}
}

func TestFieldInt(t *testing.T) {
	if got := (Action{Field: "42"}).FieldInt(); got != 42 {
		t.Errorf("FieldInt() = %d, want 42", got)
	}
	if got := (Action{Field: "nope"}).FieldInt(); got != 0 {
		t.Errorf("FieldInt() on garbage = %d, want 0", got)
	}
	if got := (Action{}).FieldInt(); got != 0 {
		t.Errorf("FieldInt() on empty = %d, want 0", got)
	}
}
