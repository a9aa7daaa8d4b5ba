package bot

import (
	"strconv"
	"strings"
)

// Domain names the list a callback acts on. The reserved domains cat, rate
// and conv address the active conversation instead of a list.
type Domain string

const (
	DomainMovie    Domain = "movie"
	DomainActivity Domain = "act"
	DomainTrip     Domain = "trip"
	DomainVideo    Domain = "video"
	DomainPhoto    Domain = "photo"
	DomainGame     Domain = "game"
	DomainShop     Domain = "shop"
	DomainMenu     Domain = "menu"
	DomainCat      Domain = "cat"
	DomainRate     Domain = "rate"
	DomainConv     Domain = "conv"
)

// Sub is the operation requested within a domain.
type Sub string

const (
	SubMenu     Sub = "menu"
	SubAdd      Sub = "add"
	SubList     Sub = "list"
	SubDoneList Sub = "donelist"
	SubCats     Sub = "cats"
	SubPick     Sub = "pick"
	SubEdit     Sub = "edit"
	SubDone     Sub = "done"
	SubDelete   Sub = "del"
	SubRandom   Sub = "random"
	SubTop      Sub = "top"
	SubTops     Sub = "tops"
	SubMain     Sub = "main"
	SubNew      Sub = "new"
	SubVal      Sub = "val"
	SubCancel   Sub = "cancel"
)

// Action is the decoded form of a callback identifier
// `domain:sub[:id[:field[:value]]]`. Callback data that does not parse yields
// a zero Action, which matches no routing rule.
type Action struct {
	Domain Domain
	Sub    Sub
	ID     int64
	Field  string
	Value  string
}

// ParseAction decodes callback data. The id segment must be an integer;
// anything malformed produces a zero Action.
func ParseAction(data string) Action {
	parts := strings.SplitN(data, ":", 5)
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return Action{}
	}

	a := Action{Domain: Domain(parts[0]), Sub: Sub(parts[1])}
	if len(parts) > 2 {
		id, err := strconv.ParseInt(parts[2], 10, 64)
		if err != nil {
			return Action{}
		}
		a.ID = id
	}
	if len(parts) > 3 {
		a.Field = parts[3]
	}
	if len(parts) > 4 {
		a.Value = parts[4]
	}
	return a
}

// FieldInt reads the field segment as an integer, 0 when absent or malformed.
func (a Action) FieldInt() int64 {
	n, err := strconv.ParseInt(a.Field, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// callback builds callback data from a domain, sub and optional trailing
// segments.
func callback(d Domain, s Sub, rest ...string) string {
	parts := append([]string{string(d), string(s)}, rest...)
	return strings.Join(parts, ":")
}

func callbackID(d Domain, s Sub, id int64, rest ...string) string {
	return callback(d, s, append([]string{strconv.FormatInt(id, 10)}, rest...)...)
}
