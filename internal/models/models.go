package models

import "time"

// Movie is a watch-list entry. Ratings are per user slot and only set once
// the movie is marked watched.
type Movie struct {
	ID          int64
	Title       string
	Note        *string
	CategoryID  int64
	User1Rating *int
	User2Rating *int
	Watched     bool
	CreatedAt   time.Time
}

// Category is a named lookup row shared by movies, trips and shop entries.
type Category struct {
	ID   int64
	Name string
}

// Activity statuses.
const (
	ActivityPlanned = "planned"
	ActivityDone    = "done"
)

type Activity struct {
	ID        int64
	Title     string
	Note      *string
	Status    string
	CreatedAt time.Time
}

type Trip struct {
	ID         int64
	Title      string
	Note       *string
	CategoryID int64
	CreatedAt  time.Time
}

// VideoIdea statuses.
const (
	VideoTodo = "todo"
	VideoDone = "done"
)

// VideoIdea is a short-video idea. MediaRef is an opaque transport-issued
// reference to an attached clip, stored verbatim.
type VideoIdea struct {
	ID        int64
	Title     string
	MediaRef  *string
	Status    string
	CreatedAt time.Time
}

// PhotoCategory is purely informational and carries no lifecycle flag.
type PhotoCategory struct {
	ID          int64
	Title       string
	Link        *string
	Description *string
}

// Game statuses.
const (
	GamePending = "pending"
	GameDone    = "done"
)

type Game struct {
	ID          int64
	Title       string
	Note        *string
	Genre       *string
	Status      string
	User1Rating *int
	User2Rating *int
	CreatedAt   time.Time
}

type ShopEntry struct {
	ID          int64
	Title       string
	Link        *string
	Description *string
	CategoryID  int64
}
