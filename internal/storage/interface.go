package storage

import "github.com/avolkova/duolist/internal/models"

// Provider is the narrow persistence contract the bot core runs against.
// Optional fields travel as pointers: nil in an Add call stores NULL, nil in
// an Update call leaves the column untouched.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error
	Location() string

	// Movies
	AddMovie(title string, note *string, categoryID int64) (int64, error)
	GetMovie(id int64) (models.Movie, error)
	// GetMovies lists by watched flag; categoryID 0 means all categories.
	GetMovies(watched bool, categoryID int64) ([]models.Movie, error)
	UpdateMovie(id int64, title, note *string) error
	MarkMovieWatched(id int64, user1Rating, user2Rating *int) error
	DeleteMovie(id int64) error
	// RandomMovie picks uniformly among unwatched movies, excluding the given
	// category when excludeCategoryID is non-zero. Returns ErrEmpty when no
	// row matches.
	RandomMovie(excludeCategoryID int64) (models.Movie, error)
	// TopMovies returns up to 10 watched movies sorted by the given user
	// slot's rating (1 or 2), or by the two-slot average for slot 0.
	TopMovies(userSlot int) ([]models.Movie, error)
	GetMovieCategories() ([]models.Category, error)
	AddMovieCategory(name string) (int64, error)

	// Activities
	AddActivity(title string, note *string) (int64, error)
	GetActivity(id int64) (models.Activity, error)
	GetActivities(status string) ([]models.Activity, error)
	UpdateActivity(id int64, title, note *string) error
	MarkActivityDone(id int64) error
	DeleteActivity(id int64) error

	// Trips
	AddTrip(title string, note *string, categoryID int64) (int64, error)
	GetTrip(id int64) (models.Trip, error)
	GetTrips(categoryID int64) ([]models.Trip, error)
	UpdateTrip(id int64, title, note *string) error
	DeleteTrip(id int64) error
	GetTripCategories() ([]models.Category, error)
	AddTripCategory(name string) (int64, error)

	// Video ideas
	AddVideoIdea(title string, mediaRef *string) (int64, error)
	GetVideoIdea(id int64) (models.VideoIdea, error)
	GetVideoIdeas(status string) ([]models.VideoIdea, error)
	MarkVideoIdeaDone(id int64) error
	DeleteVideoIdea(id int64) error

	// Photo categories
	AddPhotoCategory(title string, link, description *string) (int64, error)
	GetPhotoCategory(id int64) (models.PhotoCategory, error)
	GetPhotoCategories() ([]models.PhotoCategory, error)
	UpdatePhotoCategory(id int64, title, link, description *string) error

	// Games
	AddGame(title string, note, genre *string) (int64, error)
	GetGame(id int64) (models.Game, error)
	GetGames(status string) ([]models.Game, error)
	UpdateGame(id int64, title, note, genre *string) error
	MarkGameDone(id int64, user1Rating, user2Rating *int) error
	DeleteGame(id int64) error
	RandomGame() (models.Game, error)
	TopGames(userSlot int) ([]models.Game, error)

	// Shop entries
	AddShopEntry(title string, link, description *string, categoryID int64) (int64, error)
	GetShopEntry(id int64) (models.ShopEntry, error)
	// GetShopEntries lists by category; categoryID 0 means all.
	GetShopEntries(categoryID int64) ([]models.ShopEntry, error)
	DeleteShopEntry(id int64) error
	GetShopCategories() ([]models.Category, error)
	AddShopCategory(name string) (int64, error)
}
