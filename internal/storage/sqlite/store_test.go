package sqlite

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/avolkova/duolist/internal/models"
	"github.com/avolkova/duolist/internal/storage"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	store := New(filepath.Join(t.TempDir(), "test.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init test store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func str(s string) *string { return &s }
func num(n int) *int       { return &n }

func movieCategoryID(t *testing.T, store *Store, name string) int64 {
	t.Helper()
	cats, err := store.GetMovieCategories()
	if err != nil {
		t.Fatalf("GetMovieCategories() error: %v", err)
	}
	for _, c := range cats {
		if c.Name == name {
			return c.ID
		}
	}
	t.Fatalf("seed category %q not found", name)
	return 0
}

func TestLoadBeforeInit(t *testing.T) {
	store := New(filepath.Join(t.TempDir(), "missing.db"))
	if err := store.Load(); err == nil {
		t.Error("Load() on missing database = nil, want error")
	}
}

func TestSeedCategories(t *testing.T) {
	store := setupTestStore(t)

	cats, err := store.GetMovieCategories()
	if err != nil {
		t.Fatalf("GetMovieCategories() error: %v", err)
	}
	if len(cats) != 3 {
		t.Fatalf("GetMovieCategories() returned %d categories, want 3", len(cats))
	}

	tripCats, err := store.GetTripCategories()
	if err != nil {
		t.Fatalf("GetTripCategories() error: %v", err)
	}
	if len(tripCats) != 3 {
		t.Errorf("GetTripCategories() returned %d categories, want 3", len(tripCats))
	}

	shopCats, err := store.GetShopCategories()
	if err != nil {
		t.Fatalf("GetShopCategories() error: %v", err)
	}
	if len(shopCats) != 1 {
		t.Errorf("GetShopCategories() returned %d categories, want 1", len(shopCats))
	}
}

func TestInitIsIdempotent(t *testing.T) {
	store := setupTestStore(t)
	if err := store.runMigrations(); err != nil {
		t.Fatalf("second migration run failed: %v", err)
	}
	cats, err := store.GetMovieCategories()
	if err != nil {
		t.Fatalf("GetMovieCategories() error: %v", err)
	}
	if len(cats) != 3 {
		t.Errorf("seed rows duplicated: got %d categories, want 3", len(cats))
	}
}

func TestAddMovie(t *testing.T) {
	store := setupTestStore(t)
	catID := movieCategoryID(t, store, "Film")

	t.Run("roundtrip", func(t *testing.T) {
		id, err := store.AddMovie("Alien", str("rewatch"), catID)
		if err != nil {
			t.Fatalf("AddMovie() error: %v", err)
		}

		m, err := store.GetMovie(id)
		if err != nil {
			t.Fatalf("GetMovie() error: %v", err)
		}
		if m.Title != "Alien" {
			t.Errorf("Title = %q, want %q", m.Title, "Alien")
		}
		if m.Note == nil || *m.Note != "rewatch" {
			t.Errorf("Note = %v, want %q", m.Note, "rewatch")
		}
		if m.CategoryID != catID {
			t.Errorf("CategoryID = %d, want %d", m.CategoryID, catID)
		}
		if m.Watched {
			t.Error("Watched = true for a fresh movie, want false")
		}
		if m.User1Rating != nil || m.User2Rating != nil {
			t.Error("fresh movie has ratings, want none")
		}
		if m.CreatedAt.IsZero() {
			t.Error("CreatedAt is zero, want store default")
		}
	})

	t.Run("nil note stores NULL", func(t *testing.T) {
		id, err := store.AddMovie("Heat", nil, catID)
		if err != nil {
			t.Fatalf("AddMovie() error: %v", err)
		}
		m, err := store.GetMovie(id)
		if err != nil {
			t.Fatalf("GetMovie() error: %v", err)
		}
		if m.Note != nil {
			t.Errorf("Note = %q, want nil", *m.Note)
		}
	})

	t.Run("empty title rejected", func(t *testing.T) {
		if _, err := store.AddMovie("  ", nil, catID); !errors.Is(err, storage.ErrValidation) {
			t.Errorf("AddMovie(blank title) error = %v, want ErrValidation", err)
		}
	})
}

func TestGetMovieNotFound(t *testing.T) {
	store := setupTestStore(t)
	if _, err := store.GetMovie(9999); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("GetMovie(missing) error = %v, want ErrNotFound", err)
	}
}

func TestDeleteMovie(t *testing.T) {
	store := setupTestStore(t)
	catID := movieCategoryID(t, store, "Film")

	id, err := store.AddMovie("Doomed", nil, catID)
	if err != nil {
		t.Fatalf("AddMovie() error: %v", err)
	}
	if err := store.DeleteMovie(id); err != nil {
		t.Fatalf("DeleteMovie() error: %v", err)
	}
	if _, err := store.GetMovie(id); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("GetMovie(deleted) error = %v, want ErrNotFound", err)
	}

	// Deleting an id that no longer resolves is a silent no-op.
	if err := store.DeleteMovie(id); err != nil {
		t.Errorf("DeleteMovie(missing) error = %v, want nil", err)
	}
}

func TestUpdateMoviePartial(t *testing.T) {
	store := setupTestStore(t)
	catID := movieCategoryID(t, store, "Film")

	id, err := store.AddMovie("Old Title", str("keep me"), catID)
	if err != nil {
		t.Fatalf("AddMovie() error: %v", err)
	}

	t.Run("title only changes title", func(t *testing.T) {
		if err := store.UpdateMovie(id, str("New Title"), nil); err != nil {
			t.Fatalf("UpdateMovie() error: %v", err)
		}
		m, err := store.GetMovie(id)
		if err != nil {
			t.Fatalf("GetMovie() error: %v", err)
		}
		if m.Title != "New Title" {
			t.Errorf("Title = %q, want %q", m.Title, "New Title")
		}
		if m.Note == nil || *m.Note != "keep me" {
			t.Errorf("Note = %v, want untouched %q", m.Note, "keep me")
		}
	})

	t.Run("nothing supplied is a no-op", func(t *testing.T) {
		if err := store.UpdateMovie(id, nil, nil); err != nil {
			t.Fatalf("UpdateMovie(nil, nil) error: %v", err)
		}
		m, err := store.GetMovie(id)
		if err != nil {
			t.Fatalf("GetMovie() error: %v", err)
		}
		if m.Title != "New Title" || m.Note == nil || *m.Note != "keep me" {
			t.Error("no-op update changed the row")
		}
	})
}

func TestMarkMovieWatched(t *testing.T) {
	store := setupTestStore(t)
	catID := movieCategoryID(t, store, "Film")

	id, err := store.AddMovie("Rated", nil, catID)
	if err != nil {
		t.Fatalf("AddMovie() error: %v", err)
	}
	if err := store.MarkMovieWatched(id, num(8), num(6)); err != nil {
		t.Fatalf("MarkMovieWatched() error: %v", err)
	}

	m, err := store.GetMovie(id)
	if err != nil {
		t.Fatalf("GetMovie() error: %v", err)
	}
	if !m.Watched {
		t.Error("Watched = false after MarkMovieWatched")
	}
	if m.User1Rating == nil || *m.User1Rating != 8 {
		t.Errorf("User1Rating = %v, want 8", m.User1Rating)
	}
	if m.User2Rating == nil || *m.User2Rating != 6 {
		t.Errorf("User2Rating = %v, want 6", m.User2Rating)
	}
}

func TestGetMovies(t *testing.T) {
	store := setupTestStore(t)
	filmID := movieCategoryID(t, store, "Film")
	seriesID := movieCategoryID(t, store, "Series")

	a, _ := store.AddMovie("A", nil, filmID)
	bID, _ := store.AddMovie("B", nil, seriesID)
	c, _ := store.AddMovie("C", nil, filmID)
	if err := store.MarkMovieWatched(c, nil, nil); err != nil {
		t.Fatalf("MarkMovieWatched() error: %v", err)
	}

	t.Run("watched filter", func(t *testing.T) {
		unwatched, err := store.GetMovies(false, 0)
		if err != nil {
			t.Fatalf("GetMovies() error: %v", err)
		}
		if len(unwatched) != 2 {
			t.Fatalf("GetMovies(false, 0) returned %d movies, want 2", len(unwatched))
		}
		watched, err := store.GetMovies(true, 0)
		if err != nil {
			t.Fatalf("GetMovies() error: %v", err)
		}
		if len(watched) != 1 || watched[0].ID != c {
			t.Errorf("GetMovies(true, 0) = %v, want just id %d", watched, c)
		}
	})

	t.Run("category filter", func(t *testing.T) {
		series, err := store.GetMovies(false, seriesID)
		if err != nil {
			t.Fatalf("GetMovies() error: %v", err)
		}
		if len(series) != 1 || series[0].ID != bID {
			t.Errorf("GetMovies(false, series) = %v, want just id %d", series, bID)
		}
		_ = a
	})
}

func TestRandomMovie(t *testing.T) {
	store := setupTestStore(t)
	filmID := movieCategoryID(t, store, "Film")
	seriesID := movieCategoryID(t, store, "Series")

	t.Run("empty set returns ErrEmpty", func(t *testing.T) {
		if _, err := store.RandomMovie(0); !errors.Is(err, storage.ErrEmpty) {
			t.Errorf("RandomMovie() on empty table error = %v, want ErrEmpty", err)
		}
	})

	ids := map[int64]bool{}
	for _, title := range []string{"X", "Y", "Z"} {
		id, err := store.AddMovie(title, nil, filmID)
		if err != nil {
			t.Fatalf("AddMovie() error: %v", err)
		}
		ids[id] = true
	}
	excluded, _ := store.AddMovie("A Series", nil, seriesID)

	t.Run("always a member of the matching set", func(t *testing.T) {
		for i := 0; i < 20; i++ {
			m, err := store.RandomMovie(seriesID)
			if err != nil {
				t.Fatalf("RandomMovie() error: %v", err)
			}
			if !ids[m.ID] {
				t.Fatalf("RandomMovie() returned id %d, not in the eligible set", m.ID)
			}
			if m.ID == excluded {
				t.Fatal("RandomMovie() returned a movie from the excluded category")
			}
		}
	})

	t.Run("watched movies excluded", func(t *testing.T) {
		for id := range ids {
			if err := store.MarkMovieWatched(id, nil, nil); err != nil {
				t.Fatalf("MarkMovieWatched() error: %v", err)
			}
		}
		if _, err := store.RandomMovie(seriesID); !errors.Is(err, storage.ErrEmpty) {
			t.Errorf("RandomMovie() with all candidates watched error = %v, want ErrEmpty", err)
		}
	})
}

func TestTopMovies(t *testing.T) {
	store := setupTestStore(t)
	catID := movieCategoryID(t, store, "Film")

	add := func(title string, r1, r2 *int) int64 {
		t.Helper()
		id, err := store.AddMovie(title, nil, catID)
		if err != nil {
			t.Fatalf("AddMovie() error: %v", err)
		}
		if err := store.MarkMovieWatched(id, r1, r2); err != nil {
			t.Fatalf("MarkMovieWatched() error: %v", err)
		}
		return id
	}

	t.Run("never more than 10", func(t *testing.T) {
		for i := 0; i < 12; i++ {
			add("bulk", num(5), num(5))
		}
		top, err := store.TopMovies(0)
		if err != nil {
			t.Fatalf("TopMovies() error: %v", err)
		}
		if len(top) > 10 {
			t.Errorf("TopMovies() returned %d rows, want at most 10", len(top))
		}
	})

	t.Run("sorted descending by slot rating", func(t *testing.T) {
		store := setupTestStore(t)
		catID := movieCategoryID(t, store, "Film")
		for i, r := range []int{3, 9, 6} {
			id, _ := store.AddMovie([]string{"low", "high", "mid"}[i], nil, catID)
			if err := store.MarkMovieWatched(id, num(r), nil); err != nil {
				t.Fatalf("MarkMovieWatched() error: %v", err)
			}
		}
		top, err := store.TopMovies(1)
		if err != nil {
			t.Fatalf("TopMovies(1) error: %v", err)
		}
		want := []string{"high", "mid", "low"}
		if len(top) != 3 {
			t.Fatalf("TopMovies(1) returned %d rows, want 3", len(top))
		}
		for i, m := range top {
			if m.Title != want[i] {
				t.Errorf("TopMovies(1)[%d] = %q, want %q", i, m.Title, want[i])
			}
		}
	})

	t.Run("unwatched and unrated excluded", func(t *testing.T) {
		store := setupTestStore(t)
		catID := movieCategoryID(t, store, "Film")
		store.AddMovie("unwatched", nil, catID)
		id, _ := store.AddMovie("watched unrated", nil, catID)
		store.MarkMovieWatched(id, nil, nil)
		rated, _ := store.AddMovie("rated", nil, catID)
		if err := store.MarkMovieWatched(rated, num(7), nil); err != nil {
			t.Fatalf("MarkMovieWatched() error: %v", err)
		}

		top, err := store.TopMovies(0)
		if err != nil {
			t.Fatalf("TopMovies() error: %v", err)
		}
		if len(top) != 1 || top[0].ID != rated {
			t.Errorf("TopMovies(0) = %v, want just the rated movie", top)
		}
	})

	// An absent rating and an explicit zero collapse to the same average.
	// That matches the long-standing behavior and is pinned here on purpose.
	t.Run("absent rating averages as zero", func(t *testing.T) {
		store := setupTestStore(t)
		catID := movieCategoryID(t, store, "Film")

		half, _ := store.AddMovie("half rated", nil, catID)
		store.MarkMovieWatched(half, num(8), nil) // average (8+0)/2 = 4
		full, _ := store.AddMovie("fully rated", nil, catID)
		store.MarkMovieWatched(full, num(5), num(5)) // average 5

		top, err := store.TopMovies(0)
		if err != nil {
			t.Fatalf("TopMovies() error: %v", err)
		}
		if len(top) != 2 {
			t.Fatalf("TopMovies() returned %d rows, want 2", len(top))
		}
		if top[0].ID != full || top[1].ID != half {
			t.Errorf("TopMovies(0) order = [%q, %q], want the fully rated movie first",
				top[0].Title, top[1].Title)
		}
	})
}

func TestMovieCategories(t *testing.T) {
	store := setupTestStore(t)

	id, err := store.AddMovieCategory("Documentary")
	if err != nil {
		t.Fatalf("AddMovieCategory() error: %v", err)
	}
	cats, err := store.GetMovieCategories()
	if err != nil {
		t.Fatalf("GetMovieCategories() error: %v", err)
	}
	found := false
	for _, c := range cats {
		if c.ID == id && c.Name == "Documentary" {
			found = true
		}
	}
	if !found {
		t.Error("added category not returned by GetMovieCategories()")
	}

	if _, err := store.AddMovieCategory("Documentary"); err == nil {
		t.Error("AddMovieCategory(duplicate) = nil, want uniqueness error")
	}
}

func TestActivities(t *testing.T) {
	store := setupTestStore(t)

	id, err := store.AddActivity("Picnic", str("bring snacks"))
	if err != nil {
		t.Fatalf("AddActivity() error: %v", err)
	}

	act, err := store.GetActivity(id)
	if err != nil {
		t.Fatalf("GetActivity() error: %v", err)
	}
	if act.Status != models.ActivityPlanned {
		t.Errorf("Status = %q, want %q", act.Status, models.ActivityPlanned)
	}

	if err := store.MarkActivityDone(id); err != nil {
		t.Fatalf("MarkActivityDone() error: %v", err)
	}
	done, err := store.GetActivities(models.ActivityDone)
	if err != nil {
		t.Fatalf("GetActivities() error: %v", err)
	}
	if len(done) != 1 || done[0].ID != id {
		t.Errorf("GetActivities(done) = %v, want just id %d", done, id)
	}
	planned, err := store.GetActivities(models.ActivityPlanned)
	if err != nil {
		t.Fatalf("GetActivities() error: %v", err)
	}
	if len(planned) != 0 {
		t.Errorf("GetActivities(planned) returned %d rows after completion, want 0", len(planned))
	}
}

func TestTrips(t *testing.T) {
	store := setupTestStore(t)
	cats, err := store.GetTripCategories()
	if err != nil || len(cats) == 0 {
		t.Fatalf("GetTripCategories() = %v, %v", cats, err)
	}
	catID := cats[0].ID

	id, err := store.AddTrip("Lisbon", nil, catID)
	if err != nil {
		t.Fatalf("AddTrip() error: %v", err)
	}
	if err := store.UpdateTrip(id, nil, str("in spring")); err != nil {
		t.Fatalf("UpdateTrip() error: %v", err)
	}

	trip, err := store.GetTrip(id)
	if err != nil {
		t.Fatalf("GetTrip() error: %v", err)
	}
	if trip.Title != "Lisbon" {
		t.Errorf("Title = %q, want untouched %q", trip.Title, "Lisbon")
	}
	if trip.Note == nil || *trip.Note != "in spring" {
		t.Errorf("Note = %v, want %q", trip.Note, "in spring")
	}

	other, err := store.GetTrips(catID + 1000)
	if err != nil {
		t.Fatalf("GetTrips() error: %v", err)
	}
	if len(other) != 0 {
		t.Errorf("GetTrips(other category) returned %d rows, want 0", len(other))
	}
}

func TestVideoIdeas(t *testing.T) {
	store := setupTestStore(t)

	id, err := store.AddVideoIdea("transition cut", str("file-abc"))
	if err != nil {
		t.Fatalf("AddVideoIdea() error: %v", err)
	}

	v, err := store.GetVideoIdea(id)
	if err != nil {
		t.Fatalf("GetVideoIdea() error: %v", err)
	}
	if v.MediaRef == nil || *v.MediaRef != "file-abc" {
		t.Errorf("MediaRef = %v, want %q", v.MediaRef, "file-abc")
	}
	if v.Status != models.VideoTodo {
		t.Errorf("Status = %q, want %q", v.Status, models.VideoTodo)
	}

	if err := store.MarkVideoIdeaDone(id); err != nil {
		t.Fatalf("MarkVideoIdeaDone() error: %v", err)
	}
	todo, err := store.GetVideoIdeas(models.VideoTodo)
	if err != nil {
		t.Fatalf("GetVideoIdeas() error: %v", err)
	}
	if len(todo) != 0 {
		t.Errorf("GetVideoIdeas(todo) returned %d rows after completion, want 0", len(todo))
	}
}

func TestPhotoCategories(t *testing.T) {
	store := setupTestStore(t)

	id, err := store.AddPhotoCategory("golden hour", str("https://example.com"), nil)
	if err != nil {
		t.Fatalf("AddPhotoCategory() error: %v", err)
	}
	if err := store.UpdatePhotoCategory(id, nil, nil, str("warm light only")); err != nil {
		t.Fatalf("UpdatePhotoCategory() error: %v", err)
	}

	c, err := store.GetPhotoCategory(id)
	if err != nil {
		t.Fatalf("GetPhotoCategory() error: %v", err)
	}
	if c.Title != "golden hour" {
		t.Errorf("Title = %q, want untouched %q", c.Title, "golden hour")
	}
	if c.Link == nil || *c.Link != "https://example.com" {
		t.Errorf("Link = %v, want untouched link", c.Link)
	}
	if c.Description == nil || *c.Description != "warm light only" {
		t.Errorf("Description = %v, want %q", c.Description, "warm light only")
	}
}

func TestGames(t *testing.T) {
	store := setupTestStore(t)

	id, err := store.AddGame("Portal 2", nil, str("puzzle"))
	if err != nil {
		t.Fatalf("AddGame() error: %v", err)
	}

	t.Run("random over pending", func(t *testing.T) {
		g, err := store.RandomGame()
		if err != nil {
			t.Fatalf("RandomGame() error: %v", err)
		}
		if g.ID != id {
			t.Errorf("RandomGame() = id %d, want %d", g.ID, id)
		}
	})

	t.Run("done with ratings", func(t *testing.T) {
		if err := store.MarkGameDone(id, num(10), num(9)); err != nil {
			t.Fatalf("MarkGameDone() error: %v", err)
		}
		g, err := store.GetGame(id)
		if err != nil {
			t.Fatalf("GetGame() error: %v", err)
		}
		if g.Status != models.GameDone {
			t.Errorf("Status = %q, want %q", g.Status, models.GameDone)
		}
		if g.User1Rating == nil || *g.User1Rating != 10 {
			t.Errorf("User1Rating = %v, want 10", g.User1Rating)
		}

		if _, err := store.RandomGame(); !errors.Is(err, storage.ErrEmpty) {
			t.Errorf("RandomGame() with no pending games error = %v, want ErrEmpty", err)
		}
	})

	t.Run("top list", func(t *testing.T) {
		top, err := store.TopGames(0)
		if err != nil {
			t.Fatalf("TopGames() error: %v", err)
		}
		if len(top) != 1 || top[0].ID != id {
			t.Errorf("TopGames(0) = %v, want just id %d", top, id)
		}
	})
}

func TestShopEntries(t *testing.T) {
	store := setupTestStore(t)
	cats, err := store.GetShopCategories()
	if err != nil || len(cats) == 0 {
		t.Fatalf("GetShopCategories() = %v, %v", cats, err)
	}
	catID := cats[0].ID

	id, err := store.AddShopEntry("Candles", str("https://shop.example"), str("the nice ones"), catID)
	if err != nil {
		t.Fatalf("AddShopEntry() error: %v", err)
	}

	entries, err := store.GetShopEntries(catID)
	if err != nil {
		t.Fatalf("GetShopEntries() error: %v", err)
	}
	if len(entries) != 1 || entries[0].ID != id {
		t.Errorf("GetShopEntries() = %v, want just id %d", entries, id)
	}

	if err := store.DeleteShopEntry(id); err != nil {
		t.Fatalf("DeleteShopEntry() error: %v", err)
	}
	if _, err := store.GetShopEntry(id); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("GetShopEntry(deleted) error = %v, want ErrNotFound", err)
	}
}
