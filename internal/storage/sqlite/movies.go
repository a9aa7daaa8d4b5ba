package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/avolkova/duolist/internal/models"
	"github.com/avolkova/duolist/internal/storage"
)

const movieCols = "id, title, note, category_id, user1_rating, user2_rating, watched, created_at"

func scanMovie(row interface{ Scan(...any) error }) (models.Movie, error) {
	var m models.Movie
	var note sql.NullString
	var r1, r2 sql.NullInt64
	var createdAt string

	err := row.Scan(&m.ID, &m.Title, &note, &m.CategoryID, &r1, &r2, &m.Watched, &createdAt)
	if err != nil {
		return models.Movie{}, err
	}
	m.Note = strPtr(note)
	m.User1Rating = intPtr(r1)
	m.User2Rating = intPtr(r2)
	m.CreatedAt = parseTime(createdAt)
	return m, nil
}

func (s *Store) AddMovie(title string, note *string, categoryID int64) (int64, error) {
	if strings.TrimSpace(title) == "" {
		return 0, fmt.Errorf("%w: title is required", storage.ErrValidation)
	}
	res, err := s.db.Exec(
		"INSERT INTO movies (title, note, category_id) VALUES (?, ?, ?)",
		title, note, categoryID,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to add movie: %w", err)
	}
	return res.LastInsertId()
}

func (s *Store) GetMovie(id int64) (models.Movie, error) {
	row := s.db.QueryRow("SELECT "+movieCols+" FROM movies WHERE id = ?", id)
	m, err := scanMovie(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Movie{}, storage.ErrNotFound
	}
	return m, err
}

func (s *Store) GetMovies(watched bool, categoryID int64) ([]models.Movie, error) {
	query := "SELECT " + movieCols + " FROM movies WHERE watched = ?"
	args := []any{watched}
	if categoryID != 0 {
		query += " AND category_id = ?"
		args = append(args, categoryID)
	}
	query += " ORDER BY created_at DESC, id DESC"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var movies []models.Movie
	for rows.Next() {
		m, err := scanMovie(rows)
		if err != nil {
			return nil, err
		}
		movies = append(movies, m)
	}
	return movies, rows.Err()
}

func (s *Store) UpdateMovie(id int64, title, note *string) error {
	set, args := buildUpdate([]string{"title", "note"}, []*string{title, note})
	if set == "" {
		return nil
	}
	args = append(args, id)
	_, err := s.db.Exec("UPDATE movies SET "+set+" WHERE id = ?", args...)
	return err
}

func (s *Store) MarkMovieWatched(id int64, user1Rating, user2Rating *int) error {
	_, err := s.db.Exec(
		"UPDATE movies SET watched = 1, user1_rating = ?, user2_rating = ? WHERE id = ?",
		user1Rating, user2Rating, id,
	)
	return err
}

func (s *Store) DeleteMovie(id int64) error {
	_, err := s.db.Exec("DELETE FROM movies WHERE id = ?", id)
	return err
}

func (s *Store) RandomMovie(excludeCategoryID int64) (models.Movie, error) {
	query := "SELECT " + movieCols + " FROM movies WHERE watched = 0"
	args := []any{}
	if excludeCategoryID != 0 {
		query += " AND category_id != ?"
		args = append(args, excludeCategoryID)
	}
	query += " ORDER BY RANDOM() LIMIT 1"

	m, err := scanMovie(s.db.QueryRow(query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Movie{}, storage.ErrEmpty
	}
	return m, err
}

func (s *Store) TopMovies(userSlot int) ([]models.Movie, error) {
	var query string
	switch userSlot {
	case 1:
		query = "SELECT " + movieCols + ` FROM movies
			WHERE watched = 1 AND user1_rating IS NOT NULL
			ORDER BY user1_rating DESC LIMIT 10`
	case 2:
		query = "SELECT " + movieCols + ` FROM movies
			WHERE watched = 1 AND user2_rating IS NOT NULL
			ORDER BY user2_rating DESC LIMIT 10`
	default:
		// A missing rating counts as zero in the average, same as an explicit
		// zero would. Kept bug-compatible with the long-standing behavior.
		query = "SELECT " + movieCols + ` FROM movies
			WHERE watched = 1 AND (user1_rating IS NOT NULL OR user2_rating IS NOT NULL)
			ORDER BY (COALESCE(user1_rating, 0) + COALESCE(user2_rating, 0)) / 2.0 DESC
			LIMIT 10`
	}

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var movies []models.Movie
	for rows.Next() {
		m, err := scanMovie(rows)
		if err != nil {
			return nil, err
		}
		movies = append(movies, m)
	}
	return movies, rows.Err()
}

func (s *Store) GetMovieCategories() ([]models.Category, error) {
	return s.categories("movie_categories")
}

func (s *Store) AddMovieCategory(name string) (int64, error) {
	return s.addCategory("movie_categories", name)
}
