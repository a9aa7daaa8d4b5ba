package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/avolkova/duolist/internal/models"
	"github.com/avolkova/duolist/internal/storage"
)

const tripCols = "id, title, note, category_id, created_at"

func scanTrip(row interface{ Scan(...any) error }) (models.Trip, error) {
	var t models.Trip
	var note sql.NullString
	var createdAt string

	err := row.Scan(&t.ID, &t.Title, &note, &t.CategoryID, &createdAt)
	if err != nil {
		return models.Trip{}, err
	}
	t.Note = strPtr(note)
	t.CreatedAt = parseTime(createdAt)
	return t, nil
}

func (s *Store) AddTrip(title string, note *string, categoryID int64) (int64, error) {
	if strings.TrimSpace(title) == "" {
		return 0, fmt.Errorf("%w: title is required", storage.ErrValidation)
	}
	res, err := s.db.Exec(
		"INSERT INTO trips (title, note, category_id) VALUES (?, ?, ?)",
		title, note, categoryID,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to add trip: %w", err)
	}
	return res.LastInsertId()
}

func (s *Store) GetTrip(id int64) (models.Trip, error) {
	row := s.db.QueryRow("SELECT "+tripCols+" FROM trips WHERE id = ?", id)
	t, err := scanTrip(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Trip{}, storage.ErrNotFound
	}
	return t, err
}

func (s *Store) GetTrips(categoryID int64) ([]models.Trip, error) {
	query := "SELECT " + tripCols + " FROM trips"
	args := []any{}
	if categoryID != 0 {
		query += " WHERE category_id = ?"
		args = append(args, categoryID)
	}
	query += " ORDER BY created_at DESC, id DESC"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trips []models.Trip
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, err
		}
		trips = append(trips, t)
	}
	return trips, rows.Err()
}

func (s *Store) UpdateTrip(id int64, title, note *string) error {
	set, args := buildUpdate([]string{"title", "note"}, []*string{title, note})
	if set == "" {
		return nil
	}
	args = append(args, id)
	_, err := s.db.Exec("UPDATE trips SET "+set+" WHERE id = ?", args...)
	return err
}

func (s *Store) DeleteTrip(id int64) error {
	_, err := s.db.Exec("DELETE FROM trips WHERE id = ?", id)
	return err
}

func (s *Store) GetTripCategories() ([]models.Category, error) {
	return s.categories("trip_categories")
}

func (s *Store) AddTripCategory(name string) (int64, error) {
	return s.addCategory("trip_categories", name)
}
