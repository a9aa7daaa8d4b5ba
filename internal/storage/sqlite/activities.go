package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/avolkova/duolist/internal/models"
	"github.com/avolkova/duolist/internal/storage"
)

const activityCols = "id, title, note, status, created_at"

func scanActivity(row interface{ Scan(...any) error }) (models.Activity, error) {
	var a models.Activity
	var note sql.NullString
	var createdAt string

	err := row.Scan(&a.ID, &a.Title, &note, &a.Status, &createdAt)
	if err != nil {
		return models.Activity{}, err
	}
	a.Note = strPtr(note)
	a.CreatedAt = parseTime(createdAt)
	return a, nil
}

func (s *Store) AddActivity(title string, note *string) (int64, error) {
	if strings.TrimSpace(title) == "" {
		return 0, fmt.Errorf("%w: title is required", storage.ErrValidation)
	}
	res, err := s.db.Exec("INSERT INTO activities (title, note) VALUES (?, ?)", title, note)
	if err != nil {
		return 0, fmt.Errorf("failed to add activity: %w", err)
	}
	return res.LastInsertId()
}

func (s *Store) GetActivity(id int64) (models.Activity, error) {
	row := s.db.QueryRow("SELECT "+activityCols+" FROM activities WHERE id = ?", id)
	a, err := scanActivity(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Activity{}, storage.ErrNotFound
	}
	return a, err
}

func (s *Store) GetActivities(status string) ([]models.Activity, error) {
	rows, err := s.db.Query(
		"SELECT "+activityCols+" FROM activities WHERE status = ? ORDER BY created_at DESC, id DESC",
		status,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var activities []models.Activity
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, err
		}
		activities = append(activities, a)
	}
	return activities, rows.Err()
}

func (s *Store) UpdateActivity(id int64, title, note *string) error {
	set, args := buildUpdate([]string{"title", "note"}, []*string{title, note})
	if set == "" {
		return nil
	}
	args = append(args, id)
	_, err := s.db.Exec("UPDATE activities SET "+set+" WHERE id = ?", args...)
	return err
}

func (s *Store) MarkActivityDone(id int64) error {
	_, err := s.db.Exec("UPDATE activities SET status = ? WHERE id = ?", models.ActivityDone, id)
	return err
}

func (s *Store) DeleteActivity(id int64) error {
	_, err := s.db.Exec("DELETE FROM activities WHERE id = ?", id)
	return err
}
