package postgres

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

	err := row.Scan(&a.ID, &a.Title, &note, &a.Status, &a.CreatedAt)
	if err != nil {
		return models.Activity{}, err
	}
	a.Note = strPtr(note)
	return a, nil
}

func (s *Store) AddActivity(title string, note *string) (int64, error) {
	if strings.TrimSpace(title) == "" {
		return 0, fmt.Errorf("%w: title is required", storage.ErrValidation)
	}
	var id int64
	err := s.db.QueryRow(
		"INSERT INTO activities (title, note) VALUES ($1, $2) RETURNING id",
		title, note,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to add activity: %w", err)
	}
	return id, nil
}

func (s *Store) GetActivity(id int64) (models.Activity, error) {
	row := s.db.QueryRow("SELECT "+activityCols+" FROM activities WHERE id = $1", id)
	a, err := scanActivity(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Activity{}, storage.ErrNotFound
	}
	return a, err
}

func (s *Store) GetActivities(status string) ([]models.Activity, error) {
	rows, err := s.db.Query(
		"SELECT "+activityCols+" FROM activities WHERE status = $1 ORDER BY created_at DESC, id DESC",
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
	_, err := s.db.Exec(
		fmt.Sprintf("UPDATE activities SET %s WHERE id = $%d", set, len(args)),
		args...,
	)
	return err
}

func (s *Store) MarkActivityDone(id int64) error {
	_, err := s.db.Exec("UPDATE activities SET status = $1 WHERE id = $2", models.ActivityDone, id)
	return err
}

func (s *Store) DeleteActivity(id int64) error {
	_, err := s.db.Exec("DELETE FROM activities WHERE id = $1", id)
	return err
}
