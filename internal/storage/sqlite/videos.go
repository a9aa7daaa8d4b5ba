package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/avolkova/duolist/internal/models"
	"github.com/avolkova/duolist/internal/storage"
)

const videoCols = "id, title, media_ref, status, created_at"

func scanVideoIdea(row interface{ Scan(...any) error }) (models.VideoIdea, error) {
	var v models.VideoIdea
	var mediaRef sql.NullString
	var createdAt string

	err := row.Scan(&v.ID, &v.Title, &mediaRef, &v.Status, &createdAt)
	if err != nil {
		return models.VideoIdea{}, err
	}
	v.MediaRef = strPtr(mediaRef)
	v.CreatedAt = parseTime(createdAt)
	return v, nil
}

func (s *Store) AddVideoIdea(title string, mediaRef *string) (int64, error) {
	if strings.TrimSpace(title) == "" {
		return 0, fmt.Errorf("%w: title is required", storage.ErrValidation)
	}
	res, err := s.db.Exec("INSERT INTO video_ideas (title, media_ref) VALUES (?, ?)", title, mediaRef)
	if err != nil {
		return 0, fmt.Errorf("failed to add video idea: %w", err)
	}
	return res.LastInsertId()
}

func (s *Store) GetVideoIdea(id int64) (models.VideoIdea, error) {
	row := s.db.QueryRow("SELECT "+videoCols+" FROM video_ideas WHERE id = ?", id)
	v, err := scanVideoIdea(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.VideoIdea{}, storage.ErrNotFound
	}
	return v, err
}

func (s *Store) GetVideoIdeas(status string) ([]models.VideoIdea, error) {
	rows, err := s.db.Query(
		"SELECT "+videoCols+" FROM video_ideas WHERE status = ? ORDER BY created_at DESC, id DESC",
		status,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ideas []models.VideoIdea
	for rows.Next() {
		v, err := scanVideoIdea(rows)
		if err != nil {
			return nil, err
		}
		ideas = append(ideas, v)
	}
	return ideas, rows.Err()
}

func (s *Store) MarkVideoIdeaDone(id int64) error {
	_, err := s.db.Exec("UPDATE video_ideas SET status = ? WHERE id = ?", models.VideoDone, id)
	return err
}

func (s *Store) DeleteVideoIdea(id int64) error {
	_, err := s.db.Exec("DELETE FROM video_ideas WHERE id = ?", id)
	return err
}
