package postgres

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

	err := row.Scan(&v.ID, &v.Title, &mediaRef, &v.Status, &v.CreatedAt)
	if err != nil {
		return models.VideoIdea{}, err
	}
	v.MediaRef = strPtr(mediaRef)
	return v, nil
}

func (s *Store) AddVideoIdea(title string, mediaRef *string) (int64, error) {
	if strings.TrimSpace(title) == "" {
		return 0, fmt.Errorf("%w: title is required", storage.ErrValidation)
	}
	var id int64
	err := s.db.QueryRow(
		"INSERT INTO video_ideas (title, media_ref) VALUES ($1, $2) RETURNING id",
		title, mediaRef,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to add video idea: %w", err)
	}
	return id, nil
}

func (s *Store) GetVideoIdea(id int64) (models.VideoIdea, error) {
	row := s.db.QueryRow("SELECT "+videoCols+" FROM video_ideas WHERE id = $1", id)
	v, err := scanVideoIdea(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.VideoIdea{}, storage.ErrNotFound
	}
	return v, err
}

func (s *Store) GetVideoIdeas(status string) ([]models.VideoIdea, error) {
	rows, err := s.db.Query(
		"SELECT "+videoCols+" FROM video_ideas WHERE status = $1 ORDER BY created_at DESC, id DESC",
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
	_, err := s.db.Exec("UPDATE video_ideas SET status = $1 WHERE id = $2", models.VideoDone, id)
	return err
}

func (s *Store) DeleteVideoIdea(id int64) error {
	_, err := s.db.Exec("DELETE FROM video_ideas WHERE id = $1", id)
	return err
}
