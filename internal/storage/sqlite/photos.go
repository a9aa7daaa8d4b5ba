package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/avolkova/duolist/internal/models"
	"github.com/avolkova/duolist/internal/storage"
)

const photoCols = "id, title, link, description"

func scanPhotoCategory(row interface{ Scan(...any) error }) (models.PhotoCategory, error) {
	var p models.PhotoCategory
	var link, description sql.NullString

	err := row.Scan(&p.ID, &p.Title, &link, &description)
	if err != nil {
		return models.PhotoCategory{}, err
	}
	p.Link = strPtr(link)
	p.Description = strPtr(description)
	return p, nil
}

func (s *Store) AddPhotoCategory(title string, link, description *string) (int64, error) {
	if strings.TrimSpace(title) == "" {
		return 0, fmt.Errorf("%w: title is required", storage.ErrValidation)
	}
	res, err := s.db.Exec(
		"INSERT INTO photo_categories (title, link, description) VALUES (?, ?, ?)",
		title, link, description,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to add photo category: %w", err)
	}
	return res.LastInsertId()
}

func (s *Store) GetPhotoCategory(id int64) (models.PhotoCategory, error) {
	row := s.db.QueryRow("SELECT "+photoCols+" FROM photo_categories WHERE id = ?", id)
	p, err := scanPhotoCategory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.PhotoCategory{}, storage.ErrNotFound
	}
	return p, err
}

func (s *Store) GetPhotoCategories() ([]models.PhotoCategory, error) {
	rows, err := s.db.Query("SELECT " + photoCols + " FROM photo_categories ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cats []models.PhotoCategory
	for rows.Next() {
		p, err := scanPhotoCategory(rows)
		if err != nil {
			return nil, err
		}
		cats = append(cats, p)
	}
	return cats, rows.Err()
}

func (s *Store) UpdatePhotoCategory(id int64, title, link, description *string) error {
	set, args := buildUpdate(
		[]string{"title", "link", "description"},
		[]*string{title, link, description},
	)
	if set == "" {
		return nil
	}
	args = append(args, id)
	_, err := s.db.Exec("UPDATE photo_categories SET "+set+" WHERE id = ?", args...)
	return err
}
