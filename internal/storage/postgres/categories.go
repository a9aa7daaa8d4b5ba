package postgres

import (
	"fmt"
	"strings"

	"github.com/avolkova/duolist/internal/models"
	"github.com/avolkova/duolist/internal/storage"
)

func (s *Store) categories(table string) ([]models.Category, error) {
	rows, err := s.db.Query("SELECT id, name FROM " + table + " ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cats []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		cats = append(cats, c)
	}
	return cats, rows.Err()
}

func (s *Store) addCategory(table, name string) (int64, error) {
	if strings.TrimSpace(name) == "" {
		return 0, fmt.Errorf("%w: category name is required", storage.ErrValidation)
	}
	var id int64
	err := s.db.QueryRow("INSERT INTO "+table+" (name) VALUES ($1) RETURNING id", name).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to add category: %w", err)
	}
	return id, nil
}
