package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/avolkova/duolist/internal/models"
	"github.com/avolkova/duolist/internal/storage"
)

const shopCols = "id, title, link, description, category_id"

func scanShopEntry(row interface{ Scan(...any) error }) (models.ShopEntry, error) {
	var e models.ShopEntry
	var link, description sql.NullString

	err := row.Scan(&e.ID, &e.Title, &link, &description, &e.CategoryID)
	if err != nil {
		return models.ShopEntry{}, err
	}
	e.Link = strPtr(link)
	e.Description = strPtr(description)
	return e, nil
}

func (s *Store) AddShopEntry(title string, link, description *string, categoryID int64) (int64, error) {
	if strings.TrimSpace(title) == "" {
		return 0, fmt.Errorf("%w: title is required", storage.ErrValidation)
	}
	res, err := s.db.Exec(
		"INSERT INTO shop_entries (title, link, description, category_id) VALUES (?, ?, ?, ?)",
		title, link, description, categoryID,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to add shop entry: %w", err)
	}
	return res.LastInsertId()
}

func (s *Store) GetShopEntry(id int64) (models.ShopEntry, error) {
	row := s.db.QueryRow("SELECT "+shopCols+" FROM shop_entries WHERE id = ?", id)
	e, err := scanShopEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.ShopEntry{}, storage.ErrNotFound
	}
	return e, err
}

func (s *Store) GetShopEntries(categoryID int64) ([]models.ShopEntry, error) {
	query := "SELECT " + shopCols + " FROM shop_entries"
	args := []any{}
	if categoryID != 0 {
		query += " WHERE category_id = ?"
		args = append(args, categoryID)
	}
	query += " ORDER BY id DESC"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.ShopEntry
	for rows.Next() {
		e, err := scanShopEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *Store) DeleteShopEntry(id int64) error {
	_, err := s.db.Exec("DELETE FROM shop_entries WHERE id = ?", id)
	return err
}

func (s *Store) GetShopCategories() ([]models.Category, error) {
	return s.categories("shop_categories")
}

func (s *Store) AddShopCategory(name string) (int64, error) {
	return s.addCategory("shop_categories", name)
}
