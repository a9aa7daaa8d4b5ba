package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/avolkova/duolist/internal/models"
	"github.com/avolkova/duolist/internal/storage"
)

const gameCols = "id, title, note, genre, status, user1_rating, user2_rating, created_at"

func scanGame(row interface{ Scan(...any) error }) (models.Game, error) {
	var g models.Game
	var note, genre sql.NullString
	var r1, r2 sql.NullInt64

	err := row.Scan(&g.ID, &g.Title, &note, &genre, &g.Status, &r1, &r2, &g.CreatedAt)
	if err != nil {
		return models.Game{}, err
	}
	g.Note = strPtr(note)
	g.Genre = strPtr(genre)
	g.User1Rating = intPtr(r1)
	g.User2Rating = intPtr(r2)
	return g, nil
}

func (s *Store) AddGame(title string, note, genre *string) (int64, error) {
	if strings.TrimSpace(title) == "" {
		return 0, fmt.Errorf("%w: title is required", storage.ErrValidation)
	}
	var id int64
	err := s.db.QueryRow(
		"INSERT INTO games (title, note, genre) VALUES ($1, $2, $3) RETURNING id",
		title, note, genre,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to add game: %w", err)
	}
	return id, nil
}

func (s *Store) GetGame(id int64) (models.Game, error) {
	row := s.db.QueryRow("SELECT "+gameCols+" FROM games WHERE id = $1", id)
	g, err := scanGame(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Game{}, storage.ErrNotFound
	}
	return g, err
}

func (s *Store) GetGames(status string) ([]models.Game, error) {
	rows, err := s.db.Query(
		"SELECT "+gameCols+" FROM games WHERE status = $1 ORDER BY created_at DESC, id DESC",
		status,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var games []models.Game
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			return nil, err
		}
		games = append(games, g)
	}
	return games, rows.Err()
}

func (s *Store) UpdateGame(id int64, title, note, genre *string) error {
	set, args := buildUpdate([]string{"title", "note", "genre"}, []*string{title, note, genre})
	if set == "" {
		return nil
	}
	args = append(args, id)
	_, err := s.db.Exec(
		fmt.Sprintf("UPDATE games SET %s WHERE id = $%d", set, len(args)),
		args...,
	)
	return err
}

func (s *Store) MarkGameDone(id int64, user1Rating, user2Rating *int) error {
	_, err := s.db.Exec(
		"UPDATE games SET status = $1, user1_rating = $2, user2_rating = $3 WHERE id = $4",
		models.GameDone, user1Rating, user2Rating, id,
	)
	return err
}

func (s *Store) DeleteGame(id int64) error {
	_, err := s.db.Exec("DELETE FROM games WHERE id = $1", id)
	return err
}

func (s *Store) RandomGame() (models.Game, error) {
	row := s.db.QueryRow(
		"SELECT "+gameCols+" FROM games WHERE status = $1 ORDER BY random() LIMIT 1",
		models.GamePending,
	)
	g, err := scanGame(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Game{}, storage.ErrEmpty
	}
	return g, err
}

func (s *Store) TopGames(userSlot int) ([]models.Game, error) {
	var query string
	switch userSlot {
	case 1:
		query = "SELECT " + gameCols + ` FROM games
			WHERE status = 'done' AND user1_rating IS NOT NULL
			ORDER BY user1_rating DESC LIMIT 10`
	case 2:
		query = "SELECT " + gameCols + ` FROM games
			WHERE status = 'done' AND user2_rating IS NOT NULL
			ORDER BY user2_rating DESC LIMIT 10`
	default:
		query = "SELECT " + gameCols + ` FROM games
			WHERE status = 'done' AND (user1_rating IS NOT NULL OR user2_rating IS NOT NULL)
			ORDER BY (COALESCE(user1_rating, 0) + COALESCE(user2_rating, 0)) / 2.0 DESC
			LIMIT 10`
	}

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var games []models.Game
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			return nil, err
		}
		games = append(games, g)
	}
	return games, rows.Err()
}
