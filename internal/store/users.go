package store

import (
	"context"
	"database/sql"
	"strings"

	"github.com/sakenavi/sakenavi-server/internal/domain"
)

// CreateUser inserts a new user.
// Returns ErrAlreadyExists when the display name is taken.
func (s *Store) CreateUser(ctx context.Context, user *domain.User) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (user_id, name, created_at) VALUES (?, ?, ?)`,
		user.ID, user.Name, FormatTime(user.CreatedAt))
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return ErrAlreadyExists
		}
		return err
	}
	return nil
}

// GetUser retrieves a user by ID. Returns ErrNotFound if absent.
func (s *Store) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT user_id, name, created_at FROM users WHERE user_id = ?`, userID)
	return scanUser(row)
}

// GetUserByName retrieves a user by display name. Returns ErrNotFound if absent.
func (s *Store) GetUserByName(ctx context.Context, name string) (*domain.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT user_id, name, created_at FROM users WHERE name = ?`, name)
	return scanUser(row)
}

func scanUser(row *sql.Row) (*domain.User, error) {
	var u domain.User
	var createdAt string

	err := row.Scan(&u.ID, &u.Name, &createdAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	u.CreatedAt, err = parseTimeField(createdAt, "created_at")
	if err != nil {
		return nil, err
	}
	return &u, nil
}
