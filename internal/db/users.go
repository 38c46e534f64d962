package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/tgienger/taskflow/internal/models"
)

// CreateUser creates a new team member
func (db *DB) CreateUser(ctx context.Context, name, role, avatar string) (models.User, error) {
	result, err := db.ExecContext(ctx, `
		INSERT INTO users (name, role, avatar) VALUES (?, ?, ?)
	`, name, role, avatar)
	if err != nil {
		return models.User{}, fmt.Errorf("insert user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return models.User{}, err
	}

	var u models.User
	err = db.GetContext(ctx, &u, "SELECT id, name, role, avatar FROM users WHERE id = ?", id)
	if err != nil {
		return models.User{}, notFound(err, "user", id)
	}
	return u, nil
}

// ListUsers returns all users
func (db *DB) ListUsers(ctx context.Context) ([]models.User, error) {
	users := []models.User{}
	err := db.SelectContext(ctx, &users, "SELECT id, name, role, avatar FROM users ORDER BY id")
	return users, err
}

func notFound(err error, entity string, id int64) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s %d: %w", entity, id, ErrNotFound)
	}
	return err
}
