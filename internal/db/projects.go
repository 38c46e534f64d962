package db

import (
	"context"
	"fmt"

	"github.com/tgienger/taskflow/internal/models"
)

// CreateProject creates a new project
func (db *DB) CreateProject(ctx context.Context, name, description, color string) (models.Project, error) {
	result, err := db.ExecContext(ctx, `
		INSERT INTO projects (name, description, color) VALUES (?, ?, ?)
	`, name, description, color)
	if err != nil {
		return models.Project{}, fmt.Errorf("insert project: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return models.Project{}, err
	}

	return db.GetProject(ctx, id)
}

// GetProject retrieves a project by ID
func (db *DB) GetProject(ctx context.Context, id int64) (models.Project, error) {
	var p models.Project
	err := db.GetContext(ctx, &p, "SELECT id, name, description, color FROM projects WHERE id = ?", id)
	if err != nil {
		return models.Project{}, notFound(err, "project", id)
	}
	return p, nil
}

// ListProjects returns all projects
func (db *DB) ListProjects(ctx context.Context) ([]models.Project, error) {
	projects := []models.Project{}
	err := db.SelectContext(ctx, &projects, "SELECT id, name, description, color FROM projects ORDER BY id")
	return projects, err
}

// ProjectCount returns the number of projects
func (db *DB) ProjectCount(ctx context.Context) (int, error) {
	var count int
	err := db.GetContext(ctx, &count, "SELECT COUNT(*) FROM projects")
	return count, err
}
