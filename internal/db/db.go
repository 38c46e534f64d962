package db

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// ErrNotFound is returned when a row addressed by id does not exist
var ErrNotFound = errors.New("not found")

// DB wraps the database connection
type DB struct {
	*sqlx.DB
}

// New opens the database at path and brings the schema up to date
func New(ctx context.Context, path string) (*DB, error) {
	if path == "" {
		return nil, fmt.Errorf("db path is required")
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	conn, err := sqlx.Open("sqlite3", path+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// sqlite serializes writers anyway; one connection also keeps :memory: databases shared
	conn.SetMaxOpenConns(1)

	if err := migrate(ctx, conn); err != nil {
		conn.Close()
		return nil, err
	}

	return &DB{conn}, nil
}

func migrate(ctx context.Context, conn *sqlx.DB) error {
	goose.SetBaseFS(migrationsFS)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, conn.DB, "migrations"); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}

// DefaultPath returns the database file inside dataDir
func DefaultPath(dataDir string) string {
	return filepath.Join(dataDir, "taskflow.db")
}
