package database

import (
	"context"
	"database/sql"
	"fmt"

	"learning-timer/config"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Client wraps a *sql.DB opened with either the postgres or sqlite3 driver.
type Client struct {
	db     *sql.DB
	driver string
}

func NewPostgresClient(cfg *config.DBConfig) (*Client, error) {
	connStr := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
	)
	return open("postgres", connStr)
}

func NewSQLiteClient(path string) (*Client, error) {
	client, err := open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	// sqlite serialises writers; one connection avoids "database is locked"
	client.db.SetMaxOpenConns(1)
	return client, nil
}

func open(driver, dsn string) (*Client, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", driver, err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping %s database: %w", driver, err)
	}

	return &Client{
		db:     db,
		driver: driver,
	}, nil
}

func (c *Client) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

func (c *Client) GetDB() *sql.DB {
	return c.db
}

func (c *Client) Driver() string {
	return c.driver
}

// InitSchema creates the game_states table; the statement is valid for both
// Postgres and SQLite.
func (c *Client) InitSchema(ctx context.Context) error {
	createGameStatesTable := `
		CREATE TABLE IF NOT EXISTS game_states (
			state_key VARCHAR(255) PRIMARY KEY,
			payload TEXT NOT NULL,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`

	if _, err := c.db.ExecContext(ctx, createGameStatesTable); err != nil {
		return fmt.Errorf("failed to create game_states table: %w", err)
	}

	return nil
}
