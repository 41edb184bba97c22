package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"learning-timer/internal/models"
)

// StateRepository stores game state rows in Postgres or SQLite.
type StateRepository struct {
	db *sql.DB
}

func NewStateRepository(db *sql.DB) *StateRepository {
	return &StateRepository{db: db}
}

func (r *StateRepository) Load(ctx context.Context, key string) (models.GameState, bool, error) {
	query := `SELECT payload FROM game_states WHERE state_key = $1`

	var payload string
	err := r.db.QueryRowContext(ctx, query, key).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return models.GameState{}, false, nil
	}
	if err != nil {
		return models.GameState{}, false, fmt.Errorf("failed to query game state: %w", err)
	}

	state, err := decodeState([]byte(payload))
	if err != nil {
		return models.GameState{}, false, err
	}
	return state, true, nil
}

func (r *StateRepository) Save(ctx context.Context, key string, state models.GameState) error {
	payload, err := encodeState(state)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO game_states (state_key, payload, updated_at)
		VALUES ($1, $2, CURRENT_TIMESTAMP)
		ON CONFLICT (state_key) DO UPDATE SET payload = excluded.payload, updated_at = CURRENT_TIMESTAMP
	`
	if _, err := r.db.ExecContext(ctx, query, key, string(payload)); err != nil {
		return fmt.Errorf("failed to save game state: %w", err)
	}
	return nil
}

func (r *StateRepository) Clear(ctx context.Context, key string) error {
	query := `DELETE FROM game_states WHERE state_key = $1`
	if _, err := r.db.ExecContext(ctx, query, key); err != nil {
		return fmt.Errorf("failed to delete game state: %w", err)
	}
	return nil
}

func (r *StateRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
