package database_test

import (
	"context"
	"path/filepath"
	"testing"

	"learning-timer/internal/models"
	"learning-timer/internal/repository"
	"learning-timer/pkg/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteClient_StateRoundTrip(t *testing.T) {
	ctx := context.Background()

	client, err := database.NewSQLiteClient(filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	assert.Equal(t, "sqlite3", client.Driver())

	require.NoError(t, client.InitSchema(ctx))
	// schema creation is idempotent
	require.NoError(t, client.InitSchema(ctx))

	repo := repository.NewStateRepository(client.GetDB())

	_, found, err := repo.Load(ctx, "gameState")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, repo.Save(ctx, "gameState", models.GameState{Score: 10, Level: 2}))
	require.NoError(t, repo.Save(ctx, "gameState", models.GameState{Score: 20, Level: 3}))
	require.NoError(t, repo.Save(ctx, "gameState:alice", models.GameState{Score: 0, Level: 1}))

	state, found, err := repo.Load(ctx, "gameState")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, models.GameState{Score: 20, Level: 3}, state)

	var rows int
	require.NoError(t, client.GetDB().QueryRowContext(ctx, `SELECT COUNT(*) FROM game_states`).Scan(&rows))
	assert.Equal(t, 2, rows)

	require.NoError(t, repo.Clear(ctx, "gameState"))
	_, found, err = repo.Load(ctx, "gameState")
	require.NoError(t, err)
	assert.False(t, found)
	require.NoError(t, repo.Ping(ctx))
}

func TestSQLiteClient_MalformedRow(t *testing.T) {
	ctx := context.Background()

	client, err := database.NewSQLiteClient(filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	require.NoError(t, client.InitSchema(ctx))

	_, err = client.GetDB().ExecContext(ctx,
		`INSERT INTO game_states (state_key, payload) VALUES ('gameState', '{"score":"lots"}')`)
	require.NoError(t, err)

	_, found, err := repository.NewStateRepository(client.GetDB()).Load(ctx, "gameState")
	assert.False(t, found)
	assert.ErrorIs(t, err, repository.ErrMalformedState)
}
