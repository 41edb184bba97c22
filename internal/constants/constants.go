package constants

const (
	PhaseIdle       = "idle"
	PhasePresenting = "presenting"
	PhaseAdvancing  = "advancing"
	PhaseCompleted  = "completed"
)

const (
	StateKey    = "gameState"
	LocalPlayer = "local"
)

const (
	FeedbackCorrect   = "✅ Correct!"
	FeedbackWrong     = "❌ Wrong. Try again."
	CompletionMessage = "🎉 Congratulations! You finished all levels."
)

const (
	StorageMemory   = "memory"
	StorageRedis    = "redis"
	StoragePostgres = "postgres"
	StorageSQLite   = "sqlite"
)

// StateKeyFor returns the storage key that holds a player's progress.
func StateKeyFor(playerID string) string {
	if playerID == "" || playerID == LocalPlayer {
		return StateKey
	}
	return StateKey + ":" + playerID
}
