package repository

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"learning-timer/internal/models"
)

var ErrMalformedState = errors.New("malformed persisted state")

type storedState struct {
	Score *int `json:"score"`
	Level *int `json:"level"`
}

func encodeState(state models.GameState) ([]byte, error) {
	data, err := json.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal game state: %w", err)
	}
	return data, nil
}

// decodeState accepts only a JSON object carrying integer score >= 0 and
// integer level >= 1.
func decodeState(raw []byte) (models.GameState, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return models.GameState{}, fmt.Errorf("%w: not a JSON object", ErrMalformedState)
	}

	var stored storedState
	if err := json.Unmarshal(trimmed, &stored); err != nil {
		return models.GameState{}, fmt.Errorf("%w: %v", ErrMalformedState, err)
	}
	if stored.Score == nil || stored.Level == nil {
		return models.GameState{}, fmt.Errorf("%w: score and level are required", ErrMalformedState)
	}
	if *stored.Score < 0 || *stored.Level < 1 {
		return models.GameState{}, fmt.Errorf("%w: score=%d level=%d out of range", ErrMalformedState, *stored.Score, *stored.Level)
	}

	return models.GameState{Score: *stored.Score, Level: *stored.Level}, nil
}
