package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"learning-timer/internal/game"
	"learning-timer/internal/models"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

const publishTimeout = 5 * time.Second

type Publisher interface {
	Publish(ctx context.Context, queueName string, body []byte) error
}

type ProgressEvent struct {
	ID       string    `json:"id"`
	PlayerID string    `json:"player_id"`
	Type     string    `json:"type"`
	Score    int       `json:"score"`
	Level    int       `json:"level"`
	At       time.Time `json:"at"`
}

// ProgressNotifier forwards level advances, completions and resets to a
// message queue from a background worker.
type ProgressNotifier struct {
	publisher Publisher
	queue     string
	events    chan ProgressEvent
	clock     clockwork.Clock
	logger    *slog.Logger
}

func NewProgressNotifier(publisher Publisher, queue string, buffer int, clk clockwork.Clock, logger *slog.Logger) *ProgressNotifier {
	if buffer <= 0 {
		buffer = 64
	}
	if clk == nil {
		clk = clockwork.NewRealClock()
	}
	return &ProgressNotifier{
		publisher: publisher,
		queue:     queue,
		events:    make(chan ProgressEvent, buffer),
		clock:     clk,
		logger:    logger,
	}
}

// Listener returns a game.Listener for playerID. It never blocks: when the
// buffer is full the event is dropped.
func (n *ProgressNotifier) Listener(playerID string) game.Listener {
	return func(ev game.Event) {
		pe := ProgressEvent{
			PlayerID: playerID,
			Type:     string(ev.Type),
		}

		switch p := ev.Payload.(type) {
		case game.CompletedPayload:
			pe.Score, pe.Level = p.Score, p.Level
		case models.GameState:
			pe.Score, pe.Level = p.Score, p.Level
		default:
			return
		}

		pe.ID = uuid.NewString()
		pe.At = n.clock.Now().UTC()

		select {
		case n.events <- pe:
		default:
			n.logger.Warn("progress queue full, dropping event", "player", playerID, "type", pe.Type)
		}
	}
}

// Run publishes queued events until ctx is cancelled.
func (n *ProgressNotifier) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case pe := <-n.events:
			n.publish(ctx, pe)
		}
	}
}

func (n *ProgressNotifier) publish(ctx context.Context, pe ProgressEvent) {
	body, err := json.Marshal(pe)
	if err != nil {
		n.logger.Error("failed to marshal progress event", "error", err)
		return
	}

	pubCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	if err := n.publisher.Publish(pubCtx, n.queue, body); err != nil {
		n.logger.Error("failed to publish progress event", "player", pe.PlayerID, "type", pe.Type, "error", err)
		return
	}
	n.logger.Debug("progress event published", "player", pe.PlayerID, "type", pe.Type, "level", pe.Level)
}
