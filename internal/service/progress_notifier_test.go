package service

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"learning-timer/internal/constants"
	"learning-timer/internal/game"
	"learning-timer/internal/models"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type published struct {
	queue string
	body  []byte
}

type fakePublisher struct {
	mu       sync.Mutex
	messages []published
	failures int
}

func (p *fakePublisher) Publish(ctx context.Context, queueName string, body []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.failures > 0 {
		p.failures--
		return errors.New("channel closed")
	}
	p.messages = append(p.messages, published{queue: queueName, body: body})
	return nil
}

func (p *fakePublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.messages)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestProgressNotifier_PublishesProgressEvents(t *testing.T) {
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	clk := clockwork.NewFakeClockAt(at)
	pub := &fakePublisher{}
	n := NewProgressNotifier(pub, "learning.progress", 8, clk, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go n.Run(ctx)

	listen := n.Listener("alice")
	listen(game.Event{Type: game.EventProgress, Payload: models.GameState{Score: 10, Level: 2}})
	listen(game.Event{Type: game.EventCompleted, Payload: game.CompletedPayload{Message: "done", Score: 30, Level: 4}})
	listen(game.Event{Type: game.EventReset, Payload: models.GameState{Score: 0, Level: 1}})

	require.Eventually(t, func() bool { return pub.count() == 3 }, time.Second, 5*time.Millisecond)

	pub.mu.Lock()
	defer pub.mu.Unlock()

	wantTypes := []string{"progress", "completed", "reset"}
	wantLevels := []int{2, 4, 1}
	for i, msg := range pub.messages {
		assert.Equal(t, "learning.progress", msg.queue)

		var ev ProgressEvent
		require.NoError(t, json.Unmarshal(msg.body, &ev))
		assert.Equal(t, "alice", ev.PlayerID)
		assert.Equal(t, wantTypes[i], ev.Type)
		assert.Equal(t, wantLevels[i], ev.Level)
		assert.True(t, at.Equal(ev.At))

		_, err := uuid.Parse(ev.ID)
		assert.NoError(t, err)
	}
}

func TestProgressNotifier_IgnoresDisplayEvents(t *testing.T) {
	n := NewProgressNotifier(&fakePublisher{}, "q", 4, nil, discardLogger())
	listen := n.Listener("local")

	listen(game.Event{Type: game.EventTimer, Payload: models.TimerState{SecondsRemaining: 5, Running: true}})
	listen(game.Event{Type: game.EventFeedback, Payload: game.FeedbackPayload{Text: "x"}})
	listen(game.Event{Type: game.EventStartControl, Payload: game.StartControlPayload{Enabled: true}})

	assert.Empty(t, n.events)
}

func TestProgressNotifier_DropsWhenFull(t *testing.T) {
	n := NewProgressNotifier(&fakePublisher{}, "q", 2, nil, discardLogger())
	listen := n.Listener("local")

	done := make(chan struct{})
	go func() {
		for i := 0; i < 5; i++ {
			listen(game.Event{Type: game.EventProgress, Payload: models.GameState{Score: 10 * i, Level: i + 1}})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("listener blocked on a full buffer")
	}
	assert.Len(t, n.events, 2)
}

func TestProgressNotifier_PublishErrorKeepsRunning(t *testing.T) {
	pub := &fakePublisher{failures: 1}
	n := NewProgressNotifier(pub, "q", 4, nil, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go n.Run(ctx)

	listen := n.Listener("local")
	listen(game.Event{Type: game.EventProgress, Payload: models.GameState{Score: 10, Level: 2}})
	listen(game.Event{Type: game.EventProgress, Payload: models.GameState{Score: 20, Level: 3}})

	require.Eventually(t, func() bool { return pub.count() == 1 }, time.Second, 5*time.Millisecond)

	pub.mu.Lock()
	defer pub.mu.Unlock()
	var ev ProgressEvent
	require.NoError(t, json.Unmarshal(pub.messages[0].body, &ev))
	assert.Equal(t, 3, ev.Level)
}

func TestProgressNotifier_CompletionQueuedOnce(t *testing.T) {
	clk := clockwork.NewFakeClock()
	n := NewProgressNotifier(&fakePublisher{}, "q", 16, clk, discardLogger())

	bank, err := game.NewQuestionBank([]models.Question{
		{Prompt: "2 + 2?", Options: []string{"3", "4"}, CorrectAnswer: "4"},
	})
	require.NoError(t, err)

	// a sub-second session expires as soon as it starts
	ctrl := game.NewController(game.Options{
		PlayerID:        "alice",
		Questions:       bank,
		Clock:           clk,
		SessionDuration: 500 * time.Millisecond,
		Logger:          discardLogger(),
	})
	defer ctrl.Close()
	ctrl.Subscribe(n.Listener("alice"))

	ctrl.Open(context.Background())
	require.NoError(t, ctrl.BeginAssignment())
	correct, err := ctrl.SubmitAnswer(context.Background(), "4")
	require.NoError(t, err)
	require.True(t, correct)

	clk.Advance(game.DefaultRearmDelay)
	require.Eventually(t, func() bool { return ctrl.Snapshot().StartEnabled }, time.Second, time.Millisecond)

	for i := 0; i < 3; i++ {
		require.NoError(t, ctrl.BeginAssignment())
	}
	require.Equal(t, constants.PhaseCompleted, ctrl.Snapshot().Phase)

	var types []string
	for len(n.events) > 0 {
		types = append(types, (<-n.events).Type)
	}
	assert.Equal(t, []string{"progress", "completed"}, types)
}
