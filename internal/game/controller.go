package game

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"learning-timer/internal/constants"
	"learning-timer/internal/models"

	"github.com/jonboulle/clockwork"
)

const (
	DefaultSessionDuration = 30 * time.Second
	DefaultRearmDelay      = 1500 * time.Millisecond
	DefaultReward          = 10
)

var (
	ErrStartDisabled    = errors.New("start control is disabled")
	ErrNoActiveQuestion = errors.New("no question is being presented")
)

// Store persists one GameState per key.
type Store interface {
	Load(ctx context.Context, key string) (models.GameState, bool, error)
	Save(ctx context.Context, key string, state models.GameState) error
	Clear(ctx context.Context, key string) error
}

type Options struct {
	PlayerID        string
	Questions       *QuestionBank
	Store           Store
	Clock           clockwork.Clock
	SessionDuration time.Duration
	RearmDelay      time.Duration
	Reward          int
	Logger          *slog.Logger
}

type subscriber struct {
	id int
	fn Listener
}

// Controller owns the quiz state machine and session countdown of one player.
// All transitions, including timer callbacks, are serialised by mu.
type Controller struct {
	mu sync.Mutex

	playerID   string
	key        string
	questions  *QuestionBank
	store      Store
	clock      clockwork.Clock
	reward     int
	rearmDelay time.Duration
	logger     *slog.Logger

	timer        *sessionTimer
	state        models.GameState
	phase        string
	startEnabled bool
	quizVisible  bool
	feedback     string
	question     *models.QuestionView

	rearm    clockwork.Timer
	rearmGen uint64

	subscribers []subscriber
	nextSubID   int
}

func NewController(opts Options) *Controller {
	if opts.PlayerID == "" {
		opts.PlayerID = constants.LocalPlayer
	}
	if opts.Questions == nil {
		opts.Questions = DefaultQuestionBank()
	}
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.SessionDuration == 0 {
		opts.SessionDuration = DefaultSessionDuration
	}
	if opts.RearmDelay == 0 {
		opts.RearmDelay = DefaultRearmDelay
	}
	if opts.Reward <= 0 {
		opts.Reward = DefaultReward
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	c := &Controller{
		playerID:   opts.PlayerID,
		key:        constants.StateKeyFor(opts.PlayerID),
		questions:  opts.Questions,
		store:      opts.Store,
		clock:      opts.Clock,
		reward:     opts.Reward,
		rearmDelay: opts.RearmDelay,
		logger:     opts.Logger.With("player", opts.PlayerID),
		state:      models.InitialState(),
		phase:      constants.PhaseIdle,
	}
	c.timer = newSessionTimer(&c.mu, opts.Clock, opts.SessionDuration, c.emit, c.onSessionExpired)
	return c
}

func (c *Controller) PlayerID() string {
	return c.playerID
}

// Subscribe registers l for every subsequent event and returns a func that
// removes it.
func (c *Controller) Subscribe(l Listener) func() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.nextSubID++
	id := c.nextSubID
	c.subscribers = append(c.subscribers, subscriber{id: id, fn: l})

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		for i, s := range c.subscribers {
			if s.id == id {
				c.subscribers = append(c.subscribers[:i], c.subscribers[i+1:]...)
				return
			}
		}
	}
}

// Open rehydrates persisted progress and starts the first session.
func (c *Controller) Open(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state = c.restore(ctx)
	c.logger.Info("game opened", "score", c.state.Score, "level", c.state.Level)
	c.startSession()
}

func (c *Controller) restore(ctx context.Context) models.GameState {
	if c.store == nil {
		return models.InitialState()
	}

	saved, found, err := c.store.Load(ctx, c.key)
	if err != nil {
		// unreadable or malformed state counts as no saved progress
		c.logger.Warn("failed to load saved state", "key", c.key, "error", err)
		return models.InitialState()
	}
	if !found {
		return models.InitialState()
	}

	if saved.Score < 0 || saved.Level < 1 || saved.Score%c.reward != 0 {
		c.logger.Warn("discarding out-of-range saved state", "key", c.key, "score", saved.Score, "level", saved.Level)
		return models.InitialState()
	}
	return saved
}

// StartSession starts a fresh countdown, superseding any running countdown
// and any pending re-arm.
func (c *Controller) StartSession() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.startSession()
}

func (c *Controller) startSession() {
	c.cancelRearm()

	c.phase = constants.PhaseIdle
	c.question = nil
	c.setStartEnabled(false)
	c.setQuizVisible(false)
	c.setFeedback("", false)
	c.timer.start()
}

func (c *Controller) onSessionExpired() {
	c.logger.Debug("session countdown finished")
	c.setStartEnabled(true)
}

// BeginAssignment reveals the quiz surface and loads the question for the
// current level.
func (c *Controller) BeginAssignment() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.startEnabled {
		return ErrStartDisabled
	}
	// completion is announced once; only Reset leaves this phase
	if c.phase == constants.PhaseCompleted {
		return nil
	}

	c.setQuizVisible(true)
	c.loadQuestion(c.state.Level)
	return nil
}

func (c *Controller) loadQuestion(level int) {
	q, ok := c.questions.Question(level)
	if !ok {
		c.phase = constants.PhaseCompleted
		c.question = nil
		c.logger.Info("all levels completed", "score", c.state.Score, "level", level)
		c.emit(Event{Type: EventCompleted, Payload: CompletedPayload{
			Message: constants.CompletionMessage,
			Score:   c.state.Score,
			Level:   c.state.Level,
		}})
		return
	}

	c.phase = constants.PhasePresenting
	c.question = &models.QuestionView{Level: level, Prompt: q.Prompt, Options: q.Options}
	c.emit(Event{Type: EventQuestion, Payload: *c.question})
}

// SubmitAnswer checks choice against the current level's answer. A correct
// answer advances the level, persists progress and re-arms the countdown
// after the re-arm delay.
func (c *Controller) SubmitAnswer(ctx context.Context, choice string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.phase != constants.PhasePresenting {
		return false, ErrNoActiveQuestion
	}

	q, _ := c.questions.Question(c.state.Level)
	if choice != q.CorrectAnswer {
		c.setFeedback(constants.FeedbackWrong, false)
		return false, nil
	}

	c.setFeedback(constants.FeedbackCorrect, true)
	c.state.Score += c.reward
	c.state.Level++
	c.phase = constants.PhaseAdvancing
	c.setStartEnabled(false)
	c.emit(Event{Type: EventProgress, Payload: c.state})
	c.logger.Info("level advanced", "score", c.state.Score, "level", c.state.Level)

	if c.store != nil {
		if err := c.store.Save(ctx, c.key, c.state); err != nil {
			c.logger.Error("failed to save progress", "key", c.key, "error", err)
		}
	}

	c.scheduleRearm()
	return true, nil
}

// Reset returns the player to the initial state from any phase.
func (c *Controller) Reset(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state = models.InitialState()
	if c.store != nil {
		if err := c.store.Clear(ctx, c.key); err != nil {
			c.logger.Error("failed to clear saved state", "key", c.key, "error", err)
		}
	}
	c.emit(Event{Type: EventReset, Payload: c.state})
	c.logger.Info("game reset")
	c.startSession()
}

// Close cancels the countdown and any pending re-arm.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cancelRearm()
	c.timer.stop()
}

func (c *Controller) Snapshot() models.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := models.Snapshot{
		Phase:        c.phase,
		State:        c.state,
		Timer:        c.timer.snapshot(),
		StartEnabled: c.startEnabled,
		QuizVisible:  c.quizVisible,
		Feedback:     c.feedback,
		TotalLevels:  c.questions.Levels(),
	}
	if c.question != nil {
		q := *c.question
		q.Options = append([]string(nil), q.Options...)
		snap.Question = &q
	}
	return snap
}

func (c *Controller) scheduleRearm() {
	c.cancelRearm()

	gen := c.rearmGen
	c.rearm = c.clock.AfterFunc(c.rearmDelay, func() {
		c.mu.Lock()
		defer c.mu.Unlock()

		if gen != c.rearmGen {
			return
		}
		c.rearm = nil
		c.startSession()
	})
}

func (c *Controller) cancelRearm() {
	c.rearmGen++
	if c.rearm != nil {
		c.rearm.Stop()
		c.rearm = nil
	}
}

func (c *Controller) setStartEnabled(enabled bool) {
	c.startEnabled = enabled
	c.emit(Event{Type: EventStartControl, Payload: StartControlPayload{Enabled: enabled}})
}

func (c *Controller) setQuizVisible(visible bool) {
	c.quizVisible = visible
	c.emit(Event{Type: EventQuizSurface, Payload: QuizSurfacePayload{Visible: visible}})
}

func (c *Controller) setFeedback(text string, correct bool) {
	c.feedback = text
	c.emit(Event{Type: EventFeedback, Payload: FeedbackPayload{Text: text, Correct: correct}})
}

func (c *Controller) emit(ev Event) {
	for _, s := range c.subscribers {
		s.fn(ev)
	}
}
