package game

type EventType string

const (
	EventTimer        EventType = "timer"
	EventStartControl EventType = "start_control"
	EventQuizSurface  EventType = "quiz_surface"
	EventQuestion     EventType = "question"
	EventCompleted    EventType = "completed"
	EventFeedback     EventType = "feedback"
	EventProgress     EventType = "progress"
	EventReset        EventType = "reset"
)

// Event is a display update emitted by the controller. Payload is one of
// models.TimerState, StartControlPayload, QuizSurfacePayload,
// models.QuestionView, CompletedPayload, FeedbackPayload or models.GameState.
type Event struct {
	Type    EventType `json:"type"`
	Payload any       `json:"payload,omitempty"`
}

type StartControlPayload struct {
	Enabled bool `json:"enabled"`
}

type QuizSurfacePayload struct {
	Visible bool `json:"visible"`
}

type CompletedPayload struct {
	Message string `json:"message"`
	Score   int    `json:"score"`
	Level   int    `json:"level"`
}

type FeedbackPayload struct {
	Text    string `json:"text"`
	Correct bool   `json:"correct"`
}

// Listener receives events while the controller lock is held and must not
// call back into the controller.
type Listener func(Event)
