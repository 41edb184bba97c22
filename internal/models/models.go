package models

type Question struct {
	Prompt        string   `json:"prompt" yaml:"prompt"`
	Options       []string `json:"options" yaml:"options"`
	CorrectAnswer string   `json:"answer" yaml:"answer"`
}

// GameState is the persisted progress of one player.
type GameState struct {
	Score int `json:"score"`
	Level int `json:"level"`
}

func InitialState() GameState {
	return GameState{Score: 0, Level: 1}
}

type TimerState struct {
	SecondsRemaining int  `json:"seconds_remaining"`
	Running          bool `json:"running"`
}

type QuestionView struct {
	Level   int      `json:"level"`
	Prompt  string   `json:"prompt"`
	Options []string `json:"options"`
}

type Snapshot struct {
	Phase        string        `json:"phase"`
	State        GameState     `json:"state"`
	Timer        TimerState    `json:"timer"`
	StartEnabled bool          `json:"start_enabled"`
	QuizVisible  bool          `json:"quiz_visible"`
	Feedback     string        `json:"feedback"`
	Question     *QuestionView `json:"question,omitempty"`
	TotalLevels  int           `json:"total_levels"`
}
