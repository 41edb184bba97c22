package websocket

import "learning-timer/internal/game"

type MessageType string

const (
	// Client -> Server
	MessageTypeStartAssignment MessageType = "start_assignment"
	MessageTypeAnswer          MessageType = "answer"
	MessageTypeReset           MessageType = "reset"
	MessageTypePing            MessageType = "ping"

	// Server -> Client; controller events are forwarded under their own type
	MessageTypeSnapshot     MessageType = "snapshot"
	MessageTypeTimer        MessageType = MessageType(game.EventTimer)
	MessageTypeStartControl MessageType = MessageType(game.EventStartControl)
	MessageTypeQuizSurface  MessageType = MessageType(game.EventQuizSurface)
	MessageTypeQuestion     MessageType = MessageType(game.EventQuestion)
	MessageTypeCompleted    MessageType = MessageType(game.EventCompleted)
	MessageTypeFeedback     MessageType = MessageType(game.EventFeedback)
	MessageTypeProgress     MessageType = MessageType(game.EventProgress)
	MessageTypeResetDone    MessageType = MessageType(game.EventReset)
	MessageTypeError        MessageType = "error"
	MessageTypePong         MessageType = "pong"
)

type Message struct {
	Type    MessageType `json:"type"`
	Payload any         `json:"payload,omitempty"`
}

type AnswerPayload struct {
	Answer string `json:"answer"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}
