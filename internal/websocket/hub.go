package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"learning-timer/internal/game"
)

const storageTimeout = 5 * time.Second

// ControllerFactory builds the (unopened) controller for a player.
type ControllerFactory func(playerID string) *game.Controller

type ClientMessage struct {
	Client  *Client
	Message Message
}

type player struct {
	controller *game.Controller
	clients    map[*Client]bool
	open       sync.Once
}

// Hub owns one controller per player and fans its events out to that
// player's websocket clients.
type Hub struct {
	players    map[string]*player
	register   chan *Client
	unregister chan *Client
	messages   chan *ClientMessage

	factory ControllerFactory
	logger  *slog.Logger

	// never held while calling into a controller
	mu sync.RWMutex

	quit     chan struct{}
	stopOnce sync.Once
}

func NewHub(factory ControllerFactory, logger *slog.Logger) *Hub {
	return &Hub{
		players:    make(map[string]*player),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		messages:   make(chan *ClientMessage),
		factory:    factory,
		logger:     logger,
		quit:       make(chan struct{}),
	}
}

// Register hands client to the hub. It reports false once the hub has stopped.
func (h *Hub) Register(client *Client) bool {
	if h.stopped() {
		return false
	}
	select {
	case h.register <- client:
		return true
	case <-h.quit:
		return false
	}
}

func (h *Hub) Unregister(client *Client) {
	if h.stopped() {
		return
	}
	select {
	case h.unregister <- client:
	case <-h.quit:
	}
}

// Dispatch queues an inbound message. It reports false once the hub has stopped.
func (h *Hub) Dispatch(client *Client, msg Message) bool {
	if h.stopped() {
		return false
	}
	select {
	case h.messages <- &ClientMessage{Client: client, Message: msg}:
		return true
	case <-h.quit:
		return false
	}
}

func (h *Hub) stopped() bool {
	select {
	case <-h.quit:
		return true
	default:
		return false
	}
}

func (h *Hub) Run() {
	for {
		select {
		case <-h.quit:
			return

		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case clientMsg := <-h.messages:
			h.handleClientMessage(clientMsg)
		}
	}
}

// Stop ends Run and cancels every player's timers.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() {
		close(h.quit)

		h.mu.RLock()
		controllers := make([]*game.Controller, 0, len(h.players))
		for _, p := range h.players {
			controllers = append(controllers, p.controller)
		}
		h.mu.RUnlock()

		for _, c := range controllers {
			c.Close()
		}
	})
}

// Player returns the opened controller for playerID, creating it on first use.
func (h *Hub) Player(playerID string) *game.Controller {
	h.mu.Lock()
	p, ok := h.players[playerID]
	if !ok {
		p = &player{
			controller: h.factory(playerID),
			clients:    make(map[*Client]bool),
		}
		h.players[playerID] = p
	}
	h.mu.Unlock()

	p.open.Do(func() {
		p.controller.Subscribe(func(ev game.Event) {
			h.broadcast(playerID, MessageType(ev.Type), ev.Payload)
		})

		ctx, cancel := context.WithTimeout(context.Background(), storageTimeout)
		defer cancel()
		p.controller.Open(ctx)
		h.logger.Info("player opened", "player", playerID)
	})
	return p.controller
}

func (h *Hub) registerClient(client *Client) {
	ctrl := h.Player(client.PlayerID)

	h.mu.Lock()
	p := h.players[client.PlayerID]
	p.clients[client] = true
	count := len(p.clients)
	h.mu.Unlock()

	h.logger.Info("client registered", "player", client.PlayerID, "clients", count)
	client.SendMessage(MessageTypeSnapshot, ctrl.Snapshot())
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	p, ok := h.players[client.PlayerID]
	if !ok {
		return
	}
	if _, ok := p.clients[client]; ok {
		delete(p.clients, client)
		close(client.Send)
		h.logger.Info("client unregistered", "player", client.PlayerID, "clients", len(p.clients))
	}
}

func (h *Hub) handleClientMessage(clientMsg *ClientMessage) {
	client := clientMsg.Client
	msg := clientMsg.Message

	h.logger.Debug("received message", "type", msg.Type, "player", client.PlayerID)

	ctrl := h.Player(client.PlayerID)
	ctx, cancel := context.WithTimeout(context.Background(), storageTimeout)
	defer cancel()

	switch msg.Type {
	case MessageTypeStartAssignment:
		if err := ctrl.BeginAssignment(); err != nil {
			client.SendError(describe(err))
		}

	case MessageTypeAnswer:
		var answer AnswerPayload
		if err := decodePayload(msg.Payload, &answer); err != nil {
			client.SendError("Invalid answer format")
			return
		}
		if _, err := ctrl.SubmitAnswer(ctx, answer.Answer); err != nil {
			client.SendError(describe(err))
		}

	case MessageTypeReset:
		ctrl.Reset(ctx)

	case MessageTypePing:
		client.SendMessage(MessageTypePong, nil)

	default:
		client.SendError(fmt.Sprintf("Unknown message type: %s", msg.Type))
	}
}

func (h *Hub) broadcast(playerID string, msgType MessageType, payload any) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	p, ok := h.players[playerID]
	if !ok {
		return
	}
	for client := range p.clients {
		client.SendMessage(msgType, payload)
	}
}

func decodePayload(payload any, v any) error {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return json.Unmarshal(payloadBytes, v)
}

func describe(err error) string {
	switch {
	case errors.Is(err, game.ErrStartDisabled):
		return "Wait for the countdown to finish"
	case errors.Is(err, game.ErrNoActiveQuestion):
		return "No question to answer"
	default:
		return err.Error()
	}
}
