package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"learning-timer/internal/dto"
	"learning-timer/internal/game"
	"learning-timer/internal/middleware"
	ws "learning-timer/internal/websocket"

	"github.com/gin-gonic/gin"
)

const requestTimeout = 5 * time.Second

type GameHandler struct {
	hub *ws.Hub
}

func NewGameHandler(hub *ws.Hub) *GameHandler {
	return &GameHandler{hub: hub}
}

func (h *GameHandler) Snapshot(c *gin.Context) {
	ctrl := h.hub.Player(middleware.PlayerID(c))
	c.JSON(http.StatusOK, ctrl.Snapshot())
}

func (h *GameHandler) BeginAssignment(c *gin.Context) {
	ctrl := h.hub.Player(middleware.PlayerID(c))

	if err := ctrl.BeginAssignment(); err != nil {
		if errors.Is(err, game.ErrStartDisabled) {
			dto.JsonError(c, http.StatusConflict, "Wait for the countdown to finish")
			return
		}
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, ctrl.Snapshot())
}

func (h *GameHandler) SubmitAnswer(c *gin.Context) {
	var req dto.AnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.JsonError(c, http.StatusBadRequest, "answer is required")
		return
	}

	ctrl := h.hub.Player(middleware.PlayerID(c))

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	correct, err := ctrl.SubmitAnswer(ctx, req.Answer)
	if err != nil {
		if errors.Is(err, game.ErrNoActiveQuestion) {
			dto.JsonError(c, http.StatusConflict, "No question to answer")
			return
		}
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.AnswerResponse{
		Correct: correct,
		State:   ctrl.Snapshot(),
	})
}

func (h *GameHandler) Reset(c *gin.Context) {
	ctrl := h.hub.Player(middleware.PlayerID(c))

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	ctrl.Reset(ctx)
	c.JSON(http.StatusOK, ctrl.Snapshot())
}
