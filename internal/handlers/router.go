package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"learning-timer/internal/middleware"
	ws "learning-timer/internal/websocket"

	"github.com/gin-gonic/gin"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type RouterConfig struct {
	JWTSecret      string
	AllowedOrigins []string
}

func NewRouter(hub *ws.Hub, store Pinger, cfg RouterConfig, logger *slog.Logger) *gin.Engine {
	router := gin.New()
	router.Use(middleware.ErrorHandler(logger))
	router.Use(middleware.RequestLogger(logger))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "learning-timer",
		})
	})

	router.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := store.Ping(ctx); err != nil {
			logger.Warn("storage not ready", "error", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "not ready",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status": "ready",
		})
	})

	gameHandler := NewGameHandler(hub)
	wsHandler := NewWebSocketHandler(hub, cfg.AllowedOrigins, logger)

	identified := router.Group("/", middleware.PlayerIdentity(cfg.JWTSecret))
	{
		api := identified.Group("/api/game")
		api.GET("", gameHandler.Snapshot)
		api.POST("/assignment", gameHandler.BeginAssignment)
		api.POST("/answer", gameHandler.SubmitAnswer)
		api.POST("/reset", gameHandler.Reset)

		identified.GET("/ws", wsHandler.HandleWebSocket)
	}

	return router
}
