package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"learning-timer/config"
	"learning-timer/internal/client"
	"learning-timer/internal/constants"
	"learning-timer/internal/game"
	"learning-timer/internal/handlers"
	"learning-timer/internal/repository"
	"learning-timer/internal/service"
	ws "learning-timer/internal/websocket"
	"learning-timer/pkg/cache"
	"learning-timer/pkg/database"
	"learning-timer/pkg/messaging"
	"learning-timer/pkg/storage"

	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"
)

type stateStore interface {
	game.Store
	handlers.Pinger
}

func main() {
	cfg := config.MustLoad()
	logger := newLogger(cfg.LogLevel)
	logger.Info("configuration loaded", "storage", cfg.Storage.Driver)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to open storage", "driver", cfg.Storage.Driver, "error", err)
		os.Exit(1)
	}
	defer closeStore()

	var objects client.ObjectReader
	if cfg.Game.QuestionsBucket != "" {
		s3Client, err := storage.NewS3Client(&cfg.S3)
		if err != nil {
			logger.Error("failed to create S3 client", "error", err)
			os.Exit(1)
		}
		objects = s3Client
	}

	questions, err := client.NewQuestionSource(&cfg.Game, objects).Load(ctx)
	if err != nil {
		logger.Error("failed to load question bank", "error", err)
		os.Exit(1)
	}
	logger.Info("question bank loaded", "levels", questions.Levels())

	clk := clockwork.NewRealClock()

	var notifier *service.ProgressNotifier
	if cfg.RabbitMQ.Host != "" {
		mqClient, err := messaging.NewRabbitMQClient(&cfg.RabbitMQ)
		if err != nil {
			logger.Warn("failed to connect to RabbitMQ, progress events disabled", "error", err)
		} else {
			defer mqClient.Close()
			notifier = service.NewProgressNotifier(mqClient, cfg.RabbitMQ.Queue, 256, clk, logger)
			go notifier.Run(ctx)
			logger.Info("connected to RabbitMQ", "queue", cfg.RabbitMQ.Queue)
		}
	}

	factory := func(playerID string) *game.Controller {
		ctrl := game.NewController(game.Options{
			PlayerID:        playerID,
			Questions:       questions,
			Store:           store,
			Clock:           clk,
			SessionDuration: cfg.Game.SessionDuration,
			RearmDelay:      cfg.Game.RearmDelay,
			Reward:          cfg.Game.RewardPoints,
			Logger:          logger,
		})
		if notifier != nil {
			ctrl.Subscribe(notifier.Listener(playerID))
		}
		return ctrl
	}

	hub := ws.NewHub(factory, logger)
	go hub.Run()
	defer hub.Stop()
	logger.Info("websocket hub started")

	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := handlers.NewRouter(hub, store, handlers.RouterConfig{
		JWTSecret:      cfg.Auth.JWTSecret,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	}, logger)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.HTTPPort,
		Handler: router,
	}

	go func() {
		logger.Info("HTTP server starting", "port", cfg.Server.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("HTTP server shutdown", "error", err)
	}
	logger.Info("learning timer stopped")
}

func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (stateStore, func(), error) {
	switch cfg.Storage.Driver {
	case constants.StorageMemory:
		return repository.NewMemoryStore(), func() {}, nil

	case constants.StorageRedis:
		redisClient, err := cache.NewRedisClient(&cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("connected to Redis")
		return repository.NewRedisStore(redisClient), func() { redisClient.Close() }, nil

	case constants.StoragePostgres, constants.StorageSQLite:
		var (
			dbClient *database.Client
			err      error
		)
		if cfg.Storage.Driver == constants.StoragePostgres {
			dbClient, err = database.NewPostgresClient(&cfg.DB)
		} else {
			dbClient, err = database.NewSQLiteClient(cfg.Storage.SQLitePath)
		}
		if err != nil {
			return nil, nil, err
		}

		schemaCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		if err := dbClient.InitSchema(schemaCtx); err != nil {
			dbClient.Close()
			return nil, nil, err
		}
		logger.Info("database schema initialized", "driver", dbClient.Driver())
		return repository.NewStateRepository(dbClient.GetDB()), func() { dbClient.Close() }, nil

	default:
		return nil, nil, errors.New("unknown storage driver " + cfg.Storage.Driver)
	}
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}
