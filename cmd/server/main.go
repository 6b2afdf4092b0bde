package main

import (
	"context"
	"ctchen222/Tic-Tac-Toe-Client/internal/api/controller"
	"ctchen222/Tic-Tac-Toe-Client/internal/api/service"
	"ctchen222/Tic-Tac-Toe-Client/internal/bot"
	"ctchen222/Tic-Tac-Toe-Client/internal/config"
	"ctchen222/Tic-Tac-Toe-Client/internal/db"
	"ctchen222/Tic-Tac-Toe-Client/internal/game"
	"ctchen222/Tic-Tac-Toe-Client/internal/logger"
	"ctchen222/Tic-Tac-Toe-Client/internal/repository"
	"ctchen222/Tic-Tac-Toe-Client/internal/server"
	"ctchen222/Tic-Tac-Toe-Client/internal/telemetry"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
)

func main() {
	configPath := flag.String("config", "server.yml", "path to the YAML config file")
	flag.Parse()

	// .env is optional
	_ = godotenv.Load()

	conf, err := config.LoadServer(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	level, err := logger.ParseLevel(conf.Log.Level)
	if err != nil {
		log.Fatalf("failed to parse log level: %v", err)
	}
	logger.Init(os.Stdout, level)

	ctx := context.Background()

	// Initialize telemetry
	shutdown, err := telemetry.InitOtel(ctx, "tic-tac-toe-server", conf.OtelEndpoint)
	if err != nil {
		log.Fatalf("failed to initialize telemetry: %v", err)
	}
	defer func() {
		if err := shutdown(ctx); err != nil {
			slog.Error("Error shutting down telemetry", "error", err)
		}
	}()

	gameRepo, closeStorage, err := newGameRepository(ctx, conf.Storage)
	if err != nil {
		log.Fatalf("failed to initialize storage: %v", err)
	}
	defer closeStorage()

	var opponent *bot.Player
	if conf.Bot.Enabled {
		difficulty, err := bot.ParseDifficulty(conf.Bot.Difficulty)
		if err != nil {
			log.Fatalf("invalid bot difficulty: %v", err)
		}
		opponent = bot.NewPlayer(game.PlayerO, difficulty, conf.Bot.Delay, nil)
	}

	gameService := service.NewGameService(gameRepo, opponent)
	defer gameService.Close()

	gameController := controller.NewGameController(gameService)
	srv := server.NewServer(gameController)

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	httpServer := &http.Server{
		Addr:              conf.HTTPAddr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		slog.Info("HTTP server started", "http.addr", conf.HTTPAddr, "storage", conf.Storage.Driver, "bot.enabled", conf.Bot.Enabled)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("ListenAndServe: %v", err)
		}
	}()

	<-stop

	slog.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}

	slog.Info("Server exiting")
}

func newGameRepository(ctx context.Context, conf config.Storage) (repository.GameRepository, func(), error) {
	switch conf.Driver {
	case "redis":
		rdb, err := db.NewRedisClient(ctx, conf.RedisAddr)
		if err != nil {
			return nil, nil, err
		}
		return repository.NewRedisGameRepository(rdb), func() { rdb.Close() }, nil
	case "sqlite":
		conn, err := db.NewSQLite(ctx, conf.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return repository.NewSQLiteGameRepository(conn), func() { conn.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", conf.Driver)
	}
}
