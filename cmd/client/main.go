package main

import (
	"context"
	"ctchen222/Tic-Tac-Toe-Client/internal/client"
	"ctchen222/Tic-Tac-Toe-Client/internal/config"
	"ctchen222/Tic-Tac-Toe-Client/internal/controller"
	"ctchen222/Tic-Tac-Toe-Client/internal/logger"
	"ctchen222/Tic-Tac-Toe-Client/internal/telemetry"
	"ctchen222/Tic-Tac-Toe-Client/internal/tui"
	"ctchen222/Tic-Tac-Toe-Client/internal/view"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
)

func main() {
	configPath := flag.String("config", "client.yml", "path to the YAML config file")
	flag.Parse()

	_ = godotenv.Load()

	conf, err := config.LoadClient(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// The terminal belongs to the UI, so logs go to a file or nowhere.
	var logOut io.Writer = io.Discard
	if conf.Log.File != "" {
		f, err := os.OpenFile(conf.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			log.Fatalf("failed to open log file: %v", err)
		}
		defer f.Close()
		logOut = f
	}
	level, err := logger.ParseLevel(conf.Log.Level)
	if err != nil {
		log.Fatalf("failed to parse log level: %v", err)
	}
	logger.Init(logOut, level)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdown, err := telemetry.InitOtel(ctx, "tic-tac-toe-client", conf.OtelEndpoint)
	if err != nil {
		log.Fatalf("failed to initialize telemetry: %v", err)
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			slog.Error("Error shutting down telemetry", "error", err)
		}
	}()

	sc := client.New(conf.ServerAddr, conf.RequestTimeout)
	ctrl := controller.New(sc, controller.Options{PollInterval: conf.PollInterval})
	ctrl.Start(ctx)
	defer ctrl.Close()

	slog.Info("Client started", "server.addr", conf.ServerAddr, "poll.interval", conf.PollInterval)

	p := tea.NewProgram(tui.New(ctrl, view.DefaultTheme()), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "tic-tac-toe: %v\n", err)
		ctrl.Close()
		os.Exit(1)
	}
}
