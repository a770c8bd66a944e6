package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"kartlobby/internal/config"
	"kartlobby/internal/domain"
	"kartlobby/internal/lobby"
	httpTransport "kartlobby/internal/transport/http"
	"kartlobby/internal/transport/ws"
)

func main() {
	// Optional .env for local development
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Set up logger
	logOpts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Logging.Level),
	}

	var logger *slog.Logger
	if cfg.Logging.Format == "json" {
		logger = slog.New(slog.NewJSONHandler(os.Stdout, logOpts))
	} else {
		logger = slog.New(slog.NewTextHandler(os.Stdout, logOpts))
	}

	slog.SetDefault(logger)

	logger.Info("starting kart lobby server",
		"env", cfg.Server.Env,
		"port", cfg.Server.Port,
	)

	// Transport and session coordinator
	hub := ws.NewHub(logger)
	defer hub.Close()

	setup := domain.NewGameSetup()
	srv := lobby.CreateServer(lobby.ServerConfig{
		ServerName:    cfg.Lobby.ServerName,
		Password:      cfg.Lobby.Password,
		DataVersion:   cfg.Lobby.DataVersion,
		MinPlayers:    cfg.Lobby.MinPlayers,
		MaxPlayers:    cfg.Lobby.MaxPlayers,
		MaxVotingTime: cfg.MaxVotingTime(),
		DefaultTrack:  cfg.Lobby.DefaultTrack,
		DefaultLaps:   cfg.Lobby.DefaultLaps,
	}, setup, hub, logger)
	srv.Setup()
	defer srv.Shutdown()

	// Tick loop driving the coordinator's update
	tickDone := make(chan struct{})
	go func() {
		ticker := time.NewTicker(cfg.TickInterval())
		defer ticker.Stop()

		last := time.Now()
		for {
			select {
			case <-tickDone:
				return
			case now := <-ticker.C:
				srv.Update(now.Sub(last))
				last = now
			}
		}
	}()

	// HTTP server hosting the websocket endpoint
	server := httpTransport.NewServer(cfg, hub, logger)

	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")
	close(tickDone)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	logger.Info("server stopped")
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
