// Command client joins a kart lobby server, votes from the command line's
// environment, and follows the session through load, race and result phases.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"kartlobby/internal/config"
	"kartlobby/internal/domain"
	"kartlobby/internal/lobby"
	"kartlobby/internal/transport/ws"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadClient()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logOpts := &slog.HandlerOptions{Level: slog.LevelInfo}
	var logger *slog.Logger
	if cfg.Logging.Format == "json" {
		logger = slog.New(slog.NewJSONHandler(os.Stdout, logOpts))
	} else {
		logger = slog.New(slog.NewTextHandler(os.Stdout, logOpts))
	}
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	conn, err := ws.Dial(ctx, cfg.ServerURL, logger)
	cancel()
	if err != nil {
		logger.Error("failed to connect", "url", cfg.ServerURL, "error", err)
		os.Exit(1)
	}
	defer conn.Close()

	setup := domain.NewGameSetup()
	client := lobby.CreateClient(lobby.ClientConfig{
		PlayerName:  cfg.PlayerName,
		Password:    cfg.Password,
		DataVersion: cfg.DataVersion,
	}, setup, conn, logger)
	defer client.Shutdown()

	client.Setup()

	// Tick loop driving the coordinator's update
	tickDone := make(chan struct{})
	go func() {
		ticker := time.NewTicker(50 * time.Millisecond)
		defer ticker.Stop()

		last := time.Now()
		for {
			select {
			case <-tickDone:
				return
			case now := <-ticker.C:
				client.Update(now.Sub(last))
				last = now
			}
		}
	}()
	defer close(tickDone)

	// Run the pumps until the connection drops or we are interrupted
	done := make(chan struct{})
	go func() {
		conn.Run()
		close(done)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		logger.Info("disconnecting...")
	case <-done:
		if reason, refused := client.Refusal(); refused {
			logger.Error("server refused the connection", "reason", reason)
		} else {
			logger.Info("connection closed by server")
		}
	}
}
