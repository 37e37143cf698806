package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"relaybot/internal/bus"
	"relaybot/internal/channel"
	"relaybot/internal/command"
	"relaybot/internal/config"
	"relaybot/internal/pipeline"
	"relaybot/internal/provider"
	"relaybot/internal/sysmon"
)

var (
	version    = "0.1.0"
	logger     *slog.Logger
	configPath string // overridable via --config flag
)

func main() {
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	root := &cobra.Command{
		Use:   "relaybot",
		Short: "relaybot: Telegram to Gemini chat relay",
		Long:  "relaybot forwards Telegram messages to the Gemini API and relays the replies, split to Telegram's message limit.",
	}

	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to optional config.yaml")

	root.AddCommand(runCmd())
	root.AddCommand(statusCmd())
	root.AddCommand(doctorCmd())
	root.AddCommand(versionCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Start the relay (Telegram polling + pipeline)",
		RunE:  runRelay,
	}
}

func runRelay(cmd *cobra.Command, args []string) error {
	secrets, err := config.LoadSecrets()
	if err != nil {
		// Names the missing variable; the process exits non-zero before
		// serving any traffic.
		logger.Error("startup configuration error", "err", err)
		return err
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Error("config error", "err", err)
		return err
	}
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel(cfg.General.LogLevel)}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	messageBus := bus.New(100, logger)

	gemini, err := provider.NewGemini(ctx, provider.GeminiConfig{
		APIKey: secrets.GeminiAPIKey,
		Model:  cfg.Gemini.Model,
		Logger: logger,
	})
	if err != nil {
		logger.Error("gemini client error", "err", err)
		return err
	}

	pipe := pipeline.New(pipeline.Config{
		Provider:    gemini,
		Bus:         messageBus,
		Logger:      logger,
		Concurrency: cfg.General.MaxConcurrentMessages,
	})
	go pipe.Run(ctx)

	dispatcher := command.NewDispatcher(sysmon.NewHostSource(cfg.Telegram.DiskPath), logger)

	telegramCh := channel.NewTelegram(channel.TelegramConfig{
		Token:      secrets.TelegramToken,
		AllowFrom:  cfg.Telegram.AllowFrom,
		ParseMode:  cfg.Telegram.ParseMode,
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	telegramErr := make(chan error, 1)
	go func() {
		if err := telegramCh.Start(ctx, messageBus); err != nil {
			logger.Error("telegram channel error", "err", err)
			telegramErr <- err
		}
	}()

	logger.Info("relay started. Press Ctrl+C to stop.", "model", cfg.Gemini.Model)

	select {
	case err := <-telegramErr:
		messageBus.Close()
		return err
	case <-ctx.Done():
	}
	logger.Info("shutting down...")

	// Graceful shutdown with timeout.
	const shutdownTimeout = 10 * time.Second
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		telegramCh.Stop()
		messageBus.Close()
	}()

	select {
	case <-done:
		logger.Info("shutdown complete")
		return nil
	case <-shutdownCtx.Done():
		logger.Warn("shutdown timed out, forcing exit")
		return fmt.Errorf("shutdown timed out")
	}
}

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Print host system utilization",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			snap, err := sysmon.NewHostSource(cfg.Telegram.DiskPath).Snapshot(ctx)
			if err != nil {
				return fmt.Errorf("read metrics: %w", err)
			}
			fmt.Println(snap.Report())
			return nil
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("relaybot v%s\n", version)
		},
	}
}

func logLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
