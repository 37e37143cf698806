// Package command maps bot commands (/start, /help, /status) to reply text.
// Command-prefixed input is routed here by the Telegram channel and never
// reaches the pipeline.
package command

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"relaybot/internal/metrics"
	"relaybot/internal/sysmon"
)

const (
	startReply = "👋 Hello! I'm a bot powered by Google's Gemini AI.\n" +
		"Just send me a message and I'll do my best to respond!\n" +
		"Use /help to see available commands."

	helpReply = "📝 *Available Commands:*\n" +
		"/start - Start the conversation\n" +
		"/help - Show this help message\n" +
		"/status - Show host system status\n\n" +
		"To chat, just send a text message directly."

	unknownReply = "Unknown command. Type /help for available commands."

	// MetricsFallback is returned when the host metrics cannot be read.
	MetricsFallback = "⚠️ Could not read system metrics. Please try again later."
)

// Dispatcher resolves a command name to its reply text.
type Dispatcher struct {
	source sysmon.Source
	logger *slog.Logger
}

func NewDispatcher(source sysmon.Source, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{source: source, logger: logger}
}

// Reply returns the reply text for the given command name (without the
// leading slash). It never fails: a metrics read error yields the fixed
// fallback string.
func (d *Dispatcher) Reply(ctx context.Context, cmd string) string {
	switch cmd {
	case "start":
		return startReply
	case "help":
		return helpReply
	case "status":
		return d.statusReply(ctx)
	default:
		return unknownReply
	}
}

func (d *Dispatcher) statusReply(ctx context.Context) string {
	snap, err := d.source.Snapshot(ctx)
	if err != nil {
		d.logger.Error("metrics read failed", "err", err)
		return MetricsFallback
	}
	return fmt.Sprintf("%s\nUptime: %s\nMessages processed: %d",
		snap.Report(),
		metrics.Collector.Uptime().Round(time.Second),
		metrics.MessagesTotal.Value(),
	)
}
