// Package pipeline transforms one inbound message into an ordered sequence
// of outbound reply chunks: exactly one generation call, whitespace
// normalization, fixed-size chunking, sequential delivery.
package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"relaybot/internal/domain"
	"relaybot/internal/metrics"
)

// MaxChunkLen is Telegram's per-message character limit.
const MaxChunkLen = 4096

// previewLen bounds how much of the user's input is echoed into logs.
const previewLen = 50

const (
	// ProviderApology is sent when the provider reports an API failure.
	ProviderApology = "An error occurred while communicating with the Gemini API. Please try again later."
	// InternalApology is sent on any other failure while handling a message.
	InternalApology = "An unexpected error occurred. Please check the bot logs."
)

const defaultConcurrency = 5

// Pipeline consumes inbound messages from the bus and replies through it.
// It holds no per-message state; one instance serves all conversations.
type Pipeline struct {
	provider    domain.Provider
	bus         domain.MessageBus
	logger      *slog.Logger
	concurrency int
}

type Config struct {
	Provider    domain.Provider
	Bus         domain.MessageBus
	Logger      *slog.Logger
	Concurrency int // max messages processed in parallel
}

func New(cfg Config) *Pipeline {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = defaultConcurrency
	}
	return &Pipeline{
		provider:    cfg.Provider,
		bus:         cfg.Bus,
		logger:      cfg.Logger,
		concurrency: cfg.Concurrency,
	}
}

// Run consumes inbound messages and processes them with bounded concurrency.
// Messages from different conversations do not block one another; within one
// message, generation, chunking, and delivery are strictly sequential.
func (p *Pipeline) Run(ctx context.Context) {
	p.logger.Info("pipeline started", "concurrency", p.concurrency, "provider", p.provider.Name(), "model", p.provider.Model())

	sem := make(chan struct{}, p.concurrency)
	inbound := p.bus.Subscribe()

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("pipeline stopping")
			return
		case msg, ok := <-inbound:
			if !ok {
				p.logger.Info("inbound channel closed, pipeline stopping")
				return
			}
			sem <- struct{}{}
			go func(m domain.InboundMessage) {
				defer func() { <-sem }()
				p.Process(ctx, m)
			}(msg)
		}
	}
}

// Process handles a single inbound message: one generation call, then the
// reply chunks in order. Every failure is recovered here into a single
// user-visible apology; nothing propagates past this boundary.
func (p *Pipeline) Process(ctx context.Context, msg domain.InboundMessage) {
	metrics.MessagesTotal.Inc()
	metrics.InFlightMessages.Inc()
	defer metrics.InFlightMessages.Dec()

	defer func() {
		if r := recover(); r != nil {
			metrics.InternalErrorsTotal.Inc()
			p.logger.Error("panic while handling message",
				"chat_id", msg.ChatID, "input", preview(msg.Content), "panic", r)
			p.sendApology(msg, InternalApology)
		}
	}()

	p.logger.Info("message received",
		"chat_id", msg.ChatID,
		"sender", msg.SenderID,
		"input", preview(msg.Content),
	)

	reply, err := p.provider.Generate(ctx, msg.Content)
	if err != nil {
		var provErr *domain.ProviderError
		if errors.As(err, &provErr) {
			metrics.ProviderErrorsTotal.Inc()
			p.logger.Error("provider error",
				"chat_id", msg.ChatID, "input", preview(msg.Content), "err", err)
			p.sendApology(msg, ProviderApology)
			return
		}
		metrics.InternalErrorsTotal.Inc()
		p.logger.Error("unexpected error while handling message",
			"chat_id", msg.ChatID, "input", preview(msg.Content), "err", err)
		p.sendApology(msg, InternalApology)
		return
	}

	chunks := Split(strings.TrimSpace(reply), MaxChunkLen)
	for _, chunk := range chunks {
		// SendOutbound invokes the channel handler synchronously, so chunk
		// i+1 is not handed over before chunk i's send has completed.
		p.bus.SendOutbound(domain.OutboundMessage{
			Channel: msg.Channel,
			ChatID:  msg.ChatID,
			Content: chunk,
			Format:  "markdown",
		})
		metrics.ChunksSentTotal.Inc()
	}

	p.logger.Info("replied", "chat_id", msg.ChatID, "chunks", len(chunks))
}

func (p *Pipeline) sendApology(msg domain.InboundMessage, apology string) {
	p.bus.SendOutbound(domain.OutboundMessage{
		Channel: msg.Channel,
		ChatID:  msg.ChatID,
		Content: apology,
		Format:  "text",
	})
}

// Split partitions text into consecutive, non-overlapping slices of exactly
// maxLen characters; the final slice may be shorter. Concatenating the
// result reproduces text exactly. Splitting is by raw character (rune)
// count, with no word or grapheme boundary awareness.
func Split(text string, maxLen int) []string {
	runes := []rune(text)
	if len(runes) <= maxLen {
		return []string{text}
	}
	chunks := make([]string, 0, (len(runes)+maxLen-1)/maxLen)
	for i := 0; i < len(runes); i += maxLen {
		end := i + maxLen
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[i:end]))
	}
	return chunks
}

func preview(s string) string {
	runes := []rune(s)
	if len(runes) <= previewLen {
		return s
	}
	return string(runes[:previewLen]) + "..."
}
