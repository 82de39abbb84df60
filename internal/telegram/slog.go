package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

var _ slog.Handler = &SlogHandler{}

type SlogHandler struct {
	bot  *Bot
	next slog.Handler
	mu   sync.Mutex
}

func NewSlogHandler(bot *Bot, next slog.Handler) *SlogHandler {
	return &SlogHandler{
		bot:  bot,
		next: next,
	}
}

func (h *SlogHandler) Enabled(ctx context.Context, l slog.Level) bool {
	if l >= slog.LevelWarn {
		return true
	}
	return h.next != nil && h.next.Enabled(ctx, l)
}

// Handle sends warning and error records to Telegram; every record still
// flows to the wrapped handler.
func (h *SlogHandler) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= slog.LevelWarn {
		h.mu.Lock()
		err := h.bot.BroadcastSlogRecord(ctx, r)
		h.mu.Unlock()
		if err != nil {
			return fmt.Errorf("broadcast: %w", err)
		}
	}
	if h.next != nil && h.next.Enabled(ctx, r.Level) {
		return h.next.Handle(ctx, r)
	}
	return nil
}

func (h *SlogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return h
}

func (h *SlogHandler) WithGroup(name string) slog.Handler {
	return h
}
