// Package telegram is the bot's operations channel: it broadcasts warnings
// to subscribed chats and answers simple calendar queries.
package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/metmat-canvas-bot/internal/uniweek"
)

type Bot struct {
	api   *tgbotapi.BotAPI
	store *Store
}

func NewBot(store *Store, token string) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	return &Bot{
		api:   api,
		store: store,
	}, nil
}

func (b *Bot) Broadcast(ctx context.Context, message string) error {
	chats, err := b.store.ListChats(ctx)
	if err != nil {
		return fmt.Errorf("list chats: %w", err)
	}
	for _, chat := range chats {
		msg := tgbotapi.NewMessage(chat.ID, message)
		if _, err := b.api.Send(msg); err != nil {
			return fmt.Errorf("send message: %w", err)
		}
	}
	return nil
}

// BroadcastSlogRecord forwards a log record to every subscribed chat.
func (b *Bot) BroadcastSlogRecord(ctx context.Context, r slog.Record) error {
	message := fmt.Sprintf("%s: %s", r.Level, r.Message)
	r.Attrs(func(attr slog.Attr) bool {
		message += fmt.Sprintf("\n%s=%s", attr.Key, attr.Value)
		return true
	})
	return b.Broadcast(ctx, message)
}

func (b *Bot) Listen(ctx context.Context) error {
	offset, err := b.store.GetUpdatesOffset(ctx)
	if err != nil {
		return fmt.Errorf("get updates offset: %w", err)
	}
	updates := b.api.GetUpdatesChan(tgbotapi.UpdateConfig{Offset: offset})
	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "stopping listening for telegram updates")
			return nil
		case update := <-updates:
			if update.Message != nil && update.Message.IsCommand() {
				if err := b.handleCommand(ctx, update.Message); err != nil {
					slog.ErrorContext(ctx, "handle command", "error", err)
				}
			}

			if err := b.store.SetUpdatesOffset(ctx, update.UpdateID+1); err != nil {
				slog.ErrorContext(ctx, "set updates offset", "error", err)
			}
		}
	}
}

func (b *Bot) handleCommand(ctx context.Context, message *tgbotapi.Message) error {
	switch message.Command() {
	case "start":
		return b.handleStart(ctx, message)
	case "week":
		return b.handleWeek(ctx, message)
	default:
		return nil
	}
}

func (b *Bot) handleStart(ctx context.Context, message *tgbotapi.Message) error {
	chat := Chat{
		ID:        message.Chat.ID,
		FirstName: message.Chat.FirstName,
	}
	if err := b.store.InsertChat(ctx, &chat); err != nil {
		return fmt.Errorf("insert chat: %w", err)
	}
	return nil
}

func (b *Bot) handleWeek(_ context.Context, message *tgbotapi.Message) error {
	now := time.Now().UTC()
	info := uniweek.TermWeek(now)

	var text string
	if info.Term == 0 {
		text = fmt.Sprintf("University week %d of %d/%d (outside term time)",
			info.UniversityWeek, uniweek.AcademicYear(now), uniweek.AcademicYear(now)+1)
	} else {
		text = fmt.Sprintf("University week %d of %d/%d (term %d, week %d)",
			info.UniversityWeek, uniweek.AcademicYear(now), uniweek.AcademicYear(now)+1,
			info.Term, info.TermWeek)
	}

	msg := tgbotapi.NewMessage(message.Chat.ID, text)
	if _, err := b.api.Send(msg); err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}
