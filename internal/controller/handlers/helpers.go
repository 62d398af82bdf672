package handlers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Freeeeeet/boss_timer_bot/internal/schedule"
	"github.com/Freeeeeet/boss_timer_bot/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// sendError отправляет сообщение об ошибке и логирует если не удалось
func (h *Handlers) sendError(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
	if err != nil {
		h.logger.Error("Failed to send error message",
			zap.Int64("chat_id", chatID),
			zap.String("text", text),
			zap.Error(err),
		)
	}
}

// sendMessage отправляет сообщение и логирует если не удалось
func (h *Handlers) sendMessage(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
	if err != nil {
		h.logger.Error("Failed to send message",
			zap.Int64("chat_id", chatID),
			zap.Error(err),
		)
	}
}

// sendHTML отправляет сообщение с HTML-разметкой
func (h *Handlers) sendHTML(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    chatID,
		Text:      text,
		ParseMode: models.ParseModeHTML,
	})
	if err != nil {
		h.logger.Error("Failed to send message",
			zap.Int64("chat_id", chatID),
			zap.Error(err),
		)
	}
}

// commandArgs отрезает команду (с возможным @botname) и возвращает аргументы
func commandArgs(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return text
	}
	_, rest, _ := strings.Cut(text, " ")
	return strings.TrimSpace(rest)
}

// parseSpawnTime разбирает "YYYY-MM-DD HH:MM" в UTC
func parseSpawnTime(raw string) (time.Time, error) {
	t, err := time.ParseInLocation(inputTimeLayout, strings.Join(strings.Fields(raw), " "), time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("expected %s (UTC)", inputTimeLayout)
	}
	return t, nil
}

// parseSetNextArgs разбирает "<name...> <YYYY-MM-DD> <HH:MM>"
func parseSetNextArgs(args string) (string, time.Time, error) {
	fields := strings.Fields(args)
	if len(fields) < 3 {
		return "", time.Time{}, fmt.Errorf("usage: /setnext <boss name> <YYYY-MM-DD> <HH:MM>")
	}

	at, err := parseSpawnTime(strings.Join(fields[len(fields)-2:], " "))
	if err != nil {
		return "", time.Time{}, err
	}

	return strings.Join(fields[:len(fields)-2], " "), at, nil
}

// userMessage переводит ошибку сервиса в ответ пользователю
func userMessage(err error, name string) string {
	switch {
	case errors.Is(err, service.ErrBossNotFound):
		return fmt.Sprintf("❓ Could not find a boss matching %q.", name)
	case errors.Is(err, schedule.ErrInvalidInterval):
		return fmt.Sprintf("📅 %s follows a fixed weekly schedule and has no respawn interval.", name)
	case errors.Is(err, service.ErrInvalidSchedule):
		return fmt.Sprintf("❌ Next spawn of %s cannot be earlier than its last kill.", name)
	case errors.Is(err, service.ErrNoUpdates):
		return "❌ Nothing to update."
	default:
		return msgInternalError
	}
}

// senderID возвращает ID автора сообщения или чата, если автора нет (каналы)
func senderID(msg *models.Message) int64 {
	if msg.From != nil {
		return msg.From.ID
	}
	return msg.Chat.ID
}
