package controller

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/boss_timer_bot/internal/controller/handlers"
	"github.com/Freeeeeet/boss_timer_bot/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// messageSender часть API бота, нужная для рассылки
type messageSender interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
}

// TelegramNotifier доставляет уведомления о спавне в чат Telegram.
// Отправка ограничена по частоте, чтобы не упереться в лимиты API.
type TelegramNotifier struct {
	sender  messageSender
	limiter *rate.Limiter
	logger  *zap.Logger
	now     func() time.Time
}

// NewTelegramNotifier создаёт нотификатор с лимитом perSecond сообщений в секунду
func NewTelegramNotifier(sender messageSender, perSecond int, logger *zap.Logger) *TelegramNotifier {
	if perSecond < 1 {
		perSecond = 1
	}
	return &TelegramNotifier{
		sender:  sender,
		limiter: rate.NewLimiter(rate.Limit(perSecond), perSecond),
		logger:  logger,
		now:     time.Now,
	}
}

// Notify отправляет одно уведомление
func (n *TelegramNotifier) Notify(ctx context.Context, chatID int64, notification model.Notification) error {
	if err := n.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("notify %q: rate limit: %w", notification.Name, err)
	}

	msg, err := n.sender.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    chatID,
		Text:      handlers.FormatSpawnNotification(notification, n.now()),
		ParseMode: models.ParseModeHTML,
	})
	if err != nil {
		return fmt.Errorf("notify %q: send message: %w", notification.Name, err)
	}

	var messageID int
	if msg != nil {
		messageID = msg.ID
	}

	n.logger.Debug("Spawn notification sent",
		zap.Int64("chat_id", chatID),
		zap.Int("message_id", messageID),
		zap.String("boss", notification.Name),
		zap.Time("spawn_at", notification.SpawnAt),
	)
	return nil
}
