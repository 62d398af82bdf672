package handlers

import (
	"context"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// LoggingMiddleware логирует входящие команды и время их обработки
func LoggingMiddleware(logger *zap.Logger) bot.Middleware {
	return func(next bot.HandlerFunc) bot.HandlerFunc {
		return func(ctx context.Context, b *bot.Bot, update *models.Update) {
			if update.Message == nil {
				next(ctx, b, update)
				return
			}

			start := time.Now()
			next(ctx, b, update)

			logger.Debug("Message handled",
				zap.Int64("chat_id", update.Message.Chat.ID),
				zap.Int64("user_id", senderID(update.Message)),
				zap.String("text", update.Message.Text),
				zap.Duration("took", time.Since(start)),
			)
		}
	}
}

// RecoverMiddleware не даёт панике в обработчике уронить бота
func RecoverMiddleware(logger *zap.Logger) bot.Middleware {
	return func(next bot.HandlerFunc) bot.HandlerFunc {
		return func(ctx context.Context, b *bot.Bot, update *models.Update) {
			defer func() {
				if r := recover(); r != nil {
					logger.Error("Handler panic recovered",
						zap.Int64("update_id", update.ID),
						zap.Any("panic", r),
					)
				}
			}()
			next(ctx, b, update)
		}
	}
}

// DefaultHandler молча игнорирует апдейты без зарегистрированного обработчика
func DefaultHandler(logger *zap.Logger) bot.HandlerFunc {
	return func(ctx context.Context, b *bot.Bot, update *models.Update) {
		logger.Debug("Unhandled update", zap.Int64("update_id", update.ID))
	}
}
