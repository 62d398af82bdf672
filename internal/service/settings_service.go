package service

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"
)

// SettingNotificationChannel ключ настройки с ID чата для уведомлений
const SettingNotificationChannel = "notification_channel"

type SettingsService struct {
	store          SettingsStore
	fallbackChatID int64
	logger         *zap.Logger
}

func NewSettingsService(store SettingsStore, fallbackChatID int64, logger *zap.Logger) *SettingsService {
	return &SettingsService{
		store:          store,
		fallbackChatID: fallbackChatID,
		logger:         logger,
	}
}

// NotificationChat возвращает чат для уведомлений.
// Сначала смотрим в bot_settings, затем в запасной ID из конфига.
func (s *SettingsService) NotificationChat(ctx context.Context) (int64, bool, error) {
	value, ok, err := s.store.Get(ctx, SettingNotificationChannel)
	if err != nil {
		return 0, false, unavailable("get notification chat", err)
	}

	if ok {
		chatID, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			s.logger.Warn("Invalid notification chat in settings",
				zap.String("value", value),
				zap.Error(err))
		} else {
			return chatID, true, nil
		}
	}

	if s.fallbackChatID != 0 {
		return s.fallbackChatID, true, nil
	}

	return 0, false, nil
}

// SetNotificationChat сохраняет чат для уведомлений
func (s *SettingsService) SetNotificationChat(ctx context.Context, chatID int64) error {
	if err := s.store.Set(ctx, SettingNotificationChannel, strconv.FormatInt(chatID, 10)); err != nil {
		return unavailable(fmt.Sprintf("set notification chat %d", chatID), err)
	}

	s.logger.Info("Notification chat set", zap.Int64("chat_id", chatID))
	return nil
}
