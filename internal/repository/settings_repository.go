package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/boss_timer_bot/internal/repository/base"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// SettingsRepository хранит настройки бота (ключ-значение)
type SettingsRepository struct {
	*base.Repository
	logger *zap.Logger
}

// NewSettingsRepository создаёт новый репозиторий настроек
func NewSettingsRepository(pool *pgxpool.Pool, logger *zap.Logger) *SettingsRepository {
	return &SettingsRepository{
		Repository: base.NewRepository(pool),
		logger:     logger,
	}
}

// Get возвращает значение настройки; ok == false если настройки нет
func (r *SettingsRepository) Get(ctx context.Context, key string) (string, bool, error) {
	query := `SELECT setting_value FROM bot_settings WHERE setting_key = $1`

	var value string
	err := r.QueryRow(ctx, query, key).Scan(&value)
	if base.IsNotFound(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get setting %s: %w", key, err)
	}

	return value, true, nil
}

// Set сохраняет значение настройки
func (r *SettingsRepository) Set(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO bot_settings (setting_key, setting_value)
		VALUES ($1, $2)
		ON CONFLICT (setting_key) DO UPDATE SET setting_value = EXCLUDED.setting_value, updated_at = NOW()
	`

	if _, err := r.ExecAffected(ctx, query, key, value); err != nil {
		return fmt.Errorf("set setting %s: %w", key, err)
	}

	r.logger.Info("Setting updated", zap.String("key", key))
	return nil
}
