package service

import (
	"context"
	"time"

	"github.com/Freeeeeet/boss_timer_bot/internal/model"
)

// BossStore хранилище боссов и их расписания.
// Методы поиска одной записи возвращают nil, nil если запись не найдена.
type BossStore interface {
	ListAll(ctx context.Context) ([]*model.Boss, error)
	GetByID(ctx context.Context, id int64) (*model.Boss, error)
	FindByName(ctx context.Context, search string) (*model.Boss, error)
	FindDueBetween(ctx context.Context, low, high time.Time) ([]*model.Boss, error)
	UpdateSchedule(ctx context.Context, id int64, upd model.ScheduleUpdate) (*model.Boss, error)
	MarkNotified(ctx context.Context, id int64, spawnAt time.Time) error
}

// SettingsStore хранилище настроек бота
type SettingsStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// Notifier доставляет уведомление о скором спавне в чат
type Notifier interface {
	Notify(ctx context.Context, chatID int64, n model.Notification) error
}
