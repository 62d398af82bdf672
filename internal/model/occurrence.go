package model

import "time"

// Occurrence вычисленный (не хранимый) ближайший спавн босса
type Occurrence struct {
	Boss    *Boss     `json:"boss"`
	SpawnAt time.Time `json:"spawn_at"`
	Fixed   bool      `json:"fixed"`
}

// Notification данные для уведомления о скором спавне
type Notification struct {
	BossID     int64
	Name       string
	Level      int
	Location   string
	AttackType AttackType
	SpawnAt    time.Time
	Fixed      bool
}

// NewNotification собирает уведомление из босса и времени спавна
func NewNotification(boss *Boss, spawnAt time.Time, fixed bool) Notification {
	return Notification{
		BossID:     boss.ID,
		Name:       boss.Name,
		Level:      boss.Level,
		Location:   boss.Location,
		AttackType: boss.AttackType,
		SpawnAt:    spawnAt,
		Fixed:      fixed,
	}
}
