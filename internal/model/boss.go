package model

import "time"

type AttackType string

const (
	AttackTypeMelee AttackType = "melee"
	AttackTypeMagic AttackType = "magic"
)

// Boss представляет отслеживаемого босса
type Boss struct {
	ID              int64      `json:"id"` // отрицательный у синтетических боссов фиксированного расписания
	Name            string     `json:"name"`
	Level           int        `json:"level"`
	Location        string     `json:"location"`
	AttackType      AttackType `json:"attack_type"`
	RespawnHours    int        `json:"respawn_hours"` // 0 у боссов с фиксированным расписанием
	LastKillAt      *time.Time `json:"last_kill_at"`
	NextSpawnAt     *time.Time `json:"next_spawn_at"`
	IsScheduled     bool       `json:"is_scheduled"`      // true тогда и только тогда, когда NextSpawnAt задан
	NotifiedSpawnAt *time.Time `json:"notified_spawn_at"` // время спавна, о котором уже отправлено уведомление
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// IsFixed сообщает, что расписание босса задаётся слотами, а не интервалом
func (b *Boss) IsFixed() bool {
	return b.RespawnHours == 0
}

// AlreadyNotified проверяет, было ли уже уведомление о текущем спавне
func (b *Boss) AlreadyNotified() bool {
	if b.NextSpawnAt == nil || b.NotifiedSpawnAt == nil {
		return false
	}
	return b.NextSpawnAt.Equal(*b.NotifiedSpawnAt)
}

// ScheduleUpdate описывает частичное обновление расписания босса.
// SetLastKill/SetNextSpawn нужны, чтобы отличать "не менять" от "очистить" (nil).
type ScheduleUpdate struct {
	LastKillAt   *time.Time
	SetLastKill  bool
	NextSpawnAt  *time.Time
	SetNextSpawn bool
	RespawnHours *int
}

// IsEmpty возвращает true, если обновлять нечего
func (u ScheduleUpdate) IsEmpty() bool {
	return !u.SetLastKill && !u.SetNextSpawn && u.RespawnHours == nil
}
