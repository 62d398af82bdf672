package state

import "time"

// UserState представляет текущее состояние пользователя в диалоге
type UserState string

const (
	StateNone UserState = "" // Нет активного состояния

	// Диалог ручной установки следующего спавна
	StateSetNextBoss UserState = "set_next_boss"
	StateSetNextTime UserState = "set_next_time"
)

// Ключи временных данных диалога
const (
	DataBossID   = "boss_id"
	DataBossName = "boss_name"
)

// DefaultTTL время жизни незавершённого диалога
const DefaultTTL = 5 * time.Minute

// UserData хранит временные данные пользователя во время диалога
type UserData struct {
	State     UserState
	Data      map[string]interface{} // Временные данные для текущего диалога
	UpdatedAt time.Time
}
