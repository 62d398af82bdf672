package model

import (
	"fmt"
	"strings"
)

// FixedSlot еженедельный слот спавна в часовом поясе привязки
type FixedSlot struct {
	Weekday  int    `json:"weekday"` // 0 = Sunday, 6 = Saturday
	Hour     int    `json:"hour"`
	Minute   int    `json:"minute"`
	BossName string `json:"boss_name"`
	BossID   int64  `json:"boss_id,omitempty"` // 0 - связь по имени
}

// Key возвращает ключ группировки слотов одного босса
func (s FixedSlot) Key() string {
	if s.BossID != 0 {
		return fmt.Sprintf("id:%d", s.BossID)
	}
	return "name:" + s.BossName
}

// Matches проверяет, относится ли слот к боссу.
// Явный BossID имеет приоритет; иначе имя слота должно содержаться в имени босса.
func (s FixedSlot) Matches(boss *Boss) bool {
	if boss == nil {
		return false
	}
	if s.BossID != 0 {
		return boss.ID == s.BossID
	}
	return s.BossName != "" && strings.Contains(boss.Name, s.BossName)
}

// Validate проверяет диапазоны дня недели и времени
func (s FixedSlot) Validate() error {
	if s.Weekday < 0 || s.Weekday > 6 {
		return fmt.Errorf("weekday %d out of range 0-6", s.Weekday)
	}
	if s.Hour < 0 || s.Hour > 23 {
		return fmt.Errorf("hour %d out of range 0-23", s.Hour)
	}
	if s.Minute < 0 || s.Minute > 59 {
		return fmt.Errorf("minute %d out of range 0-59", s.Minute)
	}
	if s.BossName == "" && s.BossID == 0 {
		return fmt.Errorf("slot must reference a boss name or id")
	}
	return nil
}
