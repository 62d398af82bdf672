package schedule

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidInterval интервал респавна должен быть положительным числом часов
var ErrInvalidInterval = errors.New("invalid respawn interval")

// ValidateInterval проверяет интервал респавна в часах
func ValidateInterval(hours int) error {
	if hours < 1 {
		return fmt.Errorf("%w: %d hours", ErrInvalidInterval, hours)
	}
	return nil
}

// NextFromKill вычисляет следующий спавн по времени убийства
func NextFromKill(killTime time.Time, hours int) (time.Time, error) {
	if err := ValidateInterval(hours); err != nil {
		return time.Time{}, err
	}
	return killTime.Add(time.Duration(hours) * time.Hour), nil
}

// LastFromNext обратная операция: восстанавливает время убийства по желаемому спавну
func LastFromNext(nextTime time.Time, hours int) (time.Time, error) {
	if err := ValidateInterval(hours); err != nil {
		return time.Time{}, err
	}
	return nextTime.Add(-time.Duration(hours) * time.Hour), nil
}
