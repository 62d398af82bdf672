package service

import (
	"errors"
	"fmt"
)

var (
	ErrBossNotFound     = errors.New("boss not found")
	ErrNoUpdates        = errors.New("no updates provided")
	ErrStoreUnavailable = errors.New("store unavailable")
	ErrNoDestination    = errors.New("notification destination not configured")
	ErrInvalidSchedule  = errors.New("next spawn is before last kill")
)

// unavailable помечает ошибку хранилища, чтобы вызывающий мог отличить её через errors.Is
func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStoreUnavailable, err)
}
