package handlers

import (
	"time"

	"github.com/Freeeeeet/boss_timer_bot/internal/controller/state"
	"github.com/Freeeeeet/boss_timer_bot/internal/service"
	"go.uber.org/zap"
)

// Handlers содержит все зависимости для обработки команд
type Handlers struct {
	bossService     *service.BossService
	settingsService *service.SettingsService
	stateManager    *state.Manager
	logger          *zap.Logger
	now             func() time.Time
}

// NewHandlers создаёт новый обработчик команд
func NewHandlers(
	bossService *service.BossService,
	settingsService *service.SettingsService,
	stateManager *state.Manager,
	logger *zap.Logger,
) *Handlers {
	return &Handlers{
		bossService:     bossService,
		settingsService: settingsService,
		stateManager:    stateManager,
		logger:          logger,
		now:             time.Now,
	}
}
