package controller

import (
	"context"
	"time"

	"github.com/Freeeeeet/boss_timer_bot/internal/controller/handlers"
	"github.com/Freeeeeet/boss_timer_bot/internal/controller/state"
	"github.com/Freeeeeet/boss_timer_bot/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

type BotController struct {
	bot          *bot.Bot
	handlers     *handlers.Handlers
	stateManager *state.Manager
	logger       *zap.Logger
}

func NewBotController(
	botInstance *bot.Bot,
	bossService *service.BossService,
	settingsService *service.SettingsService,
	logger *zap.Logger,
) *BotController {
	// Создаём менеджер состояний диалогов
	stateManager := state.NewManager(state.DefaultTTL)

	// Создаём обработчики команд
	cmdHandlers := handlers.NewHandlers(
		bossService,
		settingsService,
		stateManager,
		logger,
	)

	return &BotController{
		bot:          botInstance,
		handlers:     cmdHandlers,
		stateManager: stateManager,
		logger:       logger,
	}
}

// RegisterHandlers регистрирует все обработчики команд
func (c *BotController) RegisterHandlers(ctx context.Context) error {
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypeExact, c.handlers.HandleStart)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/help", bot.MatchTypeExact, c.handlers.HandleHelp)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/bosslist", bot.MatchTypeExact, c.handlers.HandleBossList)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/next", bot.MatchTypeExact, c.handlers.HandleNext)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/setchannel", bot.MatchTypeExact, c.handlers.HandleSetChannel)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/cancel", bot.MatchTypeExact, c.handlers.HandleCancel)

	// Команды с аргументами
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/kill", bot.MatchTypePrefix, c.handlers.HandleKill)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/setnext", bot.MatchTypePrefix, c.handlers.HandleSetNext)

	// Обработчик текстовых сообщений (для диалогов с состояниями)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "", bot.MatchTypePrefix, c.handlers.HandleTextMessage)

	// Устанавливаем меню команд
	return c.setCommands(ctx)
}

// setCommands устанавливает список команд в меню бота
func (c *BotController) setCommands(ctx context.Context) error {
	commands := []models.BotCommand{
		{Command: "bosslist", Description: "⚔️ All bosses and their timers"},
		{Command: "next", Description: "⏰ Nearest upcoming spawn"},
		{Command: "kill", Description: "✅ Mark a boss as killed"},
		{Command: "setnext", Description: "✏️ Set the next spawn manually (UTC)"},
		{Command: "setchannel", Description: "📣 Post spawn alerts in this chat"},
		{Command: "help", Description: "❓ Help"},
	}

	_, err := c.bot.SetMyCommands(ctx, &bot.SetMyCommandsParams{
		Commands: commands,
	})

	if err != nil {
		c.logger.Error("Failed to set bot commands", zap.Error(err))
		return err
	}

	c.logger.Info("✅ Bot commands menu set")
	return nil
}

// Start запускает бота и блокируется до отмены ctx.
// Брошенные диалоги вычищаются раз в TTL.
func (c *BotController) Start(ctx context.Context) error {
	c.logger.Info("Starting bot...")

	go c.sweepStates(ctx)

	c.bot.Start(ctx)
	return nil
}

func (c *BotController) sweepStates(ctx context.Context) {
	ticker := time.NewTicker(state.DefaultTTL)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := c.stateManager.Cleanup(); n > 0 {
				c.logger.Debug("Expired dialogs removed", zap.Int("count", n))
			}
		}
	}
}
