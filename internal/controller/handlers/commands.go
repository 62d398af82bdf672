package handlers

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/Freeeeeet/boss_timer_bot/internal/controller/state"
	"github.com/Freeeeeet/boss_timer_bot/internal/schedule"
	"github.com/Freeeeeet/boss_timer_bot/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

const helpText = "📚 Commands:\n\n" +
	"/bosslist - All bosses with their next spawn\n" +
	"/next - The nearest upcoming spawn\n" +
	"/kill <name> - Mark a boss as killed now\n" +
	"/setnext <name> <YYYY-MM-DD> <HH:MM> - Set the next spawn manually (UTC)\n" +
	"/setchannel - Send spawn alerts to this chat\n" +
	"/cancel - Abort the current dialog\n" +
	"/help - Show this message\n\n" +
	"Alerts are sent about 10 minutes before a boss spawns."

// HandleStart обрабатывает команду /start
func (h *Handlers) HandleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	name := "hunter"
	if update.Message.From != nil && update.Message.From.FirstName != "" {
		name = update.Message.From.FirstName
	}

	h.sendMessage(ctx, b, update.Message.Chat.ID, fmt.Sprintf(
		"👋 Hi, %s!\n\nI keep track of boss respawn timers and warn the channel before they spawn.\n\n%s",
		name, helpText,
	))
}

// HandleHelp обрабатывает команду /help
func (h *Handlers) HandleHelp(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	h.sendMessage(ctx, b, update.Message.Chat.ID, helpText)
}

// HandleKill обрабатывает команду /kill <name>
func (h *Handlers) HandleKill(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	search := commandArgs(update.Message.Text)
	if search == "" {
		h.sendError(ctx, b, chatID, "❌ Usage: /kill <boss name>")
		return
	}

	boss, err := h.bossService.KillByName(ctx, search)
	if err != nil {
		h.logger.Warn("Kill command failed",
			zap.String("search", search),
			zap.Int64("user_id", senderID(update.Message)),
			zap.Error(err),
		)
		h.sendError(ctx, b, chatID, userMessage(err, search))
		return
	}

	h.logger.Info("Boss killed via command",
		zap.Int64("boss_id", boss.ID),
		zap.String("name", boss.Name),
		zap.Int64("user_id", senderID(update.Message)),
	)
	h.sendHTML(ctx, b, chatID, FormatKilled(boss))
}

// HandleBossList обрабатывает команду /bosslist
func (h *Handlers) HandleBossList(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	overview, err := h.bossService.Overview(ctx)
	if err != nil {
		h.logger.Error("Failed to build boss list", zap.Error(err))
		h.sendError(ctx, b, chatID, msgInternalError)
		return
	}

	messages := FormatOverview(overview, h.now())
	if len(messages) == 0 {
		h.sendMessage(ctx, b, chatID, "📭 No bosses configured yet.")
		return
	}

	for _, text := range messages {
		h.sendHTML(ctx, b, chatID, text)
	}
}

// HandleNext обрабатывает команду /next
func (h *Handlers) HandleNext(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	overview, err := h.bossService.Overview(ctx)
	if err != nil {
		h.logger.Error("Failed to find nearest boss", zap.Error(err))
		h.sendError(ctx, b, chatID, msgInternalError)
		return
	}

	now := h.now()
	h.sendHTML(ctx, b, chatID, FormatNearest(service.NearestOf(overview, now), now))
}

// HandleSetNext обрабатывает команду /setnext. Без аргументов запускает диалог.
func (h *Handlers) HandleSetNext(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID
	userID := senderID(update.Message)

	args := commandArgs(update.Message.Text)
	if args == "" {
		h.stateManager.SetState(userID, state.StateSetNextBoss)
		h.sendMessage(ctx, b, chatID, "✏️ Which boss? Send its name (or /cancel).")
		return
	}

	name, at, err := parseSetNextArgs(args)
	if err != nil {
		h.sendError(ctx, b, chatID, "❌ "+err.Error())
		return
	}

	boss, err := h.bossService.FindByName(ctx, name)
	if err != nil {
		h.sendError(ctx, b, chatID, userMessage(err, name))
		return
	}

	h.applyNextSpawn(ctx, b, chatID, userID, boss.ID, boss.Name, args, at)
}

// HandleSetChannel обрабатывает команду /setchannel
func (h *Handlers) HandleSetChannel(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	if err := h.settingsService.SetNotificationChat(ctx, chatID); err != nil {
		h.logger.Error("Failed to set notification channel", zap.Int64("chat_id", chatID), zap.Error(err))
		h.sendError(ctx, b, chatID, msgInternalError)
		return
	}

	h.sendMessage(ctx, b, chatID, "📣 Spawn alerts will be posted in this chat.")
}

// HandleCancel обрабатывает команду /cancel
func (h *Handlers) HandleCancel(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	userID := senderID(update.Message)
	if h.stateManager.GetState(userID) == state.StateNone {
		h.sendMessage(ctx, b, update.Message.Chat.ID, "Nothing to cancel.")
		return
	}

	h.stateManager.ClearState(userID)
	h.sendMessage(ctx, b, update.Message.Chat.ID, "❌ Cancelled.")
}

// HandleTextMessage обрабатывает шаги диалога /setnext
func (h *Handlers) HandleTextMessage(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || strings.HasPrefix(update.Message.Text, "/") {
		return
	}

	userID := senderID(update.Message)
	chatID := update.Message.Chat.ID
	text := strings.TrimSpace(update.Message.Text)

	switch h.stateManager.GetState(userID) {
	case state.StateSetNextBoss:
		boss, err := h.bossService.FindByName(ctx, text)
		if err != nil {
			h.sendError(ctx, b, chatID, userMessage(err, text))
			return
		}
		if h.bossService.IsFixed(boss) {
			h.stateManager.ClearState(userID)
			h.sendError(ctx, b, chatID, userMessage(schedule.ErrInvalidInterval, boss.Name))
			return
		}

		h.stateManager.SetData(userID, state.DataBossID, boss.ID)
		h.stateManager.SetData(userID, state.DataBossName, boss.Name)
		h.stateManager.SetState(userID, state.StateSetNextTime)
		h.sendHTML(ctx, b, chatID, fmt.Sprintf(
			"🕒 When does <b>%s</b> spawn next? Send <code>YYYY-MM-DD HH:MM</code> in UTC.",
			html.EscapeString(boss.Name),
		))

	case state.StateSetNextTime:
		at, err := parseSpawnTime(text)
		if err != nil {
			h.sendError(ctx, b, chatID, "❌ "+err.Error())
			return
		}

		rawID, ok := h.stateManager.GetData(userID, state.DataBossID)
		bossID, _ := rawID.(int64)
		if !ok || bossID == 0 {
			h.stateManager.ClearState(userID)
			h.sendError(ctx, b, chatID, "❌ The dialog expired. Start again with /setnext.")
			return
		}
		rawName, _ := h.stateManager.GetData(userID, state.DataBossName)
		name, _ := rawName.(string)

		h.stateManager.ClearState(userID)
		h.applyNextSpawn(ctx, b, chatID, userID, bossID, name, text, at)
	}
}

// applyNextSpawn сохраняет ручной спавн и отвечает пользователю
func (h *Handlers) applyNextSpawn(ctx context.Context, b *bot.Bot, chatID, userID, bossID int64, name, input string, at time.Time) {
	boss, err := h.bossService.EditSchedule(ctx, bossID, service.ScheduleEdit{NextSpawnAt: &at})
	if err != nil {
		h.logger.Warn("Set next spawn failed",
			zap.Int64("boss_id", bossID),
			zap.String("input", input),
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
		h.sendError(ctx, b, chatID, userMessage(err, name))
		return
	}

	h.sendHTML(ctx, b, chatID, FormatRescheduled(boss))
}
