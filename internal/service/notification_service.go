package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/boss_timer_bot/internal/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ChatResolver определяет чат, куда отправлять уведомления
type ChatResolver interface {
	NotificationChat(ctx context.Context) (int64, bool, error)
}

// Window окно упреждения относительно момента сканирования
type Window struct {
	Low  time.Duration
	High time.Duration
}

// Bounds возвращает абсолютные границы окна для момента now
func (w Window) Bounds(now time.Time) (time.Time, time.Time) {
	return now.Add(w.Low), now.Add(w.High)
}

// ScanReport итог одного прохода сканера
type ScanReport struct {
	ScanID  string
	Matched int
	Sent    int
	Failed  int
	Skipped int
	Idle    bool // чат для уведомлений не настроен
}

// NotificationService находит боссов, которые скоро появятся, и отправляет
// по одному уведомлению на каждый спавн.
type NotificationService struct {
	store    BossStore
	bosses   *BossService
	chats    ChatResolver
	notifier Notifier
	window   Window
	logger   *zap.Logger
}

func NewNotificationService(
	store BossStore,
	bosses *BossService,
	chats ChatResolver,
	notifier Notifier,
	window Window,
	logger *zap.Logger,
) *NotificationService {
	return &NotificationService{
		store:    store,
		bosses:   bosses,
		chats:    chats,
		notifier: notifier,
		window:   window,
		logger:   logger,
	}
}

// Window возвращает окно упреждения
func (s *NotificationService) Window() Window {
	return s.window
}

// Scan выполняет один проход. Ошибки хранилища и доставки логируются и не
// прерывают обработку остальных боссов.
func (s *NotificationService) Scan(ctx context.Context, now time.Time) ScanReport {
	report := ScanReport{ScanID: uuid.NewString()}
	log := s.logger.With(zap.String("scan_id", report.ScanID))

	chatID, ok, err := s.chats.NotificationChat(ctx)
	if err != nil {
		log.Error("Failed to resolve notification chat", zap.Error(err))
		return report
	}
	if !ok {
		log.Debug("No notification chat configured")
		report.Idle = true
		return report
	}

	low, high := s.window.Bounds(now)
	log = log.With(zap.Time("window_low", low), zap.Time("window_high", high))

	due, err := s.store.FindDueBetween(ctx, low, high)
	if err != nil {
		log.Error("Failed to query bosses due in window", zap.Error(unavailable("find due bosses", err)))
	}

	for _, boss := range due {
		// Боссы с фиксированным расписанием обрабатываются по слотам ниже
		if s.bosses.Resolver().Matches(boss) {
			continue
		}
		if boss.NextSpawnAt == nil {
			continue
		}
		report.Matched++
		if boss.AlreadyNotified() {
			report.Skipped++
			continue
		}
		s.deliver(ctx, log, chatID, boss, *boss.NextSpawnAt, false, &report)
	}

	s.scanFixed(ctx, log, chatID, low, high, now, &report)

	if report.Matched > 0 {
		log.Info("Notification scan finished",
			zap.Int("matched", report.Matched),
			zap.Int("sent", report.Sent),
			zap.Int("failed", report.Failed),
			zap.Int("skipped", report.Skipped),
		)
	}

	return report
}

func (s *NotificationService) scanFixed(ctx context.Context, log *zap.Logger, chatID int64, low, high, now time.Time, report *ScanReport) {
	if len(s.bosses.Resolver().Slots()) == 0 {
		return
	}

	// Метаданные берём из БД; без них фиксированные боссы всё равно уведомляются
	bosses, err := s.store.ListAll(ctx)
	if err != nil {
		log.Warn("Failed to load bosses for fixed schedule", zap.Error(unavailable("list bosses", err)))
		bosses = nil
	}

	for _, occ := range s.bosses.FixedDueBetween(bosses, low, high, now) {
		report.Matched++
		if occ.Boss.NotifiedSpawnAt != nil && occ.Boss.NotifiedSpawnAt.Equal(occ.SpawnAt) {
			report.Skipped++
			continue
		}
		s.deliver(ctx, log, chatID, occ.Boss, occ.SpawnAt, true, report)
	}
}

func (s *NotificationService) deliver(ctx context.Context, log *zap.Logger, chatID int64, boss *model.Boss, spawnAt time.Time, fixed bool, report *ScanReport) {
	log = log.With(
		zap.Int64("boss_id", boss.ID),
		zap.String("name", boss.Name),
		zap.Time("spawn_at", spawnAt),
		zap.Bool("fixed", fixed),
	)

	if err := s.safeNotify(ctx, chatID, model.NewNotification(boss, spawnAt, fixed)); err != nil {
		report.Failed++
		log.Error("Failed to send spawn notification", zap.Error(err))
		return
	}
	report.Sent++
	log.Info("📢 Spawn notification sent", zap.Int64("chat_id", chatID))

	// Синтетических боссов нет в БД, для них остаётся только узкое окно
	if boss.ID <= 0 {
		return
	}
	if err := s.store.MarkNotified(ctx, boss.ID, spawnAt); err != nil {
		log.Warn("Failed to mark boss notified", zap.Error(err))
	}
}

// safeNotify превращает панику нотификатора в ошибку, чтобы не потерять остальных боссов тика
func (s *NotificationService) safeNotify(ctx context.Context, chatID int64, n model.Notification) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("notifier panic: %v", r)
		}
	}()
	return s.notifier.Notify(ctx, chatID, n)
}
