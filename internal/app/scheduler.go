package app

import (
	"context"
	"sync"
	"time"

	"github.com/Freeeeeet/boss_timer_bot/internal/service"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Scanner один проход поиска скорых спавнов
type Scanner interface {
	Scan(ctx context.Context, now time.Time) service.ScanReport
}

// Scheduler управляет фоновым сканером уведомлений.
// Тики сериализуются: если предыдущий ещё идёт, следующий ждёт его завершения.
type Scheduler struct {
	scanner  Scanner
	interval time.Duration
	logger   *zap.Logger
	now      func() time.Time

	mu      sync.Mutex
	startup sync.WaitGroup
	cron    *cron.Cron
	cancel  context.CancelFunc
	running bool
}

// NewScheduler создаёт новый планировщик
func NewScheduler(scanner Scanner, interval time.Duration, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		scanner:  scanner,
		interval: interval,
		logger:   logger,
		now:      time.Now,
	}
}

// Start запускает сканер: один проход сразу и далее каждые interval
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return
	}

	s.logger.Info("Starting notification scanner", zap.Duration("interval", s.interval))

	runCtx, cancel := context.WithCancel(ctx)
	cronLog := cronLogger{log: s.logger.Sugar()}

	job := cron.NewChain(
		cron.Recover(cronLog),
		cron.DelayIfStillRunning(cronLog),
	).Then(cron.FuncJob(func() { s.runScan(runCtx) }))

	s.cron = cron.New(cron.WithLogger(cronLog), cron.WithLocation(time.UTC))
	s.cron.Schedule(cron.Every(s.interval), job)
	s.cron.Start()

	s.cancel = cancel
	s.running = true

	// Первый запуск сразу при старте, через ту же цепочку, чтобы не пересечься с тиком
	s.startup.Add(1)
	go func() {
		defer s.startup.Done()
		job.Run()
	}()
}

// Stop останавливает сканер и ждёт завершения текущего прохода
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	c, cancel := s.cron, s.cancel
	s.mu.Unlock()

	s.logger.Info("Stopping notification scanner")

	done := c.Stop()
	cancel()
	<-done.Done()
	s.startup.Wait()

	s.logger.Info("Notification scanner stopped")
}

// runScan выполняет один проход сканера
func (s *Scheduler) runScan(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	started := s.now()
	report := s.scanner.Scan(ctx, started)

	s.logger.Debug("Notification scan tick",
		zap.String("scan_id", report.ScanID),
		zap.Int("matched", report.Matched),
		zap.Int("sent", report.Sent),
		zap.Bool("idle", report.Idle),
		zap.Duration("took", time.Since(started)),
	)
}

// cronLogger адаптер zap для robfig/cron
type cronLogger struct {
	log *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Errorw(msg, append(keysAndValues, "error", err)...)
}
