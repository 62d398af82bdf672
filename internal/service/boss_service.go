package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/Freeeeeet/boss_timer_bot/internal/model"
	"github.com/Freeeeeet/boss_timer_bot/internal/schedule"
	"go.uber.org/zap"
)

// syntheticIDBase базовый отрицательный ID для боссов фиксированного расписания, которых нет в БД
const syntheticIDBase = -9000

// Overview объединённый вид всех боссов: обычные (по интервалу) и фиксированные (по слотам)
type Overview struct {
	Field []*model.Boss `json:"field"`
	Fixed []*model.Boss `json:"fixed"`
}

type BossService struct {
	store    BossStore
	resolver *schedule.Resolver
	logger   *zap.Logger
	now      func() time.Time
}

func NewBossService(store BossStore, resolver *schedule.Resolver, logger *zap.Logger) *BossService {
	return &BossService{
		store:    store,
		resolver: resolver,
		logger:   logger,
		now:      time.Now,
	}
}

// WithClock подменяет источник текущего времени
func (s *BossService) WithClock(now func() time.Time) *BossService {
	s.now = now
	return s
}

// Resolver возвращает резолвер фиксированного расписания
func (s *BossService) Resolver() *schedule.Resolver {
	return s.resolver
}

// GetByID получает босса по ID
func (s *BossService) GetByID(ctx context.Context, id int64) (*model.Boss, error) {
	boss, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, unavailable("get boss", err)
	}
	if boss == nil {
		return nil, fmt.Errorf("boss %d: %w", id, ErrBossNotFound)
	}
	return boss, nil
}

// FindByName ищет босса по части имени
func (s *BossService) FindByName(ctx context.Context, search string) (*model.Boss, error) {
	boss, err := s.store.FindByName(ctx, search)
	if err != nil {
		return nil, unavailable("find boss", err)
	}
	if boss == nil {
		return nil, fmt.Errorf("boss %q: %w", search, ErrBossNotFound)
	}
	return boss, nil
}

// MarkKilled отмечает убийство босса сейчас и планирует следующий спавн
func (s *BossService) MarkKilled(ctx context.Context, id int64) (*model.Boss, error) {
	boss, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.markKilled(ctx, boss)
}

// KillByName находит босса по части имени и отмечает убийство
func (s *BossService) KillByName(ctx context.Context, search string) (*model.Boss, error) {
	boss, err := s.FindByName(ctx, search)
	if err != nil {
		return nil, err
	}
	return s.markKilled(ctx, boss)
}

// IsFixed сообщает, что спавн босса задаётся фиксированным расписанием:
// нулевой интервал или совпадение со слотом. Таймер по убийству для таких боссов не ведётся.
func (s *BossService) IsFixed(boss *model.Boss) bool {
	if boss.IsFixed() {
		return true
	}
	return s.resolver != nil && s.resolver.Matches(boss)
}

// rejectFixed возвращает ErrInvalidInterval для боссов фиксированного расписания
func (s *BossService) rejectFixed(boss *model.Boss) error {
	if !s.IsFixed(boss) {
		return nil
	}
	return fmt.Errorf("boss %q follows fixed schedule: %w", boss.Name, schedule.ErrInvalidInterval)
}

func (s *BossService) markKilled(ctx context.Context, boss *model.Boss) (*model.Boss, error) {
	if err := s.rejectFixed(boss); err != nil {
		return nil, err
	}

	now := s.now().UTC()

	next, err := schedule.NextFromKill(now, boss.RespawnHours)
	if err != nil {
		return nil, fmt.Errorf("boss %q: %w", boss.Name, err)
	}

	updated, err := s.store.UpdateSchedule(ctx, boss.ID, model.ScheduleUpdate{
		LastKillAt:   &now,
		SetLastKill:  true,
		NextSpawnAt:  &next,
		SetNextSpawn: true,
	})
	if err != nil {
		return nil, unavailable("mark killed", err)
	}
	if updated == nil {
		return nil, fmt.Errorf("boss %d: %w", boss.ID, ErrBossNotFound)
	}

	s.logger.Info("Boss marked as killed",
		zap.Int64("boss_id", boss.ID),
		zap.String("name", boss.Name),
		zap.Time("killed_at", now),
		zap.Time("next_spawn_at", next),
	)

	return updated, nil
}

// ScheduleEdit ручная правка расписания оператором.
// Clear* явно очищают соответствующее поле.
type ScheduleEdit struct {
	LastKillAt     *time.Time
	ClearLastKill  bool
	NextSpawnAt    *time.Time
	ClearNextSpawn bool
	RespawnHours   *int
}

// EditSchedule применяет ручную правку: если задан только спавн, время убийства
// восстанавливается по интервалу, если только убийство - вычисляется спавн.
func (s *BossService) EditSchedule(ctx context.Context, id int64, edit ScheduleEdit) (*model.Boss, error) {
	if edit.RespawnHours != nil {
		if err := schedule.ValidateInterval(*edit.RespawnHours); err != nil {
			return nil, err
		}
	}

	upd := model.ScheduleUpdate{RespawnHours: edit.RespawnHours}

	switch {
	case edit.ClearLastKill:
		upd.SetLastKill = true
	case edit.LastKillAt != nil:
		last := edit.LastKillAt.UTC()
		upd.LastKillAt, upd.SetLastKill = &last, true
	}
	switch {
	case edit.ClearNextSpawn:
		upd.SetNextSpawn = true
	case edit.NextSpawnAt != nil:
		next := edit.NextSpawnAt.UTC()
		upd.NextSpawnAt, upd.SetNextSpawn = &next, true
	}

	if upd.IsEmpty() {
		return nil, ErrNoUpdates
	}

	boss, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.rejectFixed(boss); err != nil {
		return nil, err
	}

	hours := boss.RespawnHours
	if edit.RespawnHours != nil {
		hours = *edit.RespawnHours
	}

	// Смена одного интервала пересчитывает спавн от сохранённого убийства
	if !upd.SetLastKill && !upd.SetNextSpawn && boss.LastKillAt != nil {
		last := boss.LastKillAt.UTC()
		upd.LastKillAt = &last
	}

	switch {
	case upd.NextSpawnAt != nil && !upd.SetLastKill:
		last, err := schedule.LastFromNext(*upd.NextSpawnAt, hours)
		if err != nil {
			return nil, fmt.Errorf("boss %q: %w", boss.Name, err)
		}
		upd.LastKillAt, upd.SetLastKill = &last, true
	case upd.LastKillAt != nil && !upd.SetNextSpawn:
		next, err := schedule.NextFromKill(*upd.LastKillAt, hours)
		if err != nil {
			return nil, fmt.Errorf("boss %q: %w", boss.Name, err)
		}
		upd.NextSpawnAt, upd.SetNextSpawn = &next, true
	}

	last, next := boss.LastKillAt, boss.NextSpawnAt
	if upd.SetLastKill {
		last = upd.LastKillAt
	}
	if upd.SetNextSpawn {
		next = upd.NextSpawnAt
	}
	if last != nil && next != nil && next.Before(*last) {
		return nil, fmt.Errorf("boss %q: next %s, last %s: %w",
			boss.Name, next.UTC().Format(time.RFC3339), last.UTC().Format(time.RFC3339), ErrInvalidSchedule)
	}

	updated, err := s.store.UpdateSchedule(ctx, id, upd)
	if err != nil {
		return nil, unavailable("edit schedule", err)
	}
	if updated == nil {
		return nil, fmt.Errorf("boss %d: %w", id, ErrBossNotFound)
	}

	s.logger.Info("Boss schedule edited",
		zap.Int64("boss_id", id),
		zap.String("name", updated.Name),
		zap.Timep("last_kill_at", updated.LastKillAt),
		zap.Timep("next_spawn_at", updated.NextSpawnAt),
		zap.Int("respawn_hours", updated.RespawnHours),
	)

	return updated, nil
}

// Overview делит боссов на обычные и фиксированные и сортирует обе группы
func (s *BossService) Overview(ctx context.Context) (*Overview, error) {
	bosses, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, unavailable("list bosses", err)
	}
	return s.BuildOverview(bosses, s.now()), nil
}

// BuildOverview строит объединённый вид по уже загруженным боссам
func (s *BossService) BuildOverview(bosses []*model.Boss, now time.Time) *Overview {
	overview := &Overview{
		Field: make([]*model.Boss, 0, len(bosses)),
	}

	for _, boss := range bosses {
		if !s.resolver.Matches(boss) {
			overview.Field = append(overview.Field, boss)
		}
	}

	overview.Fixed = s.fixedBosses(bosses, now)

	SortBosses(overview.Field)
	SortBosses(overview.Fixed)

	return overview
}

// fixedBosses строит по одному боссу на каждую группу слотов в порядке таблицы
func (s *BossService) fixedBosses(bosses []*model.Boss, now time.Time) []*model.Boss {
	var (
		order  []string
		groups = make(map[string][]model.FixedSlot)
	)
	for _, slot := range s.resolver.Slots() {
		key := slot.Key()
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], slot)
	}

	fixed := make([]*model.Boss, 0, len(order))
	for idx, key := range order {
		slots := groups[key]
		ref := slots[0]

		boss := &model.Boss{
			ID:       int64(syntheticIDBase - idx),
			Name:     ref.BossName,
			Location: "Fixed Event",
		}
		if existing := findSlotBoss(bosses, ref); existing != nil {
			boss.ID = existing.ID
			boss.Name = existing.Name
			boss.Level = existing.Level
			boss.Location = existing.Location
			boss.AttackType = existing.AttackType
			boss.NotifiedSpawnAt = existing.NotifiedSpawnAt
		}
		if boss.AttackType == "" {
			boss.AttackType = model.AttackTypeMelee
		}

		if next, ok := s.resolver.NextForSlots(slots, now); ok {
			boss.NextSpawnAt = &next
			boss.IsScheduled = true
		}

		fixed = append(fixed, boss)
	}

	return fixed
}

// findSlotBoss находит сохранённого босса для слота: по ID, иначе по точному имени, иначе по вхождению
func findSlotBoss(bosses []*model.Boss, slot model.FixedSlot) *model.Boss {
	if slot.BossID != 0 {
		for _, b := range bosses {
			if b.ID == slot.BossID {
				return b
			}
		}
		return nil
	}
	for _, b := range bosses {
		if b.Name == slot.BossName {
			return b
		}
	}
	for _, b := range bosses {
		if slot.Matches(b) {
			return b
		}
	}
	return nil
}

// Nearest возвращает ближайший будущий спавн среди обеих групп.
// nil, nil - если ни один босс не запланирован в будущем.
func (s *BossService) Nearest(ctx context.Context) (*model.Occurrence, error) {
	overview, err := s.Overview(ctx)
	if err != nil {
		return nil, err
	}
	return NearestOf(overview, s.now()), nil
}

// NearestOf выбирает ближайший будущий спавн в объединённом виде
func NearestOf(overview *Overview, now time.Time) *model.Occurrence {
	var best *model.Occurrence

	consider := func(bosses []*model.Boss, fixed bool) {
		for _, boss := range bosses {
			if boss.NextSpawnAt == nil || !boss.NextSpawnAt.After(now) {
				continue
			}
			if best == nil || boss.NextSpawnAt.Before(best.SpawnAt) {
				best = &model.Occurrence{Boss: boss, SpawnAt: *boss.NextSpawnAt, Fixed: fixed}
			}
		}
	}
	consider(overview.Field, false)
	consider(overview.Fixed, true)

	return best
}

// FixedDueBetween возвращает фиксированные спавны, попадающие в [low, high]
func (s *BossService) FixedDueBetween(bosses []*model.Boss, low, high, now time.Time) []model.Occurrence {
	var due []model.Occurrence
	for _, boss := range s.fixedBosses(bosses, now) {
		if boss.NextSpawnAt == nil {
			continue
		}
		at := *boss.NextSpawnAt
		if at.Before(low) || at.After(high) {
			continue
		}
		due = append(due, model.Occurrence{Boss: boss, SpawnAt: at, Fixed: true})
	}
	return due
}

// SortBosses сортирует по времени спавна, незапланированные в конце, затем по имени
func SortBosses(bosses []*model.Boss) {
	sort.SliceStable(bosses, func(i, j int) bool {
		a, b := bosses[i].NextSpawnAt, bosses[j].NextSpawnAt
		switch {
		case a == nil && b == nil:
			return bosses[i].Name < bosses[j].Name
		case a == nil:
			return false
		case b == nil:
			return true
		case !a.Equal(*b):
			return a.Before(*b)
		default:
			return bosses[i].Name < bosses[j].Name
		}
	})
}

// IsNotFound проверяет ошибку "босс не найден"
func IsNotFound(err error) bool {
	return errors.Is(err, ErrBossNotFound)
}
