package schedule

import (
	"time"

	"github.com/Freeeeeet/boss_timer_bot/internal/model"
)

// boundaryBuffer защищает от повторного срабатывания слота ровно на границе
const boundaryBuffer = time.Second

// Resolver вычисляет ближайшие спавны по таблице еженедельных слотов.
// Смещение часового пояса постоянное, переход на летнее время не учитывается.
type Resolver struct {
	slots  []model.FixedSlot
	offset time.Duration
}

// NewResolver создаёт резолвер для таблицы слотов и смещения от UTC
func NewResolver(slots []model.FixedSlot, offset time.Duration) *Resolver {
	cp := make([]model.FixedSlot, len(slots))
	copy(cp, slots)
	return &Resolver{slots: cp, offset: offset}
}

// Slots возвращает копию таблицы слотов
func (r *Resolver) Slots() []model.FixedSlot {
	cp := make([]model.FixedSlot, len(r.slots))
	copy(cp, r.slots)
	return cp
}

// Offset возвращает смещение часового пояса привязки
func (r *Resolver) Offset() time.Duration {
	return r.offset
}

// SlotsFor возвращает слоты, относящиеся к боссу
func (r *Resolver) SlotsFor(boss *model.Boss) []model.FixedSlot {
	var matched []model.FixedSlot
	for _, slot := range r.slots {
		if slot.Matches(boss) {
			matched = append(matched, slot)
		}
	}
	return matched
}

// Matches сообщает, есть ли у босса фиксированное расписание
func (r *Resolver) Matches(boss *model.Boss) bool {
	for _, slot := range r.slots {
		if slot.Matches(boss) {
			return true
		}
	}
	return false
}

// Next возвращает ближайший спавн босса по его слотам.
// ok == false, если у босса нет фиксированного расписания.
func (r *Resolver) Next(boss *model.Boss, now time.Time) (time.Time, bool) {
	return r.NextForSlots(r.SlotsFor(boss), now)
}

// NextForSlots выбирает самый ранний из ближайших спавнов по набору слотов
func (r *Resolver) NextForSlots(slots []model.FixedSlot, now time.Time) (time.Time, bool) {
	var best time.Time
	found := false

	for _, slot := range slots {
		candidate := r.nextForSlot(slot, now)
		if !found || candidate.Before(best) {
			best = candidate
			found = true
		}
	}

	return best, found
}

// nextForSlot вычисляет ближайшее срабатывание одного слота
func (r *Resolver) nextForSlot(slot model.FixedSlot, now time.Time) time.Time {
	// Переводим "сейчас" в локальное время привязки, храня его в UTC-полях
	local := now.UTC().Add(r.offset)

	candidate := time.Date(local.Year(), local.Month(), local.Day(), slot.Hour, slot.Minute, 0, 0, time.UTC)

	daysDiff := (slot.Weekday - int(local.Weekday()) + 7) % 7
	if daysDiff == 0 && candidate.Before(local.Add(boundaryBuffer)) {
		daysDiff = 7
	}
	candidate = candidate.AddDate(0, 0, daysDiff)

	// Обратно в реальное UTC
	return candidate.Add(-r.offset)
}
