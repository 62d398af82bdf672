package schedule

import (
	"fmt"
	"strings"
	"time"
)

// Remaining оставшееся до спавна время, разложенное на компоненты
type Remaining struct {
	Days    int64
	Hours   int64
	Minutes int64
	Seconds int64
	Total   time.Duration
	IsDue   bool // true, если спавн не запланирован или уже наступил
}

// CalculateRemaining считает время до target относительно now.
// Нулевой target трактуется так же, как наступивший: вызывающий код
// должен сам проверять nil, если это различие важно.
func CalculateRemaining(target *time.Time, now time.Time) Remaining {
	if target == nil || !target.After(now) {
		return Remaining{IsDue: true}
	}

	total := target.Sub(now)
	ms := total.Milliseconds()

	return Remaining{
		Days:    ms / (1000 * 60 * 60 * 24),
		Hours:   ms / (1000 * 60 * 60) % 24,
		Minutes: ms / (1000 * 60) % 60,
		Seconds: ms / 1000 % 60,
		Total:   total,
	}
}

// FormatRemaining форматирует остаток вида "1d 2h 3m 4s"
func FormatRemaining(r Remaining) string {
	if r.IsDue {
		return "ALIVE"
	}

	parts := make([]string, 0, 4)
	if r.Days > 0 {
		parts = append(parts, fmt.Sprintf("%dd", r.Days))
	}
	if r.Hours > 0 || r.Days > 0 {
		parts = append(parts, fmt.Sprintf("%dh", r.Hours))
	}
	if r.Minutes > 0 || r.Hours > 0 || r.Days > 0 {
		parts = append(parts, fmt.Sprintf("%dm", r.Minutes))
	}
	parts = append(parts, fmt.Sprintf("%ds", r.Seconds))

	return strings.Join(parts, " ")
}

type Urgency int

const (
	UrgencyNone Urgency = iota // спавн не запланирован
	UrgencyDue
	UrgencySoon
	UrgencyLater
)

// SoonThreshold граница, после которой спавн считается "скорым"
const SoonThreshold = time.Hour

// Classify определяет срочность спавна для отображения в списках
func Classify(target *time.Time, now time.Time) Urgency {
	if target == nil {
		return UrgencyNone
	}
	diff := target.Sub(now)
	switch {
	case diff <= 0:
		return UrgencyDue
	case diff < SoonThreshold:
		return UrgencySoon
	default:
		return UrgencyLater
	}
}
