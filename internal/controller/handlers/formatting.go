package handlers

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/Freeeeeet/boss_timer_bot/internal/model"
	"github.com/Freeeeeet/boss_timer_bot/internal/schedule"
	"github.com/Freeeeeet/boss_timer_bot/internal/service"
	"github.com/jedib0t/go-pretty/v6/table"
)

// urgencyIcon возвращает индикатор срочности спавна
func urgencyIcon(u schedule.Urgency) string {
	switch u {
	case schedule.UrgencyDue:
		return "🟢"
	case schedule.UrgencySoon:
		return "🟡"
	case schedule.UrgencyLater:
		return "🔴"
	default:
		return "⚪"
	}
}

// FormatSpawnTime форматирует время спавна в UTC
func FormatSpawnTime(t *time.Time) string {
	if t == nil {
		return "Not Scheduled"
	}
	return t.UTC().Format(displayTimeLayout) + " UTC"
}

func levelText(level int) string {
	if level <= 0 {
		return "??"
	}
	return fmt.Sprintf("%d", level)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// FormatBossTables рендерит список боссов таблицами по tableChunkSize строк.
// Каждая строка результата - отдельное сообщение в HTML.
func FormatBossTables(title string, bosses []*model.Boss, now time.Time) []string {
	if len(bosses) == 0 {
		return nil
	}

	var chunks []string
	for start := 0; start < len(bosses); start += tableChunkSize {
		end := start + tableChunkSize
		if end > len(bosses) {
			end = len(bosses)
		}

		tw := table.NewWriter()
		tw.SetStyle(table.StyleLight)
		tw.AppendHeader(table.Row{"", "Boss", "Lvl", "Every", "Next spawn"})
		for _, b := range bosses[start:end] {
			interval := "fixed"
			if !b.IsFixed() {
				interval = fmt.Sprintf("%dh", b.RespawnHours)
			}
			tw.AppendRow(table.Row{
				urgencyIcon(schedule.Classify(b.NextSpawnAt, now)),
				truncate(b.Name, 12),
				levelText(b.Level),
				interval,
				FormatSpawnTime(b.NextSpawnAt),
			})
		}

		header := fmt.Sprintf("<b>%s</b>", html.EscapeString(title))
		if len(bosses) > tableChunkSize {
			header = fmt.Sprintf("<b>%s (part %d)</b>", html.EscapeString(title), start/tableChunkSize+1)
		}
		chunks = append(chunks, header+"\n<pre>"+html.EscapeString(tw.Render())+"</pre>")
	}

	return chunks
}

// FormatOverview рендерит обе группы боссов
func FormatOverview(overview *service.Overview, now time.Time) []string {
	messages := FormatBossTables("⚔️ Field Bosses", overview.Field, now)
	messages = append(messages, FormatBossTables("📅 Fixed Event Schedule", overview.Fixed, now)...)
	return messages
}

// FormatNearest описывает ближайший спавн
func FormatNearest(occ *model.Occurrence, now time.Time) string {
	if occ == nil {
		return "⏳ No upcoming spawns scheduled."
	}

	kind := "field boss"
	if occ.Fixed {
		kind = "fixed event"
	}

	remaining := schedule.CalculateRemaining(&occ.SpawnAt, now)

	return fmt.Sprintf(
		"⏰ Next spawn: <b>%s</b> (%s)\n\n"+
			"🕒 %s\n"+
			"⌛ in %s\n"+
			"📍 %s",
		html.EscapeString(occ.Boss.Name),
		kind,
		FormatSpawnTime(&occ.SpawnAt),
		schedule.FormatRemaining(remaining),
		html.EscapeString(orUnknown(occ.Boss.Location)),
	)
}

// FormatKilled подтверждение отметки убийства
func FormatKilled(boss *model.Boss) string {
	return fmt.Sprintf("✅ <b>%s</b> killed! Next spawn in %dh at <b>%s</b>.",
		html.EscapeString(boss.Name), boss.RespawnHours, FormatSpawnTime(boss.NextSpawnAt))
}

// FormatRescheduled подтверждение ручной установки спавна
func FormatRescheduled(boss *model.Boss) string {
	return fmt.Sprintf("🛠 <b>%s</b> rescheduled.\nLast kill: %s\nNext spawn: <b>%s</b>",
		html.EscapeString(boss.Name), FormatSpawnTime(boss.LastKillAt), FormatSpawnTime(boss.NextSpawnAt))
}

// FormatSpawnNotification текст уведомления о скором спавне
func FormatSpawnNotification(n model.Notification, now time.Time) string {
	minutes := int(n.SpawnAt.Sub(now).Round(time.Minute) / time.Minute)
	if minutes < 1 {
		minutes = 1
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "⚔️ <b>%s</b> spawning soon!\n", html.EscapeString(n.Name))
	fmt.Fprintf(&sb, "<b>%s</b> will spawn in approximately <b>%d minutes</b>!\n\n", html.EscapeString(n.Name), minutes)
	fmt.Fprintf(&sb, "Level: %s\n", levelText(n.Level))
	fmt.Fprintf(&sb, "Location: %s\n", html.EscapeString(orUnknown(n.Location)))
	fmt.Fprintf(&sb, "Attack Type: %s\n", html.EscapeString(orUnknown(string(n.AttackType))))
	fmt.Fprintf(&sb, "Spawn Time: %s", FormatSpawnTime(&n.SpawnAt))
	if n.Fixed {
		sb.WriteString("\n📅 Fixed event")
	}
	return sb.String()
}

func orUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return "Unknown"
	}
	return s
}
