package config

import (
	_ "embed"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/Freeeeeet/boss_timer_bot/internal/model"
	"gopkg.in/yaml.v3"
)

//go:embed slots.yaml
var defaultSlots []byte

type slotFile struct {
	Slots []slotEntry `yaml:"slots"`
}

type slotEntry struct {
	Day    int    `yaml:"day"`
	Time   string `yaml:"time"` // "HH:MM"
	Boss   string `yaml:"boss"`
	BossID int64  `yaml:"boss_id"`
}

// LoadSlots читает таблицу фиксированных слотов из файла или встроенную по умолчанию
func LoadSlots(path string) ([]model.FixedSlot, error) {
	if path == "" {
		return ParseSlots(defaultSlots)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read slots file: %w", err)
	}

	return ParseSlots(data)
}

// ParseSlots разбирает YAML-таблицу слотов
func ParseSlots(data []byte) ([]model.FixedSlot, error) {
	var file slotFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse slots: %w", err)
	}

	slots := make([]model.FixedSlot, 0, len(file.Slots))
	for i, entry := range file.Slots {
		hour, minute, err := parseHHMM(entry.Time)
		if err != nil {
			return nil, fmt.Errorf("slot %d: %w", i, err)
		}

		slot := model.FixedSlot{
			Weekday:  entry.Day,
			Hour:     hour,
			Minute:   minute,
			BossName: strings.TrimSpace(entry.Boss),
			BossID:   entry.BossID,
		}
		if err := slot.Validate(); err != nil {
			return nil, fmt.Errorf("slot %d: %w", i, err)
		}

		slots = append(slots, slot)
	}

	return slots, nil
}

func parseHHMM(raw string) (int, int, error) {
	h, m, ok := strings.Cut(strings.TrimSpace(raw), ":")
	if !ok {
		return 0, 0, fmt.Errorf("invalid time %q, expected HH:MM", raw)
	}
	hour, err := strconv.Atoi(h)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid hour in %q", raw)
	}
	minute, err := strconv.Atoi(m)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid minute in %q", raw)
	}
	return hour, minute, nil
}
