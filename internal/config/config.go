package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	TelegramToken string `mapstructure:"TELEGRAM_TOKEN"`
	DBDSN         string `mapstructure:"DB_DSN"`
	Environment   string `mapstructure:"ENV"`
	LogLevel      string `mapstructure:"LOG_LEVEL"`
	HTTPAddr      string `mapstructure:"HTTP_ADDR"`
	SlotsFile     string `mapstructure:"SLOTS_FILE"`

	AnchorOffset     time.Duration `mapstructure:"ANCHOR_UTC_OFFSET_HOURS"`
	ScanInterval     time.Duration `mapstructure:"SCAN_INTERVAL"`
	LeadLow          time.Duration `mapstructure:"NOTIFY_LEAD_LOW"`
	LeadHigh         time.Duration `mapstructure:"NOTIFY_LEAD_HIGH"`
	NotifyChatID     int64         `mapstructure:"NOTIFY_CHAT_ID"`
	NotifyRatePerSec int           `mapstructure:"NOTIFY_RATE_PER_SEC"`
}

const (
	DefaultHTTPAddr         = ":3000"
	DefaultAnchorOffset     = 8 * time.Hour
	DefaultScanInterval     = 60 * time.Second
	DefaultLeadLow          = 570 * time.Second
	DefaultLeadHigh         = 630 * time.Second
	DefaultNotifyRatePerSec = 1
)

func Load() (*Config, error) {
	// Пытаемся загрузить .env файл (игнорируем ошибку, если файла нет)
	if err := godotenv.Load(".env"); err != nil {
		log.Println("⚠️  No .env file found, using environment variables")
	} else {
		log.Println("✅ Loaded configuration from .env file")
	}

	return FromEnv(os.Getenv)
}

// FromEnv собирает конфиг из переданной функции чтения переменных
func FromEnv(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		DBDSN:         getenv("DB_DSN"),
		TelegramToken: getenv("TELEGRAM_TOKEN"),
		Environment:   getenv("ENV"),
		LogLevel:      getenv("LOG_LEVEL"),
		HTTPAddr:      getenv("HTTP_ADDR"),
		SlotsFile:     getenv("SLOTS_FILE"),
	}

	// Устанавливаем дефолтные значения
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = DefaultHTTPAddr
	}

	var err error
	if cfg.AnchorOffset, err = hoursOr(getenv("ANCHOR_UTC_OFFSET_HOURS"), DefaultAnchorOffset); err != nil {
		return nil, fmt.Errorf("ANCHOR_UTC_OFFSET_HOURS: %w", err)
	}
	if cfg.ScanInterval, err = durationOr(getenv("SCAN_INTERVAL"), DefaultScanInterval); err != nil {
		return nil, fmt.Errorf("SCAN_INTERVAL: %w", err)
	}
	if cfg.LeadLow, err = durationOr(getenv("NOTIFY_LEAD_LOW"), DefaultLeadLow); err != nil {
		return nil, fmt.Errorf("NOTIFY_LEAD_LOW: %w", err)
	}
	if cfg.LeadHigh, err = durationOr(getenv("NOTIFY_LEAD_HIGH"), DefaultLeadHigh); err != nil {
		return nil, fmt.Errorf("NOTIFY_LEAD_HIGH: %w", err)
	}
	if v := getenv("NOTIFY_CHAT_ID"); v != "" {
		if cfg.NotifyChatID, err = strconv.ParseInt(v, 10, 64); err != nil {
			return nil, fmt.Errorf("NOTIFY_CHAT_ID: %w", err)
		}
	}
	cfg.NotifyRatePerSec = DefaultNotifyRatePerSec
	if v := getenv("NOTIFY_RATE_PER_SEC"); v != "" {
		if cfg.NotifyRatePerSec, err = strconv.Atoi(v); err != nil {
			return nil, fmt.Errorf("NOTIFY_RATE_PER_SEC: %w", err)
		}
	}

	// Проверяем обязательные поля
	if cfg.DBDSN == "" {
		return nil, fmt.Errorf("DB_DSN is required but not set")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate проверяет согласованность окна уведомлений и интервала сканирования
func (c *Config) Validate() error {
	if c.ScanInterval < time.Second {
		return fmt.Errorf("scan interval %s must be at least 1s", c.ScanInterval)
	}
	if c.LeadLow < 0 || c.LeadHigh <= c.LeadLow {
		return fmt.Errorf("notify lead window [%s, %s] is empty", c.LeadLow, c.LeadHigh)
	}
	// Окно шире периода сканирования даст повторные уведомления
	if c.LeadHigh-c.LeadLow > c.ScanInterval {
		return fmt.Errorf("notify lead window %s wider than scan interval %s", c.LeadHigh-c.LeadLow, c.ScanInterval)
	}
	if c.NotifyRatePerSec < 1 {
		return fmt.Errorf("notify rate %d must be positive", c.NotifyRatePerSec)
	}
	return nil
}

func (c *Config) GetDBDSN() string {
	return c.DBDSN
}

func durationOr(raw string, def time.Duration) (time.Duration, error) {
	if raw == "" {
		return def, nil
	}
	return time.ParseDuration(raw)
}

func hoursOr(raw string, def time.Duration) (time.Duration, error) {
	if raw == "" {
		return def, nil
	}
	hours, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, err
	}
	if hours < -14 || hours > 14 {
		return 0, fmt.Errorf("offset %v out of range", hours)
	}
	return time.Duration(hours * float64(time.Hour)), nil
}
