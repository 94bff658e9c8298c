package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
)

// Store backends
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
	StoreRedis    = "redis"
)

type Config struct {
	Environment string
	LogLevel    string
	Timezone    *time.Location

	// Хранилище коллекций
	StoreBackend  string
	StorePrefix   string
	DBDSN         string
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Внешние интерфейсы
	HTTPAddr         string
	TelegramToken    string
	StaffTelegramIDs map[int64]bool
	StaffChatID      int64
	RabbitMQURL      string
	RabbitMQQueue    string

	// Черновики сообщений об отсутствии
	GeminiAPIKey string
	GeminiModel  string

	// Генерация календаря
	CatalogWeeks int
	Holidays     []string

	// TTF/OTF с японскими глифами для недельных картинок, пусто = встроенный шрифт
	CalendarFontPath string
}

func Load() (*Config, error) {
	// Пытаемся загрузить .env файл (игнорируем ошибку, если файла нет)
	if err := godotenv.Load(".env"); err != nil {
		log.Println("⚠️  No .env file found, using environment variables")
	} else {
		log.Println("✅ Loaded configuration from .env file")
	}

	tzName := getenv("TIMEZONE", "Asia/Tokyo")
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", tzName, err)
	}

	cfg := &Config{
		Environment:   getenv("ENV", "development"),
		LogLevel:      getenv("LOG_LEVEL", ""),
		Timezone:      loc,
		StoreBackend:  strings.ToLower(getenv("STORE_BACKEND", StoreMemory)),
		StorePrefix:   os.Getenv("STORE_PREFIX"),
		DBDSN:         os.Getenv("DB_DSN"),
		RedisAddr:     getenv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		HTTPAddr:      getenv("HTTP_ADDR", ":8080"),
		TelegramToken: os.Getenv("TELEGRAM_TOKEN"),
		RabbitMQURL:   os.Getenv("RABBITMQ_URL"),
		RabbitMQQueue: getenv("RABBITMQ_QUEUE", "school.notifications"),
		GeminiAPIKey:  os.Getenv("GEMINI_API_KEY"),
		GeminiModel:   os.Getenv("GEMINI_MODEL"),
		Holidays:      splitList(os.Getenv("HOLIDAYS")),

		CalendarFontPath: os.Getenv("CALENDAR_FONT_PATH"),
	}

	if cfg.RedisDB, err = atoi("REDIS_DB", "0"); err != nil {
		return nil, err
	}
	if cfg.CatalogWeeks, err = atoi("CATALOG_WEEKS", "52"); err != nil {
		return nil, err
	}

	if raw := os.Getenv("STAFF_CHAT_ID"); raw != "" {
		cfg.StaffChatID, err = strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("STAFF_CHAT_ID: %w", err)
		}
	}

	cfg.StaffTelegramIDs = make(map[int64]bool)
	for _, raw := range splitList(os.Getenv("STAFF_TELEGRAM_IDS")) {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("STAFF_TELEGRAM_IDS: %w", err)
		}
		cfg.StaffTelegramIDs[id] = true
	}

	// Проверяем обязательные поля
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log.Printf("Config loaded (env=%s, store=%s)\n", cfg.Environment, cfg.StoreBackend)

	return cfg, nil
}

// Validate проверяет согласованность настроек
func (c *Config) Validate() error {
	switch c.StoreBackend {
	case StoreMemory, StoreRedis:
	case StorePostgres:
		if c.DBDSN == "" {
			return fmt.Errorf("DB_DSN is required for STORE_BACKEND=postgres")
		}
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend)
	}

	if c.CatalogWeeks <= 0 {
		return fmt.Errorf("CATALOG_WEEKS must be positive")
	}

	return nil
}

// IsStaff проверяет, что пользователь Telegram относится к сотрудникам
func (c *Config) IsStaff(telegramID int64) bool {
	return c.StaffTelegramIDs[telegramID]
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoi(key, def string) (int, error) {
	n, err := strconv.Atoi(getenv(key, def))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
