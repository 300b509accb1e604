package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3/log"
	"github.com/joho/godotenv"
)

// Config структура конфигурации
type Config struct {
	Port             string
	AppEnv           string // окружение приложения
	LogLevel         string
	TelegramBotToken string
	TelegramInitTTL  time.Duration
	JWTSecret        string
	JWTTTL           time.Duration
	DatabaseURL      string
	DatabaseConfig   DatabaseConfig
	RedisURL         string
	CacheTTL         time.Duration
	EventsChannel    string
	CloudinaryConfig CloudinaryConfig
	CORSAllowOrigins []string
}

// DatabaseConfig содержит конфигурацию базы данных
type DatabaseConfig struct {
	Host         string
	Port         string
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxConns     int32
	MinConns     int32
	QueryTimeout time.Duration
	AutoMigrate  bool
}

// CloudinaryConfig содержит конфигурацию для Cloudinary
type CloudinaryConfig struct {
	CloudName    string
	APIKey       string
	APISecret    string
	UploadPreset string
	UploadFolder string
}

// IsDevelopment сообщает, запущено ли приложение локально
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// Load читает конфигурацию из .env и переменных окружения
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Warn("⚠️ .env файл не найден, используем переменные окружения")
	}

	var errs []error

	dbConfig := DatabaseConfig{
		Host:         getEnv("PGHOST", "localhost"),
		Port:         getEnv("PGPORT", "5432"),
		User:         getEnv("PGUSER", "barrio_user"),
		Password:     getEnv("PGPASSWORD", "barrio_pass"),
		Name:         getEnv("PGDATABASE", "barrio"),
		SSLMode:      getEnv("PGSSLMODE", "disable"),
		MaxConns:     int32(getInt("DB_MAX_CONNS", 10, &errs)),
		MinConns:     int32(getInt("DB_MIN_CONNS", 2, &errs)),
		QueryTimeout: getDuration("DB_QUERY_TIMEOUT", 5*time.Second, &errs),
		AutoMigrate:  getBool("DB_AUTO_MIGRATE", true, &errs),
	}

	// Формируем строку подключения к базе данных, если она не задана целиком
	dbURL := getEnv("DATABASE_URL", "")
	if dbURL == "" {
		dbURL = fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
			dbConfig.User, dbConfig.Password, dbConfig.Host, dbConfig.Port, dbConfig.Name, dbConfig.SSLMode)
	}

	cfg := &Config{
		Port:             getEnv("PORT", "8080"),
		AppEnv:           getEnv("APP_ENV", "production"),
		TelegramBotToken: getEnv("TELEGRAM_BOT_TOKEN", ""),
		TelegramInitTTL:  getDuration("TELEGRAM_INITDATA_TTL", 24*time.Hour, &errs),
		JWTSecret:        getEnv("JWT_SECRET", ""),
		JWTTTL:           getDuration("JWT_TTL", 72*time.Hour, &errs),
		DatabaseURL:      dbURL,
		DatabaseConfig:   dbConfig,
		RedisURL:         getEnv("REDIS_URL", "redis://localhost:6379/0"),
		CacheTTL:         getDuration("CACHE_TTL", 10*time.Minute, &errs),
		EventsChannel:    getEnv("EVENTS_CHANNEL", "barrio:requests"),
		CloudinaryConfig: CloudinaryConfig{
			CloudName:    getEnv("CLOUDINARY_CLOUD_NAME", ""),
			APIKey:       getEnv("CLOUDINARY_API_KEY", ""),
			APISecret:    getEnv("CLOUDINARY_API_SECRET", ""),
			UploadPreset: getEnv("CLOUDINARY_UPLOAD_PRESET", "barrio_mvp"),
			UploadFolder: getEnv("CLOUDINARY_UPLOAD_FOLDER", "barrio"),
		},
		CORSAllowOrigins: splitList(getEnv("CORS_ALLOW_ORIGINS", "*")),
	}

	defaultLevel := "info"
	if cfg.IsDevelopment() {
		defaultLevel = "debug"
	}
	cfg.LogLevel = strings.ToLower(getEnv("LOG_LEVEL", defaultLevel))

	if cfg.JWTSecret == "" {
		errs = append(errs, errors.New("не задана переменная JWT_SECRET"))
	}
	if dbConfig.MinConns > dbConfig.MaxConns {
		errs = append(errs, fmt.Errorf("DB_MIN_CONNS (%d) больше DB_MAX_CONNS (%d)", dbConfig.MinConns, dbConfig.MaxConns))
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return cfg, nil
}

// LoadConfig загружает конфигурацию и завершает процесс при ошибке
func LoadConfig() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("❌ Ошибка конфигурации: %v", err)
	}
	return cfg
}

// ApplyLogLevel настраивает уровень логирования
func (c *Config) ApplyLogLevel() {
	switch c.LogLevel {
	case "debug":
		log.SetLevel(log.LevelDebug)
	case "warn":
		log.SetLevel(log.LevelWarn)
	case "error":
		log.SetLevel(log.LevelError)
	default:
		log.SetLevel(log.LevelInfo)
	}
}

// getEnv получает переменную окружения или использует дефолтное значение
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int, errs *[]error) int {
	raw, exists := os.LookupEnv(key)
	if !exists || raw == "" {
		return defaultValue
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: ожидается целое число: %w", key, err))
		return defaultValue
	}
	return v
}

func getBool(key string, defaultValue bool, errs *[]error) bool {
	raw, exists := os.LookupEnv(key)
	if !exists || raw == "" {
		return defaultValue
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: ожидается true/false: %w", key, err))
		return defaultValue
	}
	return v
}

func getDuration(key string, defaultValue time.Duration, errs *[]error) time.Duration {
	raw, exists := os.LookupEnv(key)
	if !exists || raw == "" {
		return defaultValue
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: ожидается длительность (например 5s): %w", key, err))
		return defaultValue
	}
	return v
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
