package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// ============================================================
// Configuration
// ============================================================

type Config struct {
	Port         string `toml:"port"`
	Environment  string `toml:"env"`
	ReadTimeout  int    `toml:"read_timeout"`
	WriteTimeout int    `toml:"write_timeout"`

	LogLevel string `toml:"log_level"`
	LogFile  string `toml:"log_file"`

	DBPath         string `toml:"db_path"`
	MigrationsPath string `toml:"migrations"`
	ExportDir      string `toml:"export_dir"`

	SessionTTL  int    `toml:"session_ttl"` // минуты
	MaxSessions int    `toml:"max_sessions"`
	CommitKey   string `toml:"commit_key"`

	PlannerURL  string   `toml:"planner_url"`
	CORSOrigins []string `toml:"cors_origins"`
}

// Defaults возвращает конфигурацию по умолчанию.
func Defaults() *Config {
	return &Config{
		Port:           "3000",
		Environment:    "development",
		ReadTimeout:    10,
		WriteTimeout:   10,
		LogLevel:       "info",
		DBPath:         "data/db/planner.db",
		MigrationsPath: "migrations/001_init_missions.sql",
		ExportDir:      "exports",
		SessionTTL:     60,
		MaxSessions:    256,
		CommitKey:      "Enter",
		PlannerURL:     "http://localhost:3003",
		CORSOrigins:    []string{"*"},
	}
}

// Load загружает конфигурацию: значения по умолчанию, затем TOML из CONFIG_FILE,
// затем переменные окружения.
func Load() *Config {
	return LoadWith(Defaults())
}

// LoadWith работает как Load, но начинает с переданных значений по умолчанию
// (например, свой порт у сервиса). Файл и окружение накладываются поверх.
func LoadWith(cfg *Config) *Config {
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := LoadFile(path, cfg); err != nil {
			log.Printf("[CONFIG] %v, using defaults", err)
		}
	}

	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.Environment = getEnv("ENV", cfg.Environment)
	cfg.ReadTimeout = getEnvAsInt("READ_TIMEOUT", cfg.ReadTimeout)
	cfg.WriteTimeout = getEnvAsInt("WRITE_TIMEOUT", cfg.WriteTimeout)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFile = getEnv("LOG_FILE", cfg.LogFile)
	cfg.DBPath = getEnv("PLANNER_DB_PATH", cfg.DBPath)
	cfg.MigrationsPath = getEnv("PLANNER_MIGRATIONS", cfg.MigrationsPath)
	cfg.ExportDir = getEnv("PLANNER_EXPORT_DIR", cfg.ExportDir)
	cfg.SessionTTL = getEnvAsInt("SESSION_TTL", cfg.SessionTTL)
	cfg.MaxSessions = getEnvAsInt("MAX_SESSIONS", cfg.MaxSessions)
	cfg.CommitKey = getEnv("COMMIT_KEY", cfg.CommitKey)
	cfg.PlannerURL = getEnv("PLANNER_URL", cfg.PlannerURL)
	cfg.CORSOrigins = getEnvAsList("CORS_ORIGINS", cfg.CORSOrigins)

	return cfg
}

// LoadFile накладывает значения из TOML файла поверх cfg.
func LoadFile(path string, cfg *Config) error {
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return err
	}
	return nil
}

// SessionLifetime отдаёт TTL сессии редактора.
func (c *Config) SessionLifetime() time.Duration {
	if c.SessionTTL <= 0 {
		return 0
	}
	return time.Duration(c.SessionTTL) * time.Minute
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

// getEnvAsList читает список через запятую, пустые элементы отбрасываются.
func getEnvAsList(key string, defaultVal []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultVal
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return defaultVal
	}
	return out
}
