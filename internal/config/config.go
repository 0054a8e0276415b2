package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"bankcompare/comparison"
	"bankcompare/quality"
	"bankcompare/store"
)

// Config конфигурация сервиса сравнения банковских продуктов
type Config struct {
	// Сервер
	Port string `json:"port"`

	// Данные
	DataDir      string `json:"data_dir"`
	DatabasePath string `json:"database_path"`

	// Connection pooling
	MaxOpenConns    int           `json:"max_open_conns"`
	MaxIdleConns    int           `json:"max_idle_conns"`
	ConnMaxLifetime time.Duration `json:"conn_max_lifetime"`

	// Логирование
	LogLevel string `json:"log_level"`

	// Пороги сравнения
	Comparison comparison.Options `json:"comparison"`

	// Политика валидации
	Validation quality.Policy `json:"validation"`

	// Ограничение частоты запросов
	RateLimitRPS   float64 `json:"rate_limit_rps"`
	RateLimitBurst int     `json:"rate_limit_burst"`
}

// Load загружает конфигурацию из переменных окружения.
// Если задан BANKCOMPARE_CONFIG, значения сначала читаются из JSON-файла,
// затем переменные окружения их переопределяют.
func Load() (*Config, error) {
	cfg := defaults()

	if path := os.Getenv("BANKCOMPARE_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("invalid config file %s: %w", path, err)
		}
	}

	applyEnv(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Port:            "8080",
		DataDir:         "./data",
		DatabasePath:    "./bankcompare.db",
		MaxOpenConns:    10,
		MaxIdleConns:    5,
		ConnMaxLifetime: 5 * time.Minute,
		LogLevel:        "info",
		Comparison:      comparison.DefaultOptions(),
		Validation:      quality.Policy{FreshnessGatesValidity: false},
		RateLimitRPS:    50,
		RateLimitBurst:  100,
	}
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("PORT"); v != "" {
		cfg.Port = v
	}
	if v := os.Getenv("DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("DATABASE_PATH"); v != "" {
		cfg.DatabasePath = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("MAX_OPEN_CONNS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.MaxOpenConns = n
		}
	}
	if v := os.Getenv("MAX_IDLE_CONNS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.MaxIdleConns = n
		}
	}
	if v := os.Getenv("IDENTICAL_RATE_EPSILON"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 {
			cfg.Comparison.IdenticalRateEpsilon = f
		}
	}
	if v := os.Getenv("DEPOSIT_LAG_THRESHOLD"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 {
			cfg.Comparison.DepositLagThreshold = f
		}
	}
	if v := os.Getenv("FRESHNESS_GATES_VALIDITY"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Validation.FreshnessGatesValidity = b
		}
	}
	if v := os.Getenv("RATE_LIMIT_RPS"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			cfg.RateLimitRPS = f
		}
	}
	if v := os.Getenv("RATE_LIMIT_BURST"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.RateLimitBurst = n
		}
	}
}

func (c *Config) validate() error {
	if c.Port == "" {
		return fmt.Errorf("port must not be empty")
	}
	if c.DataDir == "" {
		return fmt.Errorf("data dir must not be empty")
	}
	if c.Comparison.IdenticalRateEpsilon < 0 {
		return fmt.Errorf("identical rate epsilon must be non-negative")
	}
	return nil
}

// StoreConfig возвращает параметры пула соединений для хранилища
func (c *Config) StoreConfig() store.Config {
	return store.Config{
		MaxOpenConns:    c.MaxOpenConns,
		MaxIdleConns:    c.MaxIdleConns,
		ConnMaxLifetime: c.ConnMaxLifetime,
	}
}
