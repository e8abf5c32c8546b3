package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

var (
	ErrMissingInput   = errors.New("INPUT_DIR or INPUT_URLS_FILE is required")
	ErrInvalidFormat  = errors.New("invalid export format")
	ErrInvalidWorkers = errors.New("EXTRACT_WORKERS must be positive")
)

type Config struct {
	Database   DatabaseConfig
	Log        LogConfig
	Input      InputConfig
	Extraction ExtractionConfig
	Export     ExportConfig
	Cache      CacheConfig
	RateLimit  RateLimitConfig
	Metrics    MetricsConfig
	Rules      Rules
}

// DatabaseConfig: пустой URL означает, что сохранение в Postgres выключено.
type DatabaseConfig struct {
	URL string
}

type LogConfig struct {
	Level string
}

// InputConfig - откуда брать документы: каталог сохранённых страниц
// или файл со списком URL.
type InputConfig struct {
	Dir      string
	URLsFile string
}

type ExtractionConfig struct {
	Workers         int
	Timeout         time.Duration
	ScraperVersion  string
	ContinueOnError bool
}

type ExportConfig struct {
	Dir    string
	Format string
}

type CacheConfig struct {
	TTL time.Duration
}

type RateLimitConfig struct {
	RequestsPerMinute int
}

// MetricsConfig: пустой адрес означает, что HTTP-эндпоинт метрик выключен.
type MetricsConfig struct {
	Addr string
}

// Rules - пассивные правила из YAML файла: допустимые домены источника
// и жёсткие границы цен.
type Rules struct {
	AllowedDomains []string `yaml:"allowed_domains"`
	PriceMin       float64  `yaml:"price_min"`
	PriceMax       float64  `yaml:"price_max"`
}

func defaultRules() Rules {
	return Rules{
		AllowedDomains: []string{"yandex.ru", "yandex.com", "maps.yandex.ru"},
		PriceMin:       1,
		PriceMax:       1000000,
	}
}

func Load() (*Config, error) {
	cfg := &Config{
		Database: DatabaseConfig{
			URL: os.Getenv("DATABASE_URL"),
		},
		Log: LogConfig{
			Level: getEnvOrDefault("LOG_LEVEL", "info"),
		},
		Input: InputConfig{
			Dir:      os.Getenv("INPUT_DIR"),
			URLsFile: os.Getenv("INPUT_URLS_FILE"),
		},
		Extraction: ExtractionConfig{
			Workers:         getEnvIntOrDefault("EXTRACT_WORKERS", 4),
			Timeout:         time.Duration(getEnvIntOrDefault("EXTRACT_TIMEOUT_SEC", 30)) * time.Second,
			ScraperVersion:  getEnvOrDefault("SCRAPER_VERSION", "2.0"),
			ContinueOnError: getEnvOrDefault("CONTINUE_ON_ERROR", "true") == "true",
		},
		Export: ExportConfig{
			Dir:    getEnvOrDefault("EXPORT_DIR", "output"),
			Format: getEnvOrDefault("EXPORT_FORMAT", "json"),
		},
		Cache: CacheConfig{
			TTL: time.Duration(getEnvIntOrDefault("CACHE_TTL_SEC", 3600)) * time.Second,
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: getEnvIntOrDefault("RATE_LIMIT_PER_MINUTE", 10),
		},
		Metrics: MetricsConfig{
			Addr: os.Getenv("METRICS_ADDR"),
		},
		Rules: defaultRules(),
	}

	if path := os.Getenv("RULES_FILE"); path != "" {
		if err := cfg.loadRules(path); err != nil {
			return nil, fmt.Errorf("load rules: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadRules дочитывает пассивные правила из YAML; незаполненные поля
// остаются с значениями по умолчанию.
func (c *Config) loadRules(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var rules Rules
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return err
	}

	if len(rules.AllowedDomains) > 0 {
		c.Rules.AllowedDomains = rules.AllowedDomains
	}
	if rules.PriceMin > 0 {
		c.Rules.PriceMin = rules.PriceMin
	}
	if rules.PriceMax > 0 {
		c.Rules.PriceMax = rules.PriceMax
	}
	return nil
}

func (c *Config) Validate() error {
	if c.Input.Dir == "" && c.Input.URLsFile == "" {
		return ErrMissingInput
	}
	switch c.Export.Format {
	case "json", "csv", "all":
	default:
		return ErrInvalidFormat
	}
	if c.Extraction.Workers <= 0 {
		return ErrInvalidWorkers
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
