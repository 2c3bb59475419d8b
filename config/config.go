package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"nutrition-bot/internal/domain/entity"
	"nutrition-bot/internal/infrastructure/storage"
	"nutrition-bot/internal/infrastructure/vision"
)

// Значения по умолчанию.
const (
	DefaultModelPath    = "models/malnutrition.onnx"
	DefaultInputName    = "input"
	DefaultOutputName   = "output"
	DefaultHistoryLimit = 5
	DefaultLogLevel     = "info"
)

type Config struct {
	TelegramToken string

	ModelPath   string
	LibraryPath string // пусто: путь onnxruntime по умолчанию
	InputName   string
	OutputName  string

	TaxonomyName  string
	Normalization vision.Normalization
	InputSize     int
	Thresholds    map[entity.ClassLabel]float32

	DatabaseDSN  string // пусто: история в памяти
	RedisAddr    string // пусто: без кэша
	CacheTTL     time.Duration
	HistoryLimit int

	LogLevel string
}

func Load() (*Config, error) {
	// Загружаем .env файл (игнорируем ошибку если файла нет)
	_ = godotenv.Load()

	cfg := &Config{
		TelegramToken: os.Getenv("TELEGRAM_TOKEN"),
		ModelPath:     getEnv("MODEL_PATH", DefaultModelPath),
		LibraryPath:   os.Getenv("ORT_LIBRARY_PATH"),
		InputName:     getEnv("MODEL_INPUT_NAME", DefaultInputName),
		OutputName:    getEnv("MODEL_OUTPUT_NAME", DefaultOutputName),
		TaxonomyName:  getEnv("TAXONOMY", entity.TaxonomyThreeClass),
		DatabaseDSN:   os.Getenv("DATABASE_DSN"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		LogLevel:      getEnv("LOG_LEVEL", DefaultLogLevel),
	}

	var err error
	if cfg.Normalization, err = vision.ParseNormalization(getEnv("NORMALIZATION", string(vision.NormalizeLinear))); err != nil {
		return nil, fmt.Errorf("NORMALIZATION: %w", err)
	}
	if cfg.InputSize, err = getInt("INPUT_SIZE", vision.DefaultInputSize); err != nil {
		return nil, err
	}
	if cfg.HistoryLimit, err = getInt("HISTORY_LIMIT", DefaultHistoryLimit); err != nil {
		return nil, err
	}
	if cfg.CacheTTL, err = getDuration("CACHE_TTL", storage.DefaultCacheTTL); err != nil {
		return nil, err
	}
	if cfg.Thresholds, err = ParseThresholds(os.Getenv("SEVERITY_THRESHOLDS")); err != nil {
		return nil, fmt.Errorf("SEVERITY_THRESHOLDS: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate проверяет согласованность настроек.
func (c *Config) Validate() error {
	if c.TelegramToken == "" {
		return fmt.Errorf("TELEGRAM_TOKEN is required")
	}
	if c.ModelPath == "" {
		return fmt.Errorf("MODEL_PATH is required")
	}
	if c.InputSize <= 0 {
		return fmt.Errorf("INPUT_SIZE must be positive, got %d", c.InputSize)
	}
	if c.HistoryLimit <= 0 {
		return fmt.Errorf("HISTORY_LIMIT must be positive, got %d", c.HistoryLimit)
	}
	if _, err := c.Taxonomy(); err != nil {
		return err
	}
	return nil
}

// Taxonomy возвращает выбранную таксономию с применёнными порогами.
func (c *Config) Taxonomy() (entity.Taxonomy, error) {
	tax, err := entity.TaxonomyByName(c.TaxonomyName)
	if err != nil {
		return entity.Taxonomy{}, fmt.Errorf("TAXONOMY: %w", err)
	}
	if len(c.Thresholds) == 0 {
		return tax, nil
	}
	tax, err = tax.WithThresholds(c.Thresholds)
	if err != nil {
		return entity.Taxonomy{}, fmt.Errorf("SEVERITY_THRESHOLDS: %w", err)
	}
	return tax, nil
}

// ParseThresholds разбирает строку вида "stunting=0.7,normal=0.75".
func ParseThresholds(raw string) (map[entity.ClassLabel]float32, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	out := make(map[entity.ClassLabel]float32)
	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		label, value, ok := strings.Cut(pair, "=")
		label = strings.TrimSpace(label)
		if !ok || label == "" {
			return nil, fmt.Errorf("malformed entry %q, want label=value", pair)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(value), 32)
		if err != nil {
			return nil, fmt.Errorf("threshold for %q: %w", label, err)
		}
		if v < 0 || v > 1 {
			return nil, fmt.Errorf("threshold for %q out of range: %v", label, v)
		}
		out[entity.ClassLabel(label)] = float32(v)
	}
	return out, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}
