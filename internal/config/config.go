package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	AppPort    string `mapstructure:"APP_PORT"`
	AdminToken string `mapstructure:"ADMIN_TOKEN"`

	DBHost     string `mapstructure:"DB_HOST"`
	DBPort     int    `mapstructure:"DB_PORT"`
	DBUser     string `mapstructure:"DB_USER"`
	DBPassword string `mapstructure:"DB_PASSWORD"`
	DBName     string `mapstructure:"DB_NAME"`
	DBScheme   string `mapstructure:"DB_SCHEME"`

	// --- Redis ---
	// Пустой RedisAddr = работаем без кэша (noop-адаптер)
	RedisAddr      string `mapstructure:"REDIS_ADDR"`
	RedisDB        int    `mapstructure:"REDIS_DB"`
	RedisPassword  string `mapstructure:"REDIS_PASSWORD"`
	CacheTimeoutMS int    `mapstructure:"CACHE_TIMEOUT_MS"`

	// TTL кэша, секунды; 0 = дефолты слоя catalog
	TTLListSec    int `mapstructure:"TTL_LIST"`
	TTLProductSec int `mapstructure:"TTL_PRODUCT"`
	TTLSearchSec  int `mapstructure:"TTL_SEARCH"`

	// --- S3 ---
	S3Endpoint  string `mapstructure:"S3_ENDPOINT"`
	S3Region    string `mapstructure:"S3_REGION"`
	S3Bucket    string `mapstructure:"S3_BUCKET"`
	S3AccessKey string `mapstructure:"S3_ACCESS_KEY"`
	S3SecretKey string `mapstructure:"S3_SECRET_KEY"`
	S3UseSSL    bool   `mapstructure:"S3_USE_SSL"`
	S3PathStyle bool   `mapstructure:"S3_PATH_STYLE"`
}

// String реализует интерфейс Stringer
func (c *Config) String() string {
	var sb strings.Builder
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("  AppPort: %s\n", c.AppPort))
	sb.WriteString(fmt.Sprintf("  AdminToken: %s\n", masked(c.AdminToken)))
	sb.WriteString(fmt.Sprintf("  DBHost: %s\n", c.DBHost))
	sb.WriteString(fmt.Sprintf("  DBPort: %d\n", c.DBPort))
	sb.WriteString(fmt.Sprintf("  DBUser: %s\n", c.DBUser))
	sb.WriteString(fmt.Sprintf("  DBName: %s\n", c.DBName))
	sb.WriteString(fmt.Sprintf("  DBScheme: %s\n", c.DBScheme))
	sb.WriteString(fmt.Sprintf("  DBPassword: %s\n", masked(c.DBPassword)))

	// Redis
	if c.RedisAddr != "" {
		sb.WriteString(fmt.Sprintf("  RedisAddr: %s\n", c.RedisAddr))
		sb.WriteString(fmt.Sprintf("  RedisDB: %d\n", c.RedisDB))
		sb.WriteString(fmt.Sprintf("  RedisPassword: %s\n", masked(c.RedisPassword)))
	} else {
		sb.WriteString("  RedisAddr: (empty, cache disabled)\n")
	}
	sb.WriteString(fmt.Sprintf("  CacheTimeoutMS: %d\n", c.CacheTimeoutMS))
	sb.WriteString(fmt.Sprintf("  TTL list/product/search: %d/%d/%d\n",
		c.TTLListSec, c.TTLProductSec, c.TTLSearchSec))

	// S3
	sb.WriteString(fmt.Sprintf("  S3Endpoint: %s\n", c.S3Endpoint))
	sb.WriteString(fmt.Sprintf("  S3Region: %s\n", c.S3Region))
	sb.WriteString(fmt.Sprintf("  S3Bucket: %s\n", c.S3Bucket))
	sb.WriteString(fmt.Sprintf("  S3AccessKey: %s\n", masked(c.S3AccessKey)))
	sb.WriteString(fmt.Sprintf("  S3SecretKey: %s\n", masked(c.S3SecretKey)))
	sb.WriteString(fmt.Sprintf("  S3UseSSL: %v\n", c.S3UseSSL))
	sb.WriteString(fmt.Sprintf("  S3PathStyle: %v\n", c.S3PathStyle))

	return sb.String()
}

func masked(s string) string {
	if s == "" {
		return "(empty)"
	}
	return "********"
}

// LoadFromEnv загружает конфигурацию из переменных окружения
func LoadFromEnv() (*Config, error) {
	// Загружаем .env только для локальной разработки
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			return nil, errors.New("failed to load .env")
		}
	}

	v := viper.New()
	v.AutomaticEnv()

	// Регистрируем интересующие ключи окружения
	keys := []string{
		"APP_ENV", "APP_PORT", "ADMIN_TOKEN",
		"DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME", "DB_SCHEME",
		"REDIS_ADDR", "REDIS_DB", "REDIS_PASSWORD", "CACHE_TIMEOUT_MS",
		"TTL_LIST", "TTL_PRODUCT", "TTL_SEARCH",
		"S3_ENDPOINT", "S3_REGION", "S3_BUCKET", "S3_ACCESS_KEY", "S3_SECRET_KEY",
		"S3_USE_SSL", "S3_PATH_STYLE",
	}
	for _, k := range keys {
		_ = v.BindEnv(k)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	if cfg.DBScheme == "" {
		cfg.DBScheme = "shop"
	}
	if cfg.AppPort == "" {
		cfg.AppPort = ":8080"
	}
	return &cfg, nil
}

func (c *Config) GetDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DBUser,
		c.DBPassword,
		c.DBHost,
		c.DBPort,
		c.DBName,
	)
}
