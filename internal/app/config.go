package app

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// StorageDriver выбирает реализацию долговечного хранилища.
type StorageDriver string

const (
	StorageDriverMemory   StorageDriver = "memory"
	StorageDriverPostgres StorageDriver = "postgres"
)

// CacheDriver выбирает реализацию кэша стока.
type CacheDriver string

const (
	CacheDriverMemory CacheDriver = "memory"
	CacheDriverRedis  CacheDriver = "redis"
)

// Config описывает настройки запуска приложения.
type Config struct {
	MetricsAddr string

	StorageDriver       StorageDriver
	PostgresDSN         string
	PostgresAutoMigrate bool

	CacheDriver CacheDriver
	RedisAddr   string

	// KafkaBrokers — список брокеров через запятую; пустое значение
	// отключает и паблишер, и sync-consumer.
	KafkaBrokers   string
	KafkaGroupID   string
	SyncMaxRetries int
}

// DefaultConfig возвращает конфигурацию для локального запуска:
// всё в памяти, без Kafka.
func DefaultConfig() Config {
	return Config{
		MetricsAddr:         ":9090",
		StorageDriver:       StorageDriverMemory,
		PostgresAutoMigrate: true,
		CacheDriver:         CacheDriverMemory,
		KafkaGroupID:        "ims-sync",
		SyncMaxRetries:      3,
	}
}

// ConfigFromEnv строит конфигурацию из DefaultConfig и переменных окружения IMS_*.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()

	if v := os.Getenv("IMS_METRICS_ADDR"); v != "" {
		cfg.MetricsAddr = v
	}
	if v := os.Getenv("IMS_STORAGE_DRIVER"); v != "" {
		cfg.StorageDriver = StorageDriver(strings.ToLower(v))
	}
	if v := os.Getenv("IMS_POSTGRES_DSN"); v != "" {
		cfg.PostgresDSN = v
		if cfg.StorageDriver == StorageDriverMemory && os.Getenv("IMS_STORAGE_DRIVER") == "" {
			cfg.StorageDriver = StorageDriverPostgres
		}
	}
	if v := os.Getenv("IMS_POSTGRES_AUTO_MIGRATE"); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			cfg.PostgresAutoMigrate = parsed
		}
	}
	if v := os.Getenv("IMS_CACHE_DRIVER"); v != "" {
		cfg.CacheDriver = CacheDriver(strings.ToLower(v))
	}
	if v := os.Getenv("IMS_REDIS_ADDR"); v != "" {
		cfg.RedisAddr = v
		if cfg.CacheDriver == CacheDriverMemory && os.Getenv("IMS_CACHE_DRIVER") == "" {
			cfg.CacheDriver = CacheDriverRedis
		}
	}
	if v := os.Getenv("IMS_KAFKA_BROKERS"); v != "" {
		cfg.KafkaBrokers = v
	}
	if v := os.Getenv("IMS_KAFKA_GROUP_ID"); v != "" {
		cfg.KafkaGroupID = v
	}
	if v := os.Getenv("IMS_SYNC_MAX_RETRIES"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			cfg.SyncMaxRetries = parsed
		}
	}

	return cfg
}

// Validate проверяет согласованность конфигурации.
func (c Config) Validate() error {
	switch c.StorageDriver {
	case StorageDriverMemory:
	case StorageDriverPostgres:
		if c.PostgresDSN == "" {
			return fmt.Errorf("storage driver %q requires IMS_POSTGRES_DSN", c.StorageDriver)
		}
	default:
		return fmt.Errorf("unknown storage driver %q", c.StorageDriver)
	}

	switch c.CacheDriver {
	case CacheDriverMemory:
	case CacheDriverRedis:
		if c.RedisAddr == "" {
			return fmt.Errorf("cache driver %q requires IMS_REDIS_ADDR", c.CacheDriver)
		}
	default:
		return fmt.Errorf("unknown cache driver %q", c.CacheDriver)
	}

	return nil
}

// KafkaBrokerList возвращает брокеры списком; nil, если Kafka не настроен.
func (c Config) KafkaBrokerList() []string {
	if c.KafkaBrokers == "" {
		return nil
	}

	raw := strings.Split(c.KafkaBrokers, ",")
	brokers := make([]string, 0, len(raw))
	for _, b := range raw {
		b = strings.TrimSpace(b)
		if b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}
