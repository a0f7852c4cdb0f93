package app

import (
	"testing"
)

func TestDefaultConfig_Values(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.MetricsAddr != ":9090" {
		t.Errorf("expected MetricsAddr :9090, got %s", cfg.MetricsAddr)
	}
	if cfg.StorageDriver != StorageDriverMemory {
		t.Errorf("expected StorageDriver %s, got %s", StorageDriverMemory, cfg.StorageDriver)
	}
	if cfg.CacheDriver != CacheDriverMemory {
		t.Errorf("expected CacheDriver %s, got %s", CacheDriverMemory, cfg.CacheDriver)
	}
	if !cfg.PostgresAutoMigrate {
		t.Error("expected PostgresAutoMigrate to be true")
	}
	if cfg.KafkaGroupID == "" {
		t.Error("expected non-empty KafkaGroupID")
	}
	if cfg.SyncMaxRetries <= 0 {
		t.Error("expected SyncMaxRetries to be > 0")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config must validate: %v", err)
	}
}

func TestConfigFromEnv_Overrides(t *testing.T) {
	t.Setenv("IMS_METRICS_ADDR", ":9999")
	t.Setenv("IMS_POSTGRES_DSN", "postgres://ims:ims@db:5432/ims")
	t.Setenv("IMS_REDIS_ADDR", "redis:6379")
	t.Setenv("IMS_KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092")
	t.Setenv("IMS_KAFKA_GROUP_ID", "ims-test")
	t.Setenv("IMS_SYNC_MAX_RETRIES", "5")
	t.Setenv("IMS_POSTGRES_AUTO_MIGRATE", "false")

	cfg := ConfigFromEnv()

	if cfg.MetricsAddr != ":9999" {
		t.Errorf("unexpected MetricsAddr %s", cfg.MetricsAddr)
	}
	// DSN/адрес в окружении переключают драйверы автоматически.
	if cfg.StorageDriver != StorageDriverPostgres {
		t.Errorf("expected postgres storage driver, got %s", cfg.StorageDriver)
	}
	if cfg.CacheDriver != CacheDriverRedis {
		t.Errorf("expected redis cache driver, got %s", cfg.CacheDriver)
	}
	if cfg.PostgresAutoMigrate {
		t.Error("expected PostgresAutoMigrate to be disabled")
	}
	if cfg.KafkaGroupID != "ims-test" {
		t.Errorf("unexpected KafkaGroupID %s", cfg.KafkaGroupID)
	}
	if cfg.SyncMaxRetries != 5 {
		t.Errorf("unexpected SyncMaxRetries %d", cfg.SyncMaxRetries)
	}

	brokers := cfg.KafkaBrokerList()
	if len(brokers) != 2 || brokers[0] != "kafka-1:9092" || brokers[1] != "kafka-2:9092" {
		t.Errorf("unexpected broker list %v", brokers)
	}
}

func TestConfigFromEnv_ExplicitDriverWins(t *testing.T) {
	t.Setenv("IMS_STORAGE_DRIVER", "memory")
	t.Setenv("IMS_POSTGRES_DSN", "postgres://ims:ims@db:5432/ims")

	cfg := ConfigFromEnv()
	if cfg.StorageDriver != StorageDriverMemory {
		t.Errorf("explicit memory driver must win, got %s", cfg.StorageDriver)
	}
}

func TestConfig_Validate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.StorageDriver = StorageDriverPostgres
	if err := cfg.Validate(); err == nil {
		t.Error("postgres driver without DSN must not validate")
	}

	cfg = DefaultConfig()
	cfg.CacheDriver = CacheDriverRedis
	if err := cfg.Validate(); err == nil {
		t.Error("redis driver without addr must not validate")
	}

	cfg = DefaultConfig()
	cfg.StorageDriver = "cassandra"
	if err := cfg.Validate(); err == nil {
		t.Error("unknown storage driver must not validate")
	}
}

func TestKafkaBrokerList_Empty(t *testing.T) {
	cfg := DefaultConfig()
	if brokers := cfg.KafkaBrokerList(); brokers != nil {
		t.Errorf("expected nil broker list, got %v", brokers)
	}
}
