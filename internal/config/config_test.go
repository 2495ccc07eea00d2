package config

import (
	"os"
	"reflect"
	"testing"
	"time"
)

// unsetEnv clears key for the duration of the test.
func unsetEnv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	os.Unsetenv(key)
}

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{"HTTP_PORT", "ACQUIRER_URL", "ACQUIRER_TIMEOUT", "STORE_BACKEND", "KAFKA_BROKER_URL", "CORS_ALLOWED_ORIGINS"} {
		unsetEnv(t, key)
	}

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.HTTPPort != 8090 || cfg.AcquirerURL != "http://localhost:8080" || cfg.AcquirerTimeout != 0 {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if cfg.StoreBackend != StoreBackendMemory || cfg.EventsEnabled() {
		t.Fatalf("unexpected store settings %+v", cfg)
	}
	if cfg.CORSAllowedOrigins != nil {
		t.Fatalf("expected no CORS origins, got %v", cfg.CORSAllowedOrigins)
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("HTTP_PORT", "9000")
	t.Setenv("ACQUIRER_URL", "http://bank:8080")
	t.Setenv("ACQUIRER_TIMEOUT", "2s")
	t.Setenv("STORE_BACKEND", "Postgres")
	t.Setenv("KAFKA_BROKER_URL", "kafka-1:9092, kafka-2:9092")
	t.Setenv("OUTBOX_BATCH_SIZE", "50")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com,https://b.example.com")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.HTTPPort != 9000 || cfg.AcquirerTimeout != 2*time.Second || cfg.OutboxBatchSize != 50 {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if !cfg.EventsEnabled() {
		t.Fatal("expected events enabled for postgres with brokers")
	}
	if got := cfg.GetKafkaBrokers(); !reflect.DeepEqual(got, []string{"kafka-1:9092", "kafka-2:9092"}) {
		t.Fatalf("brokers %v", got)
	}
	if len(cfg.CORSAllowedOrigins) != 2 {
		t.Fatalf("origins %v", cfg.CORSAllowedOrigins)
	}
}

func TestLoadConfigInvalidValuesFallBack(t *testing.T) {
	t.Setenv("STORE_BACKEND", "memory")
	t.Setenv("HTTP_PORT", "not-a-number")
	t.Setenv("OUTBOX_POLL_INTERVAL", "soon")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.HTTPPort != 8090 || cfg.OutboxPollInterval != time.Second {
		t.Fatalf("expected defaults, got port=%d interval=%s", cfg.HTTPPort, cfg.OutboxPollInterval)
	}
}

func TestValidate(t *testing.T) {
	t.Setenv("STORE_BACKEND", "cassandra")
	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected unknown backend to fail")
	}

	t.Setenv("STORE_BACKEND", "redis")
	t.Setenv("HTTP_PORT", "-1")
	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected negative port to fail")
	}
}
