package app

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Поддерживаемые драйверы хранилища.
const (
	StorageDriverMemory   = "memory"
	StorageDriverPostgres = "postgres"
)

// Config описывает настройки запуска сервиса приёма заказов.
type Config struct {
	HTTPAddr    string
	MetricsAddr string

	StorageDriver string
	PostgresDSN   string
	AutoMigrate   bool

	KafkaBrokers []string
	KafkaTopic   string

	// NotifyDelay имитирует длительность обращения к логистике в
	// mock-режиме (используется, когда Kafka не настроена).
	NotifyDelay time.Duration

	ShutdownTimeout time.Duration
}

// DefaultConfig возвращает конфигурацию для локального запуска: память
// вместо Postgres, mock-логистика вместо Kafka.
func DefaultConfig() Config {
	return Config{
		HTTPAddr:        ":8080",
		MetricsAddr:     ":9090",
		StorageDriver:   StorageDriverMemory,
		AutoMigrate:     true,
		KafkaTopic:      "intake.order.events",
		NotifyDelay:     2 * time.Second,
		ShutdownTimeout: 10 * time.Second,
	}
}

// FromEnv поверх дефолтов читает настройки из переменных окружения.
func FromEnv() (Config, error) {
	cfg := DefaultConfig()

	if v := os.Getenv("INTAKE_HTTP_ADDR"); v != "" {
		cfg.HTTPAddr = v
	}
	if v := os.Getenv("INTAKE_METRICS_ADDR"); v != "" {
		cfg.MetricsAddr = v
	}
	if v := os.Getenv("INTAKE_STORAGE_DRIVER"); v != "" {
		driver := strings.ToLower(strings.TrimSpace(v))
		if driver != StorageDriverMemory && driver != StorageDriverPostgres {
			return Config{}, fmt.Errorf("unsupported storage driver %q (use memory|postgres)", v)
		}
		cfg.StorageDriver = driver
	}
	if v := os.Getenv("INTAKE_POSTGRES_DSN"); v != "" {
		cfg.PostgresDSN = v
	}
	if v := os.Getenv("INTAKE_POSTGRES_AUTO_MIGRATE"); v != "" {
		autoMigrate, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("parse INTAKE_POSTGRES_AUTO_MIGRATE: %w", err)
		}
		cfg.AutoMigrate = autoMigrate
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		cfg.KafkaBrokers = splitBrokers(v)
	}
	if v := os.Getenv("INTAKE_KAFKA_TOPIC"); v != "" {
		cfg.KafkaTopic = v
	}
	if v := os.Getenv("INTAKE_NOTIFY_DELAY"); v != "" {
		delay, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("parse INTAKE_NOTIFY_DELAY: %w", err)
		}
		cfg.NotifyDelay = delay
	}
	if v := os.Getenv("INTAKE_SHUTDOWN_TIMEOUT"); v != "" {
		timeout, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("parse INTAKE_SHUTDOWN_TIMEOUT: %w", err)
		}
		cfg.ShutdownTimeout = timeout
	}

	if cfg.StorageDriver == StorageDriverPostgres && cfg.PostgresDSN == "" {
		return Config{}, fmt.Errorf("INTAKE_POSTGRES_DSN is required for the postgres driver")
	}

	return cfg, nil
}

func splitBrokers(v string) []string {
	parts := strings.Split(v, ",")
	brokers := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			brokers = append(brokers, p)
		}
	}
	return brokers
}
