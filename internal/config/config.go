package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Движки репозитория
const (
	EngineSQLX = "sqlx"
	EngineGorm = "gorm"
)

// Реализации файлового хранилища
const (
	PhotoStoreLocal = "local"
	PhotoStoreS3    = "s3"
)

// Config хранит все конфигурационные параметры приложения.
type Config struct {
	DatabaseURL    string        `env:"DATABASE_URL,required"`
	DatabaseEngine string        `env:"DATABASE_ENGINE" envDefault:"sqlx"`
	ServerPort     string        `env:"SERVER_PORT" envDefault:"8080"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"30s"`
	PublicBaseURL  string        `env:"PUBLIC_BASE_URL" envDefault:"http://localhost:8080"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	PhotoStore       string `env:"PHOTO_STORE" envDefault:"local"`
	PhotoBucket      string `env:"PHOTO_BUCKET" envDefault:"cats"`
	LocalStorageRoot string `env:"LOCAL_STORAGE_ROOT" envDefault:"storage/app/public"`

	UploadMaxBytes    int64 `env:"UPLOAD_MAX_BYTES" envDefault:"5242880"`
	UploadConcurrency int   `env:"UPLOAD_CONCURRENCY" envDefault:"5"`

	// Настройки для MinIO, обязательны при PHOTO_STORE=s3
	MinioEndpoint        string `env:"MINIO_ENDPOINT"`
	MinioAccessKeyID     string `env:"MINIO_ACCESS_KEY_ID"`
	MinioSecretAccessKey string `env:"MINIO_SECRET_ACCESS_KEY"`
	MinioUseSSL          bool   `env:"MINIO_USE_SSL"`
	MinioBucketName      string `env:"MINIO_BUCKET_NAME"`
	MinioRegion          string `env:"MINIO_REGION" envDefault:"us-east-1"`

	// Очередь на удаление осиротевших файлов; пустой URL отключает её
	RabbitMQ struct {
		RabbitMQURL       string `env:"RABBITMQ_URL"`
		RabbitMQQueueName string `env:"RABBITMQ_QUEUE_NAME" envDefault:"cat_photo_cleanup"`
	}
}

// LoadConfig загружает конфигурацию из переменных окружения.
// В режиме разработки пытается загрузить .env файл.
func LoadConfig() (*Config, error) {
	if _, err := os.Stat(".env"); !os.IsNotExist(err) {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("load .env file: %w", err)
		}
	}

	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse config from environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate проверяет согласованность параметров
func (c *Config) Validate() error {
	switch c.DatabaseEngine {
	case EngineSQLX, EngineGorm:
	default:
		return fmt.Errorf("unknown DATABASE_ENGINE %q (use %q or %q)", c.DatabaseEngine, EngineSQLX, EngineGorm)
	}

	switch c.PhotoStore {
	case PhotoStoreLocal:
		if strings.TrimSpace(c.LocalStorageRoot) == "" {
			return fmt.Errorf("LOCAL_STORAGE_ROOT must be set for the local photo store")
		}
	case PhotoStoreS3:
		var missing []string
		for _, kv := range [][2]string{
			{"MINIO_ENDPOINT", c.MinioEndpoint},
			{"MINIO_ACCESS_KEY_ID", c.MinioAccessKeyID},
			{"MINIO_SECRET_ACCESS_KEY", c.MinioSecretAccessKey},
			{"MINIO_BUCKET_NAME", c.MinioBucketName},
			{"MINIO_REGION", c.MinioRegion},
		} {
			if kv[1] == "" {
				missing = append(missing, kv[0])
			}
		}
		if len(missing) > 0 {
			return fmt.Errorf("s3 photo store requires %s", strings.Join(missing, ", "))
		}
	default:
		return fmt.Errorf("unknown PHOTO_STORE %q (use %q or %q)", c.PhotoStore, PhotoStoreLocal, PhotoStoreS3)
	}

	if c.PhotoBucket == "" {
		return fmt.Errorf("PHOTO_BUCKET must not be empty")
	}
	if c.UploadMaxBytes <= 0 {
		return fmt.Errorf("UPLOAD_MAX_BYTES must be positive, got %d", c.UploadMaxBytes)
	}
	if c.UploadConcurrency <= 0 {
		c.UploadConcurrency = 1
	}
	return nil
}

// RabbitMQEnabled сообщает, настроена ли очередь очистки
func (c *Config) RabbitMQEnabled() bool {
	return c.RabbitMQ.RabbitMQURL != ""
}
