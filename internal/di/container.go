package di

import (
	"context"

	"github.com/GoArmGo/CatsApp/internal/adapter/storage/local"
	"github.com/GoArmGo/CatsApp/internal/adapter/storage/minio"
	"github.com/GoArmGo/CatsApp/internal/app"
	"github.com/GoArmGo/CatsApp/internal/config"
	"github.com/GoArmGo/CatsApp/internal/core/ports"
	"github.com/GoArmGo/CatsApp/internal/database/client"
	"github.com/GoArmGo/CatsApp/internal/database/postgres"
	"github.com/GoArmGo/CatsApp/internal/database/storage"
	"github.com/GoArmGo/CatsApp/internal/logger"
	"github.com/GoArmGo/CatsApp/internal/rabbitmq"
	"github.com/GoArmGo/CatsApp/internal/usecase"
)

// BuildApp инициализирует все зависимости и возвращает готовый объект App.
func BuildApp(ctx context.Context) (*app.App, error) {
	// 1. Загрузка конфигурации
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}

	slogger := logger.NewSlog(logger.SlogConfig{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})
	slogger.Info("logger initialized", "level", cfg.LogLevel, "format", cfg.LogFormat)

	// 2. Инициализация PostgreSQL клиента и миграции
	dbClient, err := client.NewClient(cfg, slogger)
	if err != nil {
		return nil, err
	}

	// дальше при ошибке соединение с БД нужно закрыть
	fail := func(err error) (*app.App, error) {
		_ = dbClient.Close()
		return nil, err
	}

	// 3. Репозиторий записей
	var catStorage ports.CatStorage
	switch cfg.DatabaseEngine {
	case config.EngineGorm:
		gormDB, err := postgres.OpenGorm(dbClient.DB.DB, slogger)
		if err != nil {
			return fail(err)
		}
		catStorage = postgres.NewGormCatStorage(gormDB, slogger)
	default:
		catStorage = storage.NewCatStorage(dbClient.DB, slogger)
	}
	slogger.Info("cat storage initialized", "engine", cfg.DatabaseEngine)

	// 4. Хранилище файлов
	var photoStore ports.PhotoStore
	switch cfg.PhotoStore {
	case config.PhotoStoreS3:
		s3Store, err := minio.NewMinioClient(ctx, cfg, slogger)
		if err != nil {
			return fail(err)
		}
		photoStore = s3Store
	default:
		disk, err := local.NewDisk(cfg.LocalStorageRoot, cfg.PhotoBucket, cfg.PublicBaseURL, slogger)
		if err != nil {
			return fail(err)
		}
		photoStore = disk
	}
	slogger.Info("photo store initialized", "store", cfg.PhotoStore, "bucket", cfg.PhotoBucket)

	// 5. RabbitMQ: очередь на удаление осиротевших файлов, опционально
	var (
		cleanupPublisher ports.OrphanCleanupPublisher
		cleanupConsumer  ports.OrphanCleanupConsumer
		queue            *rabbitmq.Client
	)
	if cfg.RabbitMQEnabled() {
		queue, err = rabbitmq.NewClient(cfg, slogger)
		if err != nil {
			return fail(err)
		}
		cleanupPublisher = queue
		cleanupConsumer = queue
	} else {
		slogger.Info("RABBITMQ_URL is not set, orphan cleanup queue disabled")
	}

	// 6. Бизнес-логика
	rules := usecase.DefaultUploadRules()
	rules.MaxBytes = cfg.UploadMaxBytes
	catUseCase := usecase.NewCatUseCase(catStorage, photoStore, cleanupPublisher, rules, slogger)

	// 7. Лимитер параллельных загрузок
	uploadLimiter := make(chan struct{}, cfg.UploadConcurrency)

	deps := app.Deps{
		DB:              dbClient,
		CatUseCase:      catUseCase,
		PhotoStore:      photoStore,
		UploadRules:     rules,
		CleanupConsumer: cleanupConsumer,
		UploadLimiter:   uploadLimiter,
	}
	if queue != nil {
		deps.Queue = queue
	}

	slogger.Info("all dependencies initialized",
		"upload_max_bytes", cfg.UploadMaxBytes,
		"upload_concurrency", cfg.UploadConcurrency,
	)
	return app.NewApp(cfg, slogger, deps), nil
}
