package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/GoArmGo/CatsApp/internal/core/ports"
	"github.com/GoArmGo/CatsApp/internal/messaging/payloads"
)

// runWorker потребляет очередь на удаление осиротевших файлов до отмены контекста
func runWorker(
	ctx context.Context,
	logger *slog.Logger,
	photoStore ports.PhotoStore,
	consumer ports.OrphanCleanupConsumer,
) error {
	if consumer == nil {
		return errors.New("worker mode requires RABBITMQ_URL")
	}

	workerCtx, cancelWorker := context.WithCancel(ctx)
	defer cancelWorker()

	if err := consumer.StartConsumingOrphanCleanups(workerCtx, orphanCleanupHandler(photoStore, logger)); err != nil {
		return fmt.Errorf("start consuming orphan cleanups: %w", err)
	}
	logger.Info("worker started, waiting for cleanup messages")

	<-ctx.Done()
	logger.Info("shutdown signal received, stopping worker")
	return nil
}

// orphanCleanupHandler удаляет файл; ошибка вернёт сообщение в очередь
func orphanCleanupHandler(photoStore ports.PhotoStore, logger *slog.Logger) func(context.Context, payloads.OrphanCleanupPayload) error {
	return func(ctx context.Context, payload payloads.OrphanCleanupPayload) error {
		if err := photoStore.Delete(ctx, payload.Path); err != nil {
			logger.Warn("orphan cleanup failed",
				"path", payload.Path,
				"reason", payload.Reason,
				"error", err,
			)
			return err
		}
		logger.Info("orphan file removed", "path", payload.Path, "reason", payload.Reason)
		return nil
	}
}
