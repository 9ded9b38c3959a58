package ports

import (
	"context"

	"github.com/GoArmGo/CatsApp/internal/messaging/payloads"
)

// OrphanCleanupPublisher публикует задачи на удаление файлов,
// которые не удалось удалить синхронно
type OrphanCleanupPublisher interface {
	PublishOrphanCleanup(ctx context.Context, payload payloads.OrphanCleanupPayload) error
}

// OrphanCleanupConsumer используется воркером для получения задач из очереди
type OrphanCleanupConsumer interface {
	// StartConsumingOrphanCleanups начинает прослушивание очереди,
	// handler вызывается для каждого полученного сообщения
	StartConsumingOrphanCleanups(ctx context.Context, handler func(context.Context, payloads.OrphanCleanupPayload) error) error
}
