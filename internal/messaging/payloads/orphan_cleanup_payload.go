package payloads

// Причины, по которым файл попал в очередь на удаление
const (
	ReasonCatDeleted   = "cat_deleted"
	ReasonCreateFailed = "create_failed"
)

// OrphanCleanupPayload описывает файл в хранилище, который нужно удалить через RabbitMQ.
type OrphanCleanupPayload struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}
