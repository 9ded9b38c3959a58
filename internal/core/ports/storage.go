package ports

import (
	"context"
	"io"

	"github.com/GoArmGo/CatsApp/internal/domain"
)

// CatStorage определяет методы для работы с записями котов в бд
type CatStorage interface {
	// CreateCat создаёт запись с likes = 0
	CreateCat(ctx context.Context, imagePath string) (*domain.Cat, error)
	// ListCatsByRecency возвращает все записи, новые первыми
	ListCatsByRecency(ctx context.Context) ([]domain.Cat, error)
	// GetCatByID возвращает domain.ErrCatNotFound, если записи нет
	GetCatByID(ctx context.Context, id int64) (*domain.Cat, error)
	// IncrementLikes атомарно увеличивает likes на 1
	IncrementLikes(ctx context.Context, id int64) error
	DeleteCat(ctx context.Context, id int64) error
}

// PhotoStore определяет интерфейс файлового хранилища фотографий (локальный диск, S3, MinIO)
type PhotoStore interface {
	// Store сохраняет файл в бакете и возвращает относительный путь
	Store(ctx context.Context, content []byte, originalName, contentType string) (string, error)
	// Delete удаляет файл; отсутствие файла ошибкой не считается
	Delete(ctx context.Context, path string) error
	// Open открывает сохранённый файл для отдачи клиенту
	Open(ctx context.Context, path string) (io.ReadCloser, error)
	// PublicURL возвращает публичный URL вида {base}/storage/{path}
	PublicURL(path string) string
}
