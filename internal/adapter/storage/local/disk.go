// Package local реализует PhotoStore поверх локальной файловой системы
// (публичный диск, файлы отдаются сервером по /storage/*).
package local

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/GoArmGo/CatsApp/internal/adapter/storage"
	"github.com/GoArmGo/CatsApp/internal/domain"
)

// Disk хранит фотографии в каталоге root/<bucket>/...
type Disk struct {
	root    string
	bucket  string
	baseURL string
	logger  *slog.Logger
}

// NewDisk создаёт хранилище и каталог бакета, если его нет
func NewDisk(root, bucket, baseURL string, logger *slog.Logger) (*Disk, error) {
	if root == "" || bucket == "" {
		return nil, &domain.StorageError{Op: "init", Err: errors.New("root and bucket must be set")}
	}

	if err := os.MkdirAll(filepath.Join(root, bucket), 0o755); err != nil {
		return nil, &domain.StorageError{Op: "init", Path: bucket, Err: err}
	}

	logger.Info("local photo store ready", "root", root, "bucket", bucket)
	return &Disk{root: root, bucket: bucket, baseURL: baseURL, logger: logger}, nil
}

// Store записывает файл под сгенерированным именем и возвращает относительный путь
func (d *Disk) Store(ctx context.Context, content []byte, originalName, contentType string) (string, error) {
	start := time.Now()
	if err := ctx.Err(); err != nil {
		return "", &domain.StorageError{Op: "store", Err: err}
	}

	key := storage.NewObjectKey(d.bucket, originalName, contentType)
	full := d.fullPath(key)

	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", &domain.StorageError{Op: "store", Path: key, Err: err}
	}

	// O_EXCL: не перезаписываем существующий файл при коллизии имён
	f, err := os.OpenFile(full, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", &domain.StorageError{Op: "store", Path: key, Err: err}
	}

	if _, err := f.Write(content); err != nil {
		_ = f.Close()
		_ = os.Remove(full)
		return "", &domain.StorageError{Op: "store", Path: key, Err: err}
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(full)
		return "", &domain.StorageError{Op: "store", Path: key, Err: err}
	}

	d.logger.Info("photo stored",
		"path", key,
		"original_name", originalName,
		"bytes", len(content),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return key, nil
}

// Delete удаляет файл, отсутствие файла не является ошибкой
func (d *Disk) Delete(ctx context.Context, key string) error {
	clean, err := storage.CleanKey(key)
	if err != nil {
		return &domain.StorageError{Op: "delete", Path: key, Err: err}
	}

	if err := os.Remove(d.fullPath(clean)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			d.logger.Debug("photo already absent", "path", clean)
			return nil
		}
		return &domain.StorageError{Op: "delete", Path: clean, Err: err}
	}

	d.logger.Info("photo deleted", "path", clean)
	return nil
}

// Open открывает файл на чтение
func (d *Disk) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	clean, err := storage.CleanKey(key)
	if err != nil {
		return nil, &domain.StorageError{Op: "open", Path: key, Err: err}
	}

	f, err := os.Open(d.fullPath(clean))
	if err != nil {
		return nil, &domain.StorageError{Op: "open", Path: clean, Err: err}
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, &domain.StorageError{Op: "open", Path: clean, Err: err}
	}
	if info.IsDir() {
		_ = f.Close()
		return nil, &domain.StorageError{Op: "open", Path: clean, Err: fmt.Errorf("%w: is a directory", fs.ErrNotExist)}
	}
	return f, nil
}

// PublicURL возвращает {base}/storage/{path}
func (d *Disk) PublicURL(key string) string {
	return storage.PublicURL(d.baseURL, key)
}

func (d *Disk) fullPath(key string) string {
	return filepath.Join(d.root, filepath.FromSlash(key))
}
