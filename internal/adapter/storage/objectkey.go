// Package storage содержит общие для реализаций PhotoStore функции:
// генерацию ключей объектов и построение публичных URL.
package storage

import (
	"errors"
	"path"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// PublicPrefix это путь, по которому сервер отдаёт загруженные файлы
const PublicPrefix = "/storage/"

// ErrInvalidKey возвращается для путей, выходящих за пределы бакета
var ErrInvalidKey = errors.New("invalid object key")

// NewObjectKey генерирует ключ вида "<bucket>/<uuid><ext>".
// Расширение берётся из MIME-типа, иначе из исходного имени файла.
func NewObjectKey(bucket, originalName, contentType string) string {
	return path.Join(bucket, uuid.NewString()+extension(originalName, contentType))
}

func extension(originalName, contentType string) string {
	if contentType != "" {
		if m := mimetype.Lookup(contentType); m != nil && m.Extension() != "" {
			return m.Extension()
		}
	}
	return strings.ToLower(filepath.Ext(originalName))
}

// CleanKey нормализует относительный путь и отклоняет абсолютные пути и выход через "..".
func CleanKey(key string) (string, error) {
	if key == "" || strings.Contains(key, "\\") {
		return "", ErrInvalidKey
	}
	if path.IsAbs(key) {
		return "", ErrInvalidKey
	}
	clean := path.Clean(key)
	if clean == "." || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", ErrInvalidKey
	}
	return clean, nil
}

// PublicURL строит URL по соглашению {base}/storage/{path}
func PublicURL(baseURL, key string) string {
	return strings.TrimRight(baseURL, "/") + PublicPrefix + strings.TrimLeft(key, "/")
}
