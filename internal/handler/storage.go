package handler

import (
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"mime"
	"net/http"
	"path"

	"github.com/go-chi/chi/v5"

	"github.com/GoArmGo/CatsApp/internal/adapter/storage"
	"github.com/GoArmGo/CatsApp/internal/core/ports"
)

// StorageHandler отдаёт сохранённые фотографии по публичному пути /storage/*
type StorageHandler struct {
	photoStore ports.PhotoStore
	logger     *slog.Logger
}

func NewStorageHandler(photoStore ports.PhotoStore, logger *slog.Logger) *StorageHandler {
	return &StorageHandler{photoStore: photoStore, logger: logger}
}

// ServePhoto — стримит файл из хранилища.
func (h *StorageHandler) ServePhoto(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "*")

	rc, err := h.photoStore.Open(r.Context(), key)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, storage.ErrInvalidKey) {
			http.NotFound(w, r)
			return
		}
		h.logger.Error("failed to open stored photo", "path", key, "error", err)
		http.Error(w, "failed to read photo", http.StatusInternalServerError)
		return
	}
	defer rc.Close()

	if ct := mime.TypeByExtension(path.Ext(key)); ct != "" {
		w.Header().Set("Content-Type", ct)
	}
	// ключи уникальны и файлы не переписываются
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	w.Header().Set("X-Content-Type-Options", "nosniff")

	if _, err := io.Copy(w, rc); err != nil {
		h.logger.Warn("failed to stream photo", "path", key, "error", err)
	}
}
