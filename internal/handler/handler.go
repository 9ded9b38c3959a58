package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/GoArmGo/CatsApp/internal/domain"
	"github.com/GoArmGo/CatsApp/internal/usecase"
)

// запас на заголовки multipart сверх размера самого файла
const multipartOverhead = 1 << 20

// память под multipart-форму, остальное уходит во временные файлы
const multipartMemory = 8 << 20

// CatHandler — обработчик HTTP-запросов для работы с котами.
type CatHandler struct {
	catUseCase    usecase.CatUseCase
	rules         usecase.UploadRules
	uploadLimiter chan struct{}
	logger        *slog.Logger
}

// NewCatHandler создаёт новый экземпляр CatHandler.
func NewCatHandler(
	uc usecase.CatUseCase,
	rules usecase.UploadRules,
	limiter chan struct{},
	logger *slog.Logger,
) *CatHandler {
	return &CatHandler{
		catUseCase:    uc,
		rules:         rules,
		uploadLimiter: limiter,
		logger:        logger,
	}
}

// respondWithJSON — отправляет JSON-ответ клиенту.
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}, logger *slog.Logger) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		logger.Error("failed to marshal JSON response", "error", err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err = w.Write(response); err != nil {
		logger.Error("failed to write HTTP response", "error", err)
	}
}

// respondWithError — отправляет JSON-ответ с ошибкой.
func respondWithError(w http.ResponseWriter, code int, message string, logger *slog.Logger) {
	respondWithJSON(w, code, map[string]string{"error": message}, logger)
}

// respondWithUseCaseError переводит ошибку бизнес-логики в HTTP-ответ
func (h *CatHandler) respondWithUseCaseError(w http.ResponseWriter, r *http.Request, err error) {
	var validationErr *domain.ValidationError
	switch {
	case errors.As(err, &validationErr):
		respondWithJSON(w, http.StatusUnprocessableEntity, map[string]map[string]string{
			"errors": {validationErr.Field: validationErr.Message},
		}, h.logger)
	case errors.Is(err, domain.ErrCatNotFound):
		h.logger.Warn("cat not found", "path", r.URL.Path, "error", err)
		respondWithError(w, http.StatusNotFound, "Cat not found", h.logger)
	default:
		h.logger.Error("request failed", "path", r.URL.Path, "error", err)
		respondWithError(w, http.StatusInternalServerError, "Operation failed, please try again", h.logger)
	}
}

// ListCats — возвращает список котов, новые первыми.
func (h *CatHandler) ListCats(w http.ResponseWriter, r *http.Request) {
	view, err := h.catUseCase.ListCats(r.Context())
	if err != nil {
		h.respondWithUseCaseError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, view, h.logger)
}

// UploadCat — принимает фото из поля формы photo.
func (h *CatHandler) UploadCat(w http.ResponseWriter, r *http.Request) {
	release, ok := h.acquireUploadSlot(r)
	if !ok {
		respondWithError(w, http.StatusServiceUnavailable, "Too many uploads in progress", h.logger)
		return
	}
	defer release()

	view, err := h.submitUpload(w, r)
	if err != nil {
		h.respondWithUseCaseError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, view, h.logger)
}

// LikeCat — увеличивает счётчик лайков.
func (h *CatHandler) LikeCat(w http.ResponseWriter, r *http.Request) {
	id, ok := parseCatID(r)
	if !ok {
		respondWithError(w, http.StatusBadRequest, "Invalid cat id", h.logger)
		return
	}

	view, err := h.catUseCase.LikeCat(r.Context(), id)
	if err != nil {
		h.respondWithUseCaseError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, view, h.logger)
}

// DeleteCat — удаляет кота вместе с фотографией.
func (h *CatHandler) DeleteCat(w http.ResponseWriter, r *http.Request) {
	id, ok := parseCatID(r)
	if !ok {
		respondWithError(w, http.StatusBadRequest, "Invalid cat id", h.logger)
		return
	}

	view, err := h.catUseCase.DeleteCat(r.Context(), id)
	if err != nil {
		h.respondWithUseCaseError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, view, h.logger)
}

// acquireUploadSlot занимает место в лимитере загрузок, ожидая не дольше контекста запроса
func (h *CatHandler) acquireUploadSlot(r *http.Request) (func(), bool) {
	if h.uploadLimiter == nil {
		return func() {}, true
	}
	select {
	case h.uploadLimiter <- struct{}{}:
		return func() { <-h.uploadLimiter }, true
	case <-r.Context().Done():
		h.logger.Warn("upload slot wait aborted", "error", r.Context().Err())
		return nil, false
	}
}

// submitUpload разбирает multipart-форму и передаёт файл в usecase
func (h *CatHandler) submitUpload(w http.ResponseWriter, r *http.Request) (*usecase.CatsView, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.rules.MaxBytes+multipartOverhead)

	upload, cleanup, err := h.readUpload(r)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	return h.catUseCase.SubmitUpload(r.Context(), upload)
}

// readUpload достаёт файл из поля photo; отсутствие файла даёт nil без ошибки
func (h *CatHandler) readUpload(r *http.Request) (*usecase.Upload, func(), error) {
	noop := func() {}

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr), errors.Is(err, multipart.ErrMessageTooLarge):
			return nil, noop, h.rules.TooLarge()
		case errors.Is(err, http.ErrNotMultipart), errors.Is(err, http.ErrMissingBoundary):
			return nil, noop, nil
		default:
			return nil, noop, err
		}
	}

	cleanup := func() {
		if err := r.MultipartForm.RemoveAll(); err != nil {
			h.logger.Warn("failed to remove multipart temp files", "error", err)
		}
	}

	file, header, err := r.FormFile(usecase.PhotoField)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, cleanup, nil
		}
		return nil, cleanup, err
	}

	h.logger.Debug("received an image",
		"filename", header.Filename,
		"size", header.Size,
		"content_type", header.Header.Get("Content-Type"),
	)

	return &usecase.Upload{Filename: header.Filename, Size: header.Size, Content: file}, func() {
		_ = file.Close()
		cleanup()
	}, nil
}

func parseCatID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
