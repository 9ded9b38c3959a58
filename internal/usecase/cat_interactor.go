package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/GoArmGo/CatsApp/internal/core/ports"
	"github.com/GoArmGo/CatsApp/internal/domain"
	"github.com/GoArmGo/CatsApp/internal/messaging/payloads"
)

// catUseCase implements CatUseCase
type catUseCase struct {
	catStorage ports.CatStorage
	photoStore ports.PhotoStore
	cleanup    ports.OrphanCleanupPublisher
	rules      UploadRules
	logger     *slog.Logger
}

// NewCatUseCase создает новый экземпляр CatUseCase.
// cleanup может быть nil, тогда неудалённые файлы только логируются.
func NewCatUseCase(
	catStorage ports.CatStorage,
	photoStore ports.PhotoStore,
	cleanup ports.OrphanCleanupPublisher,
	rules UploadRules,
	logger *slog.Logger,
) CatUseCase {
	return &catUseCase{
		catStorage: catStorage,
		photoStore: photoStore,
		cleanup:    cleanup,
		rules:      rules,
		logger:     logger,
	}
}

// ListCats перечитывает список из бд
func (uc *catUseCase) ListCats(ctx context.Context) (*CatsView, error) {
	cats, err := uc.catStorage.ListCatsByRecency(ctx)
	if err != nil {
		return nil, fmt.Errorf("usecase: list cats: %w", err)
	}

	view := &CatsView{Cats: make([]CatView, 0, len(cats)), Total: len(cats)}
	for _, cat := range cats {
		view.Cats = append(view.Cats, CatView{
			ID:        cat.ID,
			ImagePath: cat.ImagePath,
			ImageURL:  uc.photoStore.PublicURL(cat.ImagePath),
			Likes:     cat.Likes,
			CreatedAt: cat.CreatedAt,
			UpdatedAt: cat.UpdatedAt,
		})
	}
	return view, nil
}

// SubmitUpload: валидация -> сохранение файла -> создание записи -> новый список
func (uc *catUseCase) SubmitUpload(ctx context.Context, upload *Upload) (*CatsView, error) {
	photo, err := uc.rules.Validate(upload)
	if err != nil {
		var validationErr *domain.ValidationError
		if errors.As(err, &validationErr) {
			uc.logger.Info("upload rejected", "rule", validationErr.Rule, "filename", uploadName(upload))
			return nil, err
		}
		return nil, fmt.Errorf("usecase: %w", err)
	}

	path, err := uc.photoStore.Store(ctx, photo.Content, photo.OriginalName, photo.ContentType)
	if err != nil {
		return nil, fmt.Errorf("usecase: store photo %q: %w", photo.OriginalName, err)
	}

	cat, err := uc.catStorage.CreateCat(ctx, path)
	if err != nil {
		// файл уже сохранён, записи нет: убираем файл, чтобы не оставлять сироту
		uc.removeOrphan(ctx, path, payloads.ReasonCreateFailed)
		return nil, fmt.Errorf("usecase: create cat for %s: %w", path, err)
	}

	uc.logger.Info("cat uploaded", "id", cat.ID, "image_path", cat.ImagePath, "bytes", len(photo.Content))
	return uc.ListCats(ctx)
}

// LikeCat увеличивает счётчик лайков
func (uc *catUseCase) LikeCat(ctx context.Context, id int64) (*CatsView, error) {
	if err := uc.catStorage.IncrementLikes(ctx, id); err != nil {
		return nil, fmt.Errorf("usecase: like cat %d: %w", id, err)
	}

	uc.logger.Info("cat liked", "id", id)
	return uc.ListCats(ctx)
}

// DeleteCat удаляет файл (ошибки проглатываются) и затем запись
func (uc *catUseCase) DeleteCat(ctx context.Context, id int64) (*CatsView, error) {
	cat, err := uc.catStorage.GetCatByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("usecase: delete cat %d: %w", id, err)
	}

	if cat.ImagePath != "" {
		uc.removeOrphan(ctx, cat.ImagePath, payloads.ReasonCatDeleted)
	}

	if err := uc.catStorage.DeleteCat(ctx, id); err != nil {
		return nil, fmt.Errorf("usecase: delete cat %d: %w", id, err)
	}

	uc.logger.Info("cat deleted", "id", id, "image_path", cat.ImagePath)
	return uc.ListCats(ctx)
}

// removeOrphan удаляет файл best-effort: ошибка логируется и,
// если настроена очередь, файл ставится на повторное удаление воркером
func (uc *catUseCase) removeOrphan(ctx context.Context, path, reason string) {
	err := uc.photoStore.Delete(ctx, path)
	if err == nil {
		return
	}

	uc.logger.Warn("failed to delete photo file", "path", path, "reason", reason, "error", err)
	if uc.cleanup == nil {
		return
	}

	payload := payloads.OrphanCleanupPayload{Path: path, Reason: reason}
	if pubErr := uc.cleanup.PublishOrphanCleanup(ctx, payload); pubErr != nil {
		uc.logger.Error("failed to enqueue photo cleanup", "path", path, "error", pubErr)
	}
}

func uploadName(upload *Upload) string {
	if upload == nil {
		return ""
	}
	return upload.Filename
}
