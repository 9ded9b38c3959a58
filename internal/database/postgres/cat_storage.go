package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/GoArmGo/CatsApp/internal/domain"
)

// GormCatStorage реализует интерфейс ports.CatStorage с использованием GORM
type GormCatStorage struct {
	db     *gorm.DB
	logger *slog.Logger
	now    func() time.Time
}

// NewGormCatStorage создает новый экземпляр GormCatStorage
func NewGormCatStorage(db *gorm.DB, logger *slog.Logger) *GormCatStorage {
	return &GormCatStorage{db: db, logger: logger, now: time.Now}
}

// CreateCat сохраняет новую запись с likes = 0 с помощью GORM
func (s *GormCatStorage) CreateCat(ctx context.Context, imagePath string) (*domain.Cat, error) {
	start := time.Now()

	now := s.now().UTC()
	cat := &domain.Cat{
		ImagePath: imagePath,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.db.WithContext(ctx).Create(cat).Error; err != nil {
		s.logger.Error("failed to create cat", "image_path", imagePath, "error", err)
		return nil, fmt.Errorf("insert cat with gorm: %w", err)
	}

	s.logger.Info("cat created",
		"id", cat.ID,
		"image_path", cat.ImagePath,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return cat, nil
}

// ListCatsByRecency получает все записи, новые первыми
func (s *GormCatStorage) ListCatsByRecency(ctx context.Context) ([]domain.Cat, error) {
	start := time.Now()

	cats := []domain.Cat{}
	result := s.db.WithContext(ctx).
		Order("created_at DESC").
		Order("id DESC").
		Find(&cats)

	if result.Error != nil {
		s.logger.Error("failed to list cats", "error", result.Error)
		return nil, fmt.Errorf("list cats with gorm: %w", result.Error)
	}

	s.logger.Info("listed cats successfully",
		"count", len(cats),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return cats, nil
}

// GetCatByID получает запись по id с помощью GORM
func (s *GormCatStorage) GetCatByID(ctx context.Context, id int64) (*domain.Cat, error) {
	var cat domain.Cat
	result := s.db.WithContext(ctx).First(&cat, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			s.logger.Warn("cat not found by id", "id", id)
			return nil, fmt.Errorf("get cat %d: %w", id, domain.ErrCatNotFound)
		}
		s.logger.Error("failed to get cat by id", "id", id, "error", result.Error)
		return nil, fmt.Errorf("get cat %d with gorm: %w", id, result.Error)
	}
	return &cat, nil
}

// IncrementLikes увеличивает likes выражением likes + 1 на стороне бд
func (s *GormCatStorage) IncrementLikes(ctx context.Context, id int64) error {
	start := time.Now()

	result := s.db.WithContext(ctx).
		Model(&domain.Cat{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"likes":      gorm.Expr("likes + ?", 1),
			"updated_at": s.now().UTC(),
		})

	if result.Error != nil {
		s.logger.Error("failed to increment likes", "id", id, "error", result.Error)
		return fmt.Errorf("increment likes for cat %d with gorm: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		s.logger.Warn("cat not found by id", "id", id)
		return fmt.Errorf("increment likes for cat %d: %w", id, domain.ErrCatNotFound)
	}

	s.logger.Info("cat likes incremented", "id", id, "duration_ms", time.Since(start).Milliseconds())
	return nil
}

// DeleteCat удаляет запись с помощью GORM
func (s *GormCatStorage) DeleteCat(ctx context.Context, id int64) error {
	start := time.Now()

	result := s.db.WithContext(ctx).Delete(&domain.Cat{}, "id = ?", id)
	if result.Error != nil {
		s.logger.Error("failed to delete cat", "id", id, "error", result.Error)
		return fmt.Errorf("delete cat %d with gorm: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		s.logger.Warn("cat not found by id", "id", id)
		return fmt.Errorf("delete cat %d: %w", id, domain.ErrCatNotFound)
	}

	s.logger.Info("cat deleted", "id", id, "duration_ms", time.Since(start).Milliseconds())
	return nil
}
