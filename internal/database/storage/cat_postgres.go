package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/GoArmGo/CatsApp/internal/domain"
)

// CatStorage реализует ports.CatStorage поверх sqlx.
// Запросы пишутся с плейсхолдерами "?" и переводятся под драйвер через Rebind.
type CatStorage struct {
	db     *sqlx.DB
	logger *slog.Logger
	now    func() time.Time
}

func NewCatStorage(db *sqlx.DB, logger *slog.Logger) *CatStorage {
	return &CatStorage{db: db, logger: logger, now: time.Now}
}

// CreateCat сохраняет новую запись с likes = 0
func (s *CatStorage) CreateCat(ctx context.Context, imagePath string) (*domain.Cat, error) {
	start := time.Now()

	now := s.now().UTC()
	cat := &domain.Cat{
		ImagePath: imagePath,
		Likes:     0,
		CreatedAt: now,
		UpdatedAt: now,
	}

	query := s.db.Rebind(`
	INSERT INTO cats (image_path, likes, created_at, updated_at)
	VALUES (?, ?, ?, ?)
	RETURNING id
	`)

	if err := s.db.QueryRowxContext(ctx, query, cat.ImagePath, cat.Likes, cat.CreatedAt, cat.UpdatedAt).Scan(&cat.ID); err != nil {
		s.logger.Error("failed to create cat", "image_path", imagePath, "error", err)
		return nil, fmt.Errorf("insert cat: %w", err)
	}

	s.logger.Info("cat created",
		"id", cat.ID,
		"image_path", cat.ImagePath,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return cat, nil
}

// ListCatsByRecency получает все записи, новые первыми
func (s *CatStorage) ListCatsByRecency(ctx context.Context) ([]domain.Cat, error) {
	start := time.Now()

	q := `
	SELECT id, image_path, likes, created_at, updated_at
	FROM cats
	ORDER BY created_at DESC, id DESC
	`

	cats := []domain.Cat{}
	if err := s.db.SelectContext(ctx, &cats, q); err != nil {
		s.logger.Error("failed to list cats", "error", err)
		return nil, fmt.Errorf("list cats: %w", err)
	}

	s.logger.Info("listed cats successfully",
		"count", len(cats),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return cats, nil
}

// GetCatByID получает запись по id
func (s *CatStorage) GetCatByID(ctx context.Context, id int64) (*domain.Cat, error) {
	start := time.Now()

	var cat domain.Cat
	query := s.db.Rebind(`SELECT id, image_path, likes, created_at, updated_at FROM cats WHERE id = ? LIMIT 1`)

	err := s.db.GetContext(ctx, &cat, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.logger.Warn("cat not found by id", "id", id)
			return nil, fmt.Errorf("get cat %d: %w", id, domain.ErrCatNotFound)
		}
		s.logger.Error("failed to get cat by id", "id", id, "error", err)
		return nil, fmt.Errorf("get cat %d: %w", id, err)
	}

	s.logger.Info("cat retrieved by id",
		"id", id,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return &cat, nil
}

// IncrementLikes увеличивает счётчик одним UPDATE, без чтения-модификации-записи
func (s *CatStorage) IncrementLikes(ctx context.Context, id int64) error {
	start := time.Now()

	query := s.db.Rebind(`UPDATE cats SET likes = likes + 1, updated_at = ? WHERE id = ?`)

	res, err := s.db.ExecContext(ctx, query, s.now().UTC(), id)
	if err != nil {
		s.logger.Error("failed to increment likes", "id", id, "error", err)
		return fmt.Errorf("increment likes for cat %d: %w", id, err)
	}

	if err := s.expectOneRow(res, id); err != nil {
		return fmt.Errorf("increment likes for cat %d: %w", id, err)
	}

	s.logger.Info("cat likes incremented",
		"id", id,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// DeleteCat удаляет запись
func (s *CatStorage) DeleteCat(ctx context.Context, id int64) error {
	start := time.Now()

	query := s.db.Rebind(`DELETE FROM cats WHERE id = ?`)

	res, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		s.logger.Error("failed to delete cat", "id", id, "error", err)
		return fmt.Errorf("delete cat %d: %w", id, err)
	}

	if err := s.expectOneRow(res, id); err != nil {
		return fmt.Errorf("delete cat %d: %w", id, err)
	}

	s.logger.Info("cat deleted",
		"id", id,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

func (s *CatStorage) expectOneRow(res sql.Result, id int64) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		s.logger.Warn("cat not found by id", "id", id)
		return domain.ErrCatNotFound
	}
	return nil
}
