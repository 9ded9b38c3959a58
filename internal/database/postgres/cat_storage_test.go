package postgres

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/GoArmGo/CatsApp/internal/domain"
	"github.com/GoArmGo/CatsApp/internal/logger"
)

func setupTestGormStorage(t *testing.T) *GormCatStorage {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&domain.Cat{}))

	s := NewGormCatStorage(db, logger.Discard())
	clock := time.Date(2025, 11, 3, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	return s
}

func TestGormCatStorage_CreateAndGet(t *testing.T) {
	s := setupTestGormStorage(t)
	ctx := context.Background()

	cat, err := s.CreateCat(ctx, "cats/a.jpg")
	require.NoError(t, err)
	assert.NotZero(t, cat.ID)
	assert.Equal(t, 0, cat.Likes)

	got, err := s.GetCatByID(ctx, cat.ID)
	require.NoError(t, err)
	assert.Equal(t, "cats/a.jpg", got.ImagePath)
	assert.Equal(t, 0, got.Likes)
}

func TestGormCatStorage_ListCatsByRecency(t *testing.T) {
	s := setupTestGormStorage(t)
	ctx := context.Background()

	var ids []int64
	for i := 0; i < 3; i++ {
		cat, err := s.CreateCat(ctx, fmt.Sprintf("cats/%d.png", i))
		require.NoError(t, err)
		ids = append(ids, cat.ID)
	}

	cats, err := s.ListCatsByRecency(ctx)
	require.NoError(t, err)
	require.Len(t, cats, 3)
	assert.Equal(t, []int64{ids[2], ids[1], ids[0]}, []int64{cats[0].ID, cats[1].ID, cats[2].ID})
}

func TestGormCatStorage_IncrementLikes(t *testing.T) {
	s := setupTestGormStorage(t)
	ctx := context.Background()

	cat, err := s.CreateCat(ctx, "cats/a.png")
	require.NoError(t, err)

	require.NoError(t, s.IncrementLikes(ctx, cat.ID))
	require.NoError(t, s.IncrementLikes(ctx, cat.ID))

	got, err := s.GetCatByID(ctx, cat.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Likes)
	assert.Equal(t, "cats/a.png", got.ImagePath)

	assert.ErrorIs(t, s.IncrementLikes(ctx, 999), domain.ErrCatNotFound)
}

func TestGormCatStorage_DeleteCat(t *testing.T) {
	s := setupTestGormStorage(t)
	ctx := context.Background()

	cat, err := s.CreateCat(ctx, "cats/a.png")
	require.NoError(t, err)

	require.NoError(t, s.DeleteCat(ctx, cat.ID))

	_, err = s.GetCatByID(ctx, cat.ID)
	assert.ErrorIs(t, err, domain.ErrCatNotFound)
	assert.ErrorIs(t, s.DeleteCat(ctx, cat.ID), domain.ErrCatNotFound)
}
