package storage

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/GoArmGo/CatsApp/internal/domain"
	"github.com/GoArmGo/CatsApp/internal/logger"
)

func setupTestCatStorage(t *testing.T) *CatStorage {
	t.Helper()

	db, err := sqlx.Open("sqlite", ":memory:")
	require.NoError(t, err)
	// каждое новое соединение к :memory: это отдельная пустая бд
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
		CREATE TABLE cats (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			image_path TEXT     NOT NULL,
			likes      INTEGER  NOT NULL DEFAULT 0 CHECK (likes >= 0),
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)
	`)
	require.NoError(t, err)

	s := NewCatStorage(db, logger.Discard())

	var mu sync.Mutex
	clock := time.Date(2025, 11, 3, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		clock = clock.Add(time.Second)
		return clock
	}
	return s
}

func TestCatStorage_CreateCat(t *testing.T) {
	s := setupTestCatStorage(t)
	ctx := context.Background()

	cat, err := s.CreateCat(ctx, "cats/a.jpg")
	require.NoError(t, err)
	assert.NotZero(t, cat.ID)
	assert.Equal(t, "cats/a.jpg", cat.ImagePath)
	assert.Equal(t, 0, cat.Likes)

	got, err := s.GetCatByID(ctx, cat.ID)
	require.NoError(t, err)
	assert.Equal(t, cat.ID, got.ID)
	assert.Equal(t, "cats/a.jpg", got.ImagePath)
	assert.Equal(t, 0, got.Likes)
	assert.True(t, cat.CreatedAt.Equal(got.CreatedAt), "created_at %v != %v", cat.CreatedAt, got.CreatedAt)
}

func TestCatStorage_ListCatsByRecency(t *testing.T) {
	s := setupTestCatStorage(t)
	ctx := context.Background()

	empty, err := s.ListCatsByRecency(ctx)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	const n = 5
	var ids []int64
	for i := 0; i < n; i++ {
		cat, err := s.CreateCat(ctx, fmt.Sprintf("cats/%d.png", i))
		require.NoError(t, err)
		ids = append(ids, cat.ID)
	}

	cats, err := s.ListCatsByRecency(ctx)
	require.NoError(t, err)
	require.Len(t, cats, n)
	for i, cat := range cats {
		assert.Equal(t, ids[n-1-i], cat.ID, "position %d", i)
	}
}

func TestCatStorage_ListCatsByRecency_SameTimestamp(t *testing.T) {
	s := setupTestCatStorage(t)
	ctx := context.Background()
	fixed := time.Date(2025, 11, 3, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	first, err := s.CreateCat(ctx, "cats/1.png")
	require.NoError(t, err)
	second, err := s.CreateCat(ctx, "cats/2.png")
	require.NoError(t, err)

	cats, err := s.ListCatsByRecency(ctx)
	require.NoError(t, err)
	require.Len(t, cats, 2)
	assert.Equal(t, second.ID, cats[0].ID)
	assert.Equal(t, first.ID, cats[1].ID)
}

func TestCatStorage_IncrementLikes(t *testing.T) {
	s := setupTestCatStorage(t)
	ctx := context.Background()

	cat, err := s.CreateCat(ctx, "cats/a.gif")
	require.NoError(t, err)

	require.NoError(t, s.IncrementLikes(ctx, cat.ID))
	require.NoError(t, s.IncrementLikes(ctx, cat.ID))

	got, err := s.GetCatByID(ctx, cat.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Likes)
	assert.Equal(t, "cats/a.gif", got.ImagePath)
	assert.True(t, got.UpdatedAt.After(got.CreatedAt))

	err = s.IncrementLikes(ctx, cat.ID+100)
	assert.ErrorIs(t, err, domain.ErrCatNotFound)
}

func TestCatStorage_DeleteCat(t *testing.T) {
	s := setupTestCatStorage(t)
	ctx := context.Background()

	cat, err := s.CreateCat(ctx, "cats/a.webp")
	require.NoError(t, err)

	require.NoError(t, s.DeleteCat(ctx, cat.ID))

	_, err = s.GetCatByID(ctx, cat.ID)
	assert.ErrorIs(t, err, domain.ErrCatNotFound)

	err = s.DeleteCat(ctx, cat.ID)
	assert.ErrorIs(t, err, domain.ErrCatNotFound)
}

func TestCatStorage_GetCatByID_NotFound(t *testing.T) {
	s := setupTestCatStorage(t)

	_, err := s.GetCatByID(context.Background(), 42)
	assert.ErrorIs(t, err, domain.ErrCatNotFound)
}
