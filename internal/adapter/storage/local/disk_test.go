package local

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/GoArmGo/CatsApp/internal/domain"
	"github.com/GoArmGo/CatsApp/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDisk(t *testing.T) (*Disk, string) {
	t.Helper()
	root := t.TempDir()
	d, err := NewDisk(root, "cats", "http://localhost:8080", logger.Discard())
	require.NoError(t, err)
	return d, root
}

func TestDisk_StoreOpenDelete(t *testing.T) {
	d, root := newTestDisk(t)
	ctx := context.Background()

	key, err := d.Store(ctx, []byte("meow"), "cat1.jpg", "image/jpeg")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(key, "cats/"))
	assert.True(t, strings.HasSuffix(key, ".jpg"))

	onDisk, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(key)))
	require.NoError(t, err)
	assert.Equal(t, "meow", string(onDisk))

	rc, err := d.Open(ctx, key)
	require.NoError(t, err)
	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, "meow", string(body))

	require.NoError(t, d.Delete(ctx, key))

	_, err = d.Open(ctx, key)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestDisk_DeleteIsIdempotent(t *testing.T) {
	d, _ := newTestDisk(t)
	ctx := context.Background()

	key, err := d.Store(ctx, []byte("meow"), "cat.png", "image/png")
	require.NoError(t, err)

	require.NoError(t, d.Delete(ctx, key))
	assert.NoError(t, d.Delete(ctx, key))
	assert.NoError(t, d.Delete(ctx, "cats/never-existed.png"))
}

func TestDisk_RejectsTraversal(t *testing.T) {
	d, _ := newTestDisk(t)
	ctx := context.Background()

	err := d.Delete(ctx, "../../etc/passwd")
	var storageErr *domain.StorageError
	require.ErrorAs(t, err, &storageErr)
	assert.Equal(t, "delete", storageErr.Op)

	_, err = d.Open(ctx, "/etc/passwd")
	assert.ErrorAs(t, err, &storageErr)
}

func TestDisk_OpenDirectory(t *testing.T) {
	d, _ := newTestDisk(t)

	_, err := d.Open(context.Background(), "cats")
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestDisk_StoreCancelledContext(t *testing.T) {
	d, root := newTestDisk(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := d.Store(ctx, []byte("meow"), "cat.png", "image/png")
	assert.ErrorIs(t, err, context.Canceled)

	entries, err := os.ReadDir(filepath.Join(root, "cats"))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestDisk_PublicURL(t *testing.T) {
	d, _ := newTestDisk(t)
	assert.Equal(t, "http://localhost:8080/storage/cats/a.png", d.PublicURL("cats/a.png"))
}
