package upload

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiskStorage_SaveAndRemove(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "images")
	store, err := NewDiskStorage(dir)
	require.NoError(t, err)
	ctx := context.Background()

	p, err := store.Save(ctx, "abc-cat.png", strings.NewReader("pngbytes"))
	require.NoError(t, err)
	assert.Equal(t, "images/abc-cat.png", p)

	data, err := os.ReadFile(filepath.Join(dir, "abc-cat.png"))
	require.NoError(t, err)
	assert.Equal(t, "pngbytes", string(data))

	require.NoError(t, store.Remove(ctx, p))
	_, err = os.Stat(filepath.Join(dir, "abc-cat.png"))
	assert.True(t, os.IsNotExist(err))
}

func TestDiskStorage_SaveStripsDirectoryComponents(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "images")
	store, err := NewDiskStorage(dir)
	require.NoError(t, err)

	p, err := store.Save(context.Background(), "../../etc/passwd", strings.NewReader("x"))
	require.NoError(t, err)
	assert.Equal(t, "images/passwd", p)

	_, err = os.Stat(filepath.Join(dir, "passwd"))
	assert.NoError(t, err)
}

func TestDiskStorage_RemoveMissingFileErrors(t *testing.T) {
	store, err := NewDiskStorage(filepath.Join(t.TempDir(), "images"))
	require.NoError(t, err)

	assert.Error(t, store.Remove(context.Background(), "images/ghost.png"))
}
