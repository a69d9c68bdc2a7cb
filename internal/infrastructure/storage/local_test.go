package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newLocal(t *testing.T) (*LocalStorage, string) {
	t.Helper()
	root := t.TempDir()
	s, err := NewLocalStorage(root, zap.NewNop())
	require.NoError(t, err)
	return s, root
}

func TestLocalStorage_SaveOpenDelete(t *testing.T) {
	s, root := newLocal(t)
	ctx := context.Background()
	key := "pdfs/2026/10/16/report.pdf"

	require.NoError(t, s.Save(ctx, key, []byte("%PDF-1.4"), "application/pdf"))

	ok, err := s.Exists(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)

	r, err := s.Open(ctx, key)
	require.NoError(t, err)
	data, err := io.ReadAll(r)
	require.NoError(t, r.Close())
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(data))

	u, err := s.URL(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "pdfs", "2026", "10", "16", "report.pdf"), u)

	require.NoError(t, s.Delete(ctx, key))
	ok, err = s.Exists(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)

	assert.ErrorIs(t, s.Delete(ctx, key), ErrObjectNotFound)
	_, err = s.Open(ctx, key)
	assert.ErrorIs(t, err, ErrObjectNotFound)
}

func TestLocalStorage_RejectsEscapingKeys(t *testing.T) {
	s, _ := newLocal(t)
	ctx := context.Background()

	assert.ErrorIs(t, s.Save(ctx, "../outside.pdf", nil, ""), ErrInvalidKey)
	assert.ErrorIs(t, s.Save(ctx, "  ", nil, ""), ErrInvalidKey)
	_, err := s.Exists(ctx, "pdfs/../../x")
	assert.ErrorIs(t, err, ErrInvalidKey)
}

func TestLocalStorage_List(t *testing.T) {
	s, root := newLocal(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "pdfs/2026/01/01/a.pdf", []byte("a"), ""))
	require.NoError(t, s.Save(ctx, "pdfs/2026/01/02/b.pdf", []byte("bb"), ""))
	require.NoError(t, s.Save(ctx, "other/c.txt", []byte("c"), ""))

	old := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(filepath.Join(root, "pdfs", "2026", "01", "01", "a.pdf"), old, old))

	objs, err := s.List(ctx, "pdfs/")
	require.NoError(t, err)
	require.Len(t, objs, 2)

	byKey := map[string]ObjectInfo{}
	for _, o := range objs {
		byKey[o.Key] = o
	}
	assert.Equal(t, int64(2), byKey["pdfs/2026/01/02/b.pdf"].Size)
	assert.WithinDuration(t, old, byKey["pdfs/2026/01/01/a.pdf"].ModifiedAt, time.Second)

	none, err := s.List(ctx, "missing/")
	require.NoError(t, err)
	assert.Empty(t, none)
}
