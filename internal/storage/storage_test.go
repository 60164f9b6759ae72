package storage

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorageRoundTrip(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	content := []byte("%PDF-1.4 test artifact")
	ref, size, err := s.Upload(context.Background(), "estimate-EST-2026-001.pdf", "application/pdf", bytes.NewReader(content))
	require.NoError(t, err)
	assert.Equal(t, int64(len(content)), size)
	assert.True(t, strings.HasSuffix(ref, ".pdf"))

	rc, err := s.Download(context.Background(), ref)
	require.NoError(t, err)
	defer rc.Close()

	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, content, got)
}

func TestLocalStorageDownloadMissing(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	_, err = s.Download(context.Background(), "ab/cd/missing.pdf")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLocalStorageDeleteIsIdempotent(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	ref, _, err := s.Upload(context.Background(), "a.pdf", "application/pdf", strings.NewReader("x"))
	require.NoError(t, err)

	require.NoError(t, s.Delete(context.Background(), ref))
	assert.NoError(t, s.Delete(context.Background(), ref))

	_, err = s.Download(context.Background(), ref)
	assert.ErrorIs(t, err, ErrNotFound)
}
